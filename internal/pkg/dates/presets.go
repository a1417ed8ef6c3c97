package dates

import (
	"fmt"
	"strings"
	"time"
)

type PresetName string

const (
	PresetToday     PresetName = "Today"
	PresetYesterday PresetName = "Yesterday"
	PresetThisWeek  PresetName = "This Week"
	PresetThisMonth PresetName = "This Month"
)

// Preset is an inclusive calendar-day range.
type Preset struct {
	Name     PresetName
	FromDate string
	ToDate   string
}

// Presets computes every range relative to now. Weeks start on Sunday; the
// week and month ranges end today.
func Presets(now time.Time) []Preset {
	today := Format(now)
	yesterday := Format(dateOnly(now).AddDate(0, 0, -1))
	return []Preset{
		{Name: PresetToday, FromDate: today, ToDate: today},
		{Name: PresetYesterday, FromDate: yesterday, ToDate: yesterday},
		{Name: PresetThisWeek, FromDate: Format(weekStart(now)), ToDate: today},
		{Name: PresetThisMonth, FromDate: Format(monthStart(now)), ToDate: today},
	}
}

// PresetByName matches case-insensitively and also accepts "this-week" style slugs.
func PresetByName(name string, now time.Time) (Preset, error) {
	want := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "-", " "))
	for _, p := range Presets(now) {
		if strings.ToLower(string(p.Name)) == want {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown date preset %q", name)
}
