package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/cmlabs-hris/hrms-lite/internal/client/keepalive"
	"github.com/cmlabs-hris/hrms-lite/internal/domain/dashboard"
)

func (a *app) dashboard(ctx context.Context) error {
	var stats dashboard.Stats
	if err := a.api.Get(ctx, "/api/v1/dashboard", nil, &stats); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Employees:        %d\n", stats.TotalEmployees)
	fmt.Fprintf(a.out, "Present today:    %d\n", stats.TodayPresent)
	fmt.Fprintf(a.out, "Absent today:     %d\n", stats.TodayAbsent)
	fmt.Fprintf(a.out, "Attendance rate:  %s%%\n", stats.AttendanceRate.StringFixed(1))

	if len(stats.RecentActivity) == 0 {
		return nil
	}
	fmt.Fprintln(a.out, "\nRecent activity:")
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, act := range stats.RecentActivity {
		fmt.Fprintf(tw, "%s\t%s (%s)\t%s\n", act.Date, act.EmployeeName, act.EmployeeEmployeeID, act.Status)
	}
	return tw.Flush()
}

func (a *app) keepalive(ctx context.Context) error {
	poller := keepalive.New(ctx, a.api, a.cfg.HealthInterval)
	poller.Start()
	fmt.Fprintf(a.out, "Probing %s/health every %s (Ctrl+C to stop)\n", a.cfg.APIBaseURL, a.cfg.HealthInterval)

	<-poller.Done()
	poller.Stop()
	fmt.Fprintf(a.out, "Stopped after %d probes (%d failed)\n", poller.Probes(), poller.Failures())
	return nil
}
