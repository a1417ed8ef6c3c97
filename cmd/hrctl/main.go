// Command hrctl is the operator CLI for the HRMS backend: directory
// management, daily attendance marking and history export.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cmlabs-hris/hrms-lite/internal/client/gateway"
	"github.com/cmlabs-hris/hrms-lite/internal/client/store"
	"github.com/cmlabs-hris/hrms-lite/internal/config"
)

const usage = `usage: hrctl <command> [flags]

commands:
  employees list [-search q]
  employees find            (queries read from stdin, one per line)
  employees add -id ID -name NAME -email EMAIL -dept DEPARTMENT
  employees delete -id N [-yes]
  attendance pending [-date YYYY-MM-DD]
  attendance mark -employee KEY -status Present|Absent [-date YYYY-MM-DD]
  attendance bulk -status Present|Absent [-date YYYY-MM-DD] [-yes]
  attendance history [-employee KEY] [-dept D]... [-from D] [-to D] [-preset P] [-export file.xlsx]
  dashboard
  keepalive
`

var errUsage = errors.New("invalid usage")

type app struct {
	cfg        *config.ClientConfig
	api        *gateway.Client
	employees  *store.Employees
	attendance *store.Attendance
	in         io.Reader
	out        io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, in io.Reader, out, errOut io.Writer) int {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(errOut, "config: %v\n", err)
		return 1
	}

	level, _ := config.ParseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := gateway.New(cfg.APIBaseURL, gateway.WithTimeout(cfg.RequestTimeout))
	a := &app{
		cfg:        cfg,
		api:        api,
		employees:  store.NewEmployees(api),
		attendance: store.NewAttendance(api),
		in:         in,
		out:        out,
	}

	if err := a.dispatch(ctx, args); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(errOut, usage)
			return 2
		}
		fmt.Fprintf(errOut, "error: %s\n", describe(err))
		return 1
	}
	return 0
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "employees":
		return a.employeesCmd(ctx, args[1:])
	case "attendance":
		return a.attendanceCmd(ctx, args[1:])
	case "dashboard":
		return a.dashboard(ctx)
	case "keepalive":
		return a.keepalive(ctx)
	default:
		return errUsage
	}
}

// describe prefixes gateway errors with their class so operators can tell a
// rejected request from an unreachable backend.
func describe(err error) string {
	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	switch apiErr.Kind() {
	case gateway.KindNetwork:
		return "backend unreachable: " + apiErr.Message
	case gateway.KindBusiness:
		return apiErr.Message
	default:
		return fmt.Sprintf("%s (HTTP %d)", apiErr.Message, apiErr.StatusCode)
	}
}
