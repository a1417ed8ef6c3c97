// Package keepalive keeps a cold-starting backend warm by probing its health
// endpoint on an interval.
package keepalive

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/hrms-lite/internal/pkg/cron"
)

// Prober is satisfied by *gateway.Client.
type Prober interface {
	Health(ctx context.Context) error
}

// Poller probes the backend until stopped. Failures are counted and otherwise ignored.
type Poller struct {
	scheduler *cron.Scheduler
	probes    atomic.Int64
	failures  atomic.Int64
}

// New schedules a probe every interval; the first probe runs on Start.
func New(ctx context.Context, prober Prober, interval time.Duration) *Poller {
	p := &Poller{scheduler: cron.NewScheduler(ctx)}
	p.scheduler.AddJob(cron.Job{
		Name:     "health-probe",
		Interval: interval,
		Quiet:    true,
		Fn: func(ctx context.Context) error {
			p.probes.Add(1)
			err := prober.Health(ctx)
			if err != nil {
				p.failures.Add(1)
			}
			return err
		},
	})
	return p
}

func (p *Poller) Start() {
	slog.Debug("Keep-alive poller started")
	p.scheduler.Start()
}

// Stop halts probing and waits for an in-flight probe to return.
func (p *Poller) Stop() {
	p.scheduler.Stop()
}

// Done is closed once the poller has stopped.
func (p *Poller) Done() <-chan struct{} {
	return p.scheduler.Done()
}

// Probes is the number of probes issued so far.
func (p *Poller) Probes() int64 {
	return p.probes.Load()
}

// Failures is the number of probes that did not succeed.
func (p *Poller) Failures() int64 {
	return p.failures.Load()
}
