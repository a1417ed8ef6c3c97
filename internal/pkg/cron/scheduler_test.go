package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunsImmediatelyAndOnInterval(t *testing.T) {
	s := NewScheduler(context.Background())

	var runs atomic.Int32
	s.AddJob(Job{
		Name:     "tick",
		Interval: 10 * time.Millisecond,
		Fn: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})
	s.Start()
	s.Start()

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	stoppedAt := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stoppedAt, runs.Load())
}

func TestScheduler_FailingJobKeepsRunning(t *testing.T) {
	s := NewScheduler(context.Background())

	var runs atomic.Int32
	s.AddJob(Job{
		Name:     "flaky",
		Interval: 5 * time.Millisecond,
		Quiet:    true,
		Fn: func(ctx context.Context) error {
			runs.Add(1)
			return errors.New("backend asleep")
		},
	})
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_StopsWithParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(ctx)
	s.AddJob(Job{Name: "noop", Interval: time.Hour, Fn: func(ctx context.Context) error { return nil }})
	s.Start()

	cancel()
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not observe parent cancellation")
	}
	s.Stop()
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler(context.Background())

	var runs atomic.Int32
	for i := 0; i < 3; i++ {
		s.AddJob(Job{Name: "job", Interval: time.Hour, Fn: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		}})
	}
	s.RunOnce(context.Background())
	assert.Equal(t, int32(3), runs.Load())
}
