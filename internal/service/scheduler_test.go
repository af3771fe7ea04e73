package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls  atomic.Int32
	report *SweepReport
	err    error
}

func (c *countingSweeper) Sweep(ctx context.Context) (*SweepReport, error) {
	c.calls.Add(1)
	return c.report, c.err
}

func TestSchedulerRunsOnStartAndOnTick(t *testing.T) {
	sw := &countingSweeper{report: &SweepReport{}}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		NewScheduler(sw, 10*time.Millisecond, true).Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return sw.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestSchedulerWaitsForFirstTick(t *testing.T) {
	sw := &countingSweeper{report: &SweepReport{}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go NewScheduler(sw, time.Hour, false).Start(ctx)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), sw.calls.Load())
}

func TestRunOnceReportsErrors(t *testing.T) {
	boom := errors.New("list failed")
	_, err := NewScheduler(&countingSweeper{err: boom}, time.Hour, false).RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)

	partial := &SweepReport{Total: 2, Updated: 1, Failures: []UserFailure{{UserID: "u2", Err: errors.New("x")}}}
	report, err := NewScheduler(&countingSweeper{report: partial}, time.Hour, false).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Error(t, report.Err())
}
