package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_RejectsInvalidSpec(t *testing.T) {
	s := New(testLogger())
	err := s.Add(Job{Name: "bad", Spec: "every now and then", Run: func(context.Context) error { return nil }})
	assert.Error(t, err)
}

func TestScheduler_SkipsOverlappingRuns(t *testing.T) {
	s := New(testLogger())
	var calls int32
	release := make(chan struct{})
	run := s.wrap(Job{Name: "slow", Run: func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		<-release
		return nil
	}})

	done := make(chan struct{})
	go func() {
		run()
		close(done)
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, time.Millisecond)

	run() // returns immediately while the first run holds the guard
	close(release)
	<-done
	run()
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestScheduler_JobGetsDeadline(t *testing.T) {
	s := New(testLogger())
	var hadDeadline bool
	s.wrap(Job{Name: "deadline", Timeout: time.Minute, Run: func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return errors.New("logged, not returned")
	}})()
	assert.True(t, hadDeadline)
}
