package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewSweeper_DefaultInterval(t *testing.T) {
	assert.Equal(t, 5*time.Minute, NewSweeper(0).interval)
}

func TestSweeper_SweepOnce_ContinuesAfterFailure(t *testing.T) {
	var ran atomic.Int32
	s := NewSweeper(time.Minute,
		SweepTask{Name: "broken", Run: func(context.Context) (int64, error) { return 0, errors.New("boom") }},
		SweepTask{Name: "codes", Run: func(context.Context) (int64, error) { ran.Add(1); return 3, nil }},
	)

	s.SweepOnce(context.Background())

	assert.Equal(t, int32(1), ran.Load())
}

func TestSweeper_Run_StopsOnCancel(t *testing.T) {
	var ran atomic.Int32
	s := NewSweeper(5*time.Millisecond,
		SweepTask{Name: "codes", Run: func(context.Context) (int64, error) { ran.Add(1); return 0, nil }},
	)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		s.Run(ctx)
		close(done)
	}()
	assert.Eventually(t, func() bool { return ran.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
