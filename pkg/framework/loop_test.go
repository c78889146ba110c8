package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingSource struct {
	name    string
	pending int
	polls   int
	trace   *[]string
}

func (s *countingSource) Name() string { return s.name }

func (s *countingSource) Poll(context.Context) (bool, error) {
	s.polls++
	if s.pending == 0 {
		return false, nil
	}
	s.pending--
	*s.trace = append(*s.trace, s.name)
	return true, nil
}

func TestLoopTickPriority(t *testing.T) {
	var trace []string
	hi := &countingSource{name: "hi", pending: 2, trace: &trace}
	mid := &countingSource{name: "mid", pending: 1, trace: &trace}
	lo := &countingSource{name: "lo", pending: 2, trace: &trace}
	loop := NewLoop().AddSource(hi, mid, lo)
	require.Equal(t, []string{"hi", "mid", "lo"}, loop.Order())

	ctx := context.Background()
	for {
		src, err := loop.Tick(ctx)
		require.NoError(t, err)
		if src == nil {
			break
		}
	}
	require.Equal(t, []string{"hi", "hi", "mid", "lo", "lo"}, trace)
	require.Equal(t, 6, hi.polls)
	require.Equal(t, 4, mid.polls)
	require.Equal(t, 3, lo.polls)
}

func TestLoopRunStopsOnError(t *testing.T) {
	errBoom := errors.New("boom")
	var polls int
	loop := NewLoop().AddSource(NewSource("fail", func(context.Context) (bool, error) {
		polls++
		if polls == 3 {
			return false, errBoom
		}
		return true, nil
	}))
	require.Equal(t, errBoom, loop.Run(context.Background()))
	require.Equal(t, 3, polls)
}

func TestLoopRunWakesUp(t *testing.T) {
	loop := NewLoop()
	loop.Interval = time.Hour
	polledCh := make(chan struct{}, 16)
	loop.AddSource(NewSource("idle", func(context.Context) (bool, error) {
		polledCh <- struct{}{}
		return false, nil
	}))

	var started bool
	loop.AddRunnable(RunFunc(func(ctx context.Context) error {
		started = true
		<-ctx.Done()
		return ctx.Err()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- loop.Run(ctx)
	}()

	wait := func() {
		select {
		case <-polledCh:
		case <-time.After(500 * time.Millisecond):
			t.Fatal("poll timeout")
		}
	}
	wait()
	loop.TriggerNext()
	wait()
	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("stop timeout")
	}
	require.True(t, started)
}
