package framework

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"
)

// DefaultInterval is how long an idle Loop waits before polling again
// when nothing triggers it.
const DefaultInterval = time.Millisecond

// Loop polls sources in a fixed priority order.
// Each iteration performs the work of the first source reporting any, so at
// most one unit of work happens per iteration and a source is only consulted
// when every source before it had nothing to do.
type Loop struct {
	Interval time.Duration

	sources []Source
	runners []Runnable

	initOnce sync.Once
	wakeUpCh chan struct{}
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

// NewLoop creates a Loop.
func NewLoop() *Loop {
	return &Loop{Interval: DefaultInterval}
}

func (l *Loop) init() {
	l.initOnce.Do(func() {
		l.wakeUpCh = make(chan struct{}, 1)
	})
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddSource appends sources after the existing ones, i.e. with lower priority.
func (l *Loop) AddSource(srcs ...Source) *Loop {
	l.sources = append(l.sources, srcs...)
	for _, src := range srcs {
		if runner, ok := src.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnable implementions started together with the loop.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Order returns the source names from highest to lowest priority.
func (l *Loop) Order() []string {
	names := make([]string, len(l.sources))
	for n, src := range l.sources {
		names[n] = src.Name()
	}
	return names
}

// Tick runs one iteration. It returns the source which did the work, or nil
// if all sources were idle.
func (l *Loop) Tick(ctx context.Context) (Source, error) {
	for _, src := range l.sources {
		worked, err := src.Poll(ctx)
		if err != nil {
			return src, err
		}
		if worked {
			return src, nil
		}
	}
	return nil, nil
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	l.init()
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	l.init()

	runner := NewRunnerWith(ctx)
	defer runner.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	runner.GoWith(ctx, l.runners...)

	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		src, err := l.Tick(ctx)
		if err != nil {
			glog.Errorf("source %s error: %v", src.Name(), err)
			return err
		}
		if src != nil {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-l.wakeUpCh:
		}
	}
}
