package framework

import (
	"context"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Source is a unit of work consulted by Loop.
// Poll must not block. It performs at most one unit of work and reports
// whether it did any.
type Source interface {
	Named
	Poll(context.Context) (bool, error)
}

// PollFunc is func type of Source.Poll.
type PollFunc func(context.Context) (bool, error)

type funcSource struct {
	name string
	fn   PollFunc
}

func (s *funcSource) Name() string { return s.name }

func (s *funcSource) Poll(ctx context.Context) (bool, error) { return s.fn(ctx) }

// NewSource creates a named Source from a func.
func NewSource(name string, fn PollFunc) Source {
	return &funcSource{name: name, fn: fn}
}

// LoopControl exposes access to the running loop.
type LoopControl interface {
	// TriggerNext wakes an idle loop to poll its sources immediately.
	TriggerNext()
}
