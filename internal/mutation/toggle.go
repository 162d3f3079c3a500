package mutation

import (
	"context"
	"log/slog"
	"sync"

	"glimpse/internal/platform/metrics"
)

// ToggleRequester issues the network side of a toggle: POST on activate,
// DELETE on deactivate. The returned count, when non-nil, is the server's
// authoritative value.
type ToggleRequester interface {
	Activate(ctx context.Context) (count *int, err error)
	Deactivate(ctx context.Context) (count *int, err error)
}

// ToggleState is the UI-visible snapshot of a toggle resource.
type ToggleState struct {
	Active  bool
	Count   int
	Pending bool
}

type toggleOutcome struct {
	count *int
	err   error
	prev  ToggleState
}

// ToggleController runs the like/unlike FSM for one resource. Triggering
// flips the state immediately and fires the request without waiting; while a
// mutation is in flight, further triggers on the resource are no-ops.
type ToggleController struct {
	requester ToggleRequester
	logger    *slog.Logger
	metrics   *metrics.Metrics

	mu      sync.Mutex
	state   State
	active  bool
	count   int
	results chan toggleOutcome
	settled chan struct{}
	done    chan struct{}
}

// NewToggleController builds a controller seeded with the server-rendered
// state and starts its apply loop.
func NewToggleController(requester ToggleRequester, active bool, count int, logger *slog.Logger, m *metrics.Metrics) *ToggleController {
	c := &ToggleController{
		requester: requester,
		logger:    logger,
		metrics:   m,
		state:     StateIdle,
		active:    active,
		count:     count,
		results:   make(chan toggleOutcome),
		done:      make(chan struct{}),
	}
	go c.applyLoop()
	return c
}

// Snapshot returns the current UI state.
func (c *ToggleController) Snapshot() ToggleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ToggleState{Active: c.active, Count: c.count, Pending: c.state == StatePending}
}

// Trigger applies the optimistic flip and fires the request asynchronously.
// It returns immediately; false means the trigger was ignored because a
// mutation is already in flight.
func (c *ToggleController) Trigger(ctx context.Context) bool {
	c.mu.Lock()
	if !c.state.settled() {
		c.mu.Unlock()
		return false
	}

	prev := ToggleState{Active: c.active, Count: c.count}
	c.active = !c.active
	if c.active {
		c.count++
	} else if c.count > 0 {
		c.count--
	}
	c.state = StatePending
	c.settled = make(chan struct{})
	activating := c.active
	c.mu.Unlock()

	go func() {
		var count *int
		var err error
		if activating {
			count, err = c.requester.Activate(ctx)
		} else {
			count, err = c.requester.Deactivate(ctx)
		}
		select {
		case c.results <- toggleOutcome{count: count, err: err, prev: prev}:
		case <-c.done:
		}
	}()

	return true
}

// Settle blocks until the in-flight mutation, if any, has been applied.
// It exists for tests and for draining on shutdown.
func (c *ToggleController) Settle() {
	c.mu.Lock()
	ch := c.settled
	pending := c.state == StatePending
	c.mu.Unlock()
	if pending && ch != nil {
		<-ch
	}
}

// Close stops the apply loop. In-flight requests run to completion but their
// outcome is discarded.
func (c *ToggleController) Close() {
	close(c.done)
}

// applyLoop commits or rolls back outcomes delivered by the network
// completion events.
func (c *ToggleController) applyLoop() {
	for {
		select {
		case outcome := <-c.results:
			c.apply(outcome)
		case <-c.done:
			return
		}
	}
}

func (c *ToggleController) apply(outcome toggleOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if outcome.err != nil {
		// Roll both fields back to the pre-trigger snapshot; the UI
		// reflects it silently.
		c.active = outcome.prev.Active
		c.count = outcome.prev.Count
		c.state = StateRolledBack
		c.metrics.MutationRollbacks.Inc()
		c.logger.Warn("toggle mutation rolled back", "error", outcome.err)
	} else {
		// Server wins on count; the optimistic active flag is kept.
		if outcome.count != nil {
			c.count = *outcome.count
		}
		c.state = StateCommitted
	}

	if c.settled != nil {
		close(c.settled)
		c.settled = nil
	}
}
