package mutation

import (
	"context"
	"log/slog"
	"strings"
	"sync"
)

// AppendRequester posts the new item.
type AppendRequester interface {
	Append(ctx context.Context, text string) error
}

// AppendState is the UI-visible snapshot of an append form. The append is
// optimistic only in clearing the input; the list itself is refreshed from
// the server rather than spliced locally.
type AppendState struct {
	Draft   string
	Error   string
	Pending bool
}

type appendOutcome struct {
	text string
	err  error
}

// AppendController runs the comment-submission FSM for one resource.
type AppendController struct {
	requester AppendRequester
	logger    *slog.Logger
	// onRefresh signals that the surrounding view should re-fetch its
	// server-rendered content after a confirmed append.
	onRefresh func()

	mu      sync.Mutex
	state   State
	draft   string
	err     string
	results chan appendOutcome
	settled chan struct{}
	done    chan struct{}
}

// NewAppendController builds a controller and starts its apply loop.
// onRefresh may be nil.
func NewAppendController(requester AppendRequester, onRefresh func(), logger *slog.Logger) *AppendController {
	c := &AppendController{
		requester: requester,
		logger:    logger,
		onRefresh: onRefresh,
		state:     StateIdle,
		results:   make(chan appendOutcome),
		done:      make(chan struct{}),
	}
	go c.applyLoop()
	return c
}

// Snapshot returns the current UI state.
func (c *AppendController) Snapshot() AppendState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return AppendState{Draft: c.draft, Error: c.err, Pending: c.state == StatePending}
}

// SetDraft records what the user has typed so far.
func (c *AppendController) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

// Submit validates and posts the draft. Empty input after trimming surfaces
// a local validation message without any network call. The call returns
// immediately; a submission already in flight makes this a no-op.
func (c *AppendController) Submit(ctx context.Context) bool {
	c.mu.Lock()
	if !c.state.settled() {
		c.mu.Unlock()
		return false
	}

	text := strings.TrimSpace(c.draft)
	if text == "" {
		c.err = "comment cannot be empty"
		c.mu.Unlock()
		return false
	}

	c.err = ""
	c.state = StatePending
	c.settled = make(chan struct{})
	c.mu.Unlock()

	go func() {
		err := c.requester.Append(ctx, text)
		select {
		case c.results <- appendOutcome{text: text, err: err}:
		case <-c.done:
		}
	}()

	return true
}

// Settle blocks until the in-flight submission, if any, has been applied.
func (c *AppendController) Settle() {
	c.mu.Lock()
	ch := c.settled
	pending := c.state == StatePending
	c.mu.Unlock()
	if pending && ch != nil {
		<-ch
	}
}

// Close stops the apply loop.
func (c *AppendController) Close() {
	close(c.done)
}

func (c *AppendController) applyLoop() {
	for {
		select {
		case outcome := <-c.results:
			c.apply(outcome)
		case <-c.done:
			return
		}
	}
}

func (c *AppendController) apply(outcome appendOutcome) {
	c.mu.Lock()

	var refresh func()
	if outcome.err != nil {
		// Keep what the user typed and surface an inline error. No
		// automatic retry.
		c.err = "could not post comment, try again"
		c.state = StateRolledBack
		c.logger.Warn("comment submission failed", "error", outcome.err)
	} else {
		c.draft = ""
		c.err = ""
		c.state = StateCommitted
		refresh = c.onRefresh
	}

	if c.settled != nil {
		close(c.settled)
		c.settled = nil
	}
	c.mu.Unlock()

	if refresh != nil {
		refresh()
	}
}
