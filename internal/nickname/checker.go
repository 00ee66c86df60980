// Package nickname implements the debounced, race-safe availability check
// for the nickname field. A Checker owns the check state; rapid input resets
// a debounce timer, a generation counter discards superseded responses, and
// transport failures fail open so the user is never blocked by a flaky
// network (the server re-validates at submission).
package nickname

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fieldline/onboard/internal/logger"
	"github.com/fieldline/onboard/internal/validation"
)

// DefaultDebounce is the quiet period after the last keystroke before a
// network check is issued.
const DefaultDebounce = 500 * time.Millisecond

// Status is the availability verdict for the current input.
type Status int

const (
	StatusIdle      Status = iota // no check pending (empty or malformed input)
	StatusChecking                // input passed format rules, check in flight or debouncing
	StatusAvailable               // service confirmed the checked value is free
	StatusTaken                   // service reported the checked value in use
	StatusErrored                 // check failed at the transport level
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusChecking:
		return "checking"
	case StatusAvailable:
		return "available"
	case StatusTaken:
		return "taken"
	case StatusErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// State pairs a status with the exact input value that produced it.
type State struct {
	Status       Status
	CheckedValue string
}

// StaleFor reports whether the state no longer describes the live input.
// A stale verdict must be treated as unknown by the step gate until a fresh
// check completes.
func (s State) StaleFor(live string) bool {
	if s.Status == StatusIdle {
		return false
	}
	return s.CheckedValue != live
}

// Client is the availability-check collaborator.
type Client interface {
	CheckNickname(ctx context.Context, nickname string) (bool, error)
}

// Option configures a Checker.
type Option func(*Checker)

// WithDebounce overrides the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(c *Checker) { c.delay = d }
}

// WithNotify registers a callback invoked after every committed state
// change. The callback runs outside the checker's lock; the TUI uses it to
// feed state transitions back into the event loop.
func WithNotify(fn func(State)) Option {
	return func(c *Checker) { c.notify = fn }
}

// Checker drives at most one availability request per input value that
// survives the debounce window. All earlier in-flight results become no-ops
// once superseded, even when responses arrive out of order.
type Checker struct {
	mu     sync.Mutex
	client Client
	delay  time.Duration
	notify func(State)

	gen    uint64 // bumped on every Input; responses from older generations are discarded
	timer  *time.Timer
	state  State
	live   string
	closed bool
}

// NewChecker creates a checker using the given availability client.
func NewChecker(client Client, opts ...Option) *Checker {
	c := &Checker{
		client: client,
		delay:  DefaultDebounce,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Input feeds the latest live value. Format failures resolve to idle with no
// network call; valid values show checking immediately and (re)arm the
// debounce timer.
func (c *Checker) Input(value string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.live = value
	c.gen++
	gen := c.gen

	// A new cycle supersedes any pending timer.
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	// Format errors belong to the validation engine, not this component.
	if !validation.NicknameFormatValid(value) {
		c.commitLocked(State{Status: StatusIdle})
		return
	}

	// Show a pending indicator immediately, before the network round trip.
	c.timer = time.AfterFunc(c.delay, func() { c.fire(gen, value) })
	c.commitLocked(State{Status: StatusChecking, CheckedValue: value})
}

// State returns the current check state.
func (c *Checker) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Live returns the most recent input value.
func (c *Checker) Live() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

// Close cancels any pending debounce timer. Responses resolving after Close
// never write. Safe to call more than once.
func (c *Checker) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// fire runs when the debounce window expires: it normalizes the value and
// issues exactly one availability request for it.
func (c *Checker) fire(gen uint64, value string) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	client := c.client
	c.mu.Unlock()

	// Deliberately no timeout beyond the debounce window: a hung request
	// leaves the status at checking, which is accepted behavior.
	// Trim and lowercase so the checked string matches what submission sends.
	available, err := client.CheckNickname(context.Background(), strings.ToLower(strings.TrimSpace(value)))

	c.mu.Lock()
	// Race guard: commit only if this is still the newest cycle. A newer
	// keystroke supersedes this response even when it resolved last.
	if c.closed || gen != c.gen {
		logger.Debug("Discarding stale availability result for %q", value)
		c.mu.Unlock()
		return
	}

	switch {
	case err != nil:
		// Fail open: the server still enforces uniqueness at submission.
		logger.Warn("Nickname availability check failed: %v", err)
		c.commitLocked(State{Status: StatusErrored, CheckedValue: value})
	case available:
		c.commitLocked(State{Status: StatusAvailable, CheckedValue: value})
	default:
		c.commitLocked(State{Status: StatusTaken, CheckedValue: value})
	}
}

// commitLocked stores the state and invokes the notify callback outside the
// lock. Callers must hold c.mu; the lock is released before returning.
func (c *Checker) commitLocked(st State) {
	c.state = st
	notify := c.notify
	c.mu.Unlock()
	if notify != nil {
		notify(st)
	}
}
