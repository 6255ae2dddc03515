// Package session runs a breathing engine on wall-clock time.
//
// A Controller owns a logic.Engine and is the only code that touches it.
// Commands and timer ticks are serialized through one goroutine (Run), so no
// two mutations of the session snapshot ever overlap.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sweeney/breath-sync/internal/logic"
)

// ErrNotRunning is returned by commands issued after Run has exited.
var ErrNotRunning = errors.New("session controller not running")

// Update is delivered to observers after every mutation of the snapshot.
type Update struct {
	Time   time.Time
	State  logic.State
	Events []logic.Event
	Counts logic.EventCounts
}

// Observer receives updates on the controller goroutine.
// Implementations must not block.
type Observer interface {
	Observe(Update)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Update)

// Observe calls f(u).
func (f ObserverFunc) Observe(u Update) { f(u) }

type commandType int

const (
	cmdConfigure commandType = iota
	cmdStart
	cmdStop
	cmdToggle
)

type command struct {
	typ       commandType
	selection logic.Selection
	theme     logic.Theme
	reply     chan error
}

// Controller serializes access to a logic.Engine.
type Controller struct {
	engine    *logic.Engine
	now       func() time.Time
	observers []Observer
	cmds      chan command
	done      chan struct{}
	revision  uint64 // last published engine revision; Run goroutine only

	mu     sync.RWMutex
	state  logic.State
	counts logic.EventCounts
}

// New creates a controller. now is the wall clock (time.Now outside tests).
func New(engine *logic.Engine, now func() time.Time, observers ...Observer) *Controller {
	return &Controller{
		engine:    engine,
		now:       now,
		observers: observers,
		cmds:      make(chan command),
		done:      make(chan struct{}),
		revision:  engine.Revision(),
		state:     engine.State(),
		counts:    engine.Counts(),
	}
}

// Configure selects duration and theme. See logic.Engine.Configure.
func (c *Controller) Configure(ctx context.Context, sel logic.Selection, theme logic.Theme) error {
	return c.send(ctx, command{typ: cmdConfigure, selection: sel, theme: theme})
}

// Start begins the countdown. Returns an error wrapping
// logic.ErrInvalidTransition unless the session is idle.
func (c *Controller) Start(ctx context.Context) error {
	return c.send(ctx, command{typ: cmdStart})
}

// Stop cancels every session timer and resets the snapshot.
func (c *Controller) Stop(ctx context.Context) error {
	return c.send(ctx, command{typ: cmdStop})
}

// Toggle starts an idle session or stops a running one, atomically.
func (c *Controller) Toggle(ctx context.Context) error {
	return c.send(ctx, command{typ: cmdToggle})
}

// State returns the latest snapshot. Safe to call from any goroutine.
func (c *Controller) State() logic.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Counts returns the latest activity counters.
func (c *Controller) Counts() logic.EventCounts {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counts
}

// Run drives the engine until ctx is cancelled. Each value received on tick
// advances the engine to the current wall-clock time. On exit any running
// session is stopped so no timer outlives the controller.
func (c *Controller) Run(ctx context.Context, tick <-chan time.Time) error {
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			now := c.now()
			events := c.engine.Advance(now)
			c.publish(now, append(events, c.engine.Stop(now)...))
			return nil

		case cmd := <-c.cmds:
			cmd.reply <- c.apply(cmd)

		case <-tick:
			now := c.now()
			c.publish(now, c.engine.Advance(now))
		}
	}
}

// apply first catches the engine up to now, so a command never acts on a
// session whose timers are already due.
func (c *Controller) apply(cmd command) error {
	now := c.now()
	events := c.engine.Advance(now)
	var more []logic.Event
	var err error

	switch cmd.typ {
	case cmdConfigure:
		more, err = c.engine.Configure(cmd.selection, cmd.theme, now)
		if err != nil {
			err = fmt.Errorf("configure while %s: %w", c.engine.State().Status, err)
		}
	case cmdStart:
		more, err = c.engine.Start(now)
		if err != nil {
			err = fmt.Errorf("start while %s: %w", c.engine.State().Status, err)
		}
	case cmdStop:
		more = c.engine.Stop(now)
	case cmdToggle:
		if c.engine.State().Status == logic.StatusIdle {
			more, err = c.engine.Start(now)
		} else {
			more = c.engine.Stop(now)
		}
	}

	c.publish(now, append(events, more...))
	return err
}

// publish refreshes the shared snapshot and notifies observers, but only if
// the engine actually changed.
func (c *Controller) publish(now time.Time, events []logic.Event) {
	rev := c.engine.Revision()
	if rev == c.revision && len(events) == 0 {
		return
	}
	c.revision = rev

	u := Update{Time: now, State: c.engine.State(), Events: events, Counts: c.engine.Counts()}

	c.mu.Lock()
	c.state = u.State
	c.counts = u.Counts
	c.mu.Unlock()

	for _, o := range c.observers {
		o.Observe(u)
	}
}

func (c *Controller) send(ctx context.Context, cmd command) error {
	cmd.reply = make(chan error, 1)
	select {
	case c.cmds <- cmd:
	case <-c.done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
