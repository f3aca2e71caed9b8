// Package dialog implements the modal dialog controller: named
// registrations, an open/close lifecycle with a short settle delay, and the
// per-registration dismissal triggers.
package dialog

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// transitionDelay is how long a dialog stays in its transitional state
// before settling. Mirrors the opening/closing animation length.
const transitionDelay = 300 * time.Millisecond

// State is the lifecycle position of one registered dialog.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateOpen
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	default:
		return "closed"
	}
}

var (
	ErrNotRegistered = errors.New("dialog not registered")
	ErrAlreadyOpen   = errors.New("dialog already open")
	ErrNotOpen       = errors.New("dialog not open")
	// ErrTransitionPending rejects open/close calls that overlap a settle
	// delay still in flight, so rapid double-invocation cannot corrupt state.
	ErrTransitionPending = errors.New("dialog transition in progress")
)

// Options are the per-registration dismissal and cleanup toggles.
type Options struct {
	BackdropClose bool
	EscapeClose   bool
	AutoClear     bool
}

// DefaultOptions matches the behavior of an unconfigured registration:
// dismissable via backdrop and escape, content kept on close.
func DefaultOptions() Options {
	return Options{BackdropClose: true, EscapeClose: true}
}

type registration struct {
	opts      Options
	state     State
	content   string
	gen       int // invalidates settle timers from superseded transitions
	onConfirm func()
	onCancel  func()
}

// Controller owns the dialog registrations for one page session. All methods
// are safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	dialogs map[string]*registration
	delay   time.Duration
}

// NewController creates a controller with the standard settle delay.
func NewController() *Controller {
	return NewControllerWithDelay(transitionDelay)
}

// NewControllerWithDelay creates a controller with a custom settle delay. A
// delay of zero settles transitions synchronously, which keeps tests
// deterministic.
func NewControllerWithDelay(delay time.Duration) *Controller {
	return &Controller{
		dialogs: make(map[string]*registration),
		delay:   delay,
	}
}

// Register adds a dialog under the given id. Re-registering an id overwrites
// the previous registration and resets its state to closed.
func (c *Controller) Register(id string, opts Options) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dialogs[id] = &registration{opts: opts, state: StateClosed}
}

// Registered reports whether an id has a live registration.
func (c *Controller) Registered(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.dialogs[id]
	return ok
}

// State returns the dialog's current lifecycle state.
func (c *Controller) State(id string) (State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	reg, ok := c.dialogs[id]
	if !ok {
		return StateClosed, false
	}
	return reg.state, true
}

// Content returns the dialog's current content container contents.
func (c *Controller) Content(id string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	reg, ok := c.dialogs[id]
	if !ok {
		return "", false
	}
	return reg.content, true
}

// SetContent replaces the dialog's content without touching its state.
func (c *Controller) SetContent(id, content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	reg, ok := c.dialogs[id]
	if !ok {
		return ErrNotRegistered
	}
	reg.content = content
	return nil
}

// Open transitions the dialog from closed through opening to open. A
// non-empty content replaces the content container first. Calls that arrive
// while the dialog is not fully closed are rejected.
func (c *Controller) Open(id, content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	reg, ok := c.dialogs[id]
	if !ok {
		return ErrNotRegistered
	}
	switch reg.state {
	case StateOpen:
		return ErrAlreadyOpen
	case StateOpening, StateClosing:
		return ErrTransitionPending
	}

	if content != "" {
		reg.content = content
	}

	reg.state = StateOpening
	c.settleLocked(id, reg, StateOpen)
	return nil
}

// Close transitions the dialog from open through closing to closed. When the
// registration's AutoClear flag is set, the content container is emptied on
// settling.
func (c *Controller) Close(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked(id)
}

func (c *Controller) closeLocked(id string) error {
	reg, ok := c.dialogs[id]
	if !ok {
		return ErrNotRegistered
	}
	switch reg.state {
	case StateClosed:
		return ErrNotOpen
	case StateOpening, StateClosing:
		return ErrTransitionPending
	}

	reg.state = StateClosing
	c.settleLocked(id, reg, StateClosed)
	return nil
}

// settleLocked schedules the end of a transition. The generation counter
// discards settle timers whose transition was superseded by Register.
func (c *Controller) settleLocked(id string, reg *registration, target State) {
	reg.gen++
	gen := reg.gen

	complete := func() {
		current, ok := c.dialogs[id]
		if !ok || current != reg || current.gen != gen {
			return
		}
		current.state = target
		if target == StateClosed && current.opts.AutoClear {
			current.content = ""
		}
	}

	if c.delay <= 0 {
		complete()
		return
	}

	time.AfterFunc(c.delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		complete()
	})
}

// CloseButtonPressed dismisses the dialog via its explicit close control.
func (c *Controller) CloseButtonPressed(id string) error {
	return c.Close(id)
}

// BackdropClicked dismisses the dialog when the registration allows backdrop
// dismissal and the click landed on the backdrop itself rather than the
// dialog content.
func (c *Controller) BackdropClicked(id string, onBackdrop bool) error {
	c.mu.Lock()
	reg, ok := c.dialogs[id]
	if !ok {
		c.mu.Unlock()
		return ErrNotRegistered
	}
	if !reg.opts.BackdropClose || !onBackdrop {
		c.mu.Unlock()
		return nil
	}
	defer c.mu.Unlock()
	return c.closeLocked(id)
}

// EscapePressed dismisses every open dialog whose registration allows escape
// dismissal.
func (c *Controller) EscapePressed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, reg := range c.dialogs {
		if reg.opts.EscapeClose && reg.state == StateOpen {
			c.closeLocked(id)
		}
	}
}

// CloseAll attempts to close every registered dialog. Dialogs that are not
// open are left as they are.
func (c *Controller) CloseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id := range c.dialogs {
		c.closeLocked(id)
	}
}

// Confirm invokes the dialog's confirm callback and closes it.
func (c *Controller) Confirm(id string) error {
	c.mu.Lock()
	reg, ok := c.dialogs[id]
	if !ok {
		c.mu.Unlock()
		return ErrNotRegistered
	}
	callback := reg.onConfirm
	c.mu.Unlock()

	if callback != nil {
		callback()
	}
	return c.Close(id)
}

// Cancel invokes the dialog's cancel callback and closes it.
func (c *Controller) Cancel(id string) error {
	c.mu.Lock()
	reg, ok := c.dialogs[id]
	if !ok {
		c.mu.Unlock()
		return ErrNotRegistered
	}
	callback := reg.onCancel
	c.mu.Unlock()

	if callback != nil {
		callback()
	}
	return c.Close(id)
}

// ShowConfirmation registers a throwaway confirmation dialog around the
// message, wires its two actions to the supplied callbacks and opens it. The
// returned id drives Confirm and Cancel. The registration is never explicitly
// removed; registrations are cheap and scoped to the controller's lifetime.
func (c *Controller) ShowConfirmation(message string, onConfirm, onCancel func()) (string, error) {
	id := "confirm-" + uuid.NewString()

	c.mu.Lock()
	c.dialogs[id] = &registration{
		opts:      DefaultOptions(),
		state:     StateClosed,
		onConfirm: onConfirm,
		onCancel:  onCancel,
	}
	c.mu.Unlock()

	if err := c.Open(id, message); err != nil {
		return "", err
	}
	return id, nil
}
