// Package modal manages overlay dialogs: which one is open, the payload
// attached to it, and the markup that lets the browser dismiss it.
package modal

import (
	"sync"
	"time"
)

// VisibleClass marks an open dialog.
const VisibleClass = "popup_is-opened"

// ID names one dialog of the page.
type ID string

// Session is the lifetime of one open dialog together with the action
// payload it was opened for (for example the card targeted for deletion).
type Session struct {
	Dialog   ID
	Payload  any
	OpenedAt time.Time
}

// Controller tracks the single open dialog of one page. Opening a dialog
// while another is open closes the previous one first.
type Controller struct {
	mu     sync.Mutex
	active *Session
	now    func() time.Time
}

// NewController returns a controller with every dialog closed.
func NewController() *Controller {
	return &Controller{now: time.Now}
}

// Open makes id the active dialog. When a different dialog was open it is
// closed and returned as previous so the caller can release state tied to
// it.
func (c *Controller) Open(id ID, payload any) (current Session, previous *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil && c.active.Dialog != id {
		prev := *c.active
		previous = &prev
	}
	c.active = &Session{Dialog: id, Payload: payload, OpenedAt: c.now()}
	return *c.active, previous
}

// Close ends the session of id. It reports false when id was not open.
func (c *Controller) Close(id ID) (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil || c.active.Dialog != id {
		return Session{}, false
	}
	closed := *c.active
	c.active = nil
	return closed, true
}

// Active returns the open session, if any.
func (c *Controller) Active() (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil {
		return Session{}, false
	}
	return *c.active, true
}

// IsOpen reports whether id is the active dialog.
func (c *Controller) IsOpen(id ID) bool {
	s, ok := c.Active()
	return ok && s.Dialog == id
}
