package gallery

import (
	"errors"
	"sync"
	"time"

	"github.com/nfrund/mesto/internal/modal"
)

// ErrSubmissionInFlight is returned when a form is submitted again before
// its previous submission settled.
var ErrSubmissionInFlight = errors.New("submission already in progress")

// PendingDelete is the card targeted by an unconfirmed delete.
type PendingDelete struct {
	CardID  string
	UnitRef string
}

// submitButton tracks the label of one form's submit control.
type submitButton struct {
	mu       sync.Mutex
	Default  string
	Loading  string
	label    string
	inFlight bool
}

func newSubmitButton(def, loading string) *submitButton {
	return &submitButton{Default: def, Loading: loading, label: def}
}

// begin switches to the loading label and returns the settle step, which
// restores the default label. It must run whatever the outcome.
func (b *submitButton) begin() (settle func(), err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.inFlight {
		return nil, ErrSubmissionInFlight
	}
	b.inFlight = true
	b.label = b.Loading
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.inFlight = false
		b.label = b.Default
	}, nil
}

// Label returns the text the control currently shows.
func (b *submitButton) Label() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.label
}

// Workspace is the interaction state of one browser session: the open
// dialog, the pending delete and the submit controls.
type Workspace struct {
	ID    string
	Modal *modal.Controller

	mu       sync.Mutex
	pending  *PendingDelete
	buttons  map[string]*submitButton
	lastSeen time.Time
}

func newWorkspace(id string, now time.Time) *Workspace {
	return &Workspace{
		ID:       id,
		Modal:    modal.NewController(),
		buttons:  make(map[string]*submitButton),
		lastSeen: now,
	}
}

// SetPendingDelete records the target of the delete confirmation.
func (w *Workspace) SetPendingDelete(p PendingDelete) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = &p
}

// PendingDelete returns the recorded delete target.
func (w *Workspace) PendingDelete() (PendingDelete, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return PendingDelete{}, false
	}
	return *w.pending, true
}

// ClearPendingDelete forgets the delete target.
func (w *Workspace) ClearPendingDelete() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = nil
}

// ButtonLabel returns the current label of the form's submit control.
func (w *Workspace) ButtonLabel(def formDef) string {
	return w.button(def).Label()
}

func (w *Workspace) button(def formDef) *submitButton {
	w.mu.Lock()
	defer w.mu.Unlock()
	b, ok := w.buttons[def.ID]
	if !ok {
		b = newSubmitButton(def.SubmitLabel, def.LoadingLabel)
		w.buttons[def.ID] = b
	}
	return b
}

// Workspaces holds the workspace of every active browser session.
type Workspaces struct {
	mu    sync.Mutex
	items map[string]*Workspace
	ttl   time.Duration
	now   func() time.Time
}

// NewWorkspaces creates a store that forgets workspaces idle for ttl.
func NewWorkspaces(ttl time.Duration) *Workspaces {
	return &Workspaces{
		items: make(map[string]*Workspace),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the workspace for id, creating it on first use.
func (s *Workspaces) Get(id string) *Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	ws, ok := s.items[id]
	if !ok {
		ws = newWorkspace(id, now)
		s.items[id] = ws
	}
	ws.mu.Lock()
	ws.lastSeen = now
	ws.mu.Unlock()
	return ws
}

// Sweep drops idle workspaces and reports how many were removed.
func (s *Workspaces) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, ws := range s.items {
		ws.mu.Lock()
		idle := ws.lastSeen.Before(cutoff)
		ws.mu.Unlock()
		if idle {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live workspaces.
func (s *Workspaces) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
