package service

import (
	"sync"

	"github.com/google/uuid"
)

// PendingAction is a deferred destructive action awaiting confirmation.
type PendingAction struct {
	Token   string
	Title   string
	Message string
	action  func() error
}

// ConfirmGate holds at most one pending action. Requesting a new one
// silently replaces any prior unconfirmed action; declining drops it
// without running anything.
type ConfirmGate struct {
	mu      sync.Mutex
	pending *PendingAction
}

func NewConfirmGate() *ConfirmGate {
	return &ConfirmGate{}
}

func (g *ConfirmGate) Request(title, message string, action func() error) PendingAction {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pending = &PendingAction{
		Token:   uuid.NewString(),
		Title:   title,
		Message: message,
		action:  action,
	}

	return *g.pending
}

// Confirm runs the pending action iff token matches, consuming it either
// way only on a match. The action runs outside the gate's lock.
func (g *ConfirmGate) Confirm(token string) error {
	g.mu.Lock()
	pending := g.pending
	if pending == nil || pending.Token != token {
		g.mu.Unlock()
		return ErrNoPendingAction
	}
	g.pending = nil
	g.mu.Unlock()

	return pending.action()
}

func (g *ConfirmGate) Decline() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pending = nil
}
