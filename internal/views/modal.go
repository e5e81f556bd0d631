package views

import (
	"context"
	"errors"
	"sync"

	"github.com/skyproperties/sky-backend/internal/logging"
)

var ErrModalClosed = errors.New("modal is not open")

// Modal holds a create or edit draft for a screen.
type Modal[D any] struct {
	name    string
	create  func(ctx context.Context, d D) error
	update  func(ctx context.Context, id string, d D) error
	refresh func(ctx context.Context) error

	mu     sync.Mutex
	open   bool
	editID string
	draft  D
}

// NewModal wires a draft to its screen. update may be nil for screens that
// only create, create may be nil for screens that only edit.
func NewModal[D any](name string, create func(context.Context, D) error, update func(context.Context, string, D) error, refresh func(context.Context) error) *Modal[D] {
	return &Modal[D]{name: name, create: create, update: update, refresh: refresh}
}

func (m *Modal[D]) OpenCreate(blank D) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open, m.editID, m.draft = true, "", blank
}

func (m *Modal[D]) OpenEdit(id string, draft D) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open, m.editID, m.draft = true, id, draft
}

func (m *Modal[D]) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Editing returns the id being edited; ok is false in create mode.
func (m *Modal[D]) Editing() (id string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editID, m.open && m.editID != ""
}

func (m *Modal[D]) Draft() D {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

func (m *Modal[D]) SetDraft(d D) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = d
}

func (m *Modal[D]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero D
	m.open, m.editID, m.draft = false, "", zero
}

// Submit saves the draft. On success the modal closes and the list is
// refreshed; on failure it stays open with the draft intact.
func (m *Modal[D]) Submit(ctx context.Context) error {
	m.mu.Lock()
	open, id, draft := m.open, m.editID, m.draft
	m.mu.Unlock()

	if !open {
		return ErrModalClosed
	}

	var err error
	switch {
	case id == "" && m.create != nil:
		err = m.create(ctx, draft)
	case id != "" && m.update != nil:
		err = m.update(ctx, id, draft)
	default:
		err = errors.New("operation not supported by this screen")
	}
	if err != nil {
		logging.Op(ctx, "views."+m.name+".submit").WithError(err).Warn("submit failed")
		return err
	}

	m.Close()
	if m.refresh != nil {
		return m.refresh(ctx)
	}
	return nil
}
