package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/skyproperties/sky-backend/internal/estate/domain"
)

type TicketInput struct {
	Category    string `json:"category" validate:"required"`
	Description string `json:"description"`
	UnitID      string `json:"unitId,omitempty"`
	CreatedBy   string `json:"createdBy,omitempty"`
}

type TicketPatch struct {
	Category    *string              `json:"category,omitempty" validate:"omitempty,min=1"`
	Description *string              `json:"description,omitempty"`
	Status      *domain.TicketStatus `json:"status,omitempty" validate:"omitempty,ticket_status"`
}

type Tickets struct {
	c *collection[domain.Ticket]
}

func NewTickets(d *Deps) *Tickets {
	return &Tickets{c: &collection[domain.Ticket]{name: domain.CollectionTickets, deps: d}}
}

func (r *Tickets) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	return r.c.list(ctx)
}

// ListByStatus returns the tickets in status.
func (r *Tickets) ListByStatus(ctx context.Context, status domain.TicketStatus) ([]domain.Ticket, error) {
	return r.c.where(ctx, "status", string(status))
}

func (r *Tickets) Get(ctx context.Context, id string) (domain.Ticket, error) {
	return r.c.get(ctx, id)
}

// Create opens a ticket.
func (r *Tickets) Create(ctx context.Context, in TicketInput) (domain.Ticket, error) {
	if err := check(in); err != nil {
		return domain.Ticket{}, err
	}

	now := r.c.deps.now()
	t := domain.Ticket{
		ID:          uuid.NewString(),
		Category:    in.Category,
		Description: in.Description,
		Status:      domain.TicketOpen,
		UnitID:      in.UnitID,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	data, err := encode(t)
	if err != nil {
		return domain.Ticket{}, err
	}
	if err := r.c.create(ctx, t.ID, data); err != nil {
		return domain.Ticket{}, err
	}
	return t, nil
}

func (r *Tickets) Update(ctx context.Context, id string, patch TicketPatch) (domain.Ticket, error) {
	if err := check(patch); err != nil {
		return domain.Ticket{}, err
	}

	data, err := encode(patch)
	if err != nil {
		return domain.Ticket{}, err
	}
	data["updatedAt"] = r.c.deps.stamp()

	if err := r.c.merge(ctx, id, data); err != nil {
		return domain.Ticket{}, err
	}
	return r.c.get(ctx, id)
}

// UpdateStatus moves a ticket to status.
func (r *Tickets) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (domain.Ticket, error) {
	return r.Update(ctx, id, TicketPatch{Status: &status})
}

func (r *Tickets) Delete(ctx context.Context, id string) error {
	return r.c.remove(ctx, id)
}
