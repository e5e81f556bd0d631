package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/skyproperties/sky-backend/internal/estate/domain"
)

type PaymentInput struct {
	Type    string  `json:"type" validate:"required"`
	Amount  float64 `json:"amount" validate:"gt=0"`
	Method  string  `json:"method" validate:"required"`
	UnitID  string  `json:"unitId,omitempty"`
	PayerID string  `json:"payerId,omitempty"`
}

// Payments is append-only: there is no update or delete.
type Payments struct {
	c *collection[domain.Payment]
}

func NewPayments(d *Deps) *Payments {
	return &Payments{c: &collection[domain.Payment]{name: domain.CollectionPayments, deps: d}}
}

func (r *Payments) ListAll(ctx context.Context) ([]domain.Payment, error) {
	return r.c.list(ctx)
}

func (r *Payments) Get(ctx context.Context, id string) (domain.Payment, error) {
	return r.c.get(ctx, id)
}

func (r *Payments) Create(ctx context.Context, in PaymentInput) (domain.Payment, error) {
	if err := check(in); err != nil {
		return domain.Payment{}, err
	}

	p := domain.Payment{
		ID:        uuid.NewString(),
		Type:      in.Type,
		Amount:    in.Amount,
		Method:    in.Method,
		UnitID:    in.UnitID,
		PayerID:   in.PayerID,
		Timestamp: r.c.deps.now(),
	}

	data, err := encode(p)
	if err != nil {
		return domain.Payment{}, err
	}
	if err := r.c.create(ctx, p.ID, data); err != nil {
		return domain.Payment{}, err
	}
	return p, nil
}
