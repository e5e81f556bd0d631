package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/skyproperties/sky-backend/internal/estate/domain"
)

type GuestRequestInput struct {
	GuestName   string `json:"guestName,omitempty"`
	GuestEmail  string `json:"guestEmail" validate:"required,email"`
	GuestPhone  string `json:"guestPhone"`
	RequestType string `json:"requestType" validate:"required"`
	Message     string `json:"message"`
	PropertyID  string `json:"propertyId,omitempty"`
}

type GuestRequestPatch struct {
	Status  *domain.GuestRequestStatus `json:"status,omitempty" validate:"omitempty,guest_status"`
	Message *string                    `json:"message,omitempty"`
}

type GuestRequests struct {
	c *collection[domain.GuestRequest]
}

func NewGuestRequests(d *Deps) *GuestRequests {
	return &GuestRequests{c: &collection[domain.GuestRequest]{name: domain.CollectionGuestRequests, deps: d}}
}

func (r *GuestRequests) ListAll(ctx context.Context) ([]domain.GuestRequest, error) {
	return r.c.list(ctx)
}

func (r *GuestRequests) Get(ctx context.Context, id string) (domain.GuestRequest, error) {
	return r.c.get(ctx, id)
}

// Create files a new inquiry in the pending state.
func (r *GuestRequests) Create(ctx context.Context, in GuestRequestInput) (domain.GuestRequest, error) {
	if err := check(in); err != nil {
		return domain.GuestRequest{}, err
	}

	now := r.c.deps.now()
	g := domain.GuestRequest{
		ID:          uuid.NewString(),
		GuestName:   in.GuestName,
		GuestEmail:  in.GuestEmail,
		GuestPhone:  in.GuestPhone,
		RequestType: in.RequestType,
		Message:     in.Message,
		PropertyID:  in.PropertyID,
		Status:      domain.GuestPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	data, err := encode(g)
	if err != nil {
		return domain.GuestRequest{}, err
	}
	if err := r.c.create(ctx, g.ID, data); err != nil {
		return domain.GuestRequest{}, err
	}
	return g, nil
}

func (r *GuestRequests) Update(ctx context.Context, id string, patch GuestRequestPatch) (domain.GuestRequest, error) {
	if err := check(patch); err != nil {
		return domain.GuestRequest{}, err
	}

	data, err := encode(patch)
	if err != nil {
		return domain.GuestRequest{}, err
	}
	data["updatedAt"] = r.c.deps.stamp()

	if err := r.c.merge(ctx, id, data); err != nil {
		return domain.GuestRequest{}, err
	}
	return r.c.get(ctx, id)
}

func (r *GuestRequests) UpdateStatus(ctx context.Context, id string, status domain.GuestRequestStatus) (domain.GuestRequest, error) {
	return r.Update(ctx, id, GuestRequestPatch{Status: &status})
}

func (r *GuestRequests) Delete(ctx context.Context, id string) error {
	return r.c.remove(ctx, id)
}
