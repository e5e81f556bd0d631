package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/skyproperties/sky-backend/internal/estate/domain"
)

type UnitInput struct {
	UnitNumber string            `json:"unitNumber" validate:"required"`
	PropertyID string            `json:"propertyId" validate:"required"`
	Floor      int               `json:"floor"`
	Type       domain.UnitType   `json:"type" validate:"required,unit_type"`
	Area       float64           `json:"area" validate:"gt=0"`
	RentValue  float64           `json:"rentValue" validate:"gte=0"`
	SaleValue  float64           `json:"saleValue" validate:"gte=0"`
	Status     domain.UnitStatus `json:"status" validate:"required,unit_status"`
	OwnerID    string            `json:"ownerId,omitempty"`
	TenantID   string            `json:"tenantId,omitempty"`
}

// Patch converts a full form submission into an update of every field.
func (in UnitInput) Patch() UnitPatch {
	return UnitPatch{
		UnitNumber: &in.UnitNumber,
		PropertyID: &in.PropertyID,
		Floor:      &in.Floor,
		Type:       &in.Type,
		Area:       &in.Area,
		RentValue:  &in.RentValue,
		SaleValue:  &in.SaleValue,
		Status:     &in.Status,
		OwnerID:    &in.OwnerID,
		TenantID:   &in.TenantID,
	}
}

type UnitPatch struct {
	UnitNumber *string             `json:"unitNumber,omitempty" validate:"omitempty,min=1"`
	PropertyID *string             `json:"propertyId,omitempty" validate:"omitempty,min=1"`
	Floor      *int                `json:"floor,omitempty"`
	Type       *domain.UnitType    `json:"type,omitempty" validate:"omitempty,unit_type"`
	Area       *float64            `json:"area,omitempty" validate:"omitempty,gt=0"`
	RentValue  *float64            `json:"rentValue,omitempty" validate:"omitempty,gte=0"`
	SaleValue  *float64            `json:"saleValue,omitempty" validate:"omitempty,gte=0"`
	Status     *domain.UnitStatus  `json:"status,omitempty" validate:"omitempty,unit_status"`
	OwnerID    *string             `json:"ownerId,omitempty"`
	TenantID   *string             `json:"tenantId,omitempty"`
	Media      []string            `json:"media,omitempty"`
	Coords     *domain.Coordinates `json:"coordinates,omitempty"`
}

type Units struct {
	c          *collection[domain.Unit]
	properties *collection[domain.Property]
}

func NewUnits(d *Deps) *Units {
	return &Units{
		c:          &collection[domain.Unit]{name: domain.CollectionUnits, deps: d},
		properties: &collection[domain.Property]{name: domain.CollectionProperties, deps: d},
	}
}

func (r *Units) ListAll(ctx context.Context) ([]domain.Unit, error) {
	return r.c.list(ctx)
}

// ListByOwner returns the units owned by uid.
func (r *Units) ListByOwner(ctx context.Context, uid string) ([]domain.Unit, error) {
	return r.c.where(ctx, "ownerId", uid)
}

// ListByTenant returns the units rented by uid.
func (r *Units) ListByTenant(ctx context.Context, uid string) ([]domain.Unit, error) {
	return r.c.where(ctx, "tenantId", uid)
}

func (r *Units) Get(ctx context.Context, id string) (domain.Unit, error) {
	return r.c.get(ctx, id)
}

// Create stores a unit with no media and its model coordinates at the origin.
func (r *Units) Create(ctx context.Context, in UnitInput) (domain.Unit, error) {
	if err := check(in); err != nil {
		return domain.Unit{}, err
	}
	if err := r.checkProperty(ctx, in.PropertyID); err != nil {
		return domain.Unit{}, err
	}

	now := r.c.deps.now()
	u := domain.Unit{
		ID:          uuid.NewString(),
		UnitNumber:  in.UnitNumber,
		PropertyID:  in.PropertyID,
		Floor:       in.Floor,
		Type:        in.Type,
		Area:        in.Area,
		RentValue:   in.RentValue,
		SaleValue:   in.SaleValue,
		Status:      in.Status,
		OwnerID:     in.OwnerID,
		TenantID:    in.TenantID,
		Media:       []string{},
		Coordinates: domain.Coordinates{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	data, err := encode(u)
	if err != nil {
		return domain.Unit{}, err
	}
	if err := r.c.create(ctx, u.ID, data); err != nil {
		return domain.Unit{}, err
	}
	return u, nil
}

func (r *Units) Update(ctx context.Context, id string, patch UnitPatch) (domain.Unit, error) {
	if err := check(patch); err != nil {
		return domain.Unit{}, err
	}
	if patch.PropertyID != nil {
		if err := r.checkProperty(ctx, *patch.PropertyID); err != nil {
			return domain.Unit{}, err
		}
	}

	data, err := encode(patch)
	if err != nil {
		return domain.Unit{}, err
	}
	data["updatedAt"] = r.c.deps.stamp()

	if err := r.c.merge(ctx, id, data); err != nil {
		return domain.Unit{}, err
	}
	return r.c.get(ctx, id)
}

func (r *Units) Delete(ctx context.Context, id string) error {
	return r.c.remove(ctx, id)
}

func (r *Units) checkProperty(ctx context.Context, propertyID string) error {
	err := r.properties.exists(ctx, propertyID)
	if errors.Is(err, ErrNotFound) {
		return ErrUnknownProperty
	}
	return err
}
