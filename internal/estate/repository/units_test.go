package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyproperties/sky-backend/internal/estate/domain"
)

func createProperty(t *testing.T, f *fixture, name, city string) domain.Property {
	t.Helper()
	p, err := NewProperties(f.deps).Create(context.Background(), PropertyInput{Name: name, City: city}, PropertyFiles{})
	require.NoError(t, err)
	return p
}

func TestUnits_CreateDefaults(t *testing.T) {
	f := newFixture(t)
	prop := createProperty(t, f, "Tower A", "Cairo")
	repo := NewUnits(f.deps)
	ctx := context.Background()

	in, err := ParseUnitForm(UnitForm{UnitNumber: "A-101", PropertyID: prop.ID, Floor: "1", Area: "120.5"})
	require.NoError(t, err)

	u, err := repo.Create(ctx, in)
	require.NoError(t, err)

	got, err := repo.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "A-101", got.UnitNumber)
	assert.Equal(t, 1, got.Floor)
	assert.Equal(t, 120.5, got.Area)
	assert.Equal(t, 0.0, got.RentValue)
	assert.Equal(t, domain.UnitApartment, got.Type)
	assert.Equal(t, domain.UnitAvailable, got.Status)
	assert.Equal(t, []string{}, got.Media)
	assert.Equal(t, domain.Coordinates{}, got.Coordinates)
}

func TestUnits_UnknownProperty(t *testing.T) {
	f := newFixture(t)
	repo := NewUnits(f.deps)

	_, err := repo.Create(context.Background(), UnitInput{
		UnitNumber: "B-1", PropertyID: "missing", Floor: 2, Type: domain.UnitOffice, Area: 50, Status: domain.UnitForRent,
	})
	assert.ErrorIs(t, err, ErrUnknownProperty)
	assert.Empty(t, f.auditor.actions())
}

func TestUnits_UpdateFullForm(t *testing.T) {
	f := newFixture(t)
	prop := createProperty(t, f, "Tower A", "Cairo")
	repo := NewUnits(f.deps)
	ctx := context.Background()

	in := UnitInput{UnitNumber: "A-1", PropertyID: prop.ID, Floor: 3, Type: domain.UnitShop, Area: 40, RentValue: 900, Status: domain.UnitForRent}
	u, err := repo.Create(ctx, in)
	require.NoError(t, err)

	in.RentValue = 0
	in.Status = domain.UnitOccupied
	updated, err := repo.Update(ctx, u.ID, in.Patch())
	require.NoError(t, err)
	assert.Equal(t, 0.0, updated.RentValue)
	assert.Equal(t, domain.UnitOccupied, updated.Status)
	assert.Equal(t, 3, updated.Floor)
	assert.Equal(t, []string{}, updated.Media)

	_, err = repo.Update(ctx, u.ID, UnitPatch{PropertyID: ptr("ghost")})
	assert.ErrorIs(t, err, ErrUnknownProperty)

	_, err = repo.Update(ctx, u.ID, UnitPatch{Status: ptr(domain.UnitStatus("sold"))})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "status")
}

func TestUnits_PropertyNameFallback(t *testing.T) {
	f := newFixture(t)
	prop := createProperty(t, f, "Tower A", "Cairo")
	units := NewUnits(f.deps)
	ctx := context.Background()

	u, err := units.Create(ctx, UnitInput{UnitNumber: "A-1", PropertyID: prop.ID, Floor: 1, Type: domain.UnitVilla, Area: 300, Status: domain.UnitForSale})
	require.NoError(t, err)

	// Deleting a property does not cascade to its units.
	require.NoError(t, NewProperties(f.deps).Delete(ctx, prop.ID))

	props, err := NewProperties(f.deps).ListAll(ctx)
	require.NoError(t, err)
	all, err := units.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, u.ID, all[0].ID)
	assert.Equal(t, domain.UnknownProperty, domain.PropertyName(domain.PropertyNames(props), all[0].PropertyID))
}

func TestUnits_ListByOwnerAndTenant(t *testing.T) {
	f := newFixture(t)
	prop := createProperty(t, f, "Tower A", "Cairo")
	repo := NewUnits(f.deps)
	ctx := context.Background()

	base := UnitInput{PropertyID: prop.ID, Floor: 1, Type: domain.UnitApartment, Area: 80, Status: domain.UnitOccupied}
	a, b := base, base
	a.UnitNumber, a.OwnerID, a.TenantID = "A", "owner-1", "tenant-1"
	b.UnitNumber, b.OwnerID = "B", "owner-1"
	_, err := repo.Create(ctx, a)
	require.NoError(t, err)
	_, err = repo.Create(ctx, b)
	require.NoError(t, err)

	owned, err := repo.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	assert.Len(t, owned, 2)

	rented, err := repo.ListByTenant(ctx, "tenant-1")
	require.NoError(t, err)
	require.Len(t, rented, 1)
	assert.Equal(t, "A", rented[0].UnitNumber)
}
