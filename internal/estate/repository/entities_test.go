package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
)

func TestTickets(t *testing.T) {
	f := newFixture(t)
	repo := NewTickets(f.deps)
	ctx := context.Background()

	tk, err := repo.Create(ctx, TicketInput{Category: "plumbing", Description: "leak", CreatedBy: "tenant-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketOpen, tk.Status)

	updated, err := repo.UpdateStatus(ctx, tk.ID, domain.TicketInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketInProgress, updated.Status)
	assert.Equal(t, "plumbing", updated.Category)

	_, err = repo.UpdateStatus(ctx, tk.ID, "lost")
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	open, err := repo.ListByStatus(ctx, domain.TicketOpen)
	require.NoError(t, err)
	assert.Empty(t, open)

	require.NoError(t, repo.Delete(ctx, tk.ID))
	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPayments(t *testing.T) {
	f := newFixture(t)
	repo := NewPayments(f.deps)
	ctx := context.Background()

	_, err := repo.Create(ctx, PaymentInput{Type: "rent", Amount: 0, Method: "card"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "amount")

	p, err := repo.Create(ctx, PaymentInput{Type: "rent", Amount: 1500.25, Method: "transfer"})
	require.NoError(t, err)

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1500.25, got.Amount)
	assert.True(t, fixedNow.Equal(got.Timestamp))
	assert.Equal(t, []string{"payments:create"}, f.auditor.actions())
}

func TestGuestRequests(t *testing.T) {
	f := newFixture(t)
	repo := NewGuestRequests(f.deps)
	ctx := context.Background()

	_, err := repo.Create(ctx, GuestRequestInput{GuestEmail: "not-an-email", RequestType: "viewing"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "guestEmail")

	g, err := repo.Create(ctx, GuestRequestInput{GuestEmail: "guest@example.com", GuestPhone: "+201000", RequestType: "viewing"})
	require.NoError(t, err)
	assert.Equal(t, domain.GuestPending, g.Status)

	updated, err := repo.UpdateStatus(ctx, g.ID, domain.GuestContacted)
	require.NoError(t, err)
	assert.Equal(t, domain.GuestContacted, updated.Status)
	assert.Equal(t, "+201000", updated.GuestPhone)
}

func TestUsers(t *testing.T) {
	f := newFixture(t)
	repo := NewUsers(f.deps)
	ctx := context.Background()

	u, err := repo.Create(ctx, "uid-1", "owner@sky.test", ProfileFields{Name: "Mona", Role: access.RoleOwner})
	require.NoError(t, err)
	assert.Equal(t, "uid-1", u.ID)

	got, err := repo.Get(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, access.RoleOwner, got.Role)
	assert.Equal(t, "en", got.Language)
	assert.Equal(t, []string{}, got.LinkedProperties)
	assert.Equal(t, []string{}, got.Favorites)
	assert.True(t, fixedNow.Equal(got.CreatedAt))

	updated, err := repo.Update(ctx, "uid-1", UserPatch{Language: ptr("ar"), Role: ptr(access.RoleManager)})
	require.NoError(t, err)
	assert.Equal(t, "ar", updated.Language)
	assert.Equal(t, access.RoleManager, updated.Role)
	assert.Equal(t, "Mona", updated.Name)

	_, err = repo.Update(ctx, "uid-1", UserPatch{Language: ptr("fr")})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	tenant, err := repo.Create(ctx, "uid-2", "t@sky.test", ProfileFields{})
	require.NoError(t, err)
	assert.Equal(t, access.RoleTenant, tenant.Role)

	require.NoError(t, repo.Delete(ctx, "uid-2"))
	_, err = repo.Get(ctx, "uid-2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSettings(t *testing.T) {
	f := newFixture(t)
	repo := NewSettings(f.deps)
	ctx := context.Background()

	s, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), s)

	s.CommissionRate = 7.5
	s.SystemEmail = "ops@skyproperties.com"
	_, err = repo.Save(ctx, s)
	require.NoError(t, err)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7.5, got.CommissionRate)
	assert.Equal(t, "ops@skyproperties.com", got.SystemEmail)
	assert.Equal(t, 10.0, got.MaintenanceFee)

	s.SystemEmail = "nope"
	_, err = repo.Save(ctx, s)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}
