package views

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/analytics"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/events"
	"github.com/skyproperties/sky-backend/internal/gateway/redisstore"
)

func newDeps(t *testing.T) *repository.Deps {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := redisstore.New(client, "views", "http://localhost:8080")
	return &repository.Deps{Docs: store, Blobs: store, Bus: events.NewLocalBus()}
}

func accept(string) bool  { return true }
func decline(string) bool { return false }

func TestPropertiesScreenSearchByCity(t *testing.T) {
	ctx := context.Background()
	deps := newDeps(t)
	screen := NewPropertiesScreen(repository.NewProperties(deps), deps.Bus)
	require.NoError(t, screen.Mount(ctx))
	defer screen.Unmount()

	screen.Modal.OpenCreate(PropertyDraft{Input: repository.PropertyInput{Name: "Tower A", City: "Cairo"}})
	require.NoError(t, screen.Modal.Submit(ctx))
	screen.Modal.OpenCreate(PropertyDraft{Input: repository.PropertyInput{Name: "Marina Heights", City: "Dubai"}})
	require.NoError(t, screen.Modal.Submit(ctx))

	screen.Search("cairo")
	got, err := screen.Filtered(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Tower A", got[0].Name)

	all, err := screen.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPropertiesScreenEditAndDelete(t *testing.T) {
	ctx := context.Background()
	deps := newDeps(t)
	repo := repository.NewProperties(deps)
	screen := NewPropertiesScreen(repo, deps.Bus)

	p, err := repo.Create(ctx, repository.PropertyInput{Name: "Tower A", City: "Cairo"}, repository.PropertyFiles{})
	require.NoError(t, err)
	require.NoError(t, screen.Mount(ctx))

	screen.Edit(p)
	draft := screen.Modal.Draft()
	draft.Input.City = "Giza"
	screen.Modal.SetDraft(draft)
	require.NoError(t, screen.Modal.Submit(ctx))

	stored, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Giza", stored.City)
	assert.Equal(t, "Tower A", stored.Name)

	deleted, err := screen.Delete(ctx, p.ID, decline)
	require.NoError(t, err)
	assert.False(t, deleted)
	items, err := screen.Items(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	deleted, err = screen.Delete(ctx, p.ID, accept)
	require.NoError(t, err)
	assert.True(t, deleted)
	items, err = screen.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestScreensWriteWithoutMount(t *testing.T) {
	ctx := context.Background()
	deps := newDeps(t)

	properties := repository.NewProperties(deps)
	ps := NewPropertiesScreen(properties, deps.Bus)
	ps.Modal.OpenCreate(PropertyDraft{Input: repository.PropertyInput{Name: "Tower A", City: "Cairo"}})
	require.NoError(t, ps.Modal.Submit(ctx))
	assert.False(t, ps.Modal.IsOpen())

	stored, err := properties.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	deleted, err := ps.Delete(ctx, stored[0].ID, accept)
	require.NoError(t, err)
	assert.True(t, deleted)

	tickets := repository.NewTickets(deps)
	tk, err := tickets.Create(ctx, repository.TicketInput{Category: "plumbing"})
	require.NoError(t, err)
	ts := NewTicketsScreen(tickets, deps.Bus)
	require.NoError(t, ts.SetStatus(ctx, tk.ID, domain.TicketCompleted))

	got, err := tickets.Get(ctx, tk.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketCompleted, got.Status)

	_, err = ts.Items(ctx)
	assert.ErrorIs(t, err, ErrNotMounted)
}

func TestPropertiesScreenClearManager(t *testing.T) {
	ctx := context.Background()
	deps := newDeps(t)
	repo := repository.NewProperties(deps)
	screen := NewPropertiesScreen(repo, deps.Bus)

	p, err := repo.Create(ctx, repository.PropertyInput{Name: "Tower A", City: "Cairo", ManagerID: "mgr-1"}, repository.PropertyFiles{})
	require.NoError(t, err)

	screen.Modal.OpenEdit(p.ID, PropertyDraft{Input: repository.PropertyInput{Name: "Tower A", City: "Cairo"}})
	require.NoError(t, screen.Modal.Submit(ctx))
	stored, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "mgr-1", stored.ManagerID, "blank manager keeps the assignment")

	screen.Modal.OpenEdit(p.ID, PropertyDraft{Input: repository.PropertyInput{Name: "Tower A", City: "Cairo"}, ClearManager: true})
	require.NoError(t, screen.Modal.Submit(ctx))
	stored, err = repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.ManagerID)
}

func TestUnitsScreenResolvesPropertyNames(t *testing.T) {
	ctx := context.Background()
	deps := newDeps(t)
	properties := repository.NewProperties(deps)
	units := repository.NewUnits(deps)

	p, err := properties.Create(ctx, repository.PropertyInput{Name: "Tower A", City: "Cairo"}, repository.PropertyFiles{})
	require.NoError(t, err)

	screen := NewUnitsScreen(units, properties, deps.Bus)
	require.NoError(t, screen.Mount(ctx))

	screen.Modal.OpenCreate(repository.UnitForm{UnitNumber: "101", PropertyID: p.ID, Floor: "1", Area: "85.5"})
	require.NoError(t, screen.Modal.Submit(ctx))

	rows, err := screen.Items(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Tower A", rows[0].PropertyName)

	require.NoError(t, properties.Delete(ctx, p.ID))
	require.NoError(t, screen.Refresh(ctx))
	rows, err = screen.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.UnknownProperty, rows[0].PropertyName)
}

func TestUnitsScreenRejectsMalformedNumbers(t *testing.T) {
	ctx := context.Background()
	deps := newDeps(t)
	properties := repository.NewProperties(deps)
	p, err := properties.Create(ctx, repository.PropertyInput{Name: "Tower A", City: "Cairo"}, repository.PropertyFiles{})
	require.NoError(t, err)

	screen := NewUnitsScreen(repository.NewUnits(deps), properties, deps.Bus)
	require.NoError(t, screen.Mount(ctx))

	screen.Modal.OpenCreate(repository.UnitForm{UnitNumber: "101", PropertyID: p.ID, Floor: "1", Area: "big"})
	err = screen.Modal.Submit(ctx)

	var verr *repository.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "area")
	assert.True(t, screen.Modal.IsOpen())
}

func TestUnitFormForRoundTrip(t *testing.T) {
	form := UnitFormFor(domain.Unit{
		UnitNumber: "7B",
		PropertyID: "p1",
		Floor:      7,
		Type:       domain.UnitOffice,
		Area:       120.25,
		RentValue:  3000,
		Status:     domain.UnitOccupied,
	})
	in, err := repository.ParseUnitForm(form)
	require.NoError(t, err)
	assert.Equal(t, 7, in.Floor)
	assert.Equal(t, 120.25, in.Area)
	assert.Equal(t, 3000.0, in.RentValue)
	assert.Equal(t, domain.UnitOffice, in.Type)
}

func TestTicketsScreenStatus(t *testing.T) {
	ctx := context.Background()
	deps := newDeps(t)
	repo := repository.NewTickets(deps)
	tk, err := repo.Create(ctx, repository.TicketInput{Category: "plumbing"})
	require.NoError(t, err)

	screen := NewTicketsScreen(repo, deps.Bus)
	require.NoError(t, screen.Mount(ctx))
	require.NoError(t, screen.SetStatus(ctx, tk.ID, domain.TicketCompleted))

	screen.Search("completed")
	got, err := screen.Filtered(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.TicketCompleted, got[0].Status)
}

func TestUsersScreenEdit(t *testing.T) {
	ctx := context.Background()
	deps := newDeps(t)
	repo := repository.NewUsers(deps)
	u, err := repo.Create(ctx, "uid-1", "mona@example.com", repository.ProfileFields{Name: "Mona"})
	require.NoError(t, err)

	screen := NewUsersScreen(repo, deps.Bus)
	require.NoError(t, screen.Mount(ctx))

	screen.Edit(u)
	d := screen.Modal.Draft()
	d.Role = access.RoleManager
	screen.Modal.SetDraft(d)
	require.NoError(t, screen.Modal.Submit(ctx))

	screen.Search("manager")
	got, err := screen.Filtered(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Mona", got[0].Name)
}

func TestAnalyticsScreen(t *testing.T) {
	ctx := context.Background()
	deps := newDeps(t)
	payments := repository.NewPayments(deps)
	_, err := payments.Create(ctx, repository.PaymentInput{Type: "rent", Amount: 1200, Method: "card"})
	require.NoError(t, err)

	svc := analytics.NewService(repository.NewProperties(deps), repository.NewUnits(deps), repository.NewTickets(deps), payments)
	screen := NewAnalyticsScreen(svc)

	_, ok := screen.Report()
	assert.False(t, ok)

	report, err := screen.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, report.TotalRevenue)

	screen.Unmount()
	_, ok = screen.Report()
	assert.False(t, ok)
}

func TestSettingsScreen(t *testing.T) {
	ctx := context.Background()
	deps := newDeps(t)
	screen := NewSettingsScreen(repository.NewSettings(deps))

	s, err := screen.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings().CommissionRate, s.CommissionRate)

	s.CommissionRate = 7.5
	_, err = screen.Save(ctx, s)
	require.NoError(t, err)

	reloaded, err := screen.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7.5, reloaded.CommissionRate)
}
