package resource

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyproperties/sky-backend/cmd/skyctl/app"
	"github.com/skyproperties/sky-backend/config"
	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/bootstrap"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
)

// newApp connects an App to a fresh miniredis and signs in a profile with
// the given role.
func newApp(t *testing.T, role access.Role) *app.App {
	t.Helper()
	ctx := context.Background()
	mr := miniredis.RunT(t)

	t.Setenv("STORE_BACKEND", config.BackendRedis)
	t.Setenv("BLOB_BACKEND", config.BackendRedis)
	t.Setenv("EVENT_BUS", config.BackendLocal)
	t.Setenv("AUTH_PROVIDER", config.BackendLocal)
	t.Setenv("REDIS_ADDR", mr.Addr())
	t.Setenv("AUDIT_DB_HOST", "")
	t.Setenv("SKYCTL_TOKEN_FILE", filepath.Join(t.TempDir(), "token"))

	cfg, err := config.Load()
	require.NoError(t, err)
	stack, err := bootstrap.Build(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stack.Close() })

	a := app.New(cfg, stack)
	require.NoError(t, a.Session.Start(ctx))
	t.Cleanup(a.Session.Close)

	const email, password = "staff@sky.test", "secret123"
	require.NoError(t, a.Session.SignUp(ctx, email, password, repository.ProfileFields{Name: "Staff"}))
	if role != access.RoleTenant {
		uid := a.Session.Snapshot().Principal.ID
		_, err := a.Users.Update(ctx, uid, repository.UserPatch{Role: &role})
		require.NoError(t, err)
		require.NoError(t, a.Session.SignOut(ctx))
		require.NoError(t, a.Session.SignIn(ctx, email, password))
	}
	return a
}

// execute runs one command group the way the root command would.
func execute(t *testing.T, a *app.App, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(app.WithApp(context.Background(), a))
	return out.String(), err
}

func TestPropertyCommands(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, access.RoleManager)

	out, err := execute(t, a, PropertiesCMD(), "create", "--name", "Tower A", "--city", "Cairo", "--manager", "mgr-1")
	require.NoError(t, err)
	assert.Equal(t, "saved\n", out)

	props, err := a.Properties.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, props, 1)
	p := props[0]
	assert.Equal(t, "mgr-1", p.ManagerID)

	_, err = execute(t, a, PropertiesCMD(), "update", p.ID, "--city", "Giza")
	require.NoError(t, err)
	stored, err := a.Properties.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Giza", stored.City)
	assert.Equal(t, "mgr-1", stored.ManagerID)

	_, err = execute(t, a, PropertiesCMD(), "update", p.ID, "--clear-manager")
	require.NoError(t, err)
	stored, err = a.Properties.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.ManagerID)
	assert.Equal(t, "Tower A", stored.Name)

	out, err = execute(t, a, PropertiesCMD(), "list", "--search", "giza")
	require.NoError(t, err)
	assert.Contains(t, out, "Tower A")

	out, err = execute(t, a, PropertiesCMD(), "delete", p.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "cancelled")

	out, err = execute(t, a, PropertiesCMD(), "delete", p.ID, "--yes")
	require.NoError(t, err)
	assert.Equal(t, "deleted "+p.ID+"\n", out)
	_, err = a.Properties.Get(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPropertyUpdateEmptyManagerClears(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, access.RoleManager)

	p, err := a.Properties.Create(ctx, repository.PropertyInput{Name: "Tower A", City: "Cairo", ManagerID: "mgr-1"}, repository.PropertyFiles{})
	require.NoError(t, err)

	_, err = execute(t, a, PropertiesCMD(), "update", p.ID, "--manager", "")
	require.NoError(t, err)
	stored, err := a.Properties.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.ManagerID)
}

func TestUnitCommands(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, access.RoleManager)
	p, err := a.Properties.Create(ctx, repository.PropertyInput{Name: "Tower A", City: "Cairo"}, repository.PropertyFiles{})
	require.NoError(t, err)

	_, err = execute(t, a, UnitsCMD(), "create", "--number", "101", "--property", p.ID, "--floor", "1", "--area", "big")
	var verr *repository.ValidationError
	require.ErrorAs(t, err, &verr)

	out, err := execute(t, a, UnitsCMD(), "create", "--number", "101", "--property", p.ID, "--floor", "1", "--area", "80", "--rent", "4500")
	require.NoError(t, err)
	assert.Equal(t, "saved\n", out)

	units, err := a.Units.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, units, 1)

	_, err = execute(t, a, UnitsCMD(), "update", units[0].ID, "--status", string(domain.UnitOccupied))
	require.NoError(t, err)
	u, err := a.Units.Get(ctx, units[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UnitOccupied, u.Status)
	assert.Equal(t, 4500.0, u.RentValue)

	out, err = execute(t, a, UnitsCMD(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Tower A")
	assert.Contains(t, out, "4500.00")
}

func TestTicketCommands(t *testing.T) {
	ctx := context.Background()
	a := newApp(t, access.RoleManager)

	out, err := execute(t, a, TicketsCMD(), "open", "--category", "plumbing", "--description", "leaking sink")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "opened ticket "))
	id := strings.TrimSpace(strings.TrimPrefix(out, "opened ticket "))

	_, err = execute(t, a, TicketsCMD(), "status", id, "done")
	assert.Error(t, err)

	out, err = execute(t, a, TicketsCMD(), "status", id, string(domain.TicketCompleted))
	require.NoError(t, err)
	assert.Equal(t, "ticket "+id+" is completed\n", out)

	tk, err := a.Tickets.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketCompleted, tk.Status)
	assert.Equal(t, a.Session.Snapshot().Principal.ID, tk.CreatedBy)
}

func TestManagementCommandsRequireManager(t *testing.T) {
	a := newApp(t, access.RoleTenant)

	_, err := execute(t, a, PropertiesCMD(), "create", "--name", "Tower A", "--city", "Cairo")
	assert.ErrorIs(t, err, app.ErrPermissionDenied)

	_, err = execute(t, a, UnitsCMD(), "list")
	assert.ErrorIs(t, err, app.ErrPermissionDenied)

	out, err := execute(t, a, TicketsCMD(), "open", "--category", "electrical")
	require.NoError(t, err)
	assert.Contains(t, out, "opened ticket")
}
