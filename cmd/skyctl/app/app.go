// Package app holds what every skyctl command shares: the connected
// backends, the signed-in session and the output helpers.
package app

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skyproperties/sky-backend/config"
	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/analytics"
	"github.com/skyproperties/sky-backend/internal/bootstrap"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/identity"
	"github.com/skyproperties/sky-backend/internal/logging"
	"github.com/skyproperties/sky-backend/internal/session"
	"github.com/skyproperties/sky-backend/internal/views"
)

var ErrPermissionDenied = errors.New("permission denied")

// App is built once per command invocation.
type App struct {
	Config  *config.Config
	Stack   *bootstrap.Stack
	Client  *identity.Client
	Session *session.Context

	Properties *repository.Properties
	Units      *repository.Units
	Tickets    *repository.Tickets
	Payments   *repository.Payments
	Guests     *repository.GuestRequests
	Users      *repository.Users
	Settings   *repository.SettingsRepo
	Analytics  *analytics.Service

	In  io.Reader
	Out io.Writer

	yes    bool
	output string
}

type appKey struct{}

// WithApp makes Run use a instead of connecting on its own. The caller owns
// a and its session and closes them.
func WithApp(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, appKey{}, a)
}

// Run wraps a command body: it connects, resumes the saved session, runs
// fn and releases everything afterwards.
func Run(fn func(ctx context.Context, a *App, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if a, ok := ctx.Value(appKey{}).(*App); ok {
			a.bind(cmd)
			return fn(ctx, a, args)
		}
		a, err := open(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(ctx, a, args)
	}
}

func open(ctx context.Context, cmd *cobra.Command) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.InitWithOutput("skyctl", cfg.App.LogLevel, cfg.App.LogFormat, os.Stderr)

	stack, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := New(cfg, stack)
	a.bind(cmd)

	if err := a.Session.Start(ctx); err != nil {
		_ = stack.Close()
		return nil, err
	}
	if err := a.restore(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// New wires the repositories and a signed-out session over stack. The
// session is not started.
func New(cfg *config.Config, stack *bootstrap.Stack) *App {
	d := stack.Deps
	a := &App{
		Config:     cfg,
		Stack:      stack,
		Client:     identity.NewClient(stack.Provider),
		Properties: repository.NewProperties(d),
		Units:      repository.NewUnits(d),
		Tickets:    repository.NewTickets(d),
		Payments:   repository.NewPayments(d),
		Guests:     repository.NewGuestRequests(d),
		Users:      repository.NewUsers(d),
		Settings:   repository.NewSettings(d),
	}
	a.Analytics = analytics.NewService(a.Properties, a.Units, a.Tickets, a.Payments)
	a.Session = session.New(a.Client, a.Users)
	return a
}

// bind takes the streams and shared flags of the running command.
func (a *App) bind(cmd *cobra.Command) {
	a.In, a.Out = cmd.InOrStdin(), cmd.OutOrStdout()
	flags := cmd.Flags()
	a.yes, _ = flags.GetBool(YesFlagName)
	a.output, _ = flags.GetString(OutputFlagName)
}

func (a *App) close() {
	a.Session.Close()
	if err := a.Stack.Close(); err != nil {
		logrus.WithError(err).Warn("closing backends")
	}
}

// TokenPath is where the session token is kept between invocations.
func TokenPath() (string, error) {
	if p := os.Getenv("SKYCTL_TOKEN_FILE"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "skyctl", "token"), nil
}

func (a *App) restore(ctx context.Context) error {
	path, err := TokenPath()
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return nil
	}
	err = a.Session.Restore(ctx, token)
	if errors.Is(err, identity.ErrInvalidToken) {
		logging.Op(ctx, "skyctl.restore").Info("saved session expired, signed out")
		return a.ForgetToken()
	}
	return err
}

// SaveToken persists the current principal's token.
func (a *App) SaveToken() error {
	p := a.Client.Current()
	if p == nil || p.IDToken == "" {
		return nil
	}
	path, err := TokenPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(p.IDToken+"\n"), 0o600)
}

func (a *App) ForgetToken() error {
	path, err := TokenPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Require fails unless the signed-in profile satisfies role.
func (a *App) Require(role access.Role) error {
	s := a.Session.Snapshot()
	if !s.SignedIn() {
		return session.ErrNotSignedIn
	}
	if !s.CanAccess(role) {
		if role == access.RoleAny {
			return fmt.Errorf("%w: no profile for this account", ErrPermissionDenied)
		}
		return fmt.Errorf("%w: requires the %s role", ErrPermissionDenied, role)
	}
	return nil
}

// Confirm accepts when --yes was given, otherwise asks on the input.
func (a *App) Confirm() views.Confirm {
	return func(prompt string) bool {
		if a.yes {
			return true
		}
		fmt.Fprintf(a.Out, "%s [y/N]: ", prompt)
		line, _ := bufio.NewReader(a.In).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}

// JSON reports whether -o json was requested.
func (a *App) JSON() bool {
	return a.output == "json"
}

// Print writes v as indented JSON.
func (a *App) Print(v any) error {
	enc := json.NewEncoder(a.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
