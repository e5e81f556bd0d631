// Package account holds the sign-in commands.
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skyproperties/sky-backend/cmd/skyctl/app"
	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/locale"
	"github.com/skyproperties/sky-backend/internal/session"
)

// NewCMDs returns the top-level account commands.
func NewCMDs() []*cobra.Command {
	return []*cobra.Command{LoginCMD(), RegisterCMD(), ResetPasswordCMD(), LogoutCMD(), WhoamiCMD()}
}

func LoginCMD() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: app.Run(func(ctx context.Context, a *app.App, _ []string) error {
			if err := a.Session.SignIn(ctx, email, password); err != nil {
				return err
			}
			if err := a.SaveToken(); err != nil {
				return err
			}
			return printWhoami(a)
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func RegisterCMD() *cobra.Command {
	var (
		email, password string
		fields          repository.ProfileFields
		role            string
	)
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and its profile",
		Long: `Create an account and its profile.
Roles available at registration: owner, tenant, provider (default tenant).`,
		RunE: app.Run(func(ctx context.Context, a *app.App, _ []string) error {
			if role != "" {
				r, err := access.ParseRole(role)
				if err != nil {
					return err
				}
				fields.Role = r
			}
			if err := a.Session.SignUp(ctx, email, password, fields); err != nil {
				if errors.Is(err, session.ErrRoleNotAvailable) {
					return fmt.Errorf("%w: choose owner, tenant or provider", err)
				}
				return err
			}
			if err := a.SaveToken(); err != nil {
				return err
			}
			return printWhoami(a)
		}),
	}
	flags := cmd.Flags()
	flags.StringVar(&email, "email", "", "account email")
	flags.StringVar(&password, "password", "", "account password")
	flags.StringVar(&fields.Name, "name", "", "display name")
	flags.StringVar(&fields.Phone, "phone", "", "phone number")
	flags.StringVar(&role, "role", "", "owner | tenant | provider")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func ResetPasswordCMD() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Send a password reset email",
		RunE: app.Run(func(ctx context.Context, a *app.App, _ []string) error {
			if err := a.Session.ResetPassword(ctx, email); err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "reset email sent to %s\n", email)
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func LogoutCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		RunE: app.Run(func(ctx context.Context, a *app.App, _ []string) error {
			err := a.Session.SignOut(ctx)
			if err != nil && !errors.Is(err, session.ErrNotSignedIn) {
				return err
			}
			return a.ForgetToken()
		}),
	}
}

func WhoamiCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account and role",
		RunE: app.Run(func(_ context.Context, a *app.App, _ []string) error {
			return printWhoami(a)
		}),
	}
}

type whoami struct {
	UID       string      `json:"uid"`
	Email     string      `json:"email"`
	Name      string      `json:"name,omitempty"`
	Role      access.Role `json:"role,omitempty"`
	Language  string      `json:"language,omitempty"`
	Direction locale.Dir  `json:"direction,omitempty"`
}

func printWhoami(a *app.App) error {
	s := a.Session.Snapshot()
	if !s.SignedIn() {
		return session.ErrNotSignedIn
	}
	out := whoami{UID: s.Principal.ID, Email: s.Principal.Email}
	if s.Profile != nil {
		out.Name = s.Profile.Name
		out.Role = s.Profile.Role
		out.Language = s.Profile.Language
		out.Direction = locale.Direction(s.Profile.Language)
	}
	if a.JSON() {
		return a.Print(out)
	}
	if s.Profile == nil {
		fmt.Fprintf(a.Out, "%s (%s), no profile\n", out.Email, out.UID)
		return nil
	}
	fmt.Fprintf(a.Out, "%s (%s)\nname: %s\nrole: %s\nlanguage: %s\n",
		out.Email, out.UID, app.OrDash(out.Name), out.Role, app.OrDash(out.Language))
	return nil
}
