package resource

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skyproperties/sky-backend/cmd/skyctl/app"
	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/views"
)

func UsersCMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "User profiles (admin)",
	}
	cmd.AddCommand(
		listCMD(access.RoleAdmin,
			func(a *app.App) *views.List[domain.User] {
				return views.NewUsersScreen(a.Users, a.Stack.Bus).List
			},
			[]string{"ID", "EMAIL", "NAME", "ROLE", "PHONE", "LANGUAGE"},
			func(u domain.User) []string {
				return []string{u.ID, u.Email, app.OrDash(u.Name), string(u.Role), app.OrDash(u.Phone), app.OrDash(u.Language)}
			},
		),
		userUpdateCMD(),
		deleteCMD(access.RoleAdmin, func(ctx context.Context, a *app.App, id string) (bool, error) {
			return views.NewUsersScreen(a.Users, a.Stack.Bus).Delete(ctx, id, a.Confirm())
		}),
	)
	return cmd
}

func userUpdateCMD() *cobra.Command {
	var name, role, phone string
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a profile's name, role or phone",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = app.Run(func(ctx context.Context, a *app.App, args []string) error {
		if err := a.Require(access.RoleAdmin); err != nil {
			return err
		}
		u, err := a.Users.Get(ctx, args[0])
		if err != nil {
			return err
		}
		screen := views.NewUsersScreen(a.Users, a.Stack.Bus)
		screen.Edit(u)

		draft := screen.Modal.Draft()
		flags := cmd.Flags()
		if flags.Changed("name") {
			draft.Name = name
		}
		if flags.Changed("phone") {
			draft.Phone = phone
		}
		if flags.Changed("role") {
			r, err := access.ParseRole(role)
			if err != nil {
				return err
			}
			draft.Role = r
		}

		screen.Modal.SetDraft(draft)
		if err := screen.Modal.Submit(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.Out, "saved")
		return nil
	})
	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "display name")
	flags.StringVar(&role, "role", "", "admin | manager | owner | tenant | provider")
	flags.StringVar(&phone, "phone", "", "phone number")
	return cmd
}
