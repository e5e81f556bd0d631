package resource

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skyproperties/sky-backend/cmd/skyctl/app"
	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/views"
)

func GuestsCMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "guests",
		Aliases: []string{"guest-requests"},
		Short:   "Guest inquiries",
	}
	cmd.AddCommand(
		listCMD(access.RoleManager,
			func(a *app.App) *views.List[domain.GuestRequest] {
				return views.NewGuestRequestsScreen(a.Guests, a.Stack.Bus).List
			},
			[]string{"ID", "NAME", "EMAIL", "PHONE", "TYPE", "STATUS", "MESSAGE"},
			func(g domain.GuestRequest) []string {
				return []string{g.ID, app.OrDash(g.GuestName), g.GuestEmail, app.OrDash(g.GuestPhone), g.RequestType, string(g.Status), g.Message}
			},
		),
		guestSubmitCMD(),
		guestStatusCMD(),
		deleteCMD(access.RoleManager, func(ctx context.Context, a *app.App, id string) (bool, error) {
			return views.NewGuestRequestsScreen(a.Guests, a.Stack.Bus).Delete(ctx, id, a.Confirm())
		}),
	)
	return cmd
}

// guestSubmitCMD files an inquiry; no sign-in needed, as on the landing page.
func guestSubmitCMD() *cobra.Command {
	var in repository.GuestRequestInput
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a guest inquiry",
		Args:  cobra.NoArgs,
		RunE: app.Run(func(ctx context.Context, a *app.App, _ []string) error {
			g, err := a.Guests.Create(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "submitted request %s\n", g.ID)
			return nil
		}),
	}
	flags := cmd.Flags()
	flags.StringVar(&in.GuestName, "name", "", "guest name")
	flags.StringVar(&in.GuestEmail, "email", "", "guest email")
	flags.StringVar(&in.GuestPhone, "phone", "", "guest phone")
	flags.StringVar(&in.RequestType, "type", "", "viewing, rent, purchase, ...")
	flags.StringVar(&in.Message, "message", "", "message")
	flags.StringVar(&in.PropertyID, "property", "", "property id")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func guestStatusCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Move a request to pending, contacted or completed",
		Args:  cobra.ExactArgs(2),
		RunE: app.Run(func(ctx context.Context, a *app.App, args []string) error {
			if err := a.Require(access.RoleManager); err != nil {
				return err
			}
			status := domain.GuestRequestStatus(args[1])
			if !status.Valid() {
				return fmt.Errorf("unknown request status %q", args[1])
			}
			if err := views.NewGuestRequestsScreen(a.Guests, a.Stack.Bus).SetStatus(ctx, args[0], status); err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "request %s is %s\n", args[0], status)
			return nil
		}),
	}
}
