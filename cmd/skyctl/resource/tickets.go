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

func TicketsCMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tickets",
		Aliases: []string{"ticket"},
		Short:   "Maintenance tickets",
	}
	cmd.AddCommand(
		listCMD(access.RoleManager,
			func(a *app.App) *views.List[domain.Ticket] {
				return views.NewTicketsScreen(a.Tickets, a.Stack.Bus).List
			},
			[]string{"ID", "CATEGORY", "STATUS", "UNIT", "CREATED BY", "DESCRIPTION"},
			func(t domain.Ticket) []string {
				return []string{t.ID, t.Category, string(t.Status), app.OrDash(t.UnitID), app.OrDash(t.CreatedBy), t.Description}
			},
		),
		ticketOpenCMD(),
		ticketStatusCMD(),
		deleteCMD(access.RoleManager, func(ctx context.Context, a *app.App, id string) (bool, error) {
			return views.NewTicketsScreen(a.Tickets, a.Stack.Bus).Delete(ctx, id, a.Confirm())
		}),
	)
	return cmd
}

func ticketOpenCMD() *cobra.Command {
	var in repository.TicketInput
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a ticket as the signed-in user",
		Args:  cobra.NoArgs,
		RunE: app.Run(func(ctx context.Context, a *app.App, _ []string) error {
			if err := a.Require(access.RoleAny); err != nil {
				return err
			}
			in.CreatedBy = a.Session.Snapshot().Principal.ID
			t, err := a.Tickets.Create(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "opened ticket %s\n", t.ID)
			return nil
		}),
	}
	flags := cmd.Flags()
	flags.StringVar(&in.Category, "category", "", "plumbing, electrical, ...")
	flags.StringVar(&in.Description, "description", "", "what needs fixing")
	flags.StringVar(&in.UnitID, "unit", "", "unit id")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func ticketStatusCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Move a ticket to open, assigned, inProgress, completed or closed",
		Args:  cobra.ExactArgs(2),
		RunE: app.Run(func(ctx context.Context, a *app.App, args []string) error {
			if err := a.Require(access.RoleManager); err != nil {
				return err
			}
			status := domain.TicketStatus(args[1])
			if !status.Valid() {
				return fmt.Errorf("unknown ticket status %q", args[1])
			}
			if err := views.NewTicketsScreen(a.Tickets, a.Stack.Bus).SetStatus(ctx, args[0], status); err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "ticket %s is %s\n", args[0], status)
			return nil
		}),
	}
}
