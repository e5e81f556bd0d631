// Package ops holds reporting and maintenance commands.
package ops

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/skyproperties/sky-backend/cmd/skyctl/app"
	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/locale"
	"github.com/skyproperties/sky-backend/internal/maintenance"
	"github.com/skyproperties/sky-backend/internal/views"
)

func NewCMDs() []*cobra.Command {
	return []*cobra.Command{AnalyticsCMD(), SweepCMD(), LocaleCMD()}
}

func AnalyticsCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Totals and status breakdowns across the portfolio",
		Args:  cobra.NoArgs,
		RunE: app.Run(func(ctx context.Context, a *app.App, _ []string) error {
			if err := a.Require(access.RoleManager); err != nil {
				return err
			}
			screen := views.NewAnalyticsScreen(a.Analytics)
			defer screen.Unmount()

			r, err := screen.Load(ctx)
			if err != nil {
				return err
			}
			if a.JSON() {
				return a.Print(r)
			}

			fmt.Fprintf(a.Out, "properties: %d\nunits:      %d\ntickets:    %d\npayments:   %d\n",
				r.TotalProperties, r.TotalUnits, r.TotalTickets, r.TotalPayments)
			fmt.Fprintf(a.Out, "revenue:    %s\noccupancy:  %s%%\n",
				strconv.FormatFloat(r.TotalRevenue, 'f', 2, 64),
				strconv.FormatFloat(r.OccupancyRate, 'f', 1, 64))

			fmt.Fprintln(a.Out, "\nunits by status:")
			printCounts(a, r.UnitsByStatus)
			fmt.Fprintln(a.Out, "\ntickets by status:")
			printCounts(a, r.TicketsByStatus)
			return nil
		}),
	}
}

func printCounts[K ~string](a *app.App, counts map[K]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(a.Out, "  %-12s %d\n", k, counts[K(k)])
	}
}

func SweepCMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete uploaded files no property references",
		Args:  cobra.NoArgs,
		RunE: app.Run(func(ctx context.Context, a *app.App, _ []string) error {
			if err := a.Require(access.RoleAdmin); err != nil {
				return err
			}
			if !a.Confirm()("Delete unreferenced property files?") {
				fmt.Fprintln(a.Out, "cancelled")
				return nil
			}
			sweeper := maintenance.NewSweeper(a.Stack.Gateway.Docs, a.Stack.Gateway.Blobs, a.Config.Sweeper.GracePeriod)
			res, err := sweeper.Sweep(ctx)
			if err != nil {
				return err
			}
			if a.JSON() {
				return a.Print(res)
			}
			fmt.Fprintf(a.Out, "scanned %d, deleted %d, kept %d, failed %d\n", res.Scanned, res.Deleted, res.Kept, res.Failed)
			return nil
		}),
	}
	cmd.Flags().BoolP(app.YesFlagName, "y", false, "skip the confirmation prompt")
	return cmd
}

func LocaleCMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locale",
		Short: "Interface language of the signed-in profile",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the language and text direction",
			Args:  cobra.NoArgs,
			RunE: app.Run(func(_ context.Context, a *app.App, _ []string) error {
				return printLocale(a, currentLanguage(a))
			}),
		},
		&cobra.Command{
			Use:   "toggle",
			Short: "Switch between English and Arabic",
			Args:  cobra.NoArgs,
			RunE: app.Run(func(ctx context.Context, a *app.App, _ []string) error {
				if err := a.Require(access.RoleAny); err != nil {
					return err
				}
				next := locale.Toggle(currentLanguage(a))
				uid := a.Session.Snapshot().Principal.ID
				if _, err := a.Users.Update(ctx, uid, repository.UserPatch{Language: &next}); err != nil {
					return err
				}
				return printLocale(a, next)
			}),
		},
	)
	return cmd
}

func currentLanguage(a *app.App) string {
	if p := a.Session.Snapshot().Profile; p != nil && locale.Supported(p.Language) {
		return p.Language
	}
	return locale.Negotiate(envLanguage())
}

func printLocale(a *app.App, lang string) error {
	out := struct {
		Language  string     `json:"language"`
		Direction locale.Dir `json:"direction"`
	}{lang, locale.Direction(lang)}
	if a.JSON() {
		return a.Print(out)
	}
	fmt.Fprintf(a.Out, "%s (%s)\n", out.Language, out.Direction)
	return nil
}
