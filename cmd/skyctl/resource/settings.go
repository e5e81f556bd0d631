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

func SettingsCMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "System fees and contact details (admin)",
	}
	cmd.AddCommand(settingsShowCMD(), settingsSetCMD())
	return cmd
}

func settingsShowCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		Args:  cobra.NoArgs,
		RunE: app.Run(func(ctx context.Context, a *app.App, _ []string) error {
			if err := a.Require(access.RoleAdmin); err != nil {
				return err
			}
			s, err := views.NewSettingsScreen(a.Settings).Load(ctx)
			if err != nil {
				return err
			}
			return printSettings(a, s)
		}),
	}
}

func settingsSetCMD() *cobra.Command {
	var next domain.Settings
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the given settings",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = app.Run(func(ctx context.Context, a *app.App, _ []string) error {
		if err := a.Require(access.RoleAdmin); err != nil {
			return err
		}
		screen := views.NewSettingsScreen(a.Settings)
		s, err := screen.Load(ctx)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("commission") {
			s.CommissionRate = next.CommissionRate
		}
		if flags.Changed("rent-fee") {
			s.RentCollectionFee = next.RentCollectionFee
		}
		if flags.Changed("maintenance-fee") {
			s.MaintenanceFee = next.MaintenanceFee
		}
		if flags.Changed("email") {
			s.SystemEmail = next.SystemEmail
		}
		if flags.Changed("phone") {
			s.SystemPhone = next.SystemPhone
		}

		saved, err := screen.Save(ctx, s)
		if err != nil {
			return err
		}
		return printSettings(a, saved)
	})
	flags := cmd.Flags()
	flags.Float64Var(&next.CommissionRate, "commission", 0, "commission rate in percent")
	flags.Float64Var(&next.RentCollectionFee, "rent-fee", 0, "rent collection fee in percent")
	flags.Float64Var(&next.MaintenanceFee, "maintenance-fee", 0, "flat maintenance fee")
	flags.StringVar(&next.SystemEmail, "email", "", "system contact email")
	flags.StringVar(&next.SystemPhone, "phone", "", "system contact phone")
	return cmd
}

func printSettings(a *app.App, s domain.Settings) error {
	if a.JSON() {
		return a.Print(s)
	}
	fmt.Fprintf(a.Out, "commission rate:     %s%%\n", money(s.CommissionRate))
	fmt.Fprintf(a.Out, "rent collection fee: %s%%\n", money(s.RentCollectionFee))
	fmt.Fprintf(a.Out, "maintenance fee:     %s\n", money(s.MaintenanceFee))
	fmt.Fprintf(a.Out, "system email:        %s\n", app.OrDash(s.SystemEmail))
	fmt.Fprintf(a.Out, "system phone:        %s\n", app.OrDash(s.SystemPhone))
	return nil
}
