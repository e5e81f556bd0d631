package resource

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skyproperties/sky-backend/cmd/skyctl/app"
	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/estate/domain"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/views"
)

func PaymentsCMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "payments",
		Aliases: []string{"payment"},
		Short:   "Payment records",
	}
	cmd.AddCommand(
		listCMD(access.RoleManager,
			func(a *app.App) *views.List[domain.Payment] {
				return views.NewPaymentsScreen(a.Payments, a.Stack.Bus).List
			},
			[]string{"ID", "TYPE", "AMOUNT", "METHOD", "UNIT", "PAYER", "AT"},
			func(p domain.Payment) []string {
				return []string{p.ID, p.Type, money(p.Amount), p.Method, app.OrDash(p.UnitID), app.OrDash(p.PayerID), p.Timestamp.Format(time.RFC3339)}
			},
		),
		paymentRecordCMD(),
	)
	return cmd
}

func paymentRecordCMD() *cobra.Command {
	var in repository.PaymentInput
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a payment",
		Args:  cobra.NoArgs,
		RunE: app.Run(func(ctx context.Context, a *app.App, _ []string) error {
			if err := a.Require(access.RoleManager); err != nil {
				return err
			}
			p, err := a.Payments.Create(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "recorded payment %s\n", p.ID)
			return nil
		}),
	}
	flags := cmd.Flags()
	flags.StringVar(&in.Type, "type", "", "rent, sale, fee, ...")
	flags.Float64Var(&in.Amount, "amount", 0, "amount paid")
	flags.StringVar(&in.Method, "method", "", "cash, card, transfer, ...")
	flags.StringVar(&in.UnitID, "unit", "", "unit id")
	flags.StringVar(&in.PayerID, "payer", "", "paying user id")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("method")
	return cmd
}
