package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/skyproperties/sky-backend/cmd/skyctl/account"
	"github.com/skyproperties/sky-backend/cmd/skyctl/app"
	"github.com/skyproperties/sky-backend/cmd/skyctl/ops"
	"github.com/skyproperties/sky-backend/cmd/skyctl/resource"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "skyctl",
		Short: "SkyProperties management client",
		Long: `Manage SkyProperties from the terminal.
Sign in with "skyctl login"; the session is kept until "skyctl logout".`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringP(app.OutputFlagName, "o", "table", "output format: [ table | json ]")

	rootCmd.AddCommand(account.NewCMDs()...)
	rootCmd.AddCommand(resource.NewCMDs()...)
	rootCmd.AddCommand(ops.NewCMDs()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
