// Package resource holds the list and edit commands for each collection.
package resource

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/skyproperties/sky-backend/cmd/skyctl/app"
	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/views"
)

// NewCMDs returns one command group per collection.
func NewCMDs() []*cobra.Command {
	return []*cobra.Command{
		PropertiesCMD(),
		UnitsCMD(),
		TicketsCMD(),
		PaymentsCMD(),
		GuestsCMD(),
		UsersCMD(),
		SettingsCMD(),
	}
}

// listCMD mounts the screen's list, applies --search and prints the rows.
func listCMD[T any](role access.Role, list func(*app.App) *views.List[T], header []string, row func(T) []string) *cobra.Command {
	var term string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records, optionally filtered with --search",
		Args:  cobra.NoArgs,
		RunE: app.Run(func(ctx context.Context, a *app.App, _ []string) error {
			if err := a.Require(role); err != nil {
				return err
			}
			l := list(a)
			if err := l.Mount(ctx); err != nil {
				return err
			}
			defer l.Unmount()

			l.Search(term)
			items, err := l.Filtered(ctx)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(items))
			for _, it := range items {
				rows = append(rows, row(it))
			}
			return a.Table(items, header, rows)
		}),
	}
	cmd.Flags().StringVarP(&term, app.SearchFlagName, "s", "", "case-insensitive substring filter")
	return cmd
}

// deleteCMD deletes one record after confirmation.
func deleteCMD(role access.Role, del func(ctx context.Context, a *app.App, id string) (bool, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: app.Run(func(ctx context.Context, a *app.App, args []string) error {
			if err := a.Require(role); err != nil {
				return err
			}
			deleted, err := del(ctx, a, args[0])
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintln(a.Out, "cancelled")
				return nil
			}
			fmt.Fprintf(a.Out, "deleted %s\n", args[0])
			return nil
		}),
	}
	cmd.Flags().BoolP(app.YesFlagName, "y", false, "skip the confirmation prompt")
	return cmd
}

// openUpload opens a local file for upload. The caller closes it.
func openUpload(path string) (*repository.Upload, *os.File, error) {
	if path == "" {
		return nil, nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return &repository.Upload{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Body:        f,
	}, f, nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
