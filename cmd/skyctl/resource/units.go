package resource

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/skyproperties/sky-backend/cmd/skyctl/app"
	"github.com/skyproperties/sky-backend/internal/access"
	"github.com/skyproperties/sky-backend/internal/estate/repository"
	"github.com/skyproperties/sky-backend/internal/views"
)

func UnitsCMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "units",
		Aliases: []string{"unit"},
		Short:   "Manage units",
	}
	cmd.AddCommand(
		listCMD(access.RoleManager,
			func(a *app.App) *views.List[views.UnitRow] {
				return views.NewUnitsScreen(a.Units, a.Properties, a.Stack.Bus).List
			},
			[]string{"ID", "UNIT", "PROPERTY", "FLOOR", "TYPE", "AREA", "RENT", "SALE", "STATUS"},
			func(u views.UnitRow) []string {
				return []string{
					u.ID, u.UnitNumber, u.PropertyName, strconv.Itoa(u.Floor), string(u.Type),
					strconv.FormatFloat(u.Area, 'f', -1, 64), money(u.RentValue), money(u.SaleValue), string(u.Status),
				}
			},
		),
		unitSaveCMD(false),
		unitSaveCMD(true),
		deleteCMD(access.RoleManager, func(ctx context.Context, a *app.App, id string) (bool, error) {
			return views.NewUnitsScreen(a.Units, a.Properties, a.Stack.Bus).Delete(ctx, id, a.Confirm())
		}),
	)
	return cmd
}

// unitSaveCMD takes the unit fields as typed text and parses them the way
// the unit form does.
func unitSaveCMD(update bool) *cobra.Command {
	var form repository.UnitForm

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a unit",
		Args:  cobra.NoArgs,
	}
	if update {
		cmd.Use, cmd.Short, cmd.Args = "update ID", "Update a unit", cobra.ExactArgs(1)
	}

	flags := cmd.Flags()
	fields := []struct {
		name  string
		dst   *string
		usage string
	}{
		{"number", &form.UnitNumber, "unit number"},
		{"property", &form.PropertyID, "property id"},
		{"floor", &form.Floor, "floor"},
		{"type", &form.Type, "apartment | villa | office | shop | warehouse"},
		{"area", &form.Area, "area in square meters"},
		{"rent", &form.RentValue, "monthly rent"},
		{"sale", &form.SaleValue, "sale price"},
		{"status", &form.Status, "available | occupied | forRent | forSale"},
		{"owner", &form.OwnerID, "owner user id"},
		{"tenant", &form.TenantID, "tenant user id"},
	}
	for _, f := range fields {
		flags.StringVar(f.dst, f.name, "", f.usage)
	}

	cmd.RunE = app.Run(func(ctx context.Context, a *app.App, args []string) error {
		if err := a.Require(access.RoleManager); err != nil {
			return err
		}
		screen := views.NewUnitsScreen(a.Units, a.Properties, a.Stack.Bus)

		if update {
			u, err := a.Units.Get(ctx, args[0])
			if err != nil {
				return err
			}
			screen.Edit(u)
		} else {
			screen.Modal.OpenCreate(repository.UnitForm{})
		}

		draft := screen.Modal.Draft()
		current := map[string]*string{
			"number": &draft.UnitNumber, "property": &draft.PropertyID, "floor": &draft.Floor,
			"type": &draft.Type, "area": &draft.Area, "rent": &draft.RentValue,
			"sale": &draft.SaleValue, "status": &draft.Status, "owner": &draft.OwnerID,
			"tenant": &draft.TenantID,
		}
		for _, f := range fields {
			if flags.Changed(f.name) {
				*current[f.name] = *f.dst
			}
		}

		screen.Modal.SetDraft(draft)
		if err := screen.Modal.Submit(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.Out, "saved")
		return nil
	})
	return cmd
}
