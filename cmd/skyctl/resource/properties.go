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

func PropertiesCMD() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "properties",
		Aliases: []string{"property"},
		Short:   "Manage properties",
	}
	cmd.AddCommand(
		listCMD(access.RoleManager,
			func(a *app.App) *views.List[domain.Property] {
				return views.NewPropertiesScreen(a.Properties, a.Stack.Bus).List
			},
			[]string{"ID", "NAME", "CITY", "MODEL", "THUMBNAIL"},
			func(p domain.Property) []string {
				return []string{p.ID, p.Name, p.City, app.OrDash(p.ModelURL), app.OrDash(p.Thumbnail)}
			},
		),
		propertySaveCMD(false),
		propertySaveCMD(true),
		deleteCMD(access.RoleManager, func(ctx context.Context, a *app.App, id string) (bool, error) {
			return views.NewPropertiesScreen(a.Properties, a.Stack.Bus).Delete(ctx, id, a.Confirm())
		}),
	)
	return cmd
}

// propertySaveCMD builds "create" or "update ID". Update changes only the
// flags that were given.
func propertySaveCMD(update bool) *cobra.Command {
	var name, city, description, manager, model, thumbnail string
	var clearManager bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a property",
		Args:  cobra.NoArgs,
	}
	if update {
		cmd.Use, cmd.Short, cmd.Args = "update ID", "Update a property", cobra.ExactArgs(1)
	}

	cmd.RunE = app.Run(func(ctx context.Context, a *app.App, args []string) error {
		if err := a.Require(access.RoleManager); err != nil {
			return err
		}
		screen := views.NewPropertiesScreen(a.Properties, a.Stack.Bus)

		if update {
			p, err := a.Properties.Get(ctx, args[0])
			if err != nil {
				return err
			}
			screen.Edit(p)
		} else {
			screen.Modal.OpenCreate(views.PropertyDraft{})
		}

		draft := screen.Modal.Draft()
		flags := cmd.Flags()
		if flags.Changed("name") {
			draft.Input.Name = name
		}
		if flags.Changed("city") {
			draft.Input.City = city
		}
		if flags.Changed("description") {
			draft.Input.Description = description
		}
		if flags.Changed("manager") {
			draft.Input.ManagerID = manager
			draft.ClearManager = manager == ""
		}
		if clearManager {
			draft.Input.ManagerID = ""
			draft.ClearManager = true
		}

		modelUpload, mf, err := openUpload(model)
		if err != nil {
			return err
		}
		if mf != nil {
			defer mf.Close()
		}
		thumbUpload, tf, err := openUpload(thumbnail)
		if err != nil {
			return err
		}
		if tf != nil {
			defer tf.Close()
		}
		draft.Files.Model, draft.Files.Thumbnail = modelUpload, thumbUpload

		screen.Modal.SetDraft(draft)
		if err := screen.Modal.Submit(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.Out, "saved")
		return nil
	})

	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "property name")
	flags.StringVar(&city, "city", "", "city")
	flags.StringVar(&description, "description", "", "description")
	flags.StringVar(&manager, "manager", "", "managing user id")
	if update {
		flags.BoolVar(&clearManager, "clear-manager", false, "remove the assigned manager")
		cmd.MarkFlagsMutuallyExclusive("manager", "clear-manager")
	}
	flags.StringVar(&model, "model", "", "3D model file to upload")
	flags.StringVar(&thumbnail, "thumbnail", "", "thumbnail image to upload")
	if !update {
		_ = cmd.MarkFlagRequired("name")
		_ = cmd.MarkFlagRequired("city")
	}
	return cmd
}
