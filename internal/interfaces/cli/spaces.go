package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"heysol.ai/client/internal/models"
	heysolerrors "heysol.ai/client/pkg/errors"
)

// NewSpacesCommand groups the space management operations.
func NewSpacesCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spaces",
		Short: "Space management: create, list, update, delete, and bulk operations",
	}

	cmd.AddCommand(newSpacesListCommand(container))
	cmd.AddCommand(newSpacesCreateCommand(container))
	cmd.AddCommand(newSpacesGetCommand(container))
	cmd.AddCommand(newSpacesUpdateCommand(container))
	cmd.AddCommand(newSpacesDeleteCommand(container))
	cmd.AddCommand(newSpacesBulkOpsCommand(container))

	return cmd
}

func newSpacesListCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all spaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			spaces, err := client.GetSpaces()
			if err != nil {
				return err
			}
			return printJSON(cmd, spaces)
		},
	}

	return cmd
}

func newSpacesCreateCommand(container *Container) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			spaceID, err := client.CreateSpace(args[0], description)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"space_id": spaceID, "name": args[0]})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Space description")
	return cmd
}

func newSpacesGetCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			space, err := client.GetSpace(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, space)
		},
	}

	return cmd
}

func newSpacesUpdateCommand(container *Container) *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a space's name or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var request models.UpdateSpaceRequest
			if cmd.Flags().Changed("name") {
				request.Name = &name
			}
			if cmd.Flags().Changed("description") {
				request.Description = &description
			}

			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			space, err := client.UpdateSpace(args[0], request)
			if err != nil {
				return err
			}
			return printJSON(cmd, space)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New space name")
	cmd.Flags().StringVar(&description, "description", "", "New space description")

	return cmd
}

func newSpacesDeleteCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireConfirm(cmd); err != nil {
				return err
			}

			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.DeleteSpace(args[0]); err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"deleted": args[0]})
		},
	}

	cmd.Flags().Bool("confirm", false, "Confirm the deletion")
	return cmd
}

func newSpacesBulkOpsCommand(container *Container) *cobra.Command {
	var deletePattern, renamePrefix string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "bulk-ops",
		Short: "Apply one operation to every matching space",
		Long: `Apply one operation across spaces. Exactly one of --delete-pattern or
--rename-prefix must be given. --dry-run reports the matching spaces
without changing anything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (deletePattern == "") == (renamePrefix == "") {
				return heysolerrors.NewValidationError("Exactly one of --delete-pattern or --rename-prefix is required")
			}
			if deletePattern != "" && !dryRun {
				if err := requireConfirm(cmd); err != nil {
					return err
				}
			}

			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			spaces, err := client.GetSpaces()
			if err != nil {
				return err
			}

			if deletePattern != "" {
				return bulkDeleteSpaces(cmd, client, spaces, deletePattern, dryRun)
			}
			return bulkRenameSpaces(cmd, client, spaces, renamePrefix, dryRun)
		},
	}

	cmd.Flags().StringVar(&deletePattern, "delete-pattern", "", "Delete spaces whose name contains this substring")
	cmd.Flags().StringVar(&renamePrefix, "rename-prefix", "", "Prepend this prefix to every space name")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report the matching spaces without changing anything")
	cmd.Flags().Bool("confirm", false, "Confirm bulk deletion")

	return cmd
}

func bulkDeleteSpaces(cmd *cobra.Command, client spaceBulkClient, spaces []models.Space, pattern string, dryRun bool) error {
	matched := make([]string, 0)
	deleted := 0
	for _, space := range spaces {
		if !strings.Contains(space.Name, pattern) {
			continue
		}
		matched = append(matched, space.Name)
		if dryRun {
			continue
		}
		if err := client.DeleteSpace(space.ID); err != nil {
			return err
		}
		deleted++
	}

	return printJSON(cmd, map[string]any{
		"operation": "delete",
		"pattern":   pattern,
		"matched":   matched,
		"deleted":   deleted,
		"dry_run":   dryRun,
	})
}

func bulkRenameSpaces(cmd *cobra.Command, client spaceBulkClient, spaces []models.Space, prefix string, dryRun bool) error {
	changes := make([]map[string]string, 0)
	renamed := 0
	for _, space := range spaces {
		if strings.HasPrefix(space.Name, prefix) {
			continue
		}
		newName := prefix + space.Name
		changes = append(changes, map[string]string{"from": space.Name, "to": newName})
		if dryRun {
			continue
		}
		if _, err := client.UpdateSpace(space.ID, models.UpdateSpaceRequest{Name: &newName}); err != nil {
			return err
		}
		renamed++
	}

	return printJSON(cmd, map[string]any{
		"operation": "rename",
		"prefix":    prefix,
		"changes":   changes,
		"renamed":   renamed,
		"dry_run":   dryRun,
	})
}

// spaceBulkClient is the slice of the facade the bulk operations need.
type spaceBulkClient interface {
	DeleteSpace(spaceID string) error
	UpdateSpace(spaceID string, request models.UpdateSpaceRequest) (*models.Space, error)
}
