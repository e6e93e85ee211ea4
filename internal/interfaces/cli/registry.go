package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"heysol.ai/client/internal/registry"
	heysolerrors "heysol.ai/client/pkg/errors"
)

// NewRegistryCommand groups the instance registry operations.
func NewRegistryCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Manage registered HeySol instances and authentication",
	}

	cmd.AddCommand(newRegistryRegisterCommand(container))
	cmd.AddCommand(newRegistryListCommand(container))
	cmd.AddCommand(newRegistryShowCommand(container))
	cmd.AddCommand(newRegistryUseCommand(container))

	return cmd
}

func newRegistryRegisterCommand(container *Container) *cobra.Command {
	var apiKey, baseURL, description string

	cmd := &cobra.Command{
		Use:   "register <name>",
		Short: "Register an instance in the local registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Registry == nil {
				return heysolerrors.NewUnavailableError("instance registry is not available")
			}

			if err := container.Registry.Register(args[0], apiKey, baseURL, description); err != nil {
				return err
			}
			instance, _ := container.Registry.Instance(strings.TrimSpace(args[0]))
			return printJSON(cmd, map[string]any{
				"registered":  instance.Name,
				"base_url":    instance.BaseURL,
				"description": instance.Description,
			})
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for the instance")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL for the instance")
	cmd.Flags().StringVar(&description, "description", "", "Description of the instance")
	_ = cmd.MarkFlagRequired("api-key")

	return cmd
}

func newRegistryListCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered instances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.Registry == nil {
				return printJSON(cmd, []string{})
			}
			return printJSON(cmd, container.Registry.InstanceNames())
		},
	}

	return cmd
}

func newRegistryShowCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show one registered instance with its key redacted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			instance, err := lookupInstance(container, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{
				"name":        instance.Name,
				"api_key":     redactKey(instance.APIKey),
				"base_url":    instance.BaseURL,
				"description": instance.Description,
			})
		},
	}

	return cmd
}

func newRegistryUseCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <name>",
		Short: "Print shell export lines for a registered instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			instance, err := lookupInstance(container, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# Instance: %s (%s)\n", instance.Name, instance.Description)
			fmt.Fprintf(out, "export HEYSOL_API_KEY=%s\n", instance.APIKey)
			fmt.Fprintf(out, "export HEYSOL_BASE_URL=%s\n", instance.BaseURL)
			return nil
		},
	}

	return cmd
}

func lookupInstance(container *Container, name string) (registry.Instance, error) {
	if container.Registry == nil {
		return registry.Instance{}, heysolerrors.NewValidationError(fmt.Sprintf("unknown registry instance: %q", name))
	}
	instance, ok := container.Registry.Instance(name)
	if !ok {
		return registry.Instance{}, heysolerrors.NewValidationError(fmt.Sprintf("unknown registry instance: %q", name))
	}
	return instance, nil
}

// redactKey keeps enough of the key to identify it without exposing it.
func redactKey(key string) string {
	if len(key) <= 12 {
		return key
	}
	return key[:12] + "..."
}
