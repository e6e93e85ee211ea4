package cli

import (
	"github.com/spf13/cobra"
)

// NewToolsCommand groups the MCP tool operations.
func NewToolsCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List MCP tools and integrations",
	}

	cmd.AddCommand(newToolsListCommand(container))

	return cmd
}

func newToolsListCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tools discovered on the MCP endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			tools, err := client.Tools()
			if err != nil {
				return err
			}

			listing := make([]map[string]string, 0, len(tools))
			for _, tool := range tools {
				listing = append(listing, map[string]string{
					"name":        tool.Name,
					"description": tool.Description,
				})
			}
			return printJSON(cmd, listing)
		},
	}

	return cmd
}
