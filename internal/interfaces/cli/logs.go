package cli

import (
	"github.com/spf13/cobra"

	"heysol.ai/client/internal/infrastructure/api"
)

// NewLogsCommand groups the ingestion log operations.
func NewLogsCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Manage ingestion logs, status, and log operations",
	}

	cmd.AddCommand(newLogsListCommand(container))
	cmd.AddCommand(newLogsGetCommand(container))
	cmd.AddCommand(newLogsGetBySourceCommand(container))
	cmd.AddCommand(newLogsDeleteCommand(container))
	cmd.AddCommand(newLogsDeleteBySourceCommand(container))
	cmd.AddCommand(newLogsStatusCommand(container))
	cmd.AddCommand(newLogsCopyCommand(container))
	cmd.AddCommand(newLogsSourcesCommand(container))
	cmd.AddCommand(newLogsWatchCommand(container))

	return cmd
}

func logsFilterFlags(cmd *cobra.Command, opts *api.LogsOptions) {
	cmd.Flags().StringVar(&opts.Source, "source", "", "Filter by source")
	cmd.Flags().StringVar(&opts.SpaceID, "space-id", "", "Filter by space")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by ingestion status")
	cmd.Flags().IntVar(&opts.Limit, "limit", 50, "Maximum number of entries to return")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "Number of entries to skip")
}

func newLogsListCommand(container *Container) *cobra.Command {
	var opts api.LogsOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ingestion logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			entries, err := client.GetLogs(opts)
			if err != nil {
				return err
			}
			return printJSON(cmd, entries)
		},
	}

	logsFilterFlags(cmd, &opts)
	return cmd
}

func newLogsGetCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single log entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			entry, err := client.GetLog(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, entry)
		},
	}

	return cmd
}

func newLogsGetBySourceCommand(container *Container) *cobra.Command {
	var opts api.LogsOptions

	cmd := &cobra.Command{
		Use:   "get-by-source <source>",
		Short: "List log entries recorded under a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			entries, err := client.GetLogsBySource(args[0], opts)
			if err != nil {
				return err
			}
			return printJSON(cmd, entries)
		},
	}

	cmd.Flags().StringVar(&opts.SpaceID, "space-id", "", "Filter by space")
	cmd.Flags().IntVar(&opts.Limit, "limit", 100, "Maximum number of entries to scan")

	return cmd
}

func newLogsDeleteCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a log entry",
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

			if err := client.DeleteLog(args[0]); err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"deleted": args[0]})
		},
	}

	cmd.Flags().Bool("confirm", false, "Confirm the deletion")
	return cmd
}

func newLogsDeleteBySourceCommand(container *Container) *cobra.Command {
	var opts api.LogsOptions

	cmd := &cobra.Command{
		Use:   "delete-by-source <source>",
		Short: "Delete every log entry recorded under a source",
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

			deleted, err := client.DeleteLogsBySource(args[0], opts)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"deleted": deleted, "source": args[0]})
		},
	}

	cmd.Flags().StringVar(&opts.SpaceID, "space-id", "", "Filter by space")
	cmd.Flags().Bool("confirm", false, "Confirm the deletion")
	return cmd
}

func newLogsStatusCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the ingestion pipeline status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			status, err := client.GetIngestionStatus()
			if err != nil {
				return err
			}
			return printJSON(cmd, status)
		},
	}

	return cmd
}

func newLogsCopyCommand(container *Container) *cobra.Command {
	var fromSource, toSource string

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy all log entries from one source to another",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			copied, err := client.CopyLogsToSource(toSource, api.LogsOptions{Source: fromSource})
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"copied": copied, "from": fromSource, "to": toSource})
		},
	}

	cmd.Flags().StringVar(&fromSource, "from-source", "", "Source to copy entries from")
	cmd.Flags().StringVar(&toSource, "to-source", "", "Source to copy entries to")
	_ = cmd.MarkFlagRequired("from-source")
	_ = cmd.MarkFlagRequired("to-source")

	return cmd
}

func newLogsSourcesCommand(container *Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the distinct sources seen in recent logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			sources, err := client.GetLogSources(api.LogsOptions{Limit: limit})
			if err != nil {
				return err
			}
			return printJSON(cmd, sources)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of entries to scan")
	return cmd
}
