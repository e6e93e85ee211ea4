package cli

import (
	"github.com/spf13/cobra"

	"heysol.ai/client/internal/infrastructure/api"
)

// NewMemoryCommand groups the memory operations.
func NewMemoryCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Memory operations: ingest, search, queue, and episode management",
	}

	cmd.AddCommand(newMemoryIngestCommand(container))
	cmd.AddCommand(newMemorySearchCommand(container))
	cmd.AddCommand(newMemorySearchGraphCommand(container))
	cmd.AddCommand(newMemoryQueueCommand(container))
	cmd.AddCommand(newMemoryEpisodeCommand(container))
	cmd.AddCommand(newMemoryMoveCommand(container))
	cmd.AddCommand(newMemoryCopyCommand(container))
	cmd.AddCommand(newMemoryCopyByIDCommand(container))

	return cmd
}

func newMemoryIngestCommand(container *Container) *cobra.Command {
	var opts api.IngestOptions

	cmd := &cobra.Command{
		Use:   "ingest <message>",
		Short: "Ingest a message into memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			response, err := client.Ingest(args[0], opts)
			if err != nil {
				return err
			}
			return printJSON(cmd, response)
		},
	}

	cmd.Flags().StringVar(&opts.SpaceID, "space-id", "", "Target space for the message")
	cmd.Flags().StringVar(&opts.Source, "source", "", "Source tag (defaults to the configured source)")
	cmd.Flags().StringVar(&opts.SessionID, "session-id", "", "Session identifier to group related messages")

	return cmd
}

func newMemorySearchCommand(container *Container) *cobra.Command {
	var opts api.SearchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search memory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			result, err := client.Search(args[0], opts)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringArrayVar(&opts.SpaceIDs, "space-id", nil, "Restrict the search to a space (repeatable)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "Maximum number of episodes to return")
	cmd.Flags().BoolVar(&opts.IncludeInvalidated, "include-invalidated", false, "Include invalidated episodes")

	return cmd
}

func newMemorySearchGraphCommand(container *Container) *cobra.Command {
	var spaceIDs []string
	var limit int

	cmd := &cobra.Command{
		Use:   "search-graph <query>",
		Short: "Search the knowledge graph, including invalidated results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			result, err := client.Search(args[0], api.SearchOptions{
				SpaceIDs:           spaceIDs,
				Limit:              limit,
				IncludeInvalidated: true,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringArrayVar(&spaceIDs, "space-id", nil, "Restrict the search to a space (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of episodes to return")

	return cmd
}

func newMemoryQueueCommand(container *Container) *cobra.Command {
	var source string
	var limit int

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "List memory entries still waiting for ingestion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			entries, err := client.GetLogs(api.LogsOptions{
				Source: source,
				Status: "queued",
				Limit:  limit,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, entries)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Filter by source")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of entries to return")

	return cmd
}

func newMemoryEpisodeCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "episode <id>",
		Short: "Show one ingested episode",
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

func newMemoryMoveCommand(container *Container) *cobra.Command {
	var fromSource, toSource string

	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move all entries from one source to another",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireConfirm(cmd); err != nil {
				return err
			}

			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			moved, err := client.MoveLogsToSource(toSource, api.LogsOptions{Source: fromSource})
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"moved": moved, "from": fromSource, "to": toSource})
		},
	}

	cmd.Flags().StringVar(&fromSource, "from-source", "", "Source to move entries from")
	cmd.Flags().StringVar(&toSource, "to-source", "", "Source to move entries to")
	cmd.Flags().Bool("confirm", false, "Confirm the move; original entries are deleted")
	_ = cmd.MarkFlagRequired("from-source")
	_ = cmd.MarkFlagRequired("to-source")

	return cmd
}

func newMemoryCopyCommand(container *Container) *cobra.Command {
	var fromSource, toSource string

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy all entries from one source to another",
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

func newMemoryCopyByIDCommand(container *Container) *cobra.Command {
	var toSource string

	cmd := &cobra.Command{
		Use:   "copy-by-id <log-id>",
		Short: "Copy a single entry to another source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.CopyLogToSource(args[0], toSource); err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"copied": 1, "log_id": args[0], "to": toSource})
		},
	}

	cmd.Flags().StringVar(&toSource, "to-source", "", "Source to copy the entry to")
	_ = cmd.MarkFlagRequired("to-source")

	return cmd
}
