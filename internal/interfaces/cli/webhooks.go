package cli

import (
	"github.com/spf13/cobra"

	"heysol.ai/client/internal/models"
)

// NewWebhooksCommand groups the webhook management operations.
func NewWebhooksCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhooks",
		Short: "Webhook management: create, list, update, delete webhooks",
	}

	cmd.AddCommand(newWebhooksCreateCommand(container))
	cmd.AddCommand(newWebhooksListCommand(container))
	cmd.AddCommand(newWebhooksGetCommand(container))
	cmd.AddCommand(newWebhooksUpdateCommand(container))
	cmd.AddCommand(newWebhooksDeleteCommand(container))

	return cmd
}

func newWebhooksCreateCommand(container *Container) *cobra.Command {
	var secret string
	var events []string

	cmd := &cobra.Command{
		Use:   "create <url>",
		Short: "Register a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			webhook, err := client.RegisterWebhook(args[0], secret, events)
			if err != nil {
				return err
			}
			return printJSON(cmd, webhook)
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Shared secret used to sign deliveries")
	cmd.Flags().StringSliceVar(&events, "events", []string{"memory.created"}, "Events to subscribe to")
	_ = cmd.MarkFlagRequired("secret")

	return cmd
}

func newWebhooksListCommand(container *Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered webhooks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			webhooks, err := client.ListWebhooks(limit)
			if err != nil {
				return err
			}
			return printJSON(cmd, webhooks)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of webhooks to return")
	return cmd
}

func newWebhooksGetCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			webhook, err := client.GetWebhook(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, webhook)
		},
	}

	return cmd
}

func newWebhooksUpdateCommand(container *Container) *cobra.Command {
	var webhookURL, secret string
	var events []string
	var active bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a webhook's configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request := models.NewUpdateWebhookRequest(webhookURL, secret, events)
			if cmd.Flags().Changed("active") {
				request.Active = active
			}

			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			webhook, err := client.UpdateWebhook(args[0], request)
			if err != nil {
				return err
			}
			return printJSON(cmd, webhook)
		},
	}

	cmd.Flags().StringVar(&webhookURL, "url", "", "New delivery URL")
	cmd.Flags().StringSliceVar(&events, "events", nil, "Events to subscribe to")
	cmd.Flags().StringVar(&secret, "secret", "", "Shared secret used to sign deliveries")
	cmd.Flags().BoolVar(&active, "active", true, "Whether the webhook is active")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("events")
	_ = cmd.MarkFlagRequired("secret")

	return cmd
}

func newWebhooksDeleteCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a webhook",
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

			if err := client.DeleteWebhook(args[0]); err != nil {
				return err
			}
			return printJSON(cmd, map[string]any{"deleted": args[0]})
		},
	}

	cmd.Flags().Bool("confirm", false, "Confirm the deletion")
	return cmd
}
