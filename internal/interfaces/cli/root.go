// Package cli wires the heysol command tree. Every leaf command builds a
// fresh facade client from the container's resolved credentials, runs one
// operation, and prints JSON to stdout.
package cli

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"heysol.ai/client/internal/heysol"
	"heysol.ai/client/internal/registry"
	heysolerrors "heysol.ai/client/pkg/errors"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// Container holds the dependencies shared by every CLI command.
type Container struct {
	Logger   *log.Logger
	Registry *registry.Registry

	// Resolved by the root command before any subcommand runs.
	apiKey  string
	baseURL string
}

// NewRootCommand builds the base command with every group attached.
func NewRootCommand(container *Container) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "heysol",
		Short: "HeySol API client",
		Long: `HeySol API client for memory ingestion, search, and space management.

Operations run over the direct REST API or over MCP tool calls when the
MCP endpoint is available. Credentials come from --api-key, a registered
--user instance, or the HEYSOL_API_KEY environment variable.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return resolveCredentials(cmd, container)
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().String("api-key", "", "API key for the HeySol platform")
	rootCmd.PersistentFlags().String("base-url", "", "API base URL override")
	rootCmd.PersistentFlags().String("user", "", "Registered instance name to authenticate as")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")

	rootCmd.AddCommand(NewMemoryCommand(container))
	rootCmd.AddCommand(NewLogsCommand(container))
	rootCmd.AddCommand(NewSpacesCommand(container))
	rootCmd.AddCommand(NewProfileCommand(container))
	rootCmd.AddCommand(NewRegistryCommand(container))
	rootCmd.AddCommand(NewToolsCommand(container))
	rootCmd.AddCommand(NewWebhooksCommand(container))

	return rootCmd
}

// resolveCredentials resolves authentication with precedence:
// --api-key flag > --user registry instance > HEYSOL_API_KEY environment.
// A missing key is not an error here; commands that need one fail when the
// client is constructed.
func resolveCredentials(cmd *cobra.Command, container *Container) error {
	apiKey, _ := cmd.Flags().GetString("api-key")
	baseURL, _ := cmd.Flags().GetString("base-url")
	user, _ := cmd.Flags().GetString("user")

	if apiKey == "" && user != "" {
		if container.Registry == nil {
			return heysolerrors.NewValidationError(fmt.Sprintf("unknown registry instance: %q", user))
		}
		instance, ok := container.Registry.Instance(user)
		if !ok {
			return heysolerrors.NewValidationError(fmt.Sprintf("unknown registry instance: %q", user))
		}
		apiKey = instance.APIKey
		if baseURL == "" {
			baseURL = instance.BaseURL
		}
	}
	if apiKey == "" {
		apiKey = os.Getenv("HEYSOL_API_KEY")
	}

	container.apiKey = apiKey
	container.baseURL = baseURL
	return nil
}

// newClient builds the facade for one command invocation. Callers own the
// returned client and must Close it.
func (c *Container) newClient(opts ...heysol.Option) (*heysol.Client, error) {
	base := []heysol.Option{
		heysol.WithBaseURL(c.baseURL),
		heysol.WithLogger(c.Logger),
	}
	return heysol.New(c.apiKey, append(base, opts...)...)
}

// printJSON writes value to the command's stdout, indented when --pretty
// is set.
func printJSON(cmd *cobra.Command, value any) error {
	pretty, _ := cmd.Flags().GetBool("pretty")
	encoder := json.NewEncoder(cmd.OutOrStdout())
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(value)
}

// requireConfirm gates destructive commands behind an explicit --confirm.
func requireConfirm(cmd *cobra.Command) error {
	confirmed, _ := cmd.Flags().GetBool("confirm")
	if !confirmed {
		return heysolerrors.NewValidationError("Confirmation required. Use --confirm to proceed.")
	}
	return nil
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(container *Container) {
	rootCmd := NewRootCommand(container)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
