package cli

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"heysol.ai/client/internal/config"
	"heysol.ai/client/internal/heysol"
	"heysol.ai/client/internal/infrastructure/api"
	"heysol.ai/client/internal/infrastructure/mcp"
	heysolerrors "heysol.ai/client/pkg/errors"
)

// NewProfileCommand groups the profile and health operations.
func NewProfileCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "User profile and API health check operations",
	}

	cmd.AddCommand(newProfileGetCommand(container))
	cmd.AddCommand(newProfileHealthCommand(container))

	return cmd
}

func newProfileGetCommand(container *Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show the authenticated user's profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			profile, err := client.GetUserProfile()
			if err != nil {
				return err
			}
			return printJSON(cmd, profile)
		},
	}

	return cmd
}

func newProfileHealthCommand(container *Container) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check API health by probing every endpoint group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := container.newClient()
			if err != nil {
				return err
			}
			defer client.Close()

			report := runHealthChecks(container, client, verbose)
			return renderHealthReport(cmd, report, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed health check results")
	return cmd
}

// healthCheck is the outcome of probing one endpoint or tool.
type healthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// healthReport aggregates every probe. order preserves insertion order for
// the human-readable listing; the JSON form uses the map.
type healthReport struct {
	OverallStatus string                  `json:"overall_status"`
	Summary       string                  `json:"summary"`
	Checks        map[string]*healthCheck `json:"checks"`
	Timestamp     string                  `json:"timestamp"`

	order []string
}

func (r *healthReport) add(name string, check *healthCheck) {
	r.Checks[name] = check
	r.order = append(r.order, name)
}

func healthy(message string) *healthCheck {
	return &healthCheck{Status: "healthy", Message: message}
}

func degraded(message string) *healthCheck {
	return &healthCheck{Status: "degraded", Message: message}
}

func unhealthy(message string) *healthCheck {
	return &healthCheck{Status: "unhealthy", Message: message}
}

// coreMemoryTools are probed individually when MCP is reachable.
var coreMemoryTools = []mcp.Operation{
	mcp.OpIngest,
	mcp.OpSearch,
	mcp.OpGetSpaces,
	mcp.OpGetUserProfile,
}

func runHealthChecks(container *Container, client *heysol.Client, verbose bool) *healthReport {
	report := &healthReport{
		OverallStatus: "unknown",
		Checks:        map[string]*healthCheck{},
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}

	withDetails := func(check *healthCheck, details any) *healthCheck {
		if verbose {
			check.Details = details
		}
		return check
	}

	if profile, err := client.GetUserProfile(); err != nil {
		report.add("user_profile", unhealthy(fmt.Sprintf("Failed to get user profile: %v", err)))
	} else {
		report.add("user_profile", withDetails(healthy("User profile retrieved successfully"), profile))
	}

	if spaces, err := client.GetSpaces(); err != nil {
		report.add("spaces", unhealthy(fmt.Sprintf("Failed to get spaces: %v", err)))
	} else {
		report.add("spaces", withDetails(healthy(fmt.Sprintf("Retrieved %d spaces successfully", len(spaces))), spaces))
	}

	if result, err := client.Search("health check test", api.SearchOptions{Limit: 1}); err != nil {
		report.add("search", unhealthy(fmt.Sprintf("Failed to search: %v", err)))
	} else {
		report.add("search", withDetails(healthy("Search functionality working"), result))
	}

	testMessage := fmt.Sprintf("Health check test - %d", time.Now().Unix())
	if result, err := client.Ingest(testMessage, api.IngestOptions{Source: "health-check"}); err != nil {
		report.add("memory_ingest", unhealthy(fmt.Sprintf("Failed to ingest memory: %v", err)))
	} else {
		report.add("memory_ingest", withDetails(healthy("Memory ingest working"), result))
	}

	if status, err := client.GetIngestionStatus(); err != nil {
		report.add("ingestion_status", unhealthy(fmt.Sprintf("Failed to check ingestion status: %v", err)))
	} else {
		report.add("ingestion_status", withDetails(healthy("Ingestion status check working"), status))
	}

	if logs, err := client.GetLogs(api.LogsOptions{Limit: 1}); err != nil {
		report.add("logs", unhealthy(fmt.Sprintf("Failed to get logs: %v", err)))
	} else {
		report.add("logs", withDetails(healthy(fmt.Sprintf("Retrieved %d log entries successfully", len(logs))), logs))
	}

	if webhooks, err := client.ListWebhooks(1); err != nil {
		if apiErr, ok := heysolerrors.As(err); ok && apiErr.Status == http.StatusBadRequest {
			report.add("webhooks", degraded(fmt.Sprintf("Webhooks endpoint not available: %v", err)))
		} else {
			report.add("webhooks", unhealthy(fmt.Sprintf("Failed to get webhooks: %v", err)))
		}
	} else {
		report.add("webhooks", withDetails(healthy(fmt.Sprintf("Retrieved %d webhooks successfully", len(webhooks))), webhooks))
	}

	checkMCPTools(container, client, report, verbose)

	rollUpHealth(report)
	return report
}

// checkMCPTools probes each core memory tool over a dedicated MCP session
// so the probes exercise the MCP transport even when the facade prefers
// the direct API.
func checkMCPTools(container *Container, client *heysol.Client, report *healthReport, verbose bool) {
	if !client.IsMCPAvailable() {
		report.add("mcp", degraded("MCP unavailable"))
		for _, op := range coreMemoryTools {
			tool, _ := op.ToolName()
			report.add("mcp_"+tool, &healthCheck{Status: "unavailable", Message: "MCP not available"})
		}
		return
	}

	toolChecks, err := probeMCPTools(container)
	if err != nil {
		report.add("mcp", unhealthy(fmt.Sprintf("Failed to check MCP: %v", err)))
		for _, op := range coreMemoryTools {
			tool, _ := op.ToolName()
			report.add("mcp_"+tool, &healthCheck{Status: "error", Message: fmt.Sprintf("MCP check failed: %v", err)})
		}
		return
	}

	healthyTools := 0
	for _, op := range coreMemoryTools {
		tool, _ := op.ToolName()
		check := toolChecks[tool]
		if check.Status == "healthy" {
			healthyTools++
		}
		report.add("mcp_"+tool, check)
	}

	message := fmt.Sprintf("MCP available with %d/%d core memory tools functional", healthyTools, len(coreMemoryTools))
	if healthyTools == len(coreMemoryTools) {
		report.add("mcp", healthy(message))
	} else {
		report.add("mcp", degraded(message))
	}
	if verbose {
		report.Checks["mcp"].Details = map[string]any{
			"healthy_tools":    healthyTools,
			"total_core_tools": len(coreMemoryTools),
		}
	}
}

// probeMCPTools calls each core tool once over a fresh session.
func probeMCPTools(container *Container) (map[string]*healthCheck, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if container.apiKey != "" {
		cfg.APIKey = container.apiKey
	}
	if container.baseURL != "" {
		cfg.BaseURL = container.baseURL
	}

	probe, err := mcp.NewClient(cfg, container.Logger)
	if err != nil {
		return nil, err
	}
	defer probe.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := probe.Initialize(ctx); err != nil {
		return nil, err
	}

	checks := make(map[string]*healthCheck, len(coreMemoryTools))
	for _, op := range coreMemoryTools {
		tool, _ := op.ToolName()
		if err := probeTool(ctx, probe, op); err != nil {
			checks[tool] = unhealthy(fmt.Sprintf("Tool failed: %v", err))
		} else {
			checks[tool] = healthy(toolHealthyMessage(op))
		}
	}
	return checks, nil
}

func probeTool(ctx context.Context, probe *mcp.Client, op mcp.Operation) error {
	var args any
	switch op {
	case mcp.OpIngest:
		args = mcp.IngestArgs{
			Message: fmt.Sprintf("Health check test - %d", time.Now().Unix()),
			Source:  "health-check",
		}
	case mcp.OpSearch:
		args = mcp.SearchArgs{Query: "health check", Limit: 1}
	}

	_, err := probe.Call(ctx, op, args)
	return err
}

func toolHealthyMessage(op mcp.Operation) string {
	switch op {
	case mcp.OpIngest:
		return "Memory ingestion working"
	case mcp.OpSearch:
		return "Memory search working"
	case mcp.OpGetSpaces:
		return "Memory spaces retrieval working"
	case mcp.OpGetUserProfile:
		return "User profile retrieval working"
	}
	return "Tool working"
}

// rollUpHealth sets the overall status: any unhealthy check wins, then any
// degraded one.
func rollUpHealth(report *healthReport) {
	unhealthyCount, degradedCount := 0, 0
	for _, check := range report.Checks {
		switch check.Status {
		case "unhealthy":
			unhealthyCount++
		case "degraded":
			degradedCount++
		}
	}

	switch {
	case unhealthyCount > 0:
		report.OverallStatus = "unhealthy"
		report.Summary = fmt.Sprintf("%d endpoint(s) unhealthy, %d degraded", unhealthyCount, degradedCount)
	case degradedCount > 0:
		report.OverallStatus = "degraded"
		report.Summary = fmt.Sprintf("%d endpoint(s) degraded", degradedCount)
	default:
		report.OverallStatus = "healthy"
		report.Summary = "All endpoints healthy"
	}
}

func renderHealthReport(cmd *cobra.Command, report *healthReport, verbose bool) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "🔍 HeySol API Health Check")
	fmt.Fprintln(out, strings.Repeat("=", 50))

	switch report.OverallStatus {
	case "healthy":
		fmt.Fprintln(out, "✅ Overall Status: HEALTHY")
	case "degraded":
		fmt.Fprintln(out, "⚠️  Overall Status: DEGRADED")
	default:
		fmt.Fprintln(out, "❌ Overall Status: UNHEALTHY")
	}
	fmt.Fprintf(out, "Summary: %s\n\n", report.Summary)

	for _, name := range report.order {
		if strings.HasPrefix(name, "mcp_") {
			continue
		}
		check := report.Checks[name]
		fmt.Fprintf(out, "%s %s: %s\n", statusIcon(check.Status), titleize(name), check.Message)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "🔧 MCP Core Memory Tools:")
	for _, op := range coreMemoryTools {
		tool, _ := op.ToolName()
		check, ok := report.Checks["mcp_"+tool]
		if !ok {
			continue
		}
		fmt.Fprintf(out, "   %s %s: %s\n", statusIcon(check.Status), titleize(tool), check.Message)
	}

	issues := collectIssues(report)
	if len(issues) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "📊 Issue Summary:")
		for _, issue := range issues {
			fmt.Fprintln(out, issue)
		}
	}

	if !verbose {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "💡 Use --verbose for detailed endpoint responses")
	}

	if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Raw JSON output:")
		return printJSON(cmd, report)
	}
	return nil
}

func collectIssues(report *healthReport) []string {
	var unhealthyMessages, degradedMessages []string
	for _, name := range report.order {
		check := report.Checks[name]
		switch check.Status {
		case "unhealthy":
			unhealthyMessages = append(unhealthyMessages, check.Message)
		case "degraded":
			degradedMessages = append(degradedMessages, check.Message)
		}
	}

	var issues []string
	if len(unhealthyMessages) > 0 {
		issues = append(issues, fmt.Sprintf("❌ Unhealthy (%d): %s", len(unhealthyMessages), strings.Join(unhealthyMessages, "; ")))
	}
	if len(degradedMessages) > 0 {
		issues = append(issues, fmt.Sprintf("⚠️  Degraded (%d): %s", len(degradedMessages), strings.Join(degradedMessages, "; ")))
	}
	return issues
}

func statusIcon(status string) string {
	switch status {
	case "healthy":
		return "✅"
	case "degraded":
		return "⚠️"
	default:
		return "❌"
	}
}

// titleize turns a snake_case check name into a display label.
func titleize(name string) string {
	words := strings.Split(name, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
