package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"heysol.ai/client/internal/heysol"
	"heysol.ai/client/internal/infrastructure/api"
	"heysol.ai/client/internal/models"
)

// watchFlags holds command-line flags for the watch command
type watchFlags struct {
	RefreshRate time.Duration
	Limit       int
	Source      string
}

func newLogsWatchCommand(container *Container) *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live terminal view of ingestion logs",
		Long: `Launch an interactive terminal view that polls the ingestion logs and
pipeline status. Similar to 'top' but for memory ingestion.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(container, flags)
		},
	}

	cmd.Flags().DurationVar(&flags.RefreshRate, "refresh", 2*time.Second, "Refresh rate for live updates")
	cmd.Flags().IntVar(&flags.Limit, "limit", 50, "Maximum number of log entries to display")
	cmd.Flags().StringVar(&flags.Source, "source", "", "Only show entries from this source")

	return cmd
}

// runWatch starts the terminal view
func runWatch(container *Container, flags *watchFlags) error {
	client, err := container.newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	model := newWatchModel(client, flags)
	program := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}

// logDisplayItem represents a log entry for display
type logDisplayItem struct {
	Time    string
	ID      string
	Source  string
	Preview string
}

// watchModel holds the state for the Bubble Tea view
type watchModel struct {
	client       *heysol.Client
	flags        *watchFlags
	entries      []logDisplayItem
	status       string
	selectedRow  int
	paused       bool
	lastUpdate   time.Time
	windowWidth  int
	windowHeight int
	err          error
}

func newWatchModel(client *heysol.Client, flags *watchFlags) watchModel {
	return watchModel{
		client:     client,
		flags:      flags,
		entries:    []logDisplayItem{},
		status:     "unknown",
		lastUpdate: time.Now(),
	}
}

// Init implements the Bubble Tea init method
func (m watchModel) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.loadLogsCmd(),
	)
}

// Update implements the Bubble Tea update method
func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case " ":
			m.paused = !m.paused
			return m, nil

		case "up", "k":
			if m.selectedRow > 0 {
				m.selectedRow--
			}
			return m, nil

		case "down", "j":
			if m.selectedRow < len(m.entries)-1 {
				m.selectedRow++
			}
			return m, nil

		case "r":
			return m, m.loadLogsCmd()
		}

	case tickMsg:
		if !m.paused {
			return m, tea.Batch(
				m.tickCmd(),
				m.loadLogsCmd(),
			)
		}
		return m, m.tickCmd()

	case logsLoadedMsg:
		m.entries = msg.entries
		m.status = msg.status
		m.lastUpdate = time.Now()
		m.err = nil
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

// View implements the Bubble Tea view method
func (m watchModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress 'q' to quit", m.err)
	}

	header := m.renderHeader()
	table := m.renderLogTable()
	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, table, footer)
}

func (m watchModel) renderHeader() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")).
		Render("HeySol Ingestion Logs")

	info := fmt.Sprintf("Pipeline: %s | Entries: %d", m.status, len(m.entries))
	if m.flags.Source != "" {
		info += fmt.Sprintf(" | Source: %s", m.flags.Source)
	}

	state := "LIVE"
	stateStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46"))
	if m.paused {
		state = "PAUSED"
		stateStyle = stateStyle.Foreground(lipgloss.Color("196"))
	}

	line1 := lipgloss.JoinHorizontal(lipgloss.Left,
		title,
		"  ",
		info,
		"  ",
		stateStyle.Render(state),
	)

	line2 := fmt.Sprintf("Last Update: %s | Refresh Rate: %v",
		m.lastUpdate.Format("15:04:05"),
		m.flags.RefreshRate,
	)

	return lipgloss.JoinVertical(lipgloss.Left, line1, line2)
}

func (m watchModel) renderLogTable() string {
	if len(m.entries) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Render("\n  No log entries. Waiting for ingestion activity...\n")
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86")).
		Render(fmt.Sprintf("%-8s │ %-12s │ %-14s │ %s",
			"TIME", "ID", "SOURCE", "MESSAGE"))

	rows := []string{header}

	maxRows := m.windowHeight - 7
	if maxRows < 1 {
		maxRows = 1
	}
	count := len(m.entries)
	if count > maxRows {
		count = maxRows
	}

	for i := 0; i < count; i++ {
		entry := m.entries[i]

		rowStyle := lipgloss.NewStyle()
		if i == m.selectedRow {
			rowStyle = rowStyle.Background(lipgloss.Color("240"))
		}

		row := fmt.Sprintf("%-8s │ %-12s │ %-14s │ %s",
			entry.Time,
			truncateString(entry.ID, 12),
			truncateString(entry.Source, 14),
			truncateString(entry.Preview, 48),
		)

		rows = append(rows, rowStyle.Render(row))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m watchModel) renderFooter() string {
	controls := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Render("Controls: [Space] Pause/Resume | [↑↓] Navigate | [r] Refresh | [q] Quit")

	return controls
}

// tickMsg is sent every refresh interval
type tickMsg time.Time

func (m watchModel) tickCmd() tea.Cmd {
	return tea.Tick(m.flags.RefreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// logsLoadedMsg carries a fresh page of log entries and the pipeline status
type logsLoadedMsg struct {
	entries []logDisplayItem
	status  string
}

// errMsg is sent when a poll fails
type errMsg struct {
	err error
}

// loadLogsCmd polls the logs and ingestion status
func (m watchModel) loadLogsCmd() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.client.GetLogs(api.LogsOptions{
			Source: m.flags.Source,
			Limit:  m.flags.Limit,
		})
		if err != nil {
			return errMsg{err: fmt.Errorf("failed to load logs: %w", err)}
		}

		status := "unknown"
		if ingestion, err := m.client.GetIngestionStatus(); err == nil {
			status = ingestion.IngestionStatus
		}

		return logsLoadedMsg{entries: toDisplayItems(entries), status: status}
	}
}

func toDisplayItems(entries []models.LogEntry) []logDisplayItem {
	items := make([]logDisplayItem, 0, len(entries))
	for _, entry := range entries {
		preview := entry.IngestText
		if preview == "" && entry.Data != nil {
			if episode, ok := entry.Data["episodeBody"].(string); ok {
				preview = episode
			}
		}
		items = append(items, logDisplayItem{
			Time:    formatLogTime(entry.Time),
			ID:      entry.ID,
			Source:  entry.Source,
			Preview: preview,
		})
	}
	return items
}

// formatLogTime trims an RFC 3339 timestamp down to the clock time
func formatLogTime(value string) string {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.Format("15:04:05")
	}
	if len(value) > 8 {
		return value[:8]
	}
	return value
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
