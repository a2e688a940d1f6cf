package main

import (
	"fmt"
	"strings"
	"time"

	"aktis-reporter-jira/internal/services"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	keyStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
)

func newSpinner(description string) *progressbar.ProgressBar {
	if quiet {
		return nil
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	_ = bar.RenderBlank()
	return bar
}

func finishBar(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Finish()
	}
}

func describe(bar *progressbar.ProgressBar, description string) {
	if bar != nil {
		bar.Describe(description)
	}
}

// parseCommaList splits a comma-separated flag value and drops empty entries
func parseCommaList(input string) []string {
	var result []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func shorten(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}

func heading(text string) {
	fmt.Println()
	fmt.Println(titleStyle.Render(text))
	fmt.Println(mutedStyle.Render(strings.Repeat("─", 60)))
}

// openSession loads the stored session and binds a client to it
func openSession() (*services.Session, error) {
	record, err := store.LoadSession()
	if err != nil {
		return nil, err
	}
	return services.NewSession(record, &cfg.Jira, logger)
}

// persistFamily stores the API family if it was bound or rebound during the command
func persistFamily(session *services.Session) {
	if !session.SyncFamily() {
		return
	}
	if err := store.SaveSession(session.Record); err != nil {
		logger.Warn().Err(err).Msg("Failed to persist API family")
	}
}
