package services

import (
	"context"

	"aktis-reporter-jira/internal/activity"
	"aktis-reporter-jira/internal/models"
)

type ProjectSummary struct {
	Project models.Project `json:"project"`
	Issues  []models.Issue `json:"issues"`
	Error   string         `json:"error,omitempty"`
}

type BoardSummary struct {
	Board  models.Board           `json:"board"`
	Total  int                    `json:"total"`
	Groups []activity.StatusGroup `json:"groups"`
	Latest []models.Issue         `json:"latest"`
}

// latestShown is how many issues a summary lists by name
const latestShown = 3

// ProjectSummaries lists the most recently updated issues of each selected project
func (s *Session) ProjectSummaries(ctx context.Context, limit int) []ProjectSummary {
	summaries := make([]ProjectSummary, 0, len(s.Record.SelectedProjects))
	for _, project := range s.Record.SelectedProjects {
		summary := ProjectSummary{Project: project}
		issues, err := s.Discovery.ProjectIssues(ctx, project.Key, limit)
		if err != nil {
			summary.Error = err.Error()
		} else {
			summary.Issues = issues
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// BoardSummaries counts each selected board's issues per status group
func (s *Session) BoardSummaries(ctx context.Context, statuses []string) []BoardSummary {
	summaries := make([]BoardSummary, 0, len(s.Record.SelectedBoards))
	for _, board := range s.Record.SelectedBoards {
		issues := s.Discovery.BoardIssues(ctx, board)
		latest := issues
		if len(latest) > latestShown {
			latest = latest[:latestShown]
		}
		summaries = append(summaries, BoardSummary{
			Board:  board,
			Total:  len(issues),
			Groups: activity.GroupByStatus(issues, statuses),
			Latest: latest,
		})
	}
	return summaries
}
