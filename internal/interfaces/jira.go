package interfaces

import (
	"context"

	"aktis-reporter-jira/internal/models"
)

// RawResponse is a Jira reply before any shape decoding. Non-2xx statuses are
// returned as responses, not errors, so callers can branch on them.
type RawResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// JiraClient issues authenticated GET requests relative to the session base URL
type JiraClient interface {
	Get(ctx context.Context, path string, params map[string]string) (*RawResponse, error)
	BaseURL() string
}

// DetailFetcher loads a single issue with its expanded fields
type DetailFetcher interface {
	IssueDetail(ctx context.Context, key string) (*models.Issue, error)
}

// ProgressFunc receives named progress events while a report is built
type ProgressFunc func(event string, data interface{})
