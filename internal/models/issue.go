package models

const (
	Unassigned     = "Unassigned"
	UnknownField   = "Unknown"
	NoSummaryField = "No summary"
)

// Comment is a single issue comment reduced to plain text
type Comment struct {
	Author  string `json:"author"`
	Body    string `json:"body"`
	Created string `json:"created,omitempty"`
}

// Issue is the canonical issue record every backend shape is normalized into.
// Created and Updated keep the raw service strings; they are parsed on demand
// because the format differs between deployments.
type Issue struct {
	Key         string    `json:"key"`
	ID          string    `json:"id,omitempty"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	IssueType   string    `json:"issue_type"`
	Assignee    string    `json:"assignee"`
	Created     string    `json:"created,omitempty"`
	Updated     string    `json:"updated,omitempty"`
	Components  []string  `json:"components,omitempty"`
	Labels      []string  `json:"labels,omitempty"`
	Comments    []Comment `json:"comments,omitempty"`
}

// LatestComment returns the most recent comment, if any
func (i Issue) LatestComment() (Comment, bool) {
	if len(i.Comments) == 0 {
		return Comment{}, false
	}
	return i.Comments[len(i.Comments)-1], true
}
