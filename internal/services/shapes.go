package services

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	. "aktis-reporter-jira/internal/common"
	"aktis-reporter-jira/internal/models"
)

// Wire shapes for each backend. Every variant has one normalizer into the
// canonical models type; nothing outside this file reads raw Jira JSON.

var filterProjectPattern = regexp.MustCompile(`(?i)project\s*(?:=|in)\s*(?:\()?['"]*([A-Z][A-Z0-9]*)`)

// projectKeyFromFilter extracts the owning project from a saved filter query
func projectKeyFromFilter(query string) string {
	if query == "" {
		return models.UnknownProjectKey
	}
	match := filterProjectPattern.FindStringSubmatch(query)
	if match == nil {
		return models.UnknownProjectKey
	}
	return match[1]
}

// flexString accepts a JSON string or number
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var id models.BoardID
	if err := id.UnmarshalJSON(data); err != nil {
		return err
	}
	*f = flexString(id)
	return nil
}

// --- projects

type apiProject struct {
	ID             flexString `json:"id"`
	Key            string     `json:"key"`
	Name           string     `json:"name"`
	ProjectTypeKey string     `json:"projectTypeKey"`
}

func (p apiProject) normalize() models.Project {
	return models.Project{
		ID:   string(p.ID),
		Key:  p.Key,
		Name: p.Name,
		Type: p.ProjectTypeKey,
	}
}

// --- boards: agile

type agileBoardPage struct {
	Values []agileBoard `json:"values"`
}

type agileBoard struct {
	ID       models.BoardID `json:"id"`
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Location struct {
		ProjectKey string `json:"projectKey"`
	} `json:"location"`
}

func (b agileBoard) normalize() models.Board {
	kind := models.BoardKindKanban
	if strings.EqualFold(b.Type, string(models.BoardKindScrum)) {
		kind = models.BoardKindScrum
	}

	projectKey := b.Location.ProjectKey
	if projectKey == "" {
		projectKey = models.UnknownProjectKey
	}

	return models.Board{
		ID:         b.ID,
		Name:       b.Name,
		Kind:       kind,
		ProjectKey: projectKey,
	}
}

// --- boards: greenhopper rapid views

type rapidViewList struct {
	Views []rapidView `json:"views"`
}

type rapidView struct {
	ID                   models.BoardID `json:"id"`
	Name                 string         `json:"name"`
	SprintSupportEnabled bool           `json:"sprintSupportEnabled"`
	Filter               struct {
		Query string `json:"query"`
	} `json:"filter"`
}

func (v rapidView) normalize() models.Board {
	kind := models.BoardKindKanban
	if v.SprintSupportEnabled {
		kind = models.BoardKindScrum
	}

	return models.Board{
		ID:         v.ID,
		Name:       v.Name,
		Kind:       kind,
		ProjectKey: projectKeyFromFilter(v.Filter.Query),
	}
}

// --- issues: REST search, agile board issues and issue detail share this shape

type issuePage struct {
	Issues []apiIssue `json:"issues"`
}

type namedField struct {
	ID   flexString `json:"id,omitempty"`
	Name string     `json:"name"`
}

type apiUser struct {
	DisplayName string `json:"displayName"`
}

type apiComment struct {
	Author  *apiUser        `json:"author"`
	Body    json.RawMessage `json:"body"`
	Created string          `json:"created"`
}

type apiFields struct {
	Summary     string          `json:"summary"`
	Description json.RawMessage `json:"description,omitempty"`
	Status      *namedField     `json:"status"`
	Priority    *namedField     `json:"priority"`
	IssueType   *namedField     `json:"issuetype"`
	Assignee    *apiUser        `json:"assignee"`
	Created     string          `json:"created,omitempty"`
	Updated     string          `json:"updated,omitempty"`
	Components  []namedField    `json:"components,omitempty"`
	Labels      []string        `json:"labels,omitempty"`
	Comment     *struct {
		Comments []apiComment `json:"comments"`
	} `json:"comment,omitempty"`
}

type apiIssue struct {
	Key            string     `json:"key"`
	ID             flexString `json:"id"`
	Fields         apiFields  `json:"fields"`
	RenderedFields struct {
		Description string `json:"description"`
	} `json:"renderedFields"`
}

// recentCommentLimit is how many trailing comments survive normalization
const recentCommentLimit = 2

func (i apiIssue) normalize() models.Issue {
	f := i.Fields

	issue := models.Issue{
		Key:       i.Key,
		ID:        string(i.ID),
		Summary:   f.Summary,
		Status:    nameOr(f.Status, models.UnknownField),
		Priority:  nameOr(f.Priority, models.UnknownField),
		IssueType: nameOr(f.IssueType, models.UnknownField),
		Assignee:  models.Unassigned,
		Created:   f.Created,
		Updated:   f.Updated,
		Labels:    f.Labels,
	}

	if issue.Summary == "" {
		issue.Summary = models.NoSummaryField
	}
	if f.Assignee != nil && f.Assignee.DisplayName != "" {
		issue.Assignee = f.Assignee.DisplayName
	}

	for _, c := range f.Components {
		if c.Name != "" {
			issue.Components = append(issue.Components, c.Name)
		}
	}

	issue.Description = documentText(f.Description)
	if issue.Description == "" && i.RenderedFields.Description != "" {
		issue.Description = HTMLToText(i.RenderedFields.Description)
	}

	if f.Comment != nil {
		comments := f.Comment.Comments
		if len(comments) > recentCommentLimit {
			comments = comments[len(comments)-recentCommentLimit:]
		}
		for _, c := range comments {
			author := models.UnknownField
			if c.Author != nil && c.Author.DisplayName != "" {
				author = c.Author.DisplayName
			}
			issue.Comments = append(issue.Comments, models.Comment{
				Author:  author,
				Body:    documentText(c.Body),
				Created: c.Created,
			})
		}
	}

	return issue
}

func nameOr(field *namedField, fallback string) string {
	if field == nil || field.Name == "" {
		return fallback
	}
	return field.Name
}

// --- issues: greenhopper board work data

type boardWorkData struct {
	IssuesData struct {
		Issues []legacyBoardIssue `json:"issues"`
	} `json:"issuesData"`
}

// legacyBoardIssue is the flat record of /xboard/work/allData
type legacyBoardIssue struct {
	Key          string     `json:"key"`
	ID           flexString `json:"id"`
	Summary      string     `json:"summary"`
	StatusName   string     `json:"statusName"`
	StatusID     flexString `json:"statusId"`
	AssigneeName string     `json:"assigneeName"`
	PriorityName string     `json:"priorityName"`
	TypeName     string     `json:"typeName"`
}

// toAPIIssue rebuilds the nested sub-objects the legacy shape flattens, so
// the same normalizer serves both backends.
func (l legacyBoardIssue) toAPIIssue() apiIssue {
	issue := apiIssue{
		Key: l.Key,
		ID:  l.ID,
		Fields: apiFields{
			Summary:   l.Summary,
			Status:    &namedField{ID: l.StatusID, Name: orDefault(l.StatusName, models.UnknownField)},
			Priority:  &namedField{Name: orDefault(l.PriorityName, models.UnknownField)},
			IssueType: &namedField{Name: orDefault(l.TypeName, models.UnknownField)},
		},
	}
	if l.AssigneeName != "" {
		issue.Fields.Assignee = &apiUser{DisplayName: l.AssigneeName}
	}
	return issue
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// --- rich text

// adfNode is one node of an Atlassian Document Format tree
type adfNode struct {
	Type    string    `json:"type"`
	Text    string    `json:"text"`
	Content []adfNode `json:"content"`
	Attrs   struct {
		Text string `json:"text"`
	} `json:"attrs"`
}

// documentText returns plain text for a field that is either a wiki-markup
// string (API v2) or an ADF document (API v3).
func documentText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	}

	var doc adfNode
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}

	var b strings.Builder
	writeADF(&b, doc)
	return strings.TrimSpace(b.String())
}

func writeADF(b *strings.Builder, node adfNode) {
	switch node.Type {
	case "text":
		b.WriteString(node.Text)
		return
	case "hardBreak":
		b.WriteString("\n")
		return
	case "mention", "emoji":
		b.WriteString(node.Attrs.Text)
		return
	}

	for _, child := range node.Content {
		writeADF(b, child)
	}

	switch node.Type {
	case "paragraph", "heading", "listItem", "codeBlock", "blockquote", "rule", "tableRow":
		b.WriteString("\n")
	}
}
