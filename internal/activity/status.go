package activity

import (
	"strings"

	"aktis-reporter-jira/internal/models"
)

// OtherGroup collects issues whose status matched no requested group
const OtherGroup = "Other"

// DefaultStatusGroups are shown first; the trailing ones are matched so they
// do not land in Other.
var DefaultStatusGroups = []string{"In Progress", "In Review", "Done", "To Do", "New", "Open"}

// backlogStatuses are matched after any caller-supplied list
var backlogStatuses = []string{"To Do", "New", "Open"}

// StatusGroup is a named slice of issues
type StatusGroup struct {
	Status string         `json:"status"`
	Issues []models.Issue `json:"issues"`
}

// GroupByStatus matches each issue to the first group whose name contains, or
// is contained in, its status (case-insensitive). Empty groups are dropped and
// the Other group comes last.
func GroupByStatus(issues []models.Issue, statuses []string) []StatusGroup {
	if len(statuses) == 0 {
		statuses = DefaultStatusGroups
	} else {
		statuses = withBacklog(statuses)
	}

	grouped := make(map[string][]models.Issue, len(statuses)+1)
	for _, issue := range issues {
		status := strings.ToLower(issue.Status)
		matched := OtherGroup
		for _, s := range statuses {
			if status == "" {
				break
			}
			want := strings.ToLower(s)
			if strings.Contains(status, want) || strings.Contains(want, status) {
				matched = s
				break
			}
		}
		grouped[matched] = append(grouped[matched], issue)
	}

	groups := make([]StatusGroup, 0, len(grouped))
	for _, s := range append(append([]string{}, statuses...), OtherGroup) {
		if list, ok := grouped[s]; ok && len(list) > 0 {
			groups = append(groups, StatusGroup{Status: s, Issues: list})
			delete(grouped, s)
		}
	}
	return groups
}

// withBacklog appends the backlog statuses the caller did not name
func withBacklog(statuses []string) []string {
	out := append([]string{}, statuses...)
	for _, b := range backlogStatuses {
		present := false
		for _, s := range statuses {
			if strings.EqualFold(strings.TrimSpace(s), b) {
				present = true
				break
			}
		}
		if !present {
			out = append(out, b)
		}
	}
	return out
}
