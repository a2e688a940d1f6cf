package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aktis-reporter-jira/internal/activity"
	"aktis-reporter-jira/internal/interfaces"
	"aktis-reporter-jira/internal/models"

	"github.com/ternarybob/arbor"
)

const (
	descriptionLimit = 200
	commentLimit     = 100

	noItems            = "*No items for this period.*\n"
	summaryNote        = "\n*Note: Executive summaries included for each issue.*"
	summaryUnavailable = "\n**Executive Summary:** Unable to fetch detailed information for this issue."
	generatorName      = "Aktis Reporter Jira"
)

// Renderer synthesizes the weekly markdown report from classified issues
type Renderer struct {
	BaseURL  string
	Details  interfaces.DetailFetcher
	Logger   arbor.ILogger
	Now      func() time.Time
	Progress interfaces.ProgressFunc
}

func NewRenderer(baseURL string, details interfaces.DetailFetcher, logger arbor.ILogger) *Renderer {
	return &Renderer{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Details: details,
		Logger:  logger,
		Now:     time.Now,
	}
}

// DefaultFilename is the date-stamped report name
func DefaultFilename(now time.Time) string {
	return fmt.Sprintf("Weekly_Kanban_Report_%s.md", now.Format("2006-01-02"))
}

// Render builds the full document. Detail fetches run one issue at a time; a
// failed fetch degrades that issue's summary to a notice.
func (r *Renderer) Render(ctx context.Context, boardName string, classified activity.Classified, days int, includeSummaries bool) string {
	now := r.Now()
	period := periodLabel(days)

	note := ""
	if includeSummaries {
		note = summaryNote
	}

	var b strings.Builder
	b.WriteString("# Weekly Kanban Board Report\n")
	fmt.Fprintf(&b, "**Board:** %s  \n", boardName)
	fmt.Fprintf(&b, "**Report Date:** %s  \n", now.Format("January 02, 2006"))
	fmt.Fprintf(&b, "**Period:** %s - %s  %s\n\n", now.AddDate(0, 0, -days).Format("January 02"), now.Format("January 02, 2006"), note)
	b.WriteString("---\n\n")

	sections := []struct {
		title    string
		subtitle string
		bucket   activity.Bucket
	}{
		{"Started", "work started", activity.BucketStarted},
		{"Completed", "work completed", activity.BucketCompleted},
		{"Blocked / Off-track", "work blocked or off-track", activity.BucketBlocked},
	}

	for _, s := range sections {
		fmt.Fprintf(&b, "## %s\n", s.title)
		fmt.Fprintf(&b, "*Jiras (with links), or other, %s %s*\n\n", s.subtitle, period)
		b.WriteString(r.formatIssues(ctx, classified.Bucket(s.bucket), s.bucket, includeSummaries))
		b.WriteString("\n\n---\n\n")
	}

	b.WriteString("## Risks\n")
	b.WriteString("*Manager assessment of any risks and mitigation steps*\n\n")
	b.WriteString("<!-- TODO: Add risk assessment and mitigation steps -->\n")
	b.WriteString("- **Risk 1:** [Describe risk]\n")
	b.WriteString("  - *Mitigation:* [Describe mitigation steps]\n")
	b.WriteString("- **Risk 2:** [Describe risk]\n")
	b.WriteString("  - *Mitigation:* [Describe mitigation steps]\n\n")
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "*Report generated on %s using %s*\n", now.Format("2006-01-02 15:04:05"), generatorName)
	return b.String()
}

func periodLabel(days int) string {
	if days == 7 {
		return "in the past week"
	}
	if days == 1 {
		return "in the past day"
	}
	return fmt.Sprintf("in the past %d days", days)
}

func (r *Renderer) formatIssues(ctx context.Context, issues []models.Issue, bucket activity.Bucket, includeSummaries bool) string {
	if len(issues) == 0 {
		return noItems
	}

	var lines []string
	for _, issue := range issues {
		link := fmt.Sprintf("[%s](%s/browse/%s)", issue.Key, r.BaseURL, issue.Key)

		switch bucket {
		case activity.BucketStarted:
			lines = append(lines,
				fmt.Sprintf("### %s: %s", link, issue.Summary),
				fmt.Sprintf("**Assignee:** %s | **Priority:** %s", issue.Assignee, issue.Priority))
		case activity.BucketCompleted:
			lines = append(lines,
				fmt.Sprintf("### ✅ %s: %s", link, issue.Summary),
				fmt.Sprintf("**Assignee:** %s", issue.Assignee))
		case activity.BucketBlocked:
			lines = append(lines,
				fmt.Sprintf("### 🚫 %s: %s", link, issue.Summary),
				fmt.Sprintf("**Status:** %s | **Assignee:** %s", issue.Status, issue.Assignee),
				"**Blocking Reason:** *[TODO: Add blocking reason]*")
		default:
			lines = append(lines, fmt.Sprintf("### %s: %s", link, issue.Summary))
		}

		if includeSummaries {
			lines = append(lines, r.summaryBlock(ctx, issue.Key))
		}

		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func (r *Renderer) summaryBlock(ctx context.Context, key string) string {
	if r.Details == nil {
		return summaryUnavailable
	}

	detail, err := r.Details.IssueDetail(ctx, key)
	if err != nil || detail == nil {
		if r.Logger != nil {
			r.Logger.Warn().Err(err).Str("issue", key).Msg("Failed to fetch issue details")
		}
		r.emit("summary_generated", map[string]interface{}{"key": key, "ok": false})
		return summaryUnavailable
	}

	r.emit("summary_generated", map[string]interface{}{"key": key, "ok": true})
	return "\n**Executive Summary:**\n" + ExecutiveSummary(*detail)
}

func (r *Renderer) emit(event string, data interface{}) {
	if r.Progress != nil {
		r.Progress(event, data)
	}
}

// ExecutiveSummary condenses a detailed issue into a short prose block
func ExecutiveSummary(issue models.Issue) string {
	var parts []string

	if desc := Truncate(CleanMarkup(issue.Description), descriptionLimit); desc != "" {
		parts = append(parts, fmt.Sprintf("**Description:** %s", desc))
	}

	parts = append(parts, fmt.Sprintf("**Current Status:** %s | **Priority:** %s", issue.Status, issue.Priority))

	if len(issue.Components) > 0 {
		parts = append(parts, fmt.Sprintf("**Components:** %s", strings.Join(issue.Components, ", ")))
	}

	if latest, ok := issue.LatestComment(); ok {
		parts = append(parts, fmt.Sprintf("**Latest Update (%s):** %s", latest.Author, Truncate(CleanMarkup(latest.Body), commentLimit)))
	}

	rating := activity.Score(issue.IssueType, issue.Priority, issue.Labels, issue.Description)
	parts = append(parts, fmt.Sprintf("**Business Impact:** %s", rating.Label()))

	return strings.Join(parts, "\n")
}
