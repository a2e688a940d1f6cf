package activity

import (
	"strings"
	"time"

	"aktis-reporter-jira/internal/models"
)

type Bucket string

const (
	BucketStarted   Bucket = "started"
	BucketCompleted Bucket = "completed"
	BucketBlocked   Bucket = "blocked"
	BucketOther     Bucket = "other"
)

// Rule maps status keywords to a bucket. A rule with RequiresRecent only
// applies when the issue was updated at or after the cutoff; otherwise the
// issue falls to BucketOther and no later rule is tried.
type Rule struct {
	Bucket         Bucket
	Keywords       []string
	RequiresRecent bool
}

// Rules are evaluated in order; the first rule whose keyword appears in the
// lower-cased status name decides the bucket.
var Rules = []Rule{
	{Bucket: BucketBlocked, Keywords: []string{"blocked", "impediment", "hold", "waiting", "stuck"}},
	{Bucket: BucketCompleted, Keywords: []string{"done", "closed", "resolved", "complete"}, RequiresRecent: true},
	{Bucket: BucketStarted, Keywords: []string{"progress", "development", "active", "working"}, RequiresRecent: true},
}

// Classified holds issues per bucket in input order
type Classified struct {
	Started   []models.Issue `json:"started"`
	Completed []models.Issue `json:"completed"`
	Blocked   []models.Issue `json:"blocked"`
	Other     []models.Issue `json:"other"`
}

func (c Classified) Total() int {
	return len(c.Started) + len(c.Completed) + len(c.Blocked) + len(c.Other)
}

// Bucket returns the issues of one bucket
func (c Classified) Bucket(b Bucket) []models.Issue {
	switch b {
	case BucketStarted:
		return c.Started
	case BucketCompleted:
		return c.Completed
	case BucketBlocked:
		return c.Blocked
	default:
		return c.Other
	}
}

// Cutoff is now minus the window, in UTC
func Cutoff(now time.Time, days int) Instant {
	return Aware(now.UTC().AddDate(0, 0, -days))
}

// ClassifyIssue assigns exactly one bucket to an issue
func ClassifyIssue(issue models.Issue, cutoff Instant) Bucket {
	status := strings.ToLower(issue.Status)

	for _, rule := range Rules {
		if !containsAny(status, rule.Keywords) {
			continue
		}
		if !rule.RequiresRecent {
			return rule.Bucket
		}
		updated, ok := ParseInstant(issue.Updated)
		if ok && AtOrAfter(updated, cutoff) {
			return rule.Bucket
		}
		return BucketOther
	}
	return BucketOther
}

func Classify(issues []models.Issue, cutoff Instant) Classified {
	var c Classified
	for _, issue := range issues {
		switch ClassifyIssue(issue, cutoff) {
		case BucketStarted:
			c.Started = append(c.Started, issue)
		case BucketCompleted:
			c.Completed = append(c.Completed, issue)
		case BucketBlocked:
			c.Blocked = append(c.Blocked, issue)
		default:
			c.Other = append(c.Other, issue)
		}
	}
	return c
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
