package activity

import "strings"

type Rating string

const (
	RatingHigh   Rating = "HIGH"
	RatingMedium Rating = "MEDIUM"
	RatingLow    Rating = "LOW"
)

var impactKeywords = []string{"outage", "down", "critical", "security", "data loss", "customer impact", "revenue"}

// ImpactScore accumulates priority, type and keyword signals
func ImpactScore(issueType, priority string, labels []string, description string) int {
	p := strings.ToLower(priority)
	t := strings.ToLower(issueType)
	score := 0

	switch {
	case strings.Contains(p, "critical") || strings.Contains(p, "highest"):
		score += 4
	case strings.Contains(p, "high"):
		score += 3
	case strings.Contains(p, "medium"):
		score += 2
	default:
		score++
	}

	switch {
	case strings.Contains(t, "bug") && (strings.Contains(t, "critical") || strings.Contains(t, "blocker")):
		score += 2
	case strings.Contains(t, "security"):
		score += 2
	case strings.Contains(t, "feature") || strings.Contains(t, "epic"):
		score++
	}

	text := strings.ToLower(strings.Join(labels, " ") + " " + description)
	for _, k := range impactKeywords {
		if strings.Contains(text, k) {
			score++
			break
		}
	}

	return score
}

// Score rates business impact: 6 and above is HIGH, 4 and above MEDIUM
func Score(issueType, priority string, labels []string, description string) Rating {
	switch s := ImpactScore(issueType, priority, labels, description); {
	case s >= 6:
		return RatingHigh
	case s >= 4:
		return RatingMedium
	default:
		return RatingLow
	}
}

// Label is the report wording for a rating
func (r Rating) Label() string {
	switch r {
	case RatingHigh:
		return "🔴 **HIGH** - Critical business impact requiring immediate attention"
	case RatingMedium:
		return "🟡 **MEDIUM** - Moderate business impact, should be prioritized"
	default:
		return "🟢 **LOW** - Minimal business impact, can be addressed in normal workflow"
	}
}
