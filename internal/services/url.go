package services

import (
	"net/url"
	"strings"
)

// NormalizeBaseURL repairs common typos in a Jira base URL and strips the trailing slash
func NormalizeBaseURL(raw string) string {
	u := strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(u, "htpps://"):
		u = "https://" + strings.TrimPrefix(u, "htpps://")
	case strings.HasPrefix(u, "htpp://"):
		u = "http://" + strings.TrimPrefix(u, "htpp://")
	}

	if u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = "https://" + u
	}

	return strings.TrimRight(u, "/")
}

// IsCloudHost reports whether the base URL points at an Atlassian Cloud site
func IsCloudHost(baseURL string) bool {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(parsed.Hostname()), ".atlassian.net")
}
