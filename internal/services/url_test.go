package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://acme.atlassian.net", "https://acme.atlassian.net"},
		{"https://acme.atlassian.net/", "https://acme.atlassian.net"},
		{"  acme.atlassian.net  ", "https://acme.atlassian.net"},
		{"htpps://acme.atlassian.net", "https://acme.atlassian.net"},
		{"htpp://jira.internal:8080/", "http://jira.internal:8080"},
		{"http://jira.internal/jira//", "http://jira.internal/jira"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBaseURL(tt.in))
		})
	}
}

func TestIsCloudHost(t *testing.T) {
	assert.True(t, IsCloudHost("https://acme.atlassian.net"))
	assert.True(t, IsCloudHost("https://ACME.Atlassian.net/"))
	assert.False(t, IsCloudHost("https://jira.acme.com"))
	assert.False(t, IsCloudHost("https://atlassian.net.evil.com"))
	assert.False(t, IsCloudHost("::not a url"))
}
