package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLooksLikeMarkup(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"login page", "<!DOCTYPE html><html><head><title>Log in</title></head></html>", true},
		{"leading whitespace", "\n  <html></html>", true},
		{"json object", `{"displayName": "Ada"}`, false},
		{"json string with tag", `"<b>bold</b>"`, false},
		{"plain text", "Service Unavailable", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LooksLikeMarkup([]byte(tt.body)))
		})
	}
}

func TestPageTitle(t *testing.T) {
	assert.Equal(t, "Log in - Jira", PageTitle([]byte("<html><head><title>Log in - Jira</title></head><body></body></html>")))
	assert.Equal(t, "", PageTitle([]byte("<html><body>no title</body></html>")))
}

func TestHTMLToText(t *testing.T) {
	assert.Equal(t, "Hello world\nSecond", HTMLToText("<p>Hello <b>world</b></p><p>Second</p>"))
	assert.Equal(t, "", HTMLToText("   "))
	assert.Equal(t, "plain", HTMLToText("plain"))
}
