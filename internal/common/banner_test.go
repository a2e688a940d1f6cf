package common

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBannerDetails(t *testing.T) {
	out := bannerDetails(BannerInfo{
		Port:         8080,
		DatabasePath: "/data/reporter.db",
		ReportDir:    "/srv/reports",
		LogFile:      "/var/log/reporter.log",
		Boards:       []string{"Ops (7)"},
		Routes:       []string{"/health", "/report"},
	})

	assert.Contains(t, out, "Config File: (defaults)")
	assert.Contains(t, out, "Database: /data/reporter.db")
	assert.Contains(t, out, "Log File: /var/log/reporter.log")
	assert.Contains(t, out, "• Ops (7)")
	assert.Contains(t, out, "http://localhost:8080/report")

	out = bannerDetails(BannerInfo{ConfigFile: "reporter.toml"})
	assert.Contains(t, out, "Config File: reporter.toml")
	assert.NotContains(t, out, "Log File")
	assert.NotContains(t, out, "Selected Boards")
	assert.NotContains(t, out, "Endpoints")
}

func TestStatusStreams(t *testing.T) {
	var status, errs bytes.Buffer
	SetStatusOutput(&status, &errs)
	t.Cleanup(func() { SetStatusOutput(nil, nil) })

	PrintSuccess("saved")
	PrintInfo("3 boards")
	PrintWarning("slow")
	PrintError("failed")

	assert.Contains(t, status.String(), "✓ saved")
	assert.Contains(t, status.String(), "ℹ 3 boards")
	assert.NotContains(t, status.String(), "failed")
	assert.Contains(t, errs.String(), "⚠ slow")
	assert.Contains(t, errs.String(), "✗ failed")
}
