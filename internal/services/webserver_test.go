package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "aktis-reporter-jira/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebServerRoutes(t *testing.T) {
	session, _ := reporterFixture(t)
	store := openTestStorage(t, &StorageConfig{})
	cfg := DefaultConfig()
	cfg.Report.OutputDir = t.TempDir()

	service := NewReportService(session, store, &cfg.Report, testLogger())
	web, err := NewWebServer(cfg, store, service, testLogger())
	require.NoError(t, err)
	ws := web.(*webServer)
	t.Cleanup(func() { ws.wsHub.Close() })

	server := httptest.NewServer(ws.server.Handler)
	defer server.Close()

	for _, path := range []string{"/health", "/version", "/session", "/boards", "/reports"} {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err, path)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"), path)
	}

	resp, err := http.Get(server.URL + "/report?board=7&summaries=false")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/markdown; charset=utf-8", resp.Header.Get("Content-Type"))

	resp, err = http.Post(server.URL+"/report?board=7", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	assert.False(t, web.IsRunning())
}

func TestWebServerRequiresService(t *testing.T) {
	_, err := NewWebServer(DefaultConfig(), nil, nil, testLogger())
	assert.True(t, IsErrorType(err, ErrorTypeConfiguration))
}
