package main

import (
	"path/filepath"
	"testing"

	"aktis-reporter-jira/internal/common"
	"aktis-reporter-jira/internal/models"
	"aktis-reporter-jira/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func useTestStore(t *testing.T) {
	t.Helper()
	s, err := services.NewStorage(&common.StorageConfig{
		DatabasePath: filepath.Join(t.TempDir(), "reporter.db"),
	}, arbor.NewLogger())
	require.NoError(t, err)

	prevStore, prevLogger := store, logger
	store, logger = s, arbor.NewLogger()
	t.Cleanup(func() {
		s.Close()
		store, logger = prevStore, prevLogger
		setupURL, setupReset = "", false
	})
}

func TestSetupReset(t *testing.T) {
	useTestStore(t)
	require.NoError(t, store.SaveSession(&models.SessionRecord{
		BaseURL:        "https://acme.atlassian.net",
		AuthMethod:     models.AuthMethodBasic,
		Email:          "ada@acme.test",
		APIToken:       "token",
		SelectedBoards: []models.Board{{ID: "7", Name: "Ops"}},
	}))

	setupURL, setupReset = "", true
	require.NoError(t, runSetup(setupCmd, nil))

	_, err := store.LoadSession()
	assert.True(t, common.IsErrorType(err, common.ErrorTypeConfiguration))
}

func TestSetupRequiresURL(t *testing.T) {
	useTestStore(t)

	setupURL, setupReset = "  ", false
	err := runSetup(setupCmd, nil)

	var rerr *common.ReporterError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, common.ErrorTypeConfiguration, rerr.Type)
	assert.Equal(t, "missing_url", rerr.Code)
}
