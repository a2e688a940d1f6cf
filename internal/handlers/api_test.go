package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"aktis-reporter-jira/internal/activity"
	"aktis-reporter-jira/internal/common"
	"aktis-reporter-jira/internal/interfaces"
	"aktis-reporter-jira/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

type fakeStorage struct {
	reports []*models.ReportRecord
	err     error
}

func (s *fakeStorage) LoadSession() (*models.SessionRecord, error)   { return nil, s.err }
func (s *fakeStorage) SaveSession(*models.SessionRecord) error       { return s.err }
func (s *fakeStorage) ClearSession() error                           { return s.err }
func (s *fakeStorage) RecordReport(r *models.ReportRecord) error     { return s.err }
func (s *fakeStorage) ListReports() ([]*models.ReportRecord, error)  { return s.reports, s.err }
func (s *fakeStorage) PruneReports(olderThan time.Time) (int, error) { return 0, s.err }
func (s *fakeStorage) Close() error                                  { return nil }

type fakeService struct {
	session    models.SessionRecord
	selected   []models.Board
	discovered []models.Board
	classified activity.Classified
	markdown   string
	err        error

	gotDays      int
	gotSummaries bool
}

func (f *fakeService) SessionInfo() models.SessionRecord { return f.session.Redacted() }
func (f *fakeService) SelectedBoards() []models.Board    { return f.selected }

func (f *fakeService) DiscoverBoards(ctx context.Context) []models.Board { return f.discovered }

func (f *fakeService) ClassifyBoard(ctx context.Context, boardID string, days int) (models.Board, activity.Classified) {
	f.gotDays = days
	return models.Board{ID: models.BoardID(boardID), Name: "Board " + boardID}, f.classified
}

func (f *fakeService) GenerateReport(ctx context.Context, boardID string, days int, summaries bool, progress interfaces.ProgressFunc) (string, *models.ReportRecord, error) {
	f.gotDays = days
	f.gotSummaries = summaries
	if f.err != nil {
		return "", nil, f.err
	}
	progress("report_completed", map[string]string{"board": boardID})
	return f.markdown, &models.ReportRecord{BoardID: models.BoardID(boardID)}, nil
}

func newTestHandlers(t *testing.T, service *fakeService, storage *fakeStorage) *APIHandlers {
	t.Helper()
	logger := arbor.NewLogger()
	hub := NewWebSocketHub(logger)
	t.Cleanup(hub.Close)
	return NewAPIHandlers(common.DefaultConfig(), storage, service, logger, hub)
}

func get(handler http.HandlerFunc, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthHandler(t *testing.T) {
	h := newTestHandlers(t, &fakeService{}, &fakeStorage{})

	rec := get(h.HealthHandler, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.Services.Database)

	h = newTestHandlers(t, &fakeService{}, &fakeStorage{err: errors.New("database closed")})
	rec = get(h.HealthHandler, "/health")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "degraded", health.Status)
}

func TestSessionHandlerHidesCredentials(t *testing.T) {
	service := &fakeService{session: models.SessionRecord{
		BaseURL:    "https://acme.atlassian.net",
		AuthMethod: models.AuthMethodBasic,
		Email:      "ada@acme.test",
		APIToken:   "super-secret",
		APIVersion: models.FamilyCloud,
	}}
	h := newTestHandlers(t, service, &fakeStorage{})

	rec := get(h.SessionHandler, "/session")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "super-secret")

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "v3", resp.APIVersion)
	assert.Equal(t, "Cloud (API v3)", resp.Family)
}

func TestBoardsHandler(t *testing.T) {
	service := &fakeService{
		selected:   []models.Board{{ID: "7"}},
		discovered: []models.Board{{ID: "7"}, {ID: "8"}, {ID: "project-OPS"}},
	}
	h := newTestHandlers(t, service, &fakeStorage{})

	var boards []models.Board
	rec := get(h.BoardsHandler, "/boards")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &boards))
	assert.Len(t, boards, 1)

	rec = get(h.BoardsHandler, "/boards?all=true")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &boards))
	assert.Len(t, boards, 3)

	rec = get(newTestHandlers(t, &fakeService{}, &fakeStorage{}).BoardsHandler, "/boards")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestBoardIssuesHandler(t *testing.T) {
	service := &fakeService{classified: activity.Classified{
		Started: []models.Issue{{Key: "ACME-1"}},
		Blocked: []models.Issue{{Key: "ACME-2"}},
	}}
	h := newTestHandlers(t, service, &fakeStorage{})

	rec := get(h.BoardIssuesHandler, "/boards/issues")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(h.BoardIssuesHandler, "/boards/issues?board=7&days=14")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp BoardIssuesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 14, resp.Days)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "ACME-2", resp.Classified.Blocked[0].Key)

	get(h.BoardIssuesHandler, "/boards/issues?board=7&days=-3")
	assert.Equal(t, 7, service.gotDays)
}

func TestReportHandler(t *testing.T) {
	service := &fakeService{markdown: "# Weekly Kanban Board Report\n"}
	h := newTestHandlers(t, service, &fakeStorage{})

	rec := get(h.ReportHandler, "/report?board=7&summaries=false")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "# Weekly Kanban Board Report\n", rec.Body.String())
	assert.False(t, service.gotSummaries)

	get(h.ReportHandler, "/report?board=7")
	assert.True(t, service.gotSummaries)

	rec = get(h.ReportHandler, "/report")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportHandlerErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"auth", common.NewAuthError("unauthorized", "rejected"), http.StatusBadGateway, "auth"},
		{"connectivity", common.NewConnectivityError("request_failed", "down"), http.StatusBadGateway, "connectivity"},
		{"not found", common.NewNotFoundError("board_not_found", "missing"), http.StatusNotFound, "not_found"},
		{"configuration", common.NewConfigurationError("unconfigured", "run setup"), http.StatusServiceUnavailable, "configuration"},
		{"other", errors.New("disk full"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandlers(t, &fakeService{err: tt.err}, &fakeStorage{})

			rec := get(h.ReportHandler, "/report?board=7")
			assert.Equal(t, tt.status, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.kind, resp.Type)
			assert.True(t, strings.Contains(resp.Error, tt.err.Error()))
		})
	}
}

func TestReportsHandler(t *testing.T) {
	h := newTestHandlers(t, &fakeService{}, &fakeStorage{})
	rec := get(h.ReportsHandler, "/reports")
	assert.JSONEq(t, `[]`, rec.Body.String())

	storage := &fakeStorage{reports: []*models.ReportRecord{{ID: "r1", BoardID: "7", BoardName: "Acme"}}}
	h = newTestHandlers(t, &fakeService{}, storage)
	rec = get(h.ReportsHandler, "/reports")

	var records []models.ReportRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Acme", records[0].BoardName)
}
