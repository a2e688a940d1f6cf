package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"aktis-reporter-jira/internal/activity"
	"aktis-reporter-jira/internal/common"
	"aktis-reporter-jira/internal/interfaces"
	"aktis-reporter-jira/internal/models"

	"github.com/ternarybob/arbor"
)

// APIHandlers contains all API endpoint handlers
type APIHandlers struct {
	config    *common.Config
	storage   interfaces.Storage
	service   interfaces.ReportService
	logger    arbor.ILogger
	startTime time.Time
	wsHub     *WebSocketHub
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Build     string    `json:"build"`
	Uptime    float64   `json:"uptime_seconds"`
	Services  struct {
		Database bool `json:"database"`
	} `json:"services"`
}

type VersionResponse struct {
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit"`
}

type SessionResponse struct {
	BaseURL          string           `json:"base_url"`
	AuthMethod       string           `json:"auth_method"`
	APIVersion       string           `json:"api_version"`
	Family           string           `json:"family"`
	SelectedProjects []models.Project `json:"selected_projects"`
	SelectedBoards   []models.Board   `json:"selected_boards"`
}

type BoardIssuesResponse struct {
	Board      models.Board        `json:"board"`
	Days       int                 `json:"days"`
	Cutoff     time.Time           `json:"cutoff"`
	Total      int                 `json:"total"`
	Classified activity.Classified `json:"classified"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
}

func NewAPIHandlers(config *common.Config, storage interfaces.Storage, service interfaces.ReportService, logger arbor.ILogger, wsHub *WebSocketHub) *APIHandlers {
	return &APIHandlers{
		config:    config,
		storage:   storage,
		service:   service,
		logger:    logger,
		startTime: time.Now(),
		wsHub:     wsHub,
	}
}

// HealthHandler returns system health status
func (h *APIHandlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   common.GetVersion(),
		Build:     common.GetBuild(),
		Uptime:    time.Since(h.startTime).Seconds(),
	}

	_, err := h.storage.ListReports()
	health.Services.Database = err == nil
	if !health.Services.Database {
		health.Status = "degraded"
	}

	h.writeJSON(w, http.StatusOK, health)
}

func (h *APIHandlers) VersionHandler(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, VersionResponse{
		Version: common.GetVersion(),
		Build:   common.GetBuild(),
		Commit:  common.GetGitCommit(),
	})
}

// SessionHandler returns the selection and bound API family, never credentials
func (h *APIHandlers) SessionHandler(w http.ResponseWriter, r *http.Request) {
	session := h.service.SessionInfo()
	h.writeJSON(w, http.StatusOK, SessionResponse{
		BaseURL:          session.BaseURL,
		AuthMethod:       string(session.AuthMethod),
		APIVersion:       string(session.APIVersion),
		Family:           session.APIVersion.String(),
		SelectedProjects: session.SelectedProjects,
		SelectedBoards:   session.SelectedBoards,
	})
}

// BoardsHandler lists selected boards, or discovers all boards with ?all=true
func (h *APIHandlers) BoardsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var boards []models.Board
	if all, _ := strconv.ParseBool(r.URL.Query().Get("all")); all {
		boards = h.service.DiscoverBoards(r.Context())
	} else {
		boards = h.service.SelectedBoards()
	}
	if boards == nil {
		boards = []models.Board{}
	}

	h.writeJSON(w, http.StatusOK, boards)
}

// BoardIssuesHandler returns a board's issues bucketed by recent activity
func (h *APIHandlers) BoardIssuesHandler(w http.ResponseWriter, r *http.Request) {
	boardID := r.URL.Query().Get("board")
	if boardID == "" {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "board parameter is required"})
		return
	}
	days := h.daysParam(r)

	board, classified := h.service.ClassifyBoard(r.Context(), boardID, days)
	h.wsHub.SendEvent("issues_classified", map[string]interface{}{
		"board": board.ID,
		"total": classified.Total(),
	})

	h.writeJSON(w, http.StatusOK, BoardIssuesResponse{
		Board:      board,
		Days:       days,
		Cutoff:     activity.Cutoff(time.Now(), days).Time,
		Total:      classified.Total(),
		Classified: classified,
	})
}

// ReportHandler renders the markdown report and streams progress over /ws
func (h *APIHandlers) ReportHandler(w http.ResponseWriter, r *http.Request) {
	boardID := r.URL.Query().Get("board")
	if boardID == "" {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "board parameter is required"})
		return
	}

	summaries := h.config.Report.IncludeSummaries
	if raw := r.URL.Query().Get("summaries"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			summaries = v
		}
	}

	markdown, _, err := h.service.GenerateReport(r.Context(), boardID, h.daysParam(r), summaries, h.wsHub.SendEvent)
	if err != nil {
		h.logger.Error().Err(err).Str("board", boardID).Msg("Failed to generate report")
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(markdown)); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write report response")
	}
}

// ReportsHandler returns report history, newest first
func (h *APIHandlers) ReportsHandler(w http.ResponseWriter, r *http.Request) {
	records, err := h.storage.ListReports()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to load report history")
		h.writeError(w, err)
		return
	}
	if records == nil {
		records = []*models.ReportRecord{}
	}
	h.writeJSON(w, http.StatusOK, records)
}

func (h *APIHandlers) daysParam(r *http.Request) int {
	if raw := r.URL.Query().Get("days"); raw != "" {
		if days, err := strconv.Atoi(raw); err == nil && days > 0 {
			return days
		}
	}
	return h.config.Report.Days
}

func (h *APIHandlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	resp := ErrorResponse{Error: err.Error()}

	switch {
	case common.IsErrorType(err, common.ErrorTypeAuth):
		status, resp.Type = http.StatusBadGateway, string(common.ErrorTypeAuth)
	case common.IsErrorType(err, common.ErrorTypeConnectivity):
		status, resp.Type = http.StatusBadGateway, string(common.ErrorTypeConnectivity)
	case common.IsErrorType(err, common.ErrorTypeNotFound):
		status, resp.Type = http.StatusNotFound, string(common.ErrorTypeNotFound)
	case common.IsErrorType(err, common.ErrorTypeConfiguration):
		status, resp.Type = http.StatusServiceUnavailable, string(common.ErrorTypeConfiguration)
	}

	h.writeJSON(w, status, resp)
}

func (h *APIHandlers) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}
