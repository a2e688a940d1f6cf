package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"aktis-reporter-jira/internal/activity"
	. "aktis-reporter-jira/internal/common"
	. "aktis-reporter-jira/internal/interfaces"
	"aktis-reporter-jira/internal/models"
	"aktis-reporter-jira/internal/report"

	"github.com/ternarybob/arbor"
)

// StdoutPath as an output path writes nothing to disk
const StdoutPath = "-"

type ReportRequest struct {
	Board            models.Board
	Days             int
	IncludeSummaries bool
	OutputPath       string
	XLSXPath         string
}

type ReportResult struct {
	Board      models.Board
	Markdown   string
	Classified activity.Classified
	OutputPath string
	XLSXPath   string
	Record     *models.ReportRecord
}

// Reporter runs one report end to end: issues, classification, markdown,
// optional workbook, history entry.
type Reporter struct {
	session  *Session
	storage  Storage
	config   *ReportConfig
	logger   arbor.ILogger
	progress ProgressFunc
	now      func() time.Time
}

// NewReporter accepts a nil storage, in which case no history is recorded
func NewReporter(session *Session, storage Storage, config *ReportConfig, logger arbor.ILogger) *Reporter {
	return &Reporter{
		session: session,
		storage: storage,
		config:  config,
		logger:  logger,
		now:     time.Now,
	}
}

func (r *Reporter) OnProgress(fn ProgressFunc) {
	r.progress = fn
}

func (r *Reporter) emit(event string, data interface{}) {
	if r.progress != nil {
		r.progress(event, data)
	}
}

// ResolveBoard finds a board among the selected ones, then remotely. An
// unknown id still yields a usable board named after the id.
func (r *Reporter) ResolveBoard(ctx context.Context, id string) models.Board {
	if board, ok := r.session.Record.FindBoard(id); ok {
		return board
	}
	if board, err := r.session.Discovery.GetBoard(ctx, id); err == nil {
		return *board
	}
	return models.Board{ID: models.BoardID(id), Name: "Board " + id, ProjectKey: models.UnknownProjectKey}
}

// Classify fetches a board's issues and buckets them against now minus days
func (r *Reporter) Classify(ctx context.Context, board models.Board, days int) activity.Classified {
	issues := r.session.Discovery.BoardIssues(ctx, board)
	classified := activity.Classify(issues, activity.Cutoff(r.now(), days))

	r.logger.Info().
		Str("board", board.ID.String()).
		Int("started", len(classified.Started)).
		Int("completed", len(classified.Completed)).
		Int("blocked", len(classified.Blocked)).
		Int("other", len(classified.Other)).
		Msg("Classified board issues")

	r.emit("issues_classified", map[string]interface{}{
		"board":     board.ID,
		"started":   len(classified.Started),
		"completed": len(classified.Completed),
		"blocked":   len(classified.Blocked),
		"other":     len(classified.Other),
	})
	return classified
}

func (r *Reporter) Generate(ctx context.Context, req ReportRequest) (*ReportResult, error) {
	if req.Days <= 0 {
		req.Days = r.config.Days
	}
	board := req.Board
	if board.Name == "" {
		board.Name = "Board " + board.ID.String()
	}

	start := time.Now()
	r.emit("report_started", map[string]interface{}{"board": board.ID, "name": board.Name, "days": req.Days})

	classified := r.Classify(ctx, board, req.Days)

	renderer := report.NewRenderer(r.session.BaseURL(), r.session.Discovery, r.logger)
	renderer.Now = r.now
	renderer.Progress = r.progress
	markdown := renderer.Render(ctx, board.Name, classified, req.Days, req.IncludeSummaries)

	result := &ReportResult{
		Board:      board,
		Markdown:   markdown,
		Classified: classified,
	}

	if req.OutputPath != StdoutPath {
		path, err := r.writeMarkdown(req.OutputPath, markdown)
		if err != nil {
			return nil, err
		}
		result.OutputPath = path
	}

	if req.XLSXPath != "" {
		now := r.now()
		exporter := report.NewExcelExporter(r.config.OutputDir, r.session.BaseURL())
		path, err := exporter.Export(req.XLSXPath, board.Name, classified, now.AddDate(0, 0, -req.Days), now)
		if err != nil {
			return nil, WrapError(err, ErrorTypeInternal, "xlsx_failed", "failed to export workbook")
		}
		result.XLSXPath = path
	}

	result.Record = &models.ReportRecord{
		BoardID:     board.ID,
		BoardName:   board.Name,
		GeneratedAt: r.now(),
		Days:        req.Days,
		Summaries:   req.IncludeSummaries,
		Started:     len(classified.Started),
		Completed:   len(classified.Completed),
		Blocked:     len(classified.Blocked),
		Other:       len(classified.Other),
		OutputPath:  result.OutputPath,
	}
	if r.storage != nil {
		if err := r.storage.RecordReport(result.Record); err != nil {
			r.logger.Warn().Err(err).Msg("Failed to record report history")
		}
	}

	r.logger.Info().
		Str("board", board.ID.String()).
		Str("output", result.OutputPath).
		Dur("duration", time.Since(start)).
		Msg("Report generated")

	r.emit("report_completed", result.Record)
	return result, nil
}

func (r *Reporter) writeMarkdown(path, markdown string) (string, error) {
	if path == "" {
		path = filepath.Join(r.config.OutputDir, report.DefaultFilename(r.now()))
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return path, nil
}
