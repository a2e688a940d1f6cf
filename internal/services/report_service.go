package services

import (
	"context"
	"sync"

	"aktis-reporter-jira/internal/activity"
	. "aktis-reporter-jira/internal/common"
	. "aktis-reporter-jira/internal/interfaces"
	"aktis-reporter-jira/internal/models"

	"github.com/ternarybob/arbor"
)

type reportService struct {
	mu      sync.Mutex
	session *Session
	storage Storage
	config  *ReportConfig
	logger  arbor.ILogger
}

// NewReportService wraps a session for concurrent HTTP callers. Every call
// holds one mutex for its whole duration.
func NewReportService(session *Session, storage Storage, config *ReportConfig, logger arbor.ILogger) ReportService {
	return &reportService{
		session: session,
		storage: storage,
		config:  config,
		logger:  logger,
	}
}

func (s *reportService) SessionInfo() models.SessionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := s.session.Record.Redacted()
	if family := s.session.Negotiator.Family(); family != models.FamilyUnknown {
		record.APIVersion = family
	}
	return record
}

func (s *reportService) SelectedBoards() []models.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Board(nil), s.session.Record.SelectedBoards...)
}

func (s *reportService) DiscoverBoards(ctx context.Context) []models.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Discovery.Boards(ctx, s.session.Record.SelectedProjects)
}

func (s *reportService) ClassifyBoard(ctx context.Context, boardID string, days int) (models.Board, activity.Classified) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if days <= 0 {
		days = s.config.Days
	}
	reporter := NewReporter(s.session, nil, s.config, s.logger)
	board := reporter.ResolveBoard(ctx, boardID)
	return board, reporter.Classify(ctx, board, days)
}

func (s *reportService) GenerateReport(ctx context.Context, boardID string, days int, summaries bool, progress ProgressFunc) (string, *models.ReportRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reporter := NewReporter(s.session, s.storage, s.config, s.logger)
	reporter.OnProgress(progress)

	result, err := reporter.Generate(ctx, ReportRequest{
		Board:            reporter.ResolveBoard(ctx, boardID),
		Days:             days,
		IncludeSummaries: summaries,
		OutputPath:       StdoutPath,
	})
	if err != nil {
		return "", nil, err
	}
	return result.Markdown, result.Record, nil
}
