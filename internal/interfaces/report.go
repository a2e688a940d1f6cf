package interfaces

import (
	"context"

	"aktis-reporter-jira/internal/activity"
	"aktis-reporter-jira/internal/models"
)

// ReportService is the core surface exposed in serve mode. Implementations
// serialize calls so the engine stays single-threaded.
type ReportService interface {
	SessionInfo() models.SessionRecord
	SelectedBoards() []models.Board
	DiscoverBoards(ctx context.Context) []models.Board
	ClassifyBoard(ctx context.Context, boardID string, days int) (models.Board, activity.Classified)
	GenerateReport(ctx context.Context, boardID string, days int, summaries bool, progress ProgressFunc) (string, *models.ReportRecord, error)
}
