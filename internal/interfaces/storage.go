package interfaces

import (
	"time"

	"aktis-reporter-jira/internal/models"
)

type Storage interface {
	LoadSession() (*models.SessionRecord, error)
	SaveSession(session *models.SessionRecord) error
	ClearSession() error
	RecordReport(record *models.ReportRecord) error
	ListReports() ([]*models.ReportRecord, error)
	PruneReports(olderThan time.Time) (int, error)
	Close() error
}
