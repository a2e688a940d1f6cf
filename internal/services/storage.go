package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	. "aktis-reporter-jira/internal/common"
	. "aktis-reporter-jira/internal/interfaces"
	"aktis-reporter-jira/internal/models"

	"github.com/ternarybob/arbor"
	bolt "go.etcd.io/bbolt"
)

const (
	sessionBucket = "session"
	reportsBucket = "reports"
	sessionKey    = "current"

	// fixed width so keys sort chronologically
	reportKeyLayout = "2006-01-02T15:04:05.000000000Z"
)

type storage struct {
	db     *bolt.DB
	config *StorageConfig
	logger arbor.ILogger
}

// NewStorage opens the bbolt database holding the session record and report
// history, pruning history older than the retention window.
func NewStorage(config *StorageConfig, logger arbor.ILogger) (Storage, error) {
	dbDir := filepath.Dir(config.DatabasePath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(config.DatabasePath, 0600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, WrapError(err, ErrorTypeStorage, "open_failed", "failed to open database").
			WithContext("path", config.DatabasePath)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(sessionBucket)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(reportsBucket)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create buckets: %w", err)
	}

	s := &storage{
		db:     db,
		config: config,
		logger: logger,
	}

	if config.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -config.RetentionDays)
		if pruned, err := s.PruneReports(cutoff); err != nil {
			logger.Warn().Err(err).Msg("Failed to prune report history")
		} else if pruned > 0 {
			logger.Debug().Int("pruned", pruned).Msg("Pruned report history")
		}
	}

	return s, nil
}

func (s *storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadSession returns a ConfigurationError when no usable record exists
func (s *storage) LoadSession() (*models.SessionRecord, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket([]byte(sessionBucket)).Get([]byte(sessionKey)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, WrapError(err, ErrorTypeStorage, "read_failed", "failed to read session")
	}

	if data == nil {
		return nil, NewConfigurationError("unconfigured", "no session configured, run setup first")
	}

	var session models.SessionRecord
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, NewConfigurationError("invalid_session", "stored session record is unreadable, run setup again").WithCause(err)
	}
	if err := session.Validate(); err != nil {
		return nil, NewConfigurationError("invalid_session", "stored session record is incomplete, run setup again").WithCause(err)
	}

	return &session, nil
}

func (s *storage) SaveSession(session *models.SessionRecord) error {
	if err := session.Validate(); err != nil {
		return NewConfigurationError("invalid_session", "refusing to save an incomplete session").WithCause(err)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(sessionBucket)).Put([]byte(sessionKey), data); err != nil {
			return WrapError(err, ErrorTypeStorage, "write_failed", "failed to save session")
		}
		return nil
	})
}

func (s *storage) ClearSession() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Delete([]byte(sessionKey))
	})
}

func (s *storage) RecordReport(record *models.ReportRecord) error {
	if record.GeneratedAt.IsZero() {
		record.GeneratedAt = time.Now()
	}
	key := fmt.Sprintf("%s:%s", record.GeneratedAt.UTC().Format(reportKeyLayout), record.BoardID)
	if record.ID == "" {
		record.ID = key
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal report record: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(reportsBucket)).Put([]byte(key), data)
	})
}

// ListReports returns history newest first
func (s *storage) ListReports() ([]*models.ReportRecord, error) {
	var records []*models.ReportRecord

	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(reportsBucket)).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			var record models.ReportRecord
			if err := json.Unmarshal(v, &record); err != nil {
				s.logger.Warn().Err(err).Str("key", string(k)).Msg("Skipping unreadable report record")
				continue
			}
			records = append(records, &record)
		}
		return nil
	})

	return records, err
}

func (s *storage) PruneReports(olderThan time.Time) (int, error) {
	cutoff := []byte(olderThan.UTC().Format(reportKeyLayout))
	pruned := 0

	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(reportsBucket))

		var stale [][]byte
		c := bucket.Cursor()
		for k, _ := c.First(); k != nil && string(k) < string(cutoff); k, _ = c.Next() {
			stale = append(stale, append([]byte(nil), k...))
		}

		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
			pruned++
		}
		return nil
	})

	return pruned, err
}
