package services

import (
	. "aktis-reporter-jira/internal/common"
	. "aktis-reporter-jira/internal/interfaces"
	"aktis-reporter-jira/internal/models"

	"github.com/ternarybob/arbor"
)

// Session carries one connection's client, bound API family and discovery
// engine. Nothing in the core reads session state from globals.
type Session struct {
	Record     *models.SessionRecord
	Client     JiraClient
	Negotiator *Negotiator
	Discovery  *Discovery
}

func NewSession(record *models.SessionRecord, config *JiraConfig, logger arbor.ILogger) (*Session, error) {
	client, err := NewJiraClient(record, config, logger)
	if err != nil {
		return nil, err
	}
	return newSessionWithClient(record, client, config.MaxResults, logger), nil
}

func newSessionWithClient(record *models.SessionRecord, client JiraClient, maxResults int, logger arbor.ILogger) *Session {
	negotiator := NewNegotiator(client, record.APIVersion, logger)
	return &Session{
		Record:     record,
		Client:     client,
		Negotiator: negotiator,
		Discovery:  NewDiscovery(client, negotiator, maxResults, logger),
	}
}

// BaseURL is the normalized base URL used for links
func (s *Session) BaseURL() string {
	return s.Client.BaseURL()
}

// SyncFamily copies the bound family into the record and reports whether it changed
func (s *Session) SyncFamily() bool {
	family := s.Negotiator.Family()
	if family == models.FamilyUnknown || family == s.Record.APIVersion {
		return false
	}
	s.Record.APIVersion = family
	return true
}
