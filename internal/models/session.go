package models

import (
	"fmt"
	"strings"
)

type AuthMethod string

const (
	AuthMethodBasic AuthMethod = "basic"
	AuthMethodToken AuthMethod = "token"
)

// SessionRecord is the persisted connection and selection state
type SessionRecord struct {
	BaseURL          string     `json:"base_url"`
	AuthMethod       AuthMethod `json:"auth_method"`
	Email            string     `json:"email,omitempty"`
	APIToken         string     `json:"api_token,omitempty"`
	PersonalToken    string     `json:"personal_token,omitempty"`
	APIVersion       Family     `json:"api_version,omitempty"`
	SelectedProjects []Project  `json:"selected_projects"`
	SelectedBoards   []Board    `json:"selected_boards"`
}

func (s *SessionRecord) Validate() error {
	if strings.TrimSpace(s.BaseURL) == "" {
		return fmt.Errorf("base_url is required")
	}

	switch s.AuthMethod {
	case AuthMethodBasic:
		if s.Email == "" || s.APIToken == "" {
			return fmt.Errorf("basic auth requires email and api_token")
		}
	case AuthMethodToken:
		if s.PersonalToken == "" {
			return fmt.Errorf("token auth requires personal_token")
		}
	default:
		return fmt.Errorf("invalid auth_method: %q", s.AuthMethod)
	}

	switch s.APIVersion {
	case FamilyUnknown, FamilyCloud, FamilyServer:
	default:
		return fmt.Errorf("invalid api_version: %q", s.APIVersion)
	}

	return nil
}

// ProjectKeys returns the keys of the selected projects in selection order
func (s *SessionRecord) ProjectKeys() []string {
	keys := make([]string, 0, len(s.SelectedProjects))
	for _, p := range s.SelectedProjects {
		keys = append(keys, p.Key)
	}
	return keys
}

// AddBoard appends a board unless one with the same id is already selected
func (s *SessionRecord) AddBoard(board Board) bool {
	for _, existing := range s.SelectedBoards {
		if existing.ID.String() == board.ID.String() {
			return false
		}
	}
	s.SelectedBoards = append(s.SelectedBoards, board)
	return true
}

// FindBoard looks up a selected board by id
func (s *SessionRecord) FindBoard(id string) (Board, bool) {
	for _, b := range s.SelectedBoards {
		if b.ID.String() == id {
			return b, true
		}
	}
	return Board{}, false
}

// Redacted returns a copy without credentials, safe to serve over HTTP
func (s SessionRecord) Redacted() SessionRecord {
	s.APIToken = ""
	s.PersonalToken = ""
	return s
}
