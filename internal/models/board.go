package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// UnknownProjectKey marks a board whose owning project could not be determined
const UnknownProjectKey = "N/A"

const proxyIDPrefix = "project-"

type BoardKind string

const (
	BoardKindScrum        BoardKind = "scrum"
	BoardKindKanban       BoardKind = "kanban"
	BoardKindProjectProxy BoardKind = "project-proxy"
)

// BoardID is numeric for real boards and a string for project proxies.
// It unmarshals from either a JSON number or a JSON string.
type BoardID string

func (id *BoardID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = BoardID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("board id must be a number or string: %w", err)
	}
	*id = BoardID(n.String())
	return nil
}

func (id BoardID) String() string {
	return string(id)
}

// ProxyBoardID composes the synthetic id of a project-proxy board
func ProxyBoardID(projectKey string) BoardID {
	return BoardID(proxyIDPrefix + projectKey)
}

// ProxyProjectKey returns the project key encoded in a proxy board id
func (id BoardID) ProxyProjectKey() (string, bool) {
	s := string(id)
	if !strings.HasPrefix(s, proxyIDPrefix) || len(s) == len(proxyIDPrefix) {
		return "", false
	}
	return strings.TrimPrefix(s, proxyIDPrefix), true
}

type Board struct {
	ID         BoardID   `json:"id"`
	Name       string    `json:"name"`
	Kind       BoardKind `json:"type"`
	ProjectKey string    `json:"project_key"`
}

// NewProxyBoard synthesizes the stand-in board for a project
func NewProxyBoard(project Project) Board {
	return Board{
		ID:         ProxyBoardID(project.Key),
		Name:       project.Name + " (Project View)",
		Kind:       BoardKindProjectProxy,
		ProjectKey: project.Key,
	}
}

func (b Board) IsProxy() bool {
	return b.Kind == BoardKindProjectProxy
}

// HasProject reports whether the owning project key is known
func (b Board) HasProject() bool {
	return b.ProjectKey != "" && b.ProjectKey != UnknownProjectKey
}
