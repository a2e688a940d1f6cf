package models

// Project is a Jira project as listed by /rest/api/{3|2}/project
type Project struct {
	ID   string `json:"id,omitempty"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}
