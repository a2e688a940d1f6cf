package services

import (
	"context"
	"net/http"
	"testing"

	"aktis-reporter-jira/internal/activity"
	"aktis-reporter-jira/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectSummaries(t *testing.T) {
	client := newFakeClient(map[string]fakeResponse{
		"/rest/api/3/search": okJSON(searchJSON),
	})
	session := newTestSession(t, client)
	session.Record.SelectedProjects = []models.Project{{Key: "OPS", Name: "Operations"}}

	summaries := session.ProjectSummaries(context.Background(), 3)

	require.Len(t, summaries, 1)
	assert.Empty(t, summaries[0].Error)
	require.Len(t, summaries[0].Issues, 1)
	assert.Equal(t, "3", client.params["/rest/api/3/search"]["maxResults"])
}

func TestProjectSummariesKeepsErrors(t *testing.T) {
	client := newFakeClient(map[string]fakeResponse{
		"/rest/api/3/search": {http.StatusForbidden, `{}`},
	})
	session := newTestSession(t, client)
	session.Record.SelectedProjects = []models.Project{{Key: "SEC"}}

	summaries := session.ProjectSummaries(context.Background(), 10)

	require.Len(t, summaries, 1)
	assert.Contains(t, summaries[0].Error, "forbidden")
}

func TestBoardSummaries(t *testing.T) {
	session, _ := reporterFixture(t)

	summaries := session.BoardSummaries(context.Background(), []string{"In Progress", "Done"})

	require.Len(t, summaries, 1)
	s := summaries[0]
	assert.Equal(t, 4, s.Total)
	assert.Len(t, s.Latest, latestShown)

	var names []string
	for _, g := range s.Groups {
		names = append(names, g.Status)
	}
	assert.Equal(t, []string{"In Progress", "Done", activity.OtherGroup}, names)
}
