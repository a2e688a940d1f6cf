package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardIDUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want BoardID
	}{
		{"number", `{"id": 42}`, "42"},
		{"string", `{"id": "42"}`, "42"},
		{"proxy string", `{"id": "project-ABC"}`, "project-ABC"},
		{"null", `{"id": null}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Board
			require.NoError(t, json.Unmarshal([]byte(tt.json), &b))
			assert.Equal(t, tt.want, b.ID)
		})
	}

	var b Board
	assert.Error(t, json.Unmarshal([]byte(`{"id": true}`), &b))
}

func TestProxyBoard(t *testing.T) {
	board := NewProxyBoard(Project{Key: "OPS", Name: "Operations"})

	assert.Equal(t, BoardID("project-OPS"), board.ID)
	assert.Equal(t, "Operations (Project View)", board.Name)
	assert.Equal(t, BoardKindProjectProxy, board.Kind)
	assert.Equal(t, "OPS", board.ProjectKey)
	assert.True(t, board.IsProxy())
	assert.True(t, board.HasProject())

	key, ok := board.ID.ProxyProjectKey()
	assert.True(t, ok)
	assert.Equal(t, "OPS", key)
}

func TestProxyProjectKeyRejects(t *testing.T) {
	for _, id := range []BoardID{"12", "project-", "", "proj-OPS"} {
		_, ok := id.ProxyProjectKey()
		assert.False(t, ok, string(id))
	}
}

func TestBoardHasProject(t *testing.T) {
	assert.False(t, Board{ProjectKey: UnknownProjectKey}.HasProject())
	assert.False(t, Board{}.HasProject())
	assert.True(t, Board{ProjectKey: "ABC"}.HasProject())
}

func TestFamily(t *testing.T) {
	assert.Equal(t, "/rest/api/3/myself", FamilyCloud.APIPath("myself"))
	assert.Equal(t, "/rest/api/2/myself", FamilyServer.APIPath("myself"))
	assert.Equal(t, "/rest/api/3/project", FamilyUnknown.APIPath("project"))

	assert.Equal(t, FamilyServer, FamilyCloud.Alternate())
	assert.Equal(t, FamilyCloud, FamilyServer.Alternate())
	assert.Equal(t, FamilyServer, FamilyUnknown.Alternate())
}
