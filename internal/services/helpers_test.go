package services

import (
	"context"
	"net/http"
	"testing"

	. "aktis-reporter-jira/internal/interfaces"
	"aktis-reporter-jira/internal/models"

	"github.com/ternarybob/arbor"
)

const testBaseURL = "https://acme.atlassian.net"

type fakeResponse struct {
	status int
	body   string
}

// fakeClient answers by path; unknown paths get a JSON 404
type fakeClient struct {
	routes map[string]fakeResponse
	errors map[string]error
	calls  []string
	params map[string]map[string]string
}

func newFakeClient(routes map[string]fakeResponse) *fakeClient {
	return &fakeClient{
		routes: routes,
		errors: map[string]error{},
		params: map[string]map[string]string{},
	}
}

func (f *fakeClient) Get(ctx context.Context, path string, params map[string]string) (*RawResponse, error) {
	f.calls = append(f.calls, path)
	f.params[path] = params

	if err, ok := f.errors[path]; ok {
		return nil, err
	}
	if r, ok := f.routes[path]; ok {
		return &RawResponse{StatusCode: r.status, Body: []byte(r.body)}, nil
	}
	return &RawResponse{StatusCode: http.StatusNotFound, Body: []byte(`{"errorMessages":["Not Found"]}`)}, nil
}

func (f *fakeClient) BaseURL() string {
	return testBaseURL
}

func (f *fakeClient) called(path string) bool {
	for _, c := range f.calls {
		if c == path {
			return true
		}
	}
	return false
}

func testLogger() arbor.ILogger {
	return arbor.NewLogger()
}

func testRecord() *models.SessionRecord {
	return &models.SessionRecord{
		BaseURL:    testBaseURL,
		AuthMethod: models.AuthMethodBasic,
		Email:      "ada@acme.test",
		APIToken:   "token",
	}
}

func newTestSession(t *testing.T, client *fakeClient) *Session {
	t.Helper()
	return newSessionWithClient(testRecord(), client, 50, testLogger())
}

func okJSON(body string) fakeResponse {
	return fakeResponse{status: http.StatusOK, body: body}
}

const loginPage = `<!DOCTYPE html><html><head><title>Log in - Jira</title></head><body>login</body></html>`
