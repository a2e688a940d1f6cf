package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	. "aktis-reporter-jira/internal/common"
	. "aktis-reporter-jira/internal/interfaces"
	"aktis-reporter-jira/internal/models"

	"github.com/ternarybob/arbor"
)

// Identity is the authenticated user returned by the myself endpoint
type Identity struct {
	DisplayName string        `json:"displayName"`
	AccountID   string        `json:"accountId,omitempty"`
	Name        string        `json:"name,omitempty"`
	Email       string        `json:"emailAddress,omitempty"`
	Family      models.Family `json:"-"`
}

// Negotiator binds the session to one REST API family and builds
// family-relative paths. Fallback to the other family is triggered only by a
// 404 or by a 200 carrying an HTML page; every other status is returned as is.
type Negotiator struct {
	client JiraClient
	logger arbor.ILogger

	mu     sync.RWMutex
	family models.Family
}

// NewNegotiator starts from a previously bound family, or FamilyUnknown
func NewNegotiator(client JiraClient, bound models.Family, logger arbor.ILogger) *Negotiator {
	return &Negotiator{
		client: client,
		logger: logger,
		family: bound,
	}
}

func (n *Negotiator) Family() models.Family {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.family
}

func (n *Negotiator) bind(family models.Family) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.family != family {
		n.logger.Info().Str("family", string(family)).Msg("Bound Jira API family")
	}
	n.family = family
}

// Probe calls the identity endpoint on the modern family and falls back to the
// legacy one. Auth and transport failures are never retried.
func (n *Negotiator) Probe(ctx context.Context) (*Identity, error) {
	family := models.FamilyCloud

	resp, err := n.client.Get(ctx, family.APIPath("myself"), nil)
	if err != nil {
		return nil, err
	}

	if needsFallback(resp) {
		n.logger.Info().
			Int("status", resp.StatusCode).
			Str("page_title", PageTitle(resp.Body)).
			Msg("API v3 not found, trying API v2")

		family = models.FamilyServer
		resp, err = n.client.Get(ctx, family.APIPath("myself"), nil)
		if err != nil {
			return nil, err
		}
	}

	if err := checkStatus(resp, "identity probe"); err != nil {
		return nil, err
	}

	var identity Identity
	if err := json.Unmarshal(resp.Body, &identity); err != nil {
		return nil, NewMalformedResponseError("invalid_identity", "identity response has an unexpected shape").WithCause(err)
	}
	if identity.DisplayName == "" {
		identity.DisplayName = "Unknown User"
	}

	n.bind(family)
	identity.Family = family
	return &identity, nil
}

// Get fetches /rest/api/{n}/{resource} on the bound family. A 404 or HTML
// reply triggers one inline retry on the other family, which becomes the
// bound family if it answers with JSON.
func (n *Negotiator) Get(ctx context.Context, resource string, params map[string]string) (*RawResponse, error) {
	family := n.Family()
	if family == models.FamilyUnknown {
		family = models.FamilyCloud
	}

	resp, err := n.client.Get(ctx, family.APIPath(resource), params)
	if err != nil {
		return nil, err
	}

	if !needsFallback(resp) {
		if resp.StatusCode == http.StatusOK && n.Family() == models.FamilyUnknown {
			n.bind(family)
		}
		return resp, nil
	}

	alternate := family.Alternate()
	n.logger.Info().
		Str("resource", resource).
		Int("status", resp.StatusCode).
		Str("from", string(family)).
		Str("to", string(alternate)).
		Msg("API family mismatch, retrying on alternate family")

	altResp, err := n.client.Get(ctx, alternate.APIPath(resource), params)
	if err != nil {
		return nil, err
	}

	if altResp.StatusCode == http.StatusOK && !LooksLikeMarkup(altResp.Body) {
		n.bind(alternate)
	}
	return altResp, nil
}

func needsFallback(resp *RawResponse) bool {
	if resp.StatusCode == http.StatusNotFound {
		return true
	}
	return resp.StatusCode == http.StatusOK && LooksLikeMarkup(resp.Body)
}

// checkStatus maps a reply onto the error taxonomy; nil means a 200 JSON body
func checkStatus(resp *RawResponse, what string) error {
	switch resp.StatusCode {
	case http.StatusOK:
		if json.Valid(resp.Body) {
			return nil
		}
		if LooksLikeMarkup(resp.Body) {
			return NewMalformedResponseError("html_response", fmt.Sprintf("%s returned an HTML page instead of JSON", what)).
				WithDetails(PageTitle(resp.Body))
		}
		return NewMalformedResponseError("invalid_json", fmt.Sprintf("%s returned a body that is not JSON", what))

	case http.StatusUnauthorized:
		return NewAuthError("unauthorized", fmt.Sprintf("%s was rejected, check email and API token", what)).
			WithContext("status", resp.StatusCode)

	case http.StatusForbidden:
		return NewAuthError("forbidden", fmt.Sprintf("%s is forbidden for this account", what)).
			WithContext("status", resp.StatusCode)

	case http.StatusNotFound:
		return NewNotFoundError("not_found", fmt.Sprintf("%s was not found", what)).
			WithContext("status", resp.StatusCode)

	default:
		return NewConnectivityError("unexpected_status", fmt.Sprintf("%s returned HTTP %d", what, resp.StatusCode)).
			WithContext("status", resp.StatusCode)
	}
}
