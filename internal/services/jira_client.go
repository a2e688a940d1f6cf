package services

import (
	"context"
	"time"

	. "aktis-reporter-jira/internal/common"
	. "aktis-reporter-jira/internal/interfaces"
	"aktis-reporter-jira/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

type jiraClient struct {
	client  *resty.Client
	baseURL string
	limiter *rate.Limiter
	logger  arbor.ILogger
}

// NewJiraClient builds the authenticated adapter for one session. Auth is
// either Basic (email + API token) or Bearer (personal access token).
func NewJiraClient(session *models.SessionRecord, config *JiraConfig, logger arbor.ILogger) (JiraClient, error) {
	if err := session.Validate(); err != nil {
		return nil, NewConfigurationError("invalid_session", "session record is incomplete").WithCause(err)
	}

	baseURL := NormalizeBaseURL(session.BaseURL)

	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")

	if config.TimeoutSeconds > 0 {
		client.SetTimeout(time.Duration(config.TimeoutSeconds) * time.Second)
	}

	switch session.AuthMethod {
	case models.AuthMethodToken:
		client.SetAuthToken(session.PersonalToken)
	default:
		client.SetBasicAuth(session.Email, session.APIToken)
	}

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}

	if !IsCloudHost(baseURL) {
		logger.Debug().Str("base_url", baseURL).Msg("Base URL is not an Atlassian Cloud host, expecting Server/Data Center")
	}

	return &jiraClient{
		client:  client,
		baseURL: baseURL,
		limiter: limiter,
		logger:  logger,
	}, nil
}

func (jc *jiraClient) BaseURL() string {
	return jc.baseURL
}

// Get performs one GET. Only transport failures are errors; every HTTP status
// comes back as a RawResponse.
func (jc *jiraClient) Get(ctx context.Context, path string, params map[string]string) (*RawResponse, error) {
	if jc.limiter != nil {
		if err := jc.limiter.Wait(ctx); err != nil {
			return nil, NewConnectivityError("rate_wait", "request cancelled while waiting for rate limiter").WithCause(err)
		}
	}

	req := jc.client.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	start := time.Now()
	resp, err := req.Get(path)
	if err != nil {
		jc.logger.Warn().Err(err).Str("path", path).Msg("Jira request failed")
		return nil, NewConnectivityError("request_failed", "request to Jira failed").
			WithDetails(path).
			WithContext("base_url", jc.baseURL).
			WithCause(err)
	}

	jc.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("Jira request")

	return &RawResponse{
		StatusCode:  resp.StatusCode(),
		ContentType: resp.Header().Get("Content-Type"),
		Body:        resp.Body(),
	}, nil
}
