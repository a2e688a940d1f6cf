package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	. "aktis-reporter-jira/internal/common"
	. "aktis-reporter-jira/internal/interfaces"
	"aktis-reporter-jira/internal/models"

	"github.com/ternarybob/arbor"
)

const (
	agileBoardsPath      = "/rest/agile/1.0/board"
	greenhopperViewsPath = "/rest/greenhopper/1.0/rapidview"
	greenhopperWorkPath  = "/rest/greenhopper/1.0/xboard/work/allData/"

	searchFields = "summary,status,assignee,priority,issuetype,created,updated,components,labels"
	detailFields = "summary,description,status,assignee,priority,issuetype,created,updated,components,labels,fixVersions,comment"
	detailExpand = "changelog,renderedFields"
)

// Discovery resolves projects, boards and issues through ordered backend
// strategies. Board and issue listings never fail: an exhausted strategy list
// yields an empty slice.
type Discovery struct {
	client     JiraClient
	negotiator *Negotiator
	logger     arbor.ILogger
	maxResults int
}

func NewDiscovery(client JiraClient, negotiator *Negotiator, maxResults int, logger arbor.ILogger) *Discovery {
	if maxResults <= 0 {
		maxResults = 100
	}
	return &Discovery{
		client:     client,
		negotiator: negotiator,
		logger:     logger,
		maxResults: maxResults,
	}
}

// Projects lists every project visible to the session
func (d *Discovery) Projects(ctx context.Context) ([]models.Project, error) {
	resp, err := d.negotiator.Get(ctx, "project", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch projects: %w", err)
	}
	if err := checkStatus(resp, "project list"); err != nil {
		return nil, err
	}

	var raw []apiProject
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return nil, NewMalformedResponseError("invalid_projects", "project list has an unexpected shape").WithCause(err)
	}

	projects := make([]models.Project, 0, len(raw))
	for _, p := range raw {
		projects = append(projects, p.normalize())
	}

	d.logger.Debug().Int("count", len(projects)).Msg("Fetched projects")
	return projects, nil
}

// FindProjects matches a search term against project names and keys, case-insensitively
func FindProjects(projects []models.Project, term string) []models.Project {
	term = strings.ToLower(strings.TrimSpace(term))
	var matches []models.Project
	for _, p := range projects {
		if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Key), term) {
			matches = append(matches, p)
		}
	}
	return matches
}

// SelectProjectsByKey picks projects by key and reports keys with no match
func SelectProjectsByKey(projects []models.Project, keys []string) ([]models.Project, []string) {
	byKey := make(map[string]models.Project, len(projects))
	for _, p := range projects {
		byKey[strings.ToUpper(p.Key)] = p
	}

	var selected []models.Project
	var missing []string
	for _, key := range keys {
		if p, ok := byKey[strings.ToUpper(strings.TrimSpace(key))]; ok {
			selected = append(selected, p)
		} else {
			missing = append(missing, key)
		}
	}
	return selected, missing
}

// Boards tries the agile API, then GreenHopper rapid views, and only when both
// come back empty synthesizes one project-proxy board per selected project.
func (d *Discovery) Boards(ctx context.Context, selected []models.Project) []models.Board {
	boards, err := d.agileBoards(ctx)
	if err != nil {
		d.logger.Warn().Err(err).Msg("Agile API board listing failed, trying GreenHopper")
	} else if len(boards) > 0 {
		d.logger.Info().Int("count", len(boards)).Msg("Found boards via Agile API")
		return boards
	}

	boards, err = d.rapidViewBoards(ctx)
	if err != nil {
		d.logger.Warn().Err(err).Msg("GreenHopper rapid view listing failed")
	} else if len(boards) > 0 {
		d.logger.Info().Int("count", len(boards)).Msg("Found boards via GreenHopper API")
		return boards
	}

	proxies := make([]models.Board, 0, len(selected))
	for _, project := range selected {
		proxies = append(proxies, models.NewProxyBoard(project))
	}
	if len(proxies) > 0 {
		d.logger.Info().Int("count", len(proxies)).Msg("No boards found via APIs, using project views")
	}
	return proxies
}

func (d *Discovery) agileBoards(ctx context.Context) ([]models.Board, error) {
	resp, err := d.client.Get(ctx, agileBoardsPath, map[string]string{
		"maxResults": strconv.Itoa(d.maxResults),
	})
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp, "agile board list"); err != nil {
		return nil, err
	}

	var page agileBoardPage
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, NewMalformedResponseError("invalid_boards", "agile board list has an unexpected shape").WithCause(err)
	}

	boards := make([]models.Board, 0, len(page.Values))
	for _, b := range page.Values {
		boards = append(boards, b.normalize())
	}
	return boards, nil
}

func (d *Discovery) rapidViewBoards(ctx context.Context) ([]models.Board, error) {
	resp, err := d.client.Get(ctx, greenhopperViewsPath, nil)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp, "rapid view list"); err != nil {
		return nil, err
	}

	var list rapidViewList
	if err := json.Unmarshal(resp.Body, &list); err != nil {
		return nil, NewMalformedResponseError("invalid_rapid_views", "rapid view list has an unexpected shape").WithCause(err)
	}

	boards := make([]models.Board, 0, len(list.Views))
	for _, v := range list.Views {
		boards = append(boards, v.normalize())
	}
	return boards, nil
}

// FilterBoardsByProjects keeps boards owned by one of the given project keys.
// With no keys every board is kept. An empty result is returned as is.
func FilterBoardsByProjects(boards []models.Board, keys []string) []models.Board {
	if len(keys) == 0 {
		return boards
	}

	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}

	filtered := make([]models.Board, 0, len(boards))
	for _, b := range boards {
		if wanted[b.ProjectKey] {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

// GetBoard looks a board up by id on the agile API, then on GreenHopper
func (d *Discovery) GetBoard(ctx context.Context, id string) (*models.Board, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, NewConfigurationError("empty_board_id", "board id is required")
	}

	if key, ok := models.BoardID(id).ProxyProjectKey(); ok {
		board := models.NewProxyBoard(models.Project{Key: key, Name: key})
		return &board, nil
	}

	escaped := url.PathEscape(id)
	notFound := false
	var lastErr error

	resp, err := d.client.Get(ctx, agileBoardsPath+"/"+escaped, nil)
	if err == nil {
		if err = checkStatus(resp, "agile board "+id); err == nil {
			var b agileBoard
			if err = json.Unmarshal(resp.Body, &b); err == nil {
				board := b.normalize()
				return &board, nil
			}
			err = WrapError(err, ErrorTypeMalformedResponse, "invalid_board", "agile board response has an unexpected shape")
		}
		notFound = notFound || IsErrorType(err, ErrorTypeNotFound)
	}
	d.logger.Debug().Err(err).Str("board", id).Msg("Agile board lookup failed")
	lastErr = err

	resp, err = d.client.Get(ctx, greenhopperViewsPath+"/"+escaped, nil)
	if err == nil {
		if err = checkStatus(resp, "rapid view "+id); err == nil {
			var v rapidView
			if err = json.Unmarshal(resp.Body, &v); err == nil {
				board := v.normalize()
				return &board, nil
			}
			err = WrapError(err, ErrorTypeMalformedResponse, "invalid_board", "rapid view response has an unexpected shape")
		}
		notFound = notFound || IsErrorType(err, ErrorTypeNotFound)
	}
	d.logger.Debug().Err(err).Str("board", id).Msg("GreenHopper board lookup failed")
	lastErr = err

	// 404 on any tier means the id is unknown; otherwise surface why lookups failed
	if notFound {
		return nil, NewNotFoundError("board_not_found", fmt.Sprintf("board %s was not found", id)).WithContext("board_id", id)
	}
	return nil, lastErr
}

// BoardIssues lists a board's issues: agile board issues, then GreenHopper
// work data, then a plain project search on the owning project. Proxy boards
// go straight to the project search.
func (d *Discovery) BoardIssues(ctx context.Context, board models.Board) []models.Issue {
	if !board.IsProxy() {
		issues, err := d.agileBoardIssues(ctx, board.ID)
		if err == nil {
			d.logger.Info().Str("board", board.ID.String()).Int("count", len(issues)).Msg("Found issues via Agile API")
			return issues
		}
		d.logger.Warn().Err(err).Str("board", board.ID.String()).Msg("Agile API failed for board issues")

		issues, err = d.legacyBoardIssues(ctx, board.ID)
		if err == nil {
			d.logger.Info().Str("board", board.ID.String()).Int("count", len(issues)).Msg("Found issues via GreenHopper API")
			return issues
		}
		d.logger.Warn().Err(err).Str("board", board.ID.String()).Msg("GreenHopper API failed for board issues")
	}

	projectKey := d.owningProject(ctx, board)
	if projectKey == "" {
		d.logger.Warn().Str("board", board.ID.String()).Msg("No owning project for board, no issues found")
		return []models.Issue{}
	}

	d.logger.Info().Str("board", board.ID.String()).Str("project", projectKey).Msg("Falling back to project issues")
	issues, err := d.ProjectIssues(ctx, projectKey, d.maxResults)
	if err != nil {
		d.logger.Warn().Err(err).Str("project", projectKey).Msg("Project search failed")
		return []models.Issue{}
	}
	return issues
}

func (d *Discovery) owningProject(ctx context.Context, board models.Board) string {
	if board.HasProject() {
		return board.ProjectKey
	}
	if key, ok := board.ID.ProxyProjectKey(); ok {
		return key
	}

	resolved, err := d.GetBoard(ctx, board.ID.String())
	if err != nil || !resolved.HasProject() {
		return ""
	}
	return resolved.ProjectKey
}

func (d *Discovery) agileBoardIssues(ctx context.Context, id models.BoardID) ([]models.Issue, error) {
	path := fmt.Sprintf("%s/%s/issue", agileBoardsPath, url.PathEscape(id.String()))
	resp, err := d.client.Get(ctx, path, map[string]string{
		"maxResults": strconv.Itoa(d.maxResults),
	})
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp, "agile board issues"); err != nil {
		return nil, err
	}

	var page issuePage
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, NewMalformedResponseError("invalid_board_issues", "agile board issues have an unexpected shape").WithCause(err)
	}
	return normalizeIssues(page.Issues), nil
}

func (d *Discovery) legacyBoardIssues(ctx context.Context, id models.BoardID) ([]models.Issue, error) {
	resp, err := d.client.Get(ctx, greenhopperWorkPath, map[string]string{
		"rapidViewId": id.String(),
	})
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp, "board work data"); err != nil {
		return nil, err
	}

	var data boardWorkData
	if err := json.Unmarshal(resp.Body, &data); err != nil {
		return nil, NewMalformedResponseError("invalid_work_data", "board work data has an unexpected shape").WithCause(err)
	}

	raw := make([]apiIssue, 0, len(data.IssuesData.Issues))
	for _, legacy := range data.IssuesData.Issues {
		raw = append(raw, legacy.toAPIIssue())
	}
	return normalizeIssues(raw), nil
}

// ProjectIssues runs `project = KEY ORDER BY updated DESC`. Cloud answers 410
// on the retired search endpoint; that is retried on /search/jql.
func (d *Discovery) ProjectIssues(ctx context.Context, projectKey string, maxResults int) ([]models.Issue, error) {
	if maxResults <= 0 {
		maxResults = d.maxResults
	}

	params := map[string]string{
		"jql":        fmt.Sprintf("project = %s ORDER BY updated DESC", projectKey),
		"fields":     searchFields,
		"maxResults": strconv.Itoa(maxResults),
	}

	resp, err := d.negotiator.Get(ctx, "search", params)
	if err != nil {
		return nil, fmt.Errorf("failed to search issues for %s: %w", projectKey, err)
	}

	if resp.StatusCode == http.StatusGone {
		d.logger.Debug().Str("project", projectKey).Msg("Search endpoint retired, retrying on search/jql")
		resp, err = d.client.Get(ctx, models.FamilyCloud.APIPath("search/jql"), params)
		if err != nil {
			return nil, fmt.Errorf("failed to search issues for %s: %w", projectKey, err)
		}
	}

	if err := checkStatus(resp, "issue search"); err != nil {
		return nil, err
	}

	var page issuePage
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, NewMalformedResponseError("invalid_search", "issue search has an unexpected shape").WithCause(err)
	}
	return normalizeIssues(page.Issues), nil
}

// IssueDetail fetches one issue with rendered fields and comments
func (d *Discovery) IssueDetail(ctx context.Context, key string) (*models.Issue, error) {
	resp, err := d.negotiator.Get(ctx, "issue/"+url.PathEscape(key), map[string]string{
		"expand": detailExpand,
		"fields": detailFields,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch details for %s: %w", key, err)
	}
	if err := checkStatus(resp, "issue "+key); err != nil {
		return nil, err
	}

	var raw apiIssue
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return nil, NewMalformedResponseError("invalid_issue", "issue detail has an unexpected shape").WithCause(err)
	}

	issue := raw.normalize()
	return &issue, nil
}

func normalizeIssues(raw []apiIssue) []models.Issue {
	issues := make([]models.Issue, 0, len(raw))
	for _, r := range raw {
		issues = append(issues, r.normalize())
	}
	return issues
}

var _ DetailFetcher = (*Discovery)(nil)
