package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gh-insights/repo-analyzer/internal/domain"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) (*GitHubGateway, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	// Point the REST client at the mock server.
	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	gateway := &GitHubGateway{
		restClient: restClient,
		logger:     log.New(io.Discard, "", 0),
		maxPages:   DefaultMaxPages,
	}
	return gateway, server
}

func TestGitHubGateway_FetchRepositories_Pagination(t *testing.T) {
	// Three pages: two entries, one entry, then the empty page that
	// terminates the loop. Exactly three requests must go out.
	pages := map[string]string{
		"1": `[{"name":"repo-a","html_url":"https://github.com/acme/repo-a","updated_at":"2024-11-20T10:00:00Z","stargazers_count":10},
		      {"name":"repo-b","description":"a tool","html_url":"https://github.com/acme/repo-b","updated_at":"2024-11-21T10:00:00Z","forks_count":3}]`,
		"2": `[{"name":"repo-c","html_url":"https://github.com/acme/repo-c","updated_at":"2024-11-22T10:00:00Z","archived":true}]`,
		"3": `[]`,
	}
	var requests []string
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orgs/acme/repos", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		page := r.URL.Query().Get("page")
		requests = append(requests, page)
		body, ok := pages[page]
		require.True(t, ok, "unexpected page %s requested", page)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, body)
	}
	gateway, _ := setupTestGateway(t, http.HandlerFunc(handler))

	repos, err := gateway.FetchRepositories(context.Background(), EntityOrg, "acme")

	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, requests)
	require.Len(t, repos, 3)
	assert.Equal(t, "repo-a", repos[0].Name)
	assert.Equal(t, "repo-b", repos[1].Name)
	assert.Equal(t, "repo-c", repos[2].Name)
	assert.Nil(t, repos[0].Description)
	require.NotNil(t, repos[1].Description)
	assert.Equal(t, "a tool", *repos[1].Description)
	assert.True(t, repos[2].Archived)
}

func TestGitHubGateway_FetchRepositories_InvalidEntityType(t *testing.T) {
	// No request may be issued for an unrecognized entity type.
	called := false
	handler := func(w http.ResponseWriter, r *http.Request) {
		called = true
	}
	gateway, _ := setupTestGateway(t, http.HandlerFunc(handler))

	repos, err := gateway.FetchRepositories(context.Background(), "team", "acme")

	assert.ErrorIs(t, err, domain.ErrInvalidEntityType)
	assert.Nil(t, repos)
	assert.False(t, called, "no network call expected for an invalid entity type")
}

func TestGitHubGateway_FetchRepositories_ListingError(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	}
	gateway, _ := setupTestGateway(t, http.HandlerFunc(handler))

	repos, err := gateway.FetchRepositories(context.Background(), EntityUser, "ghost")

	require.Error(t, err)
	assert.Nil(t, repos)
	var listingErr *domain.ListingError
	require.ErrorAs(t, err, &listingErr)
	assert.Equal(t, http.StatusNotFound, listingErr.StatusCode)
	assert.Equal(t, "Not Found", listingErr.Body)
}

func TestGitHubGateway_FetchRepositories_MaxPagesGuard(t *testing.T) {
	// A server that never returns an empty page must not be paged forever.
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `[{"name":"evergreen","html_url":"u","updated_at":"2024-11-20T10:00:00Z"}]`)
	}
	gateway, _ := setupTestGateway(t, http.HandlerFunc(handler))
	gateway.maxPages = 3

	repos, err := gateway.FetchRepositories(context.Background(), EntityOrg, "acme")

	require.Error(t, err)
	assert.Nil(t, repos)
	assert.Contains(t, err.Error(), "exceeded 3 pages")
}

func TestGitHubGateway_FetchTraffic(t *testing.T) {
	testCases := []struct {
		name           string
		viewsStatus    int
		viewsBody      string
		clonesStatus   int
		clonesBody     string
		expected       TrafficCounts
		expectParseErr bool
	}{
		{
			name:         "both endpoints available - sums daily uniques",
			viewsStatus:  http.StatusOK,
			viewsBody:    `{"count":20,"uniques":8,"views":[{"uniques":3},{"uniques":5}]}`,
			clonesStatus: http.StatusOK,
			clonesBody:   `{"count":4,"uniques":2,"clones":[{"uniques":1},{"uniques":1}]}`,
			expected:     TrafficCounts{UniqueViews: 8, UniqueClones: 2},
		},
		{
			name:         "clones forbidden - degrades clones to zero",
			viewsStatus:  http.StatusOK,
			viewsBody:    `{"views":[{"uniques":3},{"uniques":5}]}`,
			clonesStatus: http.StatusNotFound,
			clonesBody:   `{"message": "Not Found"}`,
			expected:     TrafficCounts{UniqueViews: 8, UniqueClones: 0},
		},
		{
			name:         "both unavailable - degrades both to zero",
			viewsStatus:  http.StatusForbidden,
			viewsBody:    `{"message": "Must have push access"}`,
			clonesStatus: http.StatusForbidden,
			clonesBody:   `{"message": "Must have push access"}`,
			expected:     TrafficCounts{},
		},
		{
			name:           "malformed 200 payload - parse error",
			viewsStatus:    http.StatusOK,
			viewsBody:      `{"views": "not-a-list"}`,
			clonesStatus:   http.StatusOK,
			clonesBody:     `{"clones":[]}`,
			expectParseErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/repos/acme/repo-a/traffic/views":
					w.WriteHeader(tc.viewsStatus)
					fmt.Fprint(w, tc.viewsBody)
				case "/repos/acme/repo-a/traffic/clones":
					w.WriteHeader(tc.clonesStatus)
					fmt.Fprint(w, tc.clonesBody)
				default:
					t.Errorf("unexpected request path %s", r.URL.Path)
				}
			}
			gateway, _ := setupTestGateway(t, http.HandlerFunc(handler))

			counts, err := gateway.FetchTraffic(context.Background(), "acme", "repo-a")

			if tc.expectParseErr {
				var parseErr *domain.ParseError
				assert.True(t, errors.As(err, &parseErr), "expected a ParseError, got %v", err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expected, counts)
			}
		})
	}
}
