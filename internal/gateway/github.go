// Package gateway provides a gateway to the GitHub REST API for repository
// listings and traffic statistics.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/gh-insights/repo-analyzer/internal/domain"
)

// Entity types whose repositories can be enumerated.
const (
	EntityOrg  = "org"
	EntityUser = "user"
)

const (
	listingPageSize = 100

	// DefaultMaxPages bounds the listing loop against a misbehaving server
	// that never returns an empty page. 1000 pages covers 100k repositories.
	DefaultMaxPages = 1000
)

// RepoListing is one entry of the raw repository listing. The update
// timestamp is kept as the raw ISO-8601 string so that record construction
// owns its parsing.
type RepoListing struct {
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	HTMLURL         string  `json:"html_url"`
	UpdatedAt       string  `json:"updated_at"`
	StargazersCount int     `json:"stargazers_count"`
	ForksCount      int     `json:"forks_count"`
	OpenIssuesCount int     `json:"open_issues_count"`
	Archived        bool    `json:"archived"`
}

// TrafficCounts holds the summed unique visitors and cloners for one
// repository over the API's trailing traffic window (nominally 14 days).
type TrafficCounts struct {
	UniqueViews  int
	UniqueClones int
}

// Fetcher defines the behavior of a gateway for fetching repository
// information from GitHub.
type Fetcher interface {
	FetchRepositories(ctx context.Context, entityType, entityName string) ([]RepoListing, error)
	FetchTraffic(ctx context.Context, entityName, repoName string) (TrafficCounts, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient *github.Client
	logger     *log.Logger
	maxPages   int
}

// NewGitHubGateway creates a gateway. The token is optional: without one,
// requests go out unauthenticated and the traffic endpoints will typically
// respond 403, which degrades those metrics to zero rather than failing.
func NewGitHubGateway(token string, maxPages int, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	httpClient := &http.Client{Transport: rateLimitWaiter}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient.Transport = &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		}
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &GitHubGateway{
		restClient: github.NewClient(httpClient),
		logger:     logger,
		maxPages:   maxPages,
	}, nil
}

// FetchRepositories retrieves the complete repository listing for an
// organization or user, walking fixed-size pages until the first empty one.
// A non-200 response anywhere aborts the whole listing.
func (g *GitHubGateway) FetchRepositories(ctx context.Context, entityType, entityName string) ([]RepoListing, error) {
	if entityType != EntityOrg && entityType != EntityUser {
		return nil, fmt.Errorf("%w, got %q", domain.ErrInvalidEntityType, entityType)
	}

	g.logger.Printf("Fetching repository listing for %s %q...", entityType, entityName)
	var all []RepoListing
	for page := 1; ; page++ {
		if page > g.maxPages {
			return nil, fmt.Errorf("repository listing for %s %q exceeded %d pages", entityType, entityName, g.maxPages)
		}

		u := fmt.Sprintf("%ss/%s/repos?per_page=%d&page=%d", entityType, entityName, listingPageSize, page)
		req, err := g.restClient.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build listing request: %w", err)
		}

		var repos []RepoListing
		if _, err := g.restClient.Do(ctx, req, &repos); err != nil {
			var errResp *github.ErrorResponse
			if errors.As(err, &errResp) {
				return nil, &domain.ListingError{
					StatusCode: errResp.Response.StatusCode,
					Body:       errResp.Message,
				}
			}
			return nil, fmt.Errorf("failed to fetch repository listing: %w", err)
		}
		if len(repos) == 0 {
			break
		}
		all = append(all, repos...)
		g.logger.Printf("  Fetched page %d (%d repositories)", page, len(repos))
	}
	g.logger.Printf("Completed listing: %d repositories.", len(all))
	return all, nil
}

// FetchTraffic retrieves the unique view and clone counters for one
// repository. The two endpoints are independent: a non-200 on either one
// yields zero for that metric and never fails the pipeline. Only a malformed
// 200-status payload is an error.
func (g *GitHubGateway) FetchTraffic(ctx context.Context, entityName, repoName string) (TrafficCounts, error) {
	var counts TrafficCounts

	views, resp, err := g.restClient.Repositories.ListTrafficViews(ctx, entityName, repoName, nil)
	switch {
	case err == nil:
		for _, v := range views.Views {
			counts.UniqueViews += v.GetUniques()
		}
	case degradedTraffic(resp):
		g.logger.Printf("  Traffic views unavailable for %s/%s (status %d), defaulting to 0", entityName, repoName, resp.StatusCode)
	default:
		return TrafficCounts{}, &domain.ParseError{What: "traffic views for " + repoName, Err: err}
	}

	clones, resp, err := g.restClient.Repositories.ListTrafficClones(ctx, entityName, repoName, nil)
	switch {
	case err == nil:
		for _, c := range clones.Clones {
			counts.UniqueClones += c.GetUniques()
		}
	case degradedTraffic(resp):
		g.logger.Printf("  Traffic clones unavailable for %s/%s (status %d), defaulting to 0", entityName, repoName, resp.StatusCode)
	default:
		return TrafficCounts{}, &domain.ParseError{What: "traffic clones for " + repoName, Err: err}
	}

	return counts, nil
}

func degradedTraffic(resp *github.Response) bool {
	return resp != nil && resp.StatusCode != http.StatusOK
}
