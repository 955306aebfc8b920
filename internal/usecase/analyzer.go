// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gh-insights/repo-analyzer/internal/domain"
	"github.com/gh-insights/repo-analyzer/internal/gateway"
)

// DefaultTrafficConcurrency bounds the traffic fan-out. Each repository
// costs two requests, so this keeps at most ten outstanding against the
// API's secondary rate limits.
const DefaultTrafficConcurrency = 5

// Analyzer is the use case for building the repository record collection.
// It orchestrates the listing fetch, the per-repository traffic fan-out,
// and record assembly.
type Analyzer struct {
	fetcher     gateway.Fetcher
	logger      *log.Logger
	concurrency int
	now         func() time.Time
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer(fetcher gateway.Fetcher, concurrency int, logger *log.Logger) *Analyzer {
	if concurrency <= 0 {
		concurrency = DefaultTrafficConcurrency
	}
	return &Analyzer{
		fetcher:     fetcher,
		logger:      logger,
		concurrency: concurrency,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Analyze performs the main business logic: it fetches the full repository
// listing for the entity, fans out traffic retrieval per repository, and
// merges both into a fresh record collection in listing order.
//
// A listing failure or a malformed payload aborts the run; unavailable
// traffic data does not (the gateway degrades it to zero counts).
func (a *Analyzer) Analyze(ctx context.Context, entityType, entityName string) ([]domain.RepositoryRecord, error) {
	a.logger.Println("Usecase: Starting repository analysis...")

	listings, err := a.fetcher.FetchRepositories(ctx, entityType, entityName)
	if err != nil {
		return nil, err
	}

	// Fan out traffic retrieval with bounded concurrency, joined back by
	// repository name so result order never depends on completion order.
	traffic := make(map[string]gateway.TrafficCounts, len(listings))
	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.concurrency)
	for _, listing := range listings {
		listing := listing
		eg.Go(func() error {
			counts, err := a.fetcher.FetchTraffic(egCtx, entityName, listing.Name)
			if err != nil {
				return err
			}
			mu.Lock()
			traffic[listing.Name] = counts
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	a.logger.Println("Usecase: Traffic data fetched for all repositories.")

	now := a.now()
	records := make([]domain.RepositoryRecord, 0, len(listings))
	for _, listing := range listings {
		record, err := buildRecord(listing, traffic[listing.Name], now)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	a.logger.Printf("Usecase: Analysis complete, %d records built.", len(records))
	return records, nil
}

// buildRecord merges one raw listing entry with its traffic counters into a
// RepositoryRecord. It is pure: same inputs always produce the same record.
func buildRecord(listing gateway.RepoListing, traffic gateway.TrafficCounts, now time.Time) (domain.RepositoryRecord, error) {
	lastUpdated, err := time.Parse(time.RFC3339, listing.UpdatedAt)
	if err != nil {
		return domain.RepositoryRecord{}, &domain.ParseError{
			What: "updated_at timestamp of " + listing.Name,
			Err:  err,
		}
	}

	// Whole days, truncated toward zero. LastUpdated is in the past for
	// real data; clamp anyway so clock skew cannot produce a negative.
	inactivityDays := int(now.Sub(lastUpdated).Hours() / 24)
	if inactivityDays < 0 {
		inactivityDays = 0
	}

	return domain.RepositoryRecord{
		Name:           listing.Name,
		Description:    listing.Description,
		URL:            listing.HTMLURL,
		LastUpdated:    lastUpdated,
		InactivityDays: inactivityDays,
		Stars:          listing.StargazersCount,
		Forks:          listing.ForksCount,
		OpenIssues:     listing.OpenIssuesCount,
		Archived:       listing.Archived,
		UniqueViews:    traffic.UniqueViews,
		UniqueClones:   traffic.UniqueClones,
	}, nil
}
