// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// RepositoryRecord holds the merged metadata and traffic counters for a
// single repository. It is the core domain entity of this application.
// Records are rebuilt wholesale on every fetch cycle and never mutated.
type RepositoryRecord struct {
	Name           string    `json:"name"`
	Description    *string   `json:"description"`
	URL            string    `json:"url"`
	LastUpdated    time.Time `json:"last_updated"`
	InactivityDays int       `json:"inactivity_days"`
	Stars          int       `json:"stars"`
	Forks          int       `json:"forks"`
	OpenIssues     int       `json:"open_issues"`
	Archived       bool      `json:"archived"`
	UniqueViews    int       `json:"unique_views"`
	UniqueClones   int       `json:"unique_clones"`
}

// Bin is one contiguous sub-range of a metric's value domain, with the
// repositories whose metric value falls inside it. Members keep the input
// order of the record collection the bin was computed from.
type Bin struct {
	RangeLow  float64  `json:"range_low"`
	RangeHigh float64  `json:"range_high"`
	Label     string   `json:"label"`
	Count     int      `json:"count"`
	Members   []string `json:"members"`
}
