package domain

import (
	"errors"
	"fmt"
)

// Domain errors surfaced by the fetch pipeline and the binner.
var (
	// ErrInvalidEntityType is returned before any network I/O when the
	// requested entity type is neither "org" nor "user".
	ErrInvalidEntityType = errors.New(`entity type must be "org" or "user"`)

	// ErrNoRecords is returned when a histogram is requested over an empty
	// record collection.
	ErrNoRecords = errors.New("no records to compute a distribution over")

	// ErrUnknownMetric is returned when a metric name does not match any
	// numeric record field.
	ErrUnknownMetric = errors.New("unknown metric")
)

// ListingError reports a non-200 response while paging the repository
// listing. It is fatal to the whole fetch; no partial listing is returned.
type ListingError struct {
	StatusCode int
	Body       string
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("repository listing failed with status %d: %s", e.StatusCode, e.Body)
}

// ParseError reports a malformed value inside an otherwise successful
// response: an unparseable timestamp, or a traffic payload that decodes
// badly despite a 200 status.
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.What, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
