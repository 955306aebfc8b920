package domain

import "fmt"

// Metric selects one of the numeric fields of a RepositoryRecord, for
// filtering and distribution plotting.
type Metric string

const (
	MetricStars          Metric = "stars"
	MetricForks          Metric = "forks"
	MetricOpenIssues     Metric = "open_issues"
	MetricInactivityDays Metric = "inactivity_days"
	MetricUniqueViews    Metric = "unique_views"
	MetricUniqueClones   Metric = "unique_clones"
)

// Metrics lists every selectable metric, in presentation order.
var Metrics = []Metric{
	MetricStars,
	MetricForks,
	MetricOpenIssues,
	MetricInactivityDays,
	MetricUniqueViews,
	MetricUniqueClones,
}

// ParseMetric validates a metric name supplied by the caller.
func ParseMetric(name string) (Metric, error) {
	for _, m := range Metrics {
		if Metric(name) == m {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, name)
}

// Value extracts the metric's value from a record.
func (m Metric) Value(r RepositoryRecord) float64 {
	switch m {
	case MetricStars:
		return float64(r.Stars)
	case MetricForks:
		return float64(r.Forks)
	case MetricOpenIssues:
		return float64(r.OpenIssues)
	case MetricInactivityDays:
		return float64(r.InactivityDays)
	case MetricUniqueViews:
		return float64(r.UniqueViews)
	case MetricUniqueClones:
		return float64(r.UniqueClones)
	}
	return 0
}

// FilterByRange returns the records whose metric value lies in [lo, hi],
// both ends inclusive, preserving input order.
func FilterByRange(records []RepositoryRecord, m Metric, lo, hi float64) []RepositoryRecord {
	filtered := make([]RepositoryRecord, 0, len(records))
	for _, r := range records {
		if v := m.Value(r); lo <= v && v <= hi {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
