package usecase

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/gh-insights/repo-analyzer/internal/domain"
)

// maxBins caps the histogram resolution.
const maxBins = 15

// ComputeBins computes the value distribution of a metric over a record
// collection as contiguous, right-closed bins in ascending order.
//
// The bin count is min(hi-lo+1, 15), collapsing to a single bin when every
// value is equal. Edges are equal-width over [lo, hi] inclusive. A value is
// assigned to the bin whose interval (edge_i, edge_i+1] contains it; the
// value equal to lo goes to the first bin, and ties at an internal edge go
// to the lower-indexed bin. Member names keep the input order.
func ComputeBins(records []domain.RepositoryRecord, metric domain.Metric) ([]domain.Bin, error) {
	if len(records) == 0 {
		return nil, domain.ErrNoRecords
	}

	values := make(stats.Float64Data, len(records))
	for i, r := range records {
		values[i] = metric.Value(r)
	}
	lo, err := stats.Min(values)
	if err != nil {
		return nil, err
	}
	hi, err := stats.Max(values)
	if err != nil {
		return nil, err
	}

	k := int(hi-lo) + 1
	if k > maxBins {
		k = maxBins
	}
	if hi == lo {
		k = 1
	}

	edges := make([]float64, k+1)
	for i := range edges {
		edges[i] = lo + (hi-lo)*float64(i)/float64(k)
	}
	edges[k] = hi

	bins := make([]domain.Bin, k)
	for i := range bins {
		bins[i] = domain.Bin{
			RangeLow:  edges[i],
			RangeHigh: edges[i+1],
			Label:     fmt.Sprintf("%.2f - %.2f", edges[i], edges[i+1]),
		}
	}

	for vi, r := range records {
		v := values[vi]
		for i := range bins {
			// First bin whose upper edge covers the value; the last bin
			// absorbs hi even if float rounding nudged an edge below it.
			if v <= edges[i+1] || i == k-1 {
				bins[i].Count++
				bins[i].Members = append(bins[i].Members, r.Name)
				break
			}
		}
	}

	return bins, nil
}
