package report

import (
	"sort"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Granularity is the bucket width of a period time series
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// IsValid checks if the granularity is valid
func (g Granularity) IsValid() bool {
	return g == GranularityDaily || g == GranularityWeekly || g == GranularityMonthly
}

// ParseGranularity converts a query string value to a Granularity,
// defaulting to monthly.
func ParseGranularity(s string) (Granularity, error) {
	if s == "" {
		return GranularityMonthly, nil
	}
	g := Granularity(s)
	if !g.IsValid() {
		return "", shared.NewDomainError("VALIDATION_ERROR", "period must be daily, weekly, or monthly")
	}
	return g, nil
}

// TruncatePeriod snaps a timestamp to the start of its period in the
// timestamp's location. Weekly periods start on Monday.
func TruncatePeriod(t time.Time, g Granularity) time.Time {
	switch g {
	case GranularityDaily:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case GranularityWeekly:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	default:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	}
}

// PeriodKey formats the truncated period as a stable, sortable label:
// 2026-08-28 for daily and weekly, 2026-08 for monthly.
func PeriodKey(t time.Time, g Granularity) string {
	p := TruncatePeriod(t, g)
	if g == GranularityMonthly {
		return p.Format("2006-01")
	}
	return p.Format("2006-01-02")
}

// Series maps period keys to summed amounts for one source
type Series map[string]decimal.Decimal

// Accumulate adds an amount into the period the timestamp falls into
func (s Series) Accumulate(t time.Time, g Granularity, amount decimal.Decimal) {
	key := PeriodKey(t, g)
	s[key] = s[key].Add(amount)
}

// MergedSeries is the chart-ready result of merging several sources onto
// one period axis. Values[i] is index-aligned with Labels for every source.
type MergedSeries struct {
	Labels []string                     `json:"labels"`
	Values map[string][]decimal.Decimal `json:"values"`
}

// MergeSeries outer-joins any number of named sources on their period keys.
// The label axis is the sorted union of every source's periods; a source
// with no data for a period contributes zero rather than a gap. Because the
// keys sort lexicographically as chronologically, the axis needs no date
// parsing.
func MergeSeries(sources map[string]Series) MergedSeries {
	keySet := make(map[string]struct{})
	for _, src := range sources {
		for key := range src {
			keySet[key] = struct{}{}
		}
	}

	labels := make([]string, 0, len(keySet))
	for key := range keySet {
		labels = append(labels, key)
	}
	sort.Strings(labels)

	values := make(map[string][]decimal.Decimal, len(sources))
	for name, src := range sources {
		column := make([]decimal.Decimal, len(labels))
		for i, label := range labels {
			if v, ok := src[label]; ok {
				column[i] = v
			} else {
				column[i] = decimal.Zero
			}
		}
		values[name] = column
	}

	return MergedSeries{Labels: labels, Values: values}
}
