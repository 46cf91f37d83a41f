package advice

import (
	"strconv"

	"siteprobe/internal/model"
	"siteprobe/internal/stats"
)

// curveHeadroom is how many servers past the estimate the scale curve extends.
const curveHeadroom = 4

// Issues sums findings per category over all records.
func Issues(records []model.PageAudit) model.IssueCounts {
	var counts model.IssueCounts
	for _, record := range records {
		counts.Security += len(record.Security)
		counts.SEO += len(record.SEO)
		counts.Accessibility += len(record.Accessibility)
	}

	counts.Total = counts.Security + counts.SEO + counts.Accessibility

	return counts
}

// PageLoadSeries returns the load time of each record in crawl order, 0 for failed fetches.
func PageLoadSeries(records []model.PageAudit) []float64 {
	series := make([]float64, 0, len(records))
	for _, record := range records {
		if record.LoadTimeSeconds == nil {
			series = append(series, 0)
			continue
		}

		series = append(series, *record.LoadTimeSeconds)
	}

	return series
}

// PageLabels returns the 1-based labels matching PageLoadSeries.
func PageLabels(records []model.PageAudit) []string {
	labels := make([]string, 0, len(records))
	for i := range records {
		labels = append(labels, strconv.Itoa(i+1))
	}

	return labels
}

// ScaleCurve projects the mean latency for 1..servers+4 instances under linear scaling.
// A nil average is treated as zero.
func ScaleCurve(avg *float64, servers int) []float64 {
	base := 0.0
	if avg != nil {
		base = *avg
	}

	points := max(1, servers+curveHeadroom)
	curve := make([]float64, 0, points)
	for s := 1; s <= points; s++ {
		curve = append(curve, stats.Round3(base/float64(s)))
	}

	return curve
}
