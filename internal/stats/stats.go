// Package stats aggregates load samples into a summary.
package stats

import (
	"math"
	"sort"

	"siteprobe/internal/model"
)

// BucketWidth is the histogram bucket width in seconds.
const BucketWidth = 0.1

// Summarize computes counts, mean, p95 and a latency histogram.
// Success means HTTP 200; avg and p95 are nil when no sample was timed.
func Summarize(samples []model.LoadSample) model.LoadSummary {
	summary := model.LoadSummary{
		Total:     len(samples),
		Histogram: []model.HistogramBucket{},
	}

	times := make([]float64, 0, len(samples))
	for _, sample := range samples {
		if sample.Status.IsOK() {
			summary.Success++
		}

		if sample.ElapsedSeconds != nil {
			times = append(times, *sample.ElapsedSeconds)
		}
	}

	summary.Failures = summary.Total - summary.Success

	if len(times) == 0 {
		return summary
	}

	sum := 0.0
	for _, t := range times {
		sum += t
	}

	summary.AvgSeconds = model.Float(Round3(sum / float64(len(times))))

	sorted := append([]float64(nil), times...)
	sort.Float64s(sorted)
	summary.P95Seconds = model.Float(sorted[percentileIndex(len(sorted), 0.95)])

	summary.Histogram = histogram(times)

	return summary
}

// percentileIndex is floor(p*(n-1)), the nearest-rank index without interpolation.
func percentileIndex(n int, p float64) int {
	return int(p * float64(n-1))
}

// Bucket floors t to the enclosing 0.1s bucket.
func Bucket(t float64) float64 {
	return float64(int(t*10)) / 10
}

func histogram(times []float64) []model.HistogramBucket {
	counts := map[float64]int{}
	for _, t := range times {
		counts[Bucket(t)]++
	}

	buckets := make([]model.HistogramBucket, 0, len(counts))
	for bucket, count := range counts {
		buckets = append(buckets, model.HistogramBucket{Bucket: bucket, Count: count})
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Bucket < buckets[j].Bucket
	})

	return buckets
}

// Round3 rounds v to three decimals, halves away from zero.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
