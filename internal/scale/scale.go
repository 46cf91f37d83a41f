// Package scale estimates how many instances would bring mean latency under a target.
package scale

import (
	"math"

	"siteprobe/internal/model"
	"siteprobe/internal/stats"
)

// DefaultTargetSeconds is the mean latency the estimate aims for.
const DefaultTargetSeconds = 1.5

// Estimate assumes latency divides linearly across servers and that every request
// succeeds once scaled. Without a positive average it keeps one server and reports
// the observed counts.
func Estimate(avg *float64, target float64, summary model.LoadSummary) model.ScaleEstimate {
	if avg == nil || *avg <= 0 {
		return model.ScaleEstimate{
			Servers:          1,
			ScaledAvgSeconds: avg,
			Processed:        summary.Success,
			Failed:           summary.Failures,
		}
	}

	if target <= 0 {
		target = DefaultTargetSeconds
	}

	servers := max(1, int(math.Ceil(*avg/target)))

	return model.ScaleEstimate{
		Servers:          servers,
		ScaledAvgSeconds: model.Float(stats.Round3(*avg / float64(servers))),
		Processed:        summary.Total,
		Failed:           0,
	}
}
