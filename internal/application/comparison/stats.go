package comparison

import (
	"math"

	domain "github.com/callsight/callsight/internal/domain/calls"
	"github.com/callsight/callsight/internal/domain/comparisons"
)

// ComputeStats is a pure function of the record set. Records missing a
// scorecard contribute zero to every mean; callers guard against an empty
// cohort before getting here.
func ComputeStats(records []*domain.CallRecord) comparisons.CohortStats {
	n := len(records)
	if n == 0 {
		return comparisons.CohortStats{}
	}

	high := 0
	var sentiment, engagement, conversion float64
	for _, r := range records {
		sc := r.Scorecard
		if sc == nil {
			continue
		}
		if sc.ConversionLikelihood == domain.LikelihoodHigh {
			high++
		}
		sentiment += sc.SentimentScore
		engagement += sc.EngagementScore
		conversion += sc.ConversionScore
	}

	return comparisons.CohortStats{
		TotalCalls:          n,
		ConversionRate:      round2(float64(high) / float64(n) * 100),
		AvgSentiment:        round2(sentiment / float64(n)),
		AvgEngagement:       round2(engagement / float64(n)),
		AvgConversionScore:  round2(conversion / float64(n)),
		HighConversionCount: high,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
