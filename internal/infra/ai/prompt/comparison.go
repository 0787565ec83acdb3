package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/callsight/callsight/internal/domain/calls"
	"github.com/callsight/callsight/internal/domain/comparisons"
)

// callDigest is the condensed per-record view embedded in the comparison
// prompt. Raw transcripts stay out; they would blow the context window.
type callDigest struct {
	ID                   calls.CallID                `json:"id"`
	Filename             string                      `json:"filename"`
	ConversionLikelihood calls.Likelihood            `json:"conversion_likelihood,omitempty"`
	ConversionScore      float64                     `json:"conversion_score"`
	SentimentScore       float64                     `json:"sentiment_score"`
	EngagementScore      float64                     `json:"engagement_score"`
	KeyInsights          *calls.KeyInsights          `json:"key_insights,omitempty"`
	CustomerDemographics *calls.CustomerDemographics `json:"customer_demographics,omitempty"`
	RepPerformance       *calls.RepPerformance       `json:"sales_rep_performance,omitempty"`
	StatisticalData      *calls.StatisticalData      `json:"statistical_data,omitempty"`
}

func digest(records []*calls.CallRecord) []callDigest {
	out := make([]callDigest, 0, len(records))
	for _, c := range records {
		d := callDigest{ID: c.ID, Filename: c.Filename}
		if sc := c.Scorecard; sc != nil {
			d.ConversionLikelihood = sc.ConversionLikelihood
			d.ConversionScore = sc.ConversionScore
			d.SentimentScore = sc.SentimentScore
			d.EngagementScore = sc.EngagementScore
			d.KeyInsights = &sc.KeyInsights
			d.CustomerDemographics = &sc.CustomerDemographics
			d.RepPerformance = &sc.RepPerformance
			d.StatisticalData = &sc.StatisticalData
		}
		out = append(out, d)
	}
	return out
}

func statsBlock(label string, s comparisons.CohortStats) string {
	return fmt.Sprintf(`%s STATISTICS:
- Total Calls: %d
- Conversion Rate: %.2f%%
- Average Sentiment: %.2f
- Average Engagement: %.2f
- Average Conversion Score: %.2f`,
		label, s.TotalCalls, s.ConversionRate, s.AvgSentiment, s.AvgEngagement, s.AvgConversionScore)
}

// ComparisonPrompt embeds both cohorts' statistics plus condensed
// per-record data and asks for the fixed-shape comparison object.
func ComparisonPrompt(setAStats, setBStats comparisons.CohortStats, setACalls, setBCalls []*calls.CallRecord) string {
	setAJSON, _ := json.MarshalIndent(digest(setACalls), "", "  ")
	setBJSON, _ := json.MarshalIndent(digest(setBCalls), "", "  ")

	return fmt.Sprintf(`You are an expert sales performance analyst. Analyze and compare these two sets of sales call data to provide comprehensive insights.

%s

%s

SET A DETAILED DATA:
%s

SET B DETAILED DATA:
%s

Provide a comprehensive analysis in JSON format:

{
  "performance_difference_analysis": {
    "better_performing_set": "set_a" | "set_b",
    "performance_gap_percentage": number,
    "key_differentiating_factors": [string],
    "statistical_significance": "high" | "medium" | "low",
    "primary_drivers": {
      "sales_rep_factors": [string],
      "customer_demographic_factors": [string],
      "process_factors": [string],
      "external_factors": [string]
    }
  },
  "correlation_patterns": {
    "strong_correlations": [
      {
        "variables": [string, string],
        "correlation_strength": number (-1 to 1),
        "description": string,
        "business_impact": string
      }
    ],
    "customer_behavior_patterns": [string],
    "sales_rep_behavior_patterns": [string],
    "demographic_influences": [string]
  },
  "statistical_significance": {
    "sample_size_adequacy": "adequate" | "limited" | "insufficient",
    "confidence_level": string,
    "p_value_estimation": string,
    "effect_size": "large" | "medium" | "small",
    "reliability_assessment": string
  },
  "root_cause_analysis": {
    "primary_hypothesis": string,
    "supporting_evidence": [string],
    "alternative_hypotheses": [string],
    "confounding_variables": [string]
  },
  "actionable_insights": [
    {
      "insight": string,
      "evidence": string,
      "recommended_action": string,
      "expected_impact": "high" | "medium" | "low",
      "implementation_priority": "high" | "medium" | "low"
    }
  ]
}

Focus on:
1. Identifying specific performance drivers
2. Understanding customer demographic differences
3. Analyzing sales rep performance variations
4. Finding correlation patterns
5. Providing statistical significance assessment
6. Offering actionable recommendations

Be specific with evidence from the data provided.`,
		statsBlock("SET A", setAStats),
		statsBlock("SET B", setBStats),
		setAJSON,
		setBJSON,
	)
}
