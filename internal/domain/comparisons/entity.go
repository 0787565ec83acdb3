package comparisons

import (
	"time"
)

// ID tipe untuk Snapshot
type SnapshotID string

// CohortStats: deterministic aggregates computed over one cohort's
// analyzed records. JSON keys match the dashboard payload.
type CohortStats struct {
	TotalCalls          int     `json:"totalCalls"`
	ConversionRate      float64 `json:"conversionRate"`
	AvgSentiment        float64 `json:"avgSentiment"`
	AvgEngagement       float64 `json:"avgEngagement"`
	AvgConversionScore  float64 `json:"avgConversionScore"`
	HighConversionCount int     `json:"highConversionCount"`
}

type PrimaryDrivers struct {
	SalesRepFactors            []string `json:"sales_rep_factors"`
	CustomerDemographicFactors []string `json:"customer_demographic_factors"`
	ProcessFactors             []string `json:"process_factors"`
	ExternalFactors            []string `json:"external_factors"`
}

type PerformanceDifference struct {
	BetterPerformingSet       string         `json:"better_performing_set"`
	PerformanceGapPercentage  float64        `json:"performance_gap_percentage"`
	KeyDifferentiatingFactors []string       `json:"key_differentiating_factors"`
	StatisticalSignificance   string         `json:"statistical_significance"`
	PrimaryDrivers            PrimaryDrivers `json:"primary_drivers"`
}

type Correlation struct {
	Variables           []string `json:"variables"`
	CorrelationStrength float64  `json:"correlation_strength"`
	Description         string   `json:"description"`
	BusinessImpact      string   `json:"business_impact"`
}

type CorrelationPatterns struct {
	StrongCorrelations       []Correlation `json:"strong_correlations"`
	CustomerBehaviorPatterns []string      `json:"customer_behavior_patterns"`
	SalesRepBehaviorPatterns []string      `json:"sales_rep_behavior_patterns"`
	DemographicInfluences    []string      `json:"demographic_influences"`
}

type Significance struct {
	SampleSizeAdequacy    string `json:"sample_size_adequacy"`
	ConfidenceLevel       string `json:"confidence_level"`
	PValueEstimation      string `json:"p_value_estimation"`
	EffectSize            string `json:"effect_size"`
	ReliabilityAssessment string `json:"reliability_assessment"`
}

type RootCause struct {
	PrimaryHypothesis     string   `json:"primary_hypothesis"`
	SupportingEvidence    []string `json:"supporting_evidence"`
	AlternativeHypotheses []string `json:"alternative_hypotheses"`
	ConfoundingVariables  []string `json:"confounding_variables"`
}

type ActionableInsight struct {
	Insight                string `json:"insight"`
	Evidence               string `json:"evidence"`
	RecommendedAction      string `json:"recommended_action"`
	ExpectedImpact         string `json:"expected_impact"`
	ImplementationPriority string `json:"implementation_priority"`
}

// Analysis is the oracle's structured comparison output.
type Analysis struct {
	PerformanceDifference PerformanceDifference `json:"performance_difference_analysis"`
	CorrelationPatterns   CorrelationPatterns   `json:"correlation_patterns"`
	Significance          Significance          `json:"statistical_significance"`
	RootCause             RootCause             `json:"root_cause_analysis"`
	ActionableInsights    []ActionableInsight   `json:"actionable_insights"`
}

// Aggregate Root: Snapshot, one immutable row per aggregator run.
type Snapshot struct {
	ID                    SnapshotID            `json:"id"`
	CreatedAt             time.Time             `json:"created_at"`
	SetA                  CohortStats           `json:"set_a_stats"`
	SetB                  CohortStats           `json:"set_b_stats"`
	PerformanceDifference PerformanceDifference `json:"performance_difference_analysis"`
	CorrelationPatterns   CorrelationPatterns   `json:"correlation_patterns"`
	Significance          Significance          `json:"statistical_significance"`
	Recommendations       []ActionableInsight   `json:"ai_recommendations"`
}
