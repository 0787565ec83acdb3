package calls

import (
	"time"
)

// ID tipe untuk CallRecord
type CallID string

// Dataset enum: the two transcript cohorts under comparison
type Dataset string

const (
	DatasetSetA Dataset = "set_a"
	DatasetSetB Dataset = "set_b"
)

func (d Dataset) Valid() bool {
	return d == DatasetSetA || d == DatasetSetB
}

// Likelihood enum
type Likelihood string

const (
	LikelihoodHigh   Likelihood = "high"
	LikelihoodMedium Likelihood = "medium"
	LikelihoodLow    Likelihood = "low"
)

// KeyInsights value object
type KeyInsights struct {
	MainPainPoints      []string `json:"main_pain_points"`
	CustomerObjections  []string `json:"customer_objections"`
	SalesRepStrengths   []string `json:"sales_rep_strengths"`
	SalesRepWeaknesses  []string `json:"sales_rep_weaknesses"`
	DecisiveMoments     []string `json:"decisive_moments"`
	MissedOpportunities []string `json:"missed_opportunities"`
}

// StatisticalData value object: raw counters extracted from the transcript
type StatisticalData struct {
	QuestionCount      int `json:"question_count"`
	ObjectionCount     int `json:"objection_count"`
	PositiveIndicators int `json:"positive_indicators"`
	NegativeIndicators int `json:"negative_indicators"`
	UrgencyMentions    int `json:"urgency_mentions"`
	PriceDiscussions   int `json:"price_discussions"`
	CompetitorMentions int `json:"competitor_mentions"`
}

type ImprovementSuggestion struct {
	Area                     string `json:"area"`
	Suggestion               string `json:"suggestion"`
	Impact                   string `json:"impact"`
	ImplementationDifficulty string `json:"implementation_difficulty"`
}

type CustomerDemographics struct {
	ExperienceLevel         string `json:"experience_level"`
	UrgencyLevel            string `json:"urgency_level"`
	BudgetIndicators        string `json:"budget_indicators"`
	DecisionMakingAuthority string `json:"decision_making_authority"`
	GeographicIndicators    string `json:"geographic_indicators"`
	IndustryBackground      string `json:"industry_background"`
}

// RepPerformance: per-dimension 1-10 ratings for the sales rep
type RepPerformance struct {
	RapportBuilding    float64 `json:"rapport_building"`
	NeedsDiscovery     float64 `json:"needs_discovery"`
	ObjectionHandling  float64 `json:"objection_handling"`
	ClosingTechniques  float64 `json:"closing_techniques"`
	ProductKnowledge   float64 `json:"product_knowledge"`
	ListeningSkills    float64 `json:"listening_skills"`
	OverallPerformance float64 `json:"overall_performance"`
}

// Scorecard is the structured result of one oracle scoring pass.
// Field names mirror the JSON shape the model is instructed to return.
type Scorecard struct {
	ConversionLikelihood   Likelihood              `json:"conversion_likelihood"`
	ConversionScore        float64                 `json:"conversion_score"`
	TotalDurationMinutes   float64                 `json:"total_duration_minutes"`
	SalesRepTalkRatio      float64                 `json:"sales_rep_talk_ratio"`
	CustomerTalkRatio      float64                 `json:"customer_talk_ratio"`
	SentimentScore         float64                 `json:"sentiment_score"`
	EngagementScore        float64                 `json:"engagement_score"`
	KeyInsights            KeyInsights             `json:"key_insights"`
	StatisticalData        StatisticalData         `json:"statistical_data"`
	ImprovementSuggestions []ImprovementSuggestion `json:"improvement_suggestions"`
	CustomerDemographics   CustomerDemographics    `json:"customer_demographics"`
	RepPerformance         RepPerformance          `json:"sales_rep_performance"`
}

// Aggregate Root: CallRecord, one row per uploaded transcript.
// Scorecard and AnalyzedAt are set together or not at all.
type CallRecord struct {
	ID            CallID     `json:"id"`
	Filename      string     `json:"filename"`
	Dataset       Dataset    `json:"dataset_type"`
	Transcript    string     `json:"transcript"`
	TranscriptURL string     `json:"transcript_url,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	Scorecard     *Scorecard `json:"analysis,omitempty"`
	AnalyzedAt    *time.Time `json:"analyzed_at,omitempty"`
}

// Analyzed: analysis presence is determined solely by analyzed_at
func (c *CallRecord) Analyzed() bool {
	return c.AnalyzedAt != nil
}

// ConversionScore treats a missing scorecard as zero; used for ranking.
func (c *CallRecord) ConversionScore() float64 {
	if c.Scorecard == nil {
		return 0
	}
	return c.Scorecard.ConversionScore
}
