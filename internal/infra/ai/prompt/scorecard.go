package prompt

import (
	"fmt"
)

// ScorecardPrompt builds the per-call analysis instruction. The model must
// answer with one JSON object matching the schema below; the caller still
// runs tolerant extraction because models like to wrap output in prose.
func ScorecardPrompt(transcript string) string {
	return fmt.Sprintf(`You are an expert sales call analyst for an educational company. Analyze this sales call transcript and provide a comprehensive analysis.

TRANSCRIPT:
%s

Please provide a detailed JSON response with the following structure:

{
  "conversion_likelihood": "high" | "medium" | "low",
  "conversion_score": number (0-100),
  "total_duration_minutes": number (estimated from transcript),
  "sales_rep_talk_ratio": number (percentage 0-100),
  "customer_talk_ratio": number (percentage 0-100),
  "sentiment_score": number (-100 to +100),
  "engagement_score": number (0-100),
  "key_insights": {
    "main_pain_points": [string],
    "customer_objections": [string],
    "sales_rep_strengths": [string],
    "sales_rep_weaknesses": [string],
    "decisive_moments": [string],
    "missed_opportunities": [string]
  },
  "statistical_data": {
    "question_count": number,
    "objection_count": number,
    "positive_indicators": number,
    "negative_indicators": number,
    "urgency_mentions": number,
    "price_discussions": number,
    "competitor_mentions": number
  },
  "improvement_suggestions": [
    {
      "area": string,
      "suggestion": string,
      "impact": "high" | "medium" | "low",
      "implementation_difficulty": "easy" | "medium" | "hard"
    }
  ],
  "customer_demographics": {
    "experience_level": "beginner" | "intermediate" | "advanced",
    "urgency_level": "high" | "medium" | "low",
    "budget_indicators": "high" | "medium" | "low" | "unclear",
    "decision_making_authority": "high" | "medium" | "low" | "unclear",
    "geographic_indicators": string,
    "industry_background": string
  },
  "sales_rep_performance": {
    "rapport_building": number (1-10),
    "needs_discovery": number (1-10),
    "objection_handling": number (1-10),
    "closing_techniques": number (1-10),
    "product_knowledge": number (1-10),
    "listening_skills": number (1-10),
    "overall_performance": number (1-10)
  }
}

Base your analysis on:
1. Conversation flow and structure
2. Customer engagement indicators
3. Sales rep techniques and effectiveness
4. Pain point identification and resolution
5. Objection handling quality
6. Closing attempts and customer responses
7. Overall conversation sentiment and momentum

Provide specific, actionable insights that can help improve conversion rates.`, transcript)
}
