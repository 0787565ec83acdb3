package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/callsight/callsight/internal/domain/calls"
)

type CallRepository struct {
	db *sql.DB
}

func NewCallRepository(db *sql.DB) *CallRepository {
	return &CallRepository{db: db}
}

const callColumns = `id, filename, dataset_type, transcript, transcript_url, created_at,
       conversion_likelihood, conversion_score, total_duration_minutes,
       sales_rep_talk_ratio, customer_talk_ratio, sentiment_score, engagement_score,
       key_insights, statistical_data, improvement_suggestions,
       customer_demographics, sales_rep_performance, analyzed_at`

// Save insert/update base fields; analysis fields only move through
// ApplyScorecard so an upsert can never half-fill them.
func (r *CallRepository) Save(ctx context.Context, c *domain.CallRecord) error {
	const q = `
INSERT INTO sales_calls (id, filename, dataset_type, transcript, transcript_url, created_at)
VALUES (?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 filename=VALUES(filename), dataset_type=VALUES(dataset_type),
 transcript=VALUES(transcript), transcript_url=VALUES(transcript_url);
`
	created := c.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		c.ID, c.Filename, c.Dataset, c.Transcript, nullString(c.TranscriptURL), created,
	)
	return err
}

// Get by ID
func (r *CallRepository) Get(ctx context.Context, id domain.CallID) (*domain.CallRecord, error) {
	q := `SELECT ` + callColumns + ` FROM sales_calls WHERE id=? LIMIT 1;`
	return scanCall(r.db.QueryRowContext(ctx, q, id))
}

// Latest records, newest first; empty dataset means both cohorts
func (r *CallRepository) Latest(ctx context.Context, dataset domain.Dataset, limit int) ([]*domain.CallRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT ` + callColumns + ` FROM sales_calls`
	args := []any{}
	if dataset != "" {
		q += ` WHERE dataset_type=?`
		args = append(args, dataset)
	}
	q += ` ORDER BY created_at DESC, id DESC LIMIT ?;`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCalls(rows)
}

// ListAnalyzed returns the cohort's analyzed records in insertion order.
func (r *CallRepository) ListAnalyzed(ctx context.Context, dataset domain.Dataset) ([]*domain.CallRecord, error) {
	q := `SELECT ` + callColumns + `
FROM sales_calls
WHERE dataset_type=? AND analyzed_at IS NOT NULL
ORDER BY created_at ASC, id ASC;`
	rows, err := r.db.QueryContext(ctx, q, dataset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCalls(rows)
}

// ApplyScorecard writes every analysis field plus analyzed_at in one
// statement. Per-statement atomicity gives the all-or-nothing guarantee.
func (r *CallRepository) ApplyScorecard(ctx context.Context, id domain.CallID, sc *domain.Scorecard, analyzedAt time.Time) error {
	const q = `
UPDATE sales_calls
SET conversion_likelihood = ?,
    conversion_score = ?,
    total_duration_minutes = ?,
    sales_rep_talk_ratio = ?,
    customer_talk_ratio = ?,
    sentiment_score = ?,
    engagement_score = ?,
    key_insights = ?,
    statistical_data = ?,
    improvement_suggestions = ?,
    customer_demographics = ?,
    sales_rep_performance = ?,
    analyzed_at = ?
WHERE id = ?;`

	insights, err := encodeJSON(sc.KeyInsights)
	if err != nil {
		return err
	}
	statData, err := encodeJSON(sc.StatisticalData)
	if err != nil {
		return err
	}
	suggestions, err := encodeJSON(sc.ImprovementSuggestions)
	if err != nil {
		return err
	}
	demographics, err := encodeJSON(sc.CustomerDemographics)
	if err != nil {
		return err
	}
	performance, err := encodeJSON(sc.RepPerformance)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, q,
		sc.ConversionLikelihood, sc.ConversionScore, sc.TotalDurationMinutes,
		sc.SalesRepTalkRatio, sc.CustomerTalkRatio, sc.SentimentScore, sc.EngagementScore,
		insights, statData, suggestions, demographics, performance,
		analyzedAt, id,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCall(rs rowScanner) (*domain.CallRecord, error) {
	var c domain.CallRecord
	var transcriptURL, likelihood sql.NullString
	var convScore, duration, repRatio, custRatio, sentiment, engagement sql.NullFloat64
	var insights, statData, suggestions, demographics, performance sql.NullString
	var analyzedAt sql.NullTime

	if err := rs.Scan(
		&c.ID, &c.Filename, &c.Dataset, &c.Transcript, &transcriptURL, &c.CreatedAt,
		&likelihood, &convScore, &duration,
		&repRatio, &custRatio, &sentiment, &engagement,
		&insights, &statData, &suggestions, &demographics, &performance, &analyzedAt,
	); err != nil {
		return nil, err
	}
	c.TranscriptURL = transcriptURL.String

	if analyzedAt.Valid {
		sc := &domain.Scorecard{
			ConversionLikelihood: domain.Likelihood(likelihood.String),
			ConversionScore:      convScore.Float64,
			TotalDurationMinutes: duration.Float64,
			SalesRepTalkRatio:    repRatio.Float64,
			CustomerTalkRatio:    custRatio.Float64,
			SentimentScore:       sentiment.Float64,
			EngagementScore:      engagement.Float64,
		}
		if err := decodeJSON(insights, &sc.KeyInsights); err != nil {
			return nil, err
		}
		if err := decodeJSON(statData, &sc.StatisticalData); err != nil {
			return nil, err
		}
		if err := decodeJSON(suggestions, &sc.ImprovementSuggestions); err != nil {
			return nil, err
		}
		if err := decodeJSON(demographics, &sc.CustomerDemographics); err != nil {
			return nil, err
		}
		if err := decodeJSON(performance, &sc.RepPerformance); err != nil {
			return nil, err
		}
		c.Scorecard = sc
		t := analyzedAt.Time
		c.AnalyzedAt = &t
	}
	return &c, nil
}

func collectCalls(rows *sql.Rows) ([]*domain.CallRecord, error) {
	var out []*domain.CallRecord
	for rows.Next() {
		c, err := scanCall(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
