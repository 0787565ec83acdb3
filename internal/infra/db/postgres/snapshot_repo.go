package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/callsight/callsight/internal/domain/comparisons"
)

type SnapshotRepository struct{ db *sql.DB }

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository { return &SnapshotRepository{db: db} }

const snapshotColumns = `id, created_at,
       set_a_total_calls, set_a_conversion_rate, set_a_avg_sentiment,
       set_a_avg_engagement, set_a_avg_conversion_score, set_a_high_conversion_count,
       set_b_total_calls, set_b_conversion_rate, set_b_avg_sentiment,
       set_b_avg_engagement, set_b_avg_conversion_score, set_b_high_conversion_count,
       performance_difference_analysis, correlation_patterns,
       statistical_significance, ai_recommendations`

func (r *SnapshotRepository) Insert(ctx context.Context, s *comparisons.Snapshot) error {
	const q = `
INSERT INTO dataset_comparisons (` + snapshotColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18);`

	perfDiff, err := encodeJSON(s.PerformanceDifference)
	if err != nil {
		return err
	}
	correlations, err := encodeJSON(s.CorrelationPatterns)
	if err != nil {
		return err
	}
	significance, err := encodeJSON(s.Significance)
	if err != nil {
		return err
	}
	recommendations, err := encodeJSON(s.Recommendations)
	if err != nil {
		return err
	}

	created := s.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = r.db.ExecContext(ctx, q,
		s.ID, created,
		s.SetA.TotalCalls, s.SetA.ConversionRate, s.SetA.AvgSentiment,
		s.SetA.AvgEngagement, s.SetA.AvgConversionScore, s.SetA.HighConversionCount,
		s.SetB.TotalCalls, s.SetB.ConversionRate, s.SetB.AvgSentiment,
		s.SetB.AvgEngagement, s.SetB.AvgConversionScore, s.SetB.HighConversionCount,
		perfDiff, correlations, significance, recommendations,
	)
	return err
}

func (r *SnapshotRepository) Latest(ctx context.Context) (*comparisons.Snapshot, error) {
	q := `SELECT ` + snapshotColumns + `
FROM dataset_comparisons
ORDER BY created_at DESC, id DESC
LIMIT 1;`
	return scanSnapshot(r.db.QueryRowContext(ctx, q))
}

func scanSnapshot(rs rowScanner) (*comparisons.Snapshot, error) {
	var s comparisons.Snapshot
	var perfDiff, correlations, significance, recommendations sql.NullString

	if err := rs.Scan(
		&s.ID, &s.CreatedAt,
		&s.SetA.TotalCalls, &s.SetA.ConversionRate, &s.SetA.AvgSentiment,
		&s.SetA.AvgEngagement, &s.SetA.AvgConversionScore, &s.SetA.HighConversionCount,
		&s.SetB.TotalCalls, &s.SetB.ConversionRate, &s.SetB.AvgSentiment,
		&s.SetB.AvgEngagement, &s.SetB.AvgConversionScore, &s.SetB.HighConversionCount,
		&perfDiff, &correlations, &significance, &recommendations,
	); err != nil {
		return nil, err
	}
	if err := decodeJSON(perfDiff, &s.PerformanceDifference); err != nil {
		return nil, err
	}
	if err := decodeJSON(correlations, &s.CorrelationPatterns); err != nil {
		return nil, err
	}
	if err := decodeJSON(significance, &s.Significance); err != nil {
		return nil, err
	}
	if err := decodeJSON(recommendations, &s.Recommendations); err != nil {
		return nil, err
	}
	return &s, nil
}
