// Package sqlite backs local development and tests with the CGo-free
// modernc driver. Schema is bootstrapped in-process; production deploys
// run MySQL or Postgres with managed migrations instead.
package sqlite

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"
)

func Connect(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = "callsight.db"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// modernc sqlite is single-writer
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := Bootstrap(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Bootstrap creates the two tables when absent.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS sales_calls (
	id                      TEXT PRIMARY KEY,
	filename                TEXT NOT NULL,
	dataset_type            TEXT NOT NULL,
	transcript              TEXT NOT NULL,
	transcript_url          TEXT,
	created_at              TIMESTAMP NOT NULL,
	conversion_likelihood   TEXT,
	conversion_score        REAL,
	total_duration_minutes  REAL,
	sales_rep_talk_ratio    REAL,
	customer_talk_ratio     REAL,
	sentiment_score         REAL,
	engagement_score        REAL,
	key_insights            TEXT,
	statistical_data        TEXT,
	improvement_suggestions TEXT,
	customer_demographics   TEXT,
	sales_rep_performance   TEXT,
	analyzed_at             TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_sales_calls_dataset ON sales_calls(dataset_type, analyzed_at);

CREATE TABLE IF NOT EXISTS dataset_comparisons (
	id                              TEXT PRIMARY KEY,
	created_at                      TIMESTAMP NOT NULL,
	set_a_total_calls               INTEGER NOT NULL,
	set_a_conversion_rate           REAL NOT NULL,
	set_a_avg_sentiment             REAL NOT NULL,
	set_a_avg_engagement            REAL NOT NULL,
	set_a_avg_conversion_score      REAL NOT NULL,
	set_a_high_conversion_count     INTEGER NOT NULL,
	set_b_total_calls               INTEGER NOT NULL,
	set_b_conversion_rate           REAL NOT NULL,
	set_b_avg_sentiment             REAL NOT NULL,
	set_b_avg_engagement            REAL NOT NULL,
	set_b_avg_conversion_score      REAL NOT NULL,
	set_b_high_conversion_count     INTEGER NOT NULL,
	performance_difference_analysis TEXT,
	correlation_patterns            TEXT,
	statistical_significance        TEXT,
	ai_recommendations              TEXT
);`
	_, err := db.ExecContext(ctx, schema)
	return err
}
