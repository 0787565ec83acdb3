package calls

import (
	"context"
	"time"
)

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, c *CallRecord) error
	Get(ctx context.Context, id CallID) (*CallRecord, error)
	Latest(ctx context.Context, dataset Dataset, limit int) ([]*CallRecord, error)

	// ListAnalyzed returns every record in the cohort whose analyzed_at is
	// set, in insertion order. Ranking relies on that order for tie-breaks.
	ListAnalyzed(ctx context.Context, dataset Dataset) ([]*CallRecord, error)

	// ApplyScorecard writes the whole analysis bundle plus analyzed_at in a
	// single statement; a record is never left partially analyzed.
	ApplyScorecard(ctx context.Context, id CallID, sc *Scorecard, analyzedAt time.Time) error
}

// TranscriptStore port (object storage archive untuk raw uploads)
type TranscriptStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
