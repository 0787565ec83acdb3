package analysis

import (
	"context"
	"fmt"

	"github.com/callsight/callsight/internal/application"
	domai "github.com/callsight/callsight/internal/domain/ai"
	domain "github.com/callsight/callsight/internal/domain/calls"
)

// Service implements the per-call analysis use case: one oracle scoring
// pass, one all-or-nothing record mutation.
type Service struct {
	Repo    domain.Repository
	Analyst domai.Analyst
	Clock   application.Clock
}

type AnalyzeCommand struct {
	CallID     domain.CallID
	Transcript string
	Dataset    domain.Dataset
}

// Analyze scores the transcript and applies the result to the record.
// On any failure the record remains unanalyzed; there is no retry.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*domain.Scorecard, error) {
	if !s.Analyst.Configured() {
		return nil, domai.ErrNotConfigured
	}
	if cmd.CallID == "" {
		return nil, fmt.Errorf("callId is required")
	}
	if cmd.Transcript == "" {
		return nil, fmt.Errorf("transcript is required")
	}
	if !cmd.Dataset.Valid() {
		return nil, fmt.Errorf("invalid datasetType: %s", cmd.Dataset)
	}

	sc, err := s.Analyst.Score(ctx, cmd.Transcript)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.ApplyScorecard(ctx, cmd.CallID, sc, s.Clock.Now()); err != nil {
		return nil, fmt.Errorf("database update error: %w", err)
	}
	return sc, nil
}
