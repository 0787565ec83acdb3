package comparison

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/callsight/callsight/internal/application"
	domai "github.com/callsight/callsight/internal/domain/ai"
	domain "github.com/callsight/callsight/internal/domain/calls"
	"github.com/callsight/callsight/internal/domain/comparisons"
	"github.com/callsight/callsight/internal/logger"
)

// ErrInsufficientData: comparison requested while a cohort has no analyzed
// records. Reported as a client error, not a server fault.
var ErrInsufficientData = errors.New("Insufficient data for comparison. Both sets need analyzed calls.")

// PerformerLists holds the five-record rankings per cohort.
type PerformerLists struct {
	SetA []*domain.CallRecord `json:"setA"`
	SetB []*domain.CallRecord `json:"setB"`
}

// Result is the combined payload returned to the dashboard.
type Result struct {
	SetAStats        comparisons.CohortStats `json:"setAStats"`
	SetBStats        comparisons.CohortStats `json:"setBStats"`
	Comparison       *comparisons.Analysis   `json:"comparison"`
	TopPerformers    PerformerLists          `json:"topPerformers"`
	BottomPerformers PerformerLists          `json:"bottomPerformers"`
}

// Service implements the cohort aggregation use case. Takes no caller
// parameters; every run recomputes over the whole store.
type Service struct {
	Calls     domain.Repository
	Snapshots comparisons.Repository
	Analyst   domai.Analyst
	Clock     application.Clock
	Log       *logger.Logger
}

// Run reads both cohorts, computes statistics, asks the oracle for the
// comparative narrative, and persists a snapshot. Two concurrent runs may
// both insert a snapshot; that race is tolerated, not prevented.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	// credential check comes before any store read
	if !s.Analyst.Configured() {
		return nil, domai.ErrNotConfigured
	}

	setACalls, err := s.Calls.ListAnalyzed(ctx, domain.DatasetSetA)
	if err != nil {
		return nil, fmt.Errorf("error fetching call data: %w", err)
	}
	setBCalls, err := s.Calls.ListAnalyzed(ctx, domain.DatasetSetB)
	if err != nil {
		return nil, fmt.Errorf("error fetching call data: %w", err)
	}

	if len(setACalls) == 0 || len(setBCalls) == 0 {
		return nil, ErrInsufficientData
	}

	setAStats := ComputeStats(setACalls)
	setBStats := ComputeStats(setBCalls)

	analysis, err := s.Analyst.Compare(ctx,
		domai.Cohort{Stats: setAStats, Calls: setACalls},
		domai.Cohort{Stats: setBStats, Calls: setBCalls},
	)
	if err != nil {
		return nil, err
	}

	snap := &comparisons.Snapshot{
		ID:                    comparisons.SnapshotID(uuid.New().String()),
		CreatedAt:             s.Clock.Now(),
		SetA:                  setAStats,
		SetB:                  setBStats,
		PerformanceDifference: analysis.PerformanceDifference,
		CorrelationPatterns:   analysis.CorrelationPatterns,
		Significance:          analysis.Significance,
		Recommendations:       analysis.ActionableInsights,
	}
	// Snapshot persistence failure is logged and swallowed on purpose: the
	// computed result must still reach the caller.
	if err := s.Snapshots.Insert(ctx, snap); err != nil {
		if s.Log != nil {
			s.Log.WithError(err).Warn("failed to store comparison snapshot")
		}
	}

	return &Result{
		SetAStats:  setAStats,
		SetBStats:  setBStats,
		Comparison: analysis,
		TopPerformers: PerformerLists{
			SetA: TopPerformers(setACalls, performerLimit),
			SetB: TopPerformers(setBCalls, performerLimit),
		},
		BottomPerformers: PerformerLists{
			SetA: BottomPerformers(setACalls, performerLimit),
			SetB: BottomPerformers(setBCalls, performerLimit),
		},
	}, nil
}
