package ai

import (
	"context"

	"github.com/callsight/callsight/internal/domain/calls"
	"github.com/callsight/callsight/internal/domain/comparisons"
)

// Cohort bundles what the comparison prompt needs for one set.
type Cohort struct {
	Stats comparisons.CohortStats
	Calls []*calls.CallRecord
}

// Analyst port for the external language-model scoring service. A test
// double substitutes canned JSON here; nothing else in the system talks
// to the model.
type Analyst interface {
	// Configured reports whether the credential is present. Handlers check
	// this up front so a missing key is a per-request error, not a crash.
	Configured() bool

	Score(ctx context.Context, transcript string) (*calls.Scorecard, error)
	Compare(ctx context.Context, setA, setB Cohort) (*comparisons.Analysis, error)
}
