package analysis

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	domai "github.com/callsight/callsight/internal/domain/ai"
	domain "github.com/callsight/callsight/internal/domain/calls"
	"github.com/callsight/callsight/internal/domain/comparisons"
)

type fakeRepo struct {
	applyErr  error
	appliedID domain.CallID
	appliedSC *domain.Scorecard
	appliedAt time.Time
	applies   int
}

func (f *fakeRepo) Save(ctx context.Context, c *domain.CallRecord) error { return nil }
func (f *fakeRepo) Get(ctx context.Context, id domain.CallID) (*domain.CallRecord, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeRepo) Latest(ctx context.Context, dataset domain.Dataset, limit int) ([]*domain.CallRecord, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeRepo) ListAnalyzed(ctx context.Context, dataset domain.Dataset) ([]*domain.CallRecord, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeRepo) ApplyScorecard(ctx context.Context, id domain.CallID, sc *domain.Scorecard, at time.Time) error {
	f.applies++
	if f.applyErr != nil {
		return f.applyErr
	}
	f.appliedID = id
	f.appliedSC = sc
	f.appliedAt = at
	return nil
}

type fakeScorer struct {
	configured bool
	scoreErr   error
	scorecard  *domain.Scorecard
	calls      int
}

func (f *fakeScorer) Configured() bool { return f.configured }
func (f *fakeScorer) Score(ctx context.Context, transcript string) (*domain.Scorecard, error) {
	f.calls++
	if f.scoreErr != nil {
		return nil, f.scoreErr
	}
	return f.scorecard, nil
}
func (f *fakeScorer) Compare(ctx context.Context, setA, setB domai.Cohort) (*comparisons.Analysis, error) {
	return nil, errors.New("not implemented")
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var validCmd = AnalyzeCommand{
	CallID:     "call-1",
	Transcript: "Agent: hello. Customer: hi.",
	Dataset:    domain.DatasetSetA,
}

func TestAnalyzeSuccess(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sc := &domain.Scorecard{
		ConversionLikelihood: domain.LikelihoodHigh,
		ConversionScore:      87,
	}
	repo := &fakeRepo{}
	svc := &Service{Repo: repo, Analyst: &fakeScorer{configured: true, scorecard: sc}, Clock: fixedClock{t: now}}

	got, err := svc.Analyze(context.Background(), validCmd)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got != sc {
		t.Fatalf("Analyze() = %+v, want the oracle's scorecard", got)
	}
	if repo.appliedID != "call-1" || repo.appliedSC != sc {
		t.Fatalf("applied id=%s sc=%+v", repo.appliedID, repo.appliedSC)
	}
	if !repo.appliedAt.Equal(now) {
		t.Fatalf("appliedAt = %v, want %v", repo.appliedAt, now)
	}
}

func TestAnalyzeNotConfigured(t *testing.T) {
	scorer := &fakeScorer{configured: false}
	svc := &Service{Repo: &fakeRepo{}, Analyst: scorer, Clock: fixedClock{}}

	_, err := svc.Analyze(context.Background(), validCmd)
	if !errors.Is(err, domai.ErrNotConfigured) {
		t.Fatalf("Analyze() error = %v, want ErrNotConfigured", err)
	}
	if scorer.calls != 0 {
		t.Fatalf("oracle called without a credential")
	}
}

func TestAnalyzeValidation(t *testing.T) {
	tests := []struct {
		name string
		cmd  AnalyzeCommand
	}{
		{"missing callId", AnalyzeCommand{Transcript: "x", Dataset: domain.DatasetSetA}},
		{"missing transcript", AnalyzeCommand{CallID: "c", Dataset: domain.DatasetSetA}},
		{"bad dataset", AnalyzeCommand{CallID: "c", Transcript: "x", Dataset: "set_c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			scorer := &fakeScorer{configured: true, scorecard: &domain.Scorecard{}}
			svc := &Service{Repo: repo, Analyst: scorer, Clock: fixedClock{}}

			if _, err := svc.Analyze(context.Background(), tt.cmd); err == nil {
				t.Fatalf("Analyze() error = nil, want validation failure")
			}
			if scorer.calls != 0 || repo.applies != 0 {
				t.Fatalf("side effects after validation failure: score=%d apply=%d", scorer.calls, repo.applies)
			}
		})
	}
}

func TestAnalyzeOracleFailureLeavesRecordUntouched(t *testing.T) {
	repo := &fakeRepo{}
	scorer := &fakeScorer{configured: true, scoreErr: domai.ErrBadReply}
	svc := &Service{Repo: repo, Analyst: scorer, Clock: fixedClock{}}

	_, err := svc.Analyze(context.Background(), validCmd)
	if !errors.Is(err, domai.ErrBadReply) {
		t.Fatalf("Analyze() error = %v, want ErrBadReply", err)
	}
	if repo.applies != 0 {
		t.Fatalf("record mutated after a failed scoring pass")
	}
}

func TestAnalyzeUnknownCall(t *testing.T) {
	repo := &fakeRepo{applyErr: sql.ErrNoRows}
	svc := &Service{Repo: repo, Analyst: &fakeScorer{configured: true, scorecard: &domain.Scorecard{}}, Clock: fixedClock{}}

	_, err := svc.Analyze(context.Background(), validCmd)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("Analyze() error = %v, want wrapped sql.ErrNoRows", err)
	}
	if !strings.Contains(err.Error(), "database update error") {
		t.Fatalf("error not wrapped: %v", err)
	}
}
