package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/callsight/callsight/internal/application"
	appanalysis "github.com/callsight/callsight/internal/application/analysis"
	appcalls "github.com/callsight/callsight/internal/application/calls"
	appcomparison "github.com/callsight/callsight/internal/application/comparison"
	domai "github.com/callsight/callsight/internal/domain/ai"
	domain "github.com/callsight/callsight/internal/domain/calls"
	"github.com/callsight/callsight/internal/domain/comparisons"
	"github.com/callsight/callsight/internal/middleware"
)

type memCallRepo struct {
	records map[domain.CallID]*domain.CallRecord
	order   []domain.CallID
}

func newMemCallRepo() *memCallRepo {
	return &memCallRepo{records: map[domain.CallID]*domain.CallRecord{}}
}

func (m *memCallRepo) Save(ctx context.Context, c *domain.CallRecord) error {
	if _, ok := m.records[c.ID]; !ok {
		m.order = append(m.order, c.ID)
	}
	m.records[c.ID] = c
	return nil
}
func (m *memCallRepo) Get(ctx context.Context, id domain.CallID) (*domain.CallRecord, error) {
	c, ok := m.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}
func (m *memCallRepo) Latest(ctx context.Context, dataset domain.Dataset, limit int) ([]*domain.CallRecord, error) {
	var out []*domain.CallRecord
	for i := len(m.order) - 1; i >= 0; i-- {
		c := m.records[m.order[i]]
		if dataset != "" && c.Dataset != dataset {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
func (m *memCallRepo) ListAnalyzed(ctx context.Context, dataset domain.Dataset) ([]*domain.CallRecord, error) {
	var out []*domain.CallRecord
	for _, id := range m.order {
		c := m.records[id]
		if c.Dataset == dataset && c.Analyzed() {
			out = append(out, c)
		}
	}
	return out, nil
}
func (m *memCallRepo) ApplyScorecard(ctx context.Context, id domain.CallID, sc *domain.Scorecard, at time.Time) error {
	c, ok := m.records[id]
	if !ok {
		return sql.ErrNoRows
	}
	c.Scorecard = sc
	c.AnalyzedAt = &at
	return nil
}

type memSnapshotRepo struct {
	snaps []*comparisons.Snapshot
}

func (m *memSnapshotRepo) Insert(ctx context.Context, s *comparisons.Snapshot) error {
	m.snaps = append(m.snaps, s)
	return nil
}
func (m *memSnapshotRepo) Latest(ctx context.Context) (*comparisons.Snapshot, error) {
	if len(m.snaps) == 0 {
		return nil, sql.ErrNoRows
	}
	return m.snaps[len(m.snaps)-1], nil
}

type stubAnalyst struct {
	configured bool
	scorecard  *domain.Scorecard
	scoreErr   error
	analysis   *comparisons.Analysis
}

func (s *stubAnalyst) Configured() bool { return s.configured }
func (s *stubAnalyst) Score(ctx context.Context, transcript string) (*domain.Scorecard, error) {
	if s.scoreErr != nil {
		return nil, s.scoreErr
	}
	return s.scorecard, nil
}
func (s *stubAnalyst) Compare(ctx context.Context, setA, setB domai.Cohort) (*comparisons.Analysis, error) {
	return s.analysis, nil
}

func newTestRouter(repo *memCallRepo, snaps *memSnapshotRepo, analyst *stubAnalyst) http.Handler {
	clock := application.SystemClock{}
	analysisSvc := &appanalysis.Service{Repo: repo, Analyst: analyst, Clock: clock}
	comparisonSvc := &appcomparison.Service{Calls: repo, Snapshots: snaps, Analyst: analyst, Clock: clock}
	callsSvc := &appcalls.Service{Repo: repo, Clock: clock}
	return NewRouter(analysisSvc, comparisonSvc, callsSvc, snaps, map[string]middleware.HealthChecker{})
}

func analyzedRecord(id string, dataset domain.Dataset, score float64) *domain.CallRecord {
	now := time.Now().UTC()
	return &domain.CallRecord{
		ID:         domain.CallID(id),
		Filename:   id + ".txt",
		Dataset:    dataset,
		Transcript: "Agent: hello",
		CreatedAt:  now,
		Scorecard: &domain.Scorecard{
			ConversionLikelihood: domain.LikelihoodHigh,
			ConversionScore:      score,
		},
		AnalyzedAt: &now,
	}
}

func TestHandleAnalyze(t *testing.T) {
	repo := newMemCallRepo()
	_ = repo.Save(context.Background(), &domain.CallRecord{
		ID: "c1", Dataset: domain.DatasetSetA, Transcript: "Agent: hello", CreatedAt: time.Now(),
	})
	analyst := &stubAnalyst{configured: true, scorecard: &domain.Scorecard{ConversionScore: 77}}
	h := newTestRouter(repo, &memSnapshotRepo{}, analyst)

	body := `{"callId":"c1","transcript":"Agent: hello","datasetType":"set_a"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success  bool              `json:"success"`
		Message  string            `json:"message"`
		Analysis *domain.Scorecard `json:"analysis"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Message != "Call analyzed successfully" {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Analysis == nil || resp.Analysis.ConversionScore != 77 {
		t.Fatalf("analysis = %+v", resp.Analysis)
	}
	if !repo.records["c1"].Analyzed() {
		t.Fatalf("record not persisted as analyzed")
	}
}

func TestHandleAnalyzeFailure(t *testing.T) {
	analyst := &stubAnalyst{configured: true, scoreErr: errors.New("model timeout")}
	h := newTestRouter(newMemCallRepo(), &memSnapshotRepo{}, analyst)

	body := `{"callId":"c1","transcript":"x","datasetType":"set_a"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] != "Analysis failed" || resp["details"] != "model timeout" {
		t.Fatalf("resp = %v", resp)
	}
}

func TestHandleCompareInsufficientData(t *testing.T) {
	repo := newMemCallRepo()
	_ = repo.Save(context.Background(), analyzedRecord("a1", domain.DatasetSetA, 90))
	// no analyzed set B records
	h := newTestRouter(repo, &memSnapshotRepo{}, &stubAnalyst{configured: true})

	req := httptest.NewRequest(http.MethodPost, "/v1/compare", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] != "Insufficient data for comparison. Both sets need analyzed calls." {
		t.Fatalf("error = %q", resp["error"])
	}
}

func TestHandleCompare(t *testing.T) {
	repo := newMemCallRepo()
	_ = repo.Save(context.Background(), analyzedRecord("a1", domain.DatasetSetA, 90))
	_ = repo.Save(context.Background(), analyzedRecord("b1", domain.DatasetSetB, 30))
	snaps := &memSnapshotRepo{}
	analyst := &stubAnalyst{configured: true, analysis: &comparisons.Analysis{
		PerformanceDifference: comparisons.PerformanceDifference{BetterPerformingSet: "set_a"},
	}}
	h := newTestRouter(repo, snaps, analyst)

	req := httptest.NewRequest(http.MethodPost, "/v1/compare", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success    bool                    `json:"success"`
		SetAStats  comparisons.CohortStats `json:"setAStats"`
		SetBStats  comparisons.CohortStats `json:"setBStats"`
		Comparison *comparisons.Analysis   `json:"comparison"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Fatalf("success = false")
	}
	if resp.SetAStats.TotalCalls != 1 || resp.SetBStats.TotalCalls != 1 {
		t.Fatalf("stats = %+v / %+v", resp.SetAStats, resp.SetBStats)
	}
	if resp.Comparison == nil || resp.Comparison.PerformanceDifference.BetterPerformingSet != "set_a" {
		t.Fatalf("comparison = %+v", resp.Comparison)
	}
	if len(snaps.snaps) != 1 {
		t.Fatalf("snapshot not stored")
	}
}

func TestHandleUploadAndGet(t *testing.T) {
	repo := newMemCallRepo()
	h := newTestRouter(repo, &memSnapshotRepo{}, &stubAnalyst{configured: true})

	body := `{"filename":"call.txt","datasetType":"set_b","transcript":"Agent: hi"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/calls", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var created domain.CallRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID == "" || created.Dataset != domain.DatasetSetB {
		t.Fatalf("created = %+v", created)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/calls/"+string(created.ID), nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
}

func TestHandleGetCallNotFound(t *testing.T) {
	h := newTestRouter(newMemCallRepo(), &memSnapshotRepo{}, &stubAnalyst{configured: true})

	req := httptest.NewRequest(http.MethodGet, "/v1/calls/missing", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandleLatestComparisonEmpty(t *testing.T) {
	h := newTestRouter(newMemCallRepo(), &memSnapshotRepo{}, &stubAnalyst{configured: true})

	req := httptest.NewRequest(http.MethodGet, "/v1/comparisons/latest", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestRouter(newMemCallRepo(), &memSnapshotRepo{}, &stubAnalyst{configured: true})

	req := httptest.NewRequest(http.MethodOptions, "/v1/compare", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "authorization, content-type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK && rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Allow-Origin = %q", got)
	}
}

func TestHandleExport(t *testing.T) {
	repo := newMemCallRepo()
	_ = repo.Save(context.Background(), analyzedRecord("a1", domain.DatasetSetA, 90))
	h := newTestRouter(repo, &memSnapshotRepo{}, &stubAnalyst{configured: true})

	req := httptest.NewRequest(http.MethodGet, "/v1/export", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "attachment") {
		t.Fatalf("Content-Disposition = %q", rec.Header().Get("Content-Disposition"))
	}
	if rec.Body.Len() == 0 {
		t.Fatalf("empty workbook body")
	}
}
