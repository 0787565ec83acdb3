package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/callsight/callsight/internal/application/analysis"
	appcalls "github.com/callsight/callsight/internal/application/calls"
	appcomparison "github.com/callsight/callsight/internal/application/comparison"
	domain "github.com/callsight/callsight/internal/domain/calls"
	"github.com/callsight/callsight/internal/domain/comparisons"
	"github.com/callsight/callsight/internal/infra/export"
	"github.com/callsight/callsight/internal/middleware"
)

type Router struct {
	analysisSvc   *appanalysis.Service
	comparisonSvc *appcomparison.Service
	callsSvc      *appcalls.Service
	snapshots     comparisons.Repository
}

func NewRouter(analysisSvc *appanalysis.Service, comparisonSvc *appcomparison.Service, callsSvc *appcalls.Service, snapshots comparisons.Repository, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{
		analysisSvc:   analysisSvc,
		comparisonSvc: comparisonSvc,
		callsSvc:      callsSvc,
		snapshots:     snapshots,
	}
	mux := chi.NewRouter()

	// Browser dashboard calls these endpoints cross-origin
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
	}))

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Post("/calls", r.wrap("Upload failed", r.handleUpload))
		rt.Get("/calls", r.wrap("error fetching call data", r.handleLatestCalls))
		rt.Get("/calls/{id}", r.wrap("error fetching call data", r.handleGetCall))
		rt.Post("/analyze", r.wrap("Analysis failed", r.handleAnalyze))
		rt.Post("/compare", r.wrap("Comparison analysis failed", r.handleCompare))
		rt.Get("/comparisons/latest", r.wrap("error fetching comparison data", r.handleLatestComparison))
		rt.Get("/export", r.wrap("Export failed", r.handleExport))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap translates handler errors into the JSON error envelope. label is the
// stable error name; the underlying cause travels in details.
func (r *Router) wrap(label string, h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				writeJSON(w, http.StatusNotFound, map[string]any{"error": "not found"})
				return
			}
			if errors.Is(err, appcomparison.ErrInsufficientData) {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":   label,
				"details": err.Error(),
			})
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// POST /v1/calls
// Body: {"filename": "...", "datasetType": "set_a", "transcript": "..."}
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Filename   string `json:"filename"`
		Dataset    string `json:"datasetType"`
		Transcript string `json:"transcript"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}

	rec, err := r.callsSvc.Upload(req.Context(), appcalls.UploadCommand{
		Filename:   body.Filename,
		Dataset:    domain.Dataset(body.Dataset),
		Transcript: body.Transcript,
	})
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusCreated, rec)
	return nil
}

// POST /v1/analyze
// Body: {"callId": "<id>", "transcript": "...", "datasetType": "set_a"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		CallID     string `json:"callId"`
		Transcript string `json:"transcript"`
		Dataset    string `json:"datasetType"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}

	sc, err := r.analysisSvc.Analyze(req.Context(), appanalysis.AnalyzeCommand{
		CallID:     domain.CallID(body.CallID),
		Transcript: body.Transcript,
		Dataset:    domain.Dataset(body.Dataset),
	})
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}
	middleware.IncrementAnalyses()

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Call analyzed successfully",
		"analysis": sc,
	})
	return nil
}

// POST /v1/compare
// No body; the whole store is recomputed on every call.
func (r *Router) handleCompare(w http.ResponseWriter, req *http.Request) error {
	res, err := r.comparisonSvc.Run(req.Context())
	if err != nil {
		if !errors.Is(err, appcomparison.ErrInsufficientData) {
			middleware.IncrementComparisonsFailed()
		}
		return err
	}
	middleware.IncrementComparisons()

	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		*appcomparison.Result
	}{true, res})
	return nil
}

// GET /v1/calls?dataset=set_a&limit=20
func (r *Router) handleLatestCalls(w http.ResponseWriter, req *http.Request) error {
	dataset := domain.Dataset(req.URL.Query().Get("dataset"))
	if dataset != "" && !dataset.Valid() {
		return fmt.Errorf("invalid dataset: %s", dataset)
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.callsSvc.Latest(req.Context(), dataset, limit)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.CallRecord{}
	}

	writeJSON(w, http.StatusOK, list)
	return nil
}

// GET /v1/calls/{id}
func (r *Router) handleGetCall(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")

	rec, err := r.callsSvc.Get(req.Context(), domain.CallID(id))
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, rec)
	return nil
}

// GET /v1/comparisons/latest
func (r *Router) handleLatestComparison(w http.ResponseWriter, req *http.Request) error {
	snap, err := r.snapshots.Latest(req.Context())
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, snap)
	return nil
}

// GET /v1/export
func (r *Router) handleExport(w http.ResponseWriter, req *http.Request) error {
	records, err := r.callsSvc.Analyzed(req.Context())
	if err != nil {
		return err
	}

	name := fmt.Sprintf("sales-calls-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	return export.WriteWorkbook(w, records)
}
