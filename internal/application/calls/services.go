package calls

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"

	"github.com/callsight/callsight/internal/application"
	domain "github.com/callsight/callsight/internal/domain/calls"
)

// Service implements upload and read use cases for call records.
type Service struct {
	Repo    domain.Repository
	Archive domain.TranscriptStore // optional; nil disables archiving
	Clock   application.Clock
}

type UploadCommand struct {
	Filename   string
	Dataset    domain.Dataset
	Transcript string
}

// Upload creates an unanalyzed record and archives the raw transcript to
// object storage when an archive is configured.
func (s *Service) Upload(ctx context.Context, cmd UploadCommand) (*domain.CallRecord, error) {
	if cmd.Transcript == "" {
		return nil, fmt.Errorf("transcript is required")
	}
	if !cmd.Dataset.Valid() {
		return nil, fmt.Errorf("invalid datasetType: %s", cmd.Dataset)
	}
	filename := cmd.Filename
	if filename == "" {
		filename = "transcript.txt"
	}

	rec := &domain.CallRecord{
		ID:         domain.CallID(uuid.New().String()),
		Filename:   filename,
		Dataset:    cmd.Dataset,
		Transcript: cmd.Transcript,
		CreatedAt:  s.Clock.Now(),
	}

	if s.Archive != nil {
		key := fmt.Sprintf("%s/%s-%s", cmd.Dataset, rec.ID, path.Base(filename))
		url, err := s.Archive.Put(ctx, key, []byte(cmd.Transcript), "text/plain")
		if err != nil {
			return nil, fmt.Errorf("archiving transcript: %w", err)
		}
		rec.TranscriptURL = url
	}

	if err := s.Repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Latest ambil N record terakhir untuk satu cohort (atau semua)
func (s *Service) Latest(ctx context.Context, dataset domain.Dataset, limit int) ([]*domain.CallRecord, error) {
	return s.Repo.Latest(ctx, dataset, limit)
}

// Get ambil 1 record by id
func (s *Service) Get(ctx context.Context, id domain.CallID) (*domain.CallRecord, error) {
	return s.Repo.Get(ctx, id)
}

// Analyzed returns every analyzed record, set A first then set B, each
// cohort in insertion order. Feeds the workbook export.
func (s *Service) Analyzed(ctx context.Context) ([]*domain.CallRecord, error) {
	setA, err := s.Repo.ListAnalyzed(ctx, domain.DatasetSetA)
	if err != nil {
		return nil, err
	}
	setB, err := s.Repo.ListAnalyzed(ctx, domain.DatasetSetB)
	if err != nil {
		return nil, err
	}
	return append(setA, setB...), nil
}
