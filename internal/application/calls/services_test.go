package calls

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domain "github.com/callsight/callsight/internal/domain/calls"
)

type fakeRepo struct {
	saved    []*domain.CallRecord
	analyzed map[domain.Dataset][]*domain.CallRecord
	saveErr  error
}

func (f *fakeRepo) Save(ctx context.Context, c *domain.CallRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, c)
	return nil
}
func (f *fakeRepo) Get(ctx context.Context, id domain.CallID) (*domain.CallRecord, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeRepo) Latest(ctx context.Context, dataset domain.Dataset, limit int) ([]*domain.CallRecord, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeRepo) ListAnalyzed(ctx context.Context, dataset domain.Dataset) ([]*domain.CallRecord, error) {
	return f.analyzed[dataset], nil
}
func (f *fakeRepo) ApplyScorecard(ctx context.Context, id domain.CallID, sc *domain.Scorecard, at time.Time) error {
	return nil
}

type fakeArchive struct {
	putKey string
	putErr error
}

func (f *fakeArchive) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	f.putKey = key
	return "https://store.local/transcripts/" + key, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestUpload(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{}
	svc := &Service{Repo: repo, Clock: fixedClock{t: now}}

	rec, err := svc.Upload(context.Background(), UploadCommand{
		Filename:   "call-17.txt",
		Dataset:    domain.DatasetSetA,
		Transcript: "Agent: hello",
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if rec.ID == "" {
		t.Fatalf("no ID assigned")
	}
	if !rec.CreatedAt.Equal(now) {
		t.Fatalf("CreatedAt = %v, want %v", rec.CreatedAt, now)
	}
	if rec.Analyzed() {
		t.Fatalf("fresh upload marked analyzed")
	}
	if len(repo.saved) != 1 || repo.saved[0] != rec {
		t.Fatalf("record not saved")
	}
}

func TestUploadValidation(t *testing.T) {
	svc := &Service{Repo: &fakeRepo{}, Clock: fixedClock{}}

	if _, err := svc.Upload(context.Background(), UploadCommand{Dataset: domain.DatasetSetA}); err == nil {
		t.Fatalf("empty transcript accepted")
	}
	if _, err := svc.Upload(context.Background(), UploadCommand{Dataset: "set_c", Transcript: "x"}); err == nil {
		t.Fatalf("invalid dataset accepted")
	}
}

func TestUploadDefaultFilename(t *testing.T) {
	repo := &fakeRepo{}
	svc := &Service{Repo: repo, Clock: fixedClock{}}

	rec, err := svc.Upload(context.Background(), UploadCommand{
		Dataset:    domain.DatasetSetB,
		Transcript: "x",
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if rec.Filename != "transcript.txt" {
		t.Fatalf("Filename = %q", rec.Filename)
	}
}

func TestUploadArchives(t *testing.T) {
	repo := &fakeRepo{}
	archive := &fakeArchive{}
	svc := &Service{Repo: repo, Archive: archive, Clock: fixedClock{}}

	rec, err := svc.Upload(context.Background(), UploadCommand{
		Filename:   "call-17.txt",
		Dataset:    domain.DatasetSetA,
		Transcript: "Agent: hello",
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if rec.TranscriptURL == "" {
		t.Fatalf("TranscriptURL not set after archiving")
	}
	if !strings.HasPrefix(archive.putKey, "set_a/") || !strings.HasSuffix(archive.putKey, "-call-17.txt") {
		t.Fatalf("archive key = %q", archive.putKey)
	}
}

func TestUploadArchiveFailureAborts(t *testing.T) {
	repo := &fakeRepo{}
	svc := &Service{Repo: repo, Archive: &fakeArchive{putErr: errors.New("bucket gone")}, Clock: fixedClock{}}

	_, err := svc.Upload(context.Background(), UploadCommand{
		Dataset:    domain.DatasetSetA,
		Transcript: "x",
	})
	if err == nil {
		t.Fatalf("Upload() error = nil, want archive failure")
	}
	if len(repo.saved) != 0 {
		t.Fatalf("record saved despite archive failure")
	}
}

func TestAnalyzedConcatenatesCohorts(t *testing.T) {
	a1 := &domain.CallRecord{ID: "a1", Dataset: domain.DatasetSetA}
	a2 := &domain.CallRecord{ID: "a2", Dataset: domain.DatasetSetA}
	b1 := &domain.CallRecord{ID: "b1", Dataset: domain.DatasetSetB}
	repo := &fakeRepo{analyzed: map[domain.Dataset][]*domain.CallRecord{
		domain.DatasetSetA: {a1, a2},
		domain.DatasetSetB: {b1},
	}}
	svc := &Service{Repo: repo, Clock: fixedClock{}}

	got, err := svc.Analyzed(context.Background())
	if err != nil {
		t.Fatalf("Analyzed() error = %v", err)
	}
	if len(got) != 3 || got[0] != a1 || got[1] != a2 || got[2] != b1 {
		t.Fatalf("Analyzed() order wrong: %v", got)
	}
}
