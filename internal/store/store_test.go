package store

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/fieldscan/fieldscan/internal/document"
	"github.com/fieldscan/fieldscan/internal/home"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	h, err := home.New(t.TempDir())
	if err != nil {
		t.Fatalf("home.New() error = %v", err)
	}
	return New(h, nil)
}

func TestSaveImage(t *testing.T) {
	s := newTestStore(t)

	path, err := s.SaveImage("doc-1", ".jpg", []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("SaveImage() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("saved image = %q, want %q", data, "jpeg-bytes")
	}
}

func TestSaveResult_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	rec := &Record{
		ID:          "doc-1",
		Filename:    "voyage_28011.jpg",
		ProcessedAt: time.Date(2026, 8, 24, 14, 30, 0, 0, time.UTC),
		Data: &document.FieldDocument{
			Barge: document.BargeInfo{Name: "MV KIRBY 28011"},
			Port:  document.PortInfo{VesselName: "KIRBY 28011"},
		},
	}
	if err := s.SaveResult(rec); err != nil {
		t.Fatalf("SaveResult() error = %v", err)
	}

	got, err := s.LoadResult("doc-1")
	if err != nil {
		t.Fatalf("LoadResult() error = %v", err)
	}
	if got.ID != rec.ID {
		t.Errorf("ID = %q, want %q", got.ID, rec.ID)
	}
	if got.Filename != rec.Filename {
		t.Errorf("Filename = %q, want %q", got.Filename, rec.Filename)
	}
	if !got.ProcessedAt.Equal(rec.ProcessedAt) {
		t.Errorf("ProcessedAt = %v, want %v", got.ProcessedAt, rec.ProcessedAt)
	}
	if got.Data == nil || got.Data.Barge.Name != "MV KIRBY 28011" {
		t.Error("Data did not round-trip")
	}
}

func TestLoadResult_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LoadResult("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadResult() error = %v, want ErrNotFound", err)
	}
}
