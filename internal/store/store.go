// Package store persists uploaded document images and extraction result
// records under the fieldscan home directory.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fieldscan/fieldscan/internal/document"
	"github.com/fieldscan/fieldscan/internal/home"
)

// ErrNotFound is returned when no result record exists for a document ID.
var ErrNotFound = errors.New("result not found")

// Record is the persisted outcome of a successful extraction.
type Record struct {
	ID          string                  `json:"id"`
	Filename    string                  `json:"filename"`
	ProcessedAt time.Time               `json:"processed_at"`
	Data        *document.FieldDocument `json:"data"`
}

// Store reads and writes the on-disk document archive. Images are written
// on upload; result records are written only after a successful extraction,
// so a readable record always carries a valid document.
type Store struct {
	home   *home.Dir
	logger *slog.Logger
}

// New creates a store over the given home directory.
func New(h *home.Dir, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{home: h, logger: logger}
}

// SaveImage persists an uploaded image under its document ID and returns the
// path it was written to. ext includes the leading dot and may be empty.
func (s *Store) SaveImage(id, ext string, data []byte) (string, error) {
	if err := s.home.EnsureExists(); err != nil {
		return "", err
	}

	path := s.home.ImagePath(id, ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	s.logger.Debug("saved document image", "id", id, "path", path, "bytes", len(data))
	return path, nil
}

// SaveResult persists a result record for a completed extraction.
func (s *Store) SaveResult(rec *Record) error {
	if err := s.home.EnsureExists(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result record: %w", err)
	}

	path := s.home.ResultPath(rec.ID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save result record: %w", err)
	}

	s.logger.Debug("saved result record", "id", rec.ID, "path", path)
	return nil
}

// LoadResult reads the result record for a document ID. Returns ErrNotFound
// when no record exists.
func (s *Store) LoadResult(id string) (*Record, error) {
	data, err := os.ReadFile(s.home.ResultPath(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read result record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode result record: %w", err)
	}
	return &rec, nil
}
