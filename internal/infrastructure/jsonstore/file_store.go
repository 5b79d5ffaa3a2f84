// Package jsonstore persists events as a JSON array in a single file.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"eventosbot/internal/domain"
	"eventosbot/internal/domain/entities"
	"eventosbot/internal/ports/output"
)

var _ output.EventStore = (*FileStore)(nil)

// FileStore implements output.EventStore on top of a JSON file. Writes go to
// a temporary file in the same directory which is then renamed over the
// target, so a crash mid-write leaves the previous file intact.
type FileStore struct {
	path string
	loc  *time.Location
	now  func() time.Time
}

// NewFileStore creates a FileStore for path. Start timestamps are read and
// written in loc.
func NewFileStore(path string, loc *time.Location) *FileStore {
	if loc == nil {
		loc = time.Local
	}
	return &FileStore{path: path, loc: loc, now: time.Now}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) LoadAll(ctx context.Context) ([]entities.Event, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []entities.Event{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", s.path, err)
	}

	var records []eventRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, s.corrupt(raw, err)
	}
	events := make([]entities.Event, 0, len(records))
	for _, r := range records {
		e, err := recordToDomain(r, s.loc)
		if err != nil {
			return nil, s.corrupt(raw, err)
		}
		events = append(events, e)
	}
	return events, nil
}

// corrupt keeps a copy of the unreadable file next to the original so the
// next SaveAll does not destroy the only copy of the data.
func (s *FileStore) corrupt(raw []byte, cause error) error {
	backup := fmt.Sprintf("%s.corrupt-%d", s.path, s.now().Unix())
	if err := os.WriteFile(backup, raw, 0o644); err != nil {
		log.Printf("❌ No se pudo respaldar el almacén dañado en %s: %v", backup, err)
	} else {
		log.Printf("⚠️ Almacén dañado respaldado en %s", backup)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrCorruptStore, s.path, cause)
}

func (s *FileStore) SaveAll(ctx context.Context, events []entities.Event) error {
	records := make([]eventRecord, len(events))
	for i, e := range events {
		records[i] = recordFromDomain(e, s.loc)
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("serializar eventos: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("crear directorio %s: %w", dir, err)
	}
	temp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("crear archivo temporal: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("escribir archivo temporal: %w", err)
	}
	if err := temp.Sync(); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("sincronizar archivo temporal: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("cerrar archivo temporal: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renombrar archivo temporal: %w", err)
	}
	return nil
}
