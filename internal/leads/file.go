package leads

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"esklenchen/server/internal/models"
)

// FileStore appends leads as JSON lines to one file per lead kind.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lead directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the file leads of the given kind are written to.
func (s *FileStore) Path(kind models.LeadKind) string {
	return filepath.Join(s.dir, string(kind)+".jsonl")
}

func (s *FileStore) Save(ctx context.Context, leads []models.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	byKind := make(map[models.LeadKind][]models.Lead)
	for _, lead := range leads {
		byKind[lead.Kind] = append(byKind[lead.Kind], lead)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for kind, batch := range byKind {
		if err := s.appendLines(s.Path(kind), batch); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileStore) appendLines(path string, leads []models.Lead) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open lead file: %w", err)
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, lead := range leads {
		if err := enc.Encode(lead); err != nil {
			f.Close()
			return fmt.Errorf("failed to encode lead %s: %w", lead.ID, err)
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write lead file: %w", err)
	}
	return f.Close()
}

func (s *FileStore) Close() error {
	return nil
}
