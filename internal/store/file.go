package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/talari-hunar/boxoffice/internal/domain"
)

const (
	ledgerFileName  = "reserved-seats.json"
	journalFileName = "sales.json"
)

// FileStore keeps each document as one JSON file under a data directory. The
// directory is created lazily before the first write. Saves go through a temp
// file and a rename so no reader ever observes a half-written document.
type FileStore struct {
	dir    string
	logger *logrus.Logger
}

func NewFileStore(dir string, logger *logrus.Logger) *FileStore {
	return &FileStore{dir: dir, logger: logger}
}

func (s *FileStore) LoadLedger(ctx context.Context) (map[string][]string, error) {
	doc := make(map[string][]string)
	if err := s.load(ctx, ledgerFileName, &doc); err != nil {
		return make(map[string][]string), nil
	}
	return doc, nil
}

func (s *FileStore) SaveLedger(ctx context.Context, doc map[string][]string) error {
	if doc == nil {
		doc = make(map[string][]string)
	}
	return s.save(ctx, ledgerFileName, doc)
}

func (s *FileStore) LoadJournal(ctx context.Context) ([]domain.Sale, error) {
	var sales []domain.Sale
	if err := s.load(ctx, journalFileName, &sales); err != nil {
		return nil, nil
	}
	return sales, nil
}

func (s *FileStore) SaveJournal(ctx context.Context, sales []domain.Sale) error {
	if sales == nil {
		sales = []domain.Sale{}
	}
	return s.save(ctx, journalFileName, sales)
}

func (s *FileStore) load(ctx context.Context, name string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.WithError(err).Warnf("read %s, starting empty", name)
		}
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.WithError(err).Warnf("parse %s, starting empty", name)
		return err
	}
	return nil
}

func (s *FileStore) save(ctx context.Context, name string, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
