package exploration

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chainlens/chainlens/pkg/errors"
)

// FileStore is a file-based exploration store for the CLI.
// Each exploration is one JSON file named after its ID.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store.
// If baseDir is empty, defaults to ~/.config/chainlens/explorations/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "chainlens", "explorations")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create exploration dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the base directory for exploration files.
func (s *FileStore) Path() string {
	return s.baseDir
}

// filePath maps an ID to its file. IDs that are not UUIDs never reach the
// filesystem, so a crafted ID cannot escape baseDir.
func (s *FileStore) filePath(id string) (string, error) {
	canon, err := ParseID(id)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, canon+".json"), nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Exploration, error) {
	path, err := s.filePath(id)
	if err != nil {
		return nil, NotFound(id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return readFile(path, id)
}

func (s *FileStore) Put(ctx context.Context, exp *Exploration) error {
	path, err := s.filePath(exp.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal exploration")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.baseDir, ".exploration-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "write exploration %s", exp.ID)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStorage, err, "write exploration %s", exp.ID)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStorage, err, "write exploration %s", exp.ID)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStorage, err, "write exploration %s", exp.ID)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	path, err := s.filePath(id)
	if err != nil {
		return NotFound(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return NotFound(id)
		}
		return errors.Wrap(errors.ErrCodeStorage, err, "remove exploration %s", id)
	}
	return nil
}

// List reads every exploration file. Files that fail to parse are skipped.
func (s *FileStore) List(ctx context.Context) ([]*Exploration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read exploration dir")
	}

	out := make([]*Exploration, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, ".") {
			continue
		}
		exp, err := readFile(filepath.Join(s.baseDir, name), strings.TrimSuffix(name, ".json"))
		if err != nil {
			continue
		}
		out = append(out, exp)
	}
	sortByUpdated(out)
	return out, nil
}

func (s *FileStore) Close() error { return nil }

func readFile(path, id string) (*Exploration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NotFound(id)
		}
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read exploration %s", id)
	}

	var exp Exploration
	if err := json.Unmarshal(data, &exp); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "parse exploration %s", id)
	}
	return &exp, nil
}

var _ Store = (*FileStore)(nil)
