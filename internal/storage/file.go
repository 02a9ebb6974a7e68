package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Mobo140/platform_common/pkg/logger"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var _ Storage = (*FileStorage)(nil)

// FileStorage keeps values in a YAML file that is rewritten on every change.
type FileStorage struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// OpenFile loads path, creating its directory when needed. A missing or
// unreadable file starts empty.
func OpenFile(path string) (*FileStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create credentials dir: %w", err)
	}

	s := &FileStorage{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	if err := yaml.Unmarshal(data, &s.values); err != nil {
		logger.Warn("credentials file is corrupt, starting empty", zap.String("path", path), zap.Error(err))
		s.values = make(map[string]string)
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}

	return s, nil
}

func (s *FileStorage) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.values[key]
}

func (s *FileStorage) Set(key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value

	return s.flush()
}

func (s *FileStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)

	return s.flush()
}

func (s *FileStorage) Close() error {
	return nil
}

// flush writes through a temp file so a crash never leaves a half-written file.
func (s *FileStorage) flush() error {
	data, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("create temp credentials: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close credentials: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace credentials: %w", err)
	}

	return nil
}
