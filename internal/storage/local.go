package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const metaSuffix = ".meta"

// LocalStorage keeps artifacts under a directory. Writes go to a temporary file
// first and are renamed into place, so readers never see a half-written page.
type LocalStorage struct {
	root string
}

// NewLocalStorage creates the root directory if needed
func NewLocalStorage(root string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", root, err)
	}
	return &LocalStorage{root: root}, nil
}

// BasePath returns the root directory
func (s *LocalStorage) BasePath() string {
	return s.root
}

// Put writes content at key; metadata, when given, goes to a ".meta" sidecar
func (s *LocalStorage) Put(ctx context.Context, key string, content []byte, metadata *Metadata) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := s.path(key)

	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata for %s: %w", key, err)
		}
		if err := writeAtomic(path+metaSuffix, raw); err != nil {
			return fmt.Errorf("failed to write metadata for %s: %w", key, err)
		}
	}
	if err := writeAtomic(path, content); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Get returns the content at key, or ErrNotFound
func (s *LocalStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, notFound(key, err)
	}
	return content, nil
}

// GetInfo returns size, checksum and metadata of key
func (s *LocalStorage) GetInfo(ctx context.Context, key string) (*FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.path(key)

	stat, err := os.Stat(path)
	if err != nil {
		return nil, notFound(key, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, notFound(key, err)
	}

	info := &FileInfo{
		Key:        key,
		Size:       stat.Size(),
		Checksum:   ComputeChecksum(content),
		ModifiedAt: stat.ModTime(),
	}
	// a missing or corrupt sidecar leaves Metadata nil
	if raw, err := os.ReadFile(path + metaSuffix); err == nil {
		var metadata Metadata
		if json.Unmarshal(raw, &metadata) == nil {
			info.Metadata = &metadata
		}
	}
	return info, nil
}

// Exists reports whether key is stored
func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to stat %s: %w", key, err)
	}
}

// Delete removes key and its sidecar. Missing keys are not an error.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	path := s.path(key)
	for _, p := range []string{path, path + metaSuffix} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}

// List returns the sorted keys starting with prefix
func (s *LocalStorage) List(ctx context.Context, prefix string) ([]string, error) {
	keys := []string{}
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, metaSuffix) || isTemp(d.Name()) {
			return nil
		}
		if key := s.key(path); strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %q: %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}

// path maps key under the root; ".." segments cannot climb out of it
func (s *LocalStorage) path(key string) string {
	return filepath.Join(s.root, filepath.Clean("/"+filepath.FromSlash(key)))
}

func (s *LocalStorage) key(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

const tempPrefix = ".tmp-"

func isTemp(name string) bool {
	return strings.HasPrefix(name, tempPrefix)
}

func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, tempPrefix+"*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func notFound(key string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return fmt.Errorf("failed to read %s: %w", key, err)
}

// ComputeChecksum returns the hex SHA-256 of content
func ComputeChecksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
