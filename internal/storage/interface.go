package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a key does not exist
var ErrNotFound = errors.New("storage: not found")

// Metadata describes a stored artifact
type Metadata struct {
	ContentType string            `json:"contentType,omitempty"`
	Source      string            `json:"source,omitempty"`
	Category    string            `json:"category,omitempty"`
	GeneratedAt time.Time         `json:"generatedAt,omitempty"`
	Custom      map[string]string `json:"custom,omitempty"`
}

// FileInfo contains information about a stored artifact
type FileInfo struct {
	Key        string    `json:"key"`
	Size       int64     `json:"size"`
	Checksum   string    `json:"checksum"`
	ModifiedAt time.Time `json:"modifiedAt"`
	Metadata   *Metadata `json:"metadata,omitempty"`
}

// Storage stores catalog spreadsheets and rendered page snapshots.
// Implementations can be local filesystem, S3, GCS, etc.
type Storage interface {
	Put(ctx context.Context, key string, content []byte, metadata *Metadata) error
	Get(ctx context.Context, key string) ([]byte, error)
	GetInfo(ctx context.Context, key string) (*FileInfo, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// StorageType represents the type of storage backend
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
)

// New builds a storage backend by type
func New(kind, basePath string) (Storage, error) {
	switch StorageType(kind) {
	case StorageTypeLocal, "":
		return NewLocalStorage(basePath)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", kind)
	}
}

// PageKey is the key of a rendered storefront snapshot
func PageKey(category string, at time.Time) string {
	return fmt.Sprintf("pages/%s/%s.html", at.UTC().Format("2006-01-02"), category)
}

// WorkbookKey is the key of an exported catalog spreadsheet
func WorkbookKey(name string) string {
	return fmt.Sprintf("catalog/%s.xlsx", name)
}
