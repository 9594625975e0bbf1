package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrStorage wraps every failure of the backing storage.
var ErrStorage = errors.New("knowledge storage failure")

// Document is a titled entry of the knowledge corpus.
type Document struct {
	ID        uint                   `json:"id"`
	Title     string                 `json:"title"`
	Body      string                 `json:"body"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// Store holds the knowledge corpus. All returns documents ordered by id.
// An empty corpus is a valid result, never an error.
type Store interface {
	Insert(ctx context.Context, title, body string, metadata map[string]interface{}) (uint, error)
	All(ctx context.Context) ([]Document, error)
	Count(ctx context.Context) (int64, error)
	Clear(ctx context.Context) error
	// Reseed overwrites the body of the document titled title when it lacks
	// marker, or inserts it when missing. It reports whether it wrote.
	Reseed(ctx context.Context, title, body, marker string) (bool, error)
	DeleteByTitle(ctx context.Context, title string) (int64, error)
}

func StorageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}
