// Package model defines the core data structures for toastq.
package model

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// Producer lazily produces the displayable content of a notification.
// It is invoked when a snapshot is rendered, never at insertion time.
type Producer[T any] func() T

// Record is a single queued notification.
type Record[T any] struct {
	ID        string      // ULID assigned at insertion
	Name      string      // Identity used for dedup and repeat detection
	Forced    bool        // Bypassed the dedup cache
	Repeated  bool        // May coexist with other records of the same name
	Content   Producer[T] // Invoked lazily at render time
	CreatedAt time.Time   // Insertion time, used for removal order
	Seq       uint64      // Insertion sequence, breaks CreatedAt ties
}

// Validation errors.
var (
	ErrEmptyName  = errors.New("notification name cannot be empty")
	ErrNilContent = errors.New("notification content producer cannot be nil")
)

// NewRecord creates a Record with a generated ULID.
func NewRecord[T any](name string, forced, repeated bool, content Producer[T], now time.Time, seq uint64) (*Record[T], error) {
	id, err := ulid.New(ulidTime(now), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ULID: %w", err)
	}

	return &Record[T]{
		ID:        id.String(),
		Name:      name,
		Forced:    forced,
		Repeated:  repeated,
		Content:   content,
		CreatedAt: now,
		Seq:       seq,
	}, nil
}

// ulidTime converts now to ULID milliseconds, clamped to the range a ULID
// can encode. ulid.Timestamp wraps times before the Unix epoch.
func ulidTime(now time.Time) uint64 {
	if now.Before(time.UnixMilli(0)) {
		return 0
	}
	return min(ulid.Timestamp(now), ulid.MaxTime())
}

// Validate checks that the record can be queued.
func (r *Record[T]) Validate() error {
	if r.Name == "" {
		return ErrEmptyName
	}
	if r.Content == nil {
		return ErrNilContent
	}
	return nil
}

// Before reports whether r should be evicted before other.
// Older records go first; records created at the same instant keep insertion order.
func (r *Record[T]) Before(other *Record[T]) bool {
	if r.CreatedAt.Equal(other.CreatedAt) {
		return r.Seq < other.Seq
	}
	return r.CreatedAt.Before(other.CreatedAt)
}

// Age returns how long the record has been queued as of now.
func (r *Record[T]) Age(now time.Time) time.Duration {
	if now.Before(r.CreatedAt) {
		return 0
	}
	return now.Sub(r.CreatedAt)
}

// Render invokes the content producer.
func (r *Record[T]) Render() T {
	return r.Content()
}
