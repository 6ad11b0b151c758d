// Package queue holds the ordered set of active notifications.
package queue

import (
	"github.com/jmylchreest/toastq/internal/model"
)

// InsertResult is the outcome of Queue.Insert.
type InsertResult int

const (
	// Accepted means the record was appended to the queue.
	Accepted InsertResult = iota
	// Rejected means a non-repeated record with the same name is already active.
	Rejected
	// Invalid means the record failed validation and was dropped.
	Invalid
)

// String returns the string representation of InsertResult.
func (r InsertResult) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Queue is an insertion-ordered collection of active records.
// Display order is newest first; eviction order is oldest first.
// Queue is not safe for concurrent use; the owner serialises access.
type Queue[T any] struct {
	records []*model.Record[T]
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{
		records: make([]*model.Record[T], 0),
	}
}

// Insert appends rec unless a record with the same name is active and rec is
// neither repeated nor forced. A forced record is always admitted, so forcing
// an active name leaves two active records with that name.
func (q *Queue[T]) Insert(rec *model.Record[T]) InsertResult {
	if rec == nil || rec.Validate() != nil {
		return Invalid
	}

	if !rec.Repeated && !rec.Forced && q.Contains(rec.Name) {
		return Rejected
	}

	q.records = append(q.records, rec)
	return Accepted
}

// EvictOldest removes and returns the record that was created first.
// Records created at the same instant are evicted in insertion order.
func (q *Queue[T]) EvictOldest() (*model.Record[T], bool) {
	if len(q.records) == 0 {
		return nil, false
	}

	oldest := 0
	for i := 1; i < len(q.records); i++ {
		if q.records[i].Before(q.records[oldest]) {
			oldest = i
		}
	}

	rec := q.records[oldest]
	copy(q.records[oldest:], q.records[oldest+1:])
	q.records[len(q.records)-1] = nil
	q.records = q.records[:len(q.records)-1]

	return rec, true
}

// Clear removes every record and returns how many were dropped.
func (q *Queue[T]) Clear() int {
	n := len(q.records)
	q.records = make([]*model.Record[T], 0)
	return n
}

// Snapshot returns the active records, most recently inserted first.
func (q *Queue[T]) Snapshot() []*model.Record[T] {
	out := make([]*model.Record[T], len(q.records))
	for i, rec := range q.records {
		out[len(q.records)-1-i] = rec
	}
	return out
}

// Len returns the number of active records.
func (q *Queue[T]) Len() int {
	return len(q.records)
}

// Contains reports whether any active record has the given name.
func (q *Queue[T]) Contains(name string) bool {
	for _, rec := range q.records {
		if rec.Name == name {
			return true
		}
	}
	return false
}

// CountByName returns how many active records share the given name.
func (q *Queue[T]) CountByName(name string) int {
	count := 0
	for _, rec := range q.records {
		if rec.Name == name {
			count++
		}
	}
	return count
}
