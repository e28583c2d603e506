package domain

import "time"

// Aggregate holds the bookkeeping fields shared by persisted aggregates.
// Version is the optimistic-concurrency counter: zero means the aggregate
// has never been saved, and every successful save increments it by one.
type Aggregate struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	Version   int64     `json:"version"`
}

// Touch records a mutation at now.
func (a *Aggregate) Touch(now time.Time) {
	a.UpdatedAt = now
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (a *Aggregate) InitTimestamps(now time.Time) {
	a.CreatedAt = now
	a.UpdatedAt = now
}

// IsNew reports whether the aggregate has never been persisted.
func (a *Aggregate) IsNew() bool {
	return a.Version == 0
}
