package models

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryActivityRepo keeps the most recent entries in process memory. It is
// used when no MongoDB is configured.
type memoryActivityRepo struct {
	mu      sync.Mutex
	max     int
	entries []Activity
}

func NewMemoryActivityRepository(max int) ActivityRepository {
	if max <= 0 {
		max = 1000
	}
	return &memoryActivityRepo{max: max}
}

func (r *memoryActivityRepo) Record(_ context.Context, a *Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.At.IsZero() {
		a.At = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *a)
	if len(r.entries) > r.max {
		r.entries = r.entries[len(r.entries)-r.max:]
	}
	return nil
}

func (r *memoryActivityRepo) Recent(_ context.Context, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Activity{}
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
