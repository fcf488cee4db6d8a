// Package history keeps the list of saved profile analyses.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/scholarnav/internal/kv"
	"github.com/abhisek/scholarnav/internal/scholarship"
)

// Key is the storage key holding the saved-record list.
const Key = "scholarship_navigator_saved"

// SavedRecord pairs a submitted profile with the analysis it received.
type SavedRecord struct {
	ID          string                     `json:"id"`
	Timestamp   int64                      `json:"timestamp"` // Unix milliseconds.
	StudentInfo scholarship.StudentProfile `json:"studentInfo"`
	Analysis    scholarship.AnalysisResult `json:"analysis"`
}

// SavedAt returns Timestamp as a time.Time.
func (r SavedRecord) SavedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Repository reads and writes the saved-record list as a single value.
// It does no locking of its own; one process is expected to own the list.
type Repository struct {
	store  kv.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewRepository creates a Repository over store. A nil logger disables
// logging.
func NewRepository(store kv.Store, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{store: store, logger: logger, now: time.Now}
}

// Load returns the saved records, newest first. A missing, unreadable or
// unparsable value yields an empty list; the problem is logged, not
// returned.
func (r *Repository) Load(ctx context.Context) []SavedRecord {
	data, ok, err := r.store.Get(ctx, Key)
	if err != nil {
		r.logger.Warn("failed to read saved records", zap.Error(err))
		return []SavedRecord{}
	}
	if !ok {
		return []SavedRecord{}
	}

	var records []SavedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		r.logger.Warn("discarding unparsable saved records",
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
		return []SavedRecord{}
	}
	if records == nil {
		records = []SavedRecord{}
	}
	return records
}

// Save replaces the stored list with records.
func (r *Repository) Save(ctx context.Context, records []SavedRecord) error {
	if records == nil {
		records = []SavedRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode saved records: %w", err)
	}
	if err := r.store.Put(ctx, Key, data); err != nil {
		return fmt.Errorf("write saved records: %w", err)
	}
	return nil
}

// Add saves a new record at the front of the list and returns it.
func (r *Repository) Add(ctx context.Context, profile scholarship.StudentProfile, analysis scholarship.AnalysisResult) (SavedRecord, error) {
	rec := SavedRecord{
		ID:          uuid.NewString(),
		Timestamp:   r.now().UnixMilli(),
		StudentInfo: profile,
		Analysis:    analysis,
	}
	records := append([]SavedRecord{rec}, r.Load(ctx)...)
	if err := r.Save(ctx, records); err != nil {
		return SavedRecord{}, err
	}
	r.logger.Debug("saved analysis", zap.String("id", rec.ID), zap.Int("total", len(records)))
	return rec, nil
}

// Get returns the record with id.
func (r *Repository) Get(ctx context.Context, id string) (SavedRecord, bool) {
	records := r.Load(ctx)
	i := slices.IndexFunc(records, func(rec SavedRecord) bool { return rec.ID == id })
	if i < 0 {
		return SavedRecord{}, false
	}
	return records[i], true
}

// Delete removes the record with id. Deleting an unknown id is a no-op
// and leaves the stored value untouched.
func (r *Repository) Delete(ctx context.Context, id string) error {
	records := r.Load(ctx)
	kept := slices.DeleteFunc(slices.Clone(records), func(rec SavedRecord) bool { return rec.ID == id })
	if len(kept) == len(records) {
		return nil
	}
	return r.Save(ctx, kept)
}

// Clear removes every saved record.
func (r *Repository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, Key); err != nil {
		return fmt.Errorf("clear saved records: %w", err)
	}
	return nil
}
