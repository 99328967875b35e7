// Package catalog implements single-row browse and edit operations on museum
// records.
package catalog

import (
	"context"
	"log/slog"

	"github.com/roach88/museum/internal/hook"
	"github.com/roach88/museum/internal/record"
)

// Store is the persistence the catalog needs. Both store.Store and
// pgstore.Store satisfy it.
type Store interface {
	List(ctx context.Context) ([]record.Record, error)
	Get(ctx context.Context, objectID int64) (record.Record, error)
	Insert(ctx context.Context, rec record.Record) error
	Update(ctx context.Context, rec record.Record) error
	Delete(ctx context.Context, objectID int64) error
	Count(ctx context.Context) (int, error)
}

// Service wraps a Store with normalisation, validation and write events.
type Service struct {
	store    Store
	observer hook.Observer
	logger   *slog.Logger
}

// NewService returns a Service. observer may be nil.
func NewService(s Store, observer hook.Observer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: s, observer: observer, logger: logger}
}

// List returns every record ordered by objectId.
func (s *Service) List(ctx context.Context) ([]record.Record, error) {
	return s.store.List(ctx)
}

// Get returns one record or a NOT_FOUND error.
func (s *Service) Get(ctx context.Context, objectID int64) (record.Record, error) {
	return s.store.Get(ctx, objectID)
}

// Count returns the number of records.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// Create inserts a new record. A duplicate objectId returns a CONFLICT error
// and leaves the store unchanged.
func (s *Service) Create(ctx context.Context, rec record.Record) (record.Record, error) {
	rec.Normalize()
	if err := checkRecord(rec); err != nil {
		return record.Record{}, err
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return record.Record{}, err
	}

	s.logger.DebugContext(ctx, "record created", "object_id", rec.ObjectID)
	hook.Notify(ctx, s.observer, hook.Event{Kind: hook.KindCreated, ObjectID: rec.ObjectID, Source: "catalog"})
	return rec, nil
}

// Edit replaces the record identified by objectID. Any objectId carried in
// rec is ignored.
func (s *Service) Edit(ctx context.Context, objectID int64, rec record.Record) (record.Record, error) {
	rec.ObjectID = objectID
	rec.Normalize()
	if err := checkRecord(rec); err != nil {
		return record.Record{}, err
	}
	if err := s.store.Update(ctx, rec); err != nil {
		return record.Record{}, err
	}

	s.logger.DebugContext(ctx, "record updated", "object_id", objectID)
	hook.Notify(ctx, s.observer, hook.Event{Kind: hook.KindUpdated, ObjectID: objectID, Source: "catalog"})
	return rec, nil
}

// Delete removes one record or returns a NOT_FOUND error.
func (s *Service) Delete(ctx context.Context, objectID int64) error {
	if err := s.store.Delete(ctx, objectID); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "record deleted", "object_id", objectID)
	hook.Notify(ctx, s.observer, hook.Event{Kind: hook.KindDeleted, ObjectID: objectID, Source: "catalog"})
	return nil
}

// checkRecord validates rec and requires the mandatory text fields.
func checkRecord(rec record.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	for _, f := range record.Columns {
		if f.Required && f.Format(rec) == "" {
			e := record.NewValidationError(f.Name, "this field is required")
			e.ObjectID = rec.ObjectID
			return e
		}
	}
	return nil
}
