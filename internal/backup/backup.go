// Package backup copies the record set to blob storage and restores it.
//
// A backup serialises every record, in objectId order, to a single CSV object
// named BlobName. A restore downloads that object and feeds it through the
// ingestion pipeline in bulk mode, so records already present are skipped.
// Neither operation retries.
package backup

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/museum/internal/blob"
	"github.com/roach88/museum/internal/ingest"
	"github.com/roach88/museum/internal/record"
)

// BlobName is the fixed object name of the backup.
const BlobName = "museum_data.csv"

// Outcome identifies how a backup or restore ended.
type Outcome string

const (
	OutcomeCompleted        Outcome = "completed"
	OutcomeNothingToBackup  Outcome = "nothing_to_backup"
	OutcomeRestored         Outcome = "restored"
	OutcomeNothingToRestore Outcome = "nothing_to_restore"
	OutcomeFailed           Outcome = "failed"
)

// Message returns the user-facing text for o.
func (o Outcome) Message() string {
	switch o {
	case OutcomeCompleted:
		return "Backup Completed successfully"
	case OutcomeNothingToBackup:
		return "Nothing to backup"
	case OutcomeRestored:
		return "Backup restored successfully"
	case OutcomeNothingToRestore:
		return "Nothing to restore"
	case OutcomeFailed:
		return "Operation failed"
	}
	return string(o)
}

// Lister reads the current record set.
type Lister interface {
	List(ctx context.Context) ([]record.Record, error)
	Count(ctx context.Context) (int, error)
}

// Ingester loads a CSV payload.
type Ingester interface {
	Ingest(ctx context.Context, payload []byte, mode ingest.Mode) (ingest.Result, error)
}

// Adapter moves the record set between the store and a bucket.
type Adapter struct {
	Records  Lister
	Blobs    blob.Store
	Pipeline Ingester
	Bucket   string
	Logger   *slog.Logger
}

func (a *Adapter) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// Backup uploads every record as BlobName.
//
// An empty store returns OutcomeNothingToBackup and a nil error. A blob
// failure returns OutcomeFailed and a TRANSPORT error.
func (a *Adapter) Backup(ctx context.Context) (Outcome, error) {
	n, err := a.Records.Count(ctx)
	if err != nil {
		return OutcomeFailed, err
	}
	if n == 0 {
		a.logger().InfoContext(ctx, "backup skipped", "reason", "no records")
		return OutcomeNothingToBackup, nil
	}

	recs, err := a.Records.List(ctx)
	if err != nil {
		return OutcomeFailed, err
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, recs); err != nil {
		return OutcomeFailed, err
	}

	if err := a.Blobs.Put(ctx, a.Bucket, BlobName, buf.Bytes()); err != nil {
		a.logger().ErrorContext(ctx, "backup upload failed", "bucket", a.Bucket, "error", err)
		return OutcomeFailed, record.NewTransportError("backup upload", err)
	}

	a.logger().InfoContext(ctx, "backup completed", "bucket", a.Bucket, "object", BlobName, "records", len(recs), "bytes", buf.Len())
	return OutcomeCompleted, nil
}

// Restore downloads BlobName and ingests it in bulk mode.
//
// A missing object returns OutcomeNothingToRestore and a nil error. Other blob
// failures return OutcomeFailed and a TRANSPORT error. Ingestion errors are
// returned unchanged.
func (a *Adapter) Restore(ctx context.Context) (Outcome, ingest.Result, error) {
	data, err := a.Blobs.Get(ctx, a.Bucket, BlobName)
	if errors.Is(err, blob.ErrNotFound) {
		a.logger().InfoContext(ctx, "restore skipped", "reason", "no backup", "bucket", a.Bucket)
		return OutcomeNothingToRestore, ingest.Result{}, nil
	}
	if err != nil {
		a.logger().ErrorContext(ctx, "restore download failed", "bucket", a.Bucket, "error", err)
		return OutcomeFailed, ingest.Result{}, record.NewTransportError("restore download", err)
	}

	result, err := a.Pipeline.Ingest(ctx, data, ingest.ModeBulk)
	if err != nil {
		return OutcomeFailed, result, err
	}

	a.logger().InfoContext(ctx, "restore completed", "bucket", a.Bucket,
		"inserted", result.Inserted, "skipped", result.Skipped)
	return OutcomeRestored, result, nil
}
