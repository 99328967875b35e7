package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/roach88/museum/internal/hook"
	"github.com/roach88/museum/internal/record"
)

// Writer is the subset of a store the pipeline writes through.
type Writer interface {
	BulkInsert(ctx context.Context, recs []record.Record) (inserted, skipped int, err error)
	Insert(ctx context.Context, rec record.Record) error
}

// Mode selects how records are written.
type Mode string

const (
	// ModeBulk writes every record in one transaction and silently skips
	// objectIds that already exist.
	ModeBulk Mode = "bulk"

	// ModeStrict inserts records one at a time and reports each duplicate
	// objectId in Result.Conflicts.
	ModeStrict Mode = "strict"
)

// ParseMode converts a user-supplied mode name. Empty means ModeBulk.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeBulk):
		return ModeBulk, nil
	case string(ModeStrict):
		return ModeStrict, nil
	}
	return "", record.NewValidationError("mode", fmt.Sprintf("unknown ingest mode %q", s))
}

// Result summarises one Ingest call.
type Result struct {
	BatchID  string `json:"batchId"`
	Mode     Mode   `json:"mode"`
	Rows     int    `json:"rows"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`

	// Conflicts lists the duplicate objectIds seen in strict mode.
	Conflicts []*record.Error `json:"-"`
}

// Pipeline turns CSV payloads into stored records.
type Pipeline struct {
	writer       Writer
	verifyHeader bool
	observer     hook.Observer
	batchIDs     BatchIDGenerator
	source       string
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithHeaderCheck enables or disables verification of the header row.
func WithHeaderCheck(enabled bool) Option {
	return func(p *Pipeline) { p.verifyHeader = enabled }
}

// WithObserver sets the observer notified after each ingestion.
func WithObserver(o hook.Observer) Option {
	return func(p *Pipeline) { p.observer = o }
}

// WithBatchIDs sets the batch id generator.
func WithBatchIDs(g BatchIDGenerator) Option {
	return func(p *Pipeline) { p.batchIDs = g }
}

// WithSource names the caller in events and logs.
func WithSource(source string) Option {
	return func(p *Pipeline) { p.source = source }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a pipeline writing through w.
func New(w Writer, opts ...Option) *Pipeline {
	p := &Pipeline{
		writer:       w,
		verifyHeader: true,
		batchIDs:     UUIDv7Generator{},
		source:       "upload",
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Ingest parses payload and writes its records in the given mode.
//
// Every row is mapped and validated before anything is written: a single bad
// row aborts the file with a VALIDATION error carrying its line number, and
// the store is left unchanged.
func (p *Pipeline) Ingest(ctx context.Context, payload []byte, mode Mode) (Result, error) {
	if mode == "" {
		mode = ModeBulk
	}
	if mode != ModeBulk && mode != ModeStrict {
		return Result{}, record.NewValidationError("mode", fmt.Sprintf("unknown ingest mode %q", mode))
	}
	result := Result{BatchID: p.batchIDs.Generate(), Mode: mode}
	logger := p.logger.With("batch_id", result.BatchID, "mode", string(mode), "source", p.source)

	recs, err := p.decode(payload)
	if err != nil {
		logger.Debug("ingest rejected", "error", err)
		return result, err
	}
	result.Rows = len(recs)

	switch mode {
	case ModeBulk:
		result.Inserted, result.Skipped, err = p.writer.BulkInsert(ctx, recs)
		if err != nil {
			return result, fmt.Errorf("bulk ingest: %w", err)
		}
	case ModeStrict:
		for _, rec := range recs {
			err := p.writer.Insert(ctx, rec)
			switch {
			case err == nil:
				result.Inserted++
			case record.IsConflict(err):
				var rerr *record.Error
				errors.As(err, &rerr)
				result.Conflicts = append(result.Conflicts, rerr)
				result.Skipped++
			default:
				return result, fmt.Errorf("strict ingest: objectId %d: %w", rec.ObjectID, err)
			}
		}
	}

	logger.Debug("ingest complete", "rows", result.Rows, "inserted", result.Inserted, "skipped", result.Skipped)
	hook.Notify(ctx, p.observer, hook.Event{
		Kind:     hook.KindIngested,
		BatchID:  result.BatchID,
		Inserted: result.Inserted,
		Skipped:  result.Skipped,
		Source:   p.source,
	})
	return result, nil
}

// decode validates the encoding, checks the header and maps every data row.
func (p *Pipeline) decode(payload []byte) ([]record.Record, error) {
	if !utf8.Valid(payload) {
		return nil, record.NewValidationError("", "file is not valid UTF-8 text")
	}
	payload = bytes.TrimPrefix(payload, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(payload))
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, record.NewValidationError("", "file is empty")
	}
	if err != nil {
		return nil, parseError(err)
	}
	if p.verifyHeader {
		if err := VerifyHeader(header); err != nil {
			return nil, err
		}
	}

	var recs []record.Record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError(err)
		}
		line, _ := r.FieldPos(0)

		rec, err := MapRow(row)
		if err == nil {
			err = rec.Validate()
		}
		if err != nil {
			return nil, atLine(err, line)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// VerifyHeader checks header against the schema column order. Names match
// after lower-casing and dropping everything but letters and digits.
// Extra trailing header cells are allowed.
func VerifyHeader(header []string) error {
	if len(header) < record.ColumnCount() {
		return record.NewValidationError("", fmt.Sprintf(
			"header has %d columns, expected %d", len(header), record.ColumnCount())).WithLine(1)
	}
	for _, f := range record.Columns {
		if foldName(header[f.Index]) != foldName(f.Name) {
			return record.NewValidationError(f.Name, fmt.Sprintf(
				"header column %d is %q, expected %q", f.Index+1, header[f.Index], f.Name)).WithLine(1)
		}
	}
	return nil
}

// CheckUploadName rejects file names without a .csv extension.
func CheckUploadName(name string) error {
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return record.NewValidationError("csv_file", fmt.Sprintf("%q is not a .csv file", name))
	}
	return nil
}

func foldName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func atLine(err error, line int) error {
	var rerr *record.Error
	if errors.As(err, &rerr) {
		return rerr.WithLine(line)
	}
	return err
}

func parseError(err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return record.WrapValidationError("malformed CSV", err).WithLine(perr.Line)
	}
	return record.WrapValidationError("malformed CSV", err)
}
