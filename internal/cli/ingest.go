package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/museum/internal/ingest"
)

// IngestOptions holds flags for the ingest command.
type IngestOptions struct {
	*RootOptions
	Strict bool
}

// IngestOutput is the JSON payload of a successful ingest.
type IngestOutput struct {
	File      string          `json:"file"`
	Result    ingest.Result   `json:"result"`
	Conflicts []ConflictEntry `json:"conflicts,omitempty"`
}

// ConflictEntry reports one duplicate objectId seen in strict mode.
type ConflictEntry struct {
	ObjectID int64  `json:"objectId"`
	Message  string `json:"message"`
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IngestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ingest <file.csv>",
		Short: "Load a CSV export into the store",
		Long: `Load a CSV export of museum objects into the store.

The file must have a .csv extension and a header row matching the object
columns. By default rows whose objectId already exists are skipped. With
--strict each conflict is reported individually.

Example:
  museum ingest MetObjects.csv
  museum ingest --strict --format json MetObjects.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "insert row by row and report each duplicate objectId")

	return cmd
}

func runIngest(opts *IngestOptions, path string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	if err := ingest.CheckUploadName(filepath.Base(path)); err != nil {
		return operationError("invalid file", err)
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read file", err)
	}

	a, err := openApp(ctx, opts.RootOptions, cmd, "cli")
	if err != nil {
		return err
	}
	defer a.Close()

	mode := ingest.ModeBulk
	if opts.Strict {
		mode = ingest.ModeStrict
	}

	formatter := newFormatter(opts.RootOptions, cmd)
	formatter.VerboseLog("Ingesting %s (%d bytes, %s mode)", path, len(payload), mode)

	result, err := a.pipeline.Ingest(ctx, payload, mode)
	if err != nil {
		return operationError("ingest failed", err)
	}

	out := IngestOutput{File: path, Result: result}
	for _, c := range result.Conflicts {
		out.Conflicts = append(out.Conflicts, ConflictEntry{ObjectID: c.ObjectID, Message: c.Message})
	}

	text := fmt.Sprintf("Ingested %d rows from %s: %d inserted, %d skipped", result.Rows, path, result.Inserted, result.Skipped)
	for _, c := range out.Conflicts {
		text += fmt.Sprintf("\n  objectId %d: %s", c.ObjectID, c.Message)
	}
	return formatter.Success(text, out)
}
