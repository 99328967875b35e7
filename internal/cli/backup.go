package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/museum/internal/backup"
	"github.com/roach88/museum/internal/ingest"
)

// BackupOutput is the JSON payload of the backup and restore commands.
type BackupOutput struct {
	Outcome backup.Outcome `json:"outcome"`
	Message string         `json:"message"`
	Bucket  string         `json:"bucket"`
	Blob    string         `json:"blob"`
	Result  *ingest.Result `json:"result,omitempty"`
}

// NewBackupCommand creates the backup command.
func NewBackupCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Upload every record to the backup bucket",
		Long: `Serialise every record as CSV and upload it to the configured bucket,
replacing the previous backup. An empty store uploads nothing.

Example:
  museum backup
  museum backup --config museum.yaml --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackup(rootOpts, cmd)
		},
	}
}

// NewRestoreCommand creates the restore command.
func NewRestoreCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Load the backup blob into the store",
		Long: `Download the backup blob and ingest it. Records already in the store
are kept. A missing backup restores nothing.

Example:
  museum restore`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(rootOpts, cmd)
		},
	}
}

func runBackup(opts *RootOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	a, err := openApp(ctx, opts, cmd, "cli")
	if err != nil {
		return err
	}
	defer a.Close()

	outcome, err := a.backup.Backup(ctx)
	if err != nil {
		return operationError("backup failed", err)
	}

	out := BackupOutput{
		Outcome: outcome,
		Message: outcome.Message(),
		Bucket:  a.cfg.Backup.Bucket,
		Blob:    backup.BlobName,
	}
	text := outcome.Message()
	if outcome == backup.OutcomeCompleted {
		text = fmt.Sprintf("%s: %s/%s", text, out.Bucket, out.Blob)
	}
	return newFormatter(opts, cmd).Success(text, out)
}

func runRestore(opts *RootOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	a, err := openApp(ctx, opts, cmd, "cli")
	if err != nil {
		return err
	}
	defer a.Close()

	outcome, result, err := a.backup.Restore(ctx)
	if err != nil {
		return operationError("restore failed", err)
	}

	out := BackupOutput{
		Outcome: outcome,
		Message: outcome.Message(),
		Bucket:  a.cfg.Backup.Bucket,
		Blob:    backup.BlobName,
	}
	text := outcome.Message()
	if outcome == backup.OutcomeRestored {
		out.Result = &result
		text = fmt.Sprintf("%s: %d inserted, %d skipped", text, result.Inserted, result.Skipped)
	}
	return newFormatter(opts, cmd).Success(text, out)
}
