package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/museum/internal/record"
)

// ListOutput is the JSON payload of the list command.
type ListOutput struct {
	Headings []string        `json:"headings"`
	Objects  []record.Record `json:"objects"`
	Total    int             `json:"total"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored objects",
		Long: `List every stored object ordered by objectId.

Text output shows a summary table. JSON output carries the full records.

Example:
  museum list
  museum list --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <objectId>",
		Short: "Delete one object",
		Long: `Delete the object with the given objectId.

Example:
  museum delete 34`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, args[0], cmd)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	a, err := openApp(ctx, opts, cmd, "cli")
	if err != nil {
		return err
	}
	defer a.Close()

	recs, err := a.catalog.List(ctx)
	if err != nil {
		return operationError("list failed", err)
	}

	out := ListOutput{Headings: record.Header(), Objects: recs, Total: len(recs)}
	return newFormatter(opts, cmd).Success(summaryTable(recs), out)
}

func runDelete(opts *RootOptions, arg string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid objectId %q", arg))
	}

	a, err := openApp(ctx, opts, cmd, "cli")
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.catalog.Delete(ctx, id); err != nil {
		return operationError("delete failed", err)
	}

	return newFormatter(opts, cmd).Success(
		fmt.Sprintf("Object %d deleted", id),
		map[string]int64{"objectId": id},
	)
}

func summaryTable(recs []record.Record) string {
	if len(recs) == 0 {
		return "No objects stored"
	}

	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OBJECT ID\tACCESSION\tDEPARTMENT\tTITLE")
	for _, r := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.ObjectID, r.AccessionNumber, r.Department, r.Title)
	}
	_ = tw.Flush()
	fmt.Fprintf(&b, "\n%d object(s)", len(recs))
	return b.String()
}
