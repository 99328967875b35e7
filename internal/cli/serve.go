package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/museum/internal/web"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the museum HTTP API: object CRUD, CSV upload, backup and restore.

The server shuts down gracefully on SIGINT or SIGTERM.

Example:
  museum serve --addr :8080
  museum serve --config museum.yaml --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides server.addr)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, opts.RootOptions, cmd, "upload")
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.cfg.Server.Addr
	if opts.Addr != "" {
		addr = opts.Addr
	}

	srv := web.NewServer(a.catalog, a.pipeline, a.backup, a.logger)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to listen", err)
	}

	a.logger.Info("server starting", "addr", ln.Addr().String(), "driver", a.cfg.Database.Driver, "backend", a.cfg.Backup.Backend)
	fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", ln.Addr())

	if err := srv.Serve(ctx, ln); err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "server error", err)
	}

	a.logger.Info("server stopped gracefully")
	return nil
}
