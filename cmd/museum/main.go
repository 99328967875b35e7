// Command museum loads, serves and backs up museum object records.
package main

import (
	"context"
	"os"

	"github.com/roach88/museum/internal/cli"
)

func main() {
	os.Exit(cli.Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
