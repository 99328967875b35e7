// Package blob stores named byte payloads in buckets.
//
// FileStore keeps objects on the local filesystem and is the default backend.
// S3Store talks to an S3-compatible service through aws-sdk-go-v2.
package blob

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the named object does not exist.
var ErrNotFound = errors.New("blob: object not found")

// Store puts and gets whole objects.
type Store interface {
	Put(ctx context.Context, bucket, name string, data []byte) error
	Get(ctx context.Context, bucket, name string) ([]byte, error)
}
