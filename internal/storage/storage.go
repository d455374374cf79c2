package storage

import (
	"context"
	"io"
)

// Metadata tags a stored object with its owners. Object-storage backends
// attach these as object metadata; the local backend ignores them.
type Metadata struct {
	MemberID string
	ItemID   string
}

// Object is the presentation of a stored thumbnail for download. Exactly
// one of URL or Body is set: backends that can hand out a direct location
// set URL, backends that stream through the service set Body.
type Object struct {
	Key         string
	URL         string
	Body        io.ReadCloser
	Size        int64
	ContentType string
	// Disposition is the Content-Disposition header value for streamed
	// responses.
	Disposition string
}

// Provider is the uniform capability set over the two storage backends.
// Keys are slash-separated paths as produced by the pathing package.
// Implementations must be safe for concurrent use; the same client is
// shared by every in-flight variant operation.
type Provider interface {
	// PutObject durably stores body at key, creating any intermediate
	// namespace (directories) as needed. Overwrites an existing object.
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string, meta Metadata) error

	// GetObject returns the full content of the object at key, or an
	// error wrapping errs.ErrNotFound when absent.
	GetObject(ctx context.Context, key string) ([]byte, error)

	// CopyObject duplicates the object at originalKey under newKey,
	// replacing its metadata. Object-storage backends perform the copy
	// server-side; the payload never transits the application.
	CopyObject(ctx context.Context, originalKey, newKey string, meta Metadata) error

	// DeleteObject removes the object at key. Absence is not an error.
	DeleteObject(ctx context.Context, key string) error

	// GetObjectHandle prepares the object at key for client download
	// under the given filename, or an error wrapping errs.ErrNotFound.
	// Callers own closing Body when it is set.
	GetObjectHandle(ctx context.Context, key, filename string) (*Object, error)
}
