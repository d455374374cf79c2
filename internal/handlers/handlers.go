package handlers

import (
	"context"
	"time"

	"thumbnail-service/internal/tasks"
	"thumbnail-service/internal/thumbnail"
)

// ValidationFunc is an authorization check the host composes around an
// operation. The handler trusts its verdict and does not re-implement
// access control.
type ValidationFunc func(ctx context.Context, itemID string, actor tasks.Actor) error

// Config holds the handler-level options.
type Config struct {
	// MaxFileSize caps the accepted upload payload in bytes.
	MaxFileSize int64
	// UploadValidation and DownloadValidation run before any storage
	// I/O; a nil check means the operation is open.
	UploadValidation   ValidationFunc
	DownloadValidation ValidationFunc
}

// DefaultMaxFileSize caps uploads at 5 MB.
const DefaultMaxFileSize = 5 * 1024 * 1024

// Handlers bundles the HTTP entry points of the service.
type Handlers struct {
	service   *thumbnail.Service
	runner    *tasks.Runner
	config    Config
	startTime time.Time
}

// New returns the handler set for the given thumbnail service and hook
// runner.
func New(service *thumbnail.Service, runner *tasks.Runner, config Config) *Handlers {
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = DefaultMaxFileSize
	}
	return &Handlers{
		service:   service,
		runner:    runner,
		config:    config,
		startTime: time.Now(),
	}
}
