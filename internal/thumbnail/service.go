package thumbnail

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"thumbnail-service/internal/errs"
	"thumbnail-service/internal/logging"
	"thumbnail-service/internal/metrics"
	"thumbnail-service/internal/pathing"
	"thumbnail-service/internal/storage"
	"thumbnail-service/internal/tasks"
	"thumbnail-service/internal/workers"
)

// Service orchestrates thumbnail derivation and storage-key management:
// it fans every upload, copy and delete out over the fixed size-variant
// set against a single long-lived storage provider.
type Service struct {
	provider storage.Provider
	gen      *Generator
	prefix   string
	fanOut   int
}

// NewService validates the configured path prefix and returns a Service.
// A malformed prefix fails here, at startup, not per request.
func NewService(provider storage.Provider, gen *Generator, prefix string) (*Service, error) {
	if err := pathing.ValidatePrefix(prefix); err != nil {
		return nil, fmt.Errorf("thumbnail service: %w", err)
	}
	return &Service{
		provider: provider,
		gen:      gen,
		prefix:   prefix,
		fanOut:   workers.ForIO(2 * len(Sizes)),
	}, nil
}

// Path computes the storage key for one of an item's size variants.
func (s *Service) Path(itemID string, label SizeLabel) (string, error) {
	return pathing.Build(itemID, string(label), s.prefix)
}

// Upload validates that the payload is an image, derives all size
// variants and stores them concurrently. The declared mimetype is
// checked before any storage I/O; a non-image fails outright. Once
// validation and generation succeed the operation is considered
// successful: individual variant-store failures are logged and do not
// roll back variants that were already written.
func (s *Service) Upload(ctx context.Context, itemID string, source []byte, mimetype, actorID string) error {
	if itemID == "" {
		return errs.ErrUndefinedItem
	}
	if !strings.HasPrefix(mimetype, "image/") {
		return errs.ErrUploadFileNotImage
	}

	start := time.Now()
	variants, err := s.gen.Generate(ctx, source, Sizes)
	if err != nil {
		return fmt.Errorf("generate thumbnails for item %s: %w", itemID, err)
	}
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())

	if err := s.storeVariants(ctx, itemID, variants, actorID); err != nil {
		// Partial failure: siblings were still attempted, nothing rolls
		// back. The missing variants stay absent until regenerated.
		logging.Error("Upload: storing variants for item %s: %v", itemID, err)
	}
	return nil
}

func (s *Service) storeVariants(ctx context.Context, itemID string, variants []Variant, actorID string) error {
	meta := storage.Metadata{MemberID: actorID, ItemID: itemID}

	batch := make([]func(ctx context.Context) error, 0, len(variants))
	for _, v := range variants {
		batch = append(batch, func(ctx context.Context) error {
			key, err := s.Path(itemID, v.Size.Label)
			if err != nil {
				return err
			}
			err = s.timedOp(ctx, "put", func(ctx context.Context) error {
				return s.provider.PutObject(ctx, key, bytes.NewReader(v.Data), int64(len(v.Data)), Mimetype, meta)
			})
			if err != nil {
				logging.Error("Store variant %s for item %s: %v", v.Size.Label, itemID, err)
				return fmt.Errorf("store %s variant: %w", v.Size.Label, err)
			}
			logging.Debug("Stored %s variant for item %s at %s (%d bytes)", v.Size.Label, itemID, key, len(v.Data))
			return nil
		})
	}
	return tasks.RunBatch(ctx, s.fanOut, batch...)
}

// Copy duplicates every size variant of originalID under newID. All
// copies are dispatched concurrently and awaited; failures are joined
// so one missing variant never stops the others.
func (s *Service) Copy(ctx context.Context, originalID, newID, actorID string) error {
	if originalID == "" || newID == "" {
		return errs.ErrUndefinedItem
	}
	meta := storage.Metadata{MemberID: actorID, ItemID: newID}

	batch := make([]func(ctx context.Context) error, 0, len(Sizes))
	for _, size := range Sizes {
		batch = append(batch, func(ctx context.Context) error {
			originalKey, err := s.Path(originalID, size.Label)
			if err != nil {
				return err
			}
			newKey, err := s.Path(newID, size.Label)
			if err != nil {
				return err
			}
			err = s.timedOp(ctx, "copy", func(ctx context.Context) error {
				return s.provider.CopyObject(ctx, originalKey, newKey, meta)
			})
			if err != nil {
				logging.Error("Copy variant %s from item %s to %s: %v", size.Label, originalID, newID, err)
				return fmt.Errorf("copy %s variant: %w", size.Label, err)
			}
			return nil
		})
	}
	return tasks.RunBatch(ctx, s.fanOut, batch...)
}

// CopyFromTemplate installs an app template's size variants as the
// thumbnails of a newly created item. Template keys are literal (not
// sharded): prefix/templateRoot/appID/label.
func (s *Service) CopyFromTemplate(ctx context.Context, templateRoot, appID, newID, actorID string) error {
	if newID == "" {
		return errs.ErrUndefinedItem
	}
	if appID == "" {
		return fmt.Errorf("copy from template: empty app id")
	}
	meta := storage.Metadata{MemberID: actorID, ItemID: newID}

	batch := make([]func(ctx context.Context) error, 0, len(Sizes))
	for _, size := range Sizes {
		batch = append(batch, func(ctx context.Context) error {
			templateKey := fmt.Sprintf("%s%s/%s/%s", s.prefix, templateRoot, appID, size.Label)
			newKey, err := s.Path(newID, size.Label)
			if err != nil {
				return err
			}
			err = s.timedOp(ctx, "copy", func(ctx context.Context) error {
				return s.provider.CopyObject(ctx, templateKey, newKey, meta)
			})
			if err != nil {
				logging.Error("Copy template variant %s for app %s to item %s: %v", size.Label, appID, newID, err)
				return fmt.Errorf("copy template %s variant: %w", size.Label, err)
			}
			return nil
		})
	}
	return tasks.RunBatch(ctx, s.fanOut, batch...)
}

// Delete removes every size variant of itemID, best effort. A variant
// that is already absent counts as deleted.
func (s *Service) Delete(ctx context.Context, itemID string) error {
	if itemID == "" {
		return errs.ErrUndefinedItem
	}

	batch := make([]func(ctx context.Context) error, 0, len(Sizes))
	for _, size := range Sizes {
		batch = append(batch, func(ctx context.Context) error {
			key, err := s.Path(itemID, size.Label)
			if err != nil {
				return err
			}
			err = s.timedOp(ctx, "delete", func(ctx context.Context) error {
				return s.provider.DeleteObject(ctx, key)
			})
			if err != nil && !errs.IsNotFound(err) {
				logging.Error("Delete variant %s for item %s: %v", size.Label, itemID, err)
				return fmt.Errorf("delete %s variant: %w", size.Label, err)
			}
			return nil
		})
	}
	return tasks.RunBatch(ctx, s.fanOut, batch...)
}

// Download prepares the stored thumbnail at (itemID, size) for the
// client. The size label is validated against the fixed variant set; a
// missing object surfaces as errs.ErrNotFound.
func (s *Service) Download(ctx context.Context, itemID, size string) (*storage.Object, error) {
	if itemID == "" {
		return nil, errs.ErrUndefinedItem
	}
	if !ValidSize(size) {
		return nil, errs.ErrInvalidSize
	}
	key, err := s.Path(itemID, SizeLabel(size))
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("thumb-%s-%s", itemID, size)
	var obj *storage.Object
	err = s.timedOp(ctx, "get", func(ctx context.Context) error {
		var opErr error
		obj, opErr = s.provider.GetObjectHandle(ctx, key, filename)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// timedOp runs one storage operation under its metrics.
func (s *Service) timedOp(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	metrics.StorageOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	status := "success"
	if err != nil && !errs.IsNotFound(err) {
		status = "error"
	}
	metrics.StorageOperationsTotal.WithLabelValues(op, status).Inc()
	return err
}
