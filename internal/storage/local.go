package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"thumbnail-service/internal/errs"
	"thumbnail-service/internal/logging"
)

// Local stores objects as plain files under a root directory. Keys map
// directly onto the filesystem, so the sharded layout produced by the
// pathing package bounds per-directory fan-out.
type Local struct {
	root string
}

// NewLocal validates the root directory and returns a Local provider.
// The root is created if missing and must be writable; a misconfigured
// root fails here, before any traffic is accepted.
func NewLocal(root string) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root %q: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root %q: %w", abs, err)
	}
	probe := filepath.Join(abs, ".write-test")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return nil, fmt.Errorf("storage root %q is not writable: %w", abs, err)
	}
	if err := os.Remove(probe); err != nil {
		logging.Warn("Local storage: failed to remove write probe %s: %v", probe, err)
	}
	logging.Debug("Local storage: root %s", abs)
	return &Local{root: abs}, nil
}

// resolve maps a storage key onto an absolute path under the root and
// rejects keys that would escape it.
func (l *Local) resolve(key string) (string, error) {
	rel := filepath.FromSlash(strings.TrimPrefix(key, "/"))
	full := filepath.Join(l.root, rel)
	if full != l.root && !strings.HasPrefix(full, l.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("key %q escapes storage root", key)
	}
	return full, nil
}

func (l *Local) PutObject(_ context.Context, key string, body io.Reader, _ int64, _ string, _ Metadata) error {
	full, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create directories for %s: %w", key, err)
	}
	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("create object %s: %w", key, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return fmt.Errorf("write object %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close object %s: %w", key, err)
	}
	return nil
}

func (l *Local) GetObject(_ context.Context, key string) ([]byte, error) {
	full, err := l.resolve(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("get object %s: %w", key, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	return data, nil
}

func (l *Local) CopyObject(_ context.Context, originalKey, newKey string, _ Metadata) error {
	src, err := l.resolve(originalKey)
	if err != nil {
		return err
	}
	dst, err := l.resolve(newKey)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("copy object %s: %w", originalKey, errs.ErrNotFound)
		}
		return fmt.Errorf("copy object %s: %w", originalKey, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create directories for %s: %w", newKey, err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create object %s: %w", newKey, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy object %s -> %s: %w", originalKey, newKey, err)
	}
	return out.Close()
}

func (l *Local) DeleteObject(_ context.Context, key string) error {
	full, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	// Prune the item's shard directory once its last variant is gone.
	// Best effort: a non-empty directory makes Remove fail, which is fine.
	dir := filepath.Dir(full)
	for dir != l.root {
		if err := os.Remove(dir); err != nil {
			break
		}
		dir = filepath.Dir(dir)
	}
	return nil
}

func (l *Local) GetObjectHandle(_ context.Context, key, filename string) (*Object, error) {
	full, err := l.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("get object %s: %w", key, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat object %s: %w", key, err)
	}
	return &Object{
		Key:         key,
		Body:        f,
		Size:        info.Size(),
		ContentType: "image/jpeg",
		Disposition: fmt.Sprintf("attachment; filename=%q", filename),
	}, nil
}
