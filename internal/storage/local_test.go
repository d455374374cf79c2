package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"thumbnail-service/internal/errs"
)

func newTestLocal(t *testing.T) (*Local, string) {
	t.Helper()
	root := t.TempDir()
	local, err := NewLocal(root)
	if err != nil {
		t.Fatalf("NewLocal returned error: %v", err)
	}
	return local, root
}

func TestLocalPutGetRoundtrip(t *testing.T) {
	local, _ := newTestLocal(t)
	ctx := context.Background()

	body := []byte("jpeg bytes")
	key := "/thumbnails/abcd1234/efgh5678/small"
	meta := Metadata{MemberID: "member-1", ItemID: "item-1"}
	if err := local.PutObject(ctx, key, strings.NewReader(string(body)), int64(len(body)), "image/jpeg", meta); err != nil {
		t.Fatalf("PutObject returned error: %v", err)
	}

	data, err := local.GetObject(ctx, key)
	if err != nil {
		t.Fatalf("GetObject returned error: %v", err)
	}
	if string(data) != string(body) {
		t.Errorf("GetObject = %q, want %q", data, body)
	}
}

func TestLocalPutOverwrites(t *testing.T) {
	local, _ := newTestLocal(t)
	ctx := context.Background()

	key := "/thumbnails/aa/bb/small"
	for _, content := range []string{"first", "second"} {
		if err := local.PutObject(ctx, key, strings.NewReader(content), int64(len(content)), "image/jpeg", Metadata{}); err != nil {
			t.Fatalf("PutObject(%q) returned error: %v", content, err)
		}
	}

	data, err := local.GetObject(ctx, key)
	if err != nil {
		t.Fatalf("GetObject returned error: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("GetObject = %q, want %q", data, "second")
	}
}

func TestLocalGetMissingObject(t *testing.T) {
	local, _ := newTestLocal(t)

	_, err := local.GetObject(context.Background(), "/thumbnails/no/such/object")
	if !errs.IsNotFound(err) {
		t.Errorf("GetObject error = %v, want not-found", err)
	}
}

func TestLocalCopyObject(t *testing.T) {
	local, _ := newTestLocal(t)
	ctx := context.Background()

	src := "/thumbnails/src/shard/medium"
	dst := "/thumbnails/dst/shard/medium"
	if err := local.PutObject(ctx, src, strings.NewReader("payload"), 7, "image/jpeg", Metadata{}); err != nil {
		t.Fatalf("PutObject returned error: %v", err)
	}
	if err := local.CopyObject(ctx, src, dst, Metadata{ItemID: "item-2"}); err != nil {
		t.Fatalf("CopyObject returned error: %v", err)
	}

	for _, key := range []string{src, dst} {
		data, err := local.GetObject(ctx, key)
		if err != nil {
			t.Fatalf("GetObject(%s) returned error: %v", key, err)
		}
		if string(data) != "payload" {
			t.Errorf("GetObject(%s) = %q, want %q", key, data, "payload")
		}
	}
}

func TestLocalCopyMissingSource(t *testing.T) {
	local, _ := newTestLocal(t)

	err := local.CopyObject(context.Background(), "/thumbnails/absent/small", "/thumbnails/dst/small", Metadata{})
	if !errs.IsNotFound(err) {
		t.Errorf("CopyObject error = %v, want not-found", err)
	}
}

func TestLocalDeleteObject(t *testing.T) {
	local, root := newTestLocal(t)
	ctx := context.Background()

	key := "/thumbnails/shard1/shard2/large"
	if err := local.PutObject(ctx, key, strings.NewReader("x"), 1, "image/jpeg", Metadata{}); err != nil {
		t.Fatalf("PutObject returned error: %v", err)
	}
	if err := local.DeleteObject(ctx, key); err != nil {
		t.Fatalf("DeleteObject returned error: %v", err)
	}
	if _, err := local.GetObject(ctx, key); !errs.IsNotFound(err) {
		t.Errorf("GetObject after delete error = %v, want not-found", err)
	}

	// The last variant is gone, so the item's empty shard directories
	// should have been pruned too.
	if _, err := os.Stat(filepath.Join(root, "thumbnails", "shard1")); !os.IsNotExist(err) {
		t.Errorf("empty shard directory was not pruned (stat err = %v)", err)
	}
}

func TestLocalDeleteKeepsSiblingVariants(t *testing.T) {
	local, root := newTestLocal(t)
	ctx := context.Background()

	small := "/thumbnails/shard/small"
	large := "/thumbnails/shard/large"
	for _, key := range []string{small, large} {
		if err := local.PutObject(ctx, key, strings.NewReader("x"), 1, "image/jpeg", Metadata{}); err != nil {
			t.Fatalf("PutObject returned error: %v", err)
		}
	}
	if err := local.DeleteObject(ctx, small); err != nil {
		t.Fatalf("DeleteObject returned error: %v", err)
	}

	if _, err := local.GetObject(ctx, large); err != nil {
		t.Errorf("sibling variant was removed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "thumbnails", "shard")); err != nil {
		t.Errorf("non-empty shard directory was pruned: %v", err)
	}
}

func TestLocalDeleteMissingObject(t *testing.T) {
	local, _ := newTestLocal(t)

	if err := local.DeleteObject(context.Background(), "/thumbnails/never/existed"); err != nil {
		t.Errorf("DeleteObject of absent object returned error: %v", err)
	}
}

func TestLocalRejectsEscapingKeys(t *testing.T) {
	local, _ := newTestLocal(t)
	ctx := context.Background()

	for _, key := range []string{"../outside", "/thumbnails/../../etc/passwd"} {
		if err := local.PutObject(ctx, key, strings.NewReader("x"), 1, "image/jpeg", Metadata{}); err == nil {
			t.Errorf("PutObject accepted escaping key %q", key)
		}
		if _, err := local.GetObject(ctx, key); err == nil {
			t.Errorf("GetObject accepted escaping key %q", key)
		}
	}
}

func TestLocalGetObjectHandle(t *testing.T) {
	local, _ := newTestLocal(t)
	ctx := context.Background()

	key := "/thumbnails/shard/original"
	if err := local.PutObject(ctx, key, strings.NewReader("stream me"), 9, "image/jpeg", Metadata{}); err != nil {
		t.Fatalf("PutObject returned error: %v", err)
	}

	obj, err := local.GetObjectHandle(ctx, key, "thumb-item-original")
	if err != nil {
		t.Fatalf("GetObjectHandle returned error: %v", err)
	}
	defer obj.Body.Close()

	if obj.Size != 9 {
		t.Errorf("Size = %d, want 9", obj.Size)
	}
	if obj.URL != "" {
		t.Errorf("URL = %q, want empty for local streaming", obj.URL)
	}
	if want := `attachment; filename="thumb-item-original"`; obj.Disposition != want {
		t.Errorf("Disposition = %q, want %q", obj.Disposition, want)
	}
	data, err := io.ReadAll(obj.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if string(data) != "stream me" {
		t.Errorf("body = %q, want %q", data, "stream me")
	}

	if _, err := local.GetObjectHandle(ctx, "/thumbnails/missing", "f"); !errs.IsNotFound(err) {
		t.Errorf("GetObjectHandle of absent object error = %v, want not-found", err)
	}
}

func TestNewLocalCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "storage")
	if _, err := NewLocal(root); err != nil {
		t.Fatalf("NewLocal returned error: %v", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		t.Fatalf("root was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("root is not a directory")
	}
}
