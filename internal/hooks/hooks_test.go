package hooks

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"thumbnail-service/internal/items"
	"thumbnail-service/internal/storage"
	"thumbnail-service/internal/tasks"
	"thumbnail-service/internal/thumbnail"
)

// fakeFiles serves originals from a map keyed by file path.
type fakeFiles struct {
	buffers map[string][]byte
	calls   int
}

func (f *fakeFiles) GetFileBuffer(_ context.Context, path string) ([]byte, error) {
	f.calls++
	data, ok := f.buffers[path]
	if !ok {
		return nil, fmt.Errorf("no file at %s", path)
	}
	return data, nil
}

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

type fixture struct {
	runner   *tasks.Runner
	provider *storage.Local
	service  *thumbnail.Service
	files    *fakeFiles
	root     string
}

func newFixture(t *testing.T, config Config) *fixture {
	t.Helper()
	root := t.TempDir()
	provider, err := storage.NewLocal(root)
	if err != nil {
		t.Fatalf("NewLocal returned error: %v", err)
	}
	svc, err := thumbnail.NewService(provider, thumbnail.NewGenerator(), "/thumbnails/")
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	f := &fixture{
		runner:   tasks.NewRunner(),
		provider: provider,
		service:  svc,
		files:    &fakeFiles{buffers: make(map[string][]byte)},
		root:     root,
	}
	Register(f.runner, svc, f.files, AppIDFromURLPath, config)
	return f
}

// countVariants counts the stored variants for an item by probing each
// size label's storage key.
func (f *fixture) countVariants(t *testing.T, itemID string) int {
	t.Helper()
	n := 0
	for _, size := range thumbnail.Sizes {
		key, err := f.service.Path(itemID, size.Label)
		if err != nil {
			t.Fatalf("Path returned error: %v", err)
		}
		if _, err := f.provider.GetObject(context.Background(), key); err == nil {
			n++
		}
	}
	return n
}

func imageItem(id, path string) items.Item {
	return items.Item{
		ID:   id,
		Type: items.TypeLocalFile,
		Extra: items.Extra{
			File: &items.FileExtra{Name: "photo.jpg", Path: path, Mimetype: "image/jpeg"},
		},
	}
}

func TestItemCreatedGeneratesThumbnails(t *testing.T) {
	f := newFixture(t, Config{EnableItemsHooks: true})
	f.files.buffers["originals/photo.jpg"] = testJPEG(t)

	f.runner.RunPostHooks(context.Background(), tasks.ItemCreated, tasks.EventData{
		Item:  imageItem("item-1", "originals/photo.jpg"),
		Actor: tasks.Actor{ID: "member-1"},
	})

	if got := f.countVariants(t, "item-1"); got != len(thumbnail.Sizes) {
		t.Errorf("stored variants = %d, want %d", got, len(thumbnail.Sizes))
	}
}

func TestItemCreatedSkipsIneligibleItems(t *testing.T) {
	f := newFixture(t, Config{EnableItemsHooks: true})

	for _, item := range []items.Item{
		{ID: "folder-1", Type: "folder"},
		{
			ID:   "doc-1",
			Type: items.TypeLocalFile,
			Extra: items.Extra{
				File: &items.FileExtra{Name: "notes.txt", Path: "originals/notes.txt", Mimetype: "text/plain"},
			},
		},
	} {
		f.runner.RunPostHooks(context.Background(), tasks.ItemCreated, tasks.EventData{Item: item})
		if f.files.calls != 0 {
			t.Errorf("item %s: original was fetched for an ineligible item", item.ID)
		}
		if got := f.countVariants(t, item.ID); got != 0 {
			t.Errorf("item %s: stored variants = %d, want 0", item.ID, got)
		}
	}
}

func TestItemCreatedSwallowsFetchFailure(t *testing.T) {
	f := newFixture(t, Config{EnableItemsHooks: true})

	// The original is missing from file storage; the hook must log and
	// return without storing anything.
	f.runner.RunPostHooks(context.Background(), tasks.ItemCreated, tasks.EventData{
		Item: imageItem("item-1", "originals/gone.jpg"),
	})

	if got := f.countVariants(t, "item-1"); got != 0 {
		t.Errorf("stored variants = %d, want 0", got)
	}
}

func TestItemCopiedCopiesThumbnails(t *testing.T) {
	f := newFixture(t, Config{EnableItemsHooks: true})

	if err := f.service.Upload(context.Background(), "origin", testJPEG(t), "image/jpeg", "m"); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	original := imageItem("origin", "originals/photo.jpg")
	f.runner.RunPostHooks(context.Background(), tasks.ItemCopied, tasks.EventData{
		Item:     imageItem("clone", "originals/photo.jpg"),
		Actor:    tasks.Actor{ID: "member-1"},
		Original: &original,
	})

	if got := f.countVariants(t, "clone"); got != len(thumbnail.Sizes) {
		t.Errorf("copied variants = %d, want %d", got, len(thumbnail.Sizes))
	}
}

func TestItemCopiedWithoutOriginalIsSkipped(t *testing.T) {
	f := newFixture(t, Config{EnableItemsHooks: true})

	f.runner.RunPostHooks(context.Background(), tasks.ItemCopied, tasks.EventData{
		Item: imageItem("clone", "originals/photo.jpg"),
	})

	if got := f.countVariants(t, "clone"); got != 0 {
		t.Errorf("copied variants = %d, want 0", got)
	}
}

func TestItemDeletedRemovesThumbnails(t *testing.T) {
	f := newFixture(t, Config{EnableItemsHooks: true})

	if err := f.service.Upload(context.Background(), "item-1", testJPEG(t), "image/jpeg", "m"); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if got := f.countVariants(t, "item-1"); got != len(thumbnail.Sizes) {
		t.Fatalf("precondition: stored variants = %d, want %d", got, len(thumbnail.Sizes))
	}

	f.runner.RunPostHooks(context.Background(), tasks.ItemDeleted, tasks.EventData{
		Item: imageItem("item-1", "originals/photo.jpg"),
	})

	if got := f.countVariants(t, "item-1"); got != 0 {
		t.Errorf("remaining variants = %d, want 0", got)
	}
}

func TestHooksDisabledByConfig(t *testing.T) {
	f := newFixture(t, Config{})
	f.files.buffers["originals/photo.jpg"] = testJPEG(t)

	f.runner.RunPostHooks(context.Background(), tasks.ItemCreated, tasks.EventData{
		Item: imageItem("item-1", "originals/photo.jpg"),
	})

	if f.files.calls != 0 {
		t.Error("items hook ran despite being disabled")
	}
	if got := f.countVariants(t, "item-1"); got != 0 {
		t.Errorf("stored variants = %d, want 0", got)
	}
}

func TestAppCreatedInstallsTemplateIcons(t *testing.T) {
	f := newFixture(t, Config{EnableAppsHooks: true, AppsTemplateRoot: "apps/template"})

	// Seed the template icons under their literal keys.
	for _, size := range thumbnail.Sizes {
		key := fmt.Sprintf("/thumbnails/apps/template/calc/%s", size.Label)
		if err := f.provider.PutObject(context.Background(), key, bytes.NewReader([]byte("icon")), 4, "image/jpeg", storage.Metadata{}); err != nil {
			t.Fatalf("seeding template icon: %v", err)
		}
	}

	f.runner.RunPostHooks(context.Background(), tasks.ItemCreated, tasks.EventData{
		Item: items.Item{
			ID:   "app-item-1",
			Type: items.TypeApp,
			Extra: items.Extra{
				App: &items.AppExtra{URL: "https://apps.example.com/published/calc"},
			},
		},
		Actor: tasks.Actor{ID: "member-1"},
	})

	if got := f.countVariants(t, "app-item-1"); got != len(thumbnail.Sizes) {
		t.Errorf("installed icons = %d, want %d", got, len(thumbnail.Sizes))
	}
}

func TestAppCreatedIgnoresNonAppItems(t *testing.T) {
	f := newFixture(t, Config{EnableAppsHooks: true, AppsTemplateRoot: "apps/template"})

	f.runner.RunPostHooks(context.Background(), tasks.ItemCreated, tasks.EventData{
		Item: imageItem("item-1", "originals/photo.jpg"),
	})

	if entries, err := os.ReadDir(filepath.Join(f.root, "thumbnails")); err == nil && len(entries) != 0 {
		t.Errorf("app hook stored objects for a non-app item: %v", entries)
	}
}

func TestAppIDFromURLPath(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://apps.example.com/published/calc", "calc"},
		{"https://apps.example.com/published/calc/", "calc"},
		{"calc", "calc"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := AppIDFromURLPath(tt.url); got != tt.want {
			t.Errorf("AppIDFromURLPath(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
