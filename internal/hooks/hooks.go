package hooks

import (
	"context"
	"strings"

	"thumbnail-service/internal/files"
	"thumbnail-service/internal/items"
	"thumbnail-service/internal/logging"
	"thumbnail-service/internal/metrics"
	"thumbnail-service/internal/tasks"
	"thumbnail-service/internal/thumbnail"
)

// Config selects which lifecycle hooks are active.
type Config struct {
	// EnableItemsHooks turns on automatic thumbnail generation, copy and
	// delete for file-backed items.
	EnableItemsHooks bool
	// EnableAppsHooks turns on icon installation for app items, copied
	// from the templates under AppsTemplateRoot.
	EnableAppsHooks  bool
	AppsTemplateRoot string
}

// AppIDFromURL resolves an app item's URL to its template id. Supplied
// by the host; only consulted when apps hooks are enabled.
type AppIDFromURL func(url string) string

// AppIDFromURLPath is the default resolver: the app id is the last path
// segment of the app's URL.
func AppIDFromURLPath(rawURL string) string {
	trimmed := strings.TrimRight(rawURL, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

// Hooks connects item lifecycle events to the thumbnail service. Every
// handler runs after the host's transaction committed, so failures are
// logged and swallowed: nothing here may propagate back into the host.
type Hooks struct {
	service *thumbnail.Service
	files   files.Service
	appID   AppIDFromURL
	config  Config
}

// Register installs the enabled handlers on the runner.
func Register(runner *tasks.Runner, svc *thumbnail.Service, fileService files.Service, appID AppIDFromURL, config Config) *Hooks {
	h := &Hooks{
		service: svc,
		files:   fileService,
		appID:   appID,
		config:  config,
	}

	if config.EnableItemsHooks {
		runner.SetPostHook(tasks.ItemCreated, h.itemCreated)
		runner.SetPostHook(tasks.ItemCopied, h.itemCopied)
		runner.SetPostHook(tasks.ItemDeleted, h.itemDeleted)
	}
	if config.EnableAppsHooks {
		runner.SetPostHook(tasks.ItemCreated, h.appCreated)
	}
	return h
}

// itemCreated generates thumbnails for newly created image-backed items.
func (h *Hooks) itemCreated(ctx context.Context, data tasks.EventData) {
	item := data.Item
	if !items.IsEligible(item) {
		metrics.HookRunsTotal.WithLabelValues(string(tasks.ItemCreated), "skipped").Inc()
		return
	}

	file := item.FileExtra()
	source, err := h.files.GetFileBuffer(ctx, file.Path)
	if err != nil {
		metrics.HookRunsTotal.WithLabelValues(string(tasks.ItemCreated), "error").Inc()
		logging.Error("Item-created hook: fetch original for item %s: %v", item.ID, err)
		return
	}

	if err := h.service.Upload(ctx, item.ID, source, file.Mimetype, data.Actor.ID); err != nil {
		metrics.HookRunsTotal.WithLabelValues(string(tasks.ItemCreated), "error").Inc()
		metrics.GenerationsTotal.WithLabelValues("item_hook", "error").Inc()
		logging.Error("Item-created hook: generate thumbnails for item %s: %v", item.ID, err)
		return
	}
	metrics.HookRunsTotal.WithLabelValues(string(tasks.ItemCreated), "handled").Inc()
	metrics.GenerationsTotal.WithLabelValues("item_hook", "success").Inc()
}

// itemCopied copies every stored variant under the new item's keys.
func (h *Hooks) itemCopied(ctx context.Context, data tasks.EventData) {
	if data.Original == nil {
		metrics.HookRunsTotal.WithLabelValues(string(tasks.ItemCopied), "skipped").Inc()
		logging.Warn("Item-copied hook: no original for item %s", data.Item.ID)
		return
	}

	if err := h.service.Copy(ctx, data.Original.ID, data.Item.ID, data.Actor.ID); err != nil {
		metrics.HookRunsTotal.WithLabelValues(string(tasks.ItemCopied), "error").Inc()
		logging.Error("Item-copied hook: copy thumbnails %s -> %s: %v", data.Original.ID, data.Item.ID, err)
		return
	}
	metrics.HookRunsTotal.WithLabelValues(string(tasks.ItemCopied), "handled").Inc()
}

// itemDeleted removes every stored variant, best effort.
func (h *Hooks) itemDeleted(ctx context.Context, data tasks.EventData) {
	if err := h.service.Delete(ctx, data.Item.ID); err != nil {
		metrics.HookRunsTotal.WithLabelValues(string(tasks.ItemDeleted), "error").Inc()
		logging.Error("Item-deleted hook: delete thumbnails for item %s: %v", data.Item.ID, err)
		return
	}
	metrics.HookRunsTotal.WithLabelValues(string(tasks.ItemDeleted), "handled").Inc()
}

// appCreated installs the app template's icons as the item's thumbnails.
func (h *Hooks) appCreated(ctx context.Context, data tasks.EventData) {
	item := data.Item
	if item.Type != items.TypeApp || item.Extra.App == nil {
		return
	}
	if h.appID == nil {
		logging.Warn("App-created hook: no app id resolver configured, skipping item %s", item.ID)
		return
	}

	appID := h.appID(item.Extra.App.URL)
	err := h.service.CopyFromTemplate(ctx, h.config.AppsTemplateRoot, appID, item.ID, data.Actor.ID)
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("app_hook", "error").Inc()
		logging.Error("App-created hook: install template icons for item %s (app %s): %v", item.ID, appID, err)
		return
	}
	metrics.GenerationsTotal.WithLabelValues("app_hook", "success").Inc()
}
