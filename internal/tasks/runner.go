package tasks

import (
	"context"
	"errors"
	"sync"

	"thumbnail-service/internal/items"
	"thumbnail-service/internal/logging"
)

// Event names an item lifecycle notification. Hooks fire strictly after
// the host's own transaction has committed.
type Event string

const (
	// ItemCreated fires after an item is created.
	ItemCreated Event = "item-created"
	// ItemCopied fires after an item is copied.
	ItemCopied Event = "item-copied"
	// ItemDeleted fires after an item is deleted.
	ItemDeleted Event = "item-deleted"
)

// Actor identifies who triggered the lifecycle event.
type Actor struct {
	ID string
}

// EventData carries the subject of a lifecycle event. Original is set
// only for ItemCopied and points at the source item.
type EventData struct {
	Item     items.Item
	Actor    Actor
	Original *items.Item
}

// Hook is a post-commit handler. Hooks have no error return on purpose:
// by the time they run the primary operation has committed, so there is
// nothing for a failure to roll back. Handlers log their own errors.
type Hook func(ctx context.Context, data EventData)

// Runner dispatches lifecycle events to registered post-hooks and runs
// ad-hoc task batches. Safe for concurrent use.
type Runner struct {
	mu    sync.RWMutex
	hooks map[Event][]Hook
}

// NewRunner returns an empty Runner.
func NewRunner() *Runner {
	return &Runner{hooks: make(map[Event][]Hook)}
}

// SetPostHook registers h to run after every event of the given kind.
func (r *Runner) SetPostHook(event Event, h Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[event] = append(r.hooks[event], h)
}

// RunPostHooks invokes every hook registered for event, in registration
// order. A panicking hook is recovered and logged; nothing propagates to
// the caller.
func (r *Runner) RunPostHooks(ctx context.Context, event Event, data EventData) {
	r.mu.RLock()
	hooks := r.hooks[event]
	r.mu.RUnlock()

	for _, h := range hooks {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					logging.Error("Hook for %s panicked (item %s): %v", event, data.Item.ID, rec)
				}
			}()
			h(ctx, data)
		}()
	}
}

// RunBatch runs every task concurrently, waits for all of them to reach
// a terminal state, and returns their failures joined. A failing task
// never prevents its siblings from being attempted. maxConcurrent caps
// parallelism; values below 1 mean unbounded.
func RunBatch(ctx context.Context, maxConcurrent int, batch ...func(ctx context.Context) error) error {
	if maxConcurrent < 1 {
		maxConcurrent = len(batch)
	}
	sem := make(chan struct{}, maxConcurrent)
	failures := make([]error, len(batch))

	var wg sync.WaitGroup
	for i, task := range batch {
		wg.Add(1)
		go func(i int, task func(ctx context.Context) error) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			failures[i] = task(ctx)
		}(i, task)
	}
	wg.Wait()

	return errors.Join(failures...)
}
