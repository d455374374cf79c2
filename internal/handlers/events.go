package handlers

import (
	"encoding/json"
	"net/http"

	"thumbnail-service/internal/items"
	"thumbnail-service/internal/logging"
	"thumbnail-service/internal/tasks"
)

// eventPayload is the host's post-commit lifecycle notification.
type eventPayload struct {
	Event    tasks.Event `json:"event"`
	Item     items.Item  `json:"item"`
	Actor    tasks.Actor `json:"actor"`
	Original *items.Item `json:"original,omitempty"`
}

// PostEvent receives an item lifecycle notification and dispatches the
// registered hooks. The host's transaction has already committed when
// this fires, so the response is 202 regardless of hook outcomes; hook
// failures are logged, never surfaced.
func (h *Handlers) PostEvent(w http.ResponseWriter, r *http.Request) {
	var payload eventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid event payload", http.StatusBadRequest)
		return
	}
	switch payload.Event {
	case tasks.ItemCreated, tasks.ItemCopied, tasks.ItemDeleted:
	default:
		http.Error(w, "Unknown event", http.StatusBadRequest)
		return
	}
	if payload.Item.ID == "" {
		http.Error(w, "Event item id is required", http.StatusBadRequest)
		return
	}
	if payload.Actor.ID == "" {
		payload.Actor = actorFrom(r)
	}

	logging.Debug("Event %s for item %s", payload.Event, payload.Item.ID)
	h.runner.RunPostHooks(r.Context(), payload.Event, tasks.EventData{
		Item:     payload.Item,
		Actor:    payload.Actor,
		Original: payload.Original,
	})

	w.WriteHeader(http.StatusAccepted)
}
