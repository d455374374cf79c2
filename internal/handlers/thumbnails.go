package handlers

import (
	"io"
	"net/http"
	"strconv"

	"thumbnail-service/internal/errs"
	"thumbnail-service/internal/logging"
	"thumbnail-service/internal/metrics"
	"thumbnail-service/internal/tasks"

	"github.com/gorilla/mux"
)

// actorFrom extracts the acting member's identity as established by the
// host's authentication layer.
func actorFrom(r *http.Request) tasks.Actor {
	return tasks.Actor{ID: r.Header.Get("X-Member-ID")}
}

// UploadThumbnail accepts one multipart file field and stores all size
// variants for the item. Responds 204 No Content: the upload is a pure
// side effect.
func (h *Handlers) UploadThumbnail(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["id"]
	if itemID == "" {
		writeError(w, errs.ErrUndefinedItem)
		return
	}
	actor := actorFrom(r)

	if h.config.UploadValidation != nil {
		if err := h.config.UploadValidation(r.Context(), itemID, actor); err != nil {
			logging.Warn("Upload rejected for item %s: %v", itemID, err)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxFileSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		logging.Debug("UploadThumbnail: reading multipart file: %v", err)
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}
	defer file.Close()

	source, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}

	// Prefer the declared part content type; sniff when absent.
	mimetype := header.Header.Get("Content-Type")
	if mimetype == "" || mimetype == "application/octet-stream" {
		mimetype = http.DetectContentType(source)
	}

	if err := h.service.Upload(r.Context(), itemID, source, mimetype, actor.ID); err != nil {
		metrics.GenerationsTotal.WithLabelValues("upload", "error").Inc()
		writeError(w, err)
		return
	}
	metrics.GenerationsTotal.WithLabelValues("upload", "success").Inc()

	w.WriteHeader(http.StatusNoContent)
}

// DownloadThumbnail serves the stored variant at (item id, size). The
// local backend streams the bytes; the object-storage backend answers
// with the key and a signed URL.
func (h *Handlers) DownloadThumbnail(w http.ResponseWriter, r *http.Request) {
	itemID := mux.Vars(r)["id"]
	if itemID == "" {
		writeError(w, errs.ErrUndefinedItem)
		return
	}
	size := r.URL.Query().Get("size")
	actor := actorFrom(r)

	if h.config.DownloadValidation != nil {
		if err := h.config.DownloadValidation(r.Context(), itemID, actor); err != nil {
			logging.Warn("Download rejected for item %s: %v", itemID, err)
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
	}

	obj, err := h.service.Download(r.Context(), itemID, size)
	if err != nil {
		writeError(w, err)
		return
	}

	if obj.URL != "" {
		w.Header().Set("Content-Type", "application/json")
		writeJSON(w, map[string]string{"key": obj.Key, "url": obj.URL})
		return
	}

	defer obj.Body.Close()
	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Disposition", obj.Disposition)
	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	if _, err := io.Copy(w, obj.Body); err != nil {
		logging.Error("DownloadThumbnail: streaming %s: %v", obj.Key, err)
	}
}
