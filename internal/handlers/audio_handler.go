package handlers

import (
	"net/http"
	"path"
	"strings"

	"summerlit/internal/storage"
)

// AudioHandler streams audio objects from the bucket to the browser.
type AudioHandler struct {
	objects storage.ObjectStore
}

// NewAudioHandler creates a new audio handler
func NewAudioHandler(objects storage.ObjectStore) *AudioHandler {
	return &AudioHandler{objects: objects}
}

// Stream serves one audio object. The key is the remainder of the URL
// path after /audio/. Only keys under the logged-in student's own prefix
// are served; everything else in the bucket (credential files, other
// students' records) is off limits.
func (h *AudioHandler) Stream(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" || strings.Contains(key, "..") {
		http.Error(w, "Invalid audio path", http.StatusBadRequest)
		return
	}

	state := StateFromContext(r.Context())
	if state == nil {
		http.Error(w, ErrUnauthorized, http.StatusUnauthorized)
		return
	}
	if !strings.HasPrefix(key, state.StudentPrefix+"/") {
		http.Error(w, "Audio not found", http.StatusNotFound)
		return
	}

	data, err := h.objects.Get(r.Context(), key)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "Audio not found", http.StatusNotFound)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to fetch audio", err)
		return
	}

	w.Header().Set("Content-Type", audioContentType(key))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}

func audioContentType(key string) string {
	switch path.Ext(key) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".m4a":
		return "audio/mp4"
	default:
		return "application/octet-stream"
	}
}
