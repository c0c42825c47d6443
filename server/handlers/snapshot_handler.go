package handlers

import (
	"bytes"
	"log"
	"net/http"

	services "burnai-server/service"
)

const QUERY_QUERY_ARG = "q"

type SnapshotHandler struct {
	snapshotService *services.MapSnapshotService
}

func NewSnapshotHandler(snapshotService *services.MapSnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshotService: snapshotService}
}

// GetMapSnapshot renders the burn map server-side, optionally fitted to ?q=.
func (h *SnapshotHandler) GetMapSnapshot(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.snapshotService.Render(r.Context(), r.URL.Query().Get(QUERY_QUERY_ARG), &buf); err != nil {
		log.Println("[SnapshotHandler] Error rendering snapshot:", err)
		http.Error(w, "Failed to render map", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
