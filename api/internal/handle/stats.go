package handle

import (
	"log"
	"net/http"
	"strconv"
	"time"
)

const maxStatsHours = 24 * 365

// Stats reports audit-log outcome counts for the last ?hours= (default 24).
func (h *Handle) Stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	if h.stats == nil {
		writeError(w, http.StatusNotFound, "audit log disabled")
		return
	}
	hours := 24
	if v, err := strconv.Atoi(r.URL.Query().Get("hours")); err == nil && v > 0 {
		hours = min(v, maxStatsHours)
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	counts, err := h.stats.CountByStatus(ctx, time.Now().Add(-time.Duration(hours)*time.Hour))
	if err != nil {
		log.Printf("stats: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to read stats")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hours": hours, "counts": counts})
}
