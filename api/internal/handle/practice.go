package handle

import (
	"net/http"

	"learn-proxy/api/internal/learn"
)

func (h *Handle) Practice(w http.ResponseWriter, r *http.Request) {
	var req learn.PracticeRequest
	if !decodePOST(w, r, &req) {
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	out, err := h.svc.Practice(ctx, req)
	if err != nil {
		fail(w, practiceMessages, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
