package handle

import (
	"net/http"

	"learn-proxy/api/internal/learn"
)

func (h *Handle) Tutor(w http.ResponseWriter, r *http.Request) {
	var req learn.LearningRequest
	if !decodePOST(w, r, &req) {
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	out, err := h.svc.Explain(ctx, req)
	if err != nil {
		fail(w, tutorMessages, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
