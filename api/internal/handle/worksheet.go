package handle

import (
	"bytes"
	"fmt"
	"log"
	"net/http"

	"learn-proxy/api/internal/learn"
	"learn-proxy/api/internal/worksheet"
)

// Worksheet generates a practice set and returns it as a printable PDF.
func (h *Handle) Worksheet(w http.ResponseWriter, r *http.Request) {
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

	var buf bytes.Buffer
	if err := h.ws.Render(&buf, req.Subject, out); err != nil {
		log.Printf("worksheet: %v", err)
		writeError(w, http.StatusInternalServerError, practiceMessages.generic)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, worksheet.Filename(out.Topic)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
