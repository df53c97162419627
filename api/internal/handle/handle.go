package handle

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"learn-proxy/api/internal/learn"
	"learn-proxy/api/internal/llm"
	"learn-proxy/api/internal/store"
	"learn-proxy/api/internal/worksheet"
)

const (
	maxBodyBytes      = 1 << 20
	maxTimeoutSeconds = 600 // cap for X-Request-Timeout
)

// MaxRequestTimeout is the longest deadline a client can ask for.
const MaxRequestTimeout = maxTimeoutSeconds * time.Second

// StatsSource is the read side of the generation audit log.
type StatsSource interface {
	CountByStatus(ctx context.Context, since time.Time) ([]store.StatusCount, error)
}

type Handle struct {
	svc     *learn.Service
	ws      *worksheet.Generator
	stats   StatsSource
	timeout time.Duration
}

// New builds the HTTP handlers. stats may be nil when auditing is off;
// timeout <= 0 leaves the request context without a deadline.
func New(svc *learn.Service, ws *worksheet.Generator, stats StatsSource, timeout time.Duration) *Handle {
	return &Handle{svc: svc, ws: ws, stats: stats, timeout: timeout}
}

func (h *Handle) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/tutor", h.Tutor)
	mux.HandleFunc("/api/practice", h.Practice)
	mux.HandleFunc("/api/practice/worksheet", h.Worksheet)
	mux.HandleFunc("/api/stats", h.Stats)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorBody{Error: msg})
}

// decodePOST enforces POST and decodes the JSON body into dst. It writes the
// error response itself and reports whether the caller should go on.
func decodePOST(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return false
	}
	defer r.Body.Close()
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// requestContext applies the default deadline, which X-Request-Timeout
// (seconds, capped at maxTimeoutSeconds) can override.
func (h *Handle) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	deadline := h.timeout
	if ts := r.Header.Get("X-Request-Timeout"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(min(v, maxTimeoutSeconds)) * time.Second
		}
	}
	if deadline <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), deadline)
}

// failureMessages are the user-facing texts for one endpoint.
type failureMessages struct {
	route   string
	empty   string
	generic string
}

const msgParse = "Failed to parse AI response. Please try again."

var (
	tutorMessages = failureMessages{
		route:   "tutor",
		empty:   "Failed to generate explanation. Please try again.",
		generic: "An error occurred while generating the explanation. Please try again later.",
	}
	practiceMessages = failureMessages{
		route:   "practice",
		empty:   "Failed to generate practice problems. Please try again.",
		generic: "An error occurred while generating practice problems. Please try again later.",
	}
)

// fail maps a service error onto the HTTP error taxonomy.
func fail(w http.ResponseWriter, m failureMessages, err error) {
	var ve *learn.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, llm.ErrUnknownEngine):
		writeError(w, http.StatusBadRequest, "Unknown llm_name")
	case errors.Is(err, learn.ErrEmptyGeneration):
		log.Printf("%s: %v", m.route, err)
		writeError(w, http.StatusInternalServerError, m.empty)
	case errors.Is(err, learn.ErrMalformedResponse):
		log.Printf("%s: %v", m.route, err)
		writeError(w, http.StatusInternalServerError, msgParse)
	default:
		log.Printf("%s: %v", m.route, err)
		writeError(w, http.StatusInternalServerError, m.generic)
	}
}
