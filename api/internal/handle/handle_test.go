package handle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"learn-proxy/api/internal/learn"
	"learn-proxy/api/internal/llm"
	"learn-proxy/api/internal/store"
	"learn-proxy/api/internal/worksheet"
)

type stubEngine struct {
	reply    string
	err      error
	calls    int
	deadline time.Duration
}

func (s *stubEngine) Name() string     { return "stub" }
func (s *stubEngine) GetModel() string { return "stub-1" }
func (s *stubEngine) Complete(ctx context.Context, _ llm.Request) (string, error) {
	s.calls++
	if dl, ok := ctx.Deadline(); ok {
		s.deadline = time.Until(dl)
	}
	return s.reply, s.err
}

type stubStats struct {
	counts []store.StatusCount
	err    error
}

func (s stubStats) CountByStatus(context.Context, time.Time) ([]store.StatusCount, error) {
	return s.counts, s.err
}

func newTestMux(eng *stubEngine, stats StatsSource) *http.ServeMux {
	engs := llm.NewEngines("stub").Register(eng)
	h := New(learn.NewService(engs, nil), worksheet.New(worksheet.DefaultConfig()), stats, 30*time.Second)
	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

func do(t *testing.T, mux http.Handler, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var b errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return b.Error
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestMux(&stubEngine{}, nil)
	for _, path := range []string{"/api/tutor", "/api/practice", "/api/practice/worksheet"} {
		rec := do(t, mux, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: status = %d", path, rec.Code)
		}
		if got := errorOf(t, rec); got != "POST only" {
			t.Errorf("%s: error = %q", path, got)
		}
	}
}

func TestInvalidBody(t *testing.T) {
	eng := &stubEngine{}
	rec := do(t, newTestMux(eng, nil), http.MethodPost, "/api/tutor", "{not json", nil)
	if rec.Code != http.StatusBadRequest || errorOf(t, rec) != "Invalid request body" {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}
	if eng.calls != 0 {
		t.Errorf("provider must not be called")
	}
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestMux(&stubEngine{}, nil), http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

func TestRequestTimeoutHeader(t *testing.T) {
	eng := &stubEngine{reply: `{"explanation":"e","examples":[],"keyPoints":[]}`}
	mux := newTestMux(eng, nil)
	body := `{"subject":"math","topic":"fractions"}`

	do(t, mux, http.MethodPost, "/api/tutor", body, map[string]string{"X-Request-Timeout": "2"})
	if eng.deadline <= 0 || eng.deadline > 2*time.Second {
		t.Errorf("header deadline not applied: %v", eng.deadline)
	}

	do(t, mux, http.MethodPost, "/api/tutor", body, map[string]string{"X-Request-Timeout": "9999999999999"})
	if eng.deadline <= 0 || eng.deadline > maxTimeoutSeconds*time.Second {
		t.Errorf("huge header must be capped: %v", eng.deadline)
	}

	do(t, mux, http.MethodPost, "/api/tutor", body, map[string]string{"X-Request-Timeout": "junk"})
	if eng.deadline <= 2*time.Second {
		t.Errorf("default deadline not applied: %v", eng.deadline)
	}
}

func TestFailMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", &learn.ValidationError{Field: "topic", Message: "bad topic"}, http.StatusBadRequest, "bad topic"},
		{"engine", errors.Join(llm.ErrUnknownEngine), http.StatusBadRequest, "Unknown llm_name"},
		{"empty", learn.ErrEmptyGeneration, http.StatusInternalServerError, tutorMessages.empty},
		{"malformed", learn.ErrMalformedResponse, http.StatusInternalServerError, msgParse},
		{"other", errors.New("boom"), http.StatusInternalServerError, tutorMessages.generic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			fail(rec, tutorMessages, tt.err)
			if rec.Code != tt.code {
				t.Errorf("status = %d, want %d", rec.Code, tt.code)
			}
			if got := errorOf(t, rec); got != tt.msg {
				t.Errorf("error = %q, want %q", got, tt.msg)
			}
		})
	}
}

func TestStats(t *testing.T) {
	rec := do(t, newTestMux(&stubEngine{}, nil), http.MethodGet, "/api/stats", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("disabled audit: status = %d", rec.Code)
	}

	counts := []store.StatusCount{{Kind: store.KindTutor, Status: store.StatusOK, Count: 3}}
	rec = do(t, newTestMux(&stubEngine{}, stubStats{counts: counts}), http.MethodGet, "/api/stats?hours=6", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got struct {
		Hours  int                 `json:"hours"`
		Counts []store.StatusCount `json:"counts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Hours != 6 {
		t.Errorf("hours = %d", got.Hours)
	}
	if diff := cmp.Diff(counts, got.Counts); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}

	rec = do(t, newTestMux(&stubEngine{}, stubStats{counts: counts}), http.MethodGet, "/api/stats?hours=9999999999999", "", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Hours != maxStatsHours {
		t.Errorf("hours should be capped, got %d", got.Hours)
	}

	rec = do(t, newTestMux(&stubEngine{}, stubStats{err: errors.New("db down")}), http.MethodGet, "/api/stats", "", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("store error: status = %d", rec.Code)
	}
}
