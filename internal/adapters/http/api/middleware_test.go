package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetErrorType(t *testing.T) {
	cases := map[int]string{
		http.StatusBadRequest:          "client_error",
		http.StatusNotFound:            "not_found",
		http.StatusConflict:            "client_error",
		http.StatusTooManyRequests:     "rate_limit",
		http.StatusServiceUnavailable:  "server_error",
		http.StatusInternalServerError: "server_error",
	}
	for code, want := range cases {
		if got := getErrorType(code); got != want {
			t.Errorf("getErrorType(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestMetricsMiddleware_CapturesStatus(t *testing.T) {
	var seen int
	h := MetricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		if rw, ok := w.(*responseWriter); ok {
			seen = rw.statusCode
		}
	}, "test")

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", w.Code)
	}
	if seen != http.StatusTooManyRequests {
		t.Fatalf("wrapped status = %d", seen)
	}
}
