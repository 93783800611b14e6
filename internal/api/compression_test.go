package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestCompressResponses_Negotiated(t *testing.T) {
	payload := strings.Repeat(`{"steps":12345}`, 200)
	handler := compressResponses()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"data": payload})
	}))

	req := httptest.NewRequest("GET", "/api/daily", nil)
	req.Header.Set("Accept-Encoding", "gzip, zstd")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "zstd" {
		t.Fatalf("Content-Encoding = %q, want zstd", got)
	}
	if w.Body.Len() >= len(payload) {
		t.Errorf("compressed body (%d bytes) not smaller than payload (%d bytes)", w.Body.Len(), len(payload))
	}

	dec, err := zstd.NewReader(w.Body)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}
	defer dec.Close()
	plain, err := io.ReadAll(dec)
	if err != nil {
		t.Fatalf("failed to decompress: %v", err)
	}
	if !strings.Contains(string(plain), payload) {
		t.Error("decompressed body does not contain the original payload")
	}
}

func TestCompressResponses_NotRequested(t *testing.T) {
	handler := compressResponses()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("Content-Encoding = %q, want empty", got)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %q, want plain JSON", w.Body.String())
	}
}

func TestAcceptsZstd(t *testing.T) {
	tests := []struct {
		header string
		want   bool
	}{
		{"zstd", true},
		{"gzip, zstd", true},
		{"zstd;q=0.5", true},
		{"ZSTD", true},
		{"gzip, br", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := acceptsZstd(tt.header); got != tt.want {
			t.Errorf("acceptsZstd(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}
