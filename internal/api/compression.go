package api

import (
	"net/http"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// compressResponses compresses response bodies with zstd when the client
// advertises support. Dashboard range queries return large JSON arrays,
// so this cuts transfer size substantially for the web frontend.
func compressResponses() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !acceptsZstd(r.Header.Get("Accept-Encoding")) {
				next.ServeHTTP(w, r)
				return
			}

			enc, err := zstd.NewWriter(w)
			if err != nil {
				// Encoder setup failure is not the client's problem;
				// serve uncompressed.
				next.ServeHTTP(w, r)
				return
			}

			zw := &zstdResponseWriter{ResponseWriter: w, enc: enc}
			defer zw.close()

			w.Header().Add("Vary", "Accept-Encoding")
			next.ServeHTTP(zw, r)
		})
	}
}

func acceptsZstd(acceptEncoding string) bool {
	for _, enc := range strings.Split(acceptEncoding, ",") {
		enc = strings.TrimSpace(enc)
		if semi := strings.IndexByte(enc, ';'); semi >= 0 {
			enc = enc[:semi]
		}
		if strings.EqualFold(enc, "zstd") {
			return true
		}
	}
	return false
}

// zstdResponseWriter routes body writes through a zstd encoder. Headers
// are finalized on the first write, matching net/http semantics.
type zstdResponseWriter struct {
	http.ResponseWriter
	enc         *zstd.Encoder
	wroteHeader bool
}

func (z *zstdResponseWriter) WriteHeader(code int) {
	if !z.wroteHeader {
		z.Header().Del("Content-Length")
		z.Header().Set("Content-Encoding", "zstd")
		z.wroteHeader = true
	}
	z.ResponseWriter.WriteHeader(code)
}

func (z *zstdResponseWriter) Write(b []byte) (int, error) {
	if !z.wroteHeader {
		z.WriteHeader(http.StatusOK)
	}
	return z.enc.Write(b)
}

func (z *zstdResponseWriter) close() {
	z.enc.Close()
}
