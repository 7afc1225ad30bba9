package middleware

import (
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5/middleware"
)

// compressibleTypes lists the response types worth compressing.
var compressibleTypes = []string{
	"text/html",
	"text/css",
	"text/plain",
	"text/csv",
	"text/javascript",
	"application/javascript",
	"application/json",
	"application/problem+json",
	"image/svg+xml",
}

// Compress returns response compression middleware negotiating brotli,
// gzip or deflate. level applies to every encoder.
func Compress(level int) func(next http.Handler) http.Handler {
	c := middleware.NewCompressor(level, compressibleTypes...)
	c.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})
	return c.Handler
}
