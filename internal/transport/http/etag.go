package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"
)

// entityTag quotes a fingerprint as a weak ETag. The fingerprint identifies
// the data, while the bytes on the wire vary with Content-Encoding. An empty
// fingerprint yields no tag.
func entityTag(fingerprint string) string {
	if fingerprint == "" {
		return ""
	}
	return `W/"` + fingerprint + `"`
}

// etagMatches reports whether an If-None-Match header value matches etag.
// Weak comparison is used, as required for If-None-Match.
func etagMatches(header, etag string) bool {
	if header == "" || etag == "" {
		return false
	}
	opaque := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if strings.TrimPrefix(candidate, "W/") == opaque {
			return true
		}
	}
	return false
}

// renderCachedJSON writes v as JSON tagged with the fingerprint, or 304 when
// the client already holds this version.
func renderCachedJSON(w http.ResponseWriter, r *http.Request, fingerprint string, v any) {
	etag := entityTag(fingerprint)
	if etag != "" {
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "no-cache")
		if etagMatches(r.Header.Get("If-None-Match"), etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	render.JSON(w, r, v)
}
