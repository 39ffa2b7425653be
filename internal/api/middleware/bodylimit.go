package middleware

import "net/http"

// MaxBodySize caps the request body at maxBytes. Subtitle documents and
// clip requests are small JSON payloads; the multipart media routes set
// their own, much larger reader limits.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
