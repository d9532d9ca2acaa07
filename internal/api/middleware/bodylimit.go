package middleware

import "net/http"

// MaxBodySize limits the request body to the given number of bytes.
// JSON API routes get a small limit; the subtitle upload routes use a larger
// one since multipart bodies carry whole .vtt files.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
