package middleware

import "net/http"

// SecurityHeaders sets baseline browser-protection headers on every
// response.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Referrer-Policy", "origin-when-cross-origin")
			next.ServeHTTP(w, r)
		})
	}
}
