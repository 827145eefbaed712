package middleware

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const ClientKeyKey contextKey = "client_key"

// ClientSession derives the admission-control client key for each request
// and makes it available on the context. The device session cookie is the
// canonical key; the remote IP is used only for requests that arrive without
// one (first visit, cookie-less clients). A missing cookie is minted here so
// the very next request is keyed by session rather than address.
func ClientSession(cookieName string, cookieMaxAge time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := ""

			if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
				clientKey = cookie.Value
			} else {
				session := uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    session,
					Path:     "/",
					MaxAge:   int(cookieMaxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteStrictMode,
				})
				clientKey = remoteIP(r)
			}

			ctx := context.WithValue(r.Context(), ClientKeyKey, clientKey)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClientKey returns the key stored by ClientSession, falling back to the
// remote address when the middleware is not installed.
func ClientKey(r *http.Request) string {
	if key, ok := r.Context().Value(ClientKeyKey).(string); ok && key != "" {
		return key
	}
	return remoteIP(r)
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
