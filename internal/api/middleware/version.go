package middleware

import "net/http"

// ServerVersionHeader advertises the running server version
const ServerVersionHeader = "X-Server-Version"

// ServerVersion stamps every response with the server version
func ServerVersion(version string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(ServerVersionHeader, version)
			next.ServeHTTP(w, r)
		})
	}
}
