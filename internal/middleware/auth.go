package middleware

import (
	"net/http"
	"strings"
)

// AuthCookie is set by the login handler once the attendant password matches.
const AuthCookie = "authenticated"

// AuthMiddleware lets a request through only if it carries 'authenticated=true'.
// API calls get 401, page loads are redirected to the login page.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(AuthCookie)
		if err != nil || cookie.Value != "true" {
			if strings.HasPrefix(r.URL.Path, "/api/") ||
				r.Header.Get("X-Requested-With") == "XMLHttpRequest" ||
				r.Header.Get("Content-Type") == "application/json" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
