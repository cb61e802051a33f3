package web

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// CurrentUser returns the signed-in user resolved by WithCurrentUser, or
// nil for anonymous requests.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}

// WithCurrentUser resolves the session's user once per request and
// threads it through the context. A session pointing at a deleted user
// is dropped.
func (s *Server) WithCurrentUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := s.sessions.UserID(r)
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.users.FindByID(r.Context(), userID)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if user == nil {
			_ = s.sessions.SignOut(w, r)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser redirects anonymous requests to the login page, carrying
// the original path so login can return there.
func (s *Server) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) == nil {
			redirectTo := r.URL.Path
			if r.URL.RawQuery != "" {
				redirectTo += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, "/login?redirectTo="+url.QueryEscape(redirectTo), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects non-admin users with 403 before any handler runs.
func (s *Server) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !CurrentUser(r.Context()).IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// safeRedirect accepts only local paths, so a crafted redirectTo value
// cannot send users off-site after login.
func safeRedirect(target, fallback string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}
