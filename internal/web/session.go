package web

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "eventdeck_session"

	sessionUserKey = "userId"

	// Flash categories. Flashes are read-once session values.
	flashNoticeKey = "notice"
	flashWizardKey = "wizardSelection"
)

// SessionManager wraps the cookie session store. All state lives in the
// signed cookie; there is no server-side session table.
type SessionManager struct {
	store *sessions.CookieStore
}

// NewSessionManager creates a cookie-backed session manager.
func NewSessionManager(secret string, maxAgeSeconds int, secure bool) *SessionManager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store}
}

// session returns the request's session. Decode errors (tampered or
// stale cookies) fall back to a fresh session.
func (m *SessionManager) session(r *http.Request) *sessions.Session {
	session, _ := m.store.Get(r, sessionName)
	return session
}

// UserID returns the signed-in user ID, or "" when anonymous.
func (m *SessionManager) UserID(r *http.Request) string {
	session := m.session(r)
	if id, ok := session.Values[sessionUserKey].(string); ok {
		return id
	}
	return ""
}

// SignIn stores the user ID in the session.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID string) error {
	session := m.session(r)
	session.Values[sessionUserKey] = userID
	return session.Save(r, w)
}

// SignOut drops the session cookie.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	session := m.session(r)
	delete(session.Values, sessionUserKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// Flash queues a one-time notice shown on the next rendered page.
func (m *SessionManager) Flash(w http.ResponseWriter, r *http.Request, message string) {
	session := m.session(r)
	session.AddFlash(message, flashNoticeKey)
	_ = session.Save(r, w)
}

// PopFlash returns and clears the queued notice, if any.
func (m *SessionManager) PopFlash(w http.ResponseWriter, r *http.Request) string {
	session := m.session(r)
	flashes := session.Flashes(flashNoticeKey)
	if len(flashes) == 0 {
		return ""
	}
	_ = session.Save(r, w)
	if message, ok := flashes[0].(string); ok {
		return message
	}
	return ""
}

// PutWizardSelection stashes the wizard step-one payload for the next
// request. Like any flash it survives exactly one read.
func (m *SessionManager) PutWizardSelection(w http.ResponseWriter, r *http.Request, payload string) error {
	session := m.session(r)
	session.AddFlash(payload, flashWizardKey)
	return session.Save(r, w)
}

// PopWizardSelection consumes the stashed wizard payload.
func (m *SessionManager) PopWizardSelection(w http.ResponseWriter, r *http.Request) (string, bool) {
	session := m.session(r)
	flashes := session.Flashes(flashWizardKey)
	if len(flashes) == 0 {
		return "", false
	}
	_ = session.Save(r, w)
	payload, ok := flashes[0].(string)
	return payload, ok && payload != ""
}
