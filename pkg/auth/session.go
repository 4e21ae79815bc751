package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	sessionName  = "nossamoto_admin"
	minSecretLen = 32

	keyIsAdmin   = "is_admin"
	keySessionID = "sid"
)

var (
	// ErrNoSession is returned when the request carries no admin session.
	ErrNoSession = errors.New("auth: no admin session")
	// ErrWeakSecret is returned for signing keys shorter than 32 bytes.
	ErrWeakSecret = errors.New("auth: session secret must be at least 32 bytes")
)

// SessionCookieName is the name of the admin session cookie.
func SessionCookieName() string {
	return sessionName
}

// SessionSecretBytes returns s as a signing key. Short keys are rejected,
// never padded.
func SessionSecretBytes(s string) ([]byte, error) {
	if len(s) < minSecretLen {
		return nil, ErrWeakSecret
	}
	return []byte(s), nil
}

// RandomSessionSecret returns a fresh signing key. Sessions signed with it
// do not survive a restart.
func RandomSessionSecret() ([]byte, error) {
	key := securecookie.GenerateRandomKey(minSecretLen)
	if key == nil {
		return nil, errors.New("auth: could not generate session secret")
	}
	return key, nil
}

// SessionManager stores the admin flag in a signed cookie session. The
// session expires after ttl; nothing outlives it.
type SessionManager struct {
	store *sessions.CookieStore
}

// NewSessionManager creates a manager signing cookies with secret. Secure
// marks the cookie HTTPS-only.
func NewSessionManager(secret []byte, ttl time.Duration, secure bool) *SessionManager {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(int(ttl / time.Second))
	return &SessionManager{store: store}
}

// Login starts an admin session and returns its identifier.
func (m *SessionManager) Login(w http.ResponseWriter, r *http.Request) (string, error) {
	sess, _ := m.store.New(r, sessionName)
	sid := uuid.NewString()
	sess.Values[keyIsAdmin] = true
	sess.Values[keySessionID] = sid
	if err := sess.Save(r, w); err != nil {
		return "", err
	}
	return sid, nil
}

// Logout clears the admin session.
func (m *SessionManager) Logout(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.New(r, sessionName)
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// AdminSession returns the identifier of the admin session carried by r.
func (m *SessionManager) AdminSession(r *http.Request) (string, error) {
	sess, err := m.store.Get(r, sessionName)
	if err != nil || sess.IsNew {
		return "", ErrNoSession
	}
	isAdmin, _ := sess.Values[keyIsAdmin].(bool)
	sid, _ := sess.Values[keySessionID].(string)
	if !isAdmin || sid == "" {
		return "", ErrNoSession
	}
	return sid, nil
}
