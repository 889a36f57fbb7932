package server

import (
	"net/http"

	"github.com/google/uuid"
)

// SessionCookie names the cookie holding the browser session id.
const SessionCookie = "dsector_session"

// sessionID returns the caller's session id. When the request carries no
// valid id and create is set, a new one is issued via Set-Cookie.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request, create bool) (string, bool) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String(), true
		}
	}
	if !create {
		return "", false
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.cfg.SessionTTL.Seconds()),
	})
	return id, true
}

// forgetSession expires the session cookie.
func forgetSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
