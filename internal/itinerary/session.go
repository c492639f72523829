package itinerary

import (
	"net/http"
	"net/url"
)

// LocationKey is the session key holding the chosen destination.
const LocationKey = "location"

// SessionReader is read-only access to session-scoped state.
type SessionReader interface {
	Get(key string) (string, bool)
}

// MapSession is an in-memory SessionReader.
type MapSession map[string]string

func (m MapSession) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// CookieSession reads session state from the cookies of a browser request.
// Values are expected to be query-escaped, as SetCookieValue writes them.
type CookieSession struct {
	r *http.Request
}

func NewCookieSession(r *http.Request) CookieSession {
	return CookieSession{r: r}
}

func (s CookieSession) Get(key string) (string, bool) {
	if s.r == nil {
		return "", false
	}
	c, err := s.r.Cookie(key)
	if err != nil {
		return "", false
	}
	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		return c.Value, true
	}
	return v, true
}

// SetCookieValue stores a session value in a browser cookie.
func SetCookieValue(w http.ResponseWriter, key, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     key,
		Value:    url.QueryEscape(value),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
