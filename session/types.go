package session

import (
	"net/http"
	"time"
)

// Store defines a session store interface to be
// implemented by a concrete objects
type Store interface {
	All() map[string]Object
	SetSession(key string, data Object) error
	GetSession(key string) (Object, error)
	InvalidateSession(key string) (Object, bool)
	ExtendSession(key string, expiresAt time.Time) bool
	Len() int
}

// Object wraps the data stored for each session key. Value is the visitor's
// page instance; it is closed when the session goes away if it is an io.Closer.
type Object struct {
	Value     any       `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresOn"`
}

// Expired reports whether the object is past its expiry at now
func (o Object) Expired(now time.Time) bool {
	return !o.ExpiresAt.IsZero() && !now.Before(o.ExpiresAt)
}

type ResponseWriterWithSessionInfo struct {
	http.ResponseWriter
	Token         string
	SessionObject *Object // this is the object from session
}

// NewResponseWriterWithSessionInfo wraps w with the session found for the request
func NewResponseWriterWithSessionInfo(w http.ResponseWriter, token string, sessionObject *Object) ResponseWriterWithSessionInfo {
	return ResponseWriterWithSessionInfo{w, token, sessionObject}
}
