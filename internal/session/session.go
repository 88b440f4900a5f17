// Package session is the single source of truth for "is a user logged in,
// and are they an admin". It is a pure persistence abstraction: no network
// calls, no caching of tokens across a Clear.
package session

import (
	"encoding/json"
)

const AdminRole = "admin"

type User struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
}

type Session struct {
	Token string
	User  User
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.User.Role == AdminRole
}

// Store persists exactly two values: the opaque auth token and the
// serialized user profile. Save is atomic from the caller's perspective,
// Load fails closed and Clear is idempotent.
type Store interface {
	// Load returns the persisted session, or nil if none is stored or the
	// stored data is malformed. Malformed data is cleared before returning.
	Load() (*Session, error)
	Save(s *Session) error
	Clear() error
}

// decode validates the two persisted values into a Session. Any missing
// field, unparseable profile or locally-expired token yields nil.
func decode(token, userJSON string) *Session {
	if token == "" || userJSON == "" {
		return nil
	}
	var u User
	if err := json.Unmarshal([]byte(userJSON), &u); err != nil {
		return nil
	}
	if u.Email == "" || u.Role == "" {
		return nil
	}
	if TokenExpired(token) {
		return nil
	}
	return &Session{Token: token, User: u}
}

func encodeUser(u User) string {
	b, _ := json.Marshal(u)
	return string(b)
}
