package domain

import (
	"errors"
	"time"
)

// Role labels carried on api keys and sessions. Labels only: nothing in
// the core enforces authorization from them.
const (
	RoleAdmin   = "admin"
	RolePlanner = "planner"
	RoleViewer  = "viewer"
)

// APIKey identifies a dashboard client.
type APIKey struct {
	Key       string    `json:"key"`
	Owner     string    `json:"owner"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the login response body: an opaque token plus role label.
type Session struct {
	Token     string    `json:"token"`
	Owner     string    `json:"owner"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

var ErrKeyNotFound = errors.New("api key not found")
