// Package domain contains entity without logic, just meta-data
package domain

import "errors"

// UserNameKey is the only user field the relay interprets.
const UserNameKey = "name"

var ErrUsernameEmpty = errors.New("username empty")

// ConnectionID identifies one live transport connection.
type ConnectionID string

// User is the identity a client sends on join. Fields other than "name"
// are opaque and travel untouched into presence events.
type User map[string]any

// Name returns the display name or "" when it is missing or not a string.
func (u User) Name() string {
	name, _ := u[UserNameKey].(string)
	return name
}

func ValidateUsername(username string) error {
	if username == "" {
		return ErrUsernameEmpty
	}
	return nil
}
