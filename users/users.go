package users

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// ResourceOwner is the authenticated end user returned by the external
// authentication service. The engine reads it to build ID-token and
// user-info payloads; it owns no part of the user lifecycle.
type ResourceOwner struct {
	ID        string `json:"id,omitempty"`       // Unique identifier (the "sub" claim)
	Username  string `json:"username,omitempty"` // Unique username
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`

	// Claims carries any additional profile claims the deployment exposes.
	Claims map[string]any `json:"claims,omitempty"`
}

// Name returns the display name used in ID-token payloads.
func (o *ResourceOwner) Name() string {
	switch {
	case o.FirstName == "" && o.LastName == "":
		return o.Username
	case o.FirstName == "":
		return o.LastName
	case o.LastName == "":
		return o.FirstName
	}
	return o.FirstName + " " + o.LastName
}

// Authenticator validates resource owner credentials for the password
// grant. Implementations return (nil, nil) when the credentials are wrong;
// errors are reserved for infrastructure failures.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string, amrValues []string) (*ResourceOwner, error)
}

// HashPassword hashes a password for storage in a fake or file-backed
// authenticator.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash checks a password against a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
