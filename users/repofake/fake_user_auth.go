package fakeuserauth

import (
	"context"
	"sync"

	"github.com/quillauth/token-engine/users"
)

var _ users.Authenticator = (*FakeUserAuthenticator)(nil)

type storedUser struct {
	owner        *users.ResourceOwner
	passwordHash string
}

// FakeUserAuthenticator is an in-memory resource owner authenticator backed
// by bcrypt hashes, used by tests and the demo wiring.
type FakeUserAuthenticator struct {
	byUsername map[string]storedUser
	lock       sync.RWMutex
}

func NewFakeUserAuthenticator() *FakeUserAuthenticator {
	return &FakeUserAuthenticator{
		byUsername: make(map[string]storedUser),
	}
}

// AddUser registers a resource owner with a plaintext password.
func (a *FakeUserAuthenticator) AddUser(owner *users.ResourceOwner, password string) error {
	hash, err := users.HashPassword(password)
	if err != nil {
		return err
	}
	a.lock.Lock()
	defer a.lock.Unlock()
	a.byUsername[owner.Username] = storedUser{owner: owner, passwordHash: hash}
	return nil
}

func (a *FakeUserAuthenticator) Authenticate(_ context.Context, username, password string, _ []string) (*users.ResourceOwner, error) {
	a.lock.RLock()
	defer a.lock.RUnlock()
	stored, ok := a.byUsername[username]
	if !ok {
		return nil, nil
	}
	if !users.CheckPasswordHash(password, stored.passwordHash) {
		return nil, nil
	}
	return stored.owner, nil
}
