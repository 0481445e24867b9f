package fakecoderepo

import (
	"context"
	"sync"

	"github.com/quillauth/token-engine/authcode"
)

var _ authcode.Store = (*FakeCodeRepo)(nil)

// FakeCodeRepo is an in-memory authorization code store. Remove holds the
// write lock across lookup and delete so exactly one caller wins a
// concurrent redemption race.
type FakeCodeRepo struct {
	codes map[string]*authcode.AuthorizationCode
	lock  sync.RWMutex
}

func NewFakeCodeRepo() *FakeCodeRepo {
	return &FakeCodeRepo{
		codes: make(map[string]*authcode.AuthorizationCode),
	}
}

// Add seeds a code; in production the authorization endpoint owns creation.
func (r *FakeCodeRepo) Add(code *authcode.AuthorizationCode) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.codes[code.Code] = code
}

func (r *FakeCodeRepo) Get(_ context.Context, code string) (*authcode.AuthorizationCode, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	stored, ok := r.codes[code]
	if !ok {
		return nil, nil
	}
	return stored, nil
}

func (r *FakeCodeRepo) Remove(_ context.Context, code string) (bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.codes[code]; !ok {
		return false, nil
	}
	delete(r.codes, code)
	return true, nil
}
