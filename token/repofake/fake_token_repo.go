package tokenrepofake

import (
	"context"
	"sync"
	"time"

	"github.com/quillauth/token-engine/token"
)

var _ token.Store = (*FakeTokenRepo)(nil)

// FakeTokenRepo is an in-memory granted-token store keyed by record ID, with
// secondary indexes on the access and refresh token values.
type FakeTokenRepo struct {
	byID      map[string]*token.GrantedToken
	byAccess  map[string]string // access token value -> record ID
	byRefresh map[string]string // refresh token value -> record ID
	lock      sync.RWMutex
	now       func() time.Time
}

func NewFakeTokenRepo() *FakeTokenRepo {
	return &FakeTokenRepo{
		byID:      make(map[string]*token.GrantedToken),
		byAccess:  make(map[string]string),
		byRefresh: make(map[string]string),
		now:       time.Now,
	}
}

// WithNow overrides the time source used by FindReusable expiry checks.
func (r *FakeTokenRepo) WithNow(now func() time.Time) *FakeTokenRepo {
	r.now = now
	return r
}

func (r *FakeTokenRepo) GetByAccessToken(_ context.Context, accessToken string) (*token.GrantedToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	id, ok := r.byAccess[accessToken]
	if !ok {
		return nil, nil
	}
	return r.byID[id], nil
}

func (r *FakeTokenRepo) GetByRefreshToken(_ context.Context, refreshToken string) (*token.GrantedToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	id, ok := r.byRefresh[refreshToken]
	if !ok {
		return nil, nil
	}
	return r.byID[id], nil
}

func (r *FakeTokenRepo) FindReusable(_ context.Context, scope, clientID string, idTokenPayload, userInfoPayload token.Payload) (*token.GrantedToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	for _, granted := range r.byID {
		if granted.ClientID != clientID {
			continue
		}
		if !token.SameScopes(granted.Scope, scope) {
			continue
		}
		if granted.Expired(r.now()) {
			continue
		}
		if !granted.IDTokenPayload.Matches(idTokenPayload) {
			continue
		}
		if !granted.UserInfoPayload.Matches(userInfoPayload) {
			continue
		}
		return granted, nil
	}
	return nil, nil
}

func (r *FakeTokenRepo) Add(_ context.Context, granted *token.GrantedToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.byID[granted.ID] = granted
	r.byAccess[granted.AccessToken] = granted.ID
	if granted.RefreshToken != "" {
		r.byRefresh[granted.RefreshToken] = granted.ID
	}
	return nil
}

func (r *FakeTokenRepo) Remove(_ context.Context, granted *token.GrantedToken) (bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	stored, ok := r.byID[granted.ID]
	if !ok {
		return false, nil
	}
	delete(r.byID, stored.ID)
	delete(r.byAccess, stored.AccessToken)
	if stored.RefreshToken != "" {
		delete(r.byRefresh, stored.RefreshToken)
	}
	return true, nil
}
