package fakeclientrepo

import (
	"context"
	"sync"

	"github.com/quillauth/token-engine/clients"
)

var _ clients.Registry = (*FakeClientRepo)(nil)

// FakeClientRepo is an in-memory client registry used by tests and the demo
// wiring.
type FakeClientRepo struct {
	clients map[string]*clients.Client
	lock    sync.RWMutex
}

func NewFakeClientRepo() *FakeClientRepo {
	return &FakeClientRepo{
		clients: make(map[string]*clients.Client),
	}
}

func (r *FakeClientRepo) Upsert(clientData *clients.Client) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.clients[clientData.ID] = clientData
}

func (r *FakeClientRepo) Delete(clientID string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.clients, clientID)
}

func (r *FakeClientRepo) Get(_ context.Context, clientID string) (*clients.Client, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	client, ok := r.clients[clientID]
	if !ok {
		return nil, nil
	}
	return client, nil
}
