package clients

import "context"

// Registry is the read-only client lookup consumed by the engine. The
// lifecycle of clients (registration, rotation, deletion) is owned
// elsewhere.
//
// Get returns (nil, nil) when no client exists for the id; errors are
// reserved for infrastructure failures.
type Registry interface {
	Get(ctx context.Context, clientID string) (*Client, error)
}
