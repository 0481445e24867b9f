package clientauth

import (
	"context"

	"github.com/pkg/errors"

	"github.com/quillauth/token-engine/clients"
	"github.com/quillauth/token-engine/oauthmodel"
)

// ErrAuthenticationFailed is the single failure returned for every
// credential problem: unknown client, secret mismatch, malformed assertion,
// thumbprint mismatch. Collapsing them prevents credential-guessing oracles.
var ErrAuthenticationFailed = errors.New("client could not be authenticated")

// method is one client authentication scheme. Strategies are polymorphic
// over the capability set instead of a conditional chain per scheme, so a
// new assertion type or mTLS profile is one more implementation.
type method interface {
	name() oauthmodel.AuthMethod

	// applicable reports whether the instruction carries this scheme's
	// material.
	applicable(in *Instruction) bool

	// clientID extracts the client identifier this scheme claims, without
	// verifying anything.
	clientID(in *Instruction) (string, bool)

	// verify checks the instruction's material against the resolved client.
	verify(ctx context.Context, in *Instruction, client *clients.Client) error
}

// Authenticator resolves inbound authentication material to a single
// authenticated client. It performs pure validation: no mutation, no side
// effects.
type Authenticator struct {
	registry clients.Registry
	methods  []method
}

// NewAuthenticator creates an authenticator over the client registry.
// tokenEndpoint is the audience a signed client assertion must name.
func NewAuthenticator(registry clients.Registry, tokenEndpoint string) (*Authenticator, error) {
	if registry == nil {
		return nil, errors.New("[NewAuthenticator] registry is required")
	}
	return &Authenticator{
		registry: registry,
		methods: []method{
			&basicSecretMethod{},
			&assertionMethod{audience: tokenEndpoint},
			&postSecretMethod{},
			&tlsCertificateMethod{},
		},
	}, nil
}

// Resolve determines which authentication scheme applies and resolves it to
// an authenticated client. If the client declares a token endpoint auth
// method, only that scheme is attempted; otherwise every scheme with
// material present is tried and the first to verify wins.
func (a *Authenticator) Resolve(ctx context.Context, in *Instruction) (*clients.Client, error) {
	if in == nil || in.Empty() {
		return nil, ErrAuthenticationFailed
	}

	client, err := a.lookupClient(ctx, in)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrAuthenticationFailed
	}

	for _, m := range a.methods {
		if client.TokenEndpointAuthMethod != "" && m.name() != client.TokenEndpointAuthMethod {
			continue
		}
		if !m.applicable(in) {
			continue
		}
		if verifyErr := m.verify(ctx, in, client); verifyErr == nil {
			return client, nil
		}
		// Failures intentionally fall through to the generic error below so
		// callers cannot distinguish which check failed.
	}
	return nil, ErrAuthenticationFailed
}

func (a *Authenticator) lookupClient(ctx context.Context, in *Instruction) (*clients.Client, error) {
	for _, m := range a.methods {
		if !m.applicable(in) {
			continue
		}
		id, ok := m.clientID(in)
		if !ok || id == "" {
			continue
		}
		client, err := a.registry.Get(ctx, id)
		if err != nil {
			return nil, errors.Wrap(err, "[Authenticator.Resolve] registry.Get")
		}
		return client, nil
	}
	return nil, nil
}
