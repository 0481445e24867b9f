package token

import "context"

// Store persists issued tokens. Lookup methods return (nil, nil) when no
// token matches; errors are reserved for infrastructure failures.
//
// FindReusable returns a non-expired token whose scope set, client and
// payload fields match exactly (payload comparison ignores volatile claims,
// see Payload.Matches). The check-then-insert pair FindReusable/Add is not
// atomic: two concurrent identical grants may both miss and both insert,
// yielding two valid tokens for the same logical grant. That is an accepted
// liveness-over-uniqueness tradeoff; deployments needing at-most-one
// semantics must wrap the pair in a transactional store operation keyed on
// (scope, client, payload hash).
type Store interface {
	GetByAccessToken(ctx context.Context, accessToken string) (*GrantedToken, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*GrantedToken, error)
	FindReusable(ctx context.Context, scope, clientID string, idTokenPayload, userInfoPayload Payload) (*GrantedToken, error)
	Add(ctx context.Context, granted *GrantedToken) error

	// Remove deletes the record; it reports false when the token was already
	// gone so concurrent revocations observe exactly one success.
	Remove(ctx context.Context, granted *GrantedToken) (bool, error)
}
