package grants

import (
	"context"

	"github.com/quillauth/token-engine/clientauth"
	"github.com/quillauth/token-engine/oauthmodel"
	"github.com/quillauth/token-engine/token"
)

// RefreshTokenGrant always mints a new access token chained to the prior
// one through ParentTokenID; there is no deduplication on refresh. The
// prior token's refresh credential survives by default (long-lived reuse);
// the rotation policy invalidates it instead.
func (s *Service) RefreshTokenGrant(ctx context.Context, req *oauthmodel.TokenRequest, in *clientauth.Instruction) (*token.GrantedToken, error) {
	if req == nil {
		return nil, oauthmodel.NewArgumentError("request")
	}
	if in == nil {
		return nil, oauthmodel.NewArgumentError("instruction")
	}
	if req.RefreshToken == "" {
		return nil, oauthmodel.NewArgumentError("refresh_token")
	}

	client, err := s.authenticate(ctx, in, oauthmodel.RefreshTokenGrant)
	if err != nil {
		return nil, err
	}

	prior, err := s.stores.Tokens.GetByRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.storeFailure("refresh token lookup", err)
	}
	if prior == nil {
		return nil, oauthmodel.InvalidGrant("refresh token is not valid")
	}
	if prior.ClientID != client.ID {
		return nil, oauthmodel.InvalidGrant("refresh token can be used only by the same issuer")
	}

	granted, err := s.mint(ctx, client, prior.Scope, prior.IDTokenPayload, prior.UserInfoPayload, prior.ID)
	if err != nil {
		return nil, err
	}

	if s.cfg.RotateRefreshTokens {
		if err := s.invalidateRefreshCredential(ctx, prior); err != nil {
			return nil, err
		}
	}

	s.events.AccessGranted(client.ID, string(oauthmodel.RefreshTokenGrant), granted.Scope)
	return granted, nil
}

// invalidateRefreshCredential strips the refresh token from a stored grant
// while keeping its access token valid until natural expiry.
func (s *Service) invalidateRefreshCredential(ctx context.Context, prior *token.GrantedToken) error {
	removed, err := s.stores.Tokens.Remove(ctx, prior)
	if err != nil {
		return s.storeFailure("refresh token rotation", err)
	}
	if !removed {
		// Already revoked concurrently; nothing left to rotate.
		return nil
	}
	rotated := *prior
	rotated.RefreshToken = ""
	if err := s.stores.Tokens.Add(ctx, &rotated); err != nil {
		return s.storeFailure("refresh token rotation", err)
	}
	return nil
}
