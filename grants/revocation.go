package grants

import (
	"context"

	"github.com/quillauth/token-engine/clientauth"
	"github.com/quillauth/token-engine/oauthmodel"
)

// Revoke deletes an issued credential after verifying the revoking client
// owns it. The token value is looked up as an access token first, then as a
// refresh token. "Not found" and "not owned" are protocol failures carried
// on the returned error, never panics: the boolean reports whether a
// credential was deleted.
func (s *Service) Revoke(ctx context.Context, req *oauthmodel.RevocationRequest, in *clientauth.Instruction) (bool, error) {
	if req == nil {
		return false, oauthmodel.NewArgumentError("request")
	}
	if in == nil {
		return false, oauthmodel.NewArgumentError("instruction")
	}
	if req.Token == "" {
		return false, oauthmodel.NewArgumentError("token")
	}

	client, err := s.authenticator.Resolve(ctx, in)
	if err != nil {
		return false, oauthmodel.InvalidClient(err.Error())
	}

	granted, err := s.stores.Tokens.GetByAccessToken(ctx, req.Token)
	if err != nil {
		return false, s.storeFailure("token lookup", err)
	}
	matchedRefresh := false
	if granted == nil {
		granted, err = s.stores.Tokens.GetByRefreshToken(ctx, req.Token)
		if err != nil {
			return false, s.storeFailure("token lookup", err)
		}
		matchedRefresh = true
	}
	if granted == nil {
		return false, oauthmodel.InvalidToken("token doesn't exist")
	}
	if granted.ClientID != client.ID {
		return false, oauthmodel.InvalidToken("token has not been issued for the given client id")
	}

	if matchedRefresh {
		// Only the refresh credential dies; the access token runs out its
		// natural lifetime.
		if err := s.invalidateRefreshCredential(ctx, granted); err != nil {
			return false, err
		}
	} else {
		if _, err := s.stores.Tokens.Remove(ctx, granted); err != nil {
			return false, s.storeFailure("token removal", err)
		}
	}

	s.events.TokenRevoked(client.ID, granted.ID)
	return true, nil
}
