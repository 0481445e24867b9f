package grants

import (
	"context"

	"github.com/quillauth/token-engine/clientauth"
	"github.com/quillauth/token-engine/oauthmodel"
	"github.com/quillauth/token-engine/token"
)

// AuthorizationCodeGrant exchanges a single-use authorization code for a
// token. The code is removed from its store before any token work begins:
// that ordering makes replay impossible even if a later step fails.
func (s *Service) AuthorizationCodeGrant(ctx context.Context, req *oauthmodel.TokenRequest, in *clientauth.Instruction) (*token.GrantedToken, error) {
	if req == nil {
		return nil, oauthmodel.NewArgumentError("request")
	}
	if in == nil {
		return nil, oauthmodel.NewArgumentError("instruction")
	}
	if req.Code == "" {
		return nil, oauthmodel.NewArgumentError("code")
	}

	client, err := s.authenticate(ctx, in, oauthmodel.AuthorizationCodeGrant, oauthmodel.CodeResponseType)
	if err != nil {
		return nil, err
	}

	code, err := s.stores.Codes.Get(ctx, req.Code)
	if err != nil {
		return nil, s.storeFailure("authorization code lookup", err)
	}
	if code == nil {
		return nil, oauthmodel.InvalidGrant("authorization code is not valid")
	}
	if client.RequirePKCE && code.CodeChallenge == "" {
		return nil, oauthmodel.InvalidGrant("client requires a code challenge")
	}
	if !code.VerifyPKCE(req.CodeVerifier) {
		return nil, oauthmodel.InvalidGrant("code verifier does not match the code challenge")
	}
	if code.ClientID != client.ID {
		return nil, oauthmodel.InvalidGrant("authorization code has not been issued for the given client id")
	}
	if code.RedirectURI != req.RedirectURI {
		return nil, oauthmodel.InvalidGrant("redirect uri does not match the one the authorization code was issued for")
	}
	if code.Expired(s.nowTime(), s.cfg.AuthCodeValidity) {
		return nil, oauthmodel.InvalidGrant("authorization code is expired")
	}

	// Invalidate before minting. First-deleter-wins: a concurrent exchange
	// that lost the race sees the code as already consumed.
	removed, err := s.stores.Codes.Remove(ctx, req.Code)
	if err != nil {
		return nil, s.storeFailure("authorization code removal", err)
	}
	if !removed {
		return nil, oauthmodel.InvalidGrant("authorization code is not valid")
	}

	reusable, err := s.stores.Tokens.FindReusable(ctx, code.Scope, client.ID, code.IDTokenPayload, code.UserInfoPayload)
	if err != nil {
		return nil, s.storeFailure("reusable token lookup", err)
	}
	if reusable != nil {
		s.events.AccessGranted(client.ID, string(oauthmodel.AuthorizationCodeGrant), reusable.Scope)
		return reusable, nil
	}

	granted, err := s.mint(ctx, client, code.Scope, code.IDTokenPayload, code.UserInfoPayload, "")
	if err != nil {
		return nil, err
	}
	s.events.AccessGranted(client.ID, string(oauthmodel.AuthorizationCodeGrant), granted.Scope)
	return granted, nil
}
