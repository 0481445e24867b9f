package grants

import (
	"context"

	"github.com/pkg/errors"

	"github.com/quillauth/token-engine/clientauth"
	"github.com/quillauth/token-engine/oauthmodel"
	"github.com/quillauth/token-engine/token"
	"github.com/quillauth/token-engine/users"
)

var errNoOwnerAuthenticator = errors.New("no resource owner authenticator configured")

// PasswordGrant exchanges resource owner credentials for a token. The
// client must be registered for both the token and id_token response types
// because the grant always produces an identity assertion alongside the
// access token.
func (s *Service) PasswordGrant(ctx context.Context, req *oauthmodel.TokenRequest, in *clientauth.Instruction) (*token.GrantedToken, error) {
	if req == nil {
		return nil, oauthmodel.NewArgumentError("request")
	}
	if in == nil {
		return nil, oauthmodel.NewArgumentError("instruction")
	}
	if req.Username == "" {
		return nil, oauthmodel.NewArgumentError("username")
	}
	if req.Password == "" {
		return nil, oauthmodel.NewArgumentError("password")
	}

	client, err := s.authenticate(ctx, in, oauthmodel.PasswordGrant, oauthmodel.TokenResponseType, oauthmodel.IDTokenResponseType)
	if err != nil {
		return nil, err
	}

	result := s.scopes.Check(req.Scope, client)
	if !result.IsValid {
		return nil, oauthmodel.InvalidScope(result.ErrorMessage)
	}
	scope := result.ScopeString()

	if s.owners == nil {
		return nil, s.storeFailure("resource owner authentication", errNoOwnerAuthenticator)
	}
	owner, err := s.owners.Authenticate(ctx, req.Username, req.Password, req.AMRValues)
	if err != nil {
		return nil, s.storeFailure("resource owner authentication", err)
	}
	if owner == nil {
		return nil, oauthmodel.InvalidGrant("resource owner credentials are not valid")
	}

	idTokenPayload := ownerPayload(owner, req.AMRValues)
	userInfoPayload := ownerPayload(owner, nil)

	reusable, err := s.stores.Tokens.FindReusable(ctx, scope, client.ID, idTokenPayload, userInfoPayload)
	if err != nil {
		return nil, s.storeFailure("reusable token lookup", err)
	}
	if reusable != nil {
		s.events.AccessGranted(client.ID, string(oauthmodel.PasswordGrant), reusable.Scope)
		return reusable, nil
	}

	granted, err := s.mint(ctx, client, scope, idTokenPayload, userInfoPayload, "")
	if err != nil {
		return nil, err
	}
	s.events.AccessGranted(client.ID, string(oauthmodel.PasswordGrant), granted.Scope)
	return granted, nil
}

// ownerPayload builds the claims document asserted about an authenticated
// resource owner.
func ownerPayload(owner *users.ResourceOwner, amrValues []string) token.Payload {
	payload := token.Payload{
		"sub":                owner.ID,
		"preferred_username": owner.Username,
	}
	if owner.Email != "" {
		payload["email"] = owner.Email
	}
	if name := owner.Name(); name != "" {
		payload["name"] = name
	}
	for claim, value := range owner.Claims {
		payload[claim] = value
	}
	if len(amrValues) > 0 {
		payload["amr"] = append([]string(nil), amrValues...)
	}
	return payload
}
