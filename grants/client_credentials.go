package grants

import (
	"context"

	"github.com/quillauth/token-engine/clientauth"
	"github.com/quillauth/token-engine/oauthmodel"
	"github.com/quillauth/token-engine/token"
)

// ClientCredentialsGrant issues a token to a machine client with no
// resource owner involved. An identical still-valid grant is reused rather
// than minted again; the deduplication key is (scope, client) only.
func (s *Service) ClientCredentialsGrant(ctx context.Context, req *oauthmodel.TokenRequest, in *clientauth.Instruction) (*token.GrantedToken, error) {
	if req == nil {
		return nil, oauthmodel.NewArgumentError("request")
	}
	if in == nil {
		return nil, oauthmodel.NewArgumentError("instruction")
	}

	client, err := s.authenticate(ctx, in, oauthmodel.ClientCredentialsGrant, oauthmodel.TokenResponseType)
	if err != nil {
		return nil, err
	}

	result := s.scopes.Check(req.Scope, client)
	if !result.IsValid {
		return nil, oauthmodel.InvalidScope(result.ErrorMessage)
	}
	scope := result.ScopeString()

	reusable, err := s.stores.Tokens.FindReusable(ctx, scope, client.ID, nil, nil)
	if err != nil {
		return nil, s.storeFailure("reusable token lookup", err)
	}
	if reusable != nil {
		s.events.AccessGranted(client.ID, string(oauthmodel.ClientCredentialsGrant), reusable.Scope)
		return reusable, nil
	}

	granted, err := s.mint(ctx, client, scope, nil, nil, "")
	if err != nil {
		return nil, err
	}
	s.events.AccessGranted(client.ID, string(oauthmodel.ClientCredentialsGrant), granted.Scope)
	return granted, nil
}
