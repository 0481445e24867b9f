package grants

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/quillauth/token-engine/authcode"
	"github.com/quillauth/token-engine/clientauth"
	"github.com/quillauth/token-engine/clients"
	"github.com/quillauth/token-engine/events"
	"github.com/quillauth/token-engine/internal/config"
	"github.com/quillauth/token-engine/oauthmodel"
	"github.com/quillauth/token-engine/scopes"
	"github.com/quillauth/token-engine/token"
	"github.com/quillauth/token-engine/users"
)

// Stores holds the two mutable shared resources of the engine. All mutation
// goes through their narrow contracts; no handler reaches into storage
// internals.
type Stores struct {
	Codes  authcode.Store
	Tokens token.Store
}

// Service is the token issuance and grant processing engine: it
// authenticates clients, validates grants, and mints, reuses or revokes
// bearer credentials. Handlers are stateless and safe to run concurrently;
// no lock is held across a store call.
type Service struct {
	cfg           *config.Config
	stores        Stores
	authenticator *clientauth.Authenticator
	owners        users.Authenticator
	scopes        *scopes.Validator
	signer        token.SigningProvider
	events        events.Sink
	nowTime       func() time.Time
}

// ServiceOption modifies the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

// WithEventSink sets the audit event sink.
func WithEventSink(sink events.Sink) ServiceOption {
	return func(s *Service) {
		s.events = sink
	}
}

// NewService initializes the grant processing engine with its required
// collaborators. Optional configuration can be provided via options.
func NewService(
	cfg *config.Config,
	stores Stores,
	authenticator *clientauth.Authenticator,
	owners users.Authenticator,
	signer token.SigningProvider,
	options ...ServiceOption,
) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("[NewService] config is required")
	}
	if stores.Codes == nil {
		return nil, errors.New("[NewService] authorization code store is required")
	}
	if stores.Tokens == nil {
		return nil, errors.New("[NewService] granted token store is required")
	}
	if authenticator == nil {
		return nil, errors.New("[NewService] client authenticator is required")
	}
	if signer == nil {
		return nil, errors.New("[NewService] signing provider is required")
	}

	service := &Service{
		cfg:           cfg,
		stores:        stores,
		authenticator: authenticator,
		owners:        owners,
		scopes:        scopes.NewValidator(),
		signer:        signer,
		events:        events.NoopSink{},
		nowTime:       time.Now,
	}

	for _, opt := range options {
		opt(service)
	}

	return service, nil
}

// authenticate resolves the client and verifies it is registered for the
// grant and response types being exercised. Every failure maps to
// invalid_client.
func (s *Service) authenticate(ctx context.Context, in *clientauth.Instruction, grantType oauthmodel.GrantType, responseTypes ...oauthmodel.ResponseType) (*clients.Client, error) {
	client, err := s.authenticator.Resolve(ctx, in)
	if err != nil {
		return nil, oauthmodel.InvalidClient(err.Error())
	}
	if !client.HasGrantType(grantType) {
		return nil, oauthmodel.InvalidClient(fmt.Sprintf("client %s is not registered for the grant type %s", client.ID, grantType))
	}
	for _, rt := range responseTypes {
		if !client.HasResponseType(rt) {
			return nil, oauthmodel.InvalidClient(fmt.Sprintf("client %s is not registered for the response type %s", client.ID, rt))
		}
	}
	return client, nil
}

// mint creates and persists a new granted token. When idTokenPayload is
// present the signing provider stamps fresh issuance claims and attaches a
// signed ID token.
func (s *Service) mint(ctx context.Context, client *clients.Client, scope string, idTokenPayload, userInfoPayload token.Payload, parentTokenID string) (*token.GrantedToken, error) {
	accessToken, err := token.NewValue()
	if err != nil {
		return nil, s.storeFailure("generate access token", err)
	}

	granted := &token.GrantedToken{
		ID:              uuid.New().String(),
		AccessToken:     accessToken,
		ClientID:        client.ID,
		Scope:           scope,
		TokenType:       oauthmodel.BearerTokenType,
		ExpiresIn:       int(s.cfg.AccessTokenExpiry.Seconds()),
		CreatedAt:       s.nowTime(),
		ParentTokenID:   parentTokenID,
		UserInfoPayload: userInfoPayload,
	}

	if client.HasGrantType(oauthmodel.RefreshTokenGrant) {
		refreshToken, err := token.NewValue()
		if err != nil {
			return nil, s.storeFailure("generate refresh token", err)
		}
		granted.RefreshToken = refreshToken
	}

	if idTokenPayload != nil {
		payload := idTokenPayload.Clone()
		s.signer.UpdatePayloadTimestamps(payload)
		granted.IDTokenPayload = payload

		signed, err := s.signer.GenerateIDToken(client, payload)
		if err != nil {
			return nil, s.storeFailure("sign id token", err)
		}
		granted.IDToken = signed
	}

	// A cancellation here leaves any already-consumed authorization code
	// without an issued token; the only recovery is a fresh code exchange,
	// so surface it as a server error and flag it for operators.
	if err := ctx.Err(); err != nil {
		s.events.Anomaly("grant canceled before token persistence", err)
		return nil, oauthmodel.ServerError("request canceled before the token could be issued")
	}

	if err := s.stores.Tokens.Add(ctx, granted); err != nil {
		s.events.Anomaly("failed to persist granted token", err)
		return nil, oauthmodel.ServerError("failed to persist the token")
	}
	return granted, nil
}

// storeFailure logs an infrastructure error and re-surfaces it as a generic
// server error so persistence internals never leak to the caller.
func (s *Service) storeFailure(operation string, err error) *oauthmodel.Error {
	s.events.Anomaly(operation+" failed", err)
	return oauthmodel.ServerError(operation + " failed")
}
