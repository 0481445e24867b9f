package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/quillauth/token-engine/clients"
)

// SigningProvider is the Key & Signing Provider consumed by the grant
// handlers: it turns a pre-computed ID-token payload into a signed JWT for
// the authenticated client.
type SigningProvider interface {
	GenerateIDToken(client *clients.Client, payload Payload) (string, error)

	// UpdatePayloadTimestamps stamps the volatile claims (iat, exp, jti)
	// that are recomputed on every issuance.
	UpdatePayloadTimestamps(payload Payload)
}

// JWTProvider signs ID tokens with a Signer. It is the default
// SigningProvider; deployments with external key management supply their
// own.
type JWTProvider struct {
	signer        Signer
	issuer        string
	idTokenExpiry time.Duration
	now           func() time.Time
}

type JWTProviderOption func(*JWTProvider)

// WithNowFunc sets the time source (primarily for testing).
func WithNowFunc(now func() time.Time) JWTProviderOption {
	return func(p *JWTProvider) {
		p.now = now
	}
}

func NewJWTProvider(signer Signer, issuer string, idTokenExpiry time.Duration, options ...JWTProviderOption) *JWTProvider {
	p := &JWTProvider{
		signer:        signer,
		issuer:        issuer,
		idTokenExpiry: idTokenExpiry,
		now:           time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

var _ SigningProvider = (*JWTProvider)(nil)

// GenerateIDToken signs the payload as a JWT for the client. The stored
// payload is not mutated; the signed copy carries fresh timestamps and the
// issuer/audience pair.
func (p *JWTProvider) GenerateIDToken(client *clients.Client, payload Payload) (string, error) {
	if client == nil {
		return "", errors.New("[JWTProvider.GenerateIDToken] nil client")
	}

	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	claims["iss"] = p.issuer
	claims["aud"] = client.ID
	claims["iat"] = p.now().Unix()
	claims["exp"] = p.now().Add(p.idTokenExpiry).Unix()
	claims["jti"] = uuid.New().String()

	signed, err := p.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "[JWTProvider.GenerateIDToken] Sign")
	}
	return signed, nil
}

// UpdatePayloadTimestamps refreshes the issuance claims in place.
func (p *JWTProvider) UpdatePayloadTimestamps(payload Payload) {
	if payload == nil {
		return
	}
	payload["iat"] = p.now().Unix()
	payload["exp"] = p.now().Add(p.idTokenExpiry).Unix()
	payload["jti"] = uuid.New().String()
}
