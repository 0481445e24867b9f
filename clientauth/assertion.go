package clientauth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/quillauth/token-engine/clients"
	"github.com/quillauth/token-engine/oauthmodel"
)

// assertionMethod authenticates a self-issued signed JWT client assertion
// (private_key_jwt, RFC 7523): iss and sub are the client id, aud is the
// token endpoint, and the signature verifies against the client's
// registered keys.
type assertionMethod struct {
	audience string
}

func (*assertionMethod) name() oauthmodel.AuthMethod {
	return oauthmodel.AuthMethodPrivateKeyJWT
}

func (*assertionMethod) applicable(in *Instruction) bool {
	return in.ClientAssertion != ""
}

func (*assertionMethod) clientID(in *Instruction) (string, bool) {
	// Unverified parse: only used to find which client's keys to verify
	// against. Nothing is trusted until verify runs.
	parsed, _, err := jwt.NewParser().ParseUnverified(in.ClientAssertion, jwt.MapClaims{})
	if err != nil {
		return "", false
	}
	issuer, err := parsed.Claims.GetIssuer()
	if err != nil || issuer == "" {
		return "", false
	}
	return issuer, true
}

func (m *assertionMethod) verify(_ context.Context, in *Instruction, client *clients.Client) error {
	if in.ClientAssertionType != oauthmodel.JWTBearerAssertionType {
		return errors.Errorf("unsupported client assertion type %q", in.ClientAssertionType)
	}
	if len(client.RegisteredKeys) == 0 {
		return errors.New("client has no registered keys")
	}

	parsed, err := jwt.NewParser(
		jwt.WithAudience(m.audience),
		jwt.WithIssuer(client.ID),
		jwt.WithSubject(client.ID),
		jwt.WithExpirationRequired(),
	).Parse(in.ClientAssertion, keyFuncFor(client))
	if err != nil {
		return errors.Wrap(err, "client assertion rejected")
	}
	if !parsed.Valid {
		return errors.New("client assertion rejected")
	}
	return nil
}

// keyFuncFor selects the registered key matching the assertion's kid header,
// falling back to the first registered key when no kid is present.
func keyFuncFor(client *clients.Client) jwt.Keyfunc {
	return func(tok *jwt.Token) (any, error) {
		kid, _ := tok.Header["kid"].(string)
		for _, registered := range client.RegisteredKeys {
			if kid == "" || registered.KeyID == kid {
				return registered.Key, nil
			}
		}
		return nil, errors.Errorf("no registered key for kid %q", kid)
	}
}
