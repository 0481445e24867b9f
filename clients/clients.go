package clients

import (
	"crypto"

	"github.com/quillauth/token-engine/oauthmodel"
)

// RegisteredKey is a public key a client registered for verifying its signed
// JWT client assertions. Key holds an *rsa.PublicKey, *ecdsa.PublicKey or an
// HMAC secret ([]byte).
type RegisteredKey struct {
	KeyID string `json:"kid"`
	Key   crypto.PublicKey
}

// Client is the identity of a registered application. A Client is immutable
// during a single grant evaluation; it is owned by the external client
// registry and only read here.
type Client struct {
	ID          string `json:"id"`
	Description string `json:"description"`

	// Secrets are the shared secrets accepted for basic/post authentication.
	// A client may hold several during secret rotation.
	Secrets []string `json:"secrets"`

	// RegisteredKeys verify private_key_jwt client assertions.
	RegisteredKeys []RegisteredKey `json:"-"`

	// CertificateThumbprints are base64url SHA-256 digests of the DER
	// certificates accepted for tls_client_auth.
	CertificateThumbprints []string `json:"certificateThumbprints"`

	// GrantTypes the client is allowed to exercise at the token endpoint.
	GrantTypes []oauthmodel.GrantType `json:"grantTypes"`

	// ResponseTypes the client is registered for.
	ResponseTypes []oauthmodel.ResponseType `json:"responseTypes"`

	// TokenEndpointAuthMethod, when set, restricts client authentication to
	// a single scheme.
	TokenEndpointAuthMethod oauthmodel.AuthMethod `json:"tokenEndpointAuthMethod"`

	RedirectURIs []string `json:"redirectURIs"`

	// RequirePKCE forces a code challenge on every authorization code issued
	// to this client.
	RequirePKCE bool `json:"requirePkce"`

	// Scopes allowed for this client.
	Scopes []string `json:"scopes"`
}

// HasGrantType checks whether the client is registered for the grant type.
func (c *Client) HasGrantType(grantType oauthmodel.GrantType) bool {
	for _, gt := range c.GrantTypes {
		if gt == grantType {
			return true
		}
	}
	return false
}

// HasResponseType checks whether the client is registered for the response type.
func (c *Client) HasResponseType(responseType oauthmodel.ResponseType) bool {
	for _, rt := range c.ResponseTypes {
		if rt == responseType {
			return true
		}
	}
	return false
}

// HasScope checks if the client has permission for a specific scope.
func (c *Client) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// HasSecret checks a presented shared secret against the client's secrets.
func (c *Client) HasSecret(secret string) bool {
	if secret == "" {
		return false
	}
	for _, s := range c.Secrets {
		if s == secret {
			return true
		}
	}
	return false
}

// HasCertificateThumbprint checks a presented certificate digest against the
// client's registered thumbprints.
func (c *Client) HasCertificateThumbprint(thumbprint string) bool {
	for _, t := range c.CertificateThumbprints {
		if t == thumbprint {
			return true
		}
	}
	return false
}

// HasRedirectURI checks a redirect URI against the registered whitelist.
// Exact matching only, to prevent open redirects.
func (c *Client) HasRedirectURI(redirectURI string) bool {
	for _, uri := range c.RedirectURIs {
		if uri == redirectURI {
			return true
		}
	}
	return false
}
