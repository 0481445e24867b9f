package oauthmodel

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
// Determines what credentials are required to obtain tokens.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges an authorization code for tokens.
	// Used in: Standard Authorization Code Flow
	// Token request includes: code, client credentials, redirect_uri,
	// code_verifier (if PKCE)
	AuthorizationCodeGrant GrantType = "authorization_code"

	// ClientCredentialsGrant allows machine-to-machine authentication.
	// Used in: Backend service authentication (no user context)
	// Token request includes: client credentials, scope
	ClientCredentialsGrant GrantType = "client_credentials"

	// RefreshTokenGrant exchanges a refresh token for a new access token.
	// Token request includes: refresh_token, client credentials
	RefreshTokenGrant GrantType = "refresh_token"

	// PasswordGrant exchanges resource owner credentials for tokens.
	// Used in: Trusted first-party clients only
	// Token request includes: username, password, client credentials, scope
	PasswordGrant GrantType = "password"
)

// ResponseType represents an OAuth 2.0 authorization response type that a
// client is registered for.
type ResponseType string

const (
	CodeResponseType    ResponseType = "code"
	TokenResponseType   ResponseType = "token"
	IDTokenResponseType ResponseType = "id_token"
)

// AuthMethod represents the token endpoint authentication method a client
// declared at registration. When set, only that scheme is attempted during
// client authentication.
type AuthMethod string

const (
	// AuthMethodSecretBasic authenticates with a shared secret carried in an
	// HTTP Basic Authorization header.
	AuthMethodSecretBasic AuthMethod = "client_secret_basic"

	// AuthMethodSecretPost authenticates with a shared secret carried in the
	// request body fields client_id / client_secret.
	AuthMethodSecretPost AuthMethod = "client_secret_post"

	// AuthMethodPrivateKeyJWT authenticates with a self-issued signed JWT
	// assertion verified against the client's registered keys.
	AuthMethodPrivateKeyJWT AuthMethod = "private_key_jwt"

	// AuthMethodTLSClientAuth authenticates with a mutual-TLS certificate
	// whose thumbprint matches a registered certificate.
	AuthMethodTLSClientAuth AuthMethod = "tls_client_auth"
)

// JWTBearerAssertionType is the only client_assertion_type accepted at the
// token endpoint (RFC 7523).
const JWTBearerAssertionType = "urn:ietf:params:oauth:client-assertion-type:jwt-bearer"

// BearerTokenType is the token_type reported for every issued access token.
const BearerTokenType = "Bearer"
