package oauthmodel

// TokenRequest holds parameters for the OAuth2 token request.
// This represents the request body sent to the /token endpoint.
// Supports the authorization_code, client_credentials, refresh_token and
// password grant types.
type TokenRequest struct {
	// GrantType selects which grant handler processes the request.
	// Required: Yes
	// Example: "authorization_code"
	GrantType GrantType

	// ClientID identifies the OAuth2 client making the request.
	// Required: When credentials are carried in the body rather than the
	// Authorization header
	// Example: "web-app-client"
	ClientID string

	// ClientSecret is the secret credential for confidential clients.
	// Required: Depends on the client's token endpoint auth method
	// Security: Never log or expose this value
	ClientSecret string

	// ClientAssertionType identifies the format of ClientAssertion.
	// Required: Only with private_key_jwt authentication
	// Example: "urn:ietf:params:oauth:client-assertion-type:jwt-bearer"
	ClientAssertionType string

	// ClientAssertion is the signed JWT a client presents to authenticate
	// itself without a shared secret.
	// Required: Only with private_key_jwt authentication
	ClientAssertion string

	// Code is the authorization code received from the authorization endpoint.
	// Required: Yes (only for authorization_code grant)
	// Usage: Exchanged once for tokens, then becomes invalid
	Code string

	// RedirectURI must equal the redirect URI the code was issued for.
	// Required: Yes (only for authorization_code grant)
	RedirectURI string

	// CodeVerifier is the PKCE code verifier that matches the code_challenge.
	// Required: Yes (if PKCE was used in the authorization request)
	// Validation: Server compares SHA256(code_verifier) with the stored
	// code_challenge
	CodeVerifier string

	// RefreshToken is used to obtain new access tokens without repeating the
	// original grant.
	// Required: Yes (only for refresh_token grant)
	RefreshToken string

	// Scope is the space-separated scope string being requested.
	// Required: No (defaults to the client's registered scopes)
	Scope string

	// Username identifies the resource owner for the password grant.
	// Required: Yes (only for password grant)
	Username string

	// Password is the resource owner's password for the password grant.
	// Required: Yes (only for password grant)
	// Security: Never log or expose this value
	Password string

	// AMRValues are optional authentication-method-reference hints passed to
	// the resource owner authenticator ("pwd", "otp", ...).
	AMRValues []string
}

// RevocationRequest holds parameters for the RFC 7009 revocation endpoint.
type RevocationRequest struct {
	// Token is the access or refresh token value being revoked.
	// Required: Yes
	Token string

	// TokenTypeHint is the optional caller hint ("access_token" or
	// "refresh_token"). The engine looks the token up both ways regardless.
	TokenTypeHint string

	// ClientID / ClientSecret / assertion fields mirror TokenRequest: the
	// revoking client authenticates exactly like a token request.
	ClientID            string
	ClientSecret        string
	ClientAssertionType string
	ClientAssertion     string
}
