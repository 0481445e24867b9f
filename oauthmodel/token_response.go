package oauthmodel

// TokenResponse represents the response from an OAuth2 token request.
// This is the standard OAuth2 token endpoint response format as defined in
// RFC 6749, returned from the /token endpoint for all grant types.
type TokenResponse struct {
	// AccessToken is the opaque bearer credential used to access protected
	// resources.
	// Usage: Include in Authorization header: "Bearer <access_token>"
	AccessToken *string `json:"access_token,omitempty"`

	// IDToken is the OpenID Connect ID token asserting facts about the
	// authenticated resource owner.
	// Only present: When the grant carried an ID-token payload
	IDToken *string `json:"id_token,omitempty"`

	// TokenType indicates how to use the access token (always "Bearer").
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the lifetime in seconds of the access token.
	// Note: Expiry is evaluated at use time against the token's creation
	// timestamp, not by active eviction.
	ExpiresIn int `json:"expires_in,omitempty"`

	// RefreshToken is an opaque token used to obtain new access tokens.
	// Usage: Send to /token endpoint with grant_type=refresh_token
	RefreshToken *string `json:"refresh_token,omitempty"`

	// Scope is the space-separated list of granted scopes.
	// Note: May be less than requested if some scopes were denied.
	Scope string `json:"scope,omitempty"`
}
