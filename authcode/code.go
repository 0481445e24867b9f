package authcode

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"time"

	"github.com/quillauth/token-engine/token"
)

// CodeMethodType represents the PKCE (Proof Key for Code Exchange) challenge
// method stored with a code.
type CodeMethodType string

const (
	// CodeMethodTypeS256 stores code_challenge = BASE64URL(SHA256(verifier)).
	CodeMethodTypeS256 CodeMethodType = "S256"

	// CodeMethodTypePlain stores the verifier directly. Only protects
	// against passive attacks; kept for legacy clients.
	CodeMethodTypePlain CodeMethodType = "plain"
)

// AuthorizationCode is a single-use credential created by the authorization
// endpoint and consumed exactly once by the authorization-code grant
// handler. The handler deletes it before any token work begins, so a code
// can never be replayed even if the handler fails afterwards.
type AuthorizationCode struct {
	// Code is the unique code value.
	Code string `json:"code"`

	// ClientID is the client the code was issued to. Only that client may
	// redeem it.
	ClientID string `json:"clientId"`

	// RedirectURI the code was issued for; must match the one supplied at
	// redemption.
	RedirectURI string `json:"redirectUri"`

	// Scope is the space-separated granted scope string.
	Scope string `json:"scope"`

	CreatedAt time.Time `json:"createdAt"`

	// CodeChallenge and CodeChallengeMethod carry the PKCE challenge when
	// the authorization request used one.
	CodeChallenge       string         `json:"codeChallenge,omitempty"`
	CodeChallengeMethod CodeMethodType `json:"codeChallengeMethod,omitempty"`

	// IDTokenPayload and UserInfoPayload are pre-computed by the
	// authorization endpoint and attached verbatim to the minted token.
	IDTokenPayload  token.Payload `json:"idTokenPayload,omitempty"`
	UserInfoPayload token.Payload `json:"userInfoPayload,omitempty"`
}

// Expired reports whether the code is older than the validity window at the
// given instant.
func (c *AuthorizationCode) Expired(now time.Time, validity time.Duration) bool {
	return now.Sub(c.CreatedAt) > validity
}

// VerifyPKCE checks a presented code verifier against the stored challenge.
// A code issued without a challenge accepts only an empty verifier.
func (c *AuthorizationCode) VerifyPKCE(verifier string) bool {
	if strings.TrimSpace(c.CodeChallenge) == "" {
		return verifier == ""
	}
	switch c.CodeChallengeMethod {
	case CodeMethodTypeS256, "":
		hash := sha256.Sum256([]byte(verifier))
		return base64.RawURLEncoding.EncodeToString(hash[:]) == c.CodeChallenge
	case CodeMethodTypePlain:
		return verifier == c.CodeChallenge
	}
	return false
}
