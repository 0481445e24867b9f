package token

import (
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/quillauth/token-engine/oauthmodel"
)

// volatileClaims are recomputed on every issuance (hash-of-code and
// hash-of-access-token) and are ignored when comparing payloads, otherwise
// no two grants would ever match for reuse.
var volatileClaims = map[string]struct{}{
	"c_hash":  {},
	"at_hash": {},
	"iat":     {},
	"exp":     {},
	"jti":     {},
}

// Payload is an opaque claims document (ID token or user info) attached to a
// granted token. It is used only for deduplication matching, never for
// authorization decisions.
type Payload map[string]any

// Matches compares two payloads claim by claim, ignoring volatile claims.
// Values are normalized before a deep comparison, so a payload that has been
// through a JSON round trip still matches its in-memory original.
func (p Payload) Matches(other Payload) bool {
	if len(p) == 0 && len(other) == 0 {
		return true
	}
	keys := make(map[string]struct{}, len(p)+len(other))
	for k := range p {
		keys[k] = struct{}{}
	}
	for k := range other {
		keys[k] = struct{}{}
	}
	for k := range keys {
		if _, volatile := volatileClaims[k]; volatile {
			continue
		}
		if !claimEqual(p[k], other[k]) {
			return false
		}
	}
	return true
}

// Clone returns a shallow copy so callers can stamp timestamps without
// mutating a stored payload.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	clone := make(Payload, len(p))
	for k, v := range p {
		clone[k] = v
	}
	return clone
}

func claimEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.DeepEqual(normalizeClaim(a), normalizeClaim(b))
}

// normalizeClaim maps equivalent representations of a claim value onto one
// form: JSON decoding produces []any, map[string]any and float64 where the
// engine builds []string and integer types.
func normalizeClaim(v any) any {
	switch val := v.(type) {
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeClaim(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeClaim(item)
		}
		return out
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	}
	return v
}

// GrantedToken is an issued credential persisted by the Granted-Token Store.
// It is created by any grant handler and deleted by the revocation handler.
type GrantedToken struct {
	// ID is the engine's identifier for the record, referenced by
	// ParentTokenID when a refresh mints a successor.
	ID string `json:"id"`

	// AccessToken is the opaque bearer value presented to resource servers.
	AccessToken string `json:"accessToken"`

	// RefreshToken is the opaque value accepted by the refresh grant.
	// Empty when the client is not registered for refresh_token.
	RefreshToken string `json:"refreshToken,omitempty"`

	// IDToken is the signed JWT attached at mint time. It is carried back to
	// the caller but never used for matching; matching uses IDTokenPayload.
	IDToken string `json:"idToken,omitempty"`

	ClientID  string    `json:"clientId"`
	Scope     string    `json:"scope"`
	TokenType string    `json:"tokenType"`
	ExpiresIn int       `json:"expiresIn"` // seconds from CreatedAt
	CreatedAt time.Time `json:"createdAt"`

	// ParentTokenID references the token whose refresh token minted this
	// one, forming a non-cyclic audit chain. The parent must belong to the
	// same client.
	ParentTokenID string `json:"parentTokenId,omitempty"`

	IDTokenPayload  Payload `json:"idTokenPayload,omitempty"`
	UserInfoPayload Payload `json:"userInfoPayload,omitempty"`
}

// Expired reports whether the token's lifetime has elapsed at the given
// instant. Expiry is evaluated at use time, not by active eviction.
func (t *GrantedToken) Expired(now time.Time) bool {
	return now.After(t.CreatedAt.Add(time.Duration(t.ExpiresIn) * time.Second))
}

// Response converts the granted token into the wire-facing token response.
func (t *GrantedToken) Response() *oauthmodel.TokenResponse {
	resp := &oauthmodel.TokenResponse{
		AccessToken: &t.AccessToken,
		TokenType:   t.TokenType,
		ExpiresIn:   t.ExpiresIn,
		Scope:       t.Scope,
	}
	if t.RefreshToken != "" {
		resp.RefreshToken = &t.RefreshToken
	}
	if t.IDToken != "" {
		resp.IDToken = &t.IDToken
	}
	return resp
}

// NormalizeScope sorts a space-separated scope string into canonical form so
// the same scope set always compares equal for deduplication.
func NormalizeScope(scope string) string {
	fields := strings.Fields(scope)
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

// SameScopes reports whether two scope strings describe the same scope set.
func SameScopes(a, b string) bool {
	return NormalizeScope(a) == NormalizeScope(b)
}
