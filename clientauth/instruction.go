package clientauth

import (
	"crypto/x509"

	"github.com/quillauth/token-engine/oauthmodel"
)

// Instruction is the bundle of optional authentication material extracted
// from an inbound token or revocation request. Exactly one authentication
// scheme must successfully resolve it to a client.
type Instruction struct {
	// AuthorizationHeader is the raw Authorization header value, if any.
	AuthorizationHeader string

	// ClientID and ClientSecret are body-carried credentials.
	ClientID     string
	ClientSecret string

	// ClientAssertionType and ClientAssertion carry a signed JWT assertion
	// (RFC 7523).
	ClientAssertionType string
	ClientAssertion     string

	// Certificate is the client certificate presented during the TLS
	// handshake, if any.
	Certificate *x509.Certificate
}

// FromTokenRequest builds an instruction from token request parameters plus
// transport-level material.
func FromTokenRequest(req *oauthmodel.TokenRequest, authorizationHeader string, certificate *x509.Certificate) *Instruction {
	return &Instruction{
		AuthorizationHeader: authorizationHeader,
		ClientID:            req.ClientID,
		ClientSecret:        req.ClientSecret,
		ClientAssertionType: req.ClientAssertionType,
		ClientAssertion:     req.ClientAssertion,
		Certificate:         certificate,
	}
}

// FromRevocationRequest builds an instruction from revocation request
// parameters plus transport-level material.
func FromRevocationRequest(req *oauthmodel.RevocationRequest, authorizationHeader string, certificate *x509.Certificate) *Instruction {
	return &Instruction{
		AuthorizationHeader: authorizationHeader,
		ClientID:            req.ClientID,
		ClientSecret:        req.ClientSecret,
		ClientAssertionType: req.ClientAssertionType,
		ClientAssertion:     req.ClientAssertion,
		Certificate:         certificate,
	}
}

// Empty reports whether the instruction carries no authentication material
// at all.
func (in *Instruction) Empty() bool {
	return in.AuthorizationHeader == "" &&
		in.ClientID == "" &&
		in.ClientSecret == "" &&
		in.ClientAssertion == "" &&
		in.Certificate == nil
}
