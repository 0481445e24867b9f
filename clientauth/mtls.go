package clientauth

import (
	"context"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"

	"github.com/pkg/errors"

	"github.com/quillauth/token-engine/clients"
	"github.com/quillauth/token-engine/oauthmodel"
)

// tlsCertificateMethod authenticates a mutual-TLS client certificate by
// matching its SHA-256 thumbprint against the client's registered
// certificates. The client id still travels in the request body; the
// certificate proves possession.
type tlsCertificateMethod struct{}

func (*tlsCertificateMethod) name() oauthmodel.AuthMethod {
	return oauthmodel.AuthMethodTLSClientAuth
}

func (*tlsCertificateMethod) applicable(in *Instruction) bool {
	return in.Certificate != nil && in.ClientID != ""
}

func (*tlsCertificateMethod) clientID(in *Instruction) (string, bool) {
	return in.ClientID, in.ClientID != ""
}

func (*tlsCertificateMethod) verify(_ context.Context, in *Instruction, client *clients.Client) error {
	if !client.HasCertificateThumbprint(Thumbprint(in.Certificate)) {
		return errors.New("certificate thumbprint mismatch")
	}
	return nil
}

// Thumbprint computes the base64url SHA-256 digest of the certificate's DER
// encoding (the x5t#S256 form used at registration).
func Thumbprint(cert *x509.Certificate) string {
	digest := sha256.Sum256(cert.Raw)
	return base64.RawURLEncoding.EncodeToString(digest[:])
}
