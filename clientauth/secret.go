package clientauth

import (
	"context"
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/quillauth/token-engine/clients"
	"github.com/quillauth/token-engine/oauthmodel"
)

// basicSecretMethod authenticates a shared secret carried in an HTTP Basic
// Authorization header. Credentials are form-url-encoded inside the header
// per RFC 6749 §2.3.1.
type basicSecretMethod struct{}

func (*basicSecretMethod) name() oauthmodel.AuthMethod {
	return oauthmodel.AuthMethodSecretBasic
}

func (*basicSecretMethod) applicable(in *Instruction) bool {
	_, _, ok := parseBasicHeader(in.AuthorizationHeader)
	return ok
}

func (*basicSecretMethod) clientID(in *Instruction) (string, bool) {
	id, _, ok := parseBasicHeader(in.AuthorizationHeader)
	return id, ok
}

func (*basicSecretMethod) verify(_ context.Context, in *Instruction, client *clients.Client) error {
	_, secret, ok := parseBasicHeader(in.AuthorizationHeader)
	if !ok || !client.HasSecret(secret) {
		return errors.New("basic secret mismatch")
	}
	return nil
}

func parseBasicHeader(header string) (clientID, secret string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(prefix):]))
	if err != nil {
		return "", "", false
	}
	id, pass, found := strings.Cut(string(decoded), ":")
	if !found {
		return "", "", false
	}
	unescapedID, err := url.QueryUnescape(id)
	if err != nil {
		return "", "", false
	}
	unescapedPass, err := url.QueryUnescape(pass)
	if err != nil {
		return "", "", false
	}
	return unescapedID, unescapedPass, true
}

// postSecretMethod authenticates a shared secret carried in the request body
// fields client_id / client_secret.
type postSecretMethod struct{}

func (*postSecretMethod) name() oauthmodel.AuthMethod {
	return oauthmodel.AuthMethodSecretPost
}

func (*postSecretMethod) applicable(in *Instruction) bool {
	return in.ClientID != "" && in.ClientSecret != ""
}

func (*postSecretMethod) clientID(in *Instruction) (string, bool) {
	return in.ClientID, in.ClientID != ""
}

func (*postSecretMethod) verify(_ context.Context, in *Instruction, client *clients.Client) error {
	if !client.HasSecret(in.ClientSecret) {
		return errors.New("post secret mismatch")
	}
	return nil
}
