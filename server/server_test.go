package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	fakecoderepo "github.com/quillauth/token-engine/authcode/repofake"
	"github.com/quillauth/token-engine/clientauth"
	"github.com/quillauth/token-engine/clients"
	fakeclientrepo "github.com/quillauth/token-engine/clients/fakerepo"
	"github.com/quillauth/token-engine/grants"
	"github.com/quillauth/token-engine/internal/config"
	"github.com/quillauth/token-engine/oauthmodel"
	"github.com/quillauth/token-engine/server"
	"github.com/quillauth/token-engine/token"
	tokenrepofake "github.com/quillauth/token-engine/token/repofake"
	"github.com/quillauth/token-engine/users"
	fakeuserauth "github.com/quillauth/token-engine/users/repofake"
)

const (
	testIssuer       = "https://issuer.test"
	testClientID     = "test-client-1"
	testClientSecret = "test-secret-1"
	testUsername     = "johndoe"
	testUserPassword = "password123"
)

type serverFixture struct {
	ts       *httptest.Server
	tokenURL string
}

// setupServerFixture builds the full engine behind an httptest server with a
// demo client and resource owner seeded.
func setupServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	cfg := config.Default()
	cfg.Issuer = testIssuer

	clientRepo := fakeclientrepo.NewFakeClientRepo()
	clientRepo.Upsert(&clients.Client{
		ID:      testClientID,
		Secrets: []string{testClientSecret},
		GrantTypes: []oauthmodel.GrantType{
			oauthmodel.AuthorizationCodeGrant,
			oauthmodel.ClientCredentialsGrant,
			oauthmodel.RefreshTokenGrant,
			oauthmodel.PasswordGrant,
		},
		ResponseTypes: []oauthmodel.ResponseType{
			oauthmodel.CodeResponseType,
			oauthmodel.TokenResponseType,
			oauthmodel.IDTokenResponseType,
		},
		Scopes: []string{"openid", "profile", "read"},
	})

	userAuth := fakeuserauth.NewFakeUserAuthenticator()
	require.NoError(t, userAuth.AddUser(&users.ResourceOwner{
		ID:       "user-1",
		Username: testUsername,
		Email:    "john.doe@example.com",
	}, testUserPassword))

	keyPair, err := token.GenerateRSAKeyPair("test-key", 2048)
	require.NoError(t, err)
	signer := token.NewKeyPairSigner(keyPair)
	jwks, err := signer.GetJWKS()
	require.NoError(t, err)

	authenticator, err := clientauth.NewAuthenticator(clientRepo, cfg.TokenEndpoint)
	require.NoError(t, err)

	service, err := grants.NewService(
		cfg,
		grants.Stores{Codes: fakecoderepo.NewFakeCodeRepo(), Tokens: tokenrepofake.NewFakeTokenRepo()},
		authenticator,
		userAuth,
		token.NewJWTProvider(signer, cfg.Issuer, cfg.IDTokenExpiry),
	)
	require.NoError(t, err)

	srv, err := server.New(service, zerolog.Nop(), server.WithJWKS(jwks))
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return &serverFixture{ts: ts, tokenURL: ts.URL + server.RouteToken}
}

// TestTokenEndpoint_ClientCredentials tests the endpoint end to end through
// the standard oauth2 client library.
func TestTokenEndpoint_ClientCredentials(t *testing.T) {
	f := setupServerFixture(t)

	cc := clientcredentials.Config{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		TokenURL:     f.tokenURL,
		Scopes:       []string{"read"},
	}

	tok, err := cc.Token(context.Background())

	require.NoError(t, err)
	require.NotEmpty(t, tok.AccessToken)
	require.Equal(t, "Bearer", tok.TokenType)
	require.True(t, tok.Valid())
}

// TestTokenEndpoint_ClientCredentialsDedup tests that the identical request
// returns the identical access token over the wire.
func TestTokenEndpoint_ClientCredentialsDedup(t *testing.T) {
	f := setupServerFixture(t)

	cc := clientcredentials.Config{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		TokenURL:     f.tokenURL,
		Scopes:       []string{"read"},
	}

	first, err := cc.Token(context.Background())
	require.NoError(t, err)
	second, err := cc.Token(context.Background())
	require.NoError(t, err)

	require.Equal(t, first.AccessToken, second.AccessToken)
}

// TestTokenEndpoint_InvalidScope tests that the oauth2 client surfaces the
// protocol error from a scope the client never registered.
func TestTokenEndpoint_InvalidScope(t *testing.T) {
	f := setupServerFixture(t)

	cc := clientcredentials.Config{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		TokenURL:     f.tokenURL,
		Scopes:       []string{"admin"},
	}

	_, err := cc.Token(context.Background())

	var retrieveErr *oauth2.RetrieveError
	require.ErrorAs(t, err, &retrieveErr)
	require.Equal(t, http.StatusBadRequest, retrieveErr.Response.StatusCode)
	require.Equal(t, "invalid_scope", retrieveErr.ErrorCode)
}

// TestTokenEndpoint_PasswordGrantIDToken tests the password grant end to end
// and verifies the issued ID token against the published JWKS through the
// oidc verifier.
func TestTokenEndpoint_PasswordGrantIDToken(t *testing.T) {
	f := setupServerFixture(t)

	conf := oauth2.Config{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: f.tokenURL},
		Scopes:       []string{"openid", "profile"},
	}
	tok, err := conf.PasswordCredentialsToken(context.Background(), testUsername, testUserPassword)
	require.NoError(t, err)
	require.NotEmpty(t, tok.AccessToken)

	rawIDToken, ok := tok.Extra("id_token").(string)
	require.True(t, ok, "token response should carry an id_token")

	keySet := oidc.NewRemoteKeySet(context.Background(), f.ts.URL+server.RouteJWKS)
	verifier := oidc.NewVerifier(testIssuer, keySet, &oidc.Config{ClientID: testClientID})

	idToken, err := verifier.Verify(context.Background(), rawIDToken)
	require.NoError(t, err)
	require.Equal(t, "user-1", idToken.Subject)

	var claims struct {
		PreferredUsername string `json:"preferred_username"`
		Email             string `json:"email"`
	}
	require.NoError(t, idToken.Claims(&claims))
	require.Equal(t, testUsername, claims.PreferredUsername)
	require.Equal(t, "john.doe@example.com", claims.Email)
}

// TestTokenEndpoint_RefreshThroughOAuth2Client tests that the refresh flow
// works with the standard client's TokenSource machinery.
func TestTokenEndpoint_RefreshThroughOAuth2Client(t *testing.T) {
	f := setupServerFixture(t)

	conf := oauth2.Config{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: f.tokenURL},
	}
	tok, err := conf.PasswordCredentialsToken(context.Background(), testUsername, testUserPassword)
	require.NoError(t, err)
	require.NotEmpty(t, tok.RefreshToken)

	stale := &oauth2.Token{RefreshToken: tok.RefreshToken}
	refreshed, err := conf.TokenSource(context.Background(), stale).Token()
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
	require.NotEqual(t, tok.AccessToken, refreshed.AccessToken)
}

// TestTokenEndpoint_InvalidClientStatus tests the 401 mapping and challenge
// header for failed client authentication.
func TestTokenEndpoint_InvalidClientStatus(t *testing.T) {
	f := setupServerFixture(t)

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {testClientID},
		"client_secret": {"wrong-secret"},
	}
	resp, err := http.PostForm(f.tokenURL, form)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, resp.Header.Get("WWW-Authenticate"), "Basic")

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "invalid_client", body.Error)
}

// TestTokenEndpoint_UnsupportedGrantType tests dispatch of an unknown
// grant_type value.
func TestTokenEndpoint_UnsupportedGrantType(t *testing.T) {
	f := setupServerFixture(t)

	resp, err := http.PostForm(f.tokenURL, url.Values{"grant_type": {"implicit"}})
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "unsupported_grant_type", body.Error)
}

// TestRevokeEndpoint tests RFC 7009 revocation over the wire: the revoked
// refresh token stops refreshing.
func TestRevokeEndpoint(t *testing.T) {
	f := setupServerFixture(t)

	conf := oauth2.Config{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: f.tokenURL},
	}
	tok, err := conf.PasswordCredentialsToken(context.Background(), testUsername, testUserPassword)
	require.NoError(t, err)
	require.NotEmpty(t, tok.RefreshToken)

	resp, err := http.PostForm(f.ts.URL+server.RouteRevoke, url.Values{
		"token":         {tok.RefreshToken},
		"client_id":     {testClientID},
		"client_secret": {testClientSecret},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stale := &oauth2.Token{RefreshToken: tok.RefreshToken}
	_, err = conf.TokenSource(context.Background(), stale).Token()
	require.Error(t, err)
}

// TestJWKSEndpoint tests that the published key set parses and names the
// signing key.
func TestJWKSEndpoint(t *testing.T) {
	f := setupServerFixture(t)

	resp, err := http.Get(f.ts.URL + server.RouteJWKS)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json"))

	var jwks token.JWKS
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&jwks))
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "test-key", jwks.Keys[0].Kid)
	require.Equal(t, "RS256", jwks.Keys[0].Alg)
}
