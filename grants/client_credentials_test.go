package grants_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillauth/token-engine/oauthmodel"
)

func clientCredentialsRequest(scope string) *oauthmodel.TokenRequest {
	return &oauthmodel.TokenRequest{
		GrantType: oauthmodel.ClientCredentialsGrant,
		Scope:     scope,
	}
}

// TestClientCredentialsGrant_MintsToken tests the machine-to-machine happy
// path: no resource owner, no ID token.
func TestClientCredentialsGrant_MintsToken(t *testing.T) {
	f := setupTestFixture(t)
	f.clientRepo.Upsert(defaultTestClient())

	granted, err := f.service.ClientCredentialsGrant(context.Background(), clientCredentialsRequest("read"), basicInstruction())

	require.NoError(t, err)
	require.NotEmpty(t, granted.AccessToken)
	require.Empty(t, granted.IDToken)
	require.Equal(t, "read", granted.Scope)
	require.Equal(t, testClientID, granted.ClientID)
}

// TestClientCredentialsGrant_ReusesIdenticalGrant tests deduplication: a
// second identical request returns the same access token instead of minting.
func TestClientCredentialsGrant_ReusesIdenticalGrant(t *testing.T) {
	f := setupTestFixture(t)
	f.clientRepo.Upsert(defaultTestClient())

	first, err := f.service.ClientCredentialsGrant(context.Background(), clientCredentialsRequest("read"), basicInstruction())
	require.NoError(t, err)

	second, err := f.service.ClientCredentialsGrant(context.Background(), clientCredentialsRequest("read"), basicInstruction())
	require.NoError(t, err)

	require.Equal(t, first.AccessToken, second.AccessToken)
	require.Equal(t, first.ID, second.ID)
}

// TestClientCredentialsGrant_ScopeOrderIrrelevantForReuse tests that scope
// sets compare canonically, not textually.
func TestClientCredentialsGrant_ScopeOrderIrrelevantForReuse(t *testing.T) {
	f := setupTestFixture(t)
	f.clientRepo.Upsert(defaultTestClient())

	first, err := f.service.ClientCredentialsGrant(context.Background(), clientCredentialsRequest("read write"), basicInstruction())
	require.NoError(t, err)

	second, err := f.service.ClientCredentialsGrant(context.Background(), clientCredentialsRequest("write read"), basicInstruction())
	require.NoError(t, err)

	require.Equal(t, first.AccessToken, second.AccessToken)
}

// TestClientCredentialsGrant_DifferentScopeMintsNewToken tests that a
// different scope set never reuses an existing grant.
func TestClientCredentialsGrant_DifferentScopeMintsNewToken(t *testing.T) {
	f := setupTestFixture(t)
	f.clientRepo.Upsert(defaultTestClient())

	first, err := f.service.ClientCredentialsGrant(context.Background(), clientCredentialsRequest("read"), basicInstruction())
	require.NoError(t, err)

	second, err := f.service.ClientCredentialsGrant(context.Background(), clientCredentialsRequest("read write"), basicInstruction())
	require.NoError(t, err)

	require.NotEqual(t, first.AccessToken, second.AccessToken)
}

// TestClientCredentialsGrant_EmptyScopeDefaultsToRegistered tests that an
// absent scope parameter resolves to the client's full registered set.
func TestClientCredentialsGrant_EmptyScopeDefaultsToRegistered(t *testing.T) {
	f := setupTestFixture(t)
	f.clientRepo.Upsert(defaultTestClient())

	granted, err := f.service.ClientCredentialsGrant(context.Background(), clientCredentialsRequest(""), basicInstruction())

	require.NoError(t, err)
	require.Equal(t, "openid profile read write", granted.Scope)
}

// TestClientCredentialsGrant_ScopeRejected tests that an unregistered scope
// fails the whole request rather than being silently dropped.
func TestClientCredentialsGrant_ScopeRejected(t *testing.T) {
	f := setupTestFixture(t)
	f.clientRepo.Upsert(defaultTestClient())

	_, err := f.service.ClientCredentialsGrant(context.Background(), clientCredentialsRequest("read admin"), basicInstruction())

	requireKind(t, err, oauthmodel.ErrorInvalidScope)
	require.Contains(t, err.Error(), `scope "admin" is not allowed`)
}

// TestClientCredentialsGrant_BadSecret tests that a wrong secret yields the
// generic authentication failure with no hint about which check failed.
func TestClientCredentialsGrant_BadSecret(t *testing.T) {
	f := setupTestFixture(t)
	f.clientRepo.Upsert(defaultTestClient())

	in := basicInstruction()
	in.AuthorizationHeader = basicAuthHeader(testClientID, "wrong-secret")
	_, err := f.service.ClientCredentialsGrant(context.Background(), clientCredentialsRequest("read"), in)

	requireKind(t, err, oauthmodel.ErrorInvalidClient)
	require.Contains(t, err.Error(), "client could not be authenticated")
}

// TestClientCredentialsGrant_UnknownClient tests that an unknown client id
// yields the same generic failure as a wrong secret.
func TestClientCredentialsGrant_UnknownClient(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.ClientCredentialsGrant(context.Background(), clientCredentialsRequest("read"), basicInstruction())

	requireKind(t, err, oauthmodel.ErrorInvalidClient)
	require.Contains(t, err.Error(), "client could not be authenticated")
}
