package clients_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillauth/token-engine/clients"
	fakeclientrepo "github.com/quillauth/token-engine/clients/fakerepo"
	"github.com/quillauth/token-engine/oauthmodel"
)

// TestClientRegistrationChecks tests the registration predicate helpers.
func TestClientRegistrationChecks(t *testing.T) {
	client := &clients.Client{
		ID:            "client-1",
		Secrets:       []string{"secret-1"},
		GrantTypes:    []oauthmodel.GrantType{oauthmodel.ClientCredentialsGrant},
		ResponseTypes: []oauthmodel.ResponseType{oauthmodel.TokenResponseType},
		RedirectURIs:  []string{"https://app.test/callback"},
		Scopes:        []string{"read"},
	}

	require.True(t, client.HasGrantType(oauthmodel.ClientCredentialsGrant))
	require.False(t, client.HasGrantType(oauthmodel.RefreshTokenGrant))

	require.True(t, client.HasResponseType(oauthmodel.TokenResponseType))
	require.False(t, client.HasResponseType(oauthmodel.IDTokenResponseType))

	require.True(t, client.HasScope("read"))
	require.False(t, client.HasScope("write"))

	require.True(t, client.HasSecret("secret-1"))
	require.False(t, client.HasSecret("secret-2"))
	require.False(t, client.HasSecret(""))

	// exact matching only, no prefix or wildcard redirects
	require.True(t, client.HasRedirectURI("https://app.test/callback"))
	require.False(t, client.HasRedirectURI("https://app.test/callback/extra"))
}

// TestFakeClientRepo tests the in-memory registry contract: absent clients
// resolve to nil without an error.
func TestFakeClientRepo(t *testing.T) {
	repo := fakeclientrepo.NewFakeClientRepo()
	repo.Upsert(&clients.Client{ID: "client-1"})

	client, err := repo.Get(context.Background(), "client-1")
	require.NoError(t, err)
	require.Equal(t, "client-1", client.ID)

	client, err = repo.Get(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, client)

	repo.Delete("client-1")
	client, err = repo.Get(context.Background(), "client-1")
	require.NoError(t, err)
	require.Nil(t, client)
}
