package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/quillauth/token-engine/authcode/repofake"
	"github.com/quillauth/token-engine/clientauth"
	"github.com/quillauth/token-engine/clients"
	"github.com/quillauth/token-engine/clients/fakerepo"
	"github.com/quillauth/token-engine/events"
	"github.com/quillauth/token-engine/grants"
	"github.com/quillauth/token-engine/internal/config"
	"github.com/quillauth/token-engine/oauthmodel"
	"github.com/quillauth/token-engine/server"
	"github.com/quillauth/token-engine/token"
	"github.com/quillauth/token-engine/token/repofake"
	"github.com/quillauth/token-engine/users"
	"github.com/quillauth/token-engine/users/repofake"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run(log zerolog.Logger) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg := config.FromEnv()
	displayAppname(cfg.AppName)

	handler, err := buildEngine(cfg, log)
	if err != nil {
		return errors.Wrap(err, "[run] building engine")
	}

	httpServer := &http.Server{Addr: cfg.Port, Handler: handler}
	go listenAndServe(httpServer, log)
	waitForStopSignal()
	return shutdown(httpServer)
}

// buildEngine wires the grant service onto in-memory stores with a demo
// client and resource owner, so the binary is usable out of the box. A real
// deployment swaps the fakes for persistent implementations of the same
// interfaces.
func buildEngine(cfg *config.Config, log zerolog.Logger) (http.Handler, error) {
	clientRepo := fakeclientrepo.NewFakeClientRepo()
	codeRepo := fakecoderepo.NewFakeCodeRepo()
	tokenRepo := tokenrepofake.NewFakeTokenRepo()
	userAuth := fakeuserauth.NewFakeUserAuthenticator()

	if err := seedDemoData(clientRepo, userAuth, log); err != nil {
		return nil, errors.Wrap(err, "[buildEngine] seeding demo data")
	}

	keyPair, err := token.GenerateRSAKeyPair("demo-signing-key", 2048)
	if err != nil {
		return nil, errors.Wrap(err, "[buildEngine] generating signing key")
	}
	signer := token.NewKeyPairSigner(keyPair)
	jwks, err := signer.GetJWKS()
	if err != nil {
		return nil, errors.Wrap(err, "[buildEngine] building jwks")
	}

	authenticator, err := clientauth.NewAuthenticator(clientRepo, cfg.TokenEndpoint)
	if err != nil {
		return nil, errors.Wrap(err, "[buildEngine] creating client authenticator")
	}

	provider := token.NewJWTProvider(signer, cfg.Issuer, cfg.IDTokenExpiry)

	service, err := grants.NewService(
		cfg,
		grants.Stores{Codes: codeRepo, Tokens: tokenRepo},
		authenticator,
		userAuth,
		provider,
		grants.WithEventSink(events.NewZerologSink(log)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[buildEngine] creating grant service")
	}

	srv, err := server.New(service, log, server.WithJWKS(jwks))
	if err != nil {
		return nil, errors.Wrap(err, "[buildEngine] creating http server")
	}
	return srv, nil
}

func seedDemoData(clientRepo *fakeclientrepo.FakeClientRepo, userAuth *fakeuserauth.FakeUserAuthenticator, log zerolog.Logger) error {
	clientRepo.Upsert(&clients.Client{
		ID:          "demo-client",
		Description: "Demo confidential client",
		Secrets:     []string{"demo-secret"},
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
		TokenEndpointAuthMethod: oauthmodel.AuthMethodSecretBasic,
		RedirectURIs:            []string{"http://localhost:3000/callback"},
		Scopes:                  []string{"openid", "profile", "read", "write"},
	})

	if err := userAuth.AddUser(&users.ResourceOwner{
		ID:        "demo-user",
		Username:  "demo",
		Email:     "demo@example.com",
		FirstName: "Demo",
		LastName:  "User",
	}, "password"); err != nil {
		return err
	}

	log.Info().Str("client_id", "demo-client").Str("username", "demo").Msg("seeded demo credentials")
	return nil
}

func listenAndServe(httpServer *http.Server, log zerolog.Logger) {
	log.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("listen and serve")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "[shutdown] server shutdown")
	}
	return nil
}

func displayAppname(appname string) {
	figure.NewFigure(appname, "cybermedium", true).Print()
	fmt.Println()
}
