package server

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/quillauth/token-engine/grants"
	"github.com/quillauth/token-engine/token"
)

// Route patterns for the endpoints the engine hosts. Everything else
// (authorization UI, consent, registration) lives in front ends that call
// into the engine.
const (
	RouteToken  = "/oauth2/token"
	RouteRevoke = "/oauth2/revoke"
	RouteJWKS   = "/.well-known/jwks.json"
)

// Server is the thin HTTP adapter over the grant processing engine: form
// parsing, grant dispatch and OAuth error mapping. It owns no protocol
// logic.
type Server struct {
	mux    *http.ServeMux
	grants *grants.Service
	jwks   *token.JWKS
	log    zerolog.Logger
}

// Option modifies the Server instance.
type Option func(*Server)

// WithJWKS publishes a key set on the JWKS route so relying parties can
// verify issued ID tokens.
func WithJWKS(jwks *token.JWKS) Option {
	return func(s *Server) {
		s.jwks = jwks
	}
}

// New creates the HTTP adapter for the grant service.
func New(service *grants.Service, log zerolog.Logger, options ...Option) (*Server, error) {
	if service == nil {
		return nil, errors.New("[server.New] grant service is required")
	}

	s := &Server{
		mux:    http.NewServeMux(),
		grants: service,
		log:    log,
	}
	for _, opt := range options {
		opt(s)
	}

	s.mux.HandleFunc("POST "+RouteToken, s.TokenHandler())
	s.mux.HandleFunc("POST "+RouteRevoke, s.RevocationHandler())
	if s.jwks != nil {
		s.mux.HandleFunc("GET "+RouteJWKS, s.JWKSHandler())
	}
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
