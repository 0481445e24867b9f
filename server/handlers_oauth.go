package server

import (
	"crypto/x509"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/quillauth/token-engine/clientauth"
	"github.com/quillauth/token-engine/oauthmodel"
	"github.com/quillauth/token-engine/token"
)

const contentTypeJSON = "application/json; charset=utf-8"

// errorResponse is the RFC 6749 error body.
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// TokenHandler dispatches a token request to the grant handler named by
// grant_type.
func (s *Server) TokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.writeError(w, oauthmodel.NewArgumentError("request body"))
			return
		}

		req := tokenRequestFromForm(r)
		in := clientauth.FromTokenRequest(req, r.Header.Get("Authorization"), peerCertificate(r))

		ctx := r.Context()
		var granted *token.GrantedToken
		var err error
		switch req.GrantType {
		case oauthmodel.AuthorizationCodeGrant:
			granted, err = s.grants.AuthorizationCodeGrant(ctx, req, in)
		case oauthmodel.ClientCredentialsGrant:
			granted, err = s.grants.ClientCredentialsGrant(ctx, req, in)
		case oauthmodel.RefreshTokenGrant:
			granted, err = s.grants.RefreshTokenGrant(ctx, req, in)
		case oauthmodel.PasswordGrant:
			granted, err = s.grants.PasswordGrant(ctx, req, in)
		default:
			s.writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:            "unsupported_grant_type",
				ErrorDescription: "grant type " + string(req.GrantType) + " is not supported",
			})
			return
		}
		if err != nil {
			s.writeError(w, err)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		s.writeJSON(w, http.StatusOK, granted.Response())
	}
}

// RevocationHandler serves RFC 7009 token revocation.
func (s *Server) RevocationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.writeError(w, oauthmodel.NewArgumentError("request body"))
			return
		}

		req := &oauthmodel.RevocationRequest{
			Token:               r.PostFormValue("token"),
			TokenTypeHint:       r.PostFormValue("token_type_hint"),
			ClientID:            r.PostFormValue("client_id"),
			ClientSecret:        r.PostFormValue("client_secret"),
			ClientAssertionType: r.PostFormValue("client_assertion_type"),
			ClientAssertion:     r.PostFormValue("client_assertion"),
		}
		in := clientauth.FromRevocationRequest(req, r.Header.Get("Authorization"), peerCertificate(r))

		if _, err := s.grants.Revoke(r.Context(), req, in); err != nil {
			s.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// JWKSHandler serves the published key set.
func (s *Server) JWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, s.jwks)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	if kind, ok := oauthmodel.KindOf(err); ok {
		protoErr := err.(*oauthmodel.Error)
		status := http.StatusBadRequest
		switch kind {
		case oauthmodel.ErrorInvalidClient:
			status = http.StatusUnauthorized
			w.Header().Set("WWW-Authenticate", `Basic realm="token"`)
		case oauthmodel.ErrorServerError:
			status = http.StatusInternalServerError
		}
		s.writeJSON(w, status, errorResponse{Error: string(kind), ErrorDescription: protoErr.Description})
		return
	}

	// Argument errors and anything unexpected are caller bugs from the
	// protocol's point of view.
	s.log.Warn().Err(err).Msg("malformed request")
	s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_request", ErrorDescription: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Err(err).Msg("failed to encode response")
	}
}

func tokenRequestFromForm(r *http.Request) *oauthmodel.TokenRequest {
	req := &oauthmodel.TokenRequest{
		GrantType:           oauthmodel.GrantType(r.PostFormValue("grant_type")),
		ClientID:            r.PostFormValue("client_id"),
		ClientSecret:        r.PostFormValue("client_secret"),
		ClientAssertionType: r.PostFormValue("client_assertion_type"),
		ClientAssertion:     r.PostFormValue("client_assertion"),
		Code:                r.PostFormValue("code"),
		RedirectURI:         r.PostFormValue("redirect_uri"),
		CodeVerifier:        r.PostFormValue("code_verifier"),
		RefreshToken:        r.PostFormValue("refresh_token"),
		Scope:               r.PostFormValue("scope"),
		Username:            r.PostFormValue("username"),
		Password:            r.PostFormValue("password"),
	}
	if amr := strings.TrimSpace(r.PostFormValue("amr_values")); amr != "" {
		req.AMRValues = strings.Fields(amr)
	}
	return req
}

func peerCertificate(r *http.Request) *x509.Certificate {
	if r.TLS == nil || len(r.TLS.PeerCertificates) == 0 {
		return nil
	}
	return r.TLS.PeerCertificates[0]
}
