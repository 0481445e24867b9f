package token

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Signer signs claims into compact JWTs and exposes the verification key as
// a jwt keyfunc. The engine signs ID tokens with it; tests use the keyfunc
// to verify what was minted.
type Signer interface {
	Sign(claims jwt.MapClaims) (string, error)
	GetVerificationKey(token *jwt.Token) (any, error)
}

// HMACSigner is a symmetric HS256 signer for deployments that share a secret
// with their resource servers.
type HMACSigner struct {
	secret []byte
}

func NewHMACSigner(secret string) *HMACSigner {
	return &HMACSigner{secret: []byte(secret)}
}

func (h *HMACSigner) Sign(claims jwt.MapClaims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.secret)
	if err != nil {
		return "", errors.Wrap(err, "[HMACSigner.Sign] SignedString")
	}
	return signed, nil
}

func (h *HMACSigner) GetVerificationKey(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return h.secret, nil
}

// KeyPairSigner signs with an RSA or ECDSA key pair and can publish the
// public half as a JWKS.
type KeyPairSigner struct {
	keyPair *KeyPair
}

func NewKeyPairSigner(keyPair *KeyPair) *KeyPairSigner {
	return &KeyPairSigner{keyPair: keyPair}
}

func (a *KeyPairSigner) Sign(claims jwt.MapClaims) (string, error) {
	tok := jwt.NewWithClaims(a.keyPair.GetSigningMethod(), claims)
	tok.Header["kid"] = a.keyPair.KeyID

	signed, err := tok.SignedString(a.keyPair.PrivateKey)
	if err != nil {
		return "", errors.Wrap(err, "[KeyPairSigner.Sign] SignedString")
	}
	return signed, nil
}

func (a *KeyPairSigner) GetVerificationKey(token *jwt.Token) (any, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA:
		return a.keyPair.PublicKey, nil
	default:
		return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
}

// GetJWKS returns the JSON Web Key Set for public key distribution.
func (a *KeyPairSigner) GetJWKS() (*JWKS, error) {
	jwk, err := a.keyPair.ToJWK()
	if err != nil {
		return nil, errors.Wrap(err, "[KeyPairSigner.GetJWKS] ToJWK")
	}
	return &JWKS{Keys: []JWK{*jwk}}, nil
}
