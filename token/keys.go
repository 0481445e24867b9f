package token

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"math/big"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// KeyPair represents a public/private key pair for signing tokens.
type KeyPair struct {
	KeyID      string
	PrivateKey crypto.PrivateKey
	PublicKey  crypto.PublicKey
	Algorithm  string // RS256 or ES256
}

// JWKS represents a JSON Web Key Set.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWK represents a JSON Web Key.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use,omitempty"`
	Kid string `json:"kid,omitempty"`
	Alg string `json:"alg,omitempty"`

	// RSA specific
	N string `json:"n,omitempty"`
	E string `json:"e,omitempty"`

	// EC specific
	Crv string `json:"crv,omitempty"`
	X   string `json:"x,omitempty"`
	Y   string `json:"y,omitempty"`
}

// GenerateRSAKeyPair generates a new RSA key pair for RS256 signing.
func GenerateRSAKeyPair(keyID string, bits int) (*KeyPair, error) {
	if bits < 2048 {
		bits = 2048
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate RSA key")
	}

	return &KeyPair{
		KeyID:      keyID,
		PrivateKey: privateKey,
		PublicKey:  &privateKey.PublicKey,
		Algorithm:  "RS256",
	}, nil
}

// GenerateECDSAKeyPair generates a new P-256 key pair for ES256 signing.
func GenerateECDSAKeyPair(keyID string) (*KeyPair, error) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate ECDSA key")
	}

	return &KeyPair{
		KeyID:      keyID,
		PrivateKey: privateKey,
		PublicKey:  &privateKey.PublicKey,
		Algorithm:  "ES256",
	}, nil
}

// GetSigningMethod returns the JWT signing method for this key pair.
func (kp *KeyPair) GetSigningMethod() jwt.SigningMethod {
	switch kp.Algorithm {
	case "ES256":
		return jwt.SigningMethodES256
	default:
		return jwt.SigningMethodRS256
	}
}

// ToJWK converts the key pair's public key to JWK format.
func (kp *KeyPair) ToJWK() (*JWK, error) {
	jwk := &JWK{
		Kid: kp.KeyID,
		Use: "sig",
		Alg: kp.Algorithm,
	}

	switch pubKey := kp.PublicKey.(type) {
	case *rsa.PublicKey:
		jwk.Kty = "RSA"
		jwk.N = base64.RawURLEncoding.EncodeToString(pubKey.N.Bytes())
		jwk.E = base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pubKey.E)).Bytes())

	case *ecdsa.PublicKey:
		jwk.Kty = "EC"
		jwk.Crv = "P-256"
		jwk.X = base64.RawURLEncoding.EncodeToString(pubKey.X.Bytes())
		jwk.Y = base64.RawURLEncoding.EncodeToString(pubKey.Y.Bytes())

	default:
		return nil, errors.New("unsupported public key type")
	}

	return jwk, nil
}
