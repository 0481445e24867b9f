package token

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/pkg/errors"
)

const tokenValueLength = 32 // 256 bits of entropy per opaque credential

// NewValue generates an opaque token value (access or refresh).
func NewValue() (string, error) {
	buf := make([]byte, tokenValueLength)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "[token.NewValue] rand.Read")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
