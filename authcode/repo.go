package authcode

import "context"

// Store holds single-use authorization codes. Codes are write-once,
// read-once: there is no update operation.
//
// Get returns (nil, nil) when no live code exists for the value. Remove must
// be safe to call concurrently such that only one caller observes true for a
// given code (first-deleter-wins); every other caller treats the code as
// already consumed.
type Store interface {
	Get(ctx context.Context, code string) (*AuthorizationCode, error)
	Remove(ctx context.Context, code string) (bool, error)
}
