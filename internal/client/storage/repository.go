// Package storage keeps the console's small amount of local state (the
// session record and the register-to-OTP email) in an sqlite key/value table.
package storage

import "context"

// Repository is a byte-valued key/value store. Get returns (nil, nil) for a
// missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
