// Package session owns the persisted login state of the console.
//
// A single Store instance loads, saves and clears the session record; every
// other component gets the Store (or just its Token method) injected instead
// of reading storage on its own. Validity is a pure decision (see Valid); the
// Store never navigates, that is left to the gate package.
package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/shopadmin/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
)

// Storage keys.
const (
	KeyUser  = "user"
	KeyEmail = "email"
)

// DefaultTTL is the lifetime of a fresh session record.
const DefaultTTL = 7 * 24 * time.Hour

// Record is the persisted session blob: the user plus an absolute expiry in
// epoch milliseconds. It is only ever overwritten as a whole.
type Record struct {
	Value  *models.User `json:"value"`
	Expiry int64        `json:"expiry"`
}

// NewRecord stamps user with an expiry of now+ttl.
func NewRecord(user models.User, now time.Time, ttl time.Duration) Record {
	return Record{Value: &user, Expiry: now.Add(ttl).UnixMilli()}
}

// ExpiresAt returns the expiry as a time.
func (r Record) ExpiresAt() time.Time {
	return time.UnixMilli(r.Expiry)
}

// Valid reports whether rec holds a user and expires strictly after now.
func Valid(rec *Record, now time.Time) bool {
	return rec != nil && rec.Value != nil && rec.Expiry > now.UnixMilli()
}

// Decode parses a persisted blob.
func Decode(raw []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode session record: %w", err)
	}
	return &rec, nil
}

// Encode serialises rec for storage.
func Encode(rec Record) ([]byte, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode session record: %w", err)
	}
	return b, nil
}

// TokenExpiry reads the exp claim of a JWT bearer token without verifying
// its signature. It is informational only: the record's own expiry decides
// whether the session is valid.
func TokenExpiry(token string) (time.Time, bool) {
	if token == "" {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
