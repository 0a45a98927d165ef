// Package shared holds small helpers used across the console.
package shared

// WipeByteArray zeroes b so a password does not outlive its request.
// A nil slice is a no-op.
func WipeByteArray(b []byte) {
	clear(b)
}
