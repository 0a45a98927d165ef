package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWipeByteArray(t *testing.T) {
	b := []byte("secret")
	WipeByteArray(b)
	assert.Equal(t, make([]byte, 6), b)

	assert.NotPanics(t, func() { WipeByteArray(nil) })
}
