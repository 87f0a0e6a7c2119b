package pkg

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInterviewToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok, err := NewInterviewToken()
		require.NoError(t, err)
		assert.Len(t, tok, 64)

		_, err = hex.DecodeString(tok)
		require.NoError(t, err)

		assert.False(t, seen[tok], "token collision")
		seen[tok] = true
	}
}
