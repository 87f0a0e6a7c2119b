package pkg

import (
	"crypto/rand"
	"encoding/hex"
)

// NewInterviewToken returns a 256-bit random hex token. The token is the sole
// credential for interview access, so it must come from crypto/rand.
func NewInterviewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
