package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The aliased SELECT list and the RETURNING list must stay in lockstep or
// scanApplication silently misaligns columns.
func TestApplicationColumnListsMatch(t *testing.T) {
	assert.Equal(t,
		strings.ReplaceAll(applicationColumns, "a.", ""),
		applicationReturning,
	)
	assert.Equal(t,
		strings.Count(applicationColumns, ","),
		strings.Count(applicationReturning, ","),
	)
}
