package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateObjectSuffix(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9a-z]+-[0-9a-f]{16}$`)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		suffix, err := GenerateObjectSuffix()
		require.NoError(t, err)
		require.Regexp(t, pattern, suffix)
		require.False(t, seen[suffix], "suffix collided: %s", suffix)
		seen[suffix] = true
	}
}
