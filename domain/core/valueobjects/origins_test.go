package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAllowedOrigins_RequiresAtLeastOne(t *testing.T) {
	_, err := NewAllowedOrigins(nil)
	assert.Error(t, err)

	_, err = NewAllowedOrigins([]string{})
	assert.Error(t, err)
}

func TestAllowedOrigins_ExactMatch(t *testing.T) {
	origins, err := NewAllowedOrigins([]string{"https://app.example.com", "https://admin.example.com"})
	require.NoError(t, err)

	assert.True(t, origins.Allows("https://app.example.com"))
	assert.True(t, origins.Allows("https://admin.example.com"))
	assert.False(t, origins.Allows("https://evil.example.com"))
	assert.False(t, origins.IsWildcard())
}

func TestAllowedOrigins_Wildcard(t *testing.T) {
	origins, err := NewAllowedOrigins([]string{"*"})
	require.NoError(t, err)

	assert.True(t, origins.Allows("https://anywhere.example.com"))
	assert.True(t, origins.IsWildcard())
}
