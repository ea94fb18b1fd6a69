package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveModelPrefersConfigured(t *testing.T) {
	name, err := ResolveModel("gemini-2.5-pro", []string{"gemini-2.5-flash"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", name)
}

func TestResolveModelFallsBackInOrder(t *testing.T) {
	name, err := ResolveModel("", []string{"", "  ", "gemini-2.0-flash", "gemini-flash-latest"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", name)
}

func TestResolveModelTrimsWhitespace(t *testing.T) {
	name, err := ResolveModel("  gemini-2.5-flash  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", name)
}

func TestResolveModelNoCandidates(t *testing.T) {
	_, err := ResolveModel("", []string{"", "   "})
	require.Error(t, err)
}
