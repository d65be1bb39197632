package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	token, err := Issue("admin", "admin", "textbook-requests", "test-key", time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token.Value)

	claims, err := Parse(token.Value, "test-key", "textbook-requests")
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "admin", claims.Subject)
}

func TestParseRejectsWrongKey(t *testing.T) {
	token, err := Issue("admin", "admin", "textbook-requests", "test-key", time.Hour)
	require.NoError(t, err)

	_, err = Parse(token.Value, "other-key", "textbook-requests")
	assert.Error(t, err)
}

func TestParseRejectsIssuerMismatch(t *testing.T) {
	token, err := Issue("admin", "admin", "someone-else", "test-key", time.Hour)
	require.NoError(t, err)

	_, err = Parse(token.Value, "test-key", "textbook-requests")
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	token, err := Issue("admin", "admin", "textbook-requests", "test-key", -time.Minute)
	require.NoError(t, err)

	_, err = Parse(token.Value, "test-key", "textbook-requests")
	assert.Error(t, err)
}
