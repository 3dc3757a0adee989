package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	m := NewManager("test-secret", time.Hour, "fruitable")

	tok, expiresAt, err := m.Generate(42, "alice")
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "fruitable", claims.Issuer)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, _, err := NewManager("secret-a", time.Hour, "fruitable").Generate(1, "bob")
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour, "fruitable").Parse(tok)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tok, _, err := NewManager("secret", -time.Minute, "fruitable").Generate(1, "bob")
	require.NoError(t, err)

	_, err = NewManager("secret", -time.Minute, "fruitable").Parse(tok)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := NewManager("secret", time.Hour, "fruitable").Parse("not-a-token")
	assert.Error(t, err)
}
