package security

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewJWTManager("unit-test-key", 15*time.Minute, 24*time.Hour)
	userID := uuid.New()

	tokens, refreshClaims, err := m.Issue(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, int64(900), tokens.ExpiresIn)
	assert.NotEmpty(t, refreshClaims.JTI)
	assert.Equal(t, userID.String(), refreshClaims.UserID)

	parsedID, err := m.ParseAccess(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, parsedID)

	parsed, err := m.ParseRefresh(tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, refreshClaims.JTI, parsed.JTI)
	assert.Equal(t, userID.String(), parsed.UserID)
}

func TestParseRejectsWrongKey(t *testing.T) {
	m1 := NewJWTManager("key-one", time.Minute, time.Hour)
	m2 := NewJWTManager("key-two", time.Minute, time.Hour)

	tokens, _, err := m1.Issue(uuid.New())
	require.NoError(t, err)

	_, err = m2.ParseAccess(tokens.AccessToken)
	assert.Error(t, err)
	_, err = m2.ParseRefresh(tokens.RefreshToken)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewJWTManager("unit-test-key", -time.Minute, -time.Minute)
	tokens, _, err := m.Issue(uuid.New())
	require.NoError(t, err)

	_, err = m.ParseAccess(tokens.AccessToken)
	assert.Error(t, err)
}

func TestAccessTokenIsNotARefreshToken(t *testing.T) {
	m := NewJWTManager("unit-test-key", time.Minute, time.Hour)
	tokens, _, err := m.Issue(uuid.New())
	require.NoError(t, err)

	// Parsing an access token as refresh yields claims without a JTI,
	// which the refresh store will never have whitelisted.
	claims, err := m.ParseRefresh(tokens.AccessToken)
	require.NoError(t, err)
	assert.Empty(t, claims.JTI)
}
