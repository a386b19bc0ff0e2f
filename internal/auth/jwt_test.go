package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "12345678901234567890123456789012"

func TestIssueAndParseToken(t *testing.T) {
	token, err := IssueToken(42, false, testSecret, time.Minute)
	require.NoError(t, err)

	principal, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, 42, principal.UserID)
	require.False(t, principal.IsAdmin)
}

func TestParseToken_AdminClaim(t *testing.T) {
	token, err := IssueToken(7, true, testSecret, time.Minute)
	require.NoError(t, err)

	principal, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	require.True(t, principal.IsAdmin)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := IssueToken(42, false, testSecret, time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, "another-secret-another-secret-12")
	require.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := IssueToken(42, false, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token, testSecret)
	require.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not.a.token", testSecret)
	require.Error(t, err)
}

func TestParseBearer(t *testing.T) {
	token, err := IssueToken(42, false, testSecret, time.Minute)
	require.NoError(t, err)

	principal, err := ParseBearer("Bearer "+token, testSecret)
	require.NoError(t, err)
	require.Equal(t, 42, principal.UserID)
}

func TestParseBearer_MissingHeader(t *testing.T) {
	_, err := ParseBearer("", testSecret)
	require.Error(t, err)
}

func TestParseBearer_WrongScheme(t *testing.T) {
	token, err := IssueToken(42, false, testSecret, time.Minute)
	require.NoError(t, err)

	_, err = ParseBearer("Basic "+token, testSecret)
	require.Error(t, err)
}
