package auth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	domainerrors "github.com/HaMeD1379/Studly-sub001/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyHex = "707172737475767778797a7b7c7d7e7f808182838485868788898a8b8c8d8e8f"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testKeyHex, 15*time.Minute)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_RejectsBadKeys(t *testing.T) {
	_, err := NewTokenService("abcd", time.Minute)
	assert.Error(t, err)

	_, err = NewTokenService(strings.Repeat("zz", 32), time.Minute)
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.GenerateAccessToken("usr-alice")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "usr-alice", claims.UserID)
	assert.Equal(t, "usr-alice", claims.Subject)
	assert.Equal(t, tokenIssuer, claims.Issuer)
	assert.True(t, strings.HasPrefix(claims.TokenID, "tok-"))
}

func TestGenerateAccessToken_RequiresUser(t *testing.T) {
	svc := newTestTokenService(t)
	_, err := svc.GenerateAccessToken("")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	svc := newTestTokenService(t)
	issued := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateAccessToken("usr-alice")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.VerifyAccessToken(token)
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
}

func TestVerifyAccessToken_WrongKey(t *testing.T) {
	svc := newTestTokenService(t)
	token, err := svc.GenerateAccessToken("usr-alice")
	require.NoError(t, err)

	other, err := NewTokenService(strings.Repeat("11", 32), time.Minute)
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(token)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestVerifyAccessToken_Garbage(t *testing.T) {
	svc := newTestTokenService(t)
	_, err := svc.VerifyAccessToken("not-a-token")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestLoadOrGenerateKey(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	first, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Len(t, first, keyHexSize)

	second, err := LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second, "key must persist across loads")

	_, err = NewTokenService(first, time.Minute)
	assert.NoError(t, err)
}

func TestLoadOrGenerateKey_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, keyFileName), []byte("short"), 0o600))

	_, err := LoadOrGenerateKey(dir)
	assert.Error(t, err)
}
