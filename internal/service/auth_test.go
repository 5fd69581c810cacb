package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()
	credentials, err := ParseCredentials("coach:" + testHash(t, "walk-more"))
	require.NoError(t, err)
	return NewAuthService(credentials, "test-secret", false, time.Hour)
}

func TestParseCredentials(t *testing.T) {
	hash := testHash(t, "pw")

	credentials, err := ParseCredentials(" alice:" + hash + " , bob:" + hash + ",")
	require.NoError(t, err)
	assert.Len(t, credentials, 2)
	assert.Equal(t, hash, credentials["bob"])

	empty, err := ParseCredentials("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParseCredentials("alice")
	assert.ErrorIs(t, err, ErrMalformedCredential)

	_, err = ParseCredentials("alice:plaintext")
	assert.ErrorIs(t, err, ErrMalformedCredential)
}

func TestAuthorize(t *testing.T) {
	auth := newTestAuth(t)

	assert.True(t, auth.Authorize("coach", "walk-more"))
	assert.True(t, auth.Authorize(" coach ", "walk-more"))
	assert.False(t, auth.Authorize("coach", "wrong"))
	assert.False(t, auth.Authorize("stranger", "walk-more"))
	assert.False(t, auth.Authorize("", ""))
}

func TestAuthorize_NoAdminsConfigured(t *testing.T) {
	auth := NewAuthService(map[string]string{}, "secret", false, time.Hour)

	assert.False(t, auth.HasAdmins())
	assert.False(t, auth.Authorize("admin", "admin"))
}

func TestLogin_TokenRoundTrip(t *testing.T) {
	auth := newTestAuth(t)

	token, expiry, err := auth.Login("coach", "walk-more")
	require.NoError(t, err)
	assert.True(t, expiry.After(time.Now()))
	assert.True(t, auth.IsAdminToken(token))

	_, _, err = auth.Login("coach", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIsAdminToken_Rejections(t *testing.T) {
	auth := newTestAuth(t)

	expired, err := auth.GenerateJWT("coach", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.False(t, auth.IsAdminToken(expired))

	unknown, err := auth.GenerateJWT("former-admin", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, auth.IsAdminToken(unknown))

	other := NewAuthService(map[string]string{"coach": "x"}, "other-secret", false, time.Hour)
	forged, err := other.GenerateJWT("coach", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, auth.IsAdminToken(forged))

	assert.False(t, auth.IsAdminToken(""))
	assert.False(t, auth.IsAdminToken("garbage"))
}

func TestJWTCookies(t *testing.T) {
	auth := newTestAuth(t)
	rec := httptest.NewRecorder()

	auth.SetJWTCookie(rec, "tok", time.Now().Add(time.Hour))
	auth.ClearJWTCookie(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, AdminCookieName, cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Empty(t, cookies[1].Value)
}
