package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("secret", time.Hour)
	token, err := svc.GenerateToken(7, "staff", []string{"bookings.manage"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.True(t, claims.Has("bookings.manage"))
	assert.False(t, claims.Has("staff.manage"))
}

func TestValidate_WrongSecretOrExpired(t *testing.T) {
	token, err := New("one", time.Hour).GenerateToken(1, "admin", nil)
	require.NoError(t, err)
	_, err = New("two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := New("one", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err = expired.GenerateToken(1, "admin", nil)
	require.NoError(t, err)
	_, err = expired.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
