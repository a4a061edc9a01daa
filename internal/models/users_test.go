package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashingRoundTrip(t *testing.T) {
	u := &User{}
	require.NoError(t, u.SetPassword("passw0rd123"))

	assert.NotEqual(t, "passw0rd123", u.PasswordHash)
	assert.True(t, u.CheckPassword("passw0rd123"))
	assert.False(t, u.CheckPassword("Passw0rd123"))
	assert.False(t, u.CheckPassword(""))
}

func TestResetToken(t *testing.T) {
	u := &User{}
	token, err := u.GenerateResetToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.True(t, u.VerifyResetToken(token))
	assert.False(t, u.VerifyResetToken("forged"))

	// Two generations never collide.
	other := &User{}
	otherToken, err := other.GenerateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, otherToken)
}

func TestResetTokenExpiry(t *testing.T) {
	u := &User{}
	token, err := u.GenerateResetToken()
	require.NoError(t, err)

	expired := time.Now().Add(-time.Minute)
	u.ResetTokenExpiry = &expired
	assert.False(t, u.VerifyResetToken(token))

	u.ClearResetToken()
	assert.Empty(t, u.ResetToken)
	assert.Nil(t, u.ResetTokenExpiry)
	assert.False(t, u.VerifyResetToken(token))
}
