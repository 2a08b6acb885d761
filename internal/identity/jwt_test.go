package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifierRoundTrip(t *testing.T) {
	v := NewVerifier("unit-test-key", "quizbank")

	token, err := v.Issue("admin", time.Minute)
	require.NoError(t, err)

	callerID, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", callerID)
}

func TestVerifierRejections(t *testing.T) {
	v := NewVerifier("unit-test-key", "quizbank")

	t.Run("wrong signing key", func(t *testing.T) {
		forged, err := NewVerifier("other-key", "quizbank").Issue("admin", time.Minute)
		require.NoError(t, err)
		_, err = v.Verify(forged)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		foreign, err := NewVerifier("unit-test-key", "someone-else").Issue("admin", time.Minute)
		require.NoError(t, err)
		_, err = v.Verify(foreign)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := v.Issue("admin", -time.Minute)
		require.NoError(t, err)
		_, err = v.Verify(expired)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := v.Verify("not.a.token")
		assert.Error(t, err)
	})
}
