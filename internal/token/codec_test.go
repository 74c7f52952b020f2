package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	codec := NewCodec("secret", 900*time.Second, 30*24*time.Hour)
	codec.now = fixedClock(t0)

	signed, err := codec.Encode(42, ClassAccess)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	for _, delta := range []time.Duration{0, time.Second, 899 * time.Second} {
		codec.now = fixedClock(t0.Add(delta))
		userID, err := codec.Decode(signed)
		require.NoError(t, err, "delta %s", delta)
		require.Equal(t, int64(42), userID)
	}
}

func TestDecodeExpired(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	codec := NewCodec("secret", 900*time.Second, 30*24*time.Hour)
	codec.now = fixedClock(t0)

	signed, err := codec.Encode(7, ClassAccess)
	require.NoError(t, err)

	codec.now = fixedClock(t0.Add(901 * time.Second))
	_, err = codec.Decode(signed)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestDecodeWrongSecret(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	signer := NewCodec("right-secret", 900*time.Second, time.Hour)
	signer.now = fixedClock(t0)
	signed, err := signer.Encode(7, ClassAccess)
	require.NoError(t, err)

	verifier := NewCodec("wrong-secret", 900*time.Second, time.Hour)
	verifier.now = fixedClock(t0)
	_, err = verifier.Decode(signed)
	require.ErrorIs(t, err, ErrInvalidToken)

	// even past expiry, a wrong-secret token is invalid, not expired
	verifier.now = fixedClock(t0.Add(time.Hour))
	_, err = verifier.Decode(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
	require.NotErrorIs(t, err, ErrExpiredToken)
}

func TestDecodeMalformed(t *testing.T) {
	codec := NewCodec("secret", time.Minute, time.Hour)
	_, err := codec.Decode("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshClassUsesRefreshLifetime(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	codec := NewCodec("secret", time.Second, time.Hour)
	codec.now = fixedClock(t0)

	access, err := codec.Encode(9, ClassAccess)
	require.NoError(t, err)
	refresh, err := codec.Encode(9, ClassRefresh)
	require.NoError(t, err)

	codec.now = fixedClock(t0.Add(10 * time.Minute))

	_, err = codec.Decode(access)
	require.ErrorIs(t, err, ErrExpiredToken)

	userID, err := codec.Decode(refresh)
	require.NoError(t, err)
	require.Equal(t, int64(9), userID)
}

func TestNegativeLifetimeIssuesExpiredToken(t *testing.T) {
	codec := NewCodec("secret", time.Minute, -1*time.Second)

	refresh, err := codec.Encode(3, ClassRefresh)
	require.NoError(t, err)

	_, err = codec.Decode(refresh)
	require.ErrorIs(t, err, ErrExpiredToken)
}
