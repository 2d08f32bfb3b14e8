package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatTokenRoundTrip(t *testing.T) {
	s := NewSeatSigner("secret", time.Hour)

	token, err := s.GenerateSeatToken("game-1")
	require.NoError(t, err)

	claims, err := s.ValidateSeatToken(token, "game-1")
	require.NoError(t, err)
	assert.Equal(t, "game-1", claims.GameID)
}

func TestSeatTokenWrongGame(t *testing.T) {
	s := NewSeatSigner("secret", time.Hour)
	token, err := s.GenerateSeatToken("game-1")
	require.NoError(t, err)

	_, err = s.ValidateSeatToken(token, "game-2")
	assert.ErrorIs(t, err, ErrWrongGame)
}

func TestSeatTokenWrongSecret(t *testing.T) {
	token, err := NewSeatSigner("secret", time.Hour).GenerateSeatToken("game-1")
	require.NoError(t, err)

	_, err = NewSeatSigner("other", time.Hour).ValidateSeatToken(token, "game-1")
	assert.Error(t, err)
}

func TestSeatTokenExpired(t *testing.T) {
	s := NewSeatSigner("secret", time.Minute)
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issued }
	token, err := s.GenerateSeatToken("game-1")
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = s.ValidateSeatToken(token, "game-1")
	assert.Error(t, err)
}
