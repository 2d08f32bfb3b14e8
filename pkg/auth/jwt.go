package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const seatIssuer = "dropfour"

// SeatClaims grants the holder control of one game session.
type SeatClaims struct {
	GameID string `json:"game_id"`
	jwt.RegisteredClaims
}

// SeatSigner issues and checks seat tokens with one HMAC secret.
type SeatSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSeatSigner(secret string, ttl time.Duration) *SeatSigner {
	return &SeatSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GenerateSeatToken creates a token for the controlling device of gameID.
func (s *SeatSigner) GenerateSeatToken(gameID string) (string, error) {
	now := s.now()
	claims := &SeatClaims{
		GameID: gameID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    seatIssuer,
			Subject:   gameID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateSeatToken checks the signature and expiry and that the token
// belongs to gameID.
func (s *SeatSigner) ValidateSeatToken(tokenString, gameID string) (*SeatClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SeatClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	}, jwt.WithIssuer(seatIssuer), jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SeatClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.GameID != gameID {
		return nil, ErrWrongGame
	}
	return claims, nil
}

var ErrWrongGame = errors.New("token belongs to another game")
