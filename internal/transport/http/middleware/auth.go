package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/dropfour/pkg/auth"
)

const SeatGameKey = "seat_game_id"

// SeatAuth requires a seat token for the game named by the :id route
// parameter, sent as "Authorization: Bearer <token>".
func SeatAuth(seats *auth.SeatSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing seat token"})
			return
		}

		claims, err := seats.ValidateSeatToken(tokenString, c.Param("id"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid seat token"})
			return
		}

		c.Set(SeatGameKey, claims.GameID)
		c.Next()
	}
}
