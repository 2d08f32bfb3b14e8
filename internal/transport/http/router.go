package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/dropfour/internal/transport/http/middleware"
	"github.com/iamasit07/dropfour/pkg/auth"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Games          *GamesHandler
	History        *HistoryHandler
	Watch          *WatchHandler
	Health         *HealthHandler
	WebSocket      http.HandlerFunc
	Seats          *auth.SeatSigner
	AllowedOrigins []string
	Logger         *zap.Logger
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(d.AllowedOrigins, d.Logger))

	router.GET("/healthz", d.Health.Healthz)

	api := router.Group("/api")
	{
		api.POST("/games", d.Games.CreateGame)
		api.GET("/games/:id", d.Games.GetGame)
		api.POST("/games/:id/reset", middleware.SeatAuth(d.Seats), d.Games.ResetGame)

		api.GET("/history", d.History.GetHistory)
		api.GET("/history/:id", d.History.GetGameDetails)

		api.GET("/watch", d.Watch.GetLiveGames)
	}

	// auth handled inside the WS handler itself
	router.GET("/ws", gin.WrapF(d.WebSocket))

	return router
}
