// Package http wires the gin surface: the WebSocket endpoint, the read-only
// introspection API and the internal publish endpoints collaborators call
// after their durable writes commit.
package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jobdeck/realtime/internal/config"
	"github.com/jobdeck/realtime/internal/domain"
	"github.com/jobdeck/realtime/internal/hub"
	"github.com/jobdeck/realtime/internal/transport/ws"
)

func SetupRouter(ctx context.Context, cfg *config.Config, ctl *ws.Controller, registry *hub.Registry, presence *hub.Presence, pub *PublishHandlers) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	log.Info().Str("module", "transport.http").Str("mode", cfg.Mode).Msg("router setup")

	api := r.Group("/api")
	api.GET("/ws", func(c *gin.Context) {
		ctl.Handle(ctx, c)
	})
	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rooms": registry.List()})
	})
	api.GET("/presence/:userID", func(c *gin.Context) {
		uid := domain.UserID(c.Param("userID"))
		c.JSON(http.StatusOK, gin.H{
			"userId":  uid,
			"online":  presence.Online(uid),
			"devices": presence.Devices(uid),
		})
	})

	internal := r.Group("/internal/publish")
	internal.POST("/chat", pub.Chat)
	internal.POST("/rating", pub.Rating)
	internal.POST("/blog", pub.Blog)
	internal.POST("/notification", pub.Notification)
	internal.POST("/social", pub.Social)

	return r
}
