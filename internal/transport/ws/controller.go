// Package ws is the persistent-connection transport: it runs the
// authentication handshake, owns every socket's read/write goroutines and
// dispatches inbound control messages to the domain adapters.
package ws

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/jobdeck/realtime/internal/adapters"
	"github.com/jobdeck/realtime/internal/auth"
	"github.com/jobdeck/realtime/internal/config"
	"github.com/jobdeck/realtime/internal/core"
	"github.com/jobdeck/realtime/internal/domain"
	"github.com/jobdeck/realtime/internal/hub"
)

// Adapters bundles the five domain adapters the dispatcher routes to.
type Adapters struct {
	Chat         *adapters.Chat
	Social       *adapters.Social
	Notification *adapters.Notification
	Rating       *adapters.Rating
	Blog         *adapters.Blog
}

type Controller struct {
	cfg      *config.Config
	auth     *auth.Authenticator
	registry *hub.Registry
	presence *hub.Presence
	ad       Adapters
	validate *validator.Validate
	upgrader websocket.Upgrader
}

func NewController(cfg *config.Config, authn *auth.Authenticator, registry *hub.Registry, presence *hub.Presence, ad Adapters) *Controller {
	return &Controller{
		cfg:      cfg,
		auth:     authn,
		registry: registry,
		presence: presence,
		ad:       ad,
		validate: validator.New(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle runs the full connection lifecycle: authenticate, upgrade,
// register, pump. A failed handshake is rejected before the upgrade, so no
// room state ever exists for it.
func (ctl *Controller) Handle(ctx context.Context, c *gin.Context) {
	token := auth.TokenFromRequest(c.Request)
	identity, err := ctl.auth.Authenticate(c.Request.Context(), token)
	if err != nil {
		log.Info().Err(err).Str("module", "ws").Msg("handshake rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	platform := domain.Platform(c.DefaultQuery("platform", string(domain.PlatformWeb)))
	if platform != domain.PlatformWeb && platform != domain.PlatformMobile {
		platform = domain.PlatformWeb
	}

	sock, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("ws upgrade")
		return
	}

	conn := newConn(core.ConnID(uuid.NewString()), identity, platform, sock, ctl.cfg)
	log.Info().Str("module", "ws").Str("conn", string(conn.ID())).
		Str("user", string(identity.UserID)).Str("platform", string(platform)).
		Msg("new connection")

	// Registration order matters: the presence connect hooks (identity-room
	// auto-join among them) expect the registry to know the connection.
	ctl.registry.Register(conn)
	ctl.presence.Connected(conn)

	go conn.writePump(ctx, ctl.cfg)
	go ctl.readLoop(ctx, conn)
}

func (ctl *Controller) readLoop(ctx context.Context, conn *Conn) {
	defer ctl.teardown(conn)
	conn.readPump(ctx, ctl.cfg, func(c *Conn, data []byte) {
		ctl.handleMessage(ctx, c, data)
	})
}

// teardown runs on every disconnect path; the registry removes all
// membership edges atomically.
func (ctl *Controller) teardown(conn *Conn) {
	conn.Close()
	ctl.registry.Disconnect(conn.ID())
	ctl.presence.Disconnected(conn)
	log.Info().Str("module", "ws").Str("conn", string(conn.ID())).Msg("connection closed")
}
