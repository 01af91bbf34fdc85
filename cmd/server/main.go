package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jobdeck/realtime/internal/adapters"
	"github.com/jobdeck/realtime/internal/auth"
	"github.com/jobdeck/realtime/internal/config"
	"github.com/jobdeck/realtime/internal/core"
	"github.com/jobdeck/realtime/internal/domain"
	"github.com/jobdeck/realtime/internal/hub"
	"github.com/jobdeck/realtime/internal/store"
	router "github.com/jobdeck/realtime/internal/transport/http"
	"github.com/jobdeck/realtime/internal/transport/ws"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	st, err := store.New(store.Config{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect collaborator store")
	}
	defer st.Close()

	registry := hub.NewRegistry()
	presence := hub.NewPresence()
	bus := hub.NewBroadcaster(registry)

	// Lazy room bootstrap: every authenticated connection joins its own
	// identity room.
	presence.OnConnect(func(c core.Conn) {
		registry.Join(c, domain.UserRoom(c.Identity().UserID))
	})

	authn := auth.NewAuthenticator(cfg.Secret, st, cfg.HandshakeTimeout)

	chat := adapters.NewChat(bus, st)
	social := adapters.NewSocial(bus)
	notification := adapters.NewNotification(bus, st)
	rating := adapters.NewRating(bus)
	blog := adapters.NewBlog(bus)

	ctl := ws.NewController(cfg, authn, registry, presence, ws.Adapters{
		Chat:         chat,
		Social:       social,
		Notification: notification,
		Rating:       rating,
		Blog:         blog,
	})
	pub := router.NewPublishHandlers(chat, social, notification, rating, blog)

	r := router.SetupRouter(ctx, cfg, ctl, registry, presence, pub)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("realtime gateway started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
