// Package store holds the request/response clients for the external
// collaborators the core queries: the identity store consulted during the
// handshake, the applications store consulted by the chat adapter's join
// check, and the notification store backing unread counts. The core never
// owns this data; it only reads and acknowledges.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jobdeck/realtime/internal/auth"
	"github.com/jobdeck/realtime/internal/domain"
)

type Config struct {
	Address  string
	Password string
	DB       int
}

type Store struct {
	client *redis.Client
}

func New(cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Store{client: client}, nil
}

// Key patterns, owned by the collaborators that write them:
// user:{user_id}:role                  STRING<role>    - identity service
// application:{app_id}:participants    SET<user_id>    - applications service
// notifications:{user_id}:unread       SET<notif_id>   - notification service

func userRoleKey(id domain.UserID) string {
	return fmt.Sprintf("user:%s:role", id)
}

func applicationParticipantsKey(appID string) string {
	return fmt.Sprintf("application:%s:participants", appID)
}

func unreadKey(id domain.UserID) string {
	return fmt.Sprintf("notifications:%s:unread", id)
}

// Lookup resolves a user ID to its identity. Implements auth.IdentityStore.
func (s *Store) Lookup(ctx context.Context, id domain.UserID) (domain.Identity, error) {
	role, err := s.client.Get(ctx, userRoleKey(id)).Result()
	if err == redis.Nil {
		return domain.Identity{}, auth.ErrUserNotFound
	}
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{UserID: id, Role: domain.Role(role)}, nil
}

// IsParticipant reports whether the user takes part in the application's
// chat thread.
func (s *Store) IsParticipant(ctx context.Context, applicationID string, id domain.UserID) (bool, error) {
	return s.client.SIsMember(ctx, applicationParticipantsKey(applicationID), string(id)).Result()
}

// UnreadCount returns the user's current number of unread notifications.
func (s *Store) UnreadCount(ctx context.Context, id domain.UserID) (int64, error) {
	return s.client.SCard(ctx, unreadKey(id)).Result()
}

// MarkRead acknowledges a single notification as read.
func (s *Store) MarkRead(ctx context.Context, id domain.UserID, notificationID string) error {
	return s.client.SRem(ctx, unreadKey(id), notificationID).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
