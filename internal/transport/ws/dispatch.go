package ws

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/jobdeck/realtime/internal/adapters"
	"github.com/jobdeck/realtime/internal/domain"
)

// Inbound control messages are a single envelope tagged by type and
// dispatched through one switch; no handler ever closes the connection, a
// bad message only earns an error event back.
func (ctl *Controller) handleMessage(ctx context.Context, conn *Conn, data []byte) {
	if !conn.limiter.Allow() {
		ctl.sendError(conn, "rate_limited")
		return
	}

	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Debug().Err(err).Str("module", "ws").Str("conn", string(conn.ID())).Msg("bad json")
		ctl.sendError(conn, "bad_payload")
		return
	}

	switch env.Type {
	case "ping":
		ctl.sendEvent(conn, domain.NewEvent(domain.EventPong, nil))
	case "join_application_room":
		ctl.joinApplication(ctx, conn, data)
	case "leave_application_room":
		ctl.leaveApplication(conn, data)
	case "message_read":
		ctl.messageRead(ctx, conn, data)
	case "join_school_room":
		ctl.joinSchool(conn, data)
	case "leave_school_room":
		ctl.leaveSchool(conn, data)
	case "join_profile_room":
		ctl.joinProfile(conn, data)
	case "leave_profile_room":
		ctl.leaveProfile(conn, data)
	case "join_blog_room":
		ctl.joinBlog(conn, domain.BlogRoom)
	case "leave_blog_room":
		ctl.leaveRoom(conn, domain.BlogRoom)
	case "join_admin_blog_room":
		ctl.joinBlog(conn, domain.AdminBlogRoom)
	case "leave_admin_blog_room":
		ctl.leaveRoom(conn, domain.AdminBlogRoom)
	case "mark_notification_read":
		ctl.markNotificationRead(ctx, conn, data)
	case "get_unread_count":
		ctl.getUnreadCount(ctx, conn)
	default:
		log.Warn().Str("module", "ws").Str("type", env.Type).Msg("unknown control type")
		ctl.sendError(conn, "unknown_type")
	}
}

type applicationPayload struct {
	ApplicationID string `json:"applicationId" validate:"required"`
}

type schoolPayload struct {
	SchoolID string `json:"schoolId" validate:"required"`
}

type profilePayload struct {
	ProfileID string `json:"profileId" validate:"required"`
}

type notificationReadPayload struct {
	NotificationID string `json:"notificationId" validate:"required"`
}

// decode unmarshals and validates an inbound payload, answering the client
// with an error event when it is malformed.
func (ctl *Controller) decode(conn *Conn, data []byte, v any) bool {
	if err := json.Unmarshal(data, v); err != nil {
		ctl.sendError(conn, "bad_payload")
		return false
	}
	if err := ctl.validate.Struct(v); err != nil {
		ctl.sendError(conn, "bad_payload")
		return false
	}
	return true
}

func (ctl *Controller) joinApplication(ctx context.Context, conn *Conn, data []byte) {
	var p applicationPayload
	if !ctl.decode(conn, data, &p) {
		return
	}

	storeCtx, cancel := context.WithTimeout(ctx, ctl.cfg.StoreTimeout)
	defer cancel()
	if err := ctl.ad.Chat.CanJoin(storeCtx, conn.Identity(), p.ApplicationID); err != nil {
		if !errors.Is(err, adapters.ErrJoinDenied) {
			log.Error().Err(err).Str("module", "ws").Str("application", p.ApplicationID).Msg("participant check")
		}
		ctl.sendError(conn, "join_denied")
		return
	}

	room := domain.ApplicationRoom(p.ApplicationID)
	ctl.registry.Join(conn, room)
	ctl.sendEvent(conn, domain.NewEvent(domain.EventJoined, map[string]any{"room": room}))
}

func (ctl *Controller) leaveApplication(conn *Conn, data []byte) {
	var p applicationPayload
	if !ctl.decode(conn, data, &p) {
		return
	}
	ctl.leaveRoom(conn, domain.ApplicationRoom(p.ApplicationID))
}

func (ctl *Controller) messageRead(ctx context.Context, conn *Conn, data []byte) {
	var p applicationPayload
	if !ctl.decode(conn, data, &p) {
		return
	}

	storeCtx, cancel := context.WithTimeout(ctx, ctl.cfg.StoreTimeout)
	defer cancel()
	if err := ctl.ad.Chat.CanJoin(storeCtx, conn.Identity(), p.ApplicationID); err != nil {
		ctl.sendError(conn, "join_denied")
		return
	}
	ctl.ad.Chat.PublishRead(p.ApplicationID, conn.Identity().UserID, conn.ID())
}

func (ctl *Controller) joinSchool(conn *Conn, data []byte) {
	var p schoolPayload
	if !ctl.decode(conn, data, &p) {
		return
	}
	room := domain.SchoolRoom(p.SchoolID)
	ctl.registry.Join(conn, room)
	ctl.sendEvent(conn, domain.NewEvent(domain.EventJoined, map[string]any{"room": room}))
	ctl.ad.Rating.AnnounceViewers(p.SchoolID, ctl.registry.MemberCount(room))
}

func (ctl *Controller) leaveSchool(conn *Conn, data []byte) {
	var p schoolPayload
	if !ctl.decode(conn, data, &p) {
		return
	}
	room := domain.SchoolRoom(p.SchoolID)
	ctl.leaveRoom(conn, room)
	ctl.ad.Rating.AnnounceViewers(p.SchoolID, ctl.registry.MemberCount(room))
}

func (ctl *Controller) joinProfile(conn *Conn, data []byte) {
	var p profilePayload
	if !ctl.decode(conn, data, &p) {
		return
	}
	room := domain.ProfileRoom(p.ProfileID)
	ctl.registry.Join(conn, room)
	ctl.sendEvent(conn, domain.NewEvent(domain.EventJoined, map[string]any{"room": room}))
}

func (ctl *Controller) leaveProfile(conn *Conn, data []byte) {
	var p profilePayload
	if !ctl.decode(conn, data, &p) {
		return
	}
	ctl.leaveRoom(conn, domain.ProfileRoom(p.ProfileID))
}

func (ctl *Controller) joinBlog(conn *Conn, room domain.RoomName) {
	if err := ctl.ad.Blog.CanJoin(conn.Identity(), room); err != nil {
		ctl.sendError(conn, "join_denied")
		return
	}
	ctl.registry.Join(conn, room)
	ctl.sendEvent(conn, domain.NewEvent(domain.EventJoined, map[string]any{"room": room}))
}

func (ctl *Controller) leaveRoom(conn *Conn, room domain.RoomName) {
	ctl.registry.Leave(conn, room)
	ctl.sendEvent(conn, domain.NewEvent(domain.EventLeft, map[string]any{"room": room}))
}

func (ctl *Controller) markNotificationRead(ctx context.Context, conn *Conn, data []byte) {
	var p notificationReadPayload
	if !ctl.decode(conn, data, &p) {
		return
	}

	storeCtx, cancel := context.WithTimeout(ctx, ctl.cfg.StoreTimeout)
	defer cancel()
	if err := ctl.ad.Notification.MarkRead(storeCtx, conn.Identity().UserID, p.NotificationID); err != nil {
		// Store trouble degrades to a plain acknowledgment; the client will
		// converge on the real count on its next fetch.
		log.Error().Err(err).Str("module", "ws").Str("conn", string(conn.ID())).Msg("mark notification read")
		ctl.sendEvent(conn, domain.NewEvent(domain.EventAck, map[string]string{"of": "mark_notification_read"}))
	}
}

func (ctl *Controller) getUnreadCount(ctx context.Context, conn *Conn) {
	storeCtx, cancel := context.WithTimeout(ctx, ctl.cfg.StoreTimeout)
	defer cancel()
	if _, err := ctl.ad.Notification.PushUnreadCount(storeCtx, conn.Identity().UserID); err != nil {
		log.Error().Err(err).Str("module", "ws").Str("conn", string(conn.ID())).Msg("unread count")
		ctl.sendEvent(conn, domain.NewEvent(domain.EventAck, map[string]string{"of": "get_unread_count"}))
	}
}

func (ctl *Controller) sendEvent(conn *Conn, ev domain.Event) {
	frame, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("event marshal")
		return
	}
	_ = conn.TrySend(frame)
}

func (ctl *Controller) sendError(conn *Conn, code string) {
	ctl.sendEvent(conn, domain.NewEvent(domain.EventError, map[string]string{"error": code}))
}
