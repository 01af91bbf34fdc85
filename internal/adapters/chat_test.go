package adapters

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jobdeck/realtime/internal/domain"
)

func TestChatCanJoin(t *testing.T) {
	apps := &fakeApplicationStore{participants: map[string][]domain.UserID{
		"APP1": {"alice", "bob"},
	}}
	chat := NewChat(nil, apps)

	tests := []struct {
		name    string
		user    domain.UserID
		appID   string
		wantErr error
	}{
		{"participant may join", "alice", "APP1", nil},
		{"other participant may join", "bob", "APP1", nil},
		{"outsider is denied", "mallory", "APP1", ErrJoinDenied},
		{"unknown application is denied", "alice", "APP9", ErrJoinDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity := domain.Identity{UserID: tt.user, Role: domain.RoleSeeker}
			err := chat.CanJoin(context.Background(), identity, tt.appID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestChatMessageExcludesOriginatingConnectionOnly(t *testing.T) {
	req := require.New(t)

	senderWeb := newFakeConn("c1", "alice", domain.RoleSeeker)
	senderMobile := newFakeConn("c2", "alice", domain.RoleSeeker)
	peer := newFakeConn("c3", "bob", domain.RoleEmployer)

	reg, bus := testHub(senderWeb, senderMobile, peer)
	room := domain.ApplicationRoom("APP1")
	for _, c := range []*fakeConn{senderWeb, senderMobile, peer} {
		reg.Join(c, room)
	}

	chat := NewChat(bus, &fakeApplicationStore{})
	res := chat.PublishMessage("APP1", "alice", "hello", senderWeb.ID())

	req.Equal(2, res.SentTo)
	req.Empty(senderWeb.events())

	// the sender's other device still receives it
	req.Len(senderMobile.events(), 1)
	req.Equal(domain.EventNewMessage, senderMobile.events()[0].Type)

	req.Len(peer.events(), 1)
	var msg ChatMessage
	req.NoError(json.Unmarshal(peer.events()[0].Payload, &msg))
	req.Equal("APP1", msg.ApplicationID)
	req.Equal(domain.UserID("alice"), msg.SenderID)
	req.Equal("hello", msg.Message)
}

func TestChatReadReceipt(t *testing.T) {
	req := require.New(t)

	reader := newFakeConn("c1", "alice", domain.RoleSeeker)
	peer := newFakeConn("c2", "bob", domain.RoleEmployer)
	reg, bus := testHub(reader, peer)
	room := domain.ApplicationRoom("APP1")
	reg.Join(reader, room)
	reg.Join(peer, room)

	chat := NewChat(bus, &fakeApplicationStore{})
	chat.PublishRead("APP1", "alice", reader.ID())

	req.Empty(reader.events())
	req.Len(peer.events(), 1)
	req.Equal(domain.EventMessageRead, peer.events()[0].Type)
}
