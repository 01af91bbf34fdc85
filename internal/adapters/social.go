package adapters

import (
	"github.com/jobdeck/realtime/internal/core"
	"github.com/jobdeck/realtime/internal/domain"
)

// Social routes feed activity to the subscribers of a profile. Profile
// rooms are public: following a feed only requires being authenticated.
type Social struct {
	bus Publisher
}

func NewSocial(bus Publisher) *Social {
	return &Social{bus: bus}
}

type SocialEventKind string

const (
	PostCreated   SocialEventKind = "post_created"
	PostCommented SocialEventKind = "post_commented"
	PostShared    SocialEventKind = "post_shared"
)

var socialEventTypes = map[SocialEventKind]domain.EventType{
	PostCreated:   domain.EventPostCreated,
	PostCommented: domain.EventPostCommented,
	PostShared:    domain.EventPostShared,
}

type SocialActivity struct {
	ProfileID string `json:"profileId"`
	Payload   any    `json:"payload,omitempty"`
}

// PublishEvent fans one feed occurrence out to the profile's subscribers.
// Returns false for a kind outside the closed set.
func (s *Social) PublishEvent(kind SocialEventKind, profileID string, payload any) (core.PublishResult, bool) {
	eventType, ok := socialEventTypes[kind]
	if !ok {
		return core.PublishResult{}, false
	}
	activity := SocialActivity{ProfileID: profileID, Payload: payload}
	return s.bus.Publish(domain.ProfileRoom(profileID), domain.NewEvent(eventType, activity), ""), true
}
