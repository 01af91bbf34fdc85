package adapters

import (
	"github.com/jobdeck/realtime/internal/core"
	"github.com/jobdeck/realtime/internal/domain"
)

// Rating routes live rating updates to everyone viewing a school's page.
// School rooms are public; any authenticated connection may watch.
type Rating struct {
	bus Publisher
}

func NewRating(bus Publisher) *Rating {
	return &Rating{bus: bus}
}

type RatingUpdate struct {
	SchoolID      string  `json:"schoolId"`
	AverageRating float64 `json:"averageRating"`
	NewRating     float64 `json:"newRating"`
}

// PublishUpdate fans a committed rating out to the school room. No
// exclusion: the submitter sees the new aggregate too.
func (r *Rating) PublishUpdate(schoolID string, newRating, average float64) core.PublishResult {
	payload := RatingUpdate{SchoolID: schoolID, AverageRating: average, NewRating: newRating}
	return r.bus.Publish(domain.SchoolRoom(schoolID), domain.NewEvent(domain.EventRatingUpdated, payload), "")
}

type ViewerCount struct {
	SchoolID string `json:"schoolId"`
	Count    int    `json:"count"`
}

// AnnounceViewers pushes the current viewer count to the school room,
// emitted by the transport on join and leave.
func (r *Rating) AnnounceViewers(schoolID string, count int) {
	payload := ViewerCount{SchoolID: schoolID, Count: count}
	r.bus.Publish(domain.SchoolRoom(schoolID), domain.NewEvent(domain.EventMemberCount, payload), "")
}
