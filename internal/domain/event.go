package domain

import "time"

type EventFormat string

const (
	EventFormatOnline  EventFormat = "online"
	EventFormatOffline EventFormat = "offline"
)

// Event is a published event with its free-form attributes.
type Event struct {
	ID           int64
	Title        string
	Description  string
	Duration     int
	Format       EventFormat
	MeetingLink  string
	Location     string
	StartingTime *time.Time
	AnnouncedAt  *time.Time
	CreatedAt    time.Time
}

// EventPatch carries the optional fields of a partial update. Nil fields
// are left untouched.
type EventPatch struct {
	Title        *string
	Description  *string
	Duration     *int
	Format       *EventFormat
	MeetingLink  *string
	Location     *string
	StartingTime *time.Time
	AnnouncedAt  *time.Time
}

// Empty reports whether the patch would change nothing.
func (p EventPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Duration == nil &&
		p.Format == nil && p.MeetingLink == nil && p.Location == nil &&
		p.StartingTime == nil && p.AnnouncedAt == nil
}

// EventView is the read model assembled for API responses: the event plus
// its tag names, ticket types and like count.
type EventView struct {
	Event
	Tags    []string
	Likes   int
	Tickets []EventTicket
}
