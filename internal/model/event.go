package model

import (
	"time"

	"github.com/cayleygraph/quad"
)

// EventStatus is the closed set of schema.org event statuses.
type EventStatus string

const (
	EventScheduled   EventStatus = "EventScheduled"
	EventCancelled   EventStatus = "EventCancelled"
	EventPostponed   EventStatus = "EventPostponed"
	EventRescheduled EventStatus = "EventRescheduled"
	EventMovedOnline EventStatus = "EventMovedOnline"
)

var eventStatusCodec = enumCodec("EventStatusType",
	EventScheduled, EventCancelled, EventPostponed, EventRescheduled, EventMovedOnline)

// Event is something that happens at a time and place, such as a council
// meeting or a broadcast.
type Event struct {
	Thing

	StartDate *time.Time
	EndDate   *time.Time
	Location  []*PlaceStub
	Organizer []ThingStubLike
	Performer []ThingStubLike
	SubEvent  []*EventStub
	// SuperEvent is a bare reference to the enclosing event.
	SuperEvent  quad.Value
	EventStatus *EventStatus
}

// EventLike is any entity of the Event subtree.
type EventLike interface {
	ThingLike
	event() *Event
}

func (e *Event) event() *Event { return e }

func eventFields() []Field {
	return []Field{
		optional("startDate", dateTimeCodec, func(e EventLike) **time.Time { return &e.event().StartDate }),
		optional("endDate", dateTimeCodec, func(e EventLike) **time.Time { return &e.event().EndDate }),
		list("location", embedded[*PlaceStub](PlaceStubKind), func(e EventLike) *[]*PlaceStub { return &e.event().Location }),
		list("organizer", polymorphic[ThingStubLike](ThingStubKind), func(e EventLike) *[]ThingStubLike { return &e.event().Organizer }),
		list("performer", polymorphic[ThingStubLike](ThingStubKind), func(e EventLike) *[]ThingStubLike { return &e.event().Performer }),
		list("subEvent", embedded[*EventStub](EventStubKind), func(e EventLike) *[]*EventStub { return &e.event().SubEvent }),
		optionalRef("superEvent", refCodec, func(e EventLike) *quad.Value { return &e.event().SuperEvent }),
		optional("eventStatus", eventStatusCodec, func(e EventLike) **EventStatus { return &e.event().EventStatus }),
	}
}

// PublicationEvent is the release of a work, such as an episode airing.
type PublicationEvent struct {
	Event

	PublishedBy []ThingStubLike
}

// PublicationEventLike is any entity of the PublicationEvent subtree.
type PublicationEventLike interface {
	EventLike
	publicationEvent() *PublicationEvent
}

func (p *PublicationEvent) publicationEvent() *PublicationEvent { return p }

func publicationEventFields() []Field {
	return []Field{
		list("publishedBy", polymorphic[ThingStubLike](ThingStubKind), func(e PublicationEventLike) *[]ThingStubLike {
			return &e.publicationEvent().PublishedBy
		}),
	}
}

// BroadcastEvent is a publication over radio or television.
type BroadcastEvent struct {
	PublicationEvent

	IsLiveBroadcast *bool
	WorkPerformed   []CreativeWorkStubLike
}

func broadcastEventFields() []Field {
	return []Field{
		optional("isLiveBroadcast", boolCodec, func(e *BroadcastEvent) **bool { return &e.IsLiveBroadcast }),
		list("workPerformed", polymorphic[CreativeWorkStubLike](CreativeWorkStubKind), func(e *BroadcastEvent) *[]CreativeWorkStubLike {
			return &e.WorkPerformed
		}),
	}
}
