package model

import (
	"slices"
	"time"

	"github.com/cayleygraph/quad"
)

// ThingStub is the root of the stub tree: an identifier, a label and the
// local identifier strings used for indexing.
type ThingStub struct {
	id identifierCell

	Name        *string
	Identifiers []string
}

// ThingStubLike is any stub.
type ThingStubLike interface {
	Entity
	thingStub() *ThingStub
}

func (s *ThingStub) thingStub() *ThingStub  { return s }
func (s *ThingStub) cell() *identifierCell { return &s.id }

// SetIdentifier implements Entity.
func (s *ThingStub) SetIdentifier(v quad.Value) bool { return s.id.set(v) }

func thingStubFields() []Field {
	return []Field{
		optional("name", stringCodec, func(e ThingStubLike) **string { return &e.thingStub().Name }),
		list("identifier", stringCodec, func(e ThingStubLike) *[]string { return &e.thingStub().Identifiers }),
	}
}

// CreativeWorkStub references a CreativeWork.
type CreativeWorkStub struct {
	ThingStub

	DatePublished *time.Time
}

// CreativeWorkStubLike is any stub of the CreativeWorkStub subtree.
type CreativeWorkStubLike interface {
	ThingStubLike
	creativeWorkStub() *CreativeWorkStub
}

func (s *CreativeWorkStub) creativeWorkStub() *CreativeWorkStub { return s }

func creativeWorkStubFields() []Field {
	return []Field{
		optional("datePublished", dateTimeCodec, func(e CreativeWorkStubLike) **time.Time {
			return &e.creativeWorkStub().DatePublished
		}),
	}
}

// MusicRecordingStub references a MusicRecording.
type MusicRecordingStub struct {
	CreativeWorkStub

	Duration *string
}

func musicRecordingStubFields() []Field {
	return []Field{
		optional("duration", stringCodec, func(e *MusicRecordingStub) **string { return &e.Duration }),
	}
}

// EventStub references an Event.
type EventStub struct {
	ThingStub

	StartDate *time.Time
	EndDate   *time.Time
}

func eventStubFields() []Field {
	return []Field{
		optional("startDate", dateTimeCodec, func(e *EventStub) **time.Time { return &e.StartDate }),
		optional("endDate", dateTimeCodec, func(e *EventStub) **time.Time { return &e.EndDate }),
	}
}

// PersonStub references a Person.
type PersonStub struct {
	ThingStub

	JobTitle *string
}

func personStubFields() []Field {
	return []Field{
		optional("jobTitle", stringCodec, func(e *PersonStub) **string { return &e.JobTitle }),
	}
}

// OrganizationStub references an Organization.
type OrganizationStub struct {
	ThingStub
}

// PlaceStub references a Place.
type PlaceStub struct {
	ThingStub
}

// StubOf reduces an entity to the most specific stub of its kind. The stub
// shares the entity's identifier; every other field not carried by the stub
// is dropped.
func StubOf(e ThingLike) ThingStubLike {
	var s ThingStubLike
	switch x := e.(type) {
	case *MusicRecording:
		s = &MusicRecordingStub{
			CreativeWorkStub: CreativeWorkStub{DatePublished: clone(x.DatePublished)},
			Duration:         clone(x.Duration),
		}
	case CreativeWorkLike:
		s = &CreativeWorkStub{DatePublished: clone(x.creativeWork().DatePublished)}
	case EventLike:
		ev := x.event()
		s = &EventStub{StartDate: clone(ev.StartDate), EndDate: clone(ev.EndDate)}
	case *Person:
		s = &PersonStub{JobTitle: clone(x.JobTitle)}
	case OrganizationLike:
		s = &OrganizationStub{}
	case *Place:
		s = &PlaceStub{}
	default:
		s = &ThingStub{}
	}

	t, st := e.thing(), s.thingStub()
	st.Name = clone(t.Name)
	st.Identifiers = slices.Clone(t.Identifiers)
	st.SetIdentifier(e.Identifier())
	return s
}

// Stub returns the stub of p.
func (p *Person) Stub() *PersonStub { return StubOf(p).(*PersonStub) }

// Stub returns the stub of o.
func (o *Organization) Stub() *OrganizationStub { return StubOf(o).(*OrganizationStub) }

// Stub returns the stub of e.
func (e *Event) Stub() *EventStub { return StubOf(e).(*EventStub) }

// Stub returns the stub of p.
func (p *Place) Stub() *PlaceStub { return StubOf(p).(*PlaceStub) }

// Stub returns the stub of m.
func (m *MusicRecording) Stub() *MusicRecordingStub { return StubOf(m).(*MusicRecordingStub) }

// Stub returns the stub of c.
func (c *CreativeWork) Stub() *CreativeWorkStub { return StubOf(c).(*CreativeWorkStub) }

func clone[V any](p *V) *V {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
