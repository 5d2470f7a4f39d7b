package model

import (
	"testing"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/require"

	"github.com/imlapps/sdapps-sub000/internal/rdfstore"
)

func ptr[V any](v V) *V { return &v }

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func instant(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func personStub(id, name string) *PersonStub {
	s := &PersonStub{ThingStub: ThingStub{Name: ptr(name)}}
	s.SetIdentifier(quad.IRI(id))
	return s
}

func orgStub(id, name string) *OrganizationStub {
	s := &OrganizationStub{ThingStub: ThingStub{Name: ptr(name)}}
	s.SetIdentifier(quad.IRI(id))
	return s
}

func trackStub(id, name, duration string) *MusicRecordingStub {
	s := &MusicRecordingStub{Duration: ptr(duration)}
	s.Name = ptr(name)
	s.SetIdentifier(quad.IRI(id))
	return s
}

func newPerson() *Person {
	p := &Person{
		GivenName:  ptr("Ada"),
		FamilyName: ptr("Lovelace"),
		Gender:     ptr(GenderFemale),
		BirthDate:  day(1815, time.December, 10),
		JobTitle:   ptr("Councillor"),
		MemberOf:   []*OrganizationStub{orgStub("urn:x:council", "City Council")},
	}
	p.Name = ptr("Ada Lovelace")
	p.Identifiers = []string{"ocd-person/1"}
	p.SameAs = []quad.IRI{"https://example.org/ada", "https://example.net/ada"}
	p.SetIdentifier(quad.IRI("urn:x:ada"))
	return p
}

func newAddress() *PostalAddress {
	a := &PostalAddress{
		StreetAddress:   ptr("1 Main St"),
		AddressLocality: ptr("Springfield"),
		PostalCode:      ptr("12345"),
		AddressCountry:  ptr("US"),
	}
	return a
}

func newOrganization() *Organization {
	o := &Organization{
		LegalName:       ptr("City Council of Springfield"),
		Address:         newAddress(),
		Member:          []*PersonStub{personStub("urn:x:ada", "Ada Lovelace")},
		SubOrganization: []*OrganizationStub{orgStub("urn:x:finance", "Finance Committee")},
	}
	o.Name = ptr("City Council")
	o.SetIdentifier(quad.IRI("urn:x:council"))
	return o
}

func newPlaylist() *MusicPlaylist {
	p := &MusicPlaylist{
		Tracks: []*MusicRecordingStub{
			trackStub("urn:x:track:1", "Opening", "PT3M20S"),
			trackStub("urn:x:track:2", "Interlude", "PT1M05S"),
			trackStub("urn:x:track:3", "Closing", "PT4M00S"),
		},
		NumTracks: ptr(int64(3)),
	}
	p.Name = ptr("Morning Show")
	p.DatePublished = instant("2024-03-01T08:00:00Z")
	p.SetIdentifier(quad.IRI("urn:x:playlist"))
	return p
}

func newBroadcast() *BroadcastEvent {
	b := &BroadcastEvent{
		IsLiveBroadcast: ptr(true),
		WorkPerformed:   []CreativeWorkStubLike{trackStub("urn:x:track:1", "Opening", "PT3M20S")},
	}
	b.Name = ptr("Morning Show, March 1")
	b.StartDate = instant("2024-03-01T08:00:00Z")
	b.EndDate = instant("2024-03-01T10:00:00+01:00")
	b.EventStatus = ptr(EventScheduled)
	b.SuperEvent = quad.IRI("urn:x:season")
	b.PublishedBy = []ThingStubLike{orgStub("urn:x:station", "KXYZ")}
	b.Location = []*PlaceStub{WithIdentifier(&PlaceStub{}, quad.IRI("urn:x:studio"))}
	b.SetIdentifier(quad.IRI("urn:x:broadcast"))
	return b
}

func newVote() *VoteAction {
	v := &VoteAction{Candidates: []*PersonStub{personStub("urn:x:ada", "Ada Lovelace")}}
	v.ActionOptions = []string{"yes", "no", "abstain"}
	v.Agent = []ThingStubLike{personStub("urn:x:bob", "Bob")}
	v.StartTime = instant("2024-05-01T19:30:00Z")
	v.Name = ptr("Vote on motion 12")
	v.SetIdentifier(quad.IRI("urn:x:vote"))
	return v
}

// samples returns one populated instance of every concrete entity kind.
func samples() []Entity {
	cw := &CreativeWork{
		About:       []ThingStubLike{personStub("urn:x:ada", "Ada Lovelace")},
		Author:      []ThingStubLike{orgStub("urn:x:council", "City Council")},
		DateCreated: day(2024, time.January, 2),
		InLanguage:  ptr("en"),
		IsBasedOn:   []quad.Value{quad.IRI("urn:x:draft")},
		Keywords:    []string{"budget", "parks"},
	}
	cw.Name = ptr("Budget report")
	cw.Description = ptr("Annual budget")
	cw.URL = ptr(quad.IRI("https://example.org/budget"))
	cw.SubjectOf = []*CreativeWorkStub{WithIdentifier(&CreativeWorkStub{DatePublished: instant("2024-01-03T12:00:00Z")}, quad.IRI("urn:x:article"))}

	media := &MediaObject{ContentURL: ptr(quad.IRI("https://example.org/a.mp4")), EncodingFormat: ptr("video/mp4"), UploadDate: day(2024, time.February, 1)}
	text := &TextObject{Text: ptr("Minutes of the meeting")}
	text.EncodingFormat = ptr("text/plain")
	audio := &AudioObject{Transcript: ptr("Good morning")}
	image := &ImageObject{Caption: ptr("Council chamber")}
	recording := &MusicRecording{
		ByArtist: []ThingStubLike{personStub("urn:x:artist", "Some Artist")},
		Duration: ptr("PT3M20S"),
		IsrcCode: ptr("USRC17607839"),
	}
	recording.Name = ptr("Opening")

	event := &Event{
		StartDate: instant("2024-05-01T19:00:00Z"),
		Organizer: []ThingStubLike{orgStub("urn:x:council", "City Council")},
		Performer: []ThingStubLike{personStub("urn:x:ada", "Ada Lovelace")},
		SubEvent:  []*EventStub{WithIdentifier(&EventStub{StartDate: instant("2024-05-01T19:30:00Z")}, quad.IRI("urn:x:item:1"))},
	}
	event.Name = ptr("Council meeting")
	pub := &PublicationEvent{PublishedBy: []ThingStubLike{orgStub("urn:x:station", "KXYZ")}}

	gov := &GovernmentOrganization{Jurisdiction: ptr("Springfield")}
	gov.Name = ptr("Springfield")
	place := &Place{Address: newAddress(), Latitude: ptr(39.78), Longitude: ptr(-89.65)}
	place.Name = ptr("City Hall")

	role := &Role{RoleName: "Chair", StartDate: day(2023, time.January, 1)}
	orgRole := &OrganizationRole{NumberedPosition: ptr(3.0)}
	orgRole.RoleName = "Member"

	action := &Action{Object: []ThingStubLike{WithIdentifier(&CreativeWorkStub{}, quad.IRI("urn:x:motion"))}}
	assess := &AssessAction{}
	assess.Name = ptr("Review")
	choose := &ChooseAction{ActionOptions: []string{"a", "b"}}

	return []Entity{
		cw, media, text, audio, image, recording, newPlaylist(),
		event, pub, newBroadcast(),
		newPerson(), newOrganization(), gov, place, newAddress(),
		role, orgRole, action, assess, choose, newVote(),
	}
}

func setupStores(t *testing.T) map[string]rdfstore.Store {
	t.Helper()

	b, err := rdfstore.OpenBadger()
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	return map[string]rdfstore.Store{
		"Memory": rdfstore.NewMemory(),
		"Badger": b,
	}
}
