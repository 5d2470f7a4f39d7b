package model

import (
	"strings"
	"sync"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imlapps/sdapps-sub000/internal/equality"
)

func TestIdentifier_AssignOnce(t *testing.T) {
	t.Parallel()

	t.Run("ExplicitBeforeRead", func(t *testing.T) {
		p := &Person{}
		assert.True(t, p.SetIdentifier(quad.IRI("urn:x:p")))
		assert.False(t, p.SetIdentifier(quad.IRI("urn:x:q")))
		assert.Equal(t, quad.IRI("urn:x:p"), p.Identifier())
	})

	t.Run("GeneratedOnRead", func(t *testing.T) {
		p := &Person{}
		id := p.Identifier()
		assert.False(t, p.SetIdentifier(quad.IRI("urn:x:late")))
		assert.Equal(t, id, p.Identifier())
	})

	t.Run("RejectsLiteral", func(t *testing.T) {
		p := &Person{}
		assert.False(t, p.SetIdentifier(quad.String("urn:x:p")))
		assert.True(t, p.SetIdentifier(quad.BNode("p")))
	})

	t.Run("WithIdentifierPanicsWhenSet", func(t *testing.T) {
		p := WithIdentifier(&Person{}, quad.IRI("urn:x:p"))
		assert.Panics(t, func() { WithIdentifier(p, quad.IRI("urn:x:q")) })
	})

	t.Run("DistinctLocals", func(t *testing.T) {
		assert.NotEqual(t, (&Person{}).Identifier(), (&Person{}).Identifier())
	})
}

func TestIdentifier_Concurrent(t *testing.T) {
	t.Parallel()

	for _, e := range []Entity{&Person{}, newAddress()} {
		var wg sync.WaitGroup
		ids := make([]quad.Value, 32)
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ids[i] = e.Identifier()
			}(i)
		}
		wg.Wait()

		for _, id := range ids {
			assert.Equal(t, ids[0], id)
		}
	}
}

func TestIdentifier_ContentAddressed(t *testing.T) {
	t.Parallel()

	a, b := newAddress(), newAddress()
	id := a.Identifier()

	iri, ok := id.(quad.IRI)
	require.True(t, ok, "expected IRI, got %T", id)
	assert.True(t, strings.HasPrefix(string(iri), "urn:PostalAddress:"), iri)
	assert.Len(t, strings.TrimPrefix(string(iri), "urn:PostalAddress:"), 64)
	assert.Equal(t, id, b.Identifier())

	c := newAddress()
	c.PostalCode = ptr("54321")
	assert.NotEqual(t, id, c.Identifier())

	explicit := newAddress()
	explicit.SetIdentifier(quad.IRI("urn:x:addr"))
	assert.Equal(t, quad.IRI("urn:x:addr"), explicit.Identifier())

	t.Run("KindIsPartOfDigest", func(t *testing.T) {
		r := &Role{RoleName: "Member"}
		o := &OrganizationRole{}
		o.RoleName = "Member"
		assert.NotEqual(t,
			strings.TrimPrefix(string(r.Identifier().(quad.IRI)), "urn:Role:"),
			strings.TrimPrefix(string(o.Identifier().(quad.IRI)), "urn:OrganizationRole:"))
	})

	t.Run("NestedStubsWithoutIdentifiers", func(t *testing.T) {
		newRole := func() *Role {
			r := &Role{RoleName: "Chair"}
			r.SubjectOf = []*CreativeWorkStub{{}}
			r.SubjectOf[0].Name = ptr("Minutes")
			return r
		}

		a, b := newRole(), newRole()
		assert.Equal(t, a.Identifier(), b.Identifier())
		_, hasID := a.SubjectOf[0].cell().load()
		assert.False(t, hasID)

		c := newRole()
		c.SubjectOf[0].Identifier()
		assert.Equal(t, a.Identifier(), c.Identifier())

		named := newRole()
		named.SubjectOf[0].SetIdentifier(quad.IRI("urn:x:minutes"))
		assert.NotEqual(t, a.Identifier(), named.Identifier())
	})

	t.Run("StableAcrossSerialization", func(t *testing.T) {
		r := &Role{RoleName: "Chair", StartDate: day(2023, 1, 1)}
		data, err := MarshalJSON(r)
		require.NoError(t, err)

		decoded, err := RoleKind.UnmarshalJSON(data)
		require.NoError(t, err)
		assert.Equal(t, r.Identifier(), decoded.Identifier())

		fresh := &Role{RoleName: "Chair", StartDate: day(2023, 1, 1)}
		assert.Equal(t, r.Identifier(), fresh.Identifier())
	})
}

func TestEqual(t *testing.T) {
	t.Parallel()

	t.Run("Reflexive", func(t *testing.T) {
		for _, e := range samples() {
			assert.Nil(t, Equal(e, e), e.Kind().Name)
			assert.Equal(t, Hash(e), Hash(e))
		}
	})

	t.Run("SingleField", func(t *testing.T) {
		a, b := newPerson(), newPerson()
		require.Nil(t, Equal(a, b))

		b.JobTitle = ptr("Mayor")
		m := Equal(a, b)
		require.NotNil(t, m)
		assert.Equal(t, []string{"jobTitle"}, m.Path())
		assert.Equal(t, "jobTitle: value mismatch (Councillor != Mayor)", m.Error())
		assert.NotEqual(t, Hash(a), Hash(b))
	})

	t.Run("InheritedBeforeOwn", func(t *testing.T) {
		a, b := newPerson(), newPerson()
		b.Name = ptr("Someone else")
		b.JobTitle = ptr("Mayor")
		assert.Equal(t, []string{"name"}, Equal(a, b).Path())
	})

	t.Run("Presence", func(t *testing.T) {
		a, b := newPerson(), newPerson()
		b.Gender = nil
		m := Equal(a, b)
		require.NotNil(t, m)
		assert.Equal(t, equality.ReasonPresence, m.Nested.Reason)
	})

	t.Run("Nested", func(t *testing.T) {
		a, b := newPerson(), newPerson()
		b.MemberOf[0].Name = ptr("Town Council")
		m := Equal(a, b)
		require.NotNil(t, m)
		assert.Equal(t, []string{"memberOf", "name"}, m.Path())
		assert.Equal(t, "memberOf[0].name: value mismatch (City Council != Town Council)", m.Error())
	})

	t.Run("Identifier", func(t *testing.T) {
		a := newPerson()
		b := &Person{}
		b.SetIdentifier(quad.IRI("urn:x:other"))
		m := Equal(a, b)
		require.NotNil(t, m)
		assert.Equal(t, equality.ReasonIdentifier, m.Reason)
	})

	t.Run("Kind", func(t *testing.T) {
		a := WithIdentifier(&Action{}, quad.IRI("urn:x:a"))
		b := WithIdentifier(&AssessAction{}, quad.IRI("urn:x:a"))
		m := Equal(a, b)
		require.NotNil(t, m)
		assert.Equal(t, equality.ReasonKind, m.Reason)
	})

	t.Run("UnorderedListPermutation", func(t *testing.T) {
		a, b := newPerson(), newPerson()
		b.SameAs = []quad.IRI{a.SameAs[1], a.SameAs[0]}
		assert.Nil(t, Equal(a, b))
		assert.Equal(t, Hash(a), Hash(b))
	})

	t.Run("UnorderedListLength", func(t *testing.T) {
		a, b := newPerson(), newPerson()
		b.SameAs = b.SameAs[:1]
		m := Equal(a, b)
		require.NotNil(t, m)
		assert.Equal(t, "sameAs: length mismatch (2 != 1)", m.Error())
	})

	t.Run("PositionalListPermutation", func(t *testing.T) {
		a, b := newPlaylist(), newPlaylist()
		b.Tracks[0], b.Tracks[1] = b.Tracks[1], b.Tracks[0]
		m := Equal(a, b)
		require.NotNil(t, m)
		assert.Equal(t, "track", m.Field)
		assert.Equal(t, equality.ReasonElement, m.Nested.Reason)
		assert.Equal(t, 0, m.Nested.Index)
		assert.NotEqual(t, Hash(a), Hash(b))
	})

	t.Run("DatesCompareByDay", func(t *testing.T) {
		a, b := newPerson(), newPerson()
		b.BirthDate = instant("1815-12-10T00:00:00Z")
		assert.Nil(t, Equal(a, b))
	})

	t.Run("InstantsCompareAcrossZones", func(t *testing.T) {
		a, b := newVote(), newVote()
		b.StartTime = instant("2024-05-01T21:30:00+02:00")
		assert.Nil(t, Equal(a, b))
		assert.Equal(t, Hash(a), Hash(b))
	})
}

func TestAs(t *testing.T) {
	t.Parallel()

	p, err := As[*Person](ThingKind.UnmarshalJSON([]byte(`{"type":"Person","@id":"urn:x:p"}`)))
	require.NoError(t, err)
	assert.Equal(t, quad.IRI("urn:x:p"), p.Identifier())

	_, err = As[*Organization](ThingKind.UnmarshalJSON([]byte(`{"type":"Person"}`)))
	var tm *TypeMismatchError
	assert.ErrorAs(t, err, &tm)
}

func TestStubOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		entity   ThingLike
		expected *Kind
	}{
		{"Person", newPerson(), PersonStubKind},
		{"Organization", newOrganization(), OrganizationStubKind},
		{"Government", &GovernmentOrganization{}, OrganizationStubKind},
		{"Playlist", newPlaylist(), CreativeWorkStubKind},
		{"Recording", &MusicRecording{Duration: ptr("PT1M")}, MusicRecordingStubKind},
		{"Broadcast", newBroadcast(), EventStubKind},
		{"Place", &Place{}, PlaceStubKind},
		{"Role", &Role{RoleName: "Chair"}, ThingStubKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := StubOf(tt.entity)
			assert.Same(t, tt.expected, s.Kind())
			assert.Equal(t, tt.entity.Identifier(), s.Identifier())
			assert.Equal(t, tt.entity.thing().Name, s.thingStub().Name)
		})
	}

	t.Run("CarriesStubFields", func(t *testing.T) {
		p := newPerson()
		s := p.Stub()
		assert.Equal(t, "Councillor", *s.JobTitle)
		assert.Equal(t, []string{"ocd-person/1"}, s.Identifiers)

		p.Identifiers[0] = "changed"
		assert.Equal(t, "ocd-person/1", s.Identifiers[0])

		b := newBroadcast()
		es := b.Stub()
		assert.True(t, es.StartDate.Equal(*b.StartDate))
	})
}

func TestLabels(t *testing.T) {
	t.Parallel()

	labels := Labels(newOrganization())

	byID := make(map[quad.Value]Label)
	for _, l := range labels {
		byID[l.Identifier] = l
	}

	assert.Len(t, labels, 3)
	assert.Equal(t, Label{Identifier: quad.IRI("urn:x:council"), Kind: "Organization", Label: "City Council"}, byID[quad.IRI("urn:x:council")])
	assert.Equal(t, "PersonStub", byID[quad.IRI("urn:x:ada")].Kind)
	assert.Equal(t, "Finance Committee", byID[quad.IRI("urn:x:finance")].Label)

	t.Run("Dedup", func(t *testing.T) {
		cw := &CreativeWork{
			About:  []ThingStubLike{personStub("urn:x:ada", "Ada Lovelace")},
			Author: []ThingStubLike{personStub("urn:x:ada", "Ada Lovelace")},
		}
		cw.SetIdentifier(quad.IRI("urn:x:cw"))
		got := Labels(cw)
		require.Len(t, got, 1)
		assert.Equal(t, quad.IRI("urn:x:ada"), got[0].Identifier)
	})
}
