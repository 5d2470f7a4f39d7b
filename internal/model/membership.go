package model

import (
	"fmt"
	"slices"

	"github.com/cayleygraph/quad"

	"github.com/imlapps/sdapps-sub000/internal/term"
)

// MembershipBuilder fills the Person.MemberOf and Organization.Member
// back-references in two passes. People and organizations are registered
// first, links are recorded second, and Build hands out the linked
// entities. Entities must not be shared or serialized before Build returns.
//
// A builder is not safe for concurrent use.
type MembershipBuilder struct {
	people map[string]*Person
	orgs   map[string]OrganizationLike
	porder []string
	oorder []string
	links  []membership
	linked map[membership]bool
	built  bool
}

type membership struct {
	person string
	org    string
}

// NewMembershipBuilder creates an empty builder.
func NewMembershipBuilder() *MembershipBuilder {
	return &MembershipBuilder{
		people: make(map[string]*Person),
		orgs:   make(map[string]OrganizationLike),
		linked: make(map[membership]bool),
	}
}

// AddPerson registers a person. Registering the same identifier twice keeps
// the first.
func (b *MembershipBuilder) AddPerson(p *Person) {
	k := term.Key(p.Identifier())
	if _, ok := b.people[k]; ok {
		return
	}
	b.people[k] = p
	b.porder = append(b.porder, k)
}

// AddOrganization registers an organization.
func (b *MembershipBuilder) AddOrganization(o OrganizationLike) {
	k := term.Key(o.Identifier())
	if _, ok := b.orgs[k]; ok {
		return
	}
	b.orgs[k] = o
	b.oorder = append(b.oorder, k)
}

// Link records that person is a member of org. Both must be registered.
// Repeated links are ignored.
func (b *MembershipBuilder) Link(person, org quad.Value) error {
	if b.built {
		return fmt.Errorf("membership builder already built")
	}
	m := membership{person: term.Key(person), org: term.Key(org)}
	if _, ok := b.people[m.person]; !ok {
		return fmt.Errorf("link: unknown person %s", m.person)
	}
	if _, ok := b.orgs[m.org]; !ok {
		return fmt.Errorf("link: unknown organization %s", m.org)
	}
	if b.linked[m] {
		return nil
	}
	b.linked[m] = true
	b.links = append(b.links, m)
	return nil
}

// Build appends a stub of each side to the other's back-reference list and
// returns the registered entities in registration order. Build may be
// called once.
func (b *MembershipBuilder) Build() ([]*Person, []OrganizationLike, error) {
	if b.built {
		return nil, nil, fmt.Errorf("membership builder already built")
	}
	b.built = true

	for _, m := range b.links {
		p, o := b.people[m.person], b.orgs[m.org]
		p.MemberOf = append(p.MemberOf, StubOf(o).(*OrganizationStub))
		org := o.organization()
		org.Member = append(org.Member, p.Stub())
	}

	people := make([]*Person, len(b.porder))
	for i, k := range b.porder {
		people[i] = b.people[k]
	}
	orgs := make([]OrganizationLike, len(b.oorder))
	for i, k := range b.oorder {
		orgs[i] = b.orgs[k]
	}
	return people, orgs, nil
}


// LinkMembers completes the membership back-references among entities.
// Every Person.MemberOf or Organization.Member entry whose counterpart is
// also in entities is rebuilt from that counterpart, so both sides carry a
// current stub of the other. Entries pointing outside entities are kept as
// they are. It returns the number of distinct links.
func LinkMembers(entities []Entity) (int, error) {
	b := NewMembershipBuilder()
	var people []*Person
	var orgs []OrganizationLike
	for _, e := range entities {
		switch x := e.(type) {
		case *Person:
			b.AddPerson(x)
			if b.people[term.Key(x.Identifier())] == x {
				people = append(people, x)
			}
		case OrganizationLike:
			b.AddOrganization(x)
			if b.orgs[term.Key(x.Identifier())] == x {
				orgs = append(orgs, x)
			}
		}
	}

	var links [][2]quad.Value
	for _, p := range people {
		p.MemberOf = slices.DeleteFunc(p.MemberOf, func(s *OrganizationStub) bool {
			if _, ok := b.orgs[term.Key(s.Identifier())]; !ok {
				return false
			}
			links = append(links, [2]quad.Value{p.Identifier(), s.Identifier()})
			return true
		})
	}
	for _, o := range orgs {
		org := o.organization()
		org.Member = slices.DeleteFunc(org.Member, func(s *PersonStub) bool {
			if _, ok := b.people[term.Key(s.Identifier())]; !ok {
				return false
			}
			links = append(links, [2]quad.Value{s.Identifier(), o.Identifier()})
			return true
		})
	}

	for _, l := range links {
		if err := b.Link(l[0], l[1]); err != nil {
			return 0, err
		}
	}
	if _, _, err := b.Build(); err != nil {
		return 0, err
	}
	return len(b.links), nil
}
