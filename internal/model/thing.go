package model

import (
	"github.com/cayleygraph/quad"
)

// Thing is the root of the entity tree. It is abstract: every entity embeds
// it through its specialization chain.
type Thing struct {
	id identifierCell

	Name        *string
	Description *string
	// Identifiers are local identifier strings, distinct from the graph
	// identifier.
	Identifiers []string
	SameAs      []quad.IRI
	URL         *quad.IRI
	SubjectOf   []*CreativeWorkStub
}

// ThingLike is any entity of the Thing tree.
type ThingLike interface {
	Entity
	thing() *Thing
}

func (t *Thing) thing() *Thing          { return t }
func (t *Thing) cell() *identifierCell { return &t.id }

// SetIdentifier implements Entity.
func (t *Thing) SetIdentifier(v quad.Value) bool { return t.id.set(v) }

func thingFields() []Field {
	return []Field{
		optional("name", stringCodec, func(e ThingLike) **string { return &e.thing().Name }),
		optional("description", stringCodec, func(e ThingLike) **string { return &e.thing().Description }),
		list("identifier", stringCodec, func(e ThingLike) *[]string { return &e.thing().Identifiers }),
		list("sameAs", iriCodec, func(e ThingLike) *[]quad.IRI { return &e.thing().SameAs }),
		optional("url", iriCodec, func(e ThingLike) **quad.IRI { return &e.thing().URL }),
		list("subjectOf", embedded[*CreativeWorkStub](CreativeWorkStubKind), func(e ThingLike) *[]*CreativeWorkStub { return &e.thing().SubjectOf }),
	}
}

// PostalAddress is a mailing address. Its identifier is derived from its
// content.
type PostalAddress struct {
	Thing

	StreetAddress   *string
	AddressLocality *string
	AddressRegion   *string
	PostalCode      *string
	AddressCountry  *string
}

func postalAddressFields() []Field {
	return []Field{
		optional("streetAddress", stringCodec, func(e *PostalAddress) **string { return &e.StreetAddress }),
		optional("addressLocality", stringCodec, func(e *PostalAddress) **string { return &e.AddressLocality }),
		optional("addressRegion", stringCodec, func(e *PostalAddress) **string { return &e.AddressRegion }),
		optional("postalCode", stringCodec, func(e *PostalAddress) **string { return &e.PostalCode }),
		optional("addressCountry", stringCodec, func(e *PostalAddress) **string { return &e.AddressCountry }),
	}
}

// Place is a physical location.
type Place struct {
	Thing

	Address   *PostalAddress
	Latitude  *float64
	Longitude *float64
}

func placeFields() []Field {
	return []Field{
		optionalRef("address", embedded[*PostalAddress](PostalAddressKind), func(e *Place) **PostalAddress { return &e.Address }),
		optional("latitude", floatCodec, func(e *Place) **float64 { return &e.Latitude }),
		optional("longitude", floatCodec, func(e *Place) **float64 { return &e.Longitude }),
	}
}
