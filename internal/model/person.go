package model

import "time"

// Gender is the closed set of schema.org gender types.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

var genderCodec = enumCodec("GenderType", GenderMale, GenderFemale)

// Person is an individual, such as a legislator.
type Person struct {
	Thing

	GivenName  *string
	FamilyName *string
	Gender     *Gender
	BirthDate  *time.Time
	JobTitle   *string
	// MemberOf is a back-reference filled by MembershipBuilder.
	MemberOf []*OrganizationStub
}

func personFields() []Field {
	return []Field{
		optional("givenName", stringCodec, func(e *Person) **string { return &e.GivenName }),
		optional("familyName", stringCodec, func(e *Person) **string { return &e.FamilyName }),
		optional("gender", genderCodec, func(e *Person) **Gender { return &e.Gender }),
		optional("birthDate", dateCodec, func(e *Person) **time.Time { return &e.BirthDate }),
		optional("jobTitle", stringCodec, func(e *Person) **string { return &e.JobTitle }),
		list("memberOf", embedded[*OrganizationStub](OrganizationStubKind), func(e *Person) *[]*OrganizationStub { return &e.MemberOf }),
	}
}

// Organization is a body such as a legislature, committee or station.
type Organization struct {
	Thing

	LegalName *string
	Address   *PostalAddress
	// Member is a back-reference filled by MembershipBuilder.
	Member             []*PersonStub
	ParentOrganization []*OrganizationStub
	SubOrganization    []*OrganizationStub
}

// OrganizationLike is any entity of the Organization subtree.
type OrganizationLike interface {
	ThingLike
	organization() *Organization
}

func (o *Organization) organization() *Organization { return o }

func organizationFields() []Field {
	return []Field{
		optional("legalName", stringCodec, func(e OrganizationLike) **string { return &e.organization().LegalName }),
		optionalRef("address", embedded[*PostalAddress](PostalAddressKind), func(e OrganizationLike) **PostalAddress {
			return &e.organization().Address
		}),
		list("member", embedded[*PersonStub](PersonStubKind), func(e OrganizationLike) *[]*PersonStub { return &e.organization().Member }),
		list("parentOrganization", embedded[*OrganizationStub](OrganizationStubKind), func(e OrganizationLike) *[]*OrganizationStub {
			return &e.organization().ParentOrganization
		}),
		list("subOrganization", embedded[*OrganizationStub](OrganizationStubKind), func(e OrganizationLike) *[]*OrganizationStub {
			return &e.organization().SubOrganization
		}),
	}
}

// GovernmentOrganization is a public body with a jurisdiction.
type GovernmentOrganization struct {
	Organization

	Jurisdiction *string
}

func governmentOrganizationFields() []Field {
	return []Field{
		optional("jurisdiction", stringCodec, func(e *GovernmentOrganization) **string { return &e.Jurisdiction }),
	}
}
