package model

import "github.com/cayleygraph/quad"

// SchemaNS is the vocabulary every kind and field predicate is drawn from.
const SchemaNS = "http://schema.org/"

const rdfNS = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

// RDF vocabulary.
var (
	RDFType  = quad.IRI(rdfNS + "type")
	RDFFirst = quad.IRI(rdfNS + "first")
	RDFRest  = quad.IRI(rdfNS + "rest")
	RDFNil   = quad.IRI(rdfNS + "nil")
)

// JSON document keys shared by every kind.
const (
	KeyID   = "@id"
	KeyType = "type"
)

func schemaIRI(name string) quad.IRI {
	return quad.IRI(SchemaNS + name)
}
