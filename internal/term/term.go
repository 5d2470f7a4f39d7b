// Package term provides the primitive graph values used by the entity model.
//
// A term is one of three things: an IRI reference, a local (blank) reference
// that only has meaning inside one process or document, or a literal made of
// a lexical value with an optional language tag or datatype. Terms are
// represented with the cayley quad value types so that statements can be
// handed to any quad-aware tooling unchanged.
package term

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cayleygraph/quad"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// LocalPrefix marks a local reference in JSON documents.
// Identifier strings without it are IRIs.
const LocalPrefix = "_:"

// Tag identifies which branch of the term union a value belongs to.
type Tag int

const (
	TagInvalid Tag = iota
	TagIRI
	TagLocal
	TagLiteral
)

// String returns the tag name.
func (t Tag) String() string {
	switch t {
	case TagIRI:
		return "iri"
	case TagLocal:
		return "local"
	case TagLiteral:
		return "literal"
	default:
		return "invalid"
	}
}

// XSD datatype IRIs used by literal fields.
const (
	xsdNS = "http://www.w3.org/2001/XMLSchema#"

	XSDString   = quad.IRI(xsdNS + "string")
	XSDBoolean  = quad.IRI(xsdNS + "boolean")
	XSDInteger  = quad.IRI(xsdNS + "integer")
	XSDDecimal  = quad.IRI(xsdNS + "decimal")
	XSDDouble   = quad.IRI(xsdNS + "double")
	XSDDate     = quad.IRI(xsdNS + "date")
	XSDDateTime = quad.IRI(xsdNS + "dateTime")
)

// TagOf classifies a quad value.
func TagOf(v quad.Value) Tag {
	switch v.(type) {
	case nil:
		return TagInvalid
	case quad.IRI:
		return TagIRI
	case quad.BNode:
		return TagLocal
	case quad.String, quad.TypedString, quad.LangString,
		quad.Int, quad.Float, quad.Bool, quad.Time:
		return TagLiteral
	default:
		return TagInvalid
	}
}

// IsIdentifier reports whether v can identify an entity.
func IsIdentifier(v quad.Value) bool {
	tag := TagOf(v)
	return tag == TagIRI || tag == TagLocal
}

// Literal is the normalized form of a literal term.
type Literal struct {
	Value    string
	Lang     string
	Datatype quad.IRI
}

// LiteralOf normalizes any literal quad value. Native cayley values
// (Int, Float, Bool, Time) are folded into their typed lexical form so that
// a parsed "5"^^xsd:integer and quad.Int(5) compare equal.
func LiteralOf(v quad.Value) (Literal, bool) {
	switch x := v.(type) {
	case quad.String:
		return Literal{Value: string(x)}, true
	case quad.LangString:
		return Literal{Value: string(x.Value), Lang: x.Lang}, true
	case quad.TypedString:
		dt := x.Type.Full()
		if dt == XSDString {
			dt = ""
		}
		return Literal{Value: string(x.Value), Datatype: dt}, true
	case quad.Int:
		return Literal{Value: strconv.FormatInt(int64(x), 10), Datatype: XSDInteger}, true
	case quad.Float:
		return Literal{Value: strconv.FormatFloat(float64(x), 'g', -1, 64), Datatype: XSDDouble}, true
	case quad.Bool:
		return Literal{Value: strconv.FormatBool(bool(x)), Datatype: XSDBoolean}, true
	case quad.Time:
		return Literal{Value: time.Time(x).UTC().Format(time.RFC3339), Datatype: XSDDateTime}, true
	default:
		return Literal{}, false
	}
}

// Term converts the literal back into a quad value.
func (l Literal) Term() quad.Value {
	switch {
	case l.Lang != "":
		return quad.LangString{Value: quad.String(l.Value), Lang: l.Lang}
	case l.Datatype != "":
		return quad.TypedString{Value: quad.String(l.Value), Type: l.Datatype}
	default:
		return quad.String(l.Value)
	}
}

// Equal reports whether two terms have the same tag and the same values.
// An IRI never equals a local reference even when their strings match.
func Equal(a, b quad.Value) bool {
	ta, tb := TagOf(a), TagOf(b)
	if ta != tb {
		return false
	}
	switch ta {
	case TagIRI:
		return a.(quad.IRI).Full() == b.(quad.IRI).Full()
	case TagLocal:
		return a.(quad.BNode) == b.(quad.BNode)
	case TagLiteral:
		la, _ := LiteralOf(a)
		lb, _ := LiteralOf(b)
		return la == lb
	default:
		return a == nil && b == nil
	}
}

// Key returns a canonical string for v, unique per distinct term.
// It is used for map keys and deterministic ordering.
func Key(v quad.Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case quad.IRI:
		return "<" + string(x.Full()) + ">"
	case quad.BNode:
		return "_:" + string(x)
	default:
		l, ok := LiteralOf(v)
		if !ok {
			return v.String()
		}
		return l.Term().String()
	}
}

// localAlphabet keeps generated labels valid as N-Quads blank node labels.
const localAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// FreshLocal returns a new process-unique local reference.
func FreshLocal() quad.BNode {
	id, err := gonanoid.Generate(localAlphabet, 21)
	if err != nil {
		// crypto/rand failure; nothing sensible left to do
		panic(fmt.Sprintf("term: generating local reference: %v", err))
	}
	return quad.BNode(id)
}

// FormatIdentifier renders an identifier for a JSON document.
func FormatIdentifier(v quad.Value) string {
	switch x := v.(type) {
	case quad.IRI:
		return string(x.Full())
	case quad.BNode:
		return LocalPrefix + string(x)
	default:
		return ""
	}
}

// ParseIdentifier reads an identifier string from a JSON document.
func ParseIdentifier(s string) (quad.Value, error) {
	if s == "" {
		return nil, fmt.Errorf("empty identifier")
	}
	if strings.HasPrefix(s, LocalPrefix) {
		id := strings.TrimPrefix(s, LocalPrefix)
		if id == "" {
			return nil, fmt.Errorf("empty local reference %q", s)
		}
		return quad.BNode(id), nil
	}
	return quad.IRI(s), nil
}

// ContentIRI builds a content-addressed identifier of the form
// <scheme>:<kind>:<hexdigest>.
func ContentIRI(scheme, kind, hexDigest string) quad.IRI {
	return quad.IRI(scheme + ":" + kind + ":" + hexDigest)
}
