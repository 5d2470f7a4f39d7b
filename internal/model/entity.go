package model

import (
	"fmt"
	"sync/atomic"

	"github.com/cayleygraph/quad"

	"github.com/imlapps/sdapps-sub000/internal/equality"
	"github.com/imlapps/sdapps-sub000/internal/term"
)

// ContentScheme is the IRI scheme of content-addressed identifiers.
const ContentScheme = "urn"

// Entity is an instance of a concrete kind from the entity or stub tree.
// The set of implementations is closed to this package.
type Entity interface {
	// Identifier returns the entity's identifier, generating it on first
	// use when none was assigned.
	Identifier() quad.Value

	// SetIdentifier assigns the identifier. It fails once an identifier has
	// been assigned or generated, or when v is not an IRI or local reference.
	SetIdentifier(v quad.Value) bool

	// Kind returns the entity's concrete kind. It is safe on a nil receiver.
	Kind() *Kind

	cell() *identifierCell
}

// identifierCell holds an identifier that is written at most once.
type identifierCell struct {
	v atomic.Pointer[cellValue]
}

type cellValue struct {
	id        quad.Value
	generated bool
}

func (c *identifierCell) load() (quad.Value, bool) {
	p := c.v.Load()
	if p == nil {
		return nil, false
	}
	return p.id, true
}

// assigned returns the identifier only if it was set explicitly rather
// than generated.
func (c *identifierCell) assigned() (quad.Value, bool) {
	p := c.v.Load()
	if p == nil || p.generated {
		return nil, false
	}
	return p.id, true
}

func (c *identifierCell) set(v quad.Value) bool {
	return c.store(v, false)
}

func (c *identifierCell) store(v quad.Value, generated bool) bool {
	if !term.IsIdentifier(v) {
		return false
	}
	return c.v.CompareAndSwap(nil, &cellValue{id: v, generated: generated})
}

// identify returns e's identifier, generating it when unset. Concurrent
// callers race on the cell; the first write wins and every caller returns
// the stored value.
func identify(e Entity) quad.Value {
	c := e.cell()
	if v, ok := c.load(); ok {
		return v
	}

	var v quad.Value
	if e.Kind().ContentAddressed {
		v = contentIdentifier(e)
	} else {
		v = term.FreshLocal()
	}
	c.store(v, true)

	v, _ = c.load()
	return v
}

// contentIdentifier derives <scheme>:<kind>:<digest> from the kind tag and
// every declared field value. The identifier itself is not hashed.
func contentIdentifier(e Entity) quad.IRI {
	h := &hasher{Hasher: equality.NewHasher(), content: true}
	hashEntity(h, e, false)
	return term.ContentIRI(ContentScheme, e.Kind().Name, h.Hex())
}

// hasher feeds entity values into a digest. In content mode a nested
// entity contributes its identifier only when one was assigned, and
// identifiers are never generated while hashing.
type hasher struct {
	*equality.Hasher
	content bool
}

func newHasher() *hasher {
	return &hasher{Hasher: equality.NewHasher()}
}

// fork returns an empty hasher in the same mode.
func (h *hasher) fork() *hasher {
	return &hasher{Hasher: equality.NewHasher(), content: h.content}
}

func (h *hasher) identifier(e Entity) {
	if !h.content {
		h.Term(e.Identifier())
		return
	}
	if v, ok := e.cell().assigned(); ok {
		h.Count(1)
		h.Term(v)
		return
	}
	h.Count(0)
}

// WithIdentifier assigns id to e and returns e, for use in composite
// expressions. It panics if e already has an identifier.
func WithIdentifier[T Entity](e T, id quad.Value) T {
	if !e.SetIdentifier(id) {
		panic(fmt.Sprintf("model: cannot assign identifier %v to %s", id, e.Kind().Name))
	}
	return e
}

// As narrows a decoded entity to a concrete type.
func As[T Entity](e Entity, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	t, ok := e.(T)
	if !ok {
		return zero, &TypeMismatchError{Focus: e.Identifier(), Expected: fmt.Sprintf("%T", zero), Actual: e.Kind().Name}
	}
	return t, nil
}

// Equal compares two entities structurally: identifier, kind, then every
// field in declaration order, inherited before own. It returns nil when the
// entities are equal.
func Equal(a, b Entity) *equality.Mismatch {
	if m := equality.Identifiers(a.Identifier(), b.Identifier()); m != nil {
		return m
	}
	if a.Kind() != b.Kind() {
		return &equality.Mismatch{Reason: equality.ReasonKind, Index: -1, Left: a.Kind().Name, Right: b.Kind().Name}
	}
	for _, f := range a.Kind().Fields() {
		if m := f.ops.equal(a, b); m != nil {
			return m
		}
	}
	return nil
}

// Hash returns the hex digest of e's identifier, kind and fields.
func Hash(e Entity) string {
	h := newHasher()
	hashEntity(h, e, true)
	return h.Hex()
}

func hashEntity(h *hasher, e Entity, withID bool) {
	if withID {
		h.identifier(e)
	}
	k := e.Kind()
	h.Marker(k.Name)
	for _, f := range k.Fields() {
		h.Marker(f.Name)
		f.ops.hash(e, h)
	}
}

// Nested returns the entities and stubs embedded directly in e.
func Nested(e Entity) []Entity {
	var out []Entity
	for _, f := range e.Kind().Fields() {
		out = append(out, f.ops.nested(e)...)
	}
	return out
}
