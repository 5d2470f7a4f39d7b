package model

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cayleygraph/quad"
	"github.com/google/jsonschema-go/jsonschema"
)

// Kind describes one node of the entity or stub specialization tree.
//
// Kinds are declared once at package initialization and are immutable
// afterwards. Children are kept in declaration order; that order is the
// decode fallback order.
type Kind struct {
	// Name is the JSON "type" discriminator.
	Name string

	// Class is the rdf:type emitted for instances.
	Class quad.IRI

	// Abstract kinds have no direct instances.
	Abstract bool

	// ContentAddressed kinds derive missing identifiers from a digest of
	// their fields instead of minting a fresh local reference.
	ContentAddressed bool

	parent   *Kind
	children []*Kind
	fields   []Field
	new      func() Entity

	// mirror is the entity kind whose subtree a stub kind accepts.
	mirror *Kind

	once     sync.Once
	all      []Field
	classes  map[quad.IRI]bool
	schema   *jsonschema.Schema
	resolved *jsonschema.Resolved
	err      error
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Kind)
	ordered    []*Kind
)

// define attaches k to the tree. Called from init only.
func (k *Kind) define(parent *Kind, fields []Field, newFn func() Entity) {
	k.parent = parent
	k.fields = fields
	k.new = newFn
	if parent != nil {
		parent.children = append(parent.children, k)
	}
	if newFn == nil {
		k.Abstract = true
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[k.Name]; dup {
		panic(fmt.Sprintf("model: kind %s defined twice", k.Name))
	}
	registry[k.Name] = k
	ordered = append(ordered, k)
}

// LookupKind returns the kind registered under name.
func LookupKind(name string) (*Kind, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	k, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, name)
	}
	return k, nil
}

// Kinds returns every registered kind in declaration order.
func Kinds() []*Kind {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return append([]*Kind(nil), ordered...)
}

// String returns the kind name.
func (k *Kind) String() string { return k.Name }

// Parent returns the parent kind, or nil for a root.
func (k *Kind) Parent() *Kind { return k.parent }

// Children returns the direct specializations in fallback order.
func (k *Kind) Children() []*Kind { return append([]*Kind(nil), k.children...) }

// IsStub reports whether k belongs to the stub tree.
func (k *Kind) IsStub() bool { return k.mirror != nil }

// OwnFields returns the fields declared by k itself.
func (k *Kind) OwnFields() []Field { return append([]Field(nil), k.fields...) }

// Fields returns every field of k, inherited before own.
func (k *Kind) Fields() []Field {
	k.init()
	return k.all
}

// Field looks up a field by name.
func (k *Kind) Field(name string) (Field, bool) {
	for _, f := range k.Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Descendants returns k and every kind below it, depth first in
// declaration order.
func (k *Kind) Descendants() []*Kind {
	out := []*Kind{k}
	for _, c := range k.children {
		out = append(out, c.Descendants()...)
	}
	return out
}

// IsA reports whether k is other or a specialization of it.
func (k *Kind) IsA(other *Kind) bool {
	for cur := k; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

// Classes returns the rdf:type values a resource may carry to be read as k,
// sorted. Stub kinds accept the classes of the entity subtree they mirror.
func (k *Kind) Classes() []quad.IRI {
	k.init()
	out := make([]quad.IRI, 0, len(k.classes))
	for c := range k.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// accepts reports whether class is one of k's classes.
func (k *Kind) accepts(class quad.Value) bool {
	iri, ok := class.(quad.IRI)
	if !ok {
		return false
	}
	k.init()
	return k.classes[iri.Full()]
}

// New creates an empty instance of a concrete kind.
func (k *Kind) New() (Entity, error) {
	if k.Abstract {
		return nil, fmt.Errorf("kind %s is abstract", k.Name)
	}
	return k.new(), nil
}

// Schema returns the JSON Schema documents of this kind are validated
// against.
func (k *Kind) Schema() *jsonschema.Schema {
	k.init()
	return k.schema
}

func (k *Kind) init() {
	k.once.Do(func() {
		if k.parent != nil {
			k.all = append(k.all, k.parent.Fields()...)
		}
		k.all = append(k.all, k.fields...)

		base := k
		if k.mirror != nil {
			base = k.mirror
		}
		k.classes = make(map[quad.IRI]bool)
		for _, d := range base.Descendants() {
			k.classes[d.Class] = true
		}
		for _, d := range k.Descendants() {
			k.classes[d.Class] = true
		}

		k.schema = k.buildSchema()
		k.resolved, k.err = k.schema.Resolve(nil)
	})
}

// buildSchema describes a document of k or any concrete descendant. Nested
// entity documents are only checked to be objects; their own kinds validate
// them when they are decoded.
func (k *Kind) buildSchema() *jsonschema.Schema {
	var names []any
	for _, d := range k.Descendants() {
		if !d.Abstract {
			names = append(names, d.Name)
		}
	}
	s := &jsonschema.Schema{
		Type:        "object",
		Description: k.Name,
		Properties: map[string]*jsonschema.Schema{
			KeyID:   {Type: "string"},
			KeyType: {Type: "string", Enum: names},
		},
		Required: []string{KeyType},
	}
	for _, f := range k.all {
		s.Properties[f.Name] = f.ops.schema()
		if f.Shape == ShapeRequired {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s
}

func (k *Kind) validate(doc map[string]any) error {
	k.init()
	if k.err != nil {
		return fmt.Errorf("resolving %s schema: %w", k.Name, k.err)
	}
	return k.resolved.Validate(doc)
}

// noMatch picks the error a fallback chain reports: the first failure of an
// alternative that accepted the input's type, else k's own rejection, else
// a generic no-match error.
func (k *Kind) noMatch(focus quad.Value, failures []error) error {
	for _, err := range failures {
		if !isRejection(err) {
			return err
		}
	}
	if !k.Abstract && len(failures) > 0 {
		return failures[len(failures)-1]
	}
	return &NoMatchError{Kind: k.Name, Focus: focus}
}
