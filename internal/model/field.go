package model

import (
	"fmt"
	"reflect"
	"slices"
	"sort"

	"github.com/cayleygraph/quad"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/imlapps/sdapps-sub000/internal/equality"
	"github.com/imlapps/sdapps-sub000/internal/query"
)

// Shape is the cardinality of a field.
type Shape int

const (
	// ShapeRequired is a single value that must be present.
	ShapeRequired Shape = iota
	// ShapeOptional is a single value that may be absent.
	ShapeOptional
	// ShapeList is a multi-valued field whose order carries no meaning.
	ShapeList
	// ShapePositional is a multi-valued field whose order is significant.
	ShapePositional
)

func (s Shape) String() string {
	switch s {
	case ShapeRequired:
		return "required"
	case ShapeOptional:
		return "optional"
	case ShapeList:
		return "list"
	case ShapePositional:
		return "positional"
	default:
		return "unknown"
	}
}

// Field describes one declared property of a kind.
type Field struct {
	// Name is the JSON key and the local name of the predicate.
	Name      string
	Predicate quad.IRI
	Shape     Shape

	// Target is the kind of an embedded entity or stub, nil for scalar and
	// bare reference fields.
	Target *Kind

	ops fieldOps
}

// fieldOps is the type-erased behaviour of a field. Implementations are
// generic over the owning level N and the value type V.
type fieldOps interface {
	present(e Entity) bool
	toJSON(e Entity) any
	fromJSON(e Entity, raw any) error
	toRDF(e Entity, subject quad.Value, w *writer) error
	fromRDF(e Entity, subject quad.Value, r *reader) error
	equal(a, b Entity) *equality.Mismatch
	hash(e Entity, h *hasher)
	schema() *jsonschema.Schema
	nested(e Entity) []Entity
}

// single is a field holding at most one value.
type single[N Entity, V any] struct {
	name     string
	pred     quad.IRI
	required bool
	c        codec[V]
	load     func(N) (V, bool)
	store    func(N, V)
}

func required[N Entity, V any](name string, c codec[V], get func(N) *V) Field {
	return newSingle(name, c, true,
		func(n N) (V, bool) { return *get(n), true },
		func(n N, v V) { *get(n) = v })
}

func optional[N Entity, V any](name string, c codec[V], get func(N) **V) Field {
	return newSingle(name, c, false,
		func(n N) (V, bool) {
			p := *get(n)
			if p == nil {
				var zero V
				return zero, false
			}
			return *p, true
		},
		func(n N, v V) { *get(n) = &v })
}

// optionalRef is optional for values that are already nilable: entity
// pointers and identifier terms.
func optionalRef[N Entity, V any](name string, c codec[V], get func(N) *V) Field {
	return newSingle(name, c, false,
		func(n N) (V, bool) {
			v := *get(n)
			return v, !isNil(v)
		},
		func(n N, v V) { *get(n) = v })
}

func newSingle[N Entity, V any](name string, c codec[V], req bool, load func(N) (V, bool), store func(N, V)) Field {
	shape := ShapeOptional
	if req {
		shape = ShapeRequired
	}
	pred := schemaIRI(name)
	return Field{
		Name:      name,
		Predicate: pred,
		Shape:     shape,
		Target:    c.target,
		ops:       &single[N, V]{name: name, pred: pred, required: req, c: c, load: load, store: store},
	}
}

func (f *single[N, V]) present(e Entity) bool {
	_, ok := f.load(e.(N))
	return ok
}

func (f *single[N, V]) toJSON(e Entity) any {
	v, _ := f.load(e.(N))
	return f.c.toJSON(v)
}

func (f *single[N, V]) fromJSON(e Entity, raw any) error {
	v, err := f.c.fromJSON(raw)
	if err != nil {
		if f.c.entity != nil && !f.required {
			return nil
		}
		return &ValueError{Field: f.name, Predicate: f.pred, Reason: "invalid " + f.c.name, Err: err}
	}
	f.store(e.(N), v)
	return nil
}

func (f *single[N, V]) toRDF(e Entity, subject quad.Value, w *writer) error {
	v, ok := f.load(e.(N))
	if !ok {
		return nil
	}
	o, err := f.c.toRDF(v, w)
	if err != nil {
		return fmt.Errorf("%s: %w", f.name, err)
	}
	return w.emit(subject, f.pred, o)
}

// fromRDF takes the first object that decodes. Absence is only an error for
// required fields; present but undecodable values are always an error.
func (f *single[N, V]) fromRDF(e Entity, subject quad.Value, r *reader) error {
	objects := r.objects(subject, f.pred)
	if len(objects) == 0 {
		if f.required {
			return &ValueError{Focus: subject, Field: f.name, Predicate: f.pred, Reason: "missing required value"}
		}
		return nil
	}
	var first error
	for _, o := range objects {
		v, err := f.c.fromRDF(o, r)
		if err == nil {
			f.store(e.(N), v)
			return nil
		}
		if first == nil {
			first = err
		}
	}
	return &ValueError{Focus: subject, Field: f.name, Predicate: f.pred, Reason: "invalid " + f.c.name, Err: first}
}

func (f *single[N, V]) equal(a, b Entity) *equality.Mismatch {
	return equality.Property(f.name, equality.Optional(f.value(a), f.value(b), f.c.equal))
}

// value returns the field value of e, nil when absent.
func (f *single[N, V]) value(e Entity) *V {
	v, ok := f.load(e.(N))
	if !ok {
		return nil
	}
	return &v
}

func (f *single[N, V]) hash(e Entity, h *hasher) {
	v, ok := f.load(e.(N))
	if !ok {
		h.Count(0)
		return
	}
	h.Count(1)
	f.c.hash(h, v)
}

func (f *single[N, V]) schema() *jsonschema.Schema {
	return f.c.schema()
}

func (f *single[N, V]) nested(e Entity) []Entity {
	if f.c.entity == nil {
		return nil
	}
	v, ok := f.load(e.(N))
	if !ok {
		return nil
	}
	return []Entity{f.c.entity(v)}
}

// multi is a list-valued field.
type multi[N Entity, V any] struct {
	name       string
	pred       quad.IRI
	positional bool
	c          codec[V]
	get        func(N) *[]V
}

func list[N Entity, V any](name string, c codec[V], get func(N) *[]V) Field {
	return newMulti(name, c, false, get)
}

func positional[N Entity, V any](name string, c codec[V], get func(N) *[]V) Field {
	return newMulti(name, c, true, get)
}

func newMulti[N Entity, V any](name string, c codec[V], pos bool, get func(N) *[]V) Field {
	shape := ShapeList
	if pos {
		shape = ShapePositional
	}
	pred := schemaIRI(name)
	return Field{
		Name:      name,
		Predicate: pred,
		Shape:     shape,
		Target:    c.target,
		ops:       &multi[N, V]{name: name, pred: pred, positional: pos, c: c, get: get},
	}
}

func (f *multi[N, V]) present(e Entity) bool {
	return len(*f.get(e.(N))) > 0
}

// values returns the list, with duplicates removed unless it is
// positional. Unordered lists are written as repeated statements, which a
// graph holds as a set.
func (f *multi[N, V]) values(e Entity) []V {
	vs := *f.get(e.(N))
	if f.positional {
		return vs
	}
	return equality.Distinct(vs, f.c.equal)
}

func (f *multi[N, V]) toJSON(e Entity) any {
	vs := f.values(e)
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = f.c.toJSON(v)
	}
	return out
}

// fromJSON drops embedded entities that fail to decode; scalar failures
// fail the document.
func (f *multi[N, V]) fromJSON(e Entity, raw any) error {
	items, ok := raw.([]any)
	if !ok {
		return &ValueError{Field: f.name, Predicate: f.pred, Reason: fmt.Sprintf("expected array, got %T", raw)}
	}
	vs := make([]V, 0, len(items))
	for i, item := range items {
		v, err := f.c.fromJSON(item)
		if err != nil {
			if f.c.entity != nil {
				continue
			}
			return &ValueError{Field: fmt.Sprintf("%s[%d]", f.name, i), Predicate: f.pred, Reason: "invalid " + f.c.name, Err: err}
		}
		vs = append(vs, v)
	}
	if !f.positional {
		vs = equality.Distinct(vs, f.c.equal)
	}
	*f.get(e.(N)) = vs
	return nil
}

func (f *multi[N, V]) toRDF(e Entity, subject quad.Value, w *writer) error {
	vs := f.values(e)
	if len(vs) == 0 {
		return nil
	}
	objects := make([]quad.Value, 0, len(vs))
	for i, v := range vs {
		o, err := f.c.toRDF(v, w)
		if err != nil {
			return fmt.Errorf("%s[%d]: %w", f.name, i, err)
		}
		objects = append(objects, o)
	}
	if !f.positional {
		for _, o := range objects {
			if err := w.emit(subject, f.pred, o); err != nil {
				return err
			}
		}
		return nil
	}
	head, err := w.collection(objects)
	if err != nil {
		return err
	}
	return w.emit(subject, f.pred, head)
}

// fromRDF keeps every element that decodes and drops the rest.
func (f *multi[N, V]) fromRDF(e Entity, subject quad.Value, r *reader) error {
	objects := r.objects(subject, f.pred)
	if len(objects) == 0 {
		return nil
	}
	if f.positional {
		items, err := r.collection(objects[0])
		if err != nil {
			return &ValueError{Focus: subject, Field: f.name, Predicate: f.pred, Reason: "malformed list", Err: err}
		}
		objects = items
	}
	vs := make([]V, 0, len(objects))
	for _, o := range objects {
		v, err := f.c.fromRDF(o, r)
		if err != nil {
			continue
		}
		vs = append(vs, v)
	}
	*f.get(e.(N)) = vs
	return nil
}

func (f *multi[N, V]) equal(a, b Entity) *equality.Mismatch {
	av, bv := f.values(a), f.values(b)
	if f.positional {
		return equality.Property(f.name, equality.Ordered(av, bv, f.c.equal))
	}
	return equality.Property(f.name, equality.Unordered(av, bv, f.c.equal))
}

// hash feeds positional lists in order and unordered lists as the sorted
// set of distinct element digests, matching the list comparison rules.
func (f *multi[N, V]) hash(e Entity, h *hasher) {
	vs := *f.get(e.(N))
	if f.positional {
		h.Count(len(vs))
		for _, v := range vs {
			f.c.hash(h, v)
		}
		return
	}
	digests := make([]string, len(vs))
	for i, v := range vs {
		sub := h.fork()
		f.c.hash(sub, v)
		digests[i] = sub.Hex()
	}
	sort.Strings(digests)
	digests = slices.Compact(digests)
	h.Count(len(digests))
	for _, d := range digests {
		h.String(d)
	}
}

func (f *multi[N, V]) schema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "array", Items: f.c.schema()}
}

func (f *multi[N, V]) nested(e Entity) []Entity {
	if f.c.entity == nil {
		return nil
	}
	vs := *f.get(e.(N))
	out := make([]Entity, 0, len(vs))
	for _, v := range vs {
		out = append(out, f.c.entity(v))
	}
	return out
}

// fragment returns the template and patterns binding this field on s.
// Embedded kinds contribute the union of their subtree's scalar fields.
func (f Field) fragment(s query.Var) query.Fragment {
	v := s.Child(f.Name)
	out := query.Fragment{Construct: []query.Triple{{Subject: s, Predicate: f.Predicate, Object: v}}}
	group := []query.Pattern{query.Triple{Subject: s, Predicate: f.Predicate, Object: v}}

	item := v
	if f.Shape == ShapePositional {
		item = v.Child("item")
		group = append(group, query.Collection{Head: v, Item: item})
	}
	if f.Target != nil {
		nested := f.Target.embeddedFragment(item)
		out.Construct = append(out.Construct, nested.Construct...)
		group = append(group, nested.Where...)
	}

	if f.Shape == ShapeRequired {
		out.Where = group
	} else {
		out.Where = []query.Pattern{query.Optional{Patterns: group}}
	}
	return out
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}
