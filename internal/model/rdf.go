package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/imlapps/sdapps-sub000/internal/rdfstore"
	"github.com/imlapps/sdapps-sub000/internal/term"
)

// WriteOptions controls ToRDF.
type WriteOptions struct {
	// Graph labels every emitted statement. Nil writes to the default graph.
	Graph quad.Value

	// SkipType suppresses the rdf:type statement of the top-level entity.
	// Embedded entities always carry their type.
	SkipType bool
}

// ReadOptions controls FromRDF.
type ReadOptions struct {
	// IgnoreRDFType skips the type membership check of the requested kind.
	// More specific kinds are still selected by their type statements.
	IgnoreRDFType bool
}

// ToRDF writes e and every embedded entity into sink: one statement per
// present single value, one per list element, an RDF collection for
// positional lists and an rdf:type statement per entity.
func ToRDF(e Entity, sink rdfstore.Sink, opts WriteOptions) error {
	w := &writer{sink: sink, graph: opts.Graph}
	return w.entity(e, opts.SkipType)
}

// FromRDF decodes subject as k or the most specific descendant whose type
// statement it carries. Descendants are tried depth first in declaration
// order before k itself; the first success wins.
func (k *Kind) FromRDF(g rdfstore.Graph, subject quad.Value, opts ReadOptions) (Entity, error) {
	if !term.IsIdentifier(subject) {
		return nil, &ValueError{Focus: subject, Field: KeyID, Reason: "subject is not an identifier"}
	}
	return k.decodeRDF(subject, &reader{graph: g}, opts.IgnoreRDFType)
}

// Instances returns the subjects in g typed with any class k accepts, in
// deterministic order per class.
func (k *Kind) Instances(g rdfstore.Graph) []quad.Value {
	seen := make(map[string]bool)
	var out []quad.Value
	for _, class := range k.Classes() {
		for _, s := range rdfstore.Subjects(g, RDFType, class) {
			if key := term.Key(s); !seen[key] {
				seen[key] = true
				out = append(out, s)
			}
		}
	}
	return out
}

func (k *Kind) decodeRDF(subject quad.Value, r *reader, ignoreType bool) (Entity, error) {
	var failures []error
	for _, c := range k.children {
		e, err := c.decodeRDF(subject, r, false)
		if err == nil {
			return e, nil
		}
		if !isRejection(err) {
			return nil, err
		}
		failures = append(failures, err)
	}
	if !k.Abstract {
		e, err := k.decodeRDFExact(subject, r, !ignoreType)
		if err == nil {
			return e, nil
		}
		failures = append(failures, err)
	}
	return nil, k.noMatch(subject, failures)
}

func (k *Kind) decodeRDFExact(subject quad.Value, r *reader, checkType bool) (Entity, error) {
	if checkType {
		if err := k.checkType(subject, r); err != nil {
			return nil, err
		}
	}
	e := k.new()
	e.SetIdentifier(subject)
	for _, f := range k.Fields() {
		if err := f.ops.fromRDF(e, subject, r); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (k *Kind) checkType(subject quad.Value, r *reader) error {
	types := r.objects(subject, RDFType)
	for _, t := range types {
		if k.accepts(t) {
			return nil
		}
	}
	actual := "no type"
	if len(types) > 0 {
		keys := make([]string, len(types))
		for i, t := range types {
			keys[i] = term.Key(t)
		}
		actual = strings.Join(keys, ", ")
	}
	return &TypeMismatchError{Focus: subject, Expected: term.Key(k.Class), Actual: actual}
}

// writer emits statements into a sink under one graph label.
type writer struct {
	sink  rdfstore.Sink
	graph quad.Value
}

func (w *writer) emit(s, p, o quad.Value) error {
	return w.sink.Add(quad.Quad{Subject: s, Predicate: p, Object: o, Label: w.graph})
}

func (w *writer) entity(e Entity, skipType bool) error {
	subject := e.Identifier()
	k := e.Kind()
	if !skipType {
		if err := w.emit(subject, RDFType, k.Class); err != nil {
			return err
		}
	}
	for _, f := range k.Fields() {
		if err := f.ops.toRDF(e, subject, w); err != nil {
			return fmt.Errorf("writing %s %s: %w", k.Name, term.Key(subject), err)
		}
	}
	return nil
}

// collection writes items as an RDF list of fresh cells and returns its
// head.
func (w *writer) collection(items []quad.Value) (quad.Value, error) {
	if len(items) == 0 {
		return RDFNil, nil
	}
	cells := make([]quad.Value, len(items))
	for i := range items {
		cells[i] = term.FreshLocal()
	}
	for i, item := range items {
		rest := quad.Value(RDFNil)
		if i+1 < len(cells) {
			rest = cells[i+1]
		}
		if err := w.emit(cells[i], RDFFirst, item); err != nil {
			return nil, err
		}
		if err := w.emit(cells[i], RDFRest, rest); err != nil {
			return nil, err
		}
	}
	return cells[0], nil
}

// reader reads statements from any graph of the store.
type reader struct {
	graph rdfstore.Graph
}

// objects returns the distinct objects of (s, p), sorted so that repeated
// reads of the same store agree.
func (r *reader) objects(s, p quad.Value) []quad.Value {
	out := rdfstore.Objects(r.graph, s, p)
	sort.Slice(out, func(i, j int) bool { return term.Key(out[i]) < term.Key(out[j]) })
	return out
}

// collection walks an RDF list from head.
func (r *reader) collection(head quad.Value) ([]quad.Value, error) {
	var items []quad.Value
	visited := make(map[string]bool)
	for cell := head; !term.Equal(cell, RDFNil); {
		if !term.IsIdentifier(cell) {
			return nil, fmt.Errorf("list cell %s is not a resource", term.Key(cell))
		}
		k := term.Key(cell)
		if visited[k] {
			return nil, fmt.Errorf("list cell %s repeats", k)
		}
		visited[k] = true

		firsts := r.objects(cell, RDFFirst)
		rests := r.objects(cell, RDFRest)
		if len(firsts) != 1 || len(rests) != 1 {
			return nil, fmt.Errorf("list cell %s has %d first and %d rest values", k, len(firsts), len(rests))
		}
		items = append(items, firsts[0])
		cell = rests[0]
	}
	return items, nil
}
