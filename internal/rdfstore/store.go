// Package rdfstore provides the in-memory statement stores that entity
// serializers write into and deserializers read from.
//
// Two implementations share the Store interface: Memory, a map-backed store
// with subject/predicate/object/graph secondary indexes, and Badger, the same
// statement set kept in an in-memory badger database under ordered SPO, POS
// and OSP keys. Neither persists anything to disk.
package rdfstore

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/imlapps/sdapps-sub000/internal/term"
)

// Graph is the read side of a statement store.
type Graph interface {
	// Match returns every statement matching the pattern. A nil position is
	// a wildcard; a nil graph label matches statements in any graph.
	Match(s, p, o, g quad.Value) []quad.Quad
}

// Sink is the write side of a statement store.
type Sink interface {
	// Add inserts a statement. Adding a statement twice is a no-op.
	Add(q quad.Quad) error
}

// Store is a mutable statement set.
//
// Implementations are safe for concurrent use, but callers that serialize a
// batch of entities should still write from a single goroutine so that the
// batch lands atomically from the readers' point of view.
type Store interface {
	Graph
	Sink

	// Remove deletes a statement. Returns true if it existed.
	Remove(q quad.Quad) (bool, error)

	// RemoveGraph deletes every statement in the named graph.
	// Returns the number of statements removed.
	RemoveGraph(g quad.Value) (int, error)

	// Len returns the number of statements.
	Len() int

	// All returns every statement in a deterministic order.
	All() []quad.Quad

	// Close releases the store.
	Close() error
}

// Subjects returns the distinct subjects of statements matching (p, o),
// in deterministic order.
func Subjects(g Graph, p, o quad.Value) []quad.Value {
	seen := make(map[string]quad.Value)
	for _, q := range g.Match(nil, p, o, nil) {
		seen[term.Key(q.Subject)] = q.Subject
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]quad.Value, 0, len(keys))
	for _, k := range keys {
		out = append(out, seen[k])
	}
	return out
}

// Objects returns the objects of statements matching (s, p) in any graph.
func Objects(g Graph, s, p quad.Value) []quad.Value {
	quads := g.Match(s, p, nil, nil)
	out := make([]quad.Value, 0, len(quads))
	seen := make(map[string]bool, len(quads))
	for _, q := range quads {
		k := term.Key(q.Object)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, q.Object)
	}
	return out
}

// AddAll inserts every statement, stopping at the first error.
func AddAll(s Sink, quads []quad.Quad) error {
	for _, q := range quads {
		if err := s.Add(q); err != nil {
			return err
		}
	}
	return nil
}

// validate checks the positions of a statement before it is stored.
func validate(q quad.Quad) error {
	if !term.IsIdentifier(q.Subject) {
		return fmt.Errorf("invalid statement subject %v", q.Subject)
	}
	if term.TagOf(q.Predicate) != term.TagIRI {
		return fmt.Errorf("invalid statement predicate %v", q.Predicate)
	}
	if term.TagOf(q.Object) == term.TagInvalid {
		return fmt.Errorf("invalid statement object %v", q.Object)
	}
	if q.Label != nil && !term.IsIdentifier(q.Label) {
		return fmt.Errorf("invalid statement graph %v", q.Label)
	}
	return nil
}

// statementKey is the canonical identity of a statement.
func statementKey(q quad.Quad) string {
	return strings.Join([]string{
		term.Key(q.Subject),
		term.Key(q.Predicate),
		term.Key(q.Object),
		term.Key(q.Label),
	}, " ")
}

// matches reports whether q fits the pattern.
func matches(q quad.Quad, s, p, o, g quad.Value) bool {
	if s != nil && term.Key(q.Subject) != term.Key(s) {
		return false
	}
	if p != nil && term.Key(q.Predicate) != term.Key(p) {
		return false
	}
	if o != nil && term.Key(q.Object) != term.Key(o) {
		return false
	}
	if g != nil && term.Key(q.Label) != term.Key(g) {
		return false
	}
	return true
}

func sortQuads(quads []quad.Quad) {
	sort.Slice(quads, func(i, j int) bool {
		return statementKey(quads[i]) < statementKey(quads[j])
	})
}
