package rdfstore

import (
	"sync"

	"github.com/cayleygraph/quad"

	"github.com/imlapps/sdapps-sub000/internal/term"
)

// Memory is a map-backed statement store.
//
// Statements are keyed by their canonical form; secondary indexes on
// subject, predicate, object and graph keep pattern lookups proportional to
// the smallest matching index instead of the whole store.
type Memory struct {
	mu    sync.RWMutex
	quads map[string]quad.Quad

	// Secondary indexes, kept in sync by add/remove helpers.
	bySubject   map[string]map[string]struct{}
	byPredicate map[string]map[string]struct{}
	byObject    map[string]map[string]struct{}
	byGraph     map[string]map[string]struct{}
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{
		quads:       make(map[string]quad.Quad),
		bySubject:   make(map[string]map[string]struct{}),
		byPredicate: make(map[string]map[string]struct{}),
		byObject:    make(map[string]map[string]struct{}),
		byGraph:     make(map[string]map[string]struct{}),
	}
}

// Add implements Sink.
func (m *Memory) Add(q quad.Quad) error {
	if err := validate(q); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := statementKey(q)
	if _, ok := m.quads[key]; ok {
		return nil
	}
	m.quads[key] = q
	index(m.bySubject, term.Key(q.Subject), key)
	index(m.byPredicate, term.Key(q.Predicate), key)
	index(m.byObject, term.Key(q.Object), key)
	index(m.byGraph, term.Key(q.Label), key)
	return nil
}

// Remove implements Store.
func (m *Memory) Remove(q quad.Quad) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(statementKey(q)), nil
}

// RemoveGraph implements Store.
func (m *Memory) RemoveGraph(g quad.Value) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.byGraph[term.Key(g)]))
	for k := range m.byGraph[term.Key(g)] {
		keys = append(keys, k)
	}
	for _, k := range keys {
		m.removeLocked(k)
	}
	return len(keys), nil
}

// Match implements Graph.
func (m *Memory) Match(s, p, o, g quad.Value) []quad.Quad {
	m.mu.RLock()
	defer m.mu.RUnlock()

	candidates := m.candidatesLocked(s, p, o, g)
	var result []quad.Quad
	if candidates == nil {
		result = make([]quad.Quad, 0, len(m.quads))
		for _, q := range m.quads {
			if matches(q, s, p, o, g) {
				result = append(result, q)
			}
		}
		return result
	}

	result = make([]quad.Quad, 0, len(candidates))
	for k := range candidates {
		q := m.quads[k]
		if matches(q, s, p, o, g) {
			result = append(result, q)
		}
	}
	return result
}

// Len implements Store.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.quads)
}

// All implements Store.
func (m *Memory) All() []quad.Quad {
	m.mu.RLock()
	result := make([]quad.Quad, 0, len(m.quads))
	for _, q := range m.quads {
		result = append(result, q)
	}
	m.mu.RUnlock()

	sortQuads(result)
	return result
}

// Close implements Store.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quads = make(map[string]quad.Quad)
	m.bySubject = make(map[string]map[string]struct{})
	m.byPredicate = make(map[string]map[string]struct{})
	m.byObject = make(map[string]map[string]struct{})
	m.byGraph = make(map[string]map[string]struct{})
	return nil
}

// candidatesLocked picks the smallest index bucket among the bound
// positions, or nil when nothing is bound. Must be called with the lock held.
func (m *Memory) candidatesLocked(s, p, o, g quad.Value) map[string]struct{} {
	var best map[string]struct{}
	bound := false
	consider := func(idx map[string]map[string]struct{}, v quad.Value) {
		if v == nil {
			return
		}
		bucket := idx[term.Key(v)]
		if !bound || len(bucket) < len(best) {
			best = bucket
		}
		bound = true
	}
	consider(m.bySubject, s)
	consider(m.byPredicate, p)
	consider(m.byObject, o)
	consider(m.byGraph, g)

	if !bound {
		return nil
	}
	if best == nil {
		return map[string]struct{}{}
	}
	return best
}

// removeLocked drops a statement and its index entries.
// Must be called with the write lock held.
func (m *Memory) removeLocked(key string) bool {
	q, ok := m.quads[key]
	if !ok {
		return false
	}
	delete(m.quads, key)
	unindex(m.bySubject, term.Key(q.Subject), key)
	unindex(m.byPredicate, term.Key(q.Predicate), key)
	unindex(m.byObject, term.Key(q.Object), key)
	unindex(m.byGraph, term.Key(q.Label), key)
	return true
}

func index(idx map[string]map[string]struct{}, k, key string) {
	if idx[k] == nil {
		idx[k] = make(map[string]struct{})
	}
	idx[k][key] = struct{}{}
}

func unindex(idx map[string]map[string]struct{}, k, key string) {
	bucket, ok := idx[k]
	if !ok {
		return
	}
	delete(bucket, key)
	if len(bucket) == 0 {
		delete(idx, k)
	}
}
