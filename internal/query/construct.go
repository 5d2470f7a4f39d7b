package query

import (
	"sort"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/imlapps/sdapps-sub000/internal/term"
)

const rdfNS = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

// RDF collection vocabulary.
const (
	rdfFirst = quad.IRI(rdfNS + "first")
	rdfRest  = quad.IRI(rdfNS + "rest")
	rdfNil   = quad.IRI(rdfNS + "nil")
)

// Graph is the read interface Construct evaluates against.
type Graph interface {
	Match(s, p, o, g quad.Value) []quad.Quad
}

// Binding maps variables to terms.
type Binding map[Var]quad.Value

func (b Binding) clone() Binding {
	out := make(Binding, len(b)+2)
	for k, v := range b {
		out[k] = v
	}
	return out
}

func (b Binding) resolve(v quad.Value) quad.Value {
	if x, ok := v.(Var); ok {
		return b[x]
	}
	return v
}

// evaluator carries the statements copied verbatim into the result, such as
// the cells of a matched collection.
type evaluator struct {
	graph Graph
	extra []quad.Quad
}

// Select evaluates the WHERE patterns and returns every solution.
func Select(g Graph, f Fragment) []Binding {
	ev := &evaluator{graph: g}
	return ev.eval(f.Where, []Binding{{}})
}

// Construct evaluates the fragment and instantiates its template for every
// solution. Template triples with an unbound variable are skipped. The
// result is de-duplicated and sorted.
func Construct(g Graph, f Fragment) []quad.Quad {
	ev := &evaluator{graph: g}
	solutions := ev.eval(f.Where, []Binding{{}})

	seen := make(map[string]bool)
	var out []quad.Quad
	emit := func(q quad.Quad) {
		k := quadKey(q)
		if seen[k] {
			return
		}
		seen[k] = true
		out = append(out, q)
	}

	for _, sol := range solutions {
		for _, t := range f.Construct {
			s, p, o := sol.resolve(t.Subject), sol.resolve(t.Predicate), sol.resolve(t.Object)
			if s == nil || p == nil || o == nil {
				continue
			}
			emit(quad.Quad{Subject: s, Predicate: p, Object: o})
		}
	}
	for _, q := range ev.extra {
		emit(quad.Quad{Subject: q.Subject, Predicate: q.Predicate, Object: q.Object})
	}

	sort.Slice(out, func(i, j int) bool { return quadKey(out[i]) < quadKey(out[j]) })
	return out
}

func (ev *evaluator) eval(ps []Pattern, in []Binding) []Binding {
	cur := in
	for _, p := range ps {
		if len(cur) == 0 {
			return nil
		}
		var next []Binding
		switch x := p.(type) {
		case Triple:
			for _, b := range cur {
				next = append(next, ev.matchTriple(x, b)...)
			}
		case Optional:
			for _, b := range cur {
				got := ev.eval(x.Patterns, []Binding{b})
				if len(got) == 0 {
					next = append(next, b)
					continue
				}
				next = append(next, got...)
			}
		case Values:
			allowed := make(map[string]bool, len(x.Terms))
			for _, v := range x.Terms {
				allowed[term.Key(v)] = true
			}
			for _, b := range cur {
				if v, ok := b[x.Var]; ok {
					if allowed[term.Key(v)] {
						next = append(next, b)
					}
					continue
				}
				for _, v := range x.Terms {
					nb := b.clone()
					nb[x.Var] = v
					next = append(next, nb)
				}
			}
		case Collection:
			for _, b := range cur {
				next = append(next, ev.walkCollection(x, b)...)
			}
		}
		cur = next
	}
	return cur
}

func (ev *evaluator) matchTriple(t Triple, b Binding) []Binding {
	s, p, o := b.resolve(t.Subject), b.resolve(t.Predicate), b.resolve(t.Object)
	var out []Binding
	for _, q := range ev.graph.Match(s, p, o, nil) {
		nb := b.clone()
		if !bind(nb, t.Subject, q.Subject) || !bind(nb, t.Predicate, q.Predicate) || !bind(nb, t.Object, q.Object) {
			continue
		}
		out = append(out, nb)
	}
	return out
}

// bind records v for a variable position, failing if the variable already
// holds a different term (the same variable twice in one triple).
func bind(b Binding, pos, v quad.Value) bool {
	x, ok := pos.(Var)
	if !ok {
		return true
	}
	if cur, ok := b[x]; ok {
		return term.Equal(cur, v)
	}
	b[x] = v
	return true
}

// walkCollection follows rdf:first/rdf:rest from the bound head. A
// malformed or cyclic list stops the walk at the last good cell.
func (ev *evaluator) walkCollection(c Collection, b Binding) []Binding {
	head := b.resolve(c.Head)
	if head == nil {
		return nil
	}
	var out []Binding
	visited := make(map[string]bool)
	for cell := head; cell != nil && !term.Equal(cell, rdfNil); {
		k := term.Key(cell)
		if visited[k] {
			break
		}
		visited[k] = true

		firsts := ev.graph.Match(cell, rdfFirst, nil, nil)
		rests := ev.graph.Match(cell, rdfRest, nil, nil)
		if len(firsts) != 1 || len(rests) != 1 {
			break
		}
		ev.extra = append(ev.extra, firsts[0], rests[0])

		nb := b.clone()
		if bind(nb, c.Item, firsts[0].Object) {
			out = append(out, nb)
		}
		cell = rests[0].Object
	}
	return out
}

func quadKey(q quad.Quad) string {
	return strings.Join([]string{term.Key(q.Subject), term.Key(q.Predicate), term.Key(q.Object)}, " ")
}

