// Package query describes graph patterns that retrieve a minimal instance of
// an entity kind from a larger statement set.
//
// A Fragment pairs CONSTRUCT template triples with WHERE patterns. Patterns
// are a closed set: Triple, Optional, Values and Collection. The package does
// not implement a query language; Fragment.String renders SPARQL-like text for
// inspection and Construct evaluates a fragment directly against a Graph.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cayleygraph/quad"

	"github.com/imlapps/sdapps-sub000/internal/term"
)

// Var is a query variable. It satisfies quad.Value so that variables and
// constant terms can share triple positions.
type Var string

// String renders the variable as ?name.
func (v Var) String() string { return "?" + string(v) }

// Native returns nil; a variable has no native value.
func (v Var) Native() interface{} { return nil }

// Child derives a variable name scoped under v.
func (v Var) Child(name string) Var { return Var(string(v) + "_" + name) }

// Pattern is one element of a WHERE clause.
type Pattern interface {
	isPattern()
}

// Triple is a statement pattern. Any position may be a Var.
type Triple struct {
	Subject   quad.Value
	Predicate quad.Value
	Object    quad.Value
}

// Optional wraps a group that may fail to match without failing the
// enclosing pattern.
type Optional struct {
	Patterns []Pattern
}

// Values restricts a variable to a fixed set of terms.
type Values struct {
	Var   Var
	Terms []quad.Value
}

// Collection walks an RDF list starting at Head and binds Item to each
// member in list order.
type Collection struct {
	Head quad.Value
	Item Var
}

func (Triple) isPattern()     {}
func (Optional) isPattern()   {}
func (Values) isPattern()     {}
func (Collection) isPattern() {}

// Fragment is a CONSTRUCT template plus the WHERE patterns that bind it.
type Fragment struct {
	Construct []Triple
	Where     []Pattern
}

// Extend appends other's template and patterns to f.
func (f *Fragment) Extend(other Fragment) {
	f.Construct = append(f.Construct, other.Construct...)
	f.Where = append(f.Where, other.Where...)
}

// Vars returns every variable mentioned by the fragment, sorted.
func (f Fragment) Vars() []Var {
	seen := make(map[Var]bool)
	add := func(vs ...quad.Value) {
		for _, v := range vs {
			if x, ok := v.(Var); ok {
				seen[x] = true
			}
		}
	}
	for _, t := range f.Construct {
		add(t.Subject, t.Predicate, t.Object)
	}
	var walk func([]Pattern)
	walk = func(ps []Pattern) {
		for _, p := range ps {
			switch x := p.(type) {
			case Triple:
				add(x.Subject, x.Predicate, x.Object)
			case Optional:
				walk(x.Patterns)
			case Values:
				seen[x.Var] = true
			case Collection:
				add(x.Head, x.Item)
			}
		}
	}
	walk(f.Where)

	out := make([]Var, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// String renders the fragment as SPARQL-like CONSTRUCT text.
func (f Fragment) String() string {
	var b strings.Builder
	b.WriteString("CONSTRUCT {\n")
	for _, t := range f.Construct {
		fmt.Fprintf(&b, "  %s\n", t.render())
	}
	b.WriteString("} WHERE {\n")
	writePatterns(&b, f.Where, 1)
	b.WriteString("}\n")
	return b.String()
}

func writePatterns(b *strings.Builder, ps []Pattern, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, p := range ps {
		switch x := p.(type) {
		case Triple:
			fmt.Fprintf(b, "%s%s\n", indent, x.render())
		case Optional:
			fmt.Fprintf(b, "%sOPTIONAL {\n", indent)
			writePatterns(b, x.Patterns, depth+1)
			fmt.Fprintf(b, "%s}\n", indent)
		case Values:
			terms := make([]string, len(x.Terms))
			for i, v := range x.Terms {
				terms[i] = render(v)
			}
			fmt.Fprintf(b, "%sVALUES %s { %s }\n", indent, x.Var, strings.Join(terms, " "))
		case Collection:
			fmt.Fprintf(b, "%s%s <%s>*/<%s> %s .\n", indent, render(x.Head), rdfRest, rdfFirst, x.Item)
		}
	}
}

func (t Triple) render() string {
	return fmt.Sprintf("%s %s %s .", render(t.Subject), render(t.Predicate), render(t.Object))
}

func render(v quad.Value) string {
	if x, ok := v.(Var); ok {
		return x.String()
	}
	return term.Key(v)
}
