package model

import (
	"github.com/cayleygraph/quad"

	"github.com/imlapps/sdapps-sub000/internal/term"
)

// Label is an identifier/label pair handed to a search index.
type Label struct {
	Identifier quad.Value
	Kind       string
	Label      string
}

// Labels flattens e and every entity or stub embedded in it into labelled
// identifiers, depth first. Entities without a name are skipped, and each
// identifier is reported once.
func Labels(e Entity) []Label {
	var out []Label
	seen := make(map[string]bool)
	var walk func(Entity)
	walk = func(cur Entity) {
		id := term.Key(cur.Identifier())
		if seen[id] {
			return
		}
		seen[id] = true
		if name, ok := nameOf(cur); ok {
			out = append(out, Label{Identifier: cur.Identifier(), Kind: cur.Kind().Name, Label: name})
		}
		for _, n := range Nested(cur) {
			walk(n)
		}
	}
	walk(e)
	return out
}

// nameOf returns the label of an entity or stub.
func nameOf(e Entity) (string, bool) {
	var name *string
	switch x := e.(type) {
	case ThingLike:
		name = x.thing().Name
	case ThingStubLike:
		name = x.thingStub().Name
	}
	if name == nil {
		return "", false
	}
	return *name, true
}
