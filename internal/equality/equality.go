// Package equality implements structural comparison for entity values.
//
// Comparisons return nil when both sides are equal, or a *Mismatch that
// identifies the first difference found. Mismatches nest: a difference in a
// list element of a nested entity reads as
//
//	author[1].name: value mismatch ("A" != "B")
//
// List comparison comes in two flavours. Ordered compares index by index.
// Unordered treats the lists as multisets: every left element must match
// some right element, which tolerates the arbitrary iteration order of a
// statement store.
package equality

import (
	"fmt"
	"strings"
	"time"

	"github.com/cayleygraph/quad"

	"github.com/imlapps/sdapps-sub000/internal/term"
)

// Reason classifies a mismatch.
type Reason int

const (
	ReasonValue Reason = iota
	ReasonIdentifier
	ReasonKind
	ReasonPresence
	ReasonLength
	ReasonElement
	ReasonProperty
)

// String returns a human readable reason.
func (r Reason) String() string {
	switch r {
	case ReasonValue:
		return "value mismatch"
	case ReasonIdentifier:
		return "identifier mismatch"
	case ReasonKind:
		return "kind mismatch"
	case ReasonPresence:
		return "presence mismatch"
	case ReasonLength:
		return "length mismatch"
	case ReasonElement:
		return "element mismatch"
	case ReasonProperty:
		return "property mismatch"
	default:
		return "unknown mismatch"
	}
}

// Mismatch is a structured inequality report.
type Mismatch struct {
	// Field names the property that differs. Empty for leaf values.
	Field string

	// Reason classifies the difference.
	Reason Reason

	// Index is the first differing element for ReasonElement, -1 otherwise.
	Index int

	// Left and Right hold the differing leaf values, when meaningful.
	Left  any
	Right any

	// Nested is the report for a nested value (property or element).
	Nested *Mismatch
}

// Error renders the mismatch path and leaf reason.
func (m *Mismatch) Error() string {
	var path strings.Builder
	leaf := m
	for cur := m; cur != nil; cur = cur.Nested {
		if cur.Field != "" {
			if path.Len() > 0 {
				path.WriteByte('.')
			}
			path.WriteString(cur.Field)
		}
		if cur.Reason == ReasonElement {
			fmt.Fprintf(&path, "[%d]", cur.Index)
		}
		leaf = cur
	}

	msg := leaf.Reason.String()
	if leaf.Left != nil || leaf.Right != nil {
		msg = fmt.Sprintf("%s (%v != %v)", msg, leaf.Left, leaf.Right)
	}
	if path.Len() == 0 {
		return msg
	}
	return path.String() + ": " + msg
}

// Path returns the property names from the outermost to the innermost report.
func (m *Mismatch) Path() []string {
	var names []string
	for cur := m; cur != nil; cur = cur.Nested {
		if cur.Field != "" {
			names = append(names, cur.Field)
		}
	}
	return names
}

// Property wraps a nested mismatch under a property name.
// It returns nil when nested is nil so callers can chain comparisons.
func Property(name string, nested *Mismatch) *Mismatch {
	if nested == nil {
		return nil
	}
	return &Mismatch{Field: name, Reason: ReasonProperty, Index: -1, Nested: nested}
}

// Func compares two values of the same type.
type Func[V any] func(a, b V) *Mismatch

// Strict compares comparable values with ==.
func Strict[V comparable](a, b V) *Mismatch {
	if a == b {
		return nil
	}
	return &Mismatch{Reason: ReasonValue, Index: -1, Left: a, Right: b}
}

// Terms compares two graph terms.
func Terms(a, b quad.Value) *Mismatch {
	if term.Equal(a, b) {
		return nil
	}
	return &Mismatch{Reason: ReasonValue, Index: -1, Left: term.Key(a), Right: term.Key(b)}
}

// Identifiers compares two entity identifiers.
func Identifiers(a, b quad.Value) *Mismatch {
	if term.Equal(a, b) {
		return nil
	}
	return &Mismatch{Reason: ReasonIdentifier, Index: -1, Left: term.Key(a), Right: term.Key(b)}
}

// Times compares two instants.
func Times(a, b time.Time) *Mismatch {
	if a.Equal(b) {
		return nil
	}
	return &Mismatch{Reason: ReasonValue, Index: -1, Left: a, Right: b}
}

// Optional compares two possibly absent values.
func Optional[V any](a, b *V, eq Func[V]) *Mismatch {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil || b == nil:
		return &Mismatch{Reason: ReasonPresence, Index: -1, Left: a != nil, Right: b != nil}
	default:
		return eq(*a, *b)
	}
}

// Ordered compares two lists position by position.
func Ordered[V any](a, b []V, eq Func[V]) *Mismatch {
	if len(a) != len(b) {
		return &Mismatch{Reason: ReasonLength, Index: -1, Left: len(a), Right: len(b)}
	}
	for i := range a {
		if m := eq(a[i], b[i]); m != nil {
			return &Mismatch{Reason: ReasonElement, Index: i, Nested: m}
		}
	}
	return nil
}

// Unordered compares two lists as multisets. For each left element it
// searches the right list for any equal element that has not been matched
// yet; the first left element without a partner is reported.
func Unordered[V any](a, b []V, eq Func[V]) *Mismatch {
	if len(a) != len(b) {
		return &Mismatch{Reason: ReasonLength, Index: -1, Left: len(a), Right: len(b)}
	}
	used := make([]bool, len(b))
	for i := range a {
		found := false
		for j := range b {
			if used[j] {
				continue
			}
			if eq(a[i], b[j]) == nil {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return &Mismatch{Reason: ReasonElement, Index: i, Nested: eq(a[i], b[i])}
		}
	}
	return nil
}

// Distinct returns vs without elements equal to an earlier one, keeping
// first occurrences in order.
func Distinct[V any](vs []V, eq Func[V]) []V {
	out := make([]V, 0, len(vs))
	for _, v := range vs {
		dup := false
		for _, kept := range out {
			if eq(v, kept) == nil {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}
