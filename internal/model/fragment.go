package model

import (
	"github.com/cayleygraph/quad"

	"github.com/imlapps/sdapps-sub000/internal/query"
)

// SubjectVar is the variable bound to the focus resource of a fragment.
const SubjectVar = query.Var("s")

// Fragment returns the query fragment that retrieves a minimal instance of k
// from a larger graph: the parent's fragment without its type constraint,
// then k's own fields, then k's type constraint once. The type patterns lead
// the WHERE clause so that every optional field group joins against a bound
// subject.
func (k *Kind) Fragment() query.Fragment {
	return k.fragment(SubjectVar, true)
}

func (k *Kind) fragment(s query.Var, withType bool) query.Fragment {
	var f query.Fragment
	if k.parent != nil {
		f = k.parent.fragment(s, false)
	}
	for _, field := range k.fields {
		f.Extend(field.fragment(s))
	}
	if withType {
		tf := k.typeFragment(s)
		f.Construct = append(f.Construct, tf.Construct...)
		f.Where = append(tf.Where, f.Where...)
	}
	return f
}

// typeFragment binds s's type and restricts it to k's classes.
func (k *Kind) typeFragment(s query.Var) query.Fragment {
	t := s.Child("type")
	classes := k.Classes()
	terms := make([]quad.Value, len(classes))
	for i, c := range classes {
		terms[i] = c
	}
	return query.Fragment{
		Construct: []query.Triple{{Subject: s, Predicate: RDFType, Object: t}},
		Where: []query.Pattern{
			query.Triple{Subject: s, Predicate: RDFType, Object: t},
			query.Values{Var: t, Terms: terms},
		},
	}
}

// embeddedFragment binds an embedded value's type and the union of the
// single-level fields declared anywhere in k's subtree, all optional.
// Fields that embed further kinds are not followed.
func (k *Kind) embeddedFragment(v query.Var) query.Fragment {
	t := v.Child("type")
	f := query.Fragment{
		Construct: []query.Triple{{Subject: v, Predicate: RDFType, Object: t}},
		Where: []query.Pattern{query.Optional{Patterns: []query.Pattern{
			query.Triple{Subject: v, Predicate: RDFType, Object: t},
		}}},
	}

	seen := make(map[string]bool)
	for _, d := range k.Descendants() {
		for _, field := range d.Fields() {
			if seen[field.Name] || field.Target != nil || field.Shape == ShapePositional {
				continue
			}
			seen[field.Name] = true
			o := v.Child(field.Name)
			f.Construct = append(f.Construct, query.Triple{Subject: v, Predicate: field.Predicate, Object: o})
			f.Where = append(f.Where, query.Optional{Patterns: []query.Pattern{
				query.Triple{Subject: v, Predicate: field.Predicate, Object: o},
			}})
		}
	}
	return f
}
