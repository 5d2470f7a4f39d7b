package model

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/imlapps/sdapps-sub000/internal/equality"
	"github.com/imlapps/sdapps-sub000/internal/term"
)

// Lexical layouts for date fields.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = time.RFC3339Nano
)

// codec converts one value type between its Go, JSON and graph forms.
type codec[V any] struct {
	name     string
	schema   func() *jsonschema.Schema
	toJSON   func(V) any
	fromJSON func(any) (V, error)
	toRDF    func(V, *writer) (quad.Value, error)
	fromRDF  func(quad.Value, *reader) (V, error)
	equal    equality.Func[V]
	hash     func(*hasher, V)

	// entity and target are set for embedded entities and stubs.
	entity func(V) Entity
	target *Kind
}

func typeSchema(typ string) func() *jsonschema.Schema {
	return func() *jsonschema.Schema { return &jsonschema.Schema{Type: typ} }
}

// lexical extracts the lexical form of a literal whose datatype is one of
// want. An empty want list accepts plain and language-tagged strings.
func lexical(o quad.Value, want ...quad.IRI) (string, error) {
	l, ok := term.LiteralOf(o)
	if !ok {
		return "", fmt.Errorf("expected literal, got %s", term.TagOf(o))
	}
	if len(want) == 0 {
		if l.Datatype != "" {
			return "", fmt.Errorf("expected string literal, got datatype %s", l.Datatype)
		}
		return l.Value, nil
	}
	if !slices.Contains(want, l.Datatype) {
		return "", fmt.Errorf("unexpected datatype %q", string(l.Datatype))
	}
	return l.Value, nil
}

func typed(value string, dt quad.IRI) quad.Value {
	return quad.TypedString{Value: quad.String(value), Type: dt}
}

var stringCodec = codec[string]{
	name:   "string",
	schema: typeSchema("string"),
	toJSON: func(v string) any { return v },
	fromJSON: func(raw any) (string, error) {
		s, ok := raw.(string)
		if !ok {
			return "", fmt.Errorf("expected string, got %T", raw)
		}
		return s, nil
	},
	toRDF:   func(v string, _ *writer) (quad.Value, error) { return quad.String(v), nil },
	fromRDF: func(o quad.Value, _ *reader) (string, error) { return lexical(o) },
	equal:   equality.Strict[string],
	hash:    func(h *hasher, v string) { h.String(v) },
}

// jsonNumber accepts the numeric forms a document can carry, whether it was
// parsed from bytes or built in memory.
func jsonNumber(raw any) (float64, error) {
	switch x := raw.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	default:
		return 0, fmt.Errorf("expected number, got %T", raw)
	}
}

var integerCodec = codec[int64]{
	name:   "integer",
	schema: typeSchema("integer"),
	toJSON: func(v int64) any { return v },
	fromJSON: func(raw any) (int64, error) {
		if n, ok := raw.(json.Number); ok {
			return n.Int64()
		}
		f, err := jsonNumber(raw)
		if err != nil {
			return 0, err
		}
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("expected integer, got %v", f)
		}
		return int64(f), nil
	},
	toRDF: func(v int64, _ *writer) (quad.Value, error) {
		return typed(strconv.FormatInt(v, 10), term.XSDInteger), nil
	},
	fromRDF: func(o quad.Value, _ *reader) (int64, error) {
		s, err := lexical(o, term.XSDInteger)
		if err != nil {
			return 0, err
		}
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	},
	equal: equality.Strict[int64],
	hash:  func(h *hasher, v int64) { h.String(strconv.FormatInt(v, 10)) },
}

var floatCodec = codec[float64]{
	name:     "number",
	schema:   typeSchema("number"),
	toJSON:   func(v float64) any { return v },
	fromJSON: jsonNumber,
	toRDF: func(v float64, _ *writer) (quad.Value, error) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("cannot encode %v", v)
		}
		return typed(strconv.FormatFloat(v, 'g', -1, 64), term.XSDDouble), nil
	},
	fromRDF: func(o quad.Value, _ *reader) (float64, error) {
		s, err := lexical(o, term.XSDDouble, term.XSDDecimal, term.XSDInteger)
		if err != nil {
			return 0, err
		}
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	},
	equal: equality.Strict[float64],
	hash:  func(h *hasher, v float64) { h.String(strconv.FormatFloat(v, 'g', -1, 64)) },
}

var boolCodec = codec[bool]{
	name:   "boolean",
	schema: typeSchema("boolean"),
	toJSON: func(v bool) any { return v },
	fromJSON: func(raw any) (bool, error) {
		b, ok := raw.(bool)
		if !ok {
			return false, fmt.Errorf("expected boolean, got %T", raw)
		}
		return b, nil
	},
	toRDF: func(v bool, _ *writer) (quad.Value, error) {
		return typed(strconv.FormatBool(v), term.XSDBoolean), nil
	},
	fromRDF: func(o quad.Value, _ *reader) (bool, error) {
		s, err := lexical(o, term.XSDBoolean)
		if err != nil {
			return false, err
		}
		return strconv.ParseBool(s)
	},
	equal: equality.Strict[bool],
	hash:  func(h *hasher, v bool) { h.String(strconv.FormatBool(v)) },
}

// timeCodec handles date and date-time fields. Date fields compare and hash
// by calendar day; date-time fields by instant.
func timeCodec(name, layout, format string, dt quad.IRI) codec[time.Time] {
	parse := func(s string) (time.Time, error) {
		t, err := time.Parse(layout, strings.TrimSpace(s))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid ISO-8601 %s %q", name, s)
		}
		return t, nil
	}
	canonical := func(t time.Time) string {
		if layout == DateLayout {
			return t.Format(DateLayout)
		}
		return t.UTC().Format(DateTimeLayout)
	}
	return codec[time.Time]{
		name: name,
		schema: func() *jsonschema.Schema {
			return &jsonschema.Schema{Type: "string", Format: format}
		},
		toJSON: func(t time.Time) any { return t.Format(layout) },
		fromJSON: func(raw any) (time.Time, error) {
			s, ok := raw.(string)
			if !ok {
				return time.Time{}, fmt.Errorf("expected %s string, got %T", name, raw)
			}
			return parse(s)
		},
		toRDF: func(t time.Time, _ *writer) (quad.Value, error) {
			return typed(t.Format(layout), dt), nil
		},
		fromRDF: func(o quad.Value, _ *reader) (time.Time, error) {
			s, err := lexical(o, dt)
			if err != nil {
				return time.Time{}, err
			}
			return parse(s)
		},
		equal: func(a, b time.Time) *equality.Mismatch {
			if layout == DateLayout {
				return equality.Strict(canonical(a), canonical(b))
			}
			return equality.Times(a, b)
		},
		hash: func(h *hasher, t time.Time) {
			if layout == DateLayout {
				h.String(canonical(t))
				return
			}
			h.Time(t, DateTimeLayout)
		},
	}
}

var (
	dateCodec     = timeCodec("date", DateLayout, "date", term.XSDDate)
	dateTimeCodec = timeCodec("date-time", DateTimeLayout, "date-time", term.XSDDateTime)
)

var iriCodec = codec[quad.IRI]{
	name:   "IRI",
	schema: typeSchema("string"),
	toJSON: func(v quad.IRI) any { return string(v) },
	fromJSON: func(raw any) (quad.IRI, error) {
		s, ok := raw.(string)
		if !ok || s == "" {
			return "", fmt.Errorf("expected IRI string, got %v", raw)
		}
		if strings.HasPrefix(s, term.LocalPrefix) {
			return "", fmt.Errorf("expected IRI, got local reference %q", s)
		}
		return quad.IRI(s), nil
	},
	toRDF: func(v quad.IRI, _ *writer) (quad.Value, error) { return v, nil },
	fromRDF: func(o quad.Value, _ *reader) (quad.IRI, error) {
		iri, ok := o.(quad.IRI)
		if !ok {
			return "", fmt.Errorf("expected IRI, got %s", term.TagOf(o))
		}
		return iri.Full(), nil
	},
	equal: func(a, b quad.IRI) *equality.Mismatch { return equality.Terms(a, b) },
	hash:  func(h *hasher, v quad.IRI) { h.Term(v) },
}

// refCodec handles bare references rendered as {"@id": ...} in JSON and as
// the identifier term in the graph. The referenced resource is not read.
var refCodec = codec[quad.Value]{
	name: "reference",
	schema: func() *jsonschema.Schema {
		return &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{KeyID: {Type: "string"}},
			Required:   []string{KeyID},
		}
	},
	toJSON: func(v quad.Value) any { return map[string]any{KeyID: term.FormatIdentifier(v)} },
	fromJSON: func(raw any) (quad.Value, error) {
		doc, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected reference object, got %T", raw)
		}
		s, _ := doc[KeyID].(string)
		return term.ParseIdentifier(s)
	},
	toRDF: func(v quad.Value, _ *writer) (quad.Value, error) {
		if !term.IsIdentifier(v) {
			return nil, fmt.Errorf("reference %v is not an identifier", v)
		}
		return v, nil
	},
	fromRDF: func(o quad.Value, _ *reader) (quad.Value, error) {
		if !term.IsIdentifier(o) {
			return nil, fmt.Errorf("expected identifier, got %s", term.TagOf(o))
		}
		return o, nil
	},
	equal: equality.Terms,
	hash:  func(h *hasher, v quad.Value) { h.Term(v) },
}

// enumCodec handles a closed set of named terms. Members render as their
// local name in JSON and as schema.org IRIs in the graph.
func enumCodec[V ~string](kind string, members ...V) codec[V] {
	names := make([]any, len(members))
	for i, m := range members {
		names[i] = string(m)
	}
	member := func(s string) (V, bool) {
		for _, m := range members {
			if string(m) == s {
				return m, true
			}
		}
		return "", false
	}
	return codec[V]{
		name:   kind,
		schema: func() *jsonschema.Schema { return &jsonschema.Schema{Type: "string", Enum: names} },
		toJSON: func(v V) any { return string(v) },
		fromJSON: func(raw any) (V, error) {
			s, _ := raw.(string)
			v, ok := member(s)
			if !ok {
				return "", &TypeMismatchError{Expected: kind, Actual: fmt.Sprint(raw)}
			}
			return v, nil
		},
		toRDF: func(v V, _ *writer) (quad.Value, error) { return schemaIRI(string(v)), nil },
		fromRDF: func(o quad.Value, _ *reader) (V, error) {
			iri, ok := o.(quad.IRI)
			if ok {
				if v, ok := member(strings.TrimPrefix(string(iri.Full()), SchemaNS)); ok && strings.HasPrefix(string(iri.Full()), SchemaNS) {
					return v, nil
				}
			}
			return "", &TypeMismatchError{Focus: o, Expected: kind, Actual: term.Key(o)}
		},
		equal: equality.Strict[V],
		hash:  func(h *hasher, v V) { h.String(string(v)) },
	}
}

// embedded decodes exactly kind k: the value type is a concrete pointer.
func embedded[V Entity](k *Kind) codec[V] {
	return entityCodec[V](k, false)
}

// polymorphic decodes through k's fallback chain: the value type is the
// closed union of k's subtree.
func polymorphic[V Entity](k *Kind) codec[V] {
	return entityCodec[V](k, true)
}

func entityCodec[V Entity](k *Kind, chain bool) codec[V] {
	cast := func(e Entity) (V, error) {
		v, ok := e.(V)
		if !ok {
			var zero V
			return zero, &TypeMismatchError{Focus: e.Identifier(), Expected: k.Name, Actual: e.Kind().Name}
		}
		return v, nil
	}
	return codec[V]{
		name:   k.Name,
		schema: typeSchema("object"),
		toJSON: func(v V) any { return ToJSON(v) },
		fromJSON: func(raw any) (V, error) {
			doc, ok := raw.(map[string]any)
			if !ok {
				var zero V
				return zero, fmt.Errorf("expected %s object, got %T", k.Name, raw)
			}
			var e Entity
			var err error
			if chain {
				e, err = k.FromJSON(doc)
			} else {
				e, err = k.decodeJSONExact(doc)
			}
			if err != nil {
				var zero V
				return zero, err
			}
			return cast(e)
		},
		toRDF: func(v V, w *writer) (quad.Value, error) {
			if err := w.entity(v, false); err != nil {
				return nil, err
			}
			return v.Identifier(), nil
		},
		fromRDF: func(o quad.Value, r *reader) (V, error) {
			var zero V
			if !term.IsIdentifier(o) {
				return zero, fmt.Errorf("expected %s resource, got %s", k.Name, term.TagOf(o))
			}
			var e Entity
			var err error
			if chain {
				e, err = k.decodeRDF(o, r, false)
			} else {
				e, err = k.decodeRDFExact(o, r, true)
			}
			if err != nil {
				return zero, err
			}
			return cast(e)
		},
		equal:  func(a, b V) *equality.Mismatch { return Equal(a, b) },
		hash:   func(h *hasher, v V) { hashEntity(h, v, true) },
		entity: func(v V) Entity { return v },
		target: k,
	}
}
