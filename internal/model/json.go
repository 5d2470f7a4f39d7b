package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/imlapps/sdapps-sub000/internal/term"
)

// ToJSON renders e as a document carrying "@id", "type" and every present
// field. Absent optional fields and empty lists are omitted.
func ToJSON(e Entity) map[string]any {
	k := e.Kind()
	doc := map[string]any{
		KeyID:   term.FormatIdentifier(e.Identifier()),
		KeyType: k.Name,
	}
	for _, f := range k.Fields() {
		if f.ops.present(e) {
			doc[f.Name] = f.ops.toJSON(e)
		}
	}
	return doc
}

// MarshalJSON encodes e as JSON bytes.
func MarshalJSON(e Entity) ([]byte, error) {
	return json.Marshal(ToJSON(e))
}

// FromJSON decodes a document as k or the most specific descendant that
// accepts it. Descendants are tried depth first in declaration order before
// k itself; the first success wins. A descendant that accepts the
// discriminator and then fails ends the chain with its error.
func (k *Kind) FromJSON(doc map[string]any) (Entity, error) {
	var failures []error
	for _, c := range k.children {
		e, err := c.FromJSON(doc)
		if err == nil {
			return e, nil
		}
		if !isRejection(err) {
			return nil, err
		}
		failures = append(failures, err)
	}
	if !k.Abstract {
		e, err := k.decodeJSONExact(doc)
		if err == nil {
			return e, nil
		}
		failures = append(failures, err)
	}
	return nil, k.noMatch(nil, failures)
}

// UnmarshalJSON parses data and decodes it with FromJSON.
func (k *Kind) UnmarshalJSON(data []byte) (Entity, error) {
	doc, err := parseDocument(data)
	if err != nil {
		return nil, &ValidationError{Kind: k.Name, Err: err}
	}
	return k.FromJSON(doc)
}

func parseDocument(data []byte) (map[string]any, error) {
	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document is not an object")
	}
	return doc, nil
}

// decodeJSONExact decodes doc as exactly k. The discriminator must name k or
// one of its descendants.
func (k *Kind) decodeJSONExact(doc map[string]any) (Entity, error) {
	typ, _ := doc[KeyType].(string)
	if !k.acceptsName(typ) {
		return nil, &TypeMismatchError{Expected: k.Name, Actual: fmt.Sprintf("%q", typ)}
	}
	if err := k.validate(doc); err != nil {
		return nil, &ValidationError{Kind: k.Name, Err: err}
	}

	e := k.new()
	if raw, ok := doc[KeyID]; ok {
		s, _ := raw.(string)
		id, err := term.ParseIdentifier(s)
		if err != nil {
			return nil, &ValidationError{Kind: k.Name, Err: err}
		}
		e.SetIdentifier(id)
	}
	for _, f := range k.Fields() {
		raw, ok := doc[f.Name]
		if !ok {
			continue
		}
		if err := f.ops.fromJSON(e, raw); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (k *Kind) acceptsName(name string) bool {
	for _, d := range k.Descendants() {
		if d.Name == name {
			return true
		}
	}
	return false
}
