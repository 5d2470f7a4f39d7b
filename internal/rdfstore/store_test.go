package rdfstore

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice   = quad.IRI("urn:x:alice")
	bob     = quad.IRI("urn:x:bob")
	knows   = quad.IRI("http://schema.org/knows")
	name    = quad.IRI("http://schema.org/name")
	graphA  = quad.IRI("urn:graph:a")
	graphB  = quad.IRI("urn:graph:b")
	blankly = quad.BNode("b1")
)

func setupStores(t *testing.T) map[string]Store {
	t.Helper()

	b, err := OpenBadger()
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	return map[string]Store{
		"Memory": NewMemory(),
		"Badger": b,
	}
}

func seed(t *testing.T, s Store) {
	t.Helper()
	require.NoError(t, AddAll(s, []quad.Quad{
		{Subject: alice, Predicate: knows, Object: bob, Label: graphA},
		{Subject: alice, Predicate: name, Object: quad.String("Alice"), Label: graphA},
		{Subject: bob, Predicate: name, Object: quad.String("Bob"), Label: graphB},
		{Subject: blankly, Predicate: knows, Object: alice},
	}))
}

func TestStore_AddAndMatch(t *testing.T) {
	t.Parallel()

	for label, s := range setupStores(t) {
		t.Run(label, func(t *testing.T) {
			seed(t, s)
			assert.Equal(t, 4, s.Len())

			t.Run("Duplicate", func(t *testing.T) {
				require.NoError(t, s.Add(quad.Quad{Subject: alice, Predicate: knows, Object: bob, Label: graphA}))
				assert.Equal(t, 4, s.Len())
			})

			t.Run("BySubject", func(t *testing.T) {
				assert.Len(t, s.Match(alice, nil, nil, nil), 2)
			})

			t.Run("ByPredicate", func(t *testing.T) {
				assert.Len(t, s.Match(nil, knows, nil, nil), 2)
			})

			t.Run("ByObject", func(t *testing.T) {
				got := s.Match(nil, nil, alice, nil)
				require.Len(t, got, 1)
				assert.Equal(t, blankly, got[0].Subject)
			})

			t.Run("ByGraph", func(t *testing.T) {
				assert.Len(t, s.Match(nil, nil, nil, graphA), 2)
			})

			t.Run("FullyBound", func(t *testing.T) {
				assert.Len(t, s.Match(bob, name, quad.String("Bob"), nil), 1)
				assert.Empty(t, s.Match(bob, name, quad.String("Robert"), nil))
			})

			t.Run("NativeLiteralMatchesTyped", func(t *testing.T) {
				require.NoError(t, s.Add(quad.Quad{Subject: bob, Predicate: quad.IRI("urn:p:age"), Object: quad.Int(42)}))
				typed := quad.TypedString{Value: "42", Type: "http://www.w3.org/2001/XMLSchema#integer"}
				assert.Len(t, s.Match(bob, nil, typed, nil), 1)
			})
		})
	}
}

func TestStore_Remove(t *testing.T) {
	t.Parallel()

	for label, s := range setupStores(t) {
		t.Run(label, func(t *testing.T) {
			seed(t, s)

			ok, err := s.Remove(quad.Quad{Subject: alice, Predicate: knows, Object: bob, Label: graphA})
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, 3, s.Len())
			assert.Empty(t, s.Match(alice, knows, nil, nil))

			ok, err = s.Remove(quad.Quad{Subject: alice, Predicate: knows, Object: bob, Label: graphA})
			require.NoError(t, err)
			assert.False(t, ok)

			n, err := s.RemoveGraph(graphB)
			require.NoError(t, err)
			assert.Equal(t, 1, n)
			assert.Equal(t, 2, s.Len())
			assert.Empty(t, s.Match(bob, nil, nil, nil))
		})
	}
}

func TestStore_Validate(t *testing.T) {
	t.Parallel()

	for label, s := range setupStores(t) {
		t.Run(label, func(t *testing.T) {
			assert.Error(t, s.Add(quad.Quad{Subject: quad.String("x"), Predicate: name, Object: alice}))
			assert.Error(t, s.Add(quad.Quad{Subject: alice, Predicate: blankly, Object: bob}))
			assert.Error(t, s.Add(quad.Quad{Subject: alice, Predicate: name}))
			assert.Equal(t, 0, s.Len())
		})
	}
}

func TestStore_AllIsDeterministic(t *testing.T) {
	t.Parallel()

	mem := NewMemory()
	seed(t, mem)
	b, err := OpenBadger()
	require.NoError(t, err)
	defer b.Close()
	seed(t, b)

	assert.Equal(t, mem.All(), b.All())
	assert.Equal(t, mem.All(), mem.All())
}

func TestSubjectsAndObjects(t *testing.T) {
	t.Parallel()

	s := NewMemory()
	seed(t, s)

	subjects := Subjects(s, knows, nil)
	require.Len(t, subjects, 2)
	assert.Equal(t, alice, subjects[0])
	assert.Equal(t, blankly, subjects[1])

	assert.Equal(t, []quad.Value{quad.String("Alice")}, Objects(s, alice, name))
}

func TestNQuadsRoundTrip(t *testing.T) {
	t.Parallel()

	src := NewMemory()
	seed(t, src)
	require.NoError(t, src.Add(quad.Quad{
		Subject:   alice,
		Predicate: quad.IRI("http://schema.org/birthDate"),
		Object:    quad.TypedString{Value: "1990-01-01", Type: "http://www.w3.org/2001/XMLSchema#date"},
	}))

	var buf bytes.Buffer
	require.NoError(t, WriteNQuads(&buf, src.All()))
	assert.Contains(t, buf.String(), `"1990-01-01"^^<http://www.w3.org/2001/XMLSchema#date>`)

	dst := NewMemory()
	n, err := ReadNQuads(&buf, dst)
	require.NoError(t, err)
	assert.Equal(t, src.Len(), n)
	assert.Equal(t, src.All(), dst.All())
}

func TestReadNQuads_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ReadNQuads(strings.NewReader("<urn:a> <urn:b> .\n"), NewMemory())
	assert.Error(t, err)
}
