package rdfstore

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cayleygraph/quad"
	"github.com/dgraph-io/badger/v4"

	"github.com/imlapps/sdapps-sub000/internal/term"
)

// Key prefixes for the three statement orderings.
const (
	prefixSPO = "spo\x00"
	prefixPOS = "pos\x00"
	prefixOSP = "osp\x00"
	keySep    = "\x00"
)

// Badger is a statement store kept in an in-memory badger database.
//
// Every statement is written under three ordered keys so that any pattern
// with a bound subject, predicate or object is answered by a prefix scan.
// The SPO entry carries the statement record; POS and OSP entries point back
// to it.
type Badger struct {
	mu    sync.RWMutex
	db    *badger.DB
	count int
}

// OpenBadger creates an empty in-memory badger store.
func OpenBadger() (*Badger, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithNumCompactors(2).
		WithLoggingLevel(badger.ERROR) // Suppress INFO/WARNING logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger DB: %w", err)
	}
	return &Badger{db: db}, nil
}

// termRecord is the serialized form of a term.
type termRecord struct {
	Tag      string `json:"t"`
	Value    string `json:"v"`
	Lang     string `json:"l,omitempty"`
	Datatype string `json:"d,omitempty"`
}

// statementRecord is the serialized form of a statement.
type statementRecord struct {
	Subject   termRecord  `json:"s"`
	Predicate termRecord  `json:"p"`
	Object    termRecord  `json:"o"`
	Graph     *termRecord `json:"g,omitempty"`
}

func encodeTerm(v quad.Value) termRecord {
	switch x := v.(type) {
	case quad.IRI:
		return termRecord{Tag: term.TagIRI.String(), Value: string(x.Full())}
	case quad.BNode:
		return termRecord{Tag: term.TagLocal.String(), Value: string(x)}
	default:
		l, _ := term.LiteralOf(v)
		return termRecord{Tag: term.TagLiteral.String(), Value: l.Value, Lang: l.Lang, Datatype: string(l.Datatype)}
	}
}

func decodeTerm(r termRecord) (quad.Value, error) {
	switch r.Tag {
	case term.TagIRI.String():
		return quad.IRI(r.Value), nil
	case term.TagLocal.String():
		return quad.BNode(r.Value), nil
	case term.TagLiteral.String():
		return term.Literal{Value: r.Value, Lang: r.Lang, Datatype: quad.IRI(r.Datatype)}.Term(), nil
	default:
		return nil, fmt.Errorf("unknown term tag %q", r.Tag)
	}
}

func encodeStatement(q quad.Quad) ([]byte, error) {
	rec := statementRecord{
		Subject:   encodeTerm(q.Subject),
		Predicate: encodeTerm(q.Predicate),
		Object:    encodeTerm(q.Object),
	}
	if q.Label != nil {
		g := encodeTerm(q.Label)
		rec.Graph = &g
	}
	return json.Marshal(rec)
}

func decodeStatement(data []byte) (quad.Quad, error) {
	var rec statementRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return quad.Quad{}, fmt.Errorf("unmarshaling statement: %w", err)
	}
	var q quad.Quad
	var err error
	if q.Subject, err = decodeTerm(rec.Subject); err != nil {
		return quad.Quad{}, err
	}
	if q.Predicate, err = decodeTerm(rec.Predicate); err != nil {
		return quad.Quad{}, err
	}
	if q.Object, err = decodeTerm(rec.Object); err != nil {
		return quad.Quad{}, err
	}
	if rec.Graph != nil {
		if q.Label, err = decodeTerm(*rec.Graph); err != nil {
			return quad.Quad{}, err
		}
	}
	return q, nil
}

// keys returns the SPO, POS and OSP keys of a statement.
func keys(q quad.Quad) (spo, pos, osp []byte) {
	s, p, o, g := term.Key(q.Subject), term.Key(q.Predicate), term.Key(q.Object), term.Key(q.Label)
	spo = []byte(prefixSPO + s + keySep + p + keySep + o + keySep + g)
	pos = []byte(prefixPOS + p + keySep + o + keySep + s + keySep + g)
	osp = []byte(prefixOSP + o + keySep + s + keySep + p + keySep + g)
	return spo, pos, osp
}

// Add implements Sink.
func (b *Badger) Add(q quad.Quad) error {
	if err := validate(q); err != nil {
		return err
	}
	data, err := encodeStatement(q)
	if err != nil {
		return fmt.Errorf("marshaling statement: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	spo, pos, osp := keys(q)
	added := false
	err = b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(spo); err == nil {
			return nil
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		if err := txn.Set(spo, data); err != nil {
			return err
		}
		if err := txn.Set(pos, spo); err != nil {
			return err
		}
		added = true
		return txn.Set(osp, spo)
	})
	if err != nil {
		return fmt.Errorf("setting statement: %w", err)
	}
	if added {
		b.count++
	}
	return nil
}

// Remove implements Store.
func (b *Badger) Remove(q quad.Quad) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.removeLocked(q)
}

func (b *Badger) removeLocked(q quad.Quad) (bool, error) {
	spo, pos, osp := keys(q)
	removed := false
	err := b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(spo); err == badger.ErrKeyNotFound {
			return nil
		} else if err != nil {
			return err
		}
		for _, k := range [][]byte{spo, pos, osp} {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		removed = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("deleting statement: %w", err)
	}
	if removed {
		b.count--
	}
	return removed, nil
}

// RemoveGraph implements Store.
func (b *Badger) RemoveGraph(g quad.Value) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var victims []quad.Quad
	for _, q := range b.scanLocked([]byte(prefixSPO)) {
		if term.Key(q.Label) == term.Key(g) {
			victims = append(victims, q)
		}
	}
	n := 0
	for _, q := range victims {
		ok, err := b.removeLocked(q)
		if err != nil {
			return n, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// Match implements Graph.
func (b *Badger) Match(s, p, o, g quad.Value) []quad.Quad {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var prefix string
	switch {
	case s != nil && p != nil:
		prefix = prefixSPO + term.Key(s) + keySep + term.Key(p) + keySep
	case s != nil:
		prefix = prefixSPO + term.Key(s) + keySep
	case p != nil && o != nil:
		prefix = prefixPOS + term.Key(p) + keySep + term.Key(o) + keySep
	case p != nil:
		prefix = prefixPOS + term.Key(p) + keySep
	case o != nil:
		prefix = prefixOSP + term.Key(o) + keySep
	default:
		prefix = prefixSPO
	}

	var result []quad.Quad
	for _, q := range b.scanLocked([]byte(prefix)) {
		if matches(q, s, p, o, g) {
			result = append(result, q)
		}
	}
	return result
}

// scanLocked returns the statements under a key prefix, following POS/OSP
// pointers back to their SPO record. Must be called with the lock held.
func (b *Badger) scanLocked(prefix []byte) []quad.Quad {
	var result []quad.Quad
	_ = b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		pointer := string(prefix[:4]) != prefixSPO
		for it.Rewind(); it.Valid(); it.Next() {
			val, err := it.Item().ValueCopy(nil)
			if err != nil {
				continue
			}
			if pointer {
				item, err := txn.Get(val)
				if err != nil {
					continue
				}
				if val, err = item.ValueCopy(nil); err != nil {
					continue
				}
			}
			q, err := decodeStatement(val)
			if err != nil {
				continue
			}
			result = append(result, q)
		}
		return nil
	})
	return result
}

// Len implements Store.
func (b *Badger) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// All implements Store.
func (b *Badger) All() []quad.Quad {
	b.mu.RLock()
	result := b.scanLocked([]byte(prefixSPO))
	b.mu.RUnlock()

	sortQuads(result)
	return result
}

// Close implements Store.
func (b *Badger) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	b.count = 0
	return err
}
