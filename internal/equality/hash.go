package equality

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"time"

	"github.com/cayleygraph/quad"

	"github.com/imlapps/sdapps-sub000/internal/term"
)

// Hasher feeds canonical value representations into a SHA-256 digest.
// Every write is length-prefixed so that adjacent fields cannot run into
// each other ("ab","c" and "a","bc" hash differently).
type Hasher struct {
	h   hash.Hash
	buf [binary.MaxVarintLen64]byte
}

// NewHasher creates a hasher over a fresh SHA-256 state.
func NewHasher() *Hasher {
	return &Hasher{h: sha256.New()}
}

// String feeds a string.
func (h *Hasher) String(s string) {
	n := binary.PutUvarint(h.buf[:], uint64(len(s)))
	h.h.Write(h.buf[:n])
	h.h.Write([]byte(s))
}

// Marker feeds a structural marker such as a field name or list length.
func (h *Hasher) Marker(s string) {
	h.h.Write([]byte{0})
	h.String(s)
}

// Count feeds a list length.
func (h *Hasher) Count(n int) {
	k := binary.PutUvarint(h.buf[:], uint64(n))
	h.h.Write([]byte{1})
	h.h.Write(h.buf[:k])
}

// Term feeds a graph term: its tag followed by value, language and datatype.
func (h *Hasher) Term(v quad.Value) {
	tag := term.TagOf(v)
	h.Marker(tag.String())
	switch tag {
	case term.TagIRI:
		h.String(string(v.(quad.IRI).Full()))
	case term.TagLocal:
		h.String(string(v.(quad.BNode)))
	case term.TagLiteral:
		l, _ := term.LiteralOf(v)
		h.String(l.Value)
		h.String(l.Lang)
		h.String(string(l.Datatype))
	}
}

// Time feeds an instant in ISO-8601 form using layout.
func (h *Hasher) Time(t time.Time, layout string) {
	h.String(t.UTC().Format(layout))
}

// Sum returns the digest of everything written so far.
func (h *Hasher) Sum() []byte {
	return h.h.Sum(nil)
}

// Hex returns the hex encoded digest.
func (h *Hasher) Hex() string {
	return hex.EncodeToString(h.Sum())
}
