package rdfstore

import (
	"errors"
	"fmt"
	"io"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
)

// WriteNQuads writes statements as N-Quads, one per line.
func WriteNQuads(w io.Writer, quads []quad.Quad) error {
	qw := nquads.NewWriter(w)
	for _, q := range quads {
		if err := qw.WriteQuad(q); err != nil {
			return fmt.Errorf("writing statement: %w", err)
		}
	}
	return qw.Close()
}

// ReadNQuads reads every statement from r into sink and returns the number
// of statements read. Literals keep their lexical form and datatype.
func ReadNQuads(r io.Reader, sink Sink) (int, error) {
	qr := nquads.NewReader(r, true)
	defer qr.Close()

	n := 0
	for {
		q, err := qr.ReadQuad()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("reading statement %d: %w", n+1, err)
		}
		if err := sink.Add(q); err != nil {
			return n, err
		}
		n++
	}
}
