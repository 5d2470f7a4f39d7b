package ingest

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/imlapps/sdapps-sub000/internal/config"
	"github.com/imlapps/sdapps-sub000/internal/logger"
	"github.com/imlapps/sdapps-sub000/internal/model"
	"github.com/imlapps/sdapps-sub000/internal/rdfstore"
)

// Result contains the results of an ingest run.
type Result struct {
	Files        int
	Documents    int
	Entities     int
	Skipped      int
	Links        int
	Statements   int
	DurationSecs float64
}

// FileResult contains the results of loading one file.
type FileResult struct {
	Documents  int
	Entities   int
	Skipped    int
	Links      int
	Statements int
}

// ProgressCallback is called to report progress.
type ProgressCallback func(phase string, progress float64)

// Run walks dir and loads every document file into store. Documents that do
// not decode as any entity kind are logged and skipped; only walking and
// store failures abort the run.
func Run(ctx context.Context, dir string, store rdfstore.Store, cfg config.Config, progress ProgressCallback) (*Result, error) {
	start := time.Now()
	result := &Result{}

	if progress != nil {
		progress("Walking files", 0.0)
	}
	files, err := Walk(dir, cfg)
	if err != nil {
		return nil, fmt.Errorf("walk: %w", err)
	}
	result.Files = len(files)
	if progress != nil {
		progress("Walking files", 1.0)
	}

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if progress != nil {
			progress("Loading documents", float64(i)/float64(len(files)))
		}

		fr, err := Load(store, cfg, file)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", file.RelPath, err)
		}
		result.Documents += fr.Documents
		result.Entities += fr.Entities
		result.Skipped += fr.Skipped
		result.Links += fr.Links
	}
	if progress != nil {
		progress("Loading documents", 1.0)
	}

	result.Statements = store.Len()
	result.DurationSecs = time.Since(start).Seconds()
	logger.Info("ingest finished",
		"files", result.Files,
		"entities", result.Entities,
		"skipped", result.Skipped,
		"links", result.Links,
		"statements", result.Statements)
	return result, nil
}

// Load replaces the statements of one file: the file's named graph is
// cleared, then every document in it is decoded through the Thing fallback
// chain, membership back-references between the file's people and
// organizations are completed, and the entities are written into that
// graph.
func Load(store rdfstore.Store, cfg config.Config, file File) (FileResult, error) {
	var fr FileResult
	graph := cfg.GraphFor(file.RelPath)

	if _, err := store.RemoveGraph(graph); err != nil {
		return fr, fmt.Errorf("clear graph: %w", err)
	}

	decoded, err := Decode(file, model.ThingKind)
	fr.Documents = decoded.Documents
	fr.Skipped = decoded.Skipped
	if err != nil {
		logger.Warn("unreadable document file", "file", file.RelPath, "err", err)
		fr.Skipped++
		return fr, nil
	}

	links, err := model.LinkMembers(decoded.Entities)
	if err != nil {
		return fr, fmt.Errorf("link members: %w", err)
	}
	fr.Links = links

	for _, e := range decoded.Entities {
		before := store.Len()
		if err := model.ToRDF(e, store, model.WriteOptions{Graph: graph}); err != nil {
			return fr, fmt.Errorf("write %s: %w", e.Identifier(), err)
		}
		fr.Entities++
		fr.Statements += store.Len() - before
	}
	return fr, nil
}

// Decoded holds the entities decoded from one file.
type Decoded struct {
	Entities  []model.Entity
	Documents int
	Skipped   int
}

// Decode decodes every document in file as k or one of its descendants.
// Documents that fail are logged and counted as skipped; the error is
// reserved for files that cannot be split into documents at all.
func Decode(file File, k *model.Kind) (Decoded, error) {
	var d Decoded
	docs, err := documents(file)
	if err != nil {
		return d, err
	}

	for i, doc := range docs {
		d.Documents++
		if doc.err != nil {
			logger.Warn("skipping document", "file", file.RelPath, "index", i, "err", doc.err)
			d.Skipped++
			continue
		}

		e, err := k.FromJSON(doc.value)
		if err != nil {
			logger.Warn("skipping document", "file", file.RelPath, "index", i, "err", err)
			d.Skipped++
			continue
		}
		logger.Debug("decoded", "file", file.RelPath, "kind", e.Kind().Name, "id", e.Identifier())
		d.Entities = append(d.Entities, e)
	}
	return d, nil
}

type document struct {
	value map[string]any
	err   error
}

// documents splits a file into its JSON objects. A .jsonl file holds one
// object per non-blank line; any other file holds a single object or an
// array of objects.
func documents(file File) ([]document, error) {
	if strings.EqualFold(filepath.Ext(file.RelPath), ".jsonl") {
		return lines(file.Content)
	}

	var top any
	if err := json.Unmarshal(file.Content, &top); err != nil {
		return nil, err
	}
	switch v := top.(type) {
	case map[string]any:
		return []document{{value: v}}, nil
	case []any:
		docs := make([]document, len(v))
		for i, item := range v {
			docs[i] = object(item)
		}
		return docs, nil
	default:
		return nil, fmt.Errorf("top-level value is %T, want object or array", top)
	}
}

func lines(content []byte) ([]document, error) {
	var docs []document
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var v any
		if err := json.Unmarshal(line, &v); err != nil {
			docs = append(docs, document{err: err})
			continue
		}
		docs = append(docs, object(v))
	}
	return docs, scanner.Err()
}

func object(v any) document {
	m, ok := v.(map[string]any)
	if !ok {
		return document{err: fmt.Errorf("document is %T, want object", v)}
	}
	return document{value: m}
}
