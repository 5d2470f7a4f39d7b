// Package config holds the run-time settings shared by the CLI, the ingest
// pipeline and the MCP server.
package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/cayleygraph/quad"

	"github.com/imlapps/sdapps-sub000/internal/rdfstore"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreBadger = "badger"
)

// Config is the resolved run-time configuration.
type Config struct {
	// Store selects the statement store backend.
	Store string

	// GraphBase prefixes the named graph each ingested file is written to.
	GraphBase string

	// Extensions lists the document file extensions ingest picks up.
	Extensions []string

	// Debounce is how long the watcher waits for a burst of file events to
	// settle before re-ingesting.
	Debounce time.Duration

	Debug bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store:      StoreMemory,
		GraphBase:  "urn:sdapps:file:",
		Extensions: []string{".json", ".jsonl"},
		Debounce:   2 * time.Second,
	}
}

// Validate checks the configuration for values no component can use.
func (c Config) Validate() error {
	if c.Store != StoreMemory && c.Store != StoreBadger {
		return fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreMemory, StoreBadger)
	}
	if c.GraphBase == "" {
		return fmt.Errorf("graph base must not be empty")
	}
	if u, err := url.Parse(c.GraphBase); err != nil || u.Scheme == "" {
		return fmt.Errorf("graph base %q is not an absolute IRI", c.GraphBase)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("at least one document extension is required")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive, got %s", c.Debounce)
	}
	return nil
}

// OpenStore creates an empty statement store of the configured backend.
func (c Config) OpenStore() (rdfstore.Store, error) {
	switch c.Store {
	case StoreMemory:
		return rdfstore.NewMemory(), nil
	case StoreBadger:
		return rdfstore.OpenBadger()
	default:
		return nil, fmt.Errorf("unknown store %q", c.Store)
	}
}

// GraphFor names the graph holding the statements of one ingested file.
// relPath is slash-normalized so the name does not depend on the platform.
func (c Config) GraphFor(relPath string) quad.IRI {
	return quad.IRI(c.GraphBase + url.PathEscape(filepath.ToSlash(relPath)))
}

// Accepts reports whether a file name has one of the document extensions.
func (c Config) Accepts(name string) bool {
	return slices.Contains(c.Extensions, strings.ToLower(filepath.Ext(name)))
}
