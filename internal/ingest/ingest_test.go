package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imlapps/sdapps-sub000/internal/config"
	"github.com/imlapps/sdapps-sub000/internal/model"
	"github.com/imlapps/sdapps-sub000/internal/rdfstore"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		fullPath := filepath.Join(dir, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}
}

func setupDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"people/ada.json":       `{"@id":"urn:x:ada","type":"Person","name":"Ada"}`,
		"orgs.json":             `[{"@id":"urn:x:council","type":"Organization","name":"Council"},{"type":"Unknown"},5]`,
		"events.jsonl":          "{\"@id\":\"urn:x:e1\",\"type\":\"Event\",\"name\":\"Meeting\"}\n\nnot json\n",
		"broken.json":           `{`,
		"notes.txt":             `{"type":"Person"}`,
		"ignored/skip.json":     `{"type":"Person"}`,
		"node_modules/pkg.json": `{"type":"Person"}`,
		"package.json":          `{"name":"tooling"}`,
		".gitignore":            "# local\nignored/\n",
	})
	return dir
}

func TestWalk(t *testing.T) {
	t.Parallel()

	dir := setupDir(t)
	files, err := Walk(dir, config.Default())
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		rel = append(rel, filepath.ToSlash(f.RelPath))
	}
	assert.Equal(t, []string{"broken.json", "events.jsonl", "orgs.json", "people/ada.json"}, rel)

	t.Run("ContentAndHash", func(t *testing.T) {
		f := files[3]
		assert.Equal(t, filepath.Join(dir, "people", "ada.json"), f.Path)
		assert.Contains(t, string(f.Content), "Ada")
		assert.Len(t, f.SHA256, 64)
	})

	t.Run("ConfiguredExtensions", func(t *testing.T) {
		cfg := config.Default()
		cfg.Extensions = []string{".jsonl"}
		files, err := Walk(dir, cfg)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "events.jsonl", files[0].RelPath)
	})
}

func TestShouldWatch(t *testing.T) {
	t.Parallel()

	dir := setupDir(t)
	matcher, err := loadMatcher(dir)
	require.NoError(t, err)
	cfg := config.Default()

	tests := []struct {
		path     string
		expected bool
	}{
		{"people/ada.json", true},
		{"new.jsonl", true},
		{"notes.txt", false},
		{"ignored/skip.json", false},
		{"node_modules/pkg.json", false},
		{".git/config.json", false},
		{"package.json", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, shouldWatch(filepath.Join(dir, tt.path), dir, cfg, matcher))
		})
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	dir := setupDir(t)
	cfg := config.Default()
	store := rdfstore.NewMemory()

	var phases []string
	result, err := Run(context.Background(), dir, store, cfg, func(phase string, progress float64) {
		if progress == 1.0 {
			phases = append(phases, phase)
		}
	})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Files)
	assert.Equal(t, 6, result.Documents)
	assert.Equal(t, 3, result.Entities)
	assert.Equal(t, 4, result.Skipped)
	assert.Equal(t, 6, result.Statements)
	assert.Equal(t, []string{"Walking files", "Loading documents"}, phases)

	t.Run("PerFileGraphs", func(t *testing.T) {
		ada := store.Match(nil, nil, nil, cfg.GraphFor(filepath.Join("people", "ada.json")))
		assert.Len(t, ada, 2)
		for _, q := range ada {
			assert.Equal(t, quad.IRI("urn:x:ada"), q.Subject)
		}
		assert.Len(t, store.Match(nil, nil, nil, cfg.GraphFor("orgs.json")), 2)
		assert.Empty(t, store.Match(nil, nil, nil, cfg.GraphFor("broken.json")))
	})

	t.Run("DecodesBack", func(t *testing.T) {
		e, err := model.ThingKind.FromRDF(store, quad.IRI("urn:x:e1"), model.ReadOptions{})
		require.NoError(t, err)
		assert.Same(t, model.EventKind, e.Kind())
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Run(ctx, dir, rdfstore.NewMemory(), cfg, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		_, err := Run(context.Background(), filepath.Join(dir, "missing"), rdfstore.NewMemory(), cfg, nil)
		assert.Error(t, err)
	})
}

func TestLoad_ReplacesFileGraph(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := config.Default()
	store := rdfstore.NewMemory()

	writeFiles(t, dir, map[string]string{"ada.json": `{"@id":"urn:x:ada","type":"Person","name":"Ada"}`})
	file, err := readFile(dir, "ada.json")
	require.NoError(t, err)
	fr, err := Load(store, cfg, file)
	require.NoError(t, err)
	assert.Equal(t, FileResult{Documents: 1, Entities: 1, Statements: 2}, fr)

	writeFiles(t, dir, map[string]string{"ada.json": `{"@id":"urn:x:ada","type":"Person","name":"Ada Lovelace"}`})
	file, err = readFile(dir, "ada.json")
	require.NoError(t, err)
	_, err = Load(store, cfg, file)
	require.NoError(t, err)

	assert.Equal(t, 2, store.Len())
	names := store.Match(quad.IRI("urn:x:ada"), quad.IRI("http://schema.org/name"), nil, nil)
	require.Len(t, names, 1)
	assert.Equal(t, quad.String("Ada Lovelace"), names[0].Object)
}

func TestLoad_LinksMembers(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := config.Default()
	store := rdfstore.NewMemory()

	writeFiles(t, dir, map[string]string{"council.json": `[
		{"@id":"urn:x:ada","type":"Person","name":"Ada","memberOf":[{"@id":"urn:x:council","type":"OrganizationStub"}]},
		{"@id":"urn:x:council","type":"Organization","name":"Council"}
	]`})
	file, err := readFile(dir, "council.json")
	require.NoError(t, err)
	fr, err := Load(store, cfg, file)
	require.NoError(t, err)
	assert.Equal(t, 1, fr.Links)

	member := store.Match(quad.IRI("urn:x:council"), quad.IRI("http://schema.org/member"), nil, nil)
	require.Len(t, member, 1)
	assert.Equal(t, quad.IRI("urn:x:ada"), member[0].Object)

	e, err := model.OrganizationKind.FromRDF(store, quad.IRI("urn:x:council"), model.ReadOptions{})
	require.NoError(t, err)
	org := e.(*model.Organization)
	require.Len(t, org.Member, 1)
	assert.Equal(t, "Ada", *org.Member[0].Name)
}

func TestProcessChangedFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := config.Default()
	store := rdfstore.NewMemory()

	writeFiles(t, dir, map[string]string{
		"a.json": `{"@id":"urn:x:a","type":"Person","name":"A"}`,
		"b.json": `{"@id":"urn:x:b","type":"Person","name":"B"}`,
	})
	_, err := Run(context.Background(), dir, store, cfg, nil)
	require.NoError(t, err)
	require.Equal(t, 4, store.Len())

	require.NoError(t, os.Remove(filepath.Join(dir, "a.json")))
	writeFiles(t, dir, map[string]string{"c.json": `{"@id":"urn:x:c","type":"Person","name":"C"}`})

	err = processChangedFiles(store, cfg, dir, map[string]bool{"a.json": true, "c.json": true})
	require.NoError(t, err)

	assert.Empty(t, store.Match(quad.IRI("urn:x:a"), nil, nil, nil))
	assert.Len(t, store.Match(quad.IRI("urn:x:b"), nil, nil, nil), 2)
	assert.Len(t, store.Match(quad.IRI("urn:x:c"), nil, nil, nil), 2)
}

func TestWatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Debounce = 50 * time.Millisecond
	store := rdfstore.NewMemory()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, dir, store, cfg) }()

	// Give the watcher time to register the directory.
	time.Sleep(200 * time.Millisecond)

	writeFiles(t, dir, map[string]string{"ada.json": `{"@id":"urn:x:ada","type":"Person","name":"Ada"}`})
	require.Eventually(t, func() bool {
		return len(store.Match(quad.IRI("urn:x:ada"), nil, nil, nil)) == 2
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Remove(filepath.Join(dir, "ada.json")))
	require.Eventually(t, func() bool {
		return store.Len() == 0
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"mixed.json": `[{"type":"Person","name":"A"},{"type":"Organization","name":"B"},{"type":"GovernmentOrganization"}]`,
		"bad.json":   `"just a string"`,
	})

	file, err := ReadFile(filepath.Join(dir, "mixed.json"))
	require.NoError(t, err)
	assert.Equal(t, "mixed.json", file.RelPath)

	t.Run("AsThing", func(t *testing.T) {
		d, err := Decode(file, model.ThingKind)
		require.NoError(t, err)
		assert.Equal(t, 3, d.Documents)
		assert.Zero(t, d.Skipped)
		require.Len(t, d.Entities, 3)
		assert.Same(t, model.GovernmentOrganizationKind, d.Entities[2].Kind())
	})

	t.Run("AsOrganization", func(t *testing.T) {
		d, err := Decode(file, model.OrganizationKind)
		require.NoError(t, err)
		assert.Equal(t, 1, d.Skipped)
		assert.Len(t, d.Entities, 2)
	})

	t.Run("NotADocument", func(t *testing.T) {
		file, err := ReadFile(filepath.Join(dir, "bad.json"))
		require.NoError(t, err)
		_, err = Decode(file, model.ThingKind)
		assert.Error(t, err)
	})
}
