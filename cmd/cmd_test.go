package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imlapps/sdapps-sub000/internal/config"
	"github.com/imlapps/sdapps-sub000/internal/model"
	"github.com/imlapps/sdapps-sub000/internal/rdfstore"
)

const peopleDoc = `[
  {"@id":"urn:x:ada","type":"Person","name":"Ada Lovelace","jobTitle":"Councillor"},
  {"@id":"urn:x:council","type":"Organization","name":"City Council"},
  {"type":"Dataset"}
]`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readNQuads(t *testing.T, path string) rdfstore.Store {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	store := rdfstore.NewMemory()
	_, err = rdfstore.ReadNQuads(f, store)
	require.NoError(t, err)
	return store
}

func TestCLI_Parse(t *testing.T) {
	t.Parallel()

	t.Run("Defaults", func(t *testing.T) {
		cli := NewCLI()
		kongCtx, err := cli.Parse([]string{"fragment", "Person"})
		require.NoError(t, err)
		assert.Equal(t, "fragment <kind>", kongCtx.Command())
		assert.Equal(t, "Person", cli.Fragment.Kind)

		cfg, err := cli.Config()
		require.NoError(t, err)
		assert.Equal(t, config.Default(), cfg)
	})

	t.Run("GlobalFlags", func(t *testing.T) {
		cli := NewCLI()
		_, err := cli.Parse([]string{
			"--store", "badger",
			"--graph-base", "https://example.org/graph/",
			"--extensions", ".json",
			"--debounce", "500ms",
			"--debug",
			"ingest", "data",
		})
		require.NoError(t, err)
		assert.Equal(t, "data", cli.Ingest.Path)

		cfg, err := cli.Config()
		require.NoError(t, err)
		assert.Equal(t, config.StoreBadger, cfg.Store)
		assert.Equal(t, "https://example.org/graph/", cfg.GraphBase)
		assert.Equal(t, []string{".json"}, cfg.Extensions)
		assert.Equal(t, 500*time.Millisecond, cfg.Debounce)
		assert.True(t, cfg.Debug)
	})

	t.Run("UnknownStore", func(t *testing.T) {
		_, err := NewCLI().Parse([]string{"--store", "postgres", "kinds"})
		assert.Error(t, err)
	})

	t.Run("InvalidGraphBase", func(t *testing.T) {
		cli := NewCLI()
		_, err := cli.Parse([]string{"--graph-base", "relative/", "kinds"})
		require.NoError(t, err)
		_, err = cli.Config()
		assert.Error(t, err)
	})

	t.Run("DecodeRequiresKind", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "in.nq", "")
		_, err := NewCLI().Parse([]string{"decode", path})
		assert.Error(t, err)
	})
}

func TestCLI_Environment(t *testing.T) {
	t.Setenv("SDAPPS_STORE", "badger")
	t.Setenv("SDAPPS_DEBOUNCE", "3s")

	cli := NewCLI()
	_, err := cli.Parse([]string{"kinds"})
	require.NoError(t, err)

	cfg, err := cli.Config()
	require.NoError(t, err)
	assert.Equal(t, config.StoreBadger, cfg.Store)
	assert.Equal(t, 3*time.Second, cfg.Debounce)
}

func TestConvertCmd_Run(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "people.json", peopleDoc)

	t.Run("AsThing", func(t *testing.T) {
		out := filepath.Join(dir, "things.nq")
		cmd := &ConvertCmd{Path: in, Kind: "Thing", Output: out}
		require.NoError(t, cmd.Run(config.Default()))

		store := readNQuads(t, out)
		e, err := model.ThingKind.FromRDF(store, quad.IRI("urn:x:ada"), model.ReadOptions{})
		require.NoError(t, err)
		assert.Same(t, model.PersonKind, e.Kind())
		assert.Len(t, model.OrganizationKind.Instances(store), 1)
	})

	t.Run("AsPersonWithGraph", func(t *testing.T) {
		out := filepath.Join(dir, "people.nq")
		cmd := &ConvertCmd{Path: in, Kind: "Person", Graph: "urn:x:graph", Output: out}
		require.NoError(t, cmd.Run(config.Default()))

		store := readNQuads(t, out)
		assert.Equal(t, 3, store.Len())
		assert.Len(t, store.Match(nil, nil, nil, quad.IRI("urn:x:graph")), 3)
		assert.Empty(t, store.Match(quad.IRI("urn:x:council"), nil, nil, nil))
	})

	t.Run("SkipType", func(t *testing.T) {
		out := filepath.Join(dir, "untyped.nq")
		cmd := &ConvertCmd{Path: in, Kind: "Person", SkipType: true, Output: out}
		require.NoError(t, cmd.Run(config.Default()))

		store := readNQuads(t, out)
		assert.Empty(t, store.Match(nil, model.RDFType, nil, nil))
	})

	t.Run("UnknownKind", func(t *testing.T) {
		cmd := &ConvertCmd{Path: in, Kind: "Dataset", Output: filepath.Join(dir, "x.nq")}
		assert.ErrorIs(t, cmd.Run(config.Default()), model.ErrUnknownKind)
	})

	t.Run("MissingFile", func(t *testing.T) {
		cmd := &ConvertCmd{Path: filepath.Join(dir, "missing.json"), Kind: "Thing", Output: filepath.Join(dir, "y.nq")}
		assert.Error(t, cmd.Run(config.Default()))
	})
}

func TestDecodeCmd_Run(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "people.json", peopleDoc)
	nq := filepath.Join(dir, "people.nq")
	require.NoError(t, (&ConvertCmd{Path: in, Kind: "Thing", Output: nq}).Run(config.Default()))

	decode := func(t *testing.T, cmd *DecodeCmd) []map[string]any {
		t.Helper()
		cmd.Path = nq
		cmd.Output = filepath.Join(t.TempDir(), "out.json")
		require.NoError(t, cmd.Run(config.Default()))

		data, err := os.ReadFile(cmd.Output)
		require.NoError(t, err)
		var docs []map[string]any
		require.NoError(t, json.Unmarshal(data, &docs))
		return docs
	}

	t.Run("AllOfKind", func(t *testing.T) {
		docs := decode(t, &DecodeCmd{Kind: "Person"})
		require.Len(t, docs, 1)
		assert.Equal(t, "urn:x:ada", docs[0]["@id"])
		assert.Equal(t, "Councillor", docs[0]["jobTitle"])
	})

	t.Run("Thing", func(t *testing.T) {
		docs := decode(t, &DecodeCmd{Kind: "Thing"})
		var types []string
		for _, d := range docs {
			types = append(types, d["type"].(string))
		}
		assert.ElementsMatch(t, []string{"Person", "Organization"}, types)
	})

	t.Run("ByID", func(t *testing.T) {
		docs := decode(t, &DecodeCmd{Kind: "Organization", ID: []string{"urn:x:council"}})
		require.Len(t, docs, 1)
		assert.Equal(t, "City Council", docs[0]["name"])
	})

	t.Run("ByIDMismatch", func(t *testing.T) {
		cmd := &DecodeCmd{Path: nq, Kind: "Organization", ID: []string{"urn:x:ada"}, Output: filepath.Join(dir, "z.json")}
		assert.Error(t, cmd.Run(config.Default()))
	})

	t.Run("MalformedInput", func(t *testing.T) {
		bad := writeFile(t, dir, "bad.nq", "not n-quads at all\n")
		cmd := &DecodeCmd{Path: bad, Kind: "Thing", Output: filepath.Join(dir, "w.json")}
		assert.Error(t, cmd.Run(config.Default()))
	})
}

func TestIngestCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("IngestDirectory", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "people.json", peopleDoc)
		writeFile(t, dir, "events/meetings.jsonl", `{"@id":"urn:x:m1","type":"Event","name":"Budget hearing"}`+"\n")
		dump := filepath.Join(t.TempDir(), "dump.nq")

		cmd := &IngestCmd{Path: dir, Dump: dump}
		require.NoError(t, cmd.Run(config.Default()))

		store := readNQuads(t, dump)
		cfg := config.Default()
		assert.NotEmpty(t, store.Match(quad.IRI("urn:x:ada"), nil, nil, cfg.GraphFor("people.json")))
		assert.NotEmpty(t, store.Match(quad.IRI("urn:x:m1"), nil, nil, cfg.GraphFor(filepath.Join("events", "meetings.jsonl"))))
	})

	t.Run("BadgerStore", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "people.json", peopleDoc)
		cfg := config.Default()
		cfg.Store = config.StoreBadger
		assert.NoError(t, (&IngestCmd{Path: dir}).Run(cfg))
	})

	t.Run("InvalidPath", func(t *testing.T) {
		cmd := &IngestCmd{Path: "/nonexistent/path"}
		assert.Error(t, cmd.Run(config.Default()))
	})

	t.Run("NotADirectory", func(t *testing.T) {
		tmpFile := writeFile(t, t.TempDir(), "file.txt", "test")
		cmd := &IngestCmd{Path: tmpFile}
		err := cmd.Run(config.Default())
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "is not a directory"))
	})
}

func TestKindsAndFragmentCmds(t *testing.T) {
	t.Parallel()

	assert.NoError(t, (&KindsCmd{}).Run())
	assert.NoError(t, (&KindsCmd{Kind: "VoteAction"}).Run())
	assert.NoError(t, (&KindsCmd{Kind: "Role", Schema: true}).Run())
	assert.Error(t, (&KindsCmd{Schema: true}).Run())
	assert.ErrorIs(t, (&KindsCmd{Kind: "Dataset"}).Run(), model.ErrUnknownKind)

	assert.NoError(t, (&FragmentCmd{Kind: "MusicPlaylist"}).Run())
	assert.ErrorIs(t, (&FragmentCmd{Kind: "Dataset"}).Run(), model.ErrUnknownKind)
}

func TestServeCmd_Validation(t *testing.T) {
	t.Parallel()

	err := (&ServeCmd{Watch: true}).Run(config.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--watch requires a directory")

	err = (&ServeCmd{Path: "/nonexistent/path"}).Run(config.Default())
	assert.Error(t, err)
}
