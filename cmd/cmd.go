// Package cmd provides CLI command implementations for sdapps.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/cayleygraph/quad"
	"github.com/fatih/color"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/imlapps/sdapps-sub000/internal/config"
	"github.com/imlapps/sdapps-sub000/internal/ingest"
	"github.com/imlapps/sdapps-sub000/internal/logger"
	"github.com/imlapps/sdapps-sub000/internal/logger/console"
	"github.com/imlapps/sdapps-sub000/internal/model"
	"github.com/imlapps/sdapps-sub000/internal/rdfstore"
	"github.com/imlapps/sdapps-sub000/internal/term"
	"github.com/imlapps/sdapps-sub000/mcp"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ConvertCmd converts JSON entity documents to N-Quads.
type ConvertCmd struct {
	Path     string `arg:"" type:"existingfile" help:"JSON or JSON Lines document file"`
	Kind     string `short:"k" default:"Thing" help:"Kind to decode documents as"`
	Graph    string `short:"g" help:"Graph IRI to label every statement with"`
	SkipType bool   `help:"Omit the rdf:type statement of each top-level entity"`
	Output   string `short:"o" default:"-" help:"Output file (- for stdout)"`
}

// Run executes the convert command.
func (c *ConvertCmd) Run(cfg config.Config) error {
	k, err := model.LookupKind(c.Kind)
	if err != nil {
		return err
	}

	file, err := ingest.ReadFile(c.Path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.Path, err)
	}
	decoded, err := ingest.Decode(file, k)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", c.Path, err)
	}

	if _, err := model.LinkMembers(decoded.Entities); err != nil {
		return fmt.Errorf("linking members: %w", err)
	}

	opts := model.WriteOptions{SkipType: c.SkipType}
	if c.Graph != "" {
		opts.Graph = quad.IRI(c.Graph)
	}

	store := rdfstore.NewMemory()
	for _, e := range decoded.Entities {
		if err := model.ToRDF(e, store, opts); err != nil {
			return fmt.Errorf("serializing %s: %w", term.FormatIdentifier(e.Identifier()), err)
		}
	}

	if err := writeOutput(c.Output, func(w io.Writer) error {
		return rdfstore.WriteNQuads(w, store.All())
	}); err != nil {
		return err
	}

	logger.Info("converted", "entities", len(decoded.Entities), "skipped", decoded.Skipped, "statements", store.Len())
	return nil
}

// DecodeCmd decodes entities from an N-Quads file into JSON documents.
type DecodeCmd struct {
	Path          string   `arg:"" type:"existingfile" help:"N-Quads file"`
	Kind          string   `short:"k" required:"" help:"Kind to decode subjects as"`
	ID            []string `name:"id" help:"Subject identifiers to decode (default: every subject typed as the kind)"`
	IgnoreRDFType bool     `name:"ignore-rdf-type" help:"Skip the type check of the requested kind"`
	Output        string   `short:"o" default:"-" help:"Output file (- for stdout)"`
}

// Run executes the decode command.
func (c *DecodeCmd) Run(cfg config.Config) error {
	k, err := model.LookupKind(c.Kind)
	if err != nil {
		return err
	}

	f, err := os.Open(c.Path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", c.Path, err)
	}
	defer func() { _ = f.Close() }()

	store := rdfstore.NewMemory()
	if _, err := rdfstore.ReadNQuads(f, store); err != nil {
		return fmt.Errorf("reading %s: %w", c.Path, err)
	}

	subjects := k.Instances(store)
	if len(c.ID) > 0 {
		subjects = subjects[:0]
		for _, id := range c.ID {
			s, err := term.ParseIdentifier(id)
			if err != nil {
				return err
			}
			subjects = append(subjects, s)
		}
	}

	docs := make([]map[string]any, 0, len(subjects))
	for _, s := range subjects {
		e, err := k.FromRDF(store, s, model.ReadOptions{IgnoreRDFType: c.IgnoreRDFType})
		if err != nil {
			if len(c.ID) > 0 {
				return fmt.Errorf("decoding %s: %w", term.FormatIdentifier(s), err)
			}
			logger.Warn("skipping subject", "id", term.FormatIdentifier(s), "err", err)
			continue
		}
		docs = append(docs, model.ToJSON(e))
	}

	return writeOutput(c.Output, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	})
}

// IngestCmd loads a directory of documents into a statement store.
type IngestCmd struct {
	Path string `arg:"" optional:"" default:"." help:"Directory of JSON documents"`
	Dump string `help:"Write the loaded statements as N-Quads to this file"`
}

// Run executes the ingest command.
func (c *IngestCmd) Run(cfg config.Config) error {
	ctx := context.Background()
	dir, err := resolveDir(c.Path)
	if err != nil {
		return err
	}

	store, err := cfg.OpenStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() { _ = store.Close() }()

	color.Green("Ingesting %s", dir)

	progress := func(phase string, pct float64) {
		fmt.Fprintf(os.Stderr, "\r\033[K%s (%.0f%%)", phase, pct*100)
	}

	result, err := ingest.Run(ctx, dir, store, cfg, progress)
	if err != nil {
		return fmt.Errorf("running ingest: %w", err)
	}

	fmt.Fprintln(os.Stderr) // Newline after progress

	if c.Dump != "" {
		if err := writeOutput(c.Dump, func(w io.Writer) error {
			return rdfstore.WriteNQuads(w, store.All())
		}); err != nil {
			return err
		}
	}

	color.Green("\n✓ Ingest complete")
	fmt.Printf("  Files:       %d\n", result.Files)
	fmt.Printf("  Documents:   %d\n", result.Documents)
	fmt.Printf("  Entities:    %d\n", result.Entities)
	fmt.Printf("  Skipped:     %d\n", result.Skipped)
	fmt.Printf("  Links:       %d\n", result.Links)
	fmt.Printf("  Statements:  %d\n", result.Statements)
	fmt.Printf("  Duration:    %.2fs\n", result.DurationSecs)

	return nil
}

// WatchCmd ingests a directory and keeps the store in sync with it.
type WatchCmd struct {
	Path string `arg:"" optional:"" default:"." help:"Directory of JSON documents"`
}

// Run executes the watch command.
func (c *WatchCmd) Run(cfg config.Config) error {
	dir, err := resolveDir(c.Path)
	if err != nil {
		return err
	}

	store, err := cfg.OpenStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	result, err := ingest.Run(ctx, dir, store, cfg, nil)
	if err != nil {
		return fmt.Errorf("initial ingest: %w", err)
	}
	color.Green("✓ Loaded %d entities from %d files", result.Entities, result.Files)

	go func() {
		<-osSignalChannel()
		fmt.Fprintln(os.Stderr, "\nStopping watch mode...")
		cancel()
	}()

	err = ingest.Watch(ctx, dir, store, cfg)
	if err == context.Canceled {
		return nil
	}
	return err
}

// FragmentCmd prints the query fragment of a kind.
type FragmentCmd struct {
	Kind string `arg:"" help:"Kind name"`
}

// Run executes the fragment command.
func (c *FragmentCmd) Run() error {
	k, err := model.LookupKind(c.Kind)
	if err != nil {
		return err
	}
	fmt.Println(k.Fragment().String())
	return nil
}

// KindsCmd lists the registered kinds.
type KindsCmd struct {
	Kind   string `arg:"" optional:"" help:"Show one kind's fields"`
	Schema bool   `help:"Print the kind's JSON Schema instead of its fields"`
}

// Run executes the kinds command.
func (c *KindsCmd) Run() error {
	if c.Kind == "" {
		if c.Schema {
			return fmt.Errorf("--schema requires a kind")
		}
		for _, k := range model.Kinds() {
			if k.Parent() == nil {
				printKindTree(k, 0)
			}
		}
		return nil
	}

	k, err := model.LookupKind(c.Kind)
	if err != nil {
		return err
	}

	if c.Schema {
		data, err := json.MarshalIndent(k.Schema(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	color.Green("%s  %s", k.Name, string(k.Class))
	for _, f := range k.Fields() {
		target := ""
		if f.Target != nil {
			target = " → " + f.Target.Name
		}
		fmt.Printf("  %-16s %-10s %s%s\n", f.Name, f.Shape, string(f.Predicate), target)
	}
	return nil
}

func printKindTree(k *model.Kind, depth int) {
	name := k.Name
	if k.Abstract {
		name += " (abstract)"
	}
	fmt.Printf("%s%s\n", strings.Repeat("  ", depth), name)
	for _, c := range k.Children() {
		printKindTree(c, depth+1)
	}
}

// ServeCmd starts the MCP server over stdio.
type ServeCmd struct {
	Path  string `arg:"" optional:"" help:"Directory of JSON documents to load first"`
	Watch bool   `short:"w" help:"Keep the store in sync with the directory"`
}

// Run executes the serve command.
func (c *ServeCmd) Run(cfg config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := cfg.OpenStore()
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() { _ = store.Close() }()

	if c.Watch && c.Path == "" {
		return fmt.Errorf("--watch requires a directory")
	}

	if c.Path != "" {
		dir, err := resolveDir(c.Path)
		if err != nil {
			return err
		}
		if _, err := ingest.Run(ctx, dir, store, cfg, nil); err != nil {
			return fmt.Errorf("initial ingest: %w", err)
		}

		if c.Watch {
			go func() {
				err := ingest.Watch(ctx, dir, store, cfg)
				if err != nil && err != context.Canceled {
					logger.Error("watch stopped", "err", err)
				}
			}()
		}
	}

	go func() {
		<-osSignalChannel()
		cancel()
	}()

	logger.Info("starting MCP server", "statements", store.Len(), "watch", c.Watch)
	server := mcp.NewServer(store)
	return server.Run(ctx, &sdkmcp.StdioTransport{})
}

// Helper functions

// osSignalChannel returns a channel that receives OS signals for graceful shutdown.
func osSignalChannel() <-chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	return sigChan
}

func resolveDir(path string) (string, error) {
	dir, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("accessing %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	return dir, nil
}

// writeOutput runs write against stdout for "-" and against a new file
// otherwise.
func writeOutput(path string, write func(io.Writer) error) error {
	if path == "-" || path == "" {
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// CLI is the root Kong command structure.
type CLI struct {
	Version kong.VersionFlag `help:"Show version information"`
	Debug   bool             `env:"SDAPPS_DEBUG" help:"Enable debug logging"`

	Store      string        `env:"SDAPPS_STORE" enum:"memory,badger" default:"memory" help:"Statement store backend (memory, badger)"`
	GraphBase  string        `env:"SDAPPS_GRAPH_BASE" default:"urn:sdapps:file:" help:"Prefix of the per-file graph names"`
	Extensions []string      `env:"SDAPPS_EXTENSIONS" default:".json,.jsonl" help:"Document file extensions to ingest"`
	Debounce   time.Duration `env:"SDAPPS_DEBOUNCE" default:"2s" help:"Quiet period before the watcher reloads changed files"`

	// Commands
	Convert  ConvertCmd  `cmd:"" help:"Convert JSON documents to N-Quads"`
	Decode   DecodeCmd   `cmd:"" help:"Decode N-Quads subjects into JSON documents"`
	Ingest   IngestCmd   `cmd:"" help:"Load a directory of documents into a statement store"`
	Watch    WatchCmd    `cmd:"" help:"Watch mode with live reloading"`
	Fragment FragmentCmd `cmd:"" help:"Print the query fragment of a kind"`
	Kinds    KindsCmd    `cmd:"" help:"List entity and stub kinds"`
	Serve    ServeCmd    `cmd:"" help:"Start MCP server (stdio transport)"`
}

// NewCLI creates a new CLI instance.
func NewCLI() *CLI {
	return &CLI{}
}

// Config resolves the global flags into a validated configuration.
func (c *CLI) Config() (config.Config, error) {
	cfg := config.Default()
	cfg.Store = c.Store
	cfg.GraphBase = c.GraphBase
	if len(c.Extensions) > 0 {
		cfg.Extensions = c.Extensions
	}
	cfg.Debounce = c.Debounce
	cfg.Debug = c.Debug
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Parse parses command-line arguments without running the selected command.
func (c *CLI) Parse(args []string) (*kong.Context, error) {
	parser, err := kong.New(c,
		kong.Name("sdapps"),
		kong.Description("Typed schema.org entities as JSON documents and RDF statements"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)
	if err != nil {
		return nil, err
	}
	return parser.Parse(args)
}

// Execute parses command-line arguments and executes the selected command.
func (c *CLI) Execute(args []string) error {
	kongCtx, err := c.Parse(args)
	if err != nil {
		return err
	}

	logger.Init(console.New(console.Params{Debug: c.Debug}))

	cfg, err := c.Config()
	if err != nil {
		return err
	}
	return kongCtx.Run(cfg)
}
