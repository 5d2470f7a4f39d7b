// Package mcp provides the MCP (Model Context Protocol) server that exposes
// the entities of a statement store to MCP clients.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/imlapps/sdapps-sub000/internal/logger"
	"github.com/imlapps/sdapps-sub000/internal/model"
	"github.com/imlapps/sdapps-sub000/internal/rdfstore"
	"github.com/imlapps/sdapps-sub000/internal/term"
)

// Version is reported to clients during initialization.
var Version = "dev"

// Server represents the MCP server.
type Server struct {
	store  StatementStore
	server *mcp.Server
	tools  map[string]Tool
}

// StatementStore is the part of a statement store the server reads.
type StatementStore interface {
	rdfstore.Graph
	Len() int
}

// Tool represents an MCP tool.
type Tool struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
}

// Resource represents an MCP resource.
type Resource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
}

// NewServer creates a new MCP server reading from store.
func NewServer(store StatementStore) *Server {
	s := &Server{
		store: store,
		tools: make(map[string]Tool),
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "sdapps",
		Version: Version,
	}, nil)

	s.registerTools()
	s.registerResources()

	return s
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []Tool {
	return []Tool{
		{
			Name:        "entity_get",
			Description: "Decode the entity with the given identifier and return it as a JSON document.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"id":   {Type: "string", Description: "Entity identifier: an IRI or a _: local reference"},
					"kind": {Type: "string", Description: "Kind to decode as (defaults to Thing)"},
				},
				Required: []string{"id"},
			},
		},
		{
			Name:        "entity_labels",
			Description: "List identifier/label pairs for every entity of a kind and the stubs they embed.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"kind": {Type: "string", Description: "Kind name, e.g. Person"},
				},
				Required: []string{"kind"},
			},
		},
		{
			Name:        "entity_fragment",
			Description: "Return the CONSTRUCT query that extracts a minimal instance of a kind from a larger graph.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"kind": {Type: "string", Description: "Kind name, e.g. MusicPlaylist"},
				},
				Required: []string{"kind"},
			},
		},
	}
}

// ListResources returns all registered resources.
func (s *Server) ListResources() []Resource {
	return []Resource{
		{
			URI:         "sdapps://overview",
			Name:        "Store Overview",
			Description: "Statement count and entity counts per kind",
			MimeType:    "text/markdown",
		},
		{
			URI:         "sdapps://kinds",
			Name:        "Kind Catalogue",
			Description: "The entity and stub kind trees with their fields",
			MimeType:    "text/markdown",
		},
	}
}

// CallTool validates args against the tool's input schema and executes it.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	tool, ok := s.tools[name]
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", name)
	}
	if args == nil {
		args = map[string]any{}
	}
	if err := validateArgs(tool.InputSchema, args); err != nil {
		return "", fmt.Errorf("invalid arguments for %s: %w", name, err)
	}

	switch name {
	case "entity_get":
		id, _ := args["id"].(string)
		kind, _ := args["kind"].(string)
		return handleGet(s.store, id, kind)
	case "entity_labels":
		kind, _ := args["kind"].(string)
		return handleLabels(s.store, kind)
	case "entity_fragment":
		kind, _ := args["kind"].(string)
		return handleFragment(kind)
	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

// ReadResource reads a resource by URI.
func (s *Server) ReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case "sdapps://overview":
		return getOverview(s.store), nil
	case "sdapps://kinds":
		return getKinds(), nil
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

// Run serves a single session over t until the client disconnects or ctx
// is cancelled.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	return s.server.Run(ctx, t)
}

// Connect starts a session over t without blocking.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

func validateArgs(schema *jsonschema.Schema, args map[string]any) error {
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return err
	}
	return resolved.Validate(args)
}

// Tool Handlers

func lookupKind(name string) (*model.Kind, error) {
	if name == "" {
		return model.ThingKind, nil
	}
	return model.LookupKind(name)
}

func handleGet(store rdfstore.Graph, id, kindName string) (string, error) {
	subject, err := term.ParseIdentifier(id)
	if err != nil {
		return "", err
	}
	k, err := lookupKind(kindName)
	if err != nil {
		return "", err
	}

	e, err := k.FromRDF(store, subject, model.ReadOptions{})
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", id, err)
	}
	data, err := json.MarshalIndent(model.ToJSON(e), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func handleLabels(store rdfstore.Graph, kindName string) (string, error) {
	k, err := model.LookupKind(kindName)
	if err != nil {
		return "", err
	}

	seen := make(map[string]bool)
	var labels []model.Label
	for _, subject := range k.Instances(store) {
		e, err := k.FromRDF(store, subject, model.ReadOptions{})
		if err != nil {
			logger.Warn("skipping entity", "id", subject, "kind", k.Name, "err", err)
			continue
		}
		for _, l := range model.Labels(e) {
			key := term.Key(l.Identifier)
			if seen[key] {
				continue
			}
			seen[key] = true
			labels = append(labels, l)
		}
	}

	if len(labels) == 0 {
		return fmt.Sprintf("No labelled %s entities found", k.Name), nil
	}

	sort.Slice(labels, func(i, j int) bool {
		if labels[i].Label != labels[j].Label {
			return labels[i].Label < labels[j].Label
		}
		return term.Key(labels[i].Identifier) < term.Key(labels[j].Identifier)
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s labels\n\n", k.Name)
	for _, l := range labels {
		fmt.Fprintf(&sb, "- %s (%s): %s\n", term.FormatIdentifier(l.Identifier), l.Kind, l.Label)
	}
	return sb.String(), nil
}

func handleFragment(kindName string) (string, error) {
	k, err := model.LookupKind(kindName)
	if err != nil {
		return "", err
	}
	return k.Fragment().String(), nil
}

// Resource Handlers

func getOverview(store StatementStore) string {
	var sb strings.Builder
	sb.WriteString("# Statement Store Overview\n\n")
	fmt.Fprintf(&sb, "**Statements:** %d\n", store.Len())
	sb.WriteString("\n## Entities\n\n")
	sb.WriteString("| Kind | Typed subjects |\n")
	sb.WriteString("|------|----------------|\n")
	for _, k := range model.Kinds() {
		if k.Abstract || k.IsStub() {
			continue
		}
		n := len(rdfstore.Subjects(store, model.RDFType, k.Class))
		if n > 0 {
			fmt.Fprintf(&sb, "| %s | %d |\n", k.Name, n)
		}
	}
	return sb.String()
}

func getKinds() string {
	var sb strings.Builder
	sb.WriteString("# Kind Catalogue\n\n")
	for _, root := range model.Kinds() {
		if root.Parent() == nil {
			writeKind(&sb, root, 0)
		}
	}
	return sb.String()
}

func writeKind(sb *strings.Builder, k *model.Kind, depth int) {
	indent := strings.Repeat("  ", depth)
	name := k.Name
	if k.Abstract {
		name += " (abstract)"
	}
	fmt.Fprintf(sb, "%s- **%s** `%s`\n", indent, name, string(k.Class))
	for _, f := range k.OwnFields() {
		target := ""
		if f.Target != nil {
			target = " → " + f.Target.Name
		}
		fmt.Fprintf(sb, "%s  - %s: %s%s\n", indent, f.Name, f.Shape, target)
	}
	for _, c := range k.Children() {
		writeKind(sb, c, depth+1)
	}
}

// registerTools registers tools with the MCP server.
func (s *Server) registerTools() {
	for _, tool := range s.ListTools() {
		s.tools[tool.Name] = tool
		s.server.AddTool(&mcp.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		}, s.toolHandler(tool.Name))
	}
}

func (s *Server) toolHandler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args map[string]any
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return nil, fmt.Errorf("decoding arguments: %w", err)
			}
		}

		text, err := s.CallTool(ctx, name, args)
		if err != nil {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
				IsError: true,
			}, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil
	}
}

// registerResources registers resources with the MCP server.
func (s *Server) registerResources() {
	for _, res := range s.ListResources() {
		s.server.AddResource(&mcp.Resource{
			URI:         res.URI,
			Name:        res.Name,
			Description: res.Description,
			MIMEType:    res.MimeType,
		}, s.resourceHandler(res))
	}
}

func (s *Server) resourceHandler(res Resource) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		text, err := s.ReadResource(ctx, req.Params.URI)
		if err != nil {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: res.MimeType,
				Text:     text,
			}},
		}, nil
	}
}
