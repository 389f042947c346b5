package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/desktop-recorder/internal/eventlog"
	"github.com/mj1618/desktop-recorder/internal/model"
	"github.com/mj1618/desktop-recorder/internal/output"
	"github.com/mj1618/desktop-recorder/internal/recorder"
	"github.com/mj1618/desktop-recorder/internal/version"
	"gopkg.in/yaml.v3"
)

// mcpServer wraps the MCP server with the control-tree cache.
type mcpServer struct {
	cache  *mcpTreeCache
	logger *slog.Logger
	mcp    *mcpserver.MCPServer
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
}

// newMCPServer creates and configures an MCP server with all recorder tools.
func newMCPServer(cfg MCPConfig) *mcpServer {
	s := &mcpServer{
		cache:  newMCPTreeCache(cfg.CacheTTL),
		logger: appLogger,
	}
	s.mcp = mcpserver.NewMCPServer(
		"desktop-recorder",
		version.Version,
	)
	s.registerTools()
	return s
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(cfg MCPConfig) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *mcpServer) registerTools() {
	// generate_script
	s.mcp.AddTool(
		mcp.NewTool("generate_script",
			mcp.WithDescription("Generate pywinauto code from a captured event log. Events are a list of records: {kind: key|mouse|app|property, ...}."),
			mcp.WithString("events", mcp.Description("Inline event log document (YAML or JSON, see format)")),
			mcp.WithString("events_path", mcp.Description("Path to an event log file (alternative to events)")),
			mcp.WithString("tree", mcp.Description("Inline control-tree snapshot document")),
			mcp.WithString("tree_path", mcp.Description("Path to a control-tree snapshot file (alternative to tree)")),
			mcp.WithString("format", mcp.Description("Format of inline documents: yaml (default) or json")),
			mcp.WithBoolean("key_only", mcp.Description("Always emit [u'name'] accessors")),
			mcp.WithBoolean("scale_click", mcp.Description("Emit clicks relative to the element rectangle")),
		),
		s.handleGenerateScript,
	)

	// match_pattern
	s.mcp.AddTool(
		mcp.NewTool("match_pattern",
			mcp.WithDescription("Test whether an event template matches an event log window. Both are record lists with at most one key/mouse record."),
			mcp.WithString("log", mcp.Description("Inline record list of the observed window"), mcp.Required()),
			mcp.WithString("template", mcp.Description("Inline record list of the template"), mcp.Required()),
			mcp.WithString("tree", mcp.Description("Inline control-tree snapshot used to resolve element ids")),
			mcp.WithString("tree_path", mcp.Description("Path to a control-tree snapshot file")),
			mcp.WithString("format", mcp.Description("Format of inline documents: yaml (default) or json")),
		),
		s.handleMatchPattern,
	)

	// access_name
	s.mcp.AddTool(
		mcp.NewTool("access_name",
			mcp.WithDescription("Render the pywinauto accessor for an element name, or for an element of a control tree"),
			mcp.WithString("name", mcp.Description("Element name to render")),
			mcp.WithNumber("element", mcp.Description("Element id to resolve through the control tree")),
			mcp.WithString("tree", mcp.Description("Inline control-tree snapshot")),
			mcp.WithString("tree_path", mcp.Description("Path to a control-tree snapshot file")),
			mcp.WithString("format", mcp.Description("Format of inline documents: yaml (default) or json")),
			mcp.WithBoolean("key_only", mcp.Description("Always emit [u'name'] accessors")),
		),
		s.handleAccessName,
	)
}

// resultToText serializes a tool result to YAML for the MCP response.
func resultToText(v interface{}) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func inlineFormat(params map[string]interface{}) eventlog.Format {
	if strings.EqualFold(StringParam(params, "format", ""), "json") {
		return eventlog.FormatJSON
	}
	return eventlog.FormatYAML
}

// treeParam resolves the control tree from tree_path (cached) or inline tree.
// Both absent yields a nil tree.
func (s *mcpServer) treeParam(params map[string]interface{}) (*model.Tree, error) {
	if path := StringParam(params, "tree_path", ""); path != "" {
		return s.cache.readTree(path)
	}
	if doc := StringParam(params, "tree", ""); doc != "" {
		return eventlog.DecodeTree(strings.NewReader(doc), inlineFormat(params))
	}
	return nil, nil
}

func (s *mcpServer) handleGenerateScript(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	tree, err := s.treeParam(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var events []recorder.Event
	switch {
	case StringParam(params, "events_path", "") != "":
		events, err = eventlog.Load(StringParam(params, "events_path", ""), tree)
	case StringParam(params, "events", "") != "":
		events, err = eventlog.DecodeString(StringParam(params, "events", ""), inlineFormat(params), tree)
	default:
		return mcp.NewToolResultError("events or events_path is required"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sessionID, lines := generateScript(tree, events, recorderConfig(params), s.logger)
	s.logger.Debug("generate_script", "session", sessionID, "events", len(events), "lines", len(lines))
	if lines == nil {
		lines = []string{}
	}
	return mcp.NewToolResultText(resultToText(output.ScriptResult{
		Session: sessionID,
		Events:  len(events),
		Lines:   lines,
	})), nil
}

// patternResult is the match_pattern tool output.
type patternResult struct {
	Matched   bool     `yaml:"matched"`
	Hook      string   `yaml:"hook,omitempty"`
	AppEvents []string `yaml:"app_events,omitempty"`
}

func (s *mcpServer) handleMatchPattern(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()

	tree, err := s.treeParam(params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format := inlineFormat(params)
	observed, err := eventlog.DecodePattern(StringParam(params, "log", ""), format, tree)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("log: %v", err)), nil
	}
	template, err := eventlog.DecodePattern(StringParam(params, "template", ""), format, tree)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("template: %v", err)), nil
	}

	bound, ok := observed.Subpattern(template)
	result := patternResult{Matched: ok}
	if ok {
		if bound.Hook != nil {
			result.Hook = bound.Hook.String()
		}
		for _, ev := range bound.AppEvents {
			result.AppEvents = append(result.AppEvents, ev.String())
		}
	}
	return mcp.NewToolResultText(resultToText(result)), nil
}

// accessResult is the access_name tool output.
type accessResult struct {
	Name       string `yaml:"name"`
	Identifier bool   `yaml:"identifier"`
	Access     string `yaml:"access"`
	Window     string `yaml:"window,omitempty"`
	Item       string `yaml:"item,omitempty"`
}

func (s *mcpServer) handleAccessName(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	keyOnly := BoolParam(params, "key_only", appConfig.Recorder.KeyOnly)
	name := StringParam(params, "name", "")
	id := IntParam(params, "element", -1)

	var result accessResult
	if id >= 0 {
		tree, err := s.treeParam(params)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		node := tree.Node(id)
		if node == nil {
			return mcp.NewToolResultError(fmt.Sprintf("element %d not in control tree", id)), nil
		}
		if name == "" {
			name = node.PreferredName
		}
		result.Window, _ = recorder.WindowAccess(tree, node, keyOnly)
		result.Item, _ = recorder.ItemAccess(tree, node, keyOnly)
	}
	if name == "" {
		return mcp.NewToolResultError("name or element is required"), nil
	}
	name = recorder.NormalizeName(name)
	result.Name = name
	result.Identifier = recorder.IsIdentifier(name)
	result.Access = recorder.AccessName(name, keyOnly)
	return mcp.NewToolResultText(resultToText(result)), nil
}
