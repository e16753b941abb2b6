package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
	toolx "github.com/tanpawarit/Chative-Voice-Desk/agent/tool"
	logx "github.com/tanpawarit/Chative-Voice-Desk/pkg/logger"
)

const (
	serverName = "chative-voice-desk"

	// StdioSessionID identifies the single conversation carried by a stdio transport.
	StdioSessionID = "stdio"
)

// Backend is the tool surface of one assistant.
type Backend interface {
	contractx.ToolGateway
	Assistant() contractx.AssistantKind
	Specs() []toolx.Spec
	EndSession(ctx context.Context, sessionID string) error
}

// toolEntry pairs a tool definition with its handler.
type toolEntry struct {
	def     mcp.Tool
	handler server.ToolHandlerFunc
}

// Handlers forwards MCP tool calls to the backend.
type Handlers struct {
	backend Backend
	log     zerolog.Logger
}

func NewHandlers(backend Backend) *Handlers {
	return &Handlers{backend: backend, log: logx.For("mcp")}
}

// NewServer registers exactly the tools of the backend's assistant.
func NewServer(backend Backend, version string) *server.MCPServer {
	logger := logx.For("mcp")
	hooks := &server.Hooks{}
	hooks.AddOnUnregisterSession(func(ctx context.Context, session server.ClientSession) {
		if err := backend.EndSession(ctx, session.SessionID()); err != nil {
			logger.Warn().Err(err).Str("session_id", session.SessionID()).Msg("end session failed")
		}
	})

	s := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(fmt.Sprintf("Tools of the %s assistant.", backend.Assistant())),
		server.WithHooks(hooks),
	)

	h := NewHandlers(backend)
	for _, entry := range h.registry() {
		s.AddTool(entry.def, entry.handler)
	}

	return s
}

// Run serves the backend on stdin and stdout.
func Run(backend Backend, version string) error {
	return server.ServeStdio(NewServer(backend, version))
}

// RunHTTP serves the backend over streamable HTTP; every client session gets its own state.
func RunHTTP(ctx context.Context, backend Backend, version, addr string) error {
	httpServer := server.NewStreamableHTTPServer(NewServer(backend, version))

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return httpServer.Shutdown(context.Background())
	}
}

func (h *Handlers) registry() map[string]toolEntry {
	specs := h.backend.Specs()
	entries := make(map[string]toolEntry, len(specs))
	for _, spec := range specs {
		entries[spec.Name] = toolEntry{
			def:     ToolDef(spec),
			handler: h.handle(spec.Name),
		}
	}
	return entries
}

// ToolDef converts a tool spec into its MCP definition.
func ToolDef(spec toolx.Spec) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(spec.Desc)}
	for _, p := range spec.Params {
		propOpts := []mcp.PropertyOption{mcp.Description(p.Desc)}
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		if len(p.Enum) > 0 {
			propOpts = append(propOpts, mcp.Enum(p.Enum...))
		}

		switch p.Kind {
		case toolx.KindInteger, toolx.KindNumber:
			opts = append(opts, mcp.WithNumber(p.Name, propOpts...))
		case toolx.KindStringList:
			propOpts = append(propOpts, mcp.WithStringItems())
			opts = append(opts, mcp.WithArray(p.Name, propOpts...))
		default:
			opts = append(opts, mcp.WithString(p.Name, propOpts...))
		}
	}
	return mcp.NewTool(spec.Name, opts...)
}

func (h *Handlers) handle(tool string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := decode[map[string]any](req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		res, err := h.backend.Execute(ctx, sessionIDFrom(ctx), contractx.ToolRequest{Tool: tool, Args: args})
		if err != nil {
			h.log.Error().Err(err).Str("tool", tool).Msg("tool call failed")
			return mcp.NewToolResultError("The tool could not run right now. Please try again."), nil
		}

		// Domain failures are normal replies for the model to relay.
		return mcp.NewToolResultText(res.Output), nil
	}
}

func sessionIDFrom(ctx context.Context) string {
	if session := server.ClientSessionFromContext(ctx); session != nil {
		if id := strings.TrimSpace(session.SessionID()); id != "" {
			return id
		}
	}
	return StdioSessionID
}

// decode unmarshals MCP request arguments into a typed value.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return result, fmt.Errorf("marshal args: %w", err)
	}
	if err := json.Unmarshal(b, &result); err != nil {
		return result, fmt.Errorf("unmarshal args: %w", err)
	}
	return result, nil
}
