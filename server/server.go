package server

import (
	"context"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/hays/affinity-mcp/observability"
)

// ProtocolVersion is the MCP protocol revision this server speaks.
const ProtocolVersion = "2024-11-05"

// Server dispatches JSON-RPC requests to the tool registry over a transport.
// One failed call never terminates the serve loop.
type Server struct {
	transport Transport
	registry  *Registry
	name      string
	version   string
	obs       observability.Observer
}

// New creates a server for one transport session.
func New(name, version string, transport Transport, registry *Registry, obs observability.Observer) *Server {
	return &Server{
		transport: transport,
		registry:  registry,
		name:      name,
		version:   version,
		obs:       obs,
	}
}

// Run reads and handles messages until the transport reports an I/O error
// (io.EOF on client disconnect) or ctx is cancelled. Malformed messages are
// answered with a parse error and the loop continues.
func (s *Server) Run(ctx context.Context) error {
	s.obs.OnEvent(ctx, observability.Event{
		Type:   "rpc.serving",
		Level:  observability.LevelInfo,
		Source: "server",
		Data:   map[string]any{"name": s.name, "version": s.version},
	})

	// Reads happen on their own goroutine so a blocking transport (stdin
	// in particular) cannot outlive cancellation.
	type readResult struct {
		msg *JSONRPCMessage
		err error
	}
	reads := make(chan readResult)
	go func() {
		for {
			msg, err := s.transport.ReadMessage()
			select {
			case reads <- readResult{msg: msg, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil && !errors.Is(err, ErrMalformedMessage) {
				return
			}
		}
	}()

	for {
		var r readResult
		select {
		case <-ctx.Done():
			s.obs.OnEvent(ctx, observability.Event{
				Type:   "rpc.shutdown",
				Level:  observability.LevelInfo,
				Source: "server",
				Data:   map[string]any{"reason": ctx.Err().Error()},
			})
			return ctx.Err()
		case r = <-reads:
		}

		if errors.Is(r.err, ErrMalformedMessage) {
			s.obs.OnEvent(ctx, observability.Event{
				Type:   "rpc.parse_error",
				Level:  observability.LevelWarn,
				Source: "server",
				Data:   map[string]any{"error": r.err.Error()},
			})
			s.writeError(nil, CodeParseError, "Parse error", nil)
			continue
		}
		if r.err != nil {
			return r.err
		}

		if err := s.handleMessage(ctx, r.msg); err != nil {
			s.obs.OnEvent(ctx, observability.Event{
				Type:   "rpc.handle_error",
				Level:  observability.LevelError,
				Source: "server",
				Data:   map[string]any{"method": r.msg.Method, "error": err.Error()},
			})
			s.writeError(r.msg.ID, CodeInternalError, "Internal error", nil)
		}
	}
}

func (s *Server) handleMessage(ctx context.Context, msg *JSONRPCMessage) error {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(ctx, msg)
	case "initialized", "notifications/initialized":
		// Client acknowledgment, no response.
		return nil
	case "tools/list":
		return s.handleToolsList(ctx, msg)
	case "tools/call":
		return s.handleToolsCall(ctx, msg)
	default:
		if msg.ID != nil {
			return s.writeError(msg.ID, CodeMethodNotFound, fmt.Sprintf("Method not found: %s", msg.Method), nil)
		}
		// Notifications for unknown methods get no response.
		return nil
	}
}

// --- initialize ---

// InitializeResult is the handshake response.
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
	Capabilities    Capabilities `json:"capabilities"`
}

// ServerInfo identifies this server to the client.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Capabilities advertises server features.
type Capabilities struct {
	Tools ToolsCapability `json:"tools"`
}

// ToolsCapability describes the tool surface. The catalog is static, so
// listChanged notifications are never emitted.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

// handleInitialize performs the handshake. Clients use either camelCase or
// snake_case for protocolVersion and clientInfo; both spellings are
// normalized here, at the dispatcher boundary, rather than at every lookup.
func (s *Server) handleInitialize(ctx context.Context, msg *JSONRPCMessage) error {
	fields, err := paramFields(msg.Params)
	if err != nil {
		return s.writeError(msg.ID, CodeInvalidParams, "invalid initialize params", nil)
	}

	rawVersion, ok := pickField(fields, "protocolVersion", "protocol_version")
	if !ok {
		return s.writeError(msg.ID, CodeInvalidParams, "missing protocolVersion", nil)
	}
	var clientProtocol string
	if err := json.Unmarshal(rawVersion, &clientProtocol); err != nil {
		return s.writeError(msg.ID, CodeInvalidParams, "protocolVersion must be a string", nil)
	}

	clientName := "unknown"
	if rawInfo, ok := pickField(fields, "clientInfo", "client_info"); ok {
		var info struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(rawInfo, &info); err == nil && info.Name != "" {
			clientName = info.Name
		}
	}

	s.obs.OnEvent(ctx, observability.Event{
		Type:   "rpc.initialize",
		Level:  observability.LevelDebug,
		Source: "server",
		Data:   map[string]any{"protocol_version": clientProtocol, "client_name": clientName},
	})

	return s.writeResult(msg.ID, InitializeResult{
		ProtocolVersion: ProtocolVersion,
		ServerInfo:      ServerInfo{Name: s.name, Version: s.version},
		Capabilities:    Capabilities{Tools: ToolsCapability{ListChanged: false}},
	})
}

// --- tools/list ---

func (s *Server) handleToolsList(ctx context.Context, msg *JSONRPCMessage) error {
	tools := s.registry.List()

	s.obs.OnEvent(ctx, observability.Event{
		Type:   "rpc.tools_list",
		Level:  observability.LevelDebug,
		Source: "server",
		Data:   map[string]any{"tool_count": len(tools)},
	})

	result := struct {
		Tools []Descriptor `json:"tools"`
	}{Tools: tools}
	return s.writeResult(msg.ID, result)
}

// --- tools/call ---

// handleToolsCall routes a call to its registered handler. Handler failures
// and unknown tools are answered with a generic internal error; the specific
// cause is recorded through the observer only, never sent to the caller.
func (s *Server) handleToolsCall(ctx context.Context, msg *JSONRPCMessage) error {
	var params ToolsCallParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return s.writeError(msg.ID, CodeInvalidParams, "invalid tools/call params", nil)
		}
	}
	if params.Name == "" {
		return s.writeError(msg.ID, CodeInvalidParams, "missing tool name", nil)
	}

	handler, ok := s.registry.Resolve(params.Name)
	if !ok {
		s.obs.OnEvent(ctx, observability.Event{
			Type:   "rpc.unknown_tool",
			Level:  observability.LevelError,
			Source: "server",
			Data:   map[string]any{"tool_name": params.Name},
		})
		return s.writeError(msg.ID, CodeInternalError, "Internal error", nil)
	}

	result, err := handler(ctx, params.Arguments)
	if err != nil {
		s.obs.OnEvent(ctx, observability.Event{
			Type:   "rpc.tool_failed",
			Level:  observability.LevelError,
			Source: "server",
			Data:   map[string]any{"tool_name": params.Name, "error": err.Error()},
		})
		return s.writeError(msg.ID, CodeInternalError, "Internal error", nil)
	}

	s.obs.OnEvent(ctx, observability.Event{
		Type:   "rpc.tool_called",
		Level:  observability.LevelDebug,
		Source: "server",
		Data:   map[string]any{"tool_name": params.Name},
	})

	return s.writeResult(msg.ID, result)
}

// --- helpers ---

func (s *Server) writeResult(id, result any) error {
	return s.transport.WriteMessage(&JSONRPCMessage{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

func (s *Server) writeError(id any, code int, message string, data any) error {
	return s.transport.WriteMessage(&JSONRPCMessage{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &RPCError{Code: code, Message: message, Data: data},
	})
}

func paramFields(params jsoniter.RawMessage) (map[string]jsoniter.RawMessage, error) {
	fields := map[string]jsoniter.RawMessage{}
	if len(params) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(params, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// pickField returns the first present spelling of a semantic field.
func pickField(fields map[string]jsoniter.RawMessage, names ...string) (jsoniter.RawMessage, bool) {
	for _, name := range names {
		if raw, ok := fields[name]; ok {
			return raw, true
		}
	}
	return nil, false
}
