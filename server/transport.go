package server

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONRPCMessage represents a JSON-RPC 2.0 message.
type JSONRPCMessage struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      any                 `json:"id,omitempty"`
	Method  string              `json:"method,omitempty"`
	Params  jsoniter.RawMessage `json:"params,omitempty"`
	Result  any                 `json:"result,omitempty"`
	Error   *RPCError           `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// ErrMalformedMessage wraps transport-level decode failures. The serve loop
// answers them with a parse error and keeps reading; only I/O errors end the
// session.
var ErrMalformedMessage = errors.New("malformed message")

// Transport frames JSON-RPC messages over a communication channel.
type Transport interface {
	ReadMessage() (*JSONRPCMessage, error)
	WriteMessage(msg *JSONRPCMessage) error
	Close() error
}

// StdioTransport frames one JSON-RPC message per line over stdin/stdout.
type StdioTransport struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewStdioTransport creates a transport over the process stdio.
func NewStdioTransport() *StdioTransport {
	return &StdioTransport{
		reader: bufio.NewReader(os.Stdin),
		writer: os.Stdout,
	}
}

// ReadMessage reads and parses one line, skipping blank lines. A final line
// without a trailing newline still carries a message; the EOF surfaces on
// the next read. Decode failures are reported as ErrMalformedMessage so the
// caller can answer and continue.
func (t *StdioTransport) ReadMessage() (*JSONRPCMessage, error) {
	for {
		line, err := t.reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) == 0 {
			if err != nil {
				return nil, err
			}
			continue
		}

		var msg JSONRPCMessage
		if uerr := json.Unmarshal(line, &msg); uerr != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, uerr)
		}
		return &msg, nil
	}
}

// WriteMessage writes one message followed by a newline.
func (t *StdioTransport) WriteMessage(msg *JSONRPCMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling message: %w", err)
	}

	data = append(data, '\n')
	if _, err := t.writer.Write(data); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	return nil
}

// Close is a no-op; the process owns stdio.
func (t *StdioTransport) Close() error { return nil }
