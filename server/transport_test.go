package server

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func lineTransport(input string) *StdioTransport {
	return &StdioTransport{
		reader: bufio.NewReader(strings.NewReader(input)),
		writer: &bytes.Buffer{},
	}
}

func TestStdioReadMessageWithoutTrailingNewline(t *testing.T) {
	tr := lineTransport(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)

	msg, err := tr.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	if msg.Method != "tools/list" {
		t.Errorf("method = %q, want tools/list", msg.Method)
	}

	if _, err := tr.ReadMessage(); err != io.EOF {
		t.Errorf("second read returned %v, want io.EOF", err)
	}
}

func TestStdioReadMessageSkipsBlankLines(t *testing.T) {
	tr := lineTransport("\n  \n{\"jsonrpc\":\"2.0\",\"id\":1,\"method\":\"initialize\"}\n")

	msg, err := tr.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}
	if msg.Method != "initialize" {
		t.Errorf("method = %q, want initialize", msg.Method)
	}
}

func TestStdioReadMessageMalformedLine(t *testing.T) {
	tr := lineTransport("{not json}\n{\"jsonrpc\":\"2.0\",\"id\":1,\"method\":\"tools/list\"}\n")

	if _, err := tr.ReadMessage(); !errors.Is(err, ErrMalformedMessage) {
		t.Fatalf("got %v, want ErrMalformedMessage", err)
	}

	msg, err := tr.ReadMessage()
	if err != nil {
		t.Fatalf("read after malformed line failed: %v", err)
	}
	if msg.Method != "tools/list" {
		t.Errorf("method = %q, want tools/list", msg.Method)
	}
}
