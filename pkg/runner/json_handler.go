package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
)

// Request is one JSON-Lines input record. It mirrors the HTTP /chat body.
type Request struct {
	Message string `json:"message"`
}

// Response is one JSON-Lines output record.
type Response struct {
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: enc,
	}
}

// Input implements IOHandler. Each line is either {"message": "..."},
// a JSON string, or plain text. Blank lines are skipped.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		line, err := h.Reader.ReadString('\n')
		text := strings.TrimSpace(line)
		if text == "" {
			if err != nil {
				return "", err
			}
			continue
		}

		var req Request
		if json.Unmarshal([]byte(text), &req) == nil {
			return req.Message, nil
		}
		var s string
		if json.Unmarshal([]byte(text), &s) == nil {
			return s, nil
		}
		return text, nil
	}
}

// Output implements IOHandler.
func (h *JSONHandler) Output(ctx context.Context, reply string) error {
	return h.Encoder.Encode(Response{Response: reply})
}

// Fail implements IOHandler.
func (h *JSONHandler) Fail(ctx context.Context, err error) error {
	return h.Encoder.Encode(Response{Error: err.Error()})
}
