package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// JSON-RPC 2.0 error codes.
const (
	ErrParseCode      = -32700
	ErrInvalidReq     = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternal       = -32603

	// Application errors.
	ErrNotFound = -32004
	ErrConflict = -32009
)

// MaxRequestBytes caps the size of a JSON-RPC request body.
const MaxRequestBytes = 1 << 20

const protocolVersion = "2.0"

var nullID = json.RawMessage("null")

// Request is a single JSON-RPC 2.0 call. ID is kept verbatim so it echoes
// back exactly as the client sent it.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

// IsNotification reports whether the caller expects no response.
func (r Request) IsNotification() bool {
	return len(r.ID) == 0
}

// Response is a JSON-RPC 2.0 reply. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc %d: %s", e.Code, e.Message)
}

// NewError builds an error object.
func NewError(code int, message string, data any) *Error {
	return &Error{Code: code, Message: message, Data: data}
}

// ParseRequest decodes one request from body and checks it against the
// JSON-RPC 2.0 request rules. Failures come back as ready-to-send errors.
func ParseRequest(body io.Reader) (Request, *Error) {
	raw, err := io.ReadAll(io.LimitReader(body, MaxRequestBytes+1))
	if err != nil {
		return Request{}, NewError(ErrParseCode, "reading request body", err.Error())
	}
	if len(raw) > MaxRequestBytes {
		return Request{}, NewError(ErrInvalidReq, "request body too large", nil)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return Request{}, NewError(ErrInvalidReq, "batch requests are not supported", nil)
	}

	var req Request
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return Request{}, NewError(ErrParseCode, "parse error", err.Error())
	}
	if err := validateRequest(req); err != nil {
		return Request{}, NewError(ErrInvalidReq, "invalid request", err.Error())
	}
	return req, nil
}

func validateRequest(req Request) error {
	if req.JSONRPC != protocolVersion {
		return fmt.Errorf("jsonrpc must be %q", protocolVersion)
	}
	if req.Method == "" {
		return errors.New("method is required")
	}
	if strings.HasPrefix(req.Method, "rpc.") {
		return fmt.Errorf("method %q is reserved", req.Method)
	}
	if p := bytes.TrimSpace(req.Params); len(p) > 0 && p[0] != '{' && p[0] != '[' && !bytes.Equal(p, nullID) {
		return errors.New("params must be an object or array")
	}
	if id := bytes.TrimSpace(req.ID); len(id) > 0 {
		switch id[0] {
		case '"', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'n':
		default:
			return errors.New("id must be a string, number or null")
		}
	}
	return nil
}

func writeResult(w http.ResponseWriter, id json.RawMessage, result any) {
	if result == nil {
		result = struct{}{}
	}
	writeResponse(w, Response{JSONRPC: protocolVersion, Result: result, ID: id})
}

func writeError(w http.ResponseWriter, id json.RawMessage, rpcErr *Error) {
	writeResponse(w, Response{JSONRPC: protocolVersion, Error: rpcErr, ID: id})
}

func writeResponse(w http.ResponseWriter, resp Response) {
	if len(resp.ID) == 0 {
		resp.ID = nullID
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
