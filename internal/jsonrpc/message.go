// Package jsonrpc implements the JSON-RPC 2.0 message framing spoken by
// the MCP endpoint.
package jsonrpc

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Version is the only JSON-RPC protocol version the client speaks.
const Version = "2.0"

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Request is a JSON-RPC 2.0 request. IDs are UUID strings so concurrent
// sessions against the same endpoint can never collide.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// NewRequest builds a request for the given method with a fresh identifier.
func NewRequest(method string, params any) Request {
	return Request{
		JSONRPC: Version,
		ID:      uuid.NewString(),
		Method:  method,
		Params:  params,
	}
}

// ErrorInfo carries the error object of a failed JSON-RPC call.
type ErrorInfo struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *ErrorInfo) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// Response is a JSON-RPC 2.0 response. The ID is kept raw because servers
// may echo either a string or a number.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

// ParseResponse decodes and validates a raw response body.
func ParseResponse(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("invalid JSON-RPC message: %w", err)
	}
	if resp.JSONRPC != Version {
		return nil, fmt.Errorf("unsupported JSON-RPC version: %s", resp.JSONRPC)
	}
	return &resp, nil
}

// Err surfaces the response error object, if any.
func (r *Response) Err() error {
	if r.Error != nil {
		return r.Error
	}
	return nil
}

// DecodeResult unmarshals the result payload into out. A response carrying
// an error object never decodes.
func (r *Response) DecodeResult(out any) error {
	if r.Error != nil {
		return r.Error
	}
	if len(r.Result) == 0 {
		return fmt.Errorf("response has no result")
	}
	return json.Unmarshal(r.Result, out)
}
