package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/vishalmysore/ucpexample/domain/entities"
	domainerrors "github.com/vishalmysore/ucpexample/domain/errors"
	"github.com/vishalmysore/ucpexample/domain/ports"
)

// Request is a JSON-RPC 2.0 request. A request without an id is a
// notification and gets no response.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

// Response is a JSON-RPC 2.0 response. Result carries the ResultEnvelope.
type Response struct {
	Result  *entities.ResultEnvelope `json:"result,omitempty"`
	Error   *RPCError                `json:"error,omitempty"`
	JSONRPC string                   `json:"jsonrpc"`
	ID      json.RawMessage          `json:"id"`
}

// RPCError is the error member of a JSON-RPC response.
type RPCError struct {
	Data    *entities.ErrorDetail `json:"data,omitempty"`
	Message string                `json:"message"`
	Code    int                   `json:"code"`
}

// RPCHandler serves RPC-declared capabilities over JSON-RPC 2.0. The method
// is the capability's qualified name; params may be positional or named.
// Batches are supported.
type RPCHandler struct {
	dispatcher ports.Dispatcher
	resolver   ports.CapabilityResolver
	config     handlerConfig
}

// NewRPCHandler creates an RPCHandler.
func NewRPCHandler(dispatcher ports.Dispatcher, resolver ports.CapabilityResolver, opts ...Option) *RPCHandler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &RPCHandler{dispatcher: dispatcher, resolver: resolver, config: cfg}
}

var nullID = json.RawMessage("null")

// ServeHTTP implements http.Handler.
func (h *RPCHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.config.maxBodySize))
	if err != nil {
		h.write(ctx, w, errorResponse(nullID, CodeParseError, "failed to read request body", nil))
		return
	}
	body = bytes.TrimSpace(body)

	// Anything that is not JSON is a parse error; JSON of the wrong shape is
	// an invalid request.
	if !json.Valid(body) {
		h.write(ctx, w, errorResponse(nullID, CodeParseError, "parse error: invalid JSON", nil))
		return
	}
	if body[0] == '[' {
		h.serveBatch(ctx, w, body)
		return
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		h.write(ctx, w, errorResponse(nullID, CodeInvalidRequest, "invalid request: "+err.Error(), nil))
		return
	}
	resp, ok := h.handle(ctx, req)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.write(ctx, w, resp)
}

func (h *RPCHandler) serveBatch(ctx context.Context, w http.ResponseWriter, body []byte) {
	var batch []json.RawMessage
	if err := json.Unmarshal(body, &batch); err != nil {
		h.write(ctx, w, errorResponse(nullID, CodeInvalidRequest, "invalid request: "+err.Error(), nil))
		return
	}
	if len(batch) == 0 {
		h.write(ctx, w, errorResponse(nullID, CodeInvalidRequest, "empty batch", nil))
		return
	}

	responses := make([]Response, 0, len(batch))
	for _, raw := range batch {
		var req Request
		if err := json.Unmarshal(raw, &req); err != nil {
			responses = append(responses, errorResponse(nullID, CodeInvalidRequest, "invalid request: "+err.Error(), nil))
			continue
		}
		if resp, ok := h.handle(ctx, req); ok {
			responses = append(responses, resp)
		}
	}

	if len(responses) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.write(ctx, w, responses)
}

// write sends v, or a bare internal error if v cannot be encoded.
func (h *RPCHandler) write(ctx context.Context, w http.ResponseWriter, v any) {
	err := writeJSON(w, http.StatusOK, v)
	if err == nil {
		return
	}
	h.config.logger.ErrorContext(ctx, "failed to encode rpc response", "error", err)
	_ = writeJSON(w, http.StatusOK, errorResponse(nullID, CodeInternalError, "failed to encode response", nil))
}

// handle runs one request. The bool is false for notifications.
func (h *RPCHandler) handle(ctx context.Context, req Request) (Response, bool) {
	notification := req.ID == nil
	id := req.ID
	if id == nil {
		id = nullID
	}

	if req.JSONRPC != "2.0" || req.Method == "" {
		return errorResponse(id, CodeInvalidRequest, `invalid request: jsonrpc must be "2.0" and method set`, nil), !notification
	}

	desc, handler, ok := h.resolver.Resolve(req.Method)
	if !ok || desc.DeclaredTransport != entities.TransportRPC {
		err := &domainerrors.CapabilityNotFoundError{Name: req.Method}
		return h.errorFor(ctx, id, req.Method, err), !notification
	}

	args, err := argsFromJSON(req.Params, handler.Signature())
	if err != nil {
		return h.errorFor(ctx, id, req.Method, err), !notification
	}

	env, err := h.dispatcher.Dispatch(ctx, req.Method, args)
	if err != nil {
		return h.errorFor(ctx, id, req.Method, err), !notification
	}
	if _, err := json.Marshal(env); err != nil {
		return h.errorFor(ctx, id, req.Method, encodeFailure(req.Method, err)), !notification
	}
	return Response{JSONRPC: "2.0", ID: id, Result: &env}, !notification
}

func (h *RPCHandler) errorFor(ctx context.Context, id json.RawMessage, method string, err error) Response {
	code := RPCCode(err)
	level := slog.LevelDebug
	if code == CodeInternalError {
		level = slog.LevelError
	}
	h.config.logger.Log(ctx, level, "rpc call failed", "method", method, "code", code, "error", err)

	var detail *entities.ErrorDetail
	var de domainerrors.DetailedError
	if errors.As(err, &de) {
		detail = de.ToErrorDetail()
	}
	return errorResponse(id, code, err.Error(), detail)
}

func errorResponse(id json.RawMessage, code int, message string, data *entities.ErrorDetail) Response {
	return Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &RPCError{Code: code, Message: message, Data: data},
	}
}
