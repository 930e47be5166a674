package transport

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/vishalmysore/ucpexample/application/params"
	"github.com/vishalmysore/ucpexample/domain/entities"
	domainerrors "github.com/vishalmysore/ucpexample/domain/errors"
	"github.com/vishalmysore/ucpexample/domain/ports"
)

// DefaultMaxBodySize limits request bodies to 1MB.
const DefaultMaxBodySize = 1 << 20

// handlerConfig holds configuration shared by both adapters.
type handlerConfig struct {
	logger      *slog.Logger
	prefix      string
	maxBodySize int64
}

func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		logger:      slog.Default(),
		prefix:      "/capabilities",
		maxBodySize: DefaultMaxBodySize,
	}
}

// Option configures a RESTHandler or RPCHandler.
type Option func(*handlerConfig)

// WithLogger sets the adapter logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *handlerConfig) {
		c.logger = logger
	}
}

// WithPrefix sets the REST route prefix (default "/capabilities").
func WithPrefix(prefix string) Option {
	return func(c *handlerConfig) {
		c.prefix = "/" + strings.Trim(prefix, "/")
	}
}

// WithMaxBodySize limits request bodies.
func WithMaxBodySize(n int64) Option {
	return func(c *handlerConfig) {
		c.maxBodySize = n
	}
}

// RESTHandler serves REST-declared capabilities:
//
//	GET  {prefix}                list REST capabilities
//	GET  {prefix}/{name}         invoke with query parameters
//	POST {prefix}/{name}         invoke with form values or a JSON body
//	GET|POST {descriptor.Path}   the same, under the capability's route alias
//
// A JSON array body is passed positionally; a JSON object, form or query is
// matched to the signature by parameter name.
type RESTHandler struct {
	dispatcher ports.Dispatcher
	catalog    ports.CapabilityCatalog
	mux        *http.ServeMux
	config     handlerConfig
}

// NewRESTHandler builds the routes from catalog, which should be sealed:
// capabilities registered afterwards get no route alias.
func NewRESTHandler(dispatcher ports.Dispatcher, catalog ports.CapabilityCatalog, opts ...Option) *RESTHandler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &RESTHandler{
		dispatcher: dispatcher,
		catalog:    catalog,
		mux:        http.NewServeMux(),
		config:     cfg,
	}

	h.mux.HandleFunc("GET "+cfg.prefix, h.handleList)
	h.mux.HandleFunc("GET "+cfg.prefix+"/{name}", h.handleNamed)
	h.mux.HandleFunc("POST "+cfg.prefix+"/{name}", h.handleNamed)

	aliases := make(map[string]string)
	for _, desc := range h.restCapabilities() {
		if desc.Path == "" {
			continue
		}
		if desc.Path == cfg.prefix || strings.HasPrefix(desc.Path, cfg.prefix+"/") || strings.ContainsAny(desc.Path, "{} ") {
			cfg.logger.Warn("ignoring unusable route alias", "capability", desc.QualifiedName, "path", desc.Path)
			continue
		}
		if prev, taken := aliases[desc.Path]; taken {
			cfg.logger.Warn("route alias already taken", "capability", desc.QualifiedName, "path", desc.Path, "owner", prev)
			continue
		}
		aliases[desc.Path] = desc.QualifiedName

		name := desc.QualifiedName
		invoke := func(w http.ResponseWriter, r *http.Request) { h.invoke(w, r, name) }
		h.mux.HandleFunc("GET "+desc.Path, invoke)
		h.mux.HandleFunc("POST "+desc.Path, invoke)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *RESTHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *RESTHandler) restCapabilities() []entities.CapabilityDescriptor {
	var out []entities.CapabilityDescriptor
	for _, g := range h.catalog.Groups() {
		for _, d := range h.catalog.ListByGroup(g.GroupName) {
			if d.DeclaredTransport == entities.TransportREST {
				out = append(out, d)
			}
		}
	}
	return out
}

func (h *RESTHandler) handleList(w http.ResponseWriter, r *http.Request) {
	caps := h.restCapabilities()
	if caps == nil {
		caps = []entities.CapabilityDescriptor{}
	}
	if err := writeJSON(w, http.StatusOK, caps); err != nil {
		h.fail(w, r, err)
	}
}

func (h *RESTHandler) handleNamed(w http.ResponseWriter, r *http.Request) {
	h.invoke(w, r, r.PathValue("name"))
}

func (h *RESTHandler) invoke(w http.ResponseWriter, r *http.Request, name string) {
	ctx := r.Context()

	desc, handler, ok := h.catalog.Resolve(name)
	if !ok || desc.DeclaredTransport != entities.TransportREST {
		// NONE and RPC capabilities do not exist as far as REST is concerned.
		h.fail(w, r, &domainerrors.CapabilityNotFoundError{Name: name})
		return
	}

	args, err := h.readArgs(r, handler.Signature())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	env, err := h.dispatcher.Dispatch(ctx, name, args)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, env); err != nil {
		h.fail(w, r, encodeFailure(name, err))
	}
}

func (h *RESTHandler) readArgs(r *http.Request, sig entities.Signature) ([]any, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, h.config.maxBodySize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if r.Method == http.MethodPost && mediaType == "application/json" {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, &requestError{err: err}
		}
		return argsFromJSON(body, sig)
	}

	if err := r.ParseForm(); err != nil {
		return nil, &requestError{err: err}
	}
	return params.Order(sig, params.FromValues(r.Form))
}

func (h *RESTHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	resp := NewErrorResponse(err)
	level := slog.LevelDebug
	if resp.Code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.config.logger.Log(r.Context(), level, "rest call failed",
		"method", r.Method, "path", r.URL.Path, "status", resp.Code, "error", err)
	if err := writeJSON(w, resp.Code, resp); err != nil {
		h.config.logger.ErrorContext(r.Context(), "failed to encode error response", "error", err)
		http.Error(w, resp.Message, resp.Code)
	}
}

// writeJSON encodes v before touching the response, so an unencodable value
// leaves w untouched and the caller can still report the failure.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
	return nil
}

