// Package rpc exposes the oracle service over HTTP using a
// JSON-RPC envelope: {"method": "name", "params": [{...}]}.
package rpc

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LeJamon/goRadixOracle/internal/oracle"
	"github.com/LeJamon/goRadixOracle/internal/rpc/rpc_types"
)

// maxBodySize bounds request bodies.
const maxBodySize = 1 << 20

// Server handles HTTP JSON-RPC requests for the oracle service
type Server struct {
	registry *rpc_types.MethodRegistry
	timeout  time.Duration
	isAdmin  func(ip string) bool
	logger   *slog.Logger
}

// Options configures a Server.
type Options struct {
	// Network is reported by oracle_info.
	Network string
	// Timeout bounds each call. Zero leaves calls bounded by the request only.
	Timeout time.Duration
	// IsAdmin decides whether a peer address gets the admin role. Nil
	// grants admin to loopback peers only.
	IsAdmin func(ip string) bool
	Logger  *slog.Logger
}

// NewServer creates an RPC server backed by svc
func NewServer(svc *oracle.Service, opts Options) *Server {
	if opts.IsAdmin == nil {
		opts.IsAdmin = isLoopback
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	server := &Server{
		registry: rpc_types.NewMethodRegistry(),
		timeout:  opts.Timeout,
		isAdmin:  opts.IsAdmin,
		logger:   opts.Logger.With("component", "rpc"),
	}

	server.registerAllMethods(svc, opts.Network)

	return server
}

// Methods lists the registered method names.
func (s *Server) Methods() []string {
	return s.registry.List()
}

// Request is the JSON-RPC request envelope
type Request struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params,omitempty"`
}

// ServeHTTP implements http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.Method == http.MethodGet {
		s.handleGetRequest(w, r)
		return
	}

	s.handlePostRequest(w, r)
}

// handleGetRequest runs a parameterless command given as ?command=
func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Query().Get("command")
	if method == "" {
		method = "oracle_info"
	}

	ctx := s.newContext(r)
	result, rpcErr := s.executeMethod(method, nil, ctx)

	s.writeResponse(w, map[string]interface{}{"command": method}, result, rpcErr)
}

// handlePostRequest processes POST requests with a JSON-RPC payload
func (s *Server) handlePostRequest(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, nil, "internal", "Failed to read request body")
		return
	}

	var request Request
	if err := json.Unmarshal(body, &request); err != nil {
		s.writeError(w, nil, "jsonInvalid", "Invalid JSON: "+err.Error())
		return
	}

	if request.Method == "" {
		s.writeError(w, nil, "missingCommand", "Missing method field")
		return
	}

	// Params are an array holding one object.
	var params json.RawMessage
	if len(request.Params) > 0 {
		params = request.Params[0]
	}

	ctx := s.newContext(r)

	var paramsMap map[string]interface{}
	if params != nil {
		if err := json.Unmarshal(params, &paramsMap); err == nil {
			if ver, ok := paramsMap["api_version"].(float64); ok {
				ctx.ApiVersion = int(ver)
			}
		}
	}

	result, rpcErr := s.executeMethod(request.Method, params, ctx)

	requestObj := map[string]interface{}{"command": request.Method}
	for k, v := range paramsMap {
		requestObj[k] = v
	}

	s.writeResponse(w, requestObj, result, rpcErr)
}

func (s *Server) newContext(r *http.Request) *rpc_types.RpcContext {
	// Role comes from the socket peer; forwarding headers only feed ClientIP.
	admin := s.isAdmin(remoteHost(r))
	role := rpc_types.RoleGuest
	if admin {
		role = rpc_types.RoleAdmin
	}
	return &rpc_types.RpcContext{
		Context:    r.Context(),
		Role:       role,
		ApiVersion: rpc_types.DefaultApiVersion,
		IsAdmin:    admin,
		ClientIP:   getClientIP(r),
	}
}

// executeMethod executes an RPC method with the given parameters
func (s *Server) executeMethod(method string, params json.RawMessage, ctx *rpc_types.RpcContext) (interface{}, *rpc_types.RpcError) {
	handler, exists := s.registry.Get(method)
	if !exists {
		return nil, rpc_types.RpcErrorMethodNotFound(method)
	}

	if ctx.Role < handler.RequiredRole() {
		s.logger.Warn("untrusted call refused", "method", method, "client", ctx.ClientIP)
		return nil, rpc_types.RpcErrorCommandUntrusted(method)
	}

	supportedVersions := handler.SupportedApiVersions()
	if len(supportedVersions) > 0 {
		supported := false
		for _, version := range supportedVersions {
			if ctx.ApiVersion == version {
				supported = true
				break
			}
		}
		if !supported {
			return nil, rpc_types.RpcErrorInvalidApiVersion(strconv.Itoa(ctx.ApiVersion))
		}
	}

	if s.timeout > 0 {
		c, cancel := context.WithTimeout(ctx.Context, s.timeout)
		defer cancel()
		ctx.Context = c
	}

	start := time.Now()
	result, rpcErr := handler.Handle(ctx, params)
	if rpcErr != nil {
		s.logger.Debug("call failed", "method", method, "error", rpcErr.ErrorString, "elapsed", time.Since(start))
	} else {
		s.logger.Debug("call", "method", method, "elapsed", time.Since(start))
	}
	return result, rpcErr
}

// writeResponse writes the response envelope. result.status is
// "success" or "error".
func (s *Server) writeResponse(w http.ResponseWriter, request interface{}, result interface{}, rpcErr *rpc_types.RpcError) {
	var resultObj map[string]interface{}

	if rpcErr != nil {
		resultObj = map[string]interface{}{
			"status":        "error",
			"error":         rpcErr.ErrorString,
			"error_code":    rpcErr.Code,
			"error_message": rpcErr.Message,
		}
		if request != nil {
			resultObj["request"] = request
		}
	} else if resultMap, ok := result.(map[string]interface{}); ok {
		resultMap["status"] = "success"
		resultObj = resultMap
	} else {
		resultObj = map[string]interface{}{
			"status": "success",
			"data":   result,
		}
	}

	s.write(w, map[string]interface{}{"result": resultObj})
}

// writeError writes an error for requests that never reached a handler
func (s *Server) writeError(w http.ResponseWriter, request interface{}, errorCode string, message string) {
	resultObj := map[string]interface{}{
		"status":        "error",
		"error":         errorCode,
		"error_message": message,
	}
	if request != nil {
		resultObj["request"] = request
	}
	s.write(w, map[string]interface{}{"result": resultObj})
}

func (s *Server) write(w http.ResponseWriter, response map[string]interface{}) {
	responseData, err := json.Marshal(response)
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(responseData)
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func isLoopback(ip string) bool {
	parsed := net.ParseIP(ip)
	return parsed != nil && parsed.IsLoopback()
}
