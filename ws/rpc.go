// Package ws serves the local JSON-RPC 2.0 surface over WebSocket. A
// connection authenticates, then drives at most one analysis at a time and
// receives its progress as analysis.updated notifications.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sourcegraph/jsonrpc2"

	"github.com/pcfscope/server/analysis"
	"github.com/pcfscope/server/catalog"
	"github.com/pcfscope/server/logger"
	"github.com/pcfscope/server/normalize"
	"github.com/pcfscope/server/settings"
	"github.com/pcfscope/server/watch"
)

// codeBackendUnavailable is returned when the analysis backend cannot be
// reached. It sits in the range JSON-RPC reserves for servers.
const codeBackendUnavailable int64 = -32001

// RPCHandler handles JSON-RPC 2.0 over WebSocket.
type RPCHandler struct {
	token           string
	version         string
	devMode         bool
	catalog         *catalog.Catalog
	normalizer      *normalize.Normalizer
	manager         *analysis.Manager
	settingsStore   *settings.Store
	settingsWatcher *watch.SettingsWatcher
	analysisWatcher *watch.AnalysisWatcher
}

// NewRPCHandler wires the watchers into the settings store and the analysis
// manager. An empty token accepts any auth request.
func NewRPCHandler(token, version string, devMode bool, cat *catalog.Catalog, manager *analysis.Manager, settingsStore *settings.Store) *RPCHandler {
	if cat == nil {
		cat = catalog.Default()
	}

	settingsWatcher := watch.NewSettingsWatcher(settingsStore)
	settingsWatcher.Start()

	analysisWatcher := watch.NewAnalysisWatcher()
	analysisWatcher.Start()
	manager.SetListener(analysisWatcher)

	return &RPCHandler{
		token:           token,
		version:         version,
		devMode:         devMode,
		catalog:         cat,
		normalizer:      normalize.New(cat),
		manager:         manager,
		settingsStore:   settingsStore,
		settingsWatcher: settingsWatcher,
		analysisWatcher: analysisWatcher,
	}
}

// Stop detaches the watchers. Open connections keep working but no longer
// receive notifications.
func (h *RPCHandler) Stop() {
	h.settingsWatcher.Stop()
	h.analysisWatcher.Stop()
}

func (h *RPCHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: h.devMode,
	})
	if err != nil {
		slog.Warn("websocket upgrade rejected", "remote", r.RemoteAddr, "error", err)
		return
	}

	ctx := r.Context()
	h.HandleStream(ctx, newWebSocketStream(ctx, conn), uuid.Must(uuid.NewV7()).String())
}

// HandleStream serves one client until it disconnects, then closes the
// client's analysis and subscriptions.
func (h *RPCHandler) HandleStream(ctx context.Context, stream jsonrpc2.ObjectStream, connID string) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r, "websocket connection crashed", "connId", connID)
		}
	}()

	log := slog.With("connId", connID)
	log.Info("client connected")

	state := &rpcConnState{connID: connID, subscriptions: make(map[string]watch.Watcher)}
	handler := &rpcMethodHandler{RPCHandler: h, state: state, log: log}

	rpcConn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.AsyncHandler(handler))
	state.setNotifier(&connNotifier{conn: rpcConn, connID: connID})

	<-rpcConn.DisconnectNotify()

	n := state.cleanup()
	h.manager.Close(connID)
	log.Info("client disconnected", "subscriptions", n)
}

// rpcConnState tracks per-connection state. The connection ID doubles as
// the owner of the connection's analysis.
type rpcConnState struct {
	connID string

	mu            sync.Mutex
	notifier      watch.Notifier
	subscriptions map[string]watch.Watcher // subscription ID -> watcher
}

func (s *rpcConnState) setNotifier(n watch.Notifier) {
	s.mu.Lock()
	s.notifier = n
	s.mu.Unlock()
}

func (s *rpcConnState) getNotifier() watch.Notifier {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notifier
}

func (s *rpcConnState) trackSubscription(id string, watcher watch.Watcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subscriptions != nil {
		s.subscriptions[id] = watcher
	}
}

func (s *rpcConnState) untrackSubscription(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subscriptions, id)
}

// cleanup drops every subscription and reports how many there were.
// Subscriptions tracked afterwards are ignored.
func (s *rpcConnState) cleanup() int {
	s.mu.Lock()
	subs := s.subscriptions
	s.subscriptions = nil
	s.mu.Unlock()

	for id, watcher := range subs {
		watcher.Unsubscribe(id)
	}
	return len(subs)
}

type rpcMethodHandler struct {
	*RPCHandler
	state         *rpcConnState
	log           *slog.Logger
	authenticated atomic.Bool
}

func (h *rpcMethodHandler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r, "rpc handler panic", "method", req.Method, "connId", h.state.connID)
		}
	}()

	h.log.Debug("received request", "method", req.Method, "id", req.ID)

	if !h.authenticated.Load() {
		if req.Method != "auth" {
			h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidRequest, "first request must be auth")
			conn.Close()
			return
		}
		h.handleAuth(ctx, conn, req)
		return
	}

	switch req.Method {
	// analysis namespace
	case "analysis.start":
		h.handleAnalysisStart(ctx, conn, req)
	case "analysis.get":
		h.handleAnalysisGet(ctx, conn, req)
	case "analysis.close":
		h.handleAnalysisClose(ctx, conn, req)
	case "analysis.subscribe":
		h.handleAnalysisSubscribe(ctx, conn, req)
	case "analysis.unsubscribe":
		h.handleWatcherUnsubscribe(ctx, conn, req, h.analysisWatcher, "analysis")
	// expression namespace
	case "expression.normalize":
		h.handleExpressionNormalize(ctx, conn, req)
	case "fraction.format":
		h.handleFractionFormat(ctx, conn, req)
	case "relation.format":
		h.handleRelationFormat(ctx, conn, req)
	// constant namespace
	case "constant.lookup":
		h.handleConstantLookup(ctx, conn, req)
	case "constant.list":
		h.handleConstantList(ctx, conn, req)
	// settings namespace
	case "settings.subscribe":
		h.handleSettingsSubscribe(ctx, conn, req)
	case "settings.unsubscribe":
		h.handleWatcherUnsubscribe(ctx, conn, req, h.settingsWatcher, "settings")
	case "settings.update":
		h.handleSettingsUpdate(ctx, conn, req)
	default:
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeMethodNotFound, "method not found: "+req.Method)
	}
}

func (h *rpcMethodHandler) reply(ctx context.Context, conn *jsonrpc2.Conn, id jsonrpc2.ID, result any, logName string) {
	if err := conn.Reply(ctx, id, result); err != nil {
		h.log.Error("failed to send "+logName+" response", "error", err)
	}
}

func (h *rpcMethodHandler) replyError(ctx context.Context, conn *jsonrpc2.Conn, id jsonrpc2.ID, code int64, message string) {
	h.sendError(ctx, conn, id, &jsonrpc2.Error{Code: code, Message: message})
}

// replyInputError rejects a request whose polynomials failed validation.
// The error data names the rule so clients can point at the right field.
func (h *rpcMethodHandler) replyInputError(ctx context.Context, conn *jsonrpc2.Conn, id jsonrpc2.ID, err error) {
	rpcErr := &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	if rule := analysis.InputRule(err); rule != "" {
		rpcErr.SetError(inputErrorData{Rule: rule})
	}
	h.sendError(ctx, conn, id, rpcErr)
}

type inputErrorData struct {
	Rule string `json:"rule"`
}

func (h *rpcMethodHandler) sendError(ctx context.Context, conn *jsonrpc2.Conn, id jsonrpc2.ID, rpcErr *jsonrpc2.Error) {
	if err := conn.ReplyWithError(ctx, id, rpcErr); err != nil {
		h.log.Error("failed to send error response", "code", rpcErr.Code, "error", err)
	}
}

func unmarshalParams(req *jsonrpc2.Request, v any) error {
	if req.Params == nil {
		return errors.New("params required")
	}
	return json.Unmarshal(*req.Params, v)
}

type unsubscribeParams struct {
	ID string `json:"id"`
}

func (h *rpcMethodHandler) handleWatcherUnsubscribe(
	ctx context.Context,
	conn *jsonrpc2.Conn,
	req *jsonrpc2.Request,
	watcher watch.Watcher,
	logName string,
) {
	var params unsubscribeParams
	if err := unmarshalParams(req, &params); err != nil {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "invalid params")
		return
	}
	if params.ID == "" {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "id is required")
		return
	}

	watcher.Unsubscribe(params.ID)
	h.state.untrackSubscription(params.ID)
	h.log.Debug("unsubscribed", "watcher", logName, "watchId", params.ID)

	h.reply(ctx, conn, req.ID, struct{}{}, logName+" unsubscribe")
}
