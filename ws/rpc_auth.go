package ws

import (
	"context"
	"crypto/subtle"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/pcfscope/server/rpc"
)

// handleAuth answers the first request of a connection. Failures close the
// connection. The result tells the client the input limits to enforce in
// its own form.
func (h *rpcMethodHandler) handleAuth(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params rpc.AuthParams
	if err := unmarshalParams(req, &params); err != nil {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "invalid params")
		conn.Close()
		return
	}

	if h.token != "" && subtle.ConstantTimeCompare([]byte(params.Token), []byte(h.token)) != 1 {
		h.log.Warn("invalid auth token")
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidRequest, "invalid token")
		conn.Close()
		return
	}

	h.authenticated.Store(true)
	h.log.Info("authenticated")

	s := h.settingsStore.Get()
	h.reply(ctx, conn, req.ID, rpc.AuthResult{
		Version:             h.version,
		BackendURL:          s.BackendURL,
		DefaultDepth:        s.DefaultDepth,
		MaxDepth:            s.MaxDepth,
		MaxExpressionLength: s.MaxExpressionLength,
	}, "auth")
}
