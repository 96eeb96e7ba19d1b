package ws

import (
	"context"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/pcfscope/server/analysis"
	"github.com/pcfscope/server/rpc"
)

func (h *rpcMethodHandler) handleAnalysisStart(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params rpc.AnalysisStartParams
	if err := unmarshalParams(req, &params); err != nil {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "invalid params")
		return
	}

	s := h.settingsStore.Get()
	depth := params.Depth
	if depth == 0 {
		depth = s.DefaultDepth
	}
	areq, err := analysis.NewRequest(params.A, params.B, depth, analysis.LimitsFrom(s))
	if err != nil {
		h.replyInputError(ctx, conn, req.ID, err)
		return
	}

	sess, err := h.manager.Start(ctx, h.state.connID, areq)
	if err != nil {
		h.log.Warn("analysis failed to start", "error", err)
		h.replyError(ctx, conn, req.ID, codeBackendUnavailable, "failed to connect to backend: "+err.Error())
		return
	}

	result := rpc.AnalysisStartResult{
		SessionID: sess.ID(),
		View:      sess.View(),
	}
	h.reply(ctx, conn, req.ID, result, "analysis start")
}

func (h *rpcMethodHandler) currentView() *analysis.View {
	sess := h.manager.Get(h.state.connID)
	if sess == nil {
		return nil
	}
	v := sess.View()
	return &v
}

func (h *rpcMethodHandler) handleAnalysisGet(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	h.reply(ctx, conn, req.ID, rpc.AnalysisGetResult{View: h.currentView()}, "analysis get")
}

func (h *rpcMethodHandler) handleAnalysisClose(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	h.manager.Close(h.state.connID)
	h.reply(ctx, conn, req.ID, struct{}{}, "analysis close")
}

func (h *rpcMethodHandler) handleAnalysisSubscribe(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	id := h.analysisWatcher.Subscribe(h.state.connID, h.state.getNotifier())
	h.state.trackSubscription(id, h.analysisWatcher)
	h.log.Debug("subscribed to analysis", "watchId", id)

	result := rpc.AnalysisSubscribeResult{
		ID:   id,
		View: h.currentView(),
	}
	h.reply(ctx, conn, req.ID, result, "analysis subscribe")
}
