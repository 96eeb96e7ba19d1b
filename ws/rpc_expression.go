package ws

import (
	"context"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/pcfscope/server/analysis"
	"github.com/pcfscope/server/fraction"
	"github.com/pcfscope/server/metadata"
	"github.com/pcfscope/server/normalize"
	"github.com/pcfscope/server/rpc"
)

func (h *rpcMethodHandler) handleExpressionNormalize(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params rpc.ExpressionNormalizeParams
	if err := unmarshalParams(req, &params); err != nil {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "invalid params")
		return
	}
	if params.Expression == "" {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "expression is required")
		return
	}
	if params.Source == "" {
		params.Source = normalize.SourceRelationFinder
	}
	if !params.Source.Valid() {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "unknown source: "+string(params.Source))
		return
	}

	md := metadata.New(h.catalog)
	res := h.normalizer.Normalize(params.Expression, params.Source, normalize.Options{
		Prefix:   params.Prefix,
		Metadata: md,
	})
	h.reply(ctx, conn, req.ID, rpc.ExpressionNormalizeResult{Result: res, Metadata: md.Entries()}, "expression normalize")
}

func (h *rpcMethodHandler) handleFractionFormat(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params rpc.FractionFormatParams
	if err := unmarshalParams(req, &params); err != nil {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "invalid params")
		return
	}

	symbol := params.Symbol
	if symbol == "" {
		inferred, err := analysis.InferSymbol(params.A, params.B)
		if err != nil {
			h.replyInputError(ctx, conn, req.ID, err)
			return
		}
		symbol = inferred
	}

	res, err := fraction.Format(params.A, params.B, symbol)
	if err != nil {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, err.Error())
		return
	}
	h.reply(ctx, conn, req.ID, rpc.FractionFormatResult{Result: res, Symbol: symbol}, "fraction format")
}

func (h *rpcMethodHandler) handleRelationFormat(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params rpc.RelationFormatParams
	if err := unmarshalParams(req, &params); err != nil {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "invalid params")
		return
	}

	md := metadata.New(h.catalog)
	rel := fraction.FormatSeeAlso(params.Relation, h.normalizer, normalize.Options{Metadata: md})
	result := rpc.RelationFormatResult{
		Display:  rel.Display(),
		OK:       rel.OK,
		Metadata: md.Entries(),
	}
	h.reply(ctx, conn, req.ID, result, "relation format")
}

func (h *rpcMethodHandler) handleConstantLookup(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params rpc.ConstantLookupParams
	if err := unmarshalParams(req, &params); err != nil {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "invalid params")
		return
	}

	def, ok := h.catalog.Lookup(params.Key)
	if !ok && params.Name != "" {
		def, ok = h.catalog.FindByName(params.Name)
	}
	if !ok {
		h.replyError(ctx, conn, req.ID, jsonrpc2.CodeInvalidParams, "constant not found")
		return
	}
	h.reply(ctx, conn, req.ID, def, "constant lookup")
}

func (h *rpcMethodHandler) handleConstantList(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	h.reply(ctx, conn, req.ID, rpc.ConstantListResult{Constants: h.catalog.Definitions()}, "constant list")
}
