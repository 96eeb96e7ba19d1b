package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pcfscope/server/analysis"
	"github.com/pcfscope/server/fraction"
	"github.com/pcfscope/server/logger"
	"github.com/pcfscope/server/metadata"
	"github.com/pcfscope/server/normalize"
	"github.com/pcfscope/server/rpc"
)

func (s *Server) handleExpressionNormalize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, err := req.RequireString("expression")
	if err != nil || expr == "" {
		return validationError("expression is required"), nil
	}
	src := normalize.Source(req.GetString("source", string(normalize.SourceRelationFinder)))
	if !src.Valid() {
		return validationError("source must be lirec or wolfram"), nil
	}

	md := metadata.New(s.catalog)
	res := s.normalizer.Normalize(expr, src, normalize.Options{
		Prefix:   req.GetString("prefix", ""),
		Metadata: md,
	})
	return jsonResult(rpc.ExpressionNormalizeResult{Result: res, Metadata: md.Entries()})
}

func (s *Server) handlePCFFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := req.RequireString("a")
	if err != nil {
		return validationError("a is required"), nil
	}
	b, err := req.RequireString("b")
	if err != nil {
		return validationError("b is required"), nil
	}

	symbol := req.GetString("symbol", "")
	if symbol == "" {
		if symbol, err = analysis.InferSymbol(a, b); err != nil {
			return inputError(err), nil
		}
	}

	res, err := fraction.Format(a, b, symbol)
	if err != nil {
		return validationError(err.Error()), nil
	}
	return jsonResult(rpc.FractionFormatResult{Result: res, Symbol: symbol})
}

func (s *Server) handleRelationFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	relation, err := req.RequireString("relation")
	if err != nil {
		return validationError("relation is required"), nil
	}

	md := metadata.New(s.catalog)
	rel := fraction.FormatSeeAlso(relation, s.normalizer, normalize.Options{Metadata: md})
	if !rel.OK {
		return validationError("relation must look like PCF[a, b] = expression"), nil
	}
	return jsonResult(rpc.RelationFormatResult{Display: rel.Display(), OK: rel.OK, Metadata: md.Entries()})
}

func (s *Server) handlePCFAnalyze(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := req.RequireString("a")
	if err != nil {
		return validationError("a is required"), nil
	}
	b, err := req.RequireString("b")
	if err != nil {
		return validationError("b is required"), nil
	}

	st := s.store.Get()
	areq, err := analysis.NewRequest(a, b, req.GetInt("depth", st.DefaultDepth), analysis.LimitsFrom(st))
	if err != nil {
		return inputError(err), nil
	}

	log := logger.NewRequestLogger()
	log.Info("analysis requested", "a", areq.A, "b", areq.B, "depth", areq.Depth)

	cfg := analysis.ConfigFromSettings(st, s.catalog)
	sess, err := analysis.Dial(ctx, cfg, areq)
	if err != nil {
		log.Warn("analysis failed to start", "error", err)
		return backendError(cfg.URL, err), nil
	}
	defer sess.Close()

	v, err := sess.Wait(ctx)
	if err != nil {
		v.Error = "interrupted: " + err.Error()
		return analysisFailed(v), nil
	}
	if v.State == analysis.StateFailed {
		log.Warn("analysis failed", "error", v.Error)
		return analysisFailed(v), nil
	}

	// the summary carries the series in compact form
	v.Series = nil
	return jsonResult(v)
}

func (s *Server) handleConstantLookup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := req.GetString("key", "")
	name := req.GetString("name", "")
	if key == "" && name == "" {
		return validationError("key or name is required"), nil
	}

	def, ok := s.catalog.Lookup(key)
	if !ok && name != "" {
		def, ok = s.catalog.FindByName(name)
	}
	if !ok {
		query := key
		if query == "" {
			query = name
		}
		return constantNotFound(query), nil
	}
	return jsonResult(def)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
