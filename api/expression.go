package api

import (
	"encoding/json"
	"net/http"

	"github.com/pcfscope/server/analysis"
	"github.com/pcfscope/server/catalog"
	"github.com/pcfscope/server/fraction"
	"github.com/pcfscope/server/metadata"
	"github.com/pcfscope/server/normalize"
	"github.com/pcfscope/server/rpc"
)

// request bodies are small expressions
const maxBodyBytes = 64 << 10

type ExpressionHandler struct {
	catalog    *catalog.Catalog
	normalizer *normalize.Normalizer
}

func NewExpressionHandler(cat *catalog.Catalog) *ExpressionHandler {
	return &ExpressionHandler{catalog: cat, normalizer: normalize.New(cat)}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *ExpressionHandler) HandleNormalize(w http.ResponseWriter, r *http.Request) {
	var params rpc.ExpressionNormalizeParams
	if !decodeBody(w, r, &params) {
		return
	}
	if params.Expression == "" {
		writeError(w, http.StatusBadRequest, "expression is required")
		return
	}
	if params.Source == "" {
		params.Source = normalize.SourceRelationFinder
	}
	if !params.Source.Valid() {
		writeError(w, http.StatusBadRequest, "unknown source")
		return
	}

	md := metadata.New(h.catalog)
	res := h.normalizer.Normalize(params.Expression, params.Source, normalize.Options{Prefix: params.Prefix, Metadata: md})
	writeJSON(w, http.StatusOK, rpc.ExpressionNormalizeResult{Result: res, Metadata: md.Entries()})
}

func (h *ExpressionHandler) HandleFraction(w http.ResponseWriter, r *http.Request) {
	var params rpc.FractionFormatParams
	if !decodeBody(w, r, &params) {
		return
	}

	symbol := params.Symbol
	if symbol == "" {
		inferred, err := analysis.InferSymbol(params.A, params.B)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		symbol = inferred
	}

	res, err := fraction.Format(params.A, params.B, symbol)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rpc.FractionFormatResult{Result: res, Symbol: symbol})
}
