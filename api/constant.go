package api

import (
	"net/http"

	"github.com/pcfscope/server/catalog"
)

type ConstantHandler struct {
	catalog *catalog.Catalog
}

func NewConstantHandler(cat *catalog.Catalog) *ConstantHandler {
	return &ConstantHandler{catalog: cat}
}

func (h *ConstantHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"constants": h.catalog.Definitions()})
}

func (h *ConstantHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	def, ok := h.catalog.Lookup(key)
	if !ok {
		writeError(w, http.StatusNotFound, "constant not found")
		return
	}
	writeJSON(w, http.StatusOK, def)
}
