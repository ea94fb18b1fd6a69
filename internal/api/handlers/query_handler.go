package handlers

import (
	"encoding/json"
	"net/http"

	"omniquery/internal/core"
	"omniquery/internal/core/query"
)

type QueryHandler struct {
	store  core.Store
	engine *query.Engine
}

func NewQueryHandler(store core.Store, engine *query.Engine) *QueryHandler {
	return &QueryHandler{store: store, engine: engine}
}

// Ask answers a question from the knowledge base. Expects JSON
// {"query": "..."} and returns {"answer": "..."}.
func (h *QueryHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		http.Error(w, "expected JSON body with a query field", http.StatusBadRequest)
		return
	}

	if h.engine == nil {
		http.Error(w, "no generation backend configured; set GEMINI_API_KEY", http.StatusServiceUnavailable)
		return
	}

	answer, err := h.engine.Answer(r.Context(), req.Query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

// History returns past queries with their answers, newest first.
func (h *QueryHandler) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.ListQueries(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
