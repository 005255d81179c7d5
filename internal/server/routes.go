package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/physref/quicksheet/internal/catalog"
	"github.com/physref/quicksheet/internal/clip"
	"github.com/physref/quicksheet/internal/prefs"
	"github.com/physref/quicksheet/internal/rank"
	"github.com/physref/quicksheet/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.db.GetAll()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []store.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var item store.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if err := catalog.Validate(&item); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.db.UpsertItem(&item); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "itemID")
	item, err := s.db.GetItem(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if err := s.db.DeleteItem(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// rankPass runs the full pipeline for the given query/category under
// the stored preferences and the snapshot policy.
func (s *Server) rankPass(query, category string) (rank.Result, prefs.Prefs, error) {
	p, err := s.loadPrefs()
	if err != nil {
		return rank.Result{}, p, err
	}
	view, err := s.usageView(p)
	if err != nil {
		return rank.Result{}, p, err
	}
	items, err := s.db.GetAll()
	if err != nil {
		return rank.Result{}, p, err
	}
	res := rank.Rank(items, view, rank.Request{
		Query:        query,
		Category:     category,
		Mode:         p.RankingMode,
		HalfLifeDays: p.RankingHalfLifeDays,
	})
	return res, p, nil
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	if category == "All" {
		category = ""
	}

	res, _, err := s.rankPass(q, category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	items, err := s.db.GetAll()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rank.Categories(items))
}

func (s *Server) handleCopyItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "itemID")
	item, err := s.db.GetItem(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	p, err := s.loadPrefs()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	text := clip.Build(*item, p)

	if err := s.db.MarkUsed(id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id, "text": text})
}

// handleCopyTop resolves the current top result for a query and copies
// it: the same item the first section would display first.
func (s *Server) handleCopyTop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query    string `json:"query"`
		Category string `json:"category"`
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body failed")
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
	}
	if req.Category == "All" {
		req.Category = ""
	}

	res, p, err := s.rankPass(req.Query, req.Category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	top := res.TopResult()
	if top == nil {
		writeError(w, http.StatusNotFound, "no matching item")
		return
	}

	text := clip.Build(top.Item, p)
	if err := s.db.MarkUsed(top.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": top.ID, "text": text})
}

func (s *Server) handleGetPrefs(w http.ResponseWriter, r *http.Request) {
	p, err := s.loadPrefs()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleSetPrefs(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body failed")
		return
	}

	current, err := s.loadPrefs()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	next, err := current.Merge(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	encoded, err := next.Encode()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.db.SetPrefs(encoded); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Turning instant rerank off locks in the order the user currently
	// sees, so the frozen view must catch up to the live counters first.
	if current.InstantRerankOnCopy && !next.InstantRerankOnCopy {
		if err := s.refreshSnapshot(); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, next)
}

func (s *Server) handleRerank(w http.ResponseWriter, r *http.Request) {
	if err := s.refreshSnapshot(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reranked"})
}

func (s *Server) handleResetLearning(w http.ResponseWriter, r *http.Request) {
	if err := s.db.ResetLearning(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.refreshSnapshot(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
