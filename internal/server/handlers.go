package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/okislab/placemat/pkg/board"
	"github.com/okislab/placemat/pkg/graph"
	"github.com/okislab/placemat/pkg/pipeline"
	"github.com/okislab/placemat/pkg/target"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "placemat"})
}

// =============================================================================
// Board CRUD
// =============================================================================

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"boards": summaries})
}

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.decodeDocument(w, r)
	if !ok {
		return
	}

	id, err := s.store.Save(r.Context(), doc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleUpdateBoard(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.decodeDocument(w, r)
	if !ok {
		return
	}
	doc.ID = chi.URLParam(r, "id")

	if _, err := s.store.Save(r.Context(), doc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": doc.ID})
}

func (s *Server) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeDocument reads and structurally validates a board document from
// the request body.
func (s *Server) decodeDocument(w http.ResponseWriter, r *http.Request) (graph.Document, bool) {
	var doc graph.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return graph.Document{}, false
	}
	if _, err := graph.ToBoard(doc); err != nil {
		writeError(w, err)
		return graph.Document{}, false
	}
	return doc, true
}

// =============================================================================
// Collapse / Expand
// =============================================================================

func (s *Server) handleCollapse(w http.ResponseWriter, r *http.Request) {
	s.mutatePlacemat(w, r, func(b *board.Board, id board.ElementID) error {
		return b.Collapse(id)
	})
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	s.mutatePlacemat(w, r, func(b *board.Board, id board.ElementID) error {
		return b.Expand(id)
	})
}

// mutatePlacemat loads the board, applies the state change, and persists
// the result. The updated document is returned to the client.
func (s *Server) mutatePlacemat(w http.ResponseWriter, r *http.Request, fn func(*board.Board, board.ElementID) error) {
	boardID := chi.URLParam(r, "id")
	placematID := board.ElementID(chi.URLParam(r, "placematID"))

	doc, err := s.store.Load(r.Context(), boardID)
	if err != nil {
		writeError(w, err)
		return
	}
	b, err := graph.ToBoard(doc)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := fn(b, placematID); err != nil {
		writeError(w, err)
		return
	}

	updated := graph.FromBoard(b)
	updated.ID = doc.ID
	updated.Name = doc.Name
	if _, err := s.store.Save(r.Context(), updated); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// =============================================================================
// Region Tree
// =============================================================================

type treeNode struct {
	ID       string     `json:"id"`
	Children []treeNode `json:"children,omitempty"`
}

type treeResponse struct {
	Roots []treeNode `json:"roots"`
	Free  []string   `json:"free,omitempty"`
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	b, err := graph.ToBoard(doc)
	if err != nil {
		writeError(w, err)
		return
	}

	tree := board.NewResolver(b).Tree()

	resp := treeResponse{Roots: []treeNode{}}
	for _, id := range tree.Roots {
		resp.Roots = append(resp.Roots, buildTreeNode(tree, id))
	}
	for _, id := range tree.Free {
		resp.Free = append(resp.Free, string(id))
	}
	writeJSON(w, http.StatusOK, resp)
}

func buildTreeNode(tree *board.RegionTree, id board.ElementID) treeNode {
	node := treeNode{ID: string(id)}
	for _, child := range tree.Children(id) {
		node.Children = append(node.Children, buildTreeNode(tree, child))
	}
	return node
}

// =============================================================================
// Render
// =============================================================================

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	name := r.URL.Query().Get("target")
	if name == "" {
		name = pipeline.DefaultTarget
	}
	tgt, err := target.Lookup(name)
	if err != nil {
		writeError(w, err)
		return
	}

	opts := pipeline.Options{Targets: []string{tgt.Name}}
	if raw := r.URL.Query().Get("margin"); raw != "" {
		margin, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			badRequest(w, "invalid margin: "+raw)
			return
		}
		opts.Margin = margin
	}
	opts.Refresh = r.URL.Query().Get("refresh") == "true"

	result, err := s.runner.Execute(r.Context(), doc, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", tgt.MIME)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[tgt.Name])
}
