package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid/v5"

	"github.com/avolkhin/noteboard/internal/model"
)

// noteID parses the {id} path segment. A malformed id behaves exactly
// like an absent note, so existence is never leaked through parse errors.
func noteID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.FromString(chi.URLParam(r, "id"))
	return id, err == nil && id != uuid.Nil
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	notes, err := s.notes.List(r.Context(), u.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]noteJSON, 0, len(notes))
	for i := range notes {
		out = append(out, toNoteJSON(&notes[i]))
	}
	writeJSON(w, http.StatusOK, struct {
		Notes []noteJSON `json:"notes"`
	}{out})
}

type noteRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	n, err := s.notes.Create(r.Context(), u.ID, req.Title, req.Description)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Message string   `json:"message"`
		Note    noteJSON `json:"note"`
	}{"note created successfully", toNoteJSON(n)})
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := noteID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}
	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	n, err := s.notes.Update(r.Context(), u.ID, id, model.NoteUpdate{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message string   `json:"message"`
		Note    noteJSON `json:"note"`
	}{"note updated successfully", toNoteJSON(n)})
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := noteID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}
	if err := s.notes.Delete(r.Context(), u.ID, id); err != nil {
		s.writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "note deleted successfully")
}
