package httpapi

import (
	"net/http"
)

func (s *Server) handleAdminCheck(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		IsAdmin bool     `json:"is_admin"`
		User    userJSON `json:"user"`
	}{u.IsAdmin(), toUserJSON(u)})
}

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	users, err := s.notes.ListUsers(r.Context(), u)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]userJSON, 0, len(users))
	for i := range users {
		out = append(out, toUserJSON(&users[i]))
	}
	writeJSON(w, http.StatusOK, struct {
		Users []userJSON `json:"users"`
	}{out})
}

func (s *Server) handleAdminListNotes(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	notes, err := s.notes.ListAllNotes(r.Context(), u)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]adminNoteJSON, 0, len(notes))
	for i := range notes {
		out = append(out, adminNoteJSON{
			noteJSON: toNoteJSON(&notes[i].Note),
			Owner:    ownerJSON{Name: notes[i].OwnerName, Email: notes[i].OwnerEmail},
		})
	}
	writeJSON(w, http.StatusOK, struct {
		Notes []adminNoteJSON `json:"notes"`
	}{out})
}

func (s *Server) handleAdminDeleteNote(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := noteID(r)
	if !ok {
		// privilege check still comes first; only an admin learns that
		// the id cannot name a note
		if !u.IsAdmin() {
			writeMessage(w, http.StatusForbidden, "access denied, admin only")
			return
		}
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}
	if err := s.notes.DeleteAnyNote(r.Context(), u, id); err != nil {
		s.writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "note deleted successfully by admin")
}
