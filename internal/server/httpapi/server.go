// Package httpapi exposes the noteboard HTTP/JSON API.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/avolkhin/noteboard/internal/model"
	"github.com/avolkhin/noteboard/internal/service"
	"github.com/avolkhin/noteboard/internal/token"
)

// BootstrapCreds are the deployment-time admin provisioning inputs.
type BootstrapCreds struct {
	Email    string
	Password string
	Name     string
}

// Server wires services into HTTP handlers.
type Server struct {
	auth   service.AuthService
	notes  service.NoteService
	tokens *token.Codec

	bootstrap  BootstrapCreds
	production bool

	log *zap.Logger
}

// New constructs a Server with injected services.
func New(auth service.AuthService, notes service.NoteService, tokens *token.Codec, bootstrap BootstrapCreds, production bool, log *zap.Logger) *Server {
	return &Server{
		auth:       auth,
		notes:      notes,
		tokens:     tokens,
		bootstrap:  bootstrap,
		production: production,
		log:        log,
	}
}

// Router assembles the route tree. Protected subtrees sit behind the
// session gate; the admin privilege is checked per operation downstream.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(Recoverer(s.log))
	r.Use(RequestLogger(s.log))

	r.Get("/healthz", s.handleHealthz)

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/create-admin", s.handleCreateAdmin)

	r.Group(func(r chi.Router) {
		r.Use(s.Authenticate)

		r.Get("/notes", s.handleListNotes)
		r.Post("/notes", s.handleCreateNote)
		r.Put("/notes/{id}", s.handleUpdateNote)
		r.Delete("/notes/{id}", s.handleDeleteNote)

		r.Get("/admin/check", s.handleAdminCheck)
		r.Get("/admin/users", s.handleAdminListUsers)
		r.Get("/admin/notes", s.handleAdminListNotes)
		r.Delete("/admin/notes/{id}", s.handleAdminDeleteNote)
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- wire representations ---

type userJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserJSON(u *model.User) userJSON {
	return userJSON{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

type noteJSON struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toNoteJSON(n *model.Note) noteJSON {
	return noteJSON{
		ID:          n.ID.String(),
		UserID:      n.UserID.String(),
		Title:       n.Title,
		Description: n.Description,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

type ownerJSON struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type adminNoteJSON struct {
	noteJSON
	Owner ownerJSON `json:"owner"`
}
