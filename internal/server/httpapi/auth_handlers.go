package httpapi

import (
	"net/http"
	"time"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	u, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Message string   `json:"message"`
		User    userJSON `json:"user"`
	}{"user registered successfully", toUserJSON(u)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      userJSON  `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	tok, u, err := s.auth.Login(r.Context(), req.Email, req.Password, r.RemoteAddr)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{
		Token:     tok.AccessToken,
		ExpiresAt: tok.ExpiresAt,
		User:      toUserJSON(&u),
	})
}

// handleCreateAdmin is the idempotent bootstrap endpoint. Repeated calls
// report the existing admin instead of failing. The plaintext bootstrap
// password is echoed once outside production for initial operator setup.
func (s *Server) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	u, created, err := s.auth.EnsureAdmin(r.Context(), s.bootstrap.Email, s.bootstrap.Password, s.bootstrap.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := struct {
		Message  string `json:"message"`
		Email    string `json:"email"`
		Password string `json:"password,omitempty"`
	}{Email: u.Email}

	if !created {
		resp.Message = "admin user already exists"
		writeJSON(w, http.StatusOK, resp)
		return
	}
	resp.Message = "admin user created successfully"
	if !s.production {
		resp.Password = s.bootstrap.Password
	}
	writeJSON(w, http.StatusOK, resp)
}
