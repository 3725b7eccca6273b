package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avolkhin/noteboard/internal/errs"
	"github.com/avolkhin/noteboard/internal/limiter"
	"github.com/avolkhin/noteboard/internal/model"
	"github.com/avolkhin/noteboard/internal/repository"
	"github.com/avolkhin/noteboard/internal/service"
	"github.com/avolkhin/noteboard/internal/token"
)

// In-memory repositories backing the router under test. Ownership rules
// mirror the SQL predicates: owner-scoped lookups miss on foreign rows.

type memUsers struct {
	byEmail map[string]*model.User
}

var _ repository.UserRepository = (*memUsers)(nil)

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	if _, exists := m.byEmail[u.Email]; exists {
		return errs.ErrAlreadyExists
	}
	cpy := *u
	cpy.CreatedAt = time.Now()
	m.byEmail[u.Email] = &cpy
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (m *memUsers) ListMembers(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range m.byEmail {
		if !u.IsAdmin() {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memNotes struct {
	byID  map[uuid.UUID]*model.Note
	users *memUsers
}

var _ repository.NoteRepository = (*memNotes)(nil)

func (m *memNotes) Create(_ context.Context, n *model.Note) error {
	now := time.Now()
	n.CreatedAt, n.UpdatedAt = now, now
	cpy := *n
	m.byID[n.ID] = &cpy
	return nil
}

func (m *memNotes) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Note, error) {
	var out []model.Note
	for _, n := range m.byID {
		if n.UserID == ownerID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memNotes) Update(_ context.Context, ownerID, noteID uuid.UUID, upd model.NoteUpdate) (*model.Note, error) {
	n, ok := m.byID[noteID]
	if !ok || n.UserID != ownerID {
		return nil, errs.ErrNotFound
	}
	if upd.Title != "" {
		n.Title = upd.Title
	}
	if upd.Description != "" {
		n.Description = upd.Description
	}
	n.UpdatedAt = time.Now()
	c := *n
	return &c, nil
}

func (m *memNotes) Delete(_ context.Context, ownerID, noteID uuid.UUID) error {
	n, ok := m.byID[noteID]
	if !ok || n.UserID != ownerID {
		return errs.ErrNotFound
	}
	delete(m.byID, noteID)
	return nil
}

func (m *memNotes) ListWithOwners(_ context.Context) ([]model.NoteWithOwner, error) {
	var out []model.NoteWithOwner
	for _, n := range m.byID {
		owner, err := m.users.GetByID(context.Background(), n.UserID)
		if err != nil || owner.IsAdmin() {
			continue
		}
		out = append(out, model.NoteWithOwner{Note: *n, OwnerName: owner.Name, OwnerEmail: owner.Email})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memNotes) DeleteAny(_ context.Context, noteID uuid.UUID) error {
	if _, ok := m.byID[noteID]; !ok {
		return errs.ErrNotFound
	}
	delete(m.byID, noteID)
	return nil
}

type openLimiter struct{}

func (openLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	return true, 0, nil
}
func (openLimiter) Success(context.Context, string, []byte) error { return nil }
func (openLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	return false, 0, nil
}

var _ limiter.Limiter = openLimiter{}

type testEnv struct {
	srv    *Server
	router http.Handler
	users  *memUsers
	notes  *memNotes
	codec  *token.Codec
}

func newTestEnv(t *testing.T, production bool) *testEnv {
	t.Helper()
	users := &memUsers{byEmail: map[string]*model.User{}}
	notes := &memNotes{byID: map[uuid.UUID]*model.Note{}, users: users}

	codec, err := token.NewCodec([]byte("test-key"), time.Hour)
	require.NoError(t, err)

	authSvc := service.NewAuthService(users, codec, openLimiter{})
	noteSvc := service.NewNoteService(notes, users)

	srv := New(authSvc, noteSvc, codec, BootstrapCreds{
		Email:    "admin@notes.com",
		Password: "admin123",
		Name:     "Admin User",
	}, production, zap.NewNop())

	return &testEnv{srv: srv, router: srv.Router(), users: users, notes: notes, codec: codec}
}

// do performs a request against the router and decodes the JSON response.
func (e *testEnv) do(t *testing.T, method, path, bearer string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

// signTestToken hand-rolls a token with the shared test key, letting
// tests control issue and expiry times directly.
func signTestToken(t *testing.T, id uuid.UUID, iat, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   id.String(),
		IssuedAt:  jwt.NewNumericDate(iat),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return raw
}

// registerAndLogin provisions a member account through the API and
// returns its bearer token.
func (e *testEnv) registerAndLogin(t *testing.T, name, email, password string) string {
	t.Helper()
	rec, _ := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, body := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	return tok
}

// bootstrapAdmin provisions the admin and returns its bearer token.
func (e *testEnv) bootstrapAdmin(t *testing.T) string {
	t.Helper()
	rec, _ := e.do(t, http.MethodPost, "/create-admin", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "admin@notes.com", "password": "admin123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	return tok
}
