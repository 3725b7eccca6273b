package service

import (
	"context"
	"sort"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/avolkhin/noteboard/internal/errs"
	"github.com/avolkhin/noteboard/internal/limiter"
	"github.com/avolkhin/noteboard/internal/model"
	"github.com/avolkhin/noteboard/internal/repository"
)

type fakeUsers struct {
	byEmail map[string]*model.User

	createErr error
	getErr    error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*model.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return errs.ErrAlreadyExists
	}
	cpy := *u
	cpy.CreatedAt = time.Now()
	f.byEmail[u.Email] = &cpy
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byEmail {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) ListMembers(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range f.byEmail {
		if !u.IsAdmin() {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeNotes struct {
	byID map[uuid.UUID]*model.Note
	// owner lookup for ListWithOwners
	users *fakeUsers

	createErr error
}

var _ repository.NoteRepository = (*fakeNotes)(nil)

func newFakeNotes(users *fakeUsers) *fakeNotes {
	return &fakeNotes{byID: map[uuid.UUID]*model.Note{}, users: users}
}

func (f *fakeNotes) Create(_ context.Context, n *model.Note) error {
	if f.createErr != nil {
		return f.createErr
	}
	now := time.Now()
	n.CreatedAt, n.UpdatedAt = now, now
	cpy := *n
	f.byID[n.ID] = &cpy
	return nil
}

func (f *fakeNotes) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]model.Note, error) {
	var out []model.Note
	for _, n := range f.byID {
		if n.UserID == ownerID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeNotes) Update(_ context.Context, ownerID, noteID uuid.UUID, upd model.NoteUpdate) (*model.Note, error) {
	n, ok := f.byID[noteID]
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

func (f *fakeNotes) Delete(_ context.Context, ownerID, noteID uuid.UUID) error {
	n, ok := f.byID[noteID]
	if !ok || n.UserID != ownerID {
		return errs.ErrNotFound
	}
	delete(f.byID, noteID)
	return nil
}

func (f *fakeNotes) ListWithOwners(_ context.Context) ([]model.NoteWithOwner, error) {
	var out []model.NoteWithOwner
	for _, n := range f.byID {
		owner, err := f.users.GetByID(context.Background(), n.UserID)
		if err != nil || owner.IsAdmin() {
			continue
		}
		out = append(out, model.NoteWithOwner{Note: *n, OwnerName: owner.Name, OwnerEmail: owner.Email})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeNotes) DeleteAny(_ context.Context, noteID uuid.UUID) error {
	if _, ok := f.byID[noteID]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byID, noteID)
	return nil
}

type fakeLimiter struct {
	allowOK  bool
	allowErr error

	failBlocked bool

	allowCalls   int
	failureCalls int
	successCalls int
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func (l *fakeLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	l.allowCalls++
	return l.allowOK, 0, l.allowErr
}

func (l *fakeLimiter) Success(context.Context, string, []byte) error {
	l.successCalls++
	return nil
}

func (l *fakeLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	l.failureCalls++
	return l.failBlocked, 0, nil
}
