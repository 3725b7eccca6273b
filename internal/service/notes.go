package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/avolkhin/noteboard/internal/errs"
	"github.com/avolkhin/noteboard/internal/model"
	"github.com/avolkhin/noteboard/internal/repository"
)

// NoteService defines member note operations and the admin overrides.
//
// Member operations are scoped to the owner at the repository level:
// an id that exists under another owner behaves exactly like one that
// does not exist. Admin operations require the caller to hold the admin
// role and fail with errs.ErrForbidden otherwise.
type NoteService interface {
	// List returns the caller's notes, newest first.
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Note, error)
	// Create validates and stores a new note owned by ownerID.
	Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*model.Note, error)
	// Update applies a partial mutation to an owned note.
	Update(ctx context.Context, ownerID, noteID uuid.UUID, upd model.NoteUpdate) (*model.Note, error)
	// Delete removes an owned note.
	Delete(ctx context.Context, ownerID, noteID uuid.UUID) error

	// ListUsers returns every member account (admin rows excluded).
	ListUsers(ctx context.Context, caller *model.User) ([]model.User, error)
	// ListAllNotes returns every member-owned note with owner info.
	ListAllNotes(ctx context.Context, caller *model.User) ([]model.NoteWithOwner, error)
	// DeleteAnyNote removes a note regardless of owner.
	DeleteAnyNote(ctx context.Context, caller *model.User, noteID uuid.UUID) error
}

type NoteServiceImpl struct {
	notes repository.NoteRepository
	users repository.UserRepository
}

// NewNoteService constructs NoteService.
func NewNoteService(notes repository.NoteRepository, users repository.UserRepository) *NoteServiceImpl {
	return &NoteServiceImpl{notes: notes, users: users}
}

// List returns the owner's notes.
func (s *NoteServiceImpl) List(ctx context.Context, ownerID uuid.UUID) ([]model.Note, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty owner", errs.ErrValidation)
	}
	return s.notes.ListByOwner(ctx, ownerID)
}

// Create validates required fields and persists a new note. Nothing is
// stored when validation fails.
func (s *NoteServiceImpl) Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*model.Note, error) {
	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty owner", errs.ErrValidation)
	}
	if title == "" {
		return nil, fmt.Errorf("%w: title required", errs.ErrValidation)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: description required", errs.ErrValidation)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	n := &model.Note{ID: id, UserID: ownerID, Title: title, Description: description}
	if err := s.notes.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Update applies a partial mutation. Empty fields are not an error; they
// keep the stored value.
func (s *NoteServiceImpl) Update(ctx context.Context, ownerID, noteID uuid.UUID, upd model.NoteUpdate) (*model.Note, error) {
	if ownerID == uuid.Nil || noteID == uuid.Nil {
		return nil, fmt.Errorf("%w: empty owner/id", errs.ErrValidation)
	}
	return s.notes.Update(ctx, ownerID, noteID, upd)
}

// Delete removes an owned note. No soft delete, no dependents.
func (s *NoteServiceImpl) Delete(ctx context.Context, ownerID, noteID uuid.UUID) error {
	if ownerID == uuid.Nil || noteID == uuid.Nil {
		return fmt.Errorf("%w: empty owner/id", errs.ErrValidation)
	}
	return s.notes.Delete(ctx, ownerID, noteID)
}

// ListUsers returns all member accounts to an admin caller.
func (s *NoteServiceImpl) ListUsers(ctx context.Context, caller *model.User) ([]model.User, error) {
	if !caller.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	return s.users.ListMembers(ctx)
}

// ListAllNotes returns all member-owned notes to an admin caller.
func (s *NoteServiceImpl) ListAllNotes(ctx context.Context, caller *model.User) ([]model.NoteWithOwner, error) {
	if !caller.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	return s.notes.ListWithOwners(ctx)
}

// DeleteAnyNote removes any note for an admin caller.
func (s *NoteServiceImpl) DeleteAnyNote(ctx context.Context, caller *model.User, noteID uuid.UUID) error {
	if !caller.IsAdmin() {
		return errs.ErrForbidden
	}
	if noteID == uuid.Nil {
		return fmt.Errorf("%w: empty id", errs.ErrValidation)
	}
	return s.notes.DeleteAny(ctx, noteID)
}
