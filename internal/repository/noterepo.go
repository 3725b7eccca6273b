package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/avolkhin/noteboard/internal/model"
)

// NoteRepository provides owner-scoped and administrative access to notes.
//
// Owner-scoped operations constrain the lookup to (id, owner) in a single
// statement; a missing row and a row owned by someone else are both
// errs.ErrNotFound.
type NoteRepository interface {
	// Create inserts a new note with a server-assigned id and timestamps.
	Create(ctx context.Context, n *model.Note) error
	// ListByOwner returns the owner's notes, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Note, error)
	// Update applies a partial mutation to a note owned by ownerID and
	// returns the resulting row. Empty fields keep stored values.
	Update(ctx context.Context, ownerID, noteID uuid.UUID, upd model.NoteUpdate) (*model.Note, error)
	// Delete removes a note owned by ownerID.
	Delete(ctx context.Context, ownerID, noteID uuid.UUID) error

	// ListWithOwners returns all notes owned by non-admin users, with owner
	// name/email, newest first.
	ListWithOwners(ctx context.Context) ([]model.NoteWithOwner, error)
	// DeleteAny removes a note regardless of owner.
	DeleteAny(ctx context.Context, noteID uuid.UUID) error
}
