package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/avolkhin/noteboard/internal/errs"
	"github.com/avolkhin/noteboard/internal/model"
)

// NoteRepo implements NoteRepository using PostgreSQL.
//
// Every owner-scoped statement filters on (id, user_id) in one round trip,
// so "absent" and "owned by someone else" are indistinguishable by
// construction and both map to ErrNotFound.
type NoteRepo struct{ db *DB }

// NewNoteRepo constructs a note repository.
func NewNoteRepo(db *DB) *NoteRepo { return &NoteRepo{db: db} }

// Create inserts a note and reads back the store-assigned timestamps.
func (r *NoteRepo) Create(ctx context.Context, n *model.Note) error {
	const q = `
INSERT INTO notes (id, user_id, title, description)
VALUES ($1, $2, $3, $4)
RETURNING created_at, updated_at`
	row := r.db.Pool.QueryRow(ctx, q, n.ID, n.UserID, n.Title, n.Description)
	return row.Scan(&n.CreatedAt, &n.UpdatedAt)
}

// ListByOwner returns the owner's notes, newest first.
func (r *NoteRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Note, error) {
	const q = `
SELECT id, user_id, title, description, created_at, updated_at
FROM notes WHERE user_id=$1
ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Note
	for rows.Next() {
		var n model.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Update applies a partial mutation in a single statement: an empty
// replacement keeps the stored value via COALESCE(NULLIF(...)).
func (r *NoteRepo) Update(ctx context.Context, ownerID, noteID uuid.UUID, upd model.NoteUpdate) (*model.Note, error) {
	const q = `
UPDATE notes
SET title = COALESCE(NULLIF($3, ''), title),
    description = COALESCE(NULLIF($4, ''), description),
    updated_at = now()
WHERE id=$1 AND user_id=$2
RETURNING id, user_id, title, description, created_at, updated_at`
	row := r.db.Pool.QueryRow(ctx, q, noteID, ownerID, upd.Title, upd.Description)
	var n model.Note
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.CreatedAt, &n.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

// Delete removes a note owned by ownerID.
func (r *NoteRepo) Delete(ctx context.Context, ownerID, noteID uuid.UUID) error {
	const q = `DELETE FROM notes WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, noteID, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ListWithOwners returns all notes owned by non-admin users, with owner
// name/email, newest first. Admin accounts are expected never to own
// notes; excluding them here keeps the listing honest even if one does.
func (r *NoteRepo) ListWithOwners(ctx context.Context) ([]model.NoteWithOwner, error) {
	const q = `
SELECT n.id, n.user_id, n.title, n.description, n.created_at, n.updated_at, u.name, u.email
FROM notes n
JOIN users u ON u.id = n.user_id
WHERE u.role<>$1
ORDER BY n.created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, string(model.RoleAdmin))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.NoteWithOwner
	for rows.Next() {
		var n model.NoteWithOwner
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.CreatedAt, &n.UpdatedAt, &n.OwnerName, &n.OwnerEmail); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// DeleteAny removes a note regardless of owner.
func (r *NoteRepo) DeleteAny(ctx context.Context, noteID uuid.UUID) error {
	const q = `DELETE FROM notes WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, noteID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
