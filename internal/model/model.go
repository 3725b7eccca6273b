// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Role is the privilege tier of an account. There are exactly two tiers.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// User represents an account. The password is stored only as a salted
// one-way hash, never in plaintext.
type User struct {
	ID        uuid.UUID // PK
	Name      string
	Email     string // unique, stored lower-cased
	Role      Role
	PwdHash   []byte // Argon2id(password, SaltAuth)
	SaltAuth  []byte // per-user auth salt
	CreatedAt time.Time
}

// IsAdmin reports whether the account holds the administrative privilege.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Note is a single owned text record. The owner is set at creation and
// never changes.
type Note struct {
	ID          uuid.UUID // server-generated PK
	UserID      uuid.UUID // FK -> users.id, immutable
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NoteWithOwner is a note joined with its owner's public fields,
// used by the admin listing.
type NoteWithOwner struct {
	Note
	OwnerName  string
	OwnerEmail string
}

// NoteUpdate carries a partial note mutation. Empty fields keep the
// stored value.
type NoteUpdate struct {
	Title       string
	Description string
}

// Token is an issued access credential with its expiry (for diagnostics
// and the login response).
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}
