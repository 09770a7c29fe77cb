// Package user holds the site's editorial accounts.
package user

import (
	"context"
	"strings"
	"time"

	"github.com/civic-hub/civic-site/internal/domain/shared"
	"github.com/civic-hub/civic-site/pkg/timeutil"
)

const MaxNameLength = 100

// Role controls what a user may edit.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleMember Role = "member"
)

func ParseRole(value string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(value)))
	switch r {
	case RoleAdmin, RoleEditor, RoleMember:
		return r, nil
	}
	return "", shared.UnknownValue("role", value)
}

// CanPublish reports whether the role may publish content.
func (r Role) CanPublish() bool { return r == RoleAdmin || r == RoleEditor }

func (r Role) String() string { return string(r) }

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: USER
// ══════════════════════════════════════════════════════════════════════════════

// User is an immutable account record.
type User struct {
	id        shared.UserID
	email     shared.Email
	name      string
	role      Role
	createdAt time.Time
	updatedAt time.Time
}

// Props is the persisted shape of a user.
type Props struct {
	ID        string
	Email     string
	Name      string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser creates a member account. An empty role defaults to member.
func NewUser(email, name string, role Role) (*User, error) {
	if role == "" {
		role = RoleMember
	}
	now := timeutil.Now()
	return UserFromPersistence(Props{
		ID:        shared.NewUserID().String(),
		Email:     email,
		Name:      name,
		Role:      string(role),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// UserFromPersistence rehydrates a user, revalidating every invariant.
func UserFromPersistence(props Props) (*User, error) {
	id, err := shared.ParseUserID(props.ID)
	if err != nil {
		return nil, err
	}
	email, err := shared.NewEmail(props.Email)
	if err != nil {
		return nil, err
	}
	name, err := shared.RequireText("name", props.Name, 1, MaxNameLength)
	if err != nil {
		return nil, err
	}
	role, err := ParseRole(props.Role)
	if err != nil {
		return nil, err
	}
	if props.CreatedAt.IsZero() {
		return nil, shared.EmptyField("created at")
	}
	if props.UpdatedAt.Before(props.CreatedAt) {
		return nil, shared.OutOfRange("updated at", "cannot be before created at")
	}
	return &User{
		id:        id,
		email:     email,
		name:      name,
		role:      role,
		createdAt: props.CreatedAt.UTC(),
		updatedAt: props.UpdatedAt.UTC(),
	}, nil
}

func (u *User) ToProps() Props {
	return Props{
		ID:        u.id.String(),
		Email:     u.email.String(),
		Name:      u.name,
		Role:      string(u.role),
		CreatedAt: u.createdAt,
		UpdatedAt: u.updatedAt,
	}
}

func (u *User) ID() shared.UserID    { return u.id }
func (u *User) Email() shared.Email  { return u.email }
func (u *User) Name() string         { return u.name }
func (u *User) Role() Role           { return u.role }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// AuthorID is the id under which the user signs articles.
func (u *User) AuthorID() shared.AuthorID { return u.id.AsAuthor() }

func (u *User) update(mutate func(*Props)) (*User, error) {
	props := u.ToProps()
	mutate(&props)
	props.UpdatedAt = timeutil.Later(u.updatedAt, timeutil.Now())
	return UserFromPersistence(props)
}

// UpdateName renames the user; blank names fail with EMPTY_FIELD.
func (u *User) UpdateName(name string) (*User, error) {
	return u.update(func(p *Props) { p.Name = name })
}

// ChangeEmail replaces the address after validating it.
func (u *User) ChangeEmail(email string) (*User, error) {
	return u.update(func(p *Props) { p.Email = email })
}

// ChangeRole assigns a new role.
func (u *User) ChangeRole(role Role) (*User, error) {
	return u.update(func(p *Props) { p.Role = string(role) })
}

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// Repository stores users.
type Repository interface {
	FindByID(ctx context.Context, id shared.UserID) (*User, error)

	// FindByEmail returns an error matching shared.ErrNotFound for unknown addresses.
	FindByEmail(ctx context.Context, email shared.Email) (*User, error)

	ExistsByEmail(ctx context.Context, email shared.Email) (bool, error)

	// Save inserts or replaces the user. An email owned by another user yields
	// an error matching shared.ErrAlreadyExists.
	Save(ctx context.Context, u *User) error

	Delete(ctx context.Context, id shared.UserID) error
}
