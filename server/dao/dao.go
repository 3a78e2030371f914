// Package dao provides data access objects for use in the STL catalog server.
package dao

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dekarrin/stlspec/stl/trans"
	"github.com/google/uuid"
)

// Store is the persistence of the server. It holds repositories for each kind
// of entity.
type Store interface {

	// Users returns the repository of user accounts.
	Users() UserRepository

	// Requirements returns the repository of cataloged requirements.
	Requirements() RequirementRepository

	// Close closes any connections held open by the store.
	Close() error
}

// UserRepository is the persistence of user accounts.
type UserRepository interface {

	// Create creates a new User. All attributes except for auto-generated
	// fields are taken from the provided User.
	Create(ctx context.Context, user User) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)
	Close() error
}

// RequirementRepository is the persistence of cataloged STL requirements and
// their compiled artifacts.
type RequirementRepository interface {

	// Create creates a new Requirement. All attributes except for
	// auto-generated fields are taken from the provided Requirement.
	Create(ctx context.Context, req Requirement) (Requirement, error)
	GetAll(ctx context.Context) ([]Requirement, error)
	GetByID(ctx context.Context, id uuid.UUID) (Requirement, error)
	GetByName(ctx context.Context, name string) (Requirement, error)
	Update(ctx context.Context, id uuid.UUID, req Requirement) (Requirement, error)
	Delete(ctx context.Context, id uuid.UUID) (Requirement, error)
	Close() error
}

type Role int

const (
	Guest Role = iota
	Unverified
	Normal

	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Guest:
		return "guest"
	case Unverified:
		return "unverified"
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

func ParseRole(s string) (Role, error) {
	check := strings.ToLower(s)
	switch check {
	case "guest":
		return Guest, nil
	case "unverified":
		return Unverified, nil
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Guest, fmt.Errorf("must be one of 'guest', 'unverified', 'normal', or 'admin'")
	}
}

type User struct {
	ID             uuid.UUID
	Username       string
	Password       string // stored as base64-encoded bcrypt hash
	Email          *mail.Address
	Role           Role
	Created        time.Time
	Modified       time.Time
	LastLoginTime  time.Time
	LastLogoutTime time.Time
}

// Requirement is one cataloged STL requirement. Formula is the requirement
// text exactly as submitted; Compiled holds the binary monitor spec produced
// for Target, and is empty until the requirement has been compiled.
type Requirement struct {
	ID       uuid.UUID
	Name     string
	Formula  string
	Target   trans.Target
	Compiled []byte
	Owner    uuid.UUID
	Created  time.Time
	Modified time.Time
}
