// Package repository defines the read/write contracts over the relational
// store plus a SQL implementation that works against both the production
// Postgres driver and the sqlite driver used in tests.
package repository

import (
	"context"
	"errors"

	"github.com/snaplinkhq/snaplink/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("repository: duplicate entry")
)

type UserRepository interface {
	Create(ctx context.Context, email, passwordHash string, isAdmin bool) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	SetAdmin(ctx context.Context, id int64, admin bool) error
	Delete(ctx context.Context, id int64) error
}

type LinkRepository interface {
	Create(ctx context.Context, alias, longURL string, ownerID int64, hasQR bool) (*models.Link, error)
	GetByAlias(ctx context.Context, alias string) (*models.Link, error)
	// GetOwned treats an ownership mismatch exactly like a missing row so
	// that callers cannot probe for other users' links.
	GetOwned(ctx context.Context, id, ownerID int64) (*models.Link, error)
	// ListByOwner returns the owner's links newest first, each carrying its
	// aggregate click count.
	ListByOwner(ctx context.Context, ownerID int64) ([]models.Link, error)
	Delete(ctx context.Context, id int64) error
}

type ClickRepository interface {
	Record(ctx context.Context, linkID int64, referrer, userAgent, ip *string) error
	ListByLink(ctx context.Context, linkID int64, limit int) ([]models.Click, error)
}
