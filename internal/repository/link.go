package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/snaplinkhq/snaplink/internal/models"
)

type SQLLinkRepository struct {
	db *sql.DB
}

func NewSQLLinkRepository(db *sql.DB) *SQLLinkRepository {
	return &SQLLinkRepository{db: db}
}

// Create inserts a new link. Alias uniqueness is left to the unique
// constraint; a violation surfaces as ErrDuplicate so the caller can
// distinguish a taken alias from other failures.
func (r *SQLLinkRepository) Create(ctx context.Context, alias, longURL string, ownerID int64, hasQR bool) (*models.Link, error) {
	link := models.Link{
		Alias:     alias,
		LongURL:   longURL,
		OwnerID:   ownerID,
		HasQR:     hasQR,
		CreatedAt: time.Now().UTC(),
	}
	query := `INSERT INTO links (alias, long_url, owner_id, has_qr, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, link.Alias, link.LongURL, link.OwnerID, link.HasQR, link.CreatedAt).
		Scan(&link.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &link, nil
}

func (r *SQLLinkRepository) GetByAlias(ctx context.Context, alias string) (*models.Link, error) {
	query := `SELECT id, alias, long_url, owner_id, has_qr, created_at FROM links WHERE alias = $1`
	return r.scanLink(r.db.QueryRowContext(ctx, query, alias))
}

func (r *SQLLinkRepository) GetOwned(ctx context.Context, id, ownerID int64) (*models.Link, error) {
	query := `SELECT id, alias, long_url, owner_id, has_qr, created_at FROM links
		WHERE id = $1 AND owner_id = $2`
	return r.scanLink(r.db.QueryRowContext(ctx, query, id, ownerID))
}

func (r *SQLLinkRepository) scanLink(row *sql.Row) (*models.Link, error) {
	var link models.Link
	err := row.Scan(&link.ID, &link.Alias, &link.LongURL, &link.OwnerID, &link.HasQR, &link.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// ListByOwner returns the owner's links newest first. The click count is
// aggregated in the same query instead of one count query per link.
func (r *SQLLinkRepository) ListByOwner(ctx context.Context, ownerID int64) ([]models.Link, error) {
	query := `SELECT l.id, l.alias, l.long_url, l.owner_id, l.has_qr, l.created_at, COUNT(c.id)
		FROM links l LEFT JOIN clicks c ON c.link_id = l.id
		WHERE l.owner_id = $1
		GROUP BY l.id, l.alias, l.long_url, l.owner_id, l.has_qr, l.created_at
		ORDER BY l.created_at DESC, l.id DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]models.Link, 0)
	for rows.Next() {
		var link models.Link
		if err := rows.Scan(&link.ID, &link.Alias, &link.LongURL, &link.OwnerID,
			&link.HasQR, &link.CreatedAt, &link.Clicks); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

// Delete removes the link by id. Ownership and alias confirmation are the
// caller's responsibility. Click rows cascade with the link.
func (r *SQLLinkRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM links WHERE id = $1`, id)
	return err
}
