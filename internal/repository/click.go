package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/snaplinkhq/snaplink/internal/models"
)

type SQLClickRepository struct {
	db *sql.DB
}

func NewSQLClickRepository(db *sql.DB) *SQLClickRepository {
	return &SQLClickRepository{db: db}
}

func (r *SQLClickRepository) Record(ctx context.Context, linkID int64, referrer, userAgent, ip *string) error {
	query := `INSERT INTO clicks (link_id, referrer, ua, ip, ts) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, linkID, referrer, userAgent, ip, time.Now().UTC())
	return err
}

func (r *SQLClickRepository) ListByLink(ctx context.Context, linkID int64, limit int) ([]models.Click, error) {
	query := `SELECT id, link_id, referrer, ua, ip, ts FROM clicks
		WHERE link_id = $1 ORDER BY ts DESC, id DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, linkID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clicks := make([]models.Click, 0)
	for rows.Next() {
		var click models.Click
		if err := rows.Scan(&click.ID, &click.LinkID, &click.Referrer,
			&click.UserAgent, &click.IP, &click.Ts); err != nil {
			return nil, err
		}
		clicks = append(clicks, click)
	}
	return clicks, rows.Err()
}
