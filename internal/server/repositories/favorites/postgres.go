// Package favorites provides a PostgreSQL-backed repository for per-user
// favorite marks over catalog entries.
package favorites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wibisana/berkas/internal/common"
	"github.com/wibisana/berkas/internal/dbx"
	"github.com/wibisana/berkas/internal/server/models"
)

// PostgresRepository implements favorite-mark storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Find returns the mark for the (user, org, entry) key, or ErrorNotFound.
func (r *PostgresRepository) Find(ctx context.Context, userID, orgID, entryID string) (*models.FavoriteMark, error) {
	query :=
		`SELECT id, entry_id, user_id, org_id, created_at FROM favorites
		 WHERE user_id = $1 AND org_id = $2 AND entry_id = $3
		 `

	mark := &models.FavoriteMark{}
	err := r.db.QueryRowContext(ctx, query, userID, orgID, entryID).Scan(
		&mark.ID, &mark.EntryID, &mark.UserID, &mark.OrgID, &mark.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return mark, nil
}

func (r *PostgresRepository) Create(ctx context.Context, mark *models.FavoriteMark) (*models.FavoriteMark, error) {
	query :=
		`INSERT INTO favorites (entry_id, user_id, org_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, mark.EntryID, mark.UserID, mark.OrgID).
		Scan(&mark.ID, &mark.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return mark, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM favorites WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SelectByUserAndOrg(ctx context.Context, userID, orgID string) ([]*models.FavoriteMark, error) {
	query :=
		`SELECT id, entry_id, user_id, org_id, created_at FROM favorites
		 WHERE user_id = $1 AND org_id = $2
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to select favorites: %w", err)
	}
	defer rows.Close()

	var result []*models.FavoriteMark
	for rows.Next() {
		var item models.FavoriteMark
		if err := rows.Scan(&item.ID, &item.EntryID, &item.UserID, &item.OrgID, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByEntry removes every mark referencing the entry. The purge calls
// this right before deleting the entry row so no orphaned marks survive.
func (r *PostgresRepository) DeleteByEntry(ctx context.Context, entryID string) error {
	query := `DELETE FROM favorites WHERE entry_id = $1`

	if _, err := r.db.ExecContext(ctx, query, entryID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
