// Package entries provides the PostgreSQL-backed repository for catalog
// entry persistence and filtered listing.
package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/wibisana/berkas/internal/common"
	"github.com/wibisana/berkas/internal/dbx"
	"github.com/wibisana/berkas/internal/server/models"
)

const entryColumns = "id, name, kind, org_id, user_id, blob_key, doc_type, parent_id, should_delete, created_at"

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.Entry) (*models.Entry, error) {
	query := `
		INSERT INTO entries (name, kind, org_id, user_id, blob_key, doc_type, parent_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		entry.Name, entry.Kind, entry.OrgID, entry.UserID, entry.BlobKey, entry.DocType, entry.ParentID).
		Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`

	entry := &models.Entry{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&entry.ID, &entry.Name, &entry.Kind, &entry.OrgID, &entry.UserID,
		&entry.BlobKey, &entry.DocType, &entry.ParentID, &entry.ShouldDelete, &entry.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

// SelectFiltered lists the entries of one organization matching the
// filter. Rows come back in insertion order; no ordering is promised to
// callers beyond being deterministic.
func (r *PostgresRepository) SelectFiltered(ctx context.Context, orgID string, f Filter) ([]*models.Entry, error) {
	var b strings.Builder
	b.WriteString(`SELECT ` + entryColumns + ` FROM entries WHERE org_id = $1`)
	args := []any{orgID}

	if f.ParentID == nil {
		b.WriteString(` AND parent_id IS NULL`)
	} else {
		args = append(args, *f.ParentID)
		fmt.Fprintf(&b, ` AND parent_id = $%d`, len(args))
	}

	if f.DeletedOnly {
		b.WriteString(` AND should_delete`)
	} else {
		b.WriteString(` AND NOT should_delete`)
	}

	if f.Kind != nil {
		args = append(args, *f.Kind)
		fmt.Fprintf(&b, ` AND kind = $%d`, len(args))
	}

	if f.DocType != nil {
		args = append(args, *f.DocType)
		fmt.Fprintf(&b, ` AND doc_type = $%d`, len(args))
	}

	if f.Query != "" {
		args = append(args, "%"+escapeLike(f.Query)+"%")
		fmt.Fprintf(&b, ` AND name ILIKE $%d`, len(args))
	}

	b.WriteString(` ORDER BY created_at, id`)

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// SetShouldDelete flips the soft-delete flag. Idempotent: setting an
// already-set flag affects the row and succeeds; only a missing row
// yields ErrorNotFound.
func (r *PostgresRepository) SetShouldDelete(ctx context.Context, id string, marked bool) error {
	query := `UPDATE entries SET should_delete = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, marked)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// SelectMarkedForDeletion returns all entries flagged for purge, across
// every organization.
func (r *PostgresRepository) SelectMarkedForDeletion(ctx context.Context) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE should_delete`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM entries WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]*models.Entry, error) {
	var result []*models.Entry
	for rows.Next() {
		var item models.Entry
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Kind, &item.OrgID, &item.UserID,
			&item.BlobKey, &item.DocType, &item.ParentID, &item.ShouldDelete, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// escapeLike escapes the LIKE wildcard characters so user input matches
// literally inside the enclosing %...% pattern.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
