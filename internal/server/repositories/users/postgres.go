package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wibisana/berkas/internal/common"
	"github.com/wibisana/berkas/internal/dbx"
	"github.com/wibisana/berkas/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (token_identifier, name, image, role, org_unit_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.TokenIdentifier, user.Name, user.Image, user.Role, user.OrgUnitID).
		Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*models.User, error) {
	query :=
		`SELECT id, token_identifier, name, image, role, org_unit_id, created_at FROM users
		 WHERE token_identifier = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&user.ID, &user.TokenIdentifier, &user.Name, &user.Image, &user.Role, &user.OrgUnitID, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, token_identifier, name, image, role, org_unit_id, created_at FROM users
		 WHERE id = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.TokenIdentifier, &user.Name, &user.Image, &user.Role, &user.OrgUnitID, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// UpdateProfile patches the mutable profile fields of the user owning the
// given identity token. Role and token are immutable here.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, token, name, image string) error {
	query :=
		`UPDATE users SET name = $2, image = $3
		 WHERE token_identifier = $1
		 `

	result, err := r.db.ExecContext(ctx, query, token, name, image)
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
