// Package favorites declares the repository contract for per-user
// favorite marks over catalog entries.
package favorites

import (
	"context"

	"github.com/wibisana/berkas/internal/server/models"
)

type Repository interface {
	Find(ctx context.Context, userID, orgID, entryID string) (*models.FavoriteMark, error)
	Create(ctx context.Context, mark *models.FavoriteMark) (*models.FavoriteMark, error)
	Delete(ctx context.Context, id string) error
	SelectByUserAndOrg(ctx context.Context, userID, orgID string) ([]*models.FavoriteMark, error)
	DeleteByEntry(ctx context.Context, entryID string) error
}
