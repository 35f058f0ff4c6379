package entries

import (
	"context"

	"github.com/wibisana/berkas/internal/server/models"
)

// Filter selects catalog entries within one organization. Conditions
// compose by logical AND. A nil ParentID selects root-level entries.
type Filter struct {
	ParentID *string
	// DeletedOnly flips the soft-delete condition: by default entries
	// marked for deletion are excluded, with DeletedOnly only they match.
	DeletedOnly bool
	Kind        *models.EntryKind
	DocType     *models.DocType
	// Query is a case-insensitive substring match against the name.
	Query string
}

type Repository interface {
	Create(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	GetByID(ctx context.Context, id string) (*models.Entry, error)
	SelectFiltered(ctx context.Context, orgID string, f Filter) ([]*models.Entry, error)
	SetShouldDelete(ctx context.Context, id string, marked bool) error
	SelectMarkedForDeletion(ctx context.Context) ([]*models.Entry, error)
	Delete(ctx context.Context, id string) error
}
