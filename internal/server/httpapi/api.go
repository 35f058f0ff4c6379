// Package httpapi is the JSON transport shell over the catalog
// services: a chi router, bearer-token middleware, request logging and
// Prometheus metrics.
package httpapi

import (
	"context"

	"github.com/wibisana/berkas/internal/server/models"
	"github.com/wibisana/berkas/internal/server/services"
)

// The handler set depends on narrow service interfaces so tests can
// drive it with fakes. The concrete implementations live in services.

type IdentityAPI interface {
	CreateUser(ctx context.Context, p services.CreateUserParams) (*models.User, error)
	UpdateUser(ctx context.Context, token, name, image string) error
	GetProfile(ctx context.Context, userID string) (models.Profile, error)
	Me(ctx context.Context, token string) (*models.User, error)
}

type CatalogAPI interface {
	GenerateUploadURL(ctx context.Context, token string) (string, string, error)
	CreateFolder(ctx context.Context, token, name, orgID string, parentID *string) (*models.Entry, error)
	CreateFile(ctx context.Context, token string, p services.CreateFileParams) (*models.Entry, error)
	ListEntries(ctx context.Context, token, orgID string, f services.ListFilter) ([]*services.EntryWithURL, error)
}

type LifecycleAPI interface {
	MarkForDeletion(ctx context.Context, token, entryID string) error
	Restore(ctx context.Context, token, entryID string) error
	PurgeMarkedEntries(ctx context.Context) (int, error)
}

type FavoriteAPI interface {
	Toggle(ctx context.Context, token, entryID string) error
	List(ctx context.Context, token, orgID string) ([]*models.FavoriteMark, error)
}

type PathAPI interface {
	Resolve(ctx context.Context, entryID *string) ([]models.PathSegment, error)
}

// Services bundles everything the router serves.
type Services struct {
	Identity  IdentityAPI
	Catalog   CatalogAPI
	Lifecycle LifecycleAPI
	Favorites FavoriteAPI
	Paths     PathAPI
}
