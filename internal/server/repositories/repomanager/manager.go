package repomanager

import (
	"context"
	"database/sql"

	"github.com/wibisana/berkas/internal/dbx"
	"github.com/wibisana/berkas/internal/server/repositories/entries"
	"github.com/wibisana/berkas/internal/server/repositories/favorites"
	"github.com/wibisana/berkas/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a *sql.DB or *sql.Tx,
// letting services run multi-repository work inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Entries(db dbx.DBTX) entries.Repository
	Favorites(db dbx.DBTX) favorites.Repository
}
