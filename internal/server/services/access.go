// Package services implements the application logic of the catalog:
// identity resolution, access control, entry lifecycle, favorites and
// path resolution. Services own no SQL; they orchestrate repositories
// and the blob store.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wibisana/berkas/internal/common"
	"github.com/wibisana/berkas/internal/dbx"
	"github.com/wibisana/berkas/internal/server/models"
	"github.com/wibisana/berkas/internal/server/repositories/repomanager"
)

// Operation names used as keys into the access policy table.
const (
	opCreateFolder      = "catalog.create_folder"
	opCreateFile        = "catalog.create_file"
	opListEntries       = "catalog.list_entries"
	opGenerateUploadURL = "catalog.generate_upload_url"
	opMarkForDeletion   = "lifecycle.mark_for_deletion"
	opRestore           = "lifecycle.restore"
	opToggleFavorite    = "favorites.toggle"
	opListFavorites     = "favorites.list"
)

type denyMode int

const (
	// denyWithError rejects the call with ErrAccessDenied.
	denyWithError denyMode = iota
	// denyWithEmpty lets read operations degrade to an empty result
	// instead of failing, so a member's UI renders blank rather than
	// erroring.
	denyWithEmpty
)

type policy struct {
	adminOnly bool
	// ownerOverride lets the owning user mutate an entry even without
	// the admin role. Checked by assertCanMutate after entry lookup.
	ownerOverride bool
	onDeny        denyMode
}

// accessPolicies is the single place where per-operation authorization
// is declared. Every service method consults it through authorize.
var accessPolicies = map[string]policy{
	opCreateFolder:      {adminOnly: true},
	opCreateFile:        {adminOnly: true},
	opListEntries:       {adminOnly: true, onDeny: denyWithEmpty},
	opGenerateUploadURL: {},
	opMarkForDeletion:   {adminOnly: true, ownerOverride: true},
	opRestore:           {adminOnly: true, ownerOverride: true},
	opToggleFavorite:    {adminOnly: true},
	opListFavorites:     {adminOnly: true, onDeny: denyWithEmpty},
}

// authorize checks op's policy against the user's role. It returns
// proceed=false with a nil error when the policy degrades to an empty
// result, and ErrAccessDenied when the operation must be rejected.
func authorize(user *models.User, op string) (bool, error) {
	p, ok := accessPolicies[op]
	if !ok {
		return false, common.ErrAccessDenied
	}
	if !p.adminOnly || user.Role == models.RoleAdmin {
		return true, nil
	}
	if p.onDeny == denyWithEmpty {
		return false, nil
	}
	return false, common.ErrAccessDenied
}

// accessGate resolves caller identity and entry visibility for the
// services in this package.
type accessGate struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func newAccessGate(db *sql.DB, rm repomanager.RepositoryManager) *accessGate {
	return &accessGate{db: db, rm: rm}
}

// resolveUser maps a caller token to a user record. An empty token means
// the request carried no identity at all.
func (g *accessGate) resolveUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrNotAuthenticated
	}
	user, err := g.rm.Users(g.db).GetByToken(ctx, token)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// entryAccess couples a resolved caller with the entry they asked about.
type entryAccess struct {
	user  *models.User
	entry *models.Entry
}

// entryAccess loads the caller and the entry. It returns (nil, nil) when
// the entry does not exist or the caller lacks the admin role: callers
// treat both as "no access" without learning which one it was.
func (g *accessGate) entryAccess(ctx context.Context, token, entryID string) (*entryAccess, error) {
	user, err := g.resolveUser(ctx, token)
	if err != nil {
		return nil, err
	}

	entry, err := g.rm.Entries(g.db).GetByID(ctx, entryID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if user.Role != models.RoleAdmin {
		return nil, nil
	}
	return &entryAccess{user: user, entry: entry}, nil
}

// assertCanMutate allows destructive changes to a loaded entry: admins
// always pass, and the entry's owner passes when the operation's policy
// grants an owner override.
func assertCanMutate(user *models.User, entry *models.Entry, op string) error {
	p, ok := accessPolicies[op]
	if !ok {
		return common.ErrAccessDenied
	}
	if user.Role == models.RoleAdmin {
		return nil
	}
	if p.ownerOverride && entry.UserID == user.ID {
		return nil
	}
	return common.ErrAccessDenied
}

// withTx is a small indirection so services share the dbx transaction
// helper without importing it in every file.
func withTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return dbx.WithTx(ctx, db, nil, fn)
}
