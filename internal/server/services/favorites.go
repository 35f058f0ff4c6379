package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wibisana/berkas/internal/common"
	"github.com/wibisana/berkas/internal/server/models"
	"github.com/wibisana/berkas/internal/server/repositories/repomanager"
)

// FavoriteService manages per-user favorite marks on catalog entries.
type FavoriteService struct {
	db   *sql.DB
	rm   repomanager.RepositoryManager
	gate *accessGate
}

func NewFavoriteService(db *sql.DB, rm repomanager.RepositoryManager) *FavoriteService {
	return &FavoriteService{db: db, rm: rm, gate: newAccessGate(db, rm)}
}

// Toggle flips the caller's favorite mark on an entry: marked entries
// get unmarked, unmarked entries get marked. Applying it twice restores
// the initial state.
func (s *FavoriteService) Toggle(ctx context.Context, token, entryID string) error {
	access, err := s.gate.entryAccess(ctx, token, entryID)
	if err != nil {
		return err
	}
	if access == nil {
		return common.ErrAccessDenied
	}
	if _, err := authorize(access.user, opToggleFavorite); err != nil {
		return err
	}

	repo := s.rm.Favorites(s.db)
	mark, err := repo.Find(ctx, access.user.ID, access.entry.OrgID, access.entry.ID)
	if errors.Is(err, common.ErrorNotFound) {
		_, err := repo.Create(ctx, &models.FavoriteMark{
			EntryID: access.entry.ID,
			UserID:  access.user.ID,
			OrgID:   access.entry.OrgID,
		})
		return err
	}
	if err != nil {
		return err
	}
	return repo.Delete(ctx, mark.ID)
}

// List returns the caller's favorite marks within one organization.
// Callers without the required role get an empty list.
func (s *FavoriteService) List(ctx context.Context, token, orgID string) ([]*models.FavoriteMark, error) {
	user, err := s.gate.resolveUser(ctx, token)
	if err != nil {
		return nil, err
	}
	proceed, err := authorize(user, opListFavorites)
	if err != nil {
		return nil, err
	}
	if !proceed {
		return []*models.FavoriteMark{}, nil
	}
	return s.rm.Favorites(s.db).SelectByUserAndOrg(ctx, user.ID, orgID)
}
