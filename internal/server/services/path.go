package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wibisana/berkas/internal/common"
	"github.com/wibisana/berkas/internal/server/models"
	"github.com/wibisana/berkas/internal/server/repositories/repomanager"
)

// maxPathDepth bounds the parent walk; the depth guard backs up the
// cycle check for pathological trees.
const maxPathDepth = 128

// PathService resolves breadcrumb paths by walking parent links up to
// the root.
type PathService struct {
	db *sql.DB
	rm repomanager.RepositoryManager
}

func NewPathService(db *sql.DB, rm repomanager.RepositoryManager) *PathService {
	return &PathService{db: db, rm: rm}
}

// Resolve returns the chain of entries from the root down to entryID,
// root first. A nil entryID resolves to an empty path. The walk ends
// quietly at a dangling parent link; a parent cycle is reported as
// ErrCycleDetected.
func (s *PathService) Resolve(ctx context.Context, entryID *string) ([]models.PathSegment, error) {
	if entryID == nil {
		return []models.PathSegment{}, nil
	}

	repo := s.rm.Entries(s.db)
	visited := make(map[string]struct{})
	segments := make([]models.PathSegment, 0, 8)

	current := entryID
	for current != nil {
		if _, seen := visited[*current]; seen {
			return nil, fmt.Errorf("%w: entry %s", common.ErrCycleDetected, *current)
		}
		if len(visited) >= maxPathDepth {
			return nil, fmt.Errorf("%w: path deeper than %d", common.ErrCycleDetected, maxPathDepth)
		}
		visited[*current] = struct{}{}

		entry, err := repo.GetByID(ctx, *current)
		if errors.Is(err, common.ErrorNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}

		// Prepend so the slice ends up ordered root-first.
		segments = append([]models.PathSegment{{ID: entry.ID, Name: entry.Name}}, segments...)
		current = entry.ParentID
	}
	return segments, nil
}
