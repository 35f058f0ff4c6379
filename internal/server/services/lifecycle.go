package services

import (
	"context"
	"database/sql"

	"github.com/wibisana/berkas/internal/common"
	"github.com/wibisana/berkas/internal/dbx"
	"github.com/wibisana/berkas/internal/logging"
	"github.com/wibisana/berkas/internal/server/blob"
	"github.com/wibisana/berkas/internal/server/repositories/repomanager"
)

// LifecycleService handles the two-phase removal of catalog entries:
// a reversible soft-delete mark, then a background purge that removes
// blob content and metadata for good.
type LifecycleService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	blobs  blob.Store
	gate   *accessGate
	logger logging.Logger
}

func NewLifecycleService(db *sql.DB, rm repomanager.RepositoryManager, blobs blob.Store, logger logging.Logger) *LifecycleService {
	return &LifecycleService{db: db, rm: rm, blobs: blobs, gate: newAccessGate(db, rm), logger: logger}
}

// MarkForDeletion flags an entry for the next purge run. Only the
// entry's owner or an admin may mark it. Marking an already marked
// entry is a no-op.
func (s *LifecycleService) MarkForDeletion(ctx context.Context, token, entryID string) error {
	return s.setMark(ctx, token, entryID, true)
}

// Restore clears the deletion mark, bringing the entry back into
// regular listings. Restoring an unmarked entry is a no-op.
func (s *LifecycleService) Restore(ctx context.Context, token, entryID string) error {
	return s.setMark(ctx, token, entryID, false)
}

func (s *LifecycleService) setMark(ctx context.Context, token, entryID string, marked bool) error {
	op := opRestore
	if marked {
		op = opMarkForDeletion
	}

	access, err := s.gate.entryAccess(ctx, token, entryID)
	if err != nil {
		return err
	}
	if access == nil {
		return common.ErrAccessDenied
	}
	if err := assertCanMutate(access.user, access.entry, op); err != nil {
		return err
	}
	return s.rm.Entries(s.db).SetShouldDelete(ctx, entryID, marked)
}

// PurgeMarkedEntries permanently removes every entry marked for
// deletion. Each entry is handled independently: the blob is deleted
// first, then favorites and metadata go in one transaction. A failure
// leaves that entry marked, so the next run retries it. Returns how
// many entries were fully purged.
func (s *LifecycleService) PurgeMarkedEntries(ctx context.Context) (int, error) {
	items, err := s.rm.Entries(s.db).SelectMarkedForDeletion(ctx)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, e := range items {
		if e.BlobKey != nil {
			if err := s.blobs.Delete(ctx, *e.BlobKey); err != nil {
				s.logger.Error(ctx, "blob deletion failed, entry kept for next run",
					"entry_id", e.ID, "error", err.Error())
				continue
			}
		}

		err := withTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
			if err := s.rm.Favorites(tx).DeleteByEntry(ctx, e.ID); err != nil {
				return err
			}
			return s.rm.Entries(tx).Delete(ctx, e.ID)
		})
		if err != nil {
			s.logger.Error(ctx, "entry metadata deletion failed",
				"entry_id", e.ID, "error", err.Error())
			continue
		}
		purged++
	}
	return purged, nil
}
