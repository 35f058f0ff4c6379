package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/wibisana/berkas/internal/common"
	"github.com/wibisana/berkas/internal/server/blob"
	"github.com/wibisana/berkas/internal/server/models"
	"github.com/wibisana/berkas/internal/server/repositories/entries"
	"github.com/wibisana/berkas/internal/server/repositories/repomanager"
)

// CatalogService creates folders and files and lists the catalog of an
// organization, annotating file rows with presigned download URLs.
type CatalogService struct {
	db    *sql.DB
	rm    repomanager.RepositoryManager
	blobs blob.Store
	gate  *accessGate
}

func NewCatalogService(db *sql.DB, rm repomanager.RepositoryManager, blobs blob.Store) *CatalogService {
	return &CatalogService{db: db, rm: rm, blobs: blobs, gate: newAccessGate(db, rm)}
}

// EntryWithURL is a catalog row as returned to clients: the entry plus,
// for files, a short-lived download URL.
type EntryWithURL struct {
	models.Entry
	URL *string
}

// ListFilter narrows a catalog listing. Repository conditions come from
// the embedded filter; FavoritesOnly intersects the result with the
// caller's favorite marks in memory.
type ListFilter struct {
	entries.Filter
	FavoritesOnly bool
}

// GenerateUploadURL hands any authenticated caller a fresh storage key
// and a presigned PUT URL. The entry itself is registered afterwards via
// CreateFile, once the upload finished.
func (s *CatalogService) GenerateUploadURL(ctx context.Context, token string) (string, string, error) {
	user, err := s.gate.resolveUser(ctx, token)
	if err != nil {
		return "", "", err
	}
	if _, err := authorize(user, opGenerateUploadURL); err != nil {
		return "", "", err
	}
	return s.blobs.PresignUpload(ctx)
}

// CreateFolder adds a folder under parentID (nil for the root level).
func (s *CatalogService) CreateFolder(ctx context.Context, token, name, orgID string, parentID *string) (*models.Entry, error) {
	user, err := s.gate.resolveUser(ctx, token)
	if err != nil {
		return nil, err
	}
	if _, err := authorize(user, opCreateFolder); err != nil {
		return nil, err
	}

	if err := validateEntryName(name, orgID); err != nil {
		return nil, err
	}
	if err := s.validateParent(ctx, orgID, parentID); err != nil {
		return nil, err
	}

	folder := models.NewFolder(name, orgID, user.ID, parentID)
	return s.rm.Entries(s.db).Create(ctx, folder)
}

// CreateFileParams registers an uploaded blob as a catalog entry.
type CreateFileParams struct {
	Name     string
	BlobKey  string
	OrgID    string
	Kind     models.EntryKind
	DocType  *models.DocType
	ParentID *string
}

func (p CreateFileParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&p.BlobKey, validation.Required),
		validation.Field(&p.OrgID, validation.Required),
		validation.Field(&p.Kind, validation.Required, validation.In(models.EntryKindFile, models.EntryKindImage)),
	)
}

// CreateFile records a previously uploaded object in the catalog.
func (s *CatalogService) CreateFile(ctx context.Context, token string, p CreateFileParams) (*models.Entry, error) {
	user, err := s.gate.resolveUser(ctx, token)
	if err != nil {
		return nil, err
	}
	if _, err := authorize(user, opCreateFile); err != nil {
		return nil, err
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrorValidation, err)
	}
	if p.DocType != nil && !p.DocType.Valid() {
		return nil, fmt.Errorf("%w: unknown document type %q", common.ErrorValidation, *p.DocType)
	}
	if err := s.validateParent(ctx, p.OrgID, p.ParentID); err != nil {
		return nil, err
	}

	file, err := models.NewFile(p.Name, p.BlobKey, p.OrgID, user.ID, p.Kind, p.DocType, p.ParentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrorValidation, err)
	}
	return s.rm.Entries(s.db).Create(ctx, file)
}

// ListEntries returns the caller-visible slice of an organization's
// catalog. Callers without the required role get an empty listing.
func (s *CatalogService) ListEntries(ctx context.Context, token, orgID string, f ListFilter) ([]*EntryWithURL, error) {
	user, err := s.gate.resolveUser(ctx, token)
	if err != nil {
		return nil, err
	}
	proceed, err := authorize(user, opListEntries)
	if err != nil {
		return nil, err
	}
	if !proceed {
		return []*EntryWithURL{}, nil
	}

	var favoriteIDs map[string]struct{}
	if f.FavoritesOnly {
		marks, err := s.rm.Favorites(s.db).SelectByUserAndOrg(ctx, user.ID, orgID)
		if err != nil {
			return nil, err
		}
		favoriteIDs = make(map[string]struct{}, len(marks))
		for _, m := range marks {
			favoriteIDs[m.EntryID] = struct{}{}
		}
	}

	items, err := s.rm.Entries(s.db).SelectFiltered(ctx, orgID, f.Filter)
	if err != nil {
		return nil, err
	}

	result := make([]*EntryWithURL, 0, len(items))
	for _, e := range items {
		if f.FavoritesOnly {
			if _, ok := favoriteIDs[e.ID]; !ok {
				continue
			}
		}
		row := &EntryWithURL{Entry: *e}
		if e.BlobKey != nil {
			url, err := s.blobs.PresignDownload(ctx, *e.BlobKey)
			if err != nil {
				return nil, err
			}
			row.URL = &url
		}
		result = append(result, row)
	}
	return result, nil
}

func validateEntryName(name, orgID string) error {
	if err := validation.Validate(name, validation.Required, validation.Length(1, 255)); err != nil {
		return fmt.Errorf("%w: name: %s", common.ErrorValidation, err)
	}
	if err := validation.Validate(orgID, validation.Required); err != nil {
		return fmt.Errorf("%w: org_id: %s", common.ErrorValidation, err)
	}
	return nil
}

// validateParent requires parentID, when set, to reference an existing
// folder in the same organization.
func (s *CatalogService) validateParent(ctx context.Context, orgID string, parentID *string) error {
	if parentID == nil {
		return nil
	}
	parent, err := s.rm.Entries(s.db).GetByID(ctx, *parentID)
	if errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%w: parent folder %s does not exist", common.ErrorValidation, *parentID)
	}
	if err != nil {
		return err
	}
	if parent.Kind != models.EntryKindFolder {
		return fmt.Errorf("%w: parent %s is not a folder", common.ErrorValidation, *parentID)
	}
	if parent.OrgID != orgID {
		return fmt.Errorf("%w: parent folder belongs to another organization", common.ErrorValidation)
	}
	return nil
}
