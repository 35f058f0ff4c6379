package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wibisana/berkas/internal/common"
	"github.com/wibisana/berkas/internal/server/models"
	"github.com/wibisana/berkas/internal/server/services"
)

// Handlers glues HTTP requests to the service layer. The caller token
// always travels explicitly: handlers read it from the request context
// and pass it into every service call.
type Handlers struct {
	svc Services
}

func NewHandlers(svc Services) *Handlers {
	return &Handlers{svc: svc}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrorValidation)
	}
	return nil
}

// --- wire types ---

type entryDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Kind         models.EntryKind `json:"kind"`
	OrgID        string          `json:"org_id"`
	UserID       string          `json:"user_id"`
	DocType      *models.DocType `json:"doc_type,omitempty"`
	ParentID     *string         `json:"parent_id,omitempty"`
	ShouldDelete bool            `json:"should_delete"`
	CreatedAt    time.Time       `json:"created_at"`
	URL          *string         `json:"url,omitempty"`
}

func toEntryDTO(e *models.Entry, url *string) entryDTO {
	return entryDTO{
		ID:           e.ID,
		Name:         e.Name,
		Kind:         e.Kind,
		OrgID:        e.OrgID,
		UserID:       e.UserID,
		DocType:      e.DocType,
		ParentID:     e.ParentID,
		ShouldDelete: e.ShouldDelete,
		CreatedAt:    e.CreatedAt,
		URL:          url,
	}
}

type userDTO struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Image     string       `json:"image,omitempty"`
	Role      models.Role  `json:"role"`
	OrgUnitID *string      `json:"org_unit_id,omitempty"`
}

func toUserDTO(u *models.User) userDTO {
	return userDTO{ID: u.ID, Name: u.Name, Image: u.Image, Role: u.Role, OrgUnitID: u.OrgUnitID}
}

// --- uploads & catalog ---

func (h *Handlers) GenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	key, url, err := h.svc.Catalog.GenerateUploadURL(r.Context(), CallerToken(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "url": url})
}

func (h *Handlers) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string  `json:"name"`
		OrgID    string  `json:"org_id"`
		ParentID *string `json:"parent_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	folder, err := h.svc.Catalog.CreateFolder(r.Context(), CallerToken(r.Context()), req.Name, req.OrgID, req.ParentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTO(folder, nil))
}

func (h *Handlers) CreateFile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string           `json:"name"`
		BlobKey  string           `json:"blob_key"`
		OrgID    string           `json:"org_id"`
		Kind     models.EntryKind `json:"kind"`
		DocType  *models.DocType  `json:"doc_type"`
		ParentID *string          `json:"parent_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	file, err := h.svc.Catalog.CreateFile(r.Context(), CallerToken(r.Context()), services.CreateFileParams{
		Name:     req.Name,
		BlobKey:  req.BlobKey,
		OrgID:    req.OrgID,
		Kind:     req.Kind,
		DocType:  req.DocType,
		ParentID: req.ParentID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTO(file, nil))
}

func (h *Handlers) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := services.ListFilter{}
	f.Query = q.Get("q")
	f.DeletedOnly = q.Get("deleted") == "true"
	f.FavoritesOnly = q.Get("favorites") == "true"
	if v := q.Get("parent_id"); v != "" {
		f.ParentID = &v
	}
	if v := q.Get("kind"); v != "" {
		kind := models.EntryKind(v)
		if !kind.Valid() {
			writeError(w, fmt.Errorf("%w: unknown kind %q", common.ErrorValidation, v))
			return
		}
		f.Kind = &kind
	}
	if v := q.Get("doc_type"); v != "" {
		dt := models.DocType(v)
		if !dt.Valid() {
			writeError(w, fmt.Errorf("%w: unknown document type %q", common.ErrorValidation, v))
			return
		}
		f.DocType = &dt
	}

	items, err := h.svc.Catalog.ListEntries(r.Context(), CallerToken(r.Context()), q.Get("org_id"), f)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]entryDTO, 0, len(items))
	for _, it := range items {
		out = append(out, toEntryDTO(&it.Entry, it.URL))
	}
	writeJSON(w, http.StatusOK, out)
}

// --- lifecycle ---

func (h *Handlers) TrashEntry(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Lifecycle.MarkForDeletion(r.Context(), CallerToken(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handlers) RestoreEntry(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Lifecycle.Restore(r.Context(), CallerToken(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handlers) Purge(w http.ResponseWriter, r *http.Request) {
	purged, err := h.svc.Lifecycle.PurgeMarkedEntries(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"purged": purged})
}

// --- favorites ---

func (h *Handlers) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Favorites.Toggle(r.Context(), CallerToken(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handlers) ListFavorites(w http.ResponseWriter, r *http.Request) {
	marks, err := h.svc.Favorites.List(r.Context(), CallerToken(r.Context()), r.URL.Query().Get("org_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	type markDTO struct {
		ID      string `json:"id"`
		EntryID string `json:"entry_id"`
		OrgID   string `json:"org_id"`
	}
	out := make([]markDTO, 0, len(marks))
	for _, m := range marks {
		out = append(out, markDTO{ID: m.ID, EntryID: m.EntryID, OrgID: m.OrgID})
	}
	writeJSON(w, http.StatusOK, out)
}

// --- path ---

func (h *Handlers) ResolvePath(w http.ResponseWriter, r *http.Request) {
	var entryID *string
	if v := r.URL.Query().Get("entry_id"); v != "" {
		entryID = &v
	}

	segments, err := h.svc.Paths.Resolve(r.Context(), entryID)
	if err != nil {
		writeError(w, err)
		return
	}

	type segmentDTO struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	out := make([]segmentDTO, 0, len(segments))
	for _, s := range segments {
		out = append(out, segmentDTO{ID: s.ID, Name: s.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

// --- identity ---

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Identity.Me(r.Context(), CallerToken(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusOK, json.RawMessage("null"))
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.Identity.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": profile.Name, "image": profile.Image})
}

func (h *Handlers) ProvisionUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TokenIdentifier string      `json:"token_identifier"`
		Name            string      `json:"name"`
		Image           string      `json:"image"`
		Role            models.Role `json:"role"`
		OrgUnitID       *string     `json:"org_unit_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.svc.Identity.CreateUser(r.Context(), services.CreateUserParams{
		TokenIdentifier: req.TokenIdentifier,
		Name:            req.Name,
		Image:           req.Image,
		Role:            req.Role,
		OrgUnitID:       req.OrgUnitID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

func (h *Handlers) UpdateProvisionedUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TokenIdentifier string `json:"token_identifier"`
		Name            string `json:"name"`
		Image           string `json:"image"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.Identity.UpdateUser(r.Context(), req.TokenIdentifier, req.Name, req.Image); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
