package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/wibisana/berkas/internal/common"
	"github.com/wibisana/berkas/internal/dbx"
	"github.com/wibisana/berkas/internal/logging"
	"github.com/wibisana/berkas/internal/server/models"
	entriesrepo "github.com/wibisana/berkas/internal/server/repositories/entries"
	favoritesrepo "github.com/wibisana/berkas/internal/server/repositories/favorites"
	usersrepo "github.com/wibisana/berkas/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func strptr(s string) *string { return &s }

func adminUser() *models.User {
	return &models.User{ID: "u-admin", TokenIdentifier: "tok-admin", Name: "Admin", Role: models.RoleAdmin}
}

func memberUser() *models.User {
	return &models.User{ID: "u-member", TokenIdentifier: "tok-member", Name: "Member", Role: models.RoleMember}
}

// --- fake users repository ---

type fakeUsersRepo struct {
	byToken map[string]*models.User
	byID    map[string]*models.User

	createErr error
	getErr    error
	updateErr error

	updateCalls int
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *u
	out.ID = "u-new"
	return &out, nil
}

func (f *fakeUsersRepo) GetByToken(ctx context.Context, token string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byToken[token]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, token, name, image string) error {
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byToken[token]; !ok {
		return common.ErrorNotFound
	}
	return nil
}

// --- fake entries repository ---

type setMarkCall struct {
	id     string
	marked bool
}

type fakeEntriesRepo struct {
	byID map[string]*models.Entry

	createOut *models.Entry
	createErr error
	getErr    error
	selectOut []*models.Entry
	selectErr error
	markedOut []*models.Entry
	markedErr error
	setErr    error
	deleteErr error

	setCalls []setMarkCall
	deleted  []string
}

func (f *fakeEntriesRepo) Create(ctx context.Context, e *models.Entry) (*models.Entry, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	out := *e
	out.ID = "e-new"
	return &out, nil
}

func (f *fakeEntriesRepo) GetByID(ctx context.Context, id string) (*models.Entry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeEntriesRepo) SelectFiltered(ctx context.Context, orgID string, flt entriesrepo.Filter) ([]*models.Entry, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	return f.selectOut, nil
}

func (f *fakeEntriesRepo) SetShouldDelete(ctx context.Context, id string, marked bool) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setCalls = append(f.setCalls, setMarkCall{id: id, marked: marked})
	return nil
}

func (f *fakeEntriesRepo) SelectMarkedForDeletion(ctx context.Context) ([]*models.Entry, error) {
	if f.markedErr != nil {
		return nil, f.markedErr
	}
	return f.markedOut, nil
}

func (f *fakeEntriesRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// --- fake favorites repository (stateful, so toggling twice round-trips) ---

type fakeFavoritesRepo struct {
	seq   int
	marks map[string]*models.FavoriteMark

	findErr   error
	createErr error
	deleteErr error
	selectErr error

	deletedByEntry []string
}

func newFakeFavoritesRepo() *fakeFavoritesRepo {
	return &fakeFavoritesRepo{marks: make(map[string]*models.FavoriteMark)}
}

func (f *fakeFavoritesRepo) Find(ctx context.Context, userID, orgID, entryID string) (*models.FavoriteMark, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, m := range f.marks {
		if m.UserID == userID && m.OrgID == orgID && m.EntryID == entryID {
			return m, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeFavoritesRepo) Create(ctx context.Context, mark *models.FavoriteMark) (*models.FavoriteMark, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.seq++
	out := *mark
	out.ID = fmt.Sprintf("f-%d", f.seq)
	f.marks[out.ID] = &out
	return &out, nil
}

func (f *fakeFavoritesRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.marks, id)
	return nil
}

func (f *fakeFavoritesRepo) SelectByUserAndOrg(ctx context.Context, userID, orgID string) ([]*models.FavoriteMark, error) {
	if f.selectErr != nil {
		return nil, f.selectErr
	}
	var out []*models.FavoriteMark
	for _, m := range f.marks {
		if m.UserID == userID && m.OrgID == orgID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeFavoritesRepo) DeleteByEntry(ctx context.Context, entryID string) error {
	f.deletedByEntry = append(f.deletedByEntry, entryID)
	for id, m := range f.marks {
		if m.EntryID == entryID {
			delete(f.marks, id)
		}
	}
	return nil
}

// --- fake repository manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	e *fakeEntriesRepo
	f *fakeFavoritesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: &fakeUsersRepo{byToken: map[string]*models.User{}, byID: map[string]*models.User{}},
		e: &fakeEntriesRepo{byID: map[string]*models.Entry{}},
		f: newFakeFavoritesRepo(),
	}
}

func (m *fakeRepoManager) withUser(u *models.User) *fakeRepoManager {
	m.u.byToken[u.TokenIdentifier] = u
	m.u.byID[u.ID] = u
	return m
}

func (m *fakeRepoManager) withEntry(e *models.Entry) *fakeRepoManager {
	m.e.byID[e.ID] = e
	return m
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error      { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository           { return m.u }
func (m *fakeRepoManager) Entries(db dbx.DBTX) entriesrepo.Repository       { return m.e }
func (m *fakeRepoManager) Favorites(db dbx.DBTX) favoritesrepo.Repository   { return m.f }

// --- no-op logger ---

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

// --- fake blob store ---

type fakeBlobStore struct {
	uploadKey string
	uploadURL string
	uploadErr error

	downloadErr error
	deleteErr   error

	deleted []string
}

func (f *fakeBlobStore) PresignUpload(ctx context.Context) (string, string, error) {
	if f.uploadErr != nil {
		return "", "", f.uploadErr
	}
	return f.uploadKey, f.uploadURL, nil
}

func (f *fakeBlobStore) PresignDownload(ctx context.Context, key string) (string, error) {
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	return "https://dl/" + key, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, key)
	return nil
}
