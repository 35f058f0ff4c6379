package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/wibisana/berkas/internal/common"
	"github.com/wibisana/berkas/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(token_identifier,\s*name,\s*image,\s*role,\s*org_unit_id\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id,\s*created_at\s*$`

	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow("u-1", time.Now())
	mock.ExpectQuery(q).
		WithArgs("tok-1", "Alice", "https://img/a.png", "admin", nil).
		WillReturnRows(rows)

	u := &models.User{TokenIdentifier: "tok-1", Name: "Alice", Image: "https://img/a.png", Role: models.RoleAdmin}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "u-1" || got.TokenIdentifier != "tok-1" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WithArgs("tok-1", "Alice", "", "member", nil).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{TokenIdentifier: "tok-1", Name: "Alice", Role: models.RoleMember})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByToken_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*token_identifier,\s*name,\s*image,\s*role,\s*org_unit_id,\s*created_at\s+FROM\s+users\s+WHERE\s+token_identifier\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows([]string{"id", "token_identifier", "name", "image", "role", "org_unit_id", "created_at"}).
		AddRow("u-1", "tok-1", "Alice", "", "admin", nil, time.Now())
	mock.ExpectQuery(q).
		WithArgs("tok-1").
		WillReturnRows(rows)

	got, err := repo.GetByToken(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("GetByToken error: %v", err)
	}
	if got.ID != "u-1" || got.Role != models.RoleAdmin {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByToken_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*token_identifier`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByToken(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*token_identifier.*WHERE\s+id\s*=\s*\$1`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "nope")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestUpdateProfile_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+name\s*=\s*\$2,\s*image\s*=\s*\$3\s+WHERE\s+token_identifier\s*=\s*\$1\s*$`

	mock.ExpectExec(q).
		WithArgs("tok-1", "Alice B", "https://img/b.png").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateProfile(context.Background(), "tok-1", "Alice B", "https://img/b.png"); err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
}

func TestUpdateProfile_NoSuchToken(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+users\s+SET`).
		WithArgs("ghost", "X", "").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateProfile(context.Background(), "ghost", "X", "")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
