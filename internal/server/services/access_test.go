package services

import (
	"context"
	"errors"
	"testing"

	"github.com/wibisana/berkas/internal/common"
	"github.com/wibisana/berkas/internal/server/models"
)

func TestResolveUser_EmptyToken(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	g := newAccessGate(db, newFakeRepoManager())
	_, err := g.resolveUser(context.Background(), "")
	if !errors.Is(err, common.ErrNotAuthenticated) {
		t.Fatalf("want ErrNotAuthenticated, got %v", err)
	}
}

func TestResolveUser_UnknownToken(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	g := newAccessGate(db, newFakeRepoManager())
	_, err := g.resolveUser(context.Background(), "nobody")
	if !errors.Is(err, common.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}

func TestEntryAccess_MissingEntry(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager().withUser(adminUser())
	g := newAccessGate(db, rm)

	access, err := g.entryAccess(context.Background(), "tok-admin", "no-such-entry")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if access != nil {
		t.Fatalf("want nil access for missing entry, got %+v", access)
	}
}

func TestEntryAccess_NonAdmin(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager().withUser(memberUser())
	rm.withEntry(&models.Entry{ID: "e1", Name: "doc", Kind: models.EntryKindFile, OrgID: "org1", UserID: "u-member"})
	g := newAccessGate(db, rm)

	access, err := g.entryAccess(context.Background(), "tok-member", "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if access != nil {
		t.Fatalf("member must not see the entry, got %+v", access)
	}
}

func TestEntryAccess_Admin(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager().withUser(adminUser())
	rm.withEntry(&models.Entry{ID: "e1", Name: "doc", Kind: models.EntryKindFile, OrgID: "org1", UserID: "u-admin"})
	g := newAccessGate(db, rm)

	access, err := g.entryAccess(context.Background(), "tok-admin", "e1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if access == nil || access.entry.ID != "e1" || access.user.ID != "u-admin" {
		t.Fatalf("unexpected access: %+v", access)
	}
}

func TestAssertCanMutate(t *testing.T) {
	entry := &models.Entry{ID: "e1", UserID: "u-member"}

	if err := assertCanMutate(memberUser(), entry, opMarkForDeletion); err != nil {
		t.Fatalf("owner must be allowed: %v", err)
	}
	if err := assertCanMutate(adminUser(), entry, opMarkForDeletion); err != nil {
		t.Fatalf("admin must be allowed: %v", err)
	}

	other := &models.User{ID: "u-other", Role: models.RoleMember}
	if err := assertCanMutate(other, entry, opMarkForDeletion); !errors.Is(err, common.ErrAccessDenied) {
		t.Fatalf("want ErrAccessDenied, got %v", err)
	}

	// Operations without an owner override stay admin-only even for
	// the entry's owner.
	if err := assertCanMutate(memberUser(), entry, opToggleFavorite); !errors.Is(err, common.ErrAccessDenied) {
		t.Fatalf("want ErrAccessDenied, got %v", err)
	}
}

func TestAuthorize_UnknownOperation(t *testing.T) {
	if _, err := authorize(adminUser(), "no.such.op"); !errors.Is(err, common.ErrAccessDenied) {
		t.Fatalf("unknown operations must be denied, got %v", err)
	}
}

func TestAuthorize_LenientPolicies(t *testing.T) {
	for _, op := range []string{opListEntries, opListFavorites} {
		proceed, err := authorize(memberUser(), op)
		if err != nil {
			t.Fatalf("%s: lenient deny must not error: %v", op, err)
		}
		if proceed {
			t.Fatalf("%s: member must not proceed", op)
		}
	}

	for _, op := range []string{opCreateFolder, opCreateFile, opToggleFavorite} {
		if _, err := authorize(memberUser(), op); !errors.Is(err, common.ErrAccessDenied) {
			t.Fatalf("%s: want ErrAccessDenied, got %v", op, err)
		}
	}
}
