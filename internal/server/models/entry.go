package models

import (
	"fmt"
	"time"
)

// EntryKind distinguishes catalog nodes: folders form the hierarchy,
// files and images are leaves carrying a blob reference.
type EntryKind string

const (
	EntryKindFolder EntryKind = "folder"
	EntryKindFile   EntryKind = "file"
	EntryKindImage  EntryKind = "image"
)

// Valid reports whether k is one of the known entry kinds.
func (k EntryKind) Valid() bool {
	return k == EntryKindFolder || k == EntryKindFile || k == EntryKindImage
}

// DocType is the document category attached to file entries.
// Folders never carry one.
type DocType string

const (
	DocTypeKepangkatan DocType = "Kepangkatan"
	DocTypeJabatan     DocType = "Jabatan"
	DocTypeKGB         DocType = "KGB"
	DocTypeSKP         DocType = "SKP/PPKP"
	DocTypeLP2P        DocType = "LP2P"
	DocTypeHukdis      DocType = "Hukdis"
	DocTypeCuti        DocType = "Cuti"
	DocTypeLainnya     DocType = "Lainnya"
)

// DocTypes lists every known document category.
var DocTypes = []DocType{
	DocTypeKepangkatan, DocTypeJabatan, DocTypeKGB, DocTypeSKP,
	DocTypeLP2P, DocTypeHukdis, DocTypeCuti, DocTypeLainnya,
}

// Valid reports whether t is one of the known document categories.
func (t DocType) Valid() bool {
	for _, d := range DocTypes {
		if t == d {
			return true
		}
	}
	return false
}

// Entry is a node in the catalog, either a folder or a leaf file/image.
//
// Invariants:
//   - a folder never carries a BlobKey or DocType (use the constructors
//     below; the schema additionally enforces the blob rule with a CHECK);
//   - ParentID, when set, references an existing folder entry;
//   - OrgID is immutable after creation.
type Entry struct {
	ID    string
	Name  string
	Kind  EntryKind
	OrgID string
	// UserID is the owning user (the uploader/creator).
	UserID string
	// BlobKey is the object-storage key of the content, nil for folders.
	BlobKey *string
	// DocType is the optional document category, nil for folders.
	DocType *DocType
	// ParentID is the containing folder, nil for root-level entries.
	ParentID *string
	// ShouldDelete marks the entry for the next purge run.
	ShouldDelete bool
	CreatedAt    time.Time
}

// NewFolder builds a folder entry. Folders cannot reference a blob,
// which this constructor makes unrepresentable.
func NewFolder(name, orgID, userID string, parentID *string) *Entry {
	return &Entry{
		Name:     name,
		Kind:     EntryKindFolder,
		OrgID:    orgID,
		UserID:   userID,
		ParentID: parentID,
	}
}

// NewFile builds a file or image entry referencing the given blob.
func NewFile(name, blobKey, orgID, userID string, kind EntryKind, docType *DocType, parentID *string) (*Entry, error) {
	if kind != EntryKindFile && kind != EntryKindImage {
		return nil, fmt.Errorf("kind %q cannot carry a blob", kind)
	}
	return &Entry{
		Name:     name,
		Kind:     kind,
		OrgID:    orgID,
		UserID:   userID,
		BlobKey:  &blobKey,
		DocType:  docType,
		ParentID: parentID,
	}, nil
}

// PathSegment is one element of an entry's ancestor chain, root first.
type PathSegment struct {
	ID   string
	Name string
}
