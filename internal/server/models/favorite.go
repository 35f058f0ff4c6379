package models

import "time"

// FavoriteMark is a per-user bookmark on a catalog entry. At most one
// mark exists per (user, entry) pair. OrgID duplicates the entry's
// organization scope so the per-org listing needs no join.
type FavoriteMark struct {
	ID        string
	EntryID   string
	UserID    string
	OrgID     string
	CreatedAt time.Time
}
