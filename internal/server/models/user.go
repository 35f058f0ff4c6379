// Package models defines server-side data models persisted in the database.
package models

import "time"

// Role is the access tier assigned to a user within their organization.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// User is a provisioned account backed by the external identity provider.
// TokenIdentifier is the opaque token the provider presents per request;
// it is unique and immutable after creation.
type User struct {
	ID              string
	TokenIdentifier string
	Name            string
	Image           string
	Role            Role
	// OrgUnitID optionally links the user to an organizational unit.
	OrgUnitID *string
	CreatedAt time.Time
}

// Profile is the public subset of a user record exposed to other members.
type Profile struct {
	Name  string
	Image string
}
