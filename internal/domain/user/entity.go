package user

import "time"

type Role string

const (
	RoleKaryawan   Role = "karyawan"   // Field worker
	RoleSupervisor Role = "supervisor" // Oversees one office
	RoleAdmin      Role = "admin"      // Unscoped
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleKaryawan, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	OfficeID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasOffice reports whether the user is assigned to an office.
func (u *User) HasOffice() bool {
	return u.OfficeID != nil && *u.OfficeID != ""
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID   string
	Role     Role
	OfficeID *string
}

// Scope narrows read projections. A zero Scope is unscoped.
type Scope struct {
	OfficeID *string
	UserID   *string
}

// IsUnscoped reports whether no restriction applies.
func (s Scope) IsUnscoped() bool {
	return s.OfficeID == nil && s.UserID == nil
}

// Scope derives the read scope of the actor: admins see everything,
// supervisors see their own office and workers see only themselves.
// A supervisor without an office falls back to their own records.
func (a Actor) Scope() Scope {
	switch a.Role {
	case RoleAdmin:
		return Scope{}
	case RoleSupervisor:
		if a.OfficeID != nil && *a.OfficeID != "" {
			officeID := *a.OfficeID
			return Scope{OfficeID: &officeID}
		}
	}
	userID := a.UserID
	return Scope{UserID: &userID}
}

// CanManageOffice reports whether the actor may change settings of officeID.
func (a Actor) CanManageOffice(officeID string) bool {
	switch a.Role {
	case RoleAdmin:
		return true
	case RoleSupervisor:
		return a.OfficeID != nil && *a.OfficeID == officeID
	}
	return false
}
