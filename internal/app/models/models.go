package models

// Role defines the portal role of a profile
type Role string

const (
	RoleStudent Role = "student"
	RoleAlumni  Role = "alumni"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAlumni, RoleAdmin:
		return true
	}
	return false
}

// SelfAssignable reports whether a user may pick r when registering
func (r Role) SelfAssignable() bool {
	return r == RoleStudent || r == RoleAlumni
}

// Status is the lifecycle tag of jobs and meetings. Archived replaces deletion.
type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusArchived
}
