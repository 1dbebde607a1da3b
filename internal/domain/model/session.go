//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// Role is the marketplace role a user selected or signed up with.
type Role string

const (
	// RoleTalent is a freelancer offering services.
	RoleTalent Role = "talent"

	// RoleRecruiter is a client posting missions.
	RoleRecruiter Role = "recruiter"

	// RoleUnset means no role has been chosen yet.
	RoleUnset Role = ""
)

// Valid returns true if the role is a known, chosen role.
func (r Role) Valid() bool {
	switch r {
	case RoleTalent, RoleRecruiter:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// ParseRole maps a stored or user-provided string onto a Role.
// Unknown values map to RoleUnset rather than failing; a stale or
// corrupted preference must not break app launch.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleTalent:
		return RoleTalent
	case RoleRecruiter:
		return RoleRecruiter
	default:
		return RoleUnset
	}
}

// Session is the locally persisted user session. It is created empty at
// first launch, mutated on role selection and login, and cleared wholesale
// on logout.
//
// AuthToken present means the user is considered authenticated. Its absence
// does not imply the role is unset: the role may be chosen before login.
type Session struct {
	Role            Role
	RememberedEmail string
	RememberMe      bool
	AuthToken       string
}

// Authenticated reports whether the session carries a bearer token.
func (s Session) Authenticated() bool {
	return s.AuthToken != ""
}
