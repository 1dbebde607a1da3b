//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// User is the account identity returned by the auth endpoints.
type User struct {
	ID    string
	Email string
	Name  string
	Role  Role
}

// ProfileUpdate is a partial talent-profile edit. Nil fields are left
// unchanged server-side.
type ProfileUpdate struct {
	Name     *string
	Phone    *string
	Bio      *string
	Location *string
}
