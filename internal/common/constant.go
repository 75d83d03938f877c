// Package common contains shared constants and sentinel errors used across
// TalentLink client components.
package common

// UserType is the closed set of roles the platform recognizes.
type UserType string

const (
	UserTypeEmployee UserType = "employee"
	UserTypeEmployer UserType = "employer"
	UserTypePartner  UserType = "partner"
	UserTypeAdmin    UserType = "admin"
	UserTypeNone     UserType = ""
)

// Valid reports whether t is one of the known roles.
func (t UserType) Valid() bool {
	switch t {
	case UserTypeEmployee, UserTypeEmployer, UserTypePartner, UserTypeAdmin:
		return true
	}
	return false
}

// AccessTokenCookieName and UserTypeCookieName are the cookies mirrored for
// request-time routing layers that cannot read local storage.
const (
	AccessTokenCookieName = "accessToken"
	UserTypeCookieName    = "userType"
)
