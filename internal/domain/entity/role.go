package entity

import "slices"

// Role represents the type of role a profile can have in the marketplace.
type Role string

const (
	// RoleSeller indicates a farmer selling produce on the marketplace.
	RoleSeller Role = "seller"
	// RoleBuyer indicates a consumer buying produce.
	RoleBuyer Role = "buyer"
	// RoleAdmin indicates a marketplace administrator.
	RoleAdmin Role = "admin"
)

// DefaultRole is assumed when a principal carries no usable role metadata.
const DefaultRole = RoleBuyer

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleSeller, RoleBuyer, RoleAdmin:
		return true
	default:
		return false
	}
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// ToStrings converts Roles to []string for JWT compatibility.
func (rs Roles) ToStrings() []string {
	result := make([]string, len(rs))
	for i, r := range rs {
		result[i] = r.String()
	}

	return result
}

// RolesFromStrings converts []string to Roles, filtering out invalid role strings.
func RolesFromStrings(ss []string) Roles {
	result := make(Roles, 0, len(ss))
	for _, s := range ss {
		role := Role(s)
		if role.IsValid() {
			result = append(result, role)
		}
	}

	return result
}
