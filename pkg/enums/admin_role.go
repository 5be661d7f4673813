package enums

import "fmt"

// AdminRole gates coarse admin authorization. Developers can create admins;
// plain admins cannot.
type AdminRole string

const (
	AdminRoleDeveloper AdminRole = "developer"
	AdminRoleAdmin     AdminRole = "admin"
)

var validAdminRoles = []AdminRole{
	AdminRoleDeveloper,
	AdminRoleAdmin,
}

func (r AdminRole) IsValid() bool {
	for _, candidate := range validAdminRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseAdminRole converts the raw string to AdminRole.
func ParseAdminRole(value string) (AdminRole, error) {
	for _, candidate := range validAdminRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid admin role %q", value)
}
