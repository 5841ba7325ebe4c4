package constants

import "fmt"

// Role yang dikenali untuk route admin form builder.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// Template pesan error role
const ErrOnlyAdminsCanAccess = "❌ Hanya admin yang boleh mengakses fitur %s."

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// DefaultAdminRoles dipakai jika ADMIN_ROLES kosong.
var DefaultAdminRoles = []string{RoleAdmin, RoleOperator}
