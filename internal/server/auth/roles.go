package auth

// Role names recognized by the admin surface.
const (
	RoleSystemManager = "System Manager"
	RoleQRManager     = "QR Manager"
	RoleQRUser        = "QR User"
)

// Identity is the authenticated caller: a user ID plus role set.
// A nil Identity means the caller is anonymous.
type Identity struct {
	UserID string
	Roles  []string
}

// Anonymous reports whether no authenticated user is present.
func (id *Identity) Anonymous() bool {
	return id == nil || id.UserID == ""
}

func (id *Identity) hasRole(role string) bool {
	if id == nil {
		return false
	}
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsManager reports whether the caller may perform admin operations
// (revoke, rotate). System managers always qualify.
func (id *Identity) IsManager() bool {
	return id.hasRole(RoleSystemManager) || id.hasRole(RoleQRManager)
}

// CanGenerate reports whether the caller may compute content and issue
// tokens.
func (id *Identity) CanGenerate() bool {
	return id.IsManager() || id.hasRole(RoleQRUser)
}

// QuotaExempt reports whether the daily generation quota applies to the
// caller. Managers are never quota-limited.
func (id *Identity) QuotaExempt() bool {
	return id.IsManager()
}
