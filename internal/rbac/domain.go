package rbac

import (
	"encoding/json"
	"strings"
)

// Role names with built-in meaning. Any other role is matched against the
// roles table purely for its menu-access map.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// MenuAccess maps an admin menu-section key to a permission flag. The map
// is sparse: an absent key means denied.
type MenuAccess map[string]bool

// ParseMenuAccess decodes the stored JSON permission blob. Malformed or
// empty input fails closed to an empty map rather than an error; a broken
// role row must deny access, not crash the request.
func ParseMenuAccess(raw []byte) MenuAccess {
	if len(raw) == 0 {
		return MenuAccess{}
	}
	var access MenuAccess
	if err := json.Unmarshal(raw, &access); err != nil || access == nil {
		return MenuAccess{}
	}
	return access
}

// Encode serializes the map for storage.
func (m MenuAccess) Encode() ([]byte, error) {
	if m == nil {
		m = MenuAccess{}
	}
	return json.Marshal(m)
}

// Allows reports whether the given menu key is granted.
func (m MenuAccess) Allows(menuKey string) bool {
	return m[menuKey]
}

// AuthorizedUser is the record the admin gate hands to downstream
// handlers once a request has been authenticated and authorized.
type AuthorizedUser struct {
	ID         int64      `json:"id"`
	Email      string     `json:"email"`
	FullName   string     `json:"full_name"`
	Role       string     `json:"role"`
	IsActive   bool       `json:"is_active"`
	MenuAccess MenuAccess `json:"menu_access,omitempty"`
}

// IsAdmin reports whether the user's role is exactly admin.
func (u *AuthorizedUser) IsAdmin() bool {
	return strings.EqualFold(u.Role, RoleAdmin)
}

// IsAdminOrModerator reports whether the role is admin or moderator.
// Several endpoints authorize on this coarse check alone.
func (u *AuthorizedUser) IsAdminOrModerator() bool {
	return u.IsAdmin() || strings.EqualFold(u.Role, RoleModerator)
}

// CanAccess reports whether the user may enter the given menu section.
// Admins bypass the menu map entirely.
func (u *AuthorizedUser) CanAccess(menuKey string) bool {
	if u.IsAdmin() {
		return true
	}
	return u.MenuAccess.Allows(menuKey)
}
