package userservice

import (
	"context"
	"database/sql"
	"slices"
)

func (m *DBModel) addUserPermission(tx *sql.Tx, ctx context.Context, id int, permissions ...Permission) error {
	for _, p := range permissions {
		_, err := tx.ExecContext(ctx, "INSERT INTO user_permissions (user_id, permission) VALUES ($1, $2)", id, p)
		if err != nil {
			return err
		}
	}

	return nil
}

func (u *User) IsAnonymous() bool {
	return u == nil || u == &AnonymousUser
}

func (u *User) HasPermission(permission Permission) bool {
	if u == nil {
		return false
	}

	return slices.Contains(u.Permissions, permission)
}

// IsAdmin reports whether the user may write to the catalog.
func (u *User) IsAdmin() bool {
	return !u.IsAnonymous() && u.HasPermission(PermissionCatalogAdmin)
}
