package rbac

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the user does not exist or is inactive.
var ErrNotFound = errors.New("rbac: user not found")

// UserStore resolves an authenticated user id into an AuthorizedUser.
type UserStore interface {
	ResolveUser(ctx context.Context, userID int64) (*AuthorizedUser, error)
}

// Resolver loads users together with their role's menu-access map from
// PostgreSQL.
type Resolver struct {
	pool *pgxpool.Pool
}

// NewResolver constructs a Resolver backed by the provided pool.
func NewResolver(pool *pgxpool.Pool) *Resolver {
	return &Resolver{pool: pool}
}

// ResolveUser loads an active user and the menu_access blob of the role
// whose name matches the user's role, case-insensitively. The join is a
// left join on purpose: an orphaned role name degrades to an empty menu
// map instead of an error.
func (r *Resolver) ResolveUser(ctx context.Context, userID int64) (*AuthorizedUser, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT u.id, u.email, u.full_name, u.role, u.is_active, ro.menu_access
		FROM users u
		LEFT JOIN roles ro ON LOWER(ro.name) = LOWER(u.role) AND ro.is_active = TRUE
		WHERE u.id = $1 AND u.is_active = TRUE`, userID)

	var (
		user    AuthorizedUser
		rawMenu []byte
	)
	err := row.Scan(&user.ID, &user.Email, &user.FullName, &user.Role, &user.IsActive, &rawMenu)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	user.MenuAccess = ParseMenuAccess(rawMenu)
	return &user, nil
}

var _ UserStore = (*Resolver)(nil)
