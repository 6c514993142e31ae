package roles

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/techno-sd/Eazy-cybersecurity-sub002/internal/rbac"
)

// Repository provides PostgreSQL backed persistence. The menu-access map
// crosses this boundary only through the typed rbac.MenuAccess encode and
// parse functions; raw JSON never reaches callers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListRoles returns all roles ordered by name.
func (r *Repository) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, menu_access, is_active, created_at, updated_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}

// GetRole fetches a role by id.
func (r *Repository) GetRole(ctx context.Context, id int64) (Role, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, menu_access, is_active, created_at, updated_at FROM roles WHERE id = $1`, id)
	role, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, ErrNotFound
		}
		return Role{}, err
	}
	return role, nil
}

// CreateRole inserts a new role with its menu-access map.
func (r *Repository) CreateRole(ctx context.Context, name string, access rbac.MenuAccess) (Role, error) {
	encoded, err := access.Encode()
	if err != nil {
		return Role{}, err
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO roles (name, menu_access, is_active, created_at, updated_at)
		VALUES ($1, $2, TRUE, NOW(), NOW())
		RETURNING id, name, menu_access, is_active, created_at, updated_at`, name, encoded)
	role, err := scanRole(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return Role{}, ErrNameTaken
		}
		return Role{}, err
	}
	return role, nil
}

// UpdateRole replaces name, menu-access map and active flag. Edits take
// effect on the next request; permissions are never cached across
// requests.
func (r *Repository) UpdateRole(ctx context.Context, id int64, name string, access rbac.MenuAccess, active bool) (Role, error) {
	encoded, err := access.Encode()
	if err != nil {
		return Role{}, err
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE roles SET name = $2, menu_access = $3, is_active = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, menu_access, is_active, created_at, updated_at`, id, name, encoded, active)
	role, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return Role{}, ErrNameTaken
		}
		return Role{}, err
	}
	return role, nil
}

// DeleteRole removes a role. Users still naming it degrade to no menu
// access rather than erroring.
func (r *Repository) DeleteRole(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRole(row rowScanner) (Role, error) {
	var (
		role    Role
		rawMenu []byte
	)
	if err := row.Scan(&role.ID, &role.Name, &rawMenu, &role.IsActive, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return Role{}, err
	}
	role.MenuAccess = rbac.ParseMenuAccess(rawMenu)
	return role, nil
}
