package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/inventory-console/internal/model"
)

// StoredUser хранит пользователя вместе с хэшем пароля.
type StoredUser struct {
	model.User
	PasswordHash []byte
}

const userColumns = `id, name, email, role, created_at`

func scanUser(row pgx.Row) (model.User, error) {
	var (
		u    model.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &u.CreatedAt); err != nil {
		return model.User{}, err
	}
	u.Role = model.Role(role)
	return u, nil
}

// CreateUser создаёт нового пользователя.
func (r *PostgresRepository) CreateUser(ctx context.Context, u model.User, passwordHash []byte) (model.User, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (id, name, email, role, password_hash) VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		u.ID, u.Name, u.Email, string(u.Role), passwordHash,
	)

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, fmt.Errorf("%w: %s", ErrUserExists, u.Email)
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// GetUserByEmail возвращает пользователя с хэшем пароля по email.
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*StoredUser, error) {
	var (
		u    StoredUser
		role string
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, role, created_at, password_hash FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &role, &u.CreatedAt, &u.PasswordHash)
	if err != nil {
		if notFound(err) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, email)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.Role = model.Role(role)
	return &u, nil
}

// GetUser возвращает пользователя по идентичности.
func (r *PostgresRepository) GetUser(ctx context.Context, id string) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if notFound(err) {
			return model.User{}, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return model.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// ListUsers возвращает пользователей. Пустой roles означает всех пользователей.
func (r *PostgresRepository) ListUsers(ctx context.Context, roles ...model.Role) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`
	var args []any
	if len(roles) > 0 {
		names := make([]string, 0, len(roles))
		for _, role := range roles {
			names = append(names, string(role))
		}
		query = `SELECT ` + userColumns + ` FROM users WHERE role = ANY($1) ORDER BY created_at, id`
		args = append(args, names)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	res := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		res = append(res, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// UpdateUser сохраняет имя, email и роль пользователя.
func (r *PostgresRepository) UpdateUser(ctx context.Context, u model.User) (model.User, error) {
	updated, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users SET name = $2, email = $3, role = $4 WHERE id = $1 RETURNING `+userColumns,
		u.ID, u.Name, u.Email, string(u.Role),
	))
	if err != nil {
		if notFound(err) {
			return model.User{}, fmt.Errorf("%w: user %s", ErrNotFound, u.ID)
		}
		if isUniqueViolation(err) {
			return model.User{}, fmt.Errorf("%w: %s", ErrUserExists, u.Email)
		}
		return model.User{}, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

// DeleteUser удаляет пользователя вместе с его уведомлениями.
func (r *PostgresRepository) DeleteUser(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	return nil
}
