package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"controlx/internal/models"
)

// Credentials is the authentication view of a user row. It never leaves the
// auth boundary; profile reads go through models.User.
type Credentials struct {
	UserID       string
	Email        string
	PasswordHash string
}

type PostgresUserRepository struct {
	pool PgxPool
}

func NewPostgresUserRepository(pool PgxPool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User, email, passwordHash string) error {
	query := `INSERT INTO users (id, name, role, avatar_url, email, password_hash)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query, user.ID, user.Name, user.Role, user.AvatarURL, email, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, id string, patch models.UserPatch) error {
	sets := []string{}
	args := []any{id}

	addSet := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Name != nil {
		addSet("name", *patch.Name)
	}
	if patch.Role != nil {
		addSet("role", *patch.Role)
	}
	if patch.AvatarURL != nil {
		addSet("avatar_url", *patch.AvatarURL)
	}
	if len(sets) == 0 {
		return nil
	}

	query := "UPDATE users SET " + strings.Join(sets, ", ") + " WHERE id = $1"
	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, name, role, avatar_url FROM users WHERE id = $1`

	var user models.User
	err := r.pool.QueryRow(ctx, query, id).Scan(&user.ID, &user.Name, &user.Role, &user.AvatarURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetCredentials(ctx context.Context, email string) (*Credentials, error) {
	query := `SELECT id, email, password_hash FROM users WHERE email = $1`

	var creds Credentials
	err := r.pool.QueryRow(ctx, query, email).Scan(&creds.UserID, &creds.Email, &creds.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials: %w", err)
	}
	return &creds, nil
}

func (r *PostgresUserRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT id, name, role, avatar_url FROM users ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Role, &user.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}
