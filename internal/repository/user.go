package repository

import (
	"context"
	"errors"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db dbtx
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	language := u.Language
	if language == "" {
		language = domain.DefaultLanguage
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, name, role, region, language) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Name, u.Role, domain.NormalizeRegion(string(u.Region)), language,
	)
	if isUniqueViolation(err) {
		return domain.ErrUserAlreadyExists
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx,
		`SELECT id, name, role, region, language FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Role, &u.Region, &u.Language)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, role, region, language FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Role, &u.Region, &u.Language); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

// ListHandlerIDs returns the ids of every HR user, the ticket handler pool.
func (r *UserRepository) ListHandlerIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM users WHERE role = $1 ORDER BY id`, domain.RoleHR)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *UserRepository) UpdateLanguage(ctx context.Context, id, language string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET language = $2 WHERE id = $1`, id, language)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
