package repo

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"clubhub/internal/model"
)

const userColumns = `
	id, name, email, password_hash, role, phone, department, year, student_id, created_at, updated_at`

func scanUser(row scanner) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.Phone, &u.Department, &u.Year, &u.StudentID,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Postgres) CreateUser(ctx context.Context, u *model.User) (int64, error) {
	query := `
		INSERT INTO users (name, email, password_hash, role, phone, department, year, student_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.Master.QueryRowContext(ctx, query,
		u.Name, u.Email, u.PasswordHash, u.Role, u.Phone, u.Department, u.Year, u.StudentID,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return 0, ErrEmailTaken
	}
	if err != nil {
		return 0, errors.Wrap(err, "failed to create user")
	}
	return u.ID, nil
}

func (r *Postgres) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user")
	}
	return u, nil
}

func (r *Postgres) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getUser(ctx, `id = $1`, id)
}

func (r *Postgres) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getUser(ctx, `email = $1`, email)
}

func (r *Postgres) UpdateUser(ctx context.Context, u *model.User) error {
	query := `
		UPDATE users
		SET name = $1, phone = $2, department = $3, year = $4, student_id = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`
	err := r.db.Master.QueryRowContext(ctx, query,
		u.Name, u.Phone, u.Department, u.Year, u.StudentID, u.ID,
	).Scan(&u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return errors.Wrap(err, "failed to update user")
	}
	return nil
}
