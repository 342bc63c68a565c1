package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"underlog/internal/domain"
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// UserRepository implements domain.UserStore on Postgres.
type UserRepository struct {
	DB  *DB
	DSN string
}

func (r *UserRepository) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	db, err := r.DB.Get(r.DSN)
	if err != nil {
		return 0, err
	}

	var id int64
	err = db.QueryRowContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id;`,
		username, passwordHash,
	).Scan(&id)
	if isUniqueViolation(err) {
		return 0, fmt.Errorf("username %q: %w", username, domain.ErrDuplicateName)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *UserRepository) UserByName(ctx context.Context, username string) (domain.User, error) {
	db, err := r.DB.Get(r.DSN)
	if err != nil {
		return domain.User{}, err
	}

	var u domain.User
	err = db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE username = $1;`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}
