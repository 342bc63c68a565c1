package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"underlog/internal/domain"
)

// ProjectRepository implements domain.ProjectStore on Postgres.
type ProjectRepository struct {
	DB  *DB
	DSN string
}

func (r *ProjectRepository) ListProjects(ctx context.Context, userID int64) ([]domain.Project, error) {
	db, err := r.DB.Get(r.DSN)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, name FROM projects WHERE user_id = $1 ORDER BY updated_at DESC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		p := domain.Project{UserID: userID}
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) CreateProject(ctx context.Context, userID int64, name, body string) (int64, error) {
	db, err := r.DB.Get(r.DSN)
	if err != nil {
		return 0, err
	}

	var id int64
	err = db.QueryRowContext(ctx,
		`INSERT INTO projects (user_id, name, body) VALUES ($1, $2, $3) RETURNING id;`,
		userID, name, body,
	).Scan(&id)
	if isUniqueViolation(err) {
		return 0, fmt.Errorf("project %q: %w", name, domain.ErrDuplicateName)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *ProjectRepository) ProjectByID(ctx context.Context, userID, projectID int64) (domain.Project, error) {
	db, err := r.DB.Get(r.DSN)
	if err != nil {
		return domain.Project{}, err
	}

	p := domain.Project{ID: projectID, UserID: userID}
	err = db.QueryRowContext(ctx,
		`SELECT name, COALESCE(body, ''), created_at, updated_at
		   FROM projects WHERE id = $1 AND user_id = $2;`,
		projectID, userID,
	).Scan(&p.Name, &p.Body, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Project{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

func (r *ProjectRepository) UpdateProject(ctx context.Context, userID, projectID int64, name, body string) error {
	db, err := r.DB.Get(r.DSN)
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx,
		`UPDATE projects SET name = $1, body = $2, updated_at = now()
		  WHERE id = $3 AND user_id = $4;`,
		name, body, projectID, userID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("project %q: %w", name, domain.ErrDuplicateName)
	}
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) ProjectOwner(ctx context.Context, projectID int64) (int64, error) {
	db, err := r.DB.Get(r.DSN)
	if err != nil {
		return 0, err
	}

	var owner int64
	err = db.QueryRowContext(ctx,
		`SELECT user_id FROM projects WHERE id = $1;`,
		projectID,
	).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return owner, nil
}
