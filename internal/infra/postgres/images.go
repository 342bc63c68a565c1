package postgres

import (
	"context"
	"database/sql"
	"errors"

	"underlog/internal/domain"
)

// ImageRepository implements domain.ImageStore on Postgres.
type ImageRepository struct {
	DB  *DB
	DSN string
}

func (r *ImageRepository) ListImageNames(ctx context.Context, projectID int64) ([]string, error) {
	db, err := r.DB.Get(r.DSN)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT name FROM images WHERE project_id = $1 ORDER BY name;`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *ImageRepository) ImageBlob(ctx context.Context, projectID int64, name string) ([]byte, error) {
	db, err := r.DB.Get(r.DSN)
	if err != nil {
		return nil, err
	}

	var blob []byte
	err = db.QueryRowContext(ctx,
		`SELECT blob FROM images WHERE project_id = $1 AND name = $2;`,
		projectID, name,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (r *ImageRepository) UpsertImage(ctx context.Context, projectID int64, name string, blob []byte) error {
	db, err := r.DB.Get(r.DSN)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO images (project_id, name, blob) VALUES ($1, $2, $3)
		 ON CONFLICT (project_id, name) DO UPDATE SET blob = EXCLUDED.blob;`,
		projectID, name, blob,
	)
	return err
}

func (r *ImageRepository) DeleteImage(ctx context.Context, projectID int64, name string) error {
	db, err := r.DB.Get(r.DSN)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`DELETE FROM images WHERE project_id = $1 AND name = $2;`,
		projectID, name,
	)
	return err
}
