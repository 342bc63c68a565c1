package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"underlog/internal/domain"
)

type drvMode struct {
	noRows       bool
	execAffected int64
	queryErr     bool
}

var (
	testDriverCounter atomic.Int64
	testMode          drvMode
	testRows          func() *fakeRows
)

type fakeDriver struct{}

type fakeConn struct{}

type fakeRows struct {
	cols []string
	data [][]driver.Value
	i    int
}

func (d fakeDriver) Open(name string) (driver.Conn, error) { return fakeConn{}, nil }
func (c fakeConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("not implemented")
}
func (c fakeConn) Close() error              { return nil }
func (c fakeConn) Begin() (driver.Tx, error) { return nil, errors.New("not implemented") }

func (c fakeConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	return driver.RowsAffected(testMode.execAffected), nil
}

func (c fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if testMode.queryErr {
		return nil, errors.New("query failed")
	}
	if testMode.noRows {
		return &fakeRows{cols: []string{"any"}}, nil
	}
	return testRows(), nil
}

func (r *fakeRows) Columns() []string { return r.cols }
func (r *fakeRows) Close() error      { return nil }
func (r *fakeRows) Next(dest []driver.Value) error {
	if r.i >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.i])
	r.i++
	return nil
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	name := fmt.Sprintf("fakedrv_%d", testDriverCounter.Add(1))
	sql.Register(name, fakeDriver{})
	db, err := sql.Open(name, "")
	if err != nil {
		t.Fatalf("sql open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &DB{db: db, dsn: "x"}
}

func TestUserRepository_UserByName_Success(t *testing.T) {
	testMode = drvMode{}
	testRows = func() *fakeRows {
		return &fakeRows{
			cols: []string{"id", "username", "password_hash", "created_at"},
			data: [][]driver.Value{{int64(7), "alice", "$2a$hash", time.Now()}},
		}
	}

	r := &UserRepository{DB: openTestDB(t), DSN: "x"}
	u, err := r.UserByName(context.Background(), "alice")
	if err != nil {
		t.Fatalf("user by name: %v", err)
	}
	if u.ID != 7 || u.Username != "alice" || u.PasswordHash != "$2a$hash" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestUserRepository_UserByName_NotFound(t *testing.T) {
	testMode = drvMode{noRows: true}

	r := &UserRepository{DB: openTestDB(t), DSN: "x"}
	if _, err := r.UserByName(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProjectRepository_ListProjects(t *testing.T) {
	testMode = drvMode{}
	testRows = func() *fakeRows {
		return &fakeRows{
			cols: []string{"id", "name"},
			data: [][]driver.Value{{int64(2), "newer"}, {int64(1), "older"}},
		}
	}

	r := &ProjectRepository{DB: openTestDB(t), DSN: "x"}
	projects, err := r.ListProjects(context.Background(), 7)
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(projects) != 2 || projects[0].Name != "newer" || projects[1].ID != 1 {
		t.Fatalf("unexpected projects: %+v", projects)
	}
}

func TestProjectRepository_Update_NotFound(t *testing.T) {
	testMode = drvMode{execAffected: 0}

	r := &ProjectRepository{DB: openTestDB(t), DSN: "x"}
	err := r.UpdateProject(context.Background(), 7, 99, "name", "body")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for zero affected rows, got %v", err)
	}
}

func TestImageRepository_ListAndBlob(t *testing.T) {
	testMode = drvMode{}
	testRows = func() *fakeRows {
		return &fakeRows{
			cols: []string{"name"},
			data: [][]driver.Value{{"a.png"}, {"b.jpg"}},
		}
	}

	r := &ImageRepository{DB: openTestDB(t), DSN: "x"}
	names, err := r.ListImageNames(context.Background(), 1)
	if err != nil {
		t.Fatalf("list image names: %v", err)
	}
	if len(names) != 2 || names[0] != "a.png" {
		t.Fatalf("unexpected names: %v", names)
	}

	testMode = drvMode{noRows: true}
	if _, err := r.ImageBlob(context.Background(), 1, "missing.png"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing blob, got %v", err)
	}
}

func TestRepositories_PropagateQueryErrors(t *testing.T) {
	testMode = drvMode{queryErr: true}

	users := &UserRepository{DB: openTestDB(t), DSN: "x"}
	if _, err := users.UserByName(context.Background(), "x"); err == nil {
		t.Fatalf("expected query error")
	}

	projects := &ProjectRepository{DB: openTestDB(t), DSN: "x"}
	if _, err := projects.ListProjects(context.Background(), 1); err == nil {
		t.Fatalf("expected query error")
	}
}
