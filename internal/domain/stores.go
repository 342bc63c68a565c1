package domain

import "context"

// UserStore persists accounts.
type UserStore interface {
	// CreateUser inserts a new account and returns its id. A taken username
	// yields ErrDuplicateName.
	CreateUser(ctx context.Context, username, passwordHash string) (int64, error)
	// UserByName returns the account for username, or ErrNotFound.
	UserByName(ctx context.Context, username string) (User, error)
}

// ProjectStore persists projects scoped to their owning user.
type ProjectStore interface {
	// ListProjects returns the caller's projects, most recently updated first.
	ListProjects(ctx context.Context, userID int64) ([]Project, error)
	// CreateProject inserts a project and returns its id. A name collision for
	// the same owner yields ErrDuplicateName.
	CreateProject(ctx context.Context, userID int64, name, body string) (int64, error)
	// ProjectByID returns the project when it exists and belongs to userID,
	// otherwise ErrNotFound.
	ProjectByID(ctx context.Context, userID, projectID int64) (Project, error)
	// UpdateProject renames and rewrites the body of an owned project.
	// Returns ErrNotFound when absent or foreign, ErrDuplicateName on a rename
	// collision.
	UpdateProject(ctx context.Context, userID, projectID int64, name, body string) error
	// ProjectOwner returns the owning user id of a project regardless of the
	// caller, or ErrNotFound.
	ProjectOwner(ctx context.Context, projectID int64) (int64, error)
}

// ImageStore persists project image attachments.
type ImageStore interface {
	// ListImageNames returns the attachment names of a project.
	ListImageNames(ctx context.Context, projectID int64) ([]string, error)
	// ImageBlob returns the binary content of one attachment, or ErrNotFound.
	ImageBlob(ctx context.Context, projectID int64, name string) ([]byte, error)
	// UpsertImage inserts or replaces an attachment.
	UpsertImage(ctx context.Context, projectID int64, name string, blob []byte) error
	// DeleteImage removes an attachment. Deleting a missing attachment is not
	// an error.
	DeleteImage(ctx context.Context, projectID int64, name string) error
}
