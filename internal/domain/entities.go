package domain

import "time"

// DefaultProjectName is used when a project is created or renamed with an
// empty name.
const DefaultProjectName = "Untitled Project"

// User is a registered account. PasswordHash is a bcrypt hash, never the
// plaintext password.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Project is a named text document owned by one user. Names are unique per
// owner.
type Project struct {
	ID        int64
	UserID    int64
	Name      string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Image is a binary attachment of a project. Names are unique per project.
type Image struct {
	ProjectID int64
	Name      string
	Blob      []byte
}
