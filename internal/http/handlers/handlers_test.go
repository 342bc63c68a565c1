package handlers

import (
	"context"
	"sort"
	"sync"

	"underlog/internal/domain"
)

// In-memory store fakes shared by the handler tests.

type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byName: map[string]domain.User{}}
}

func (f *fakeUsers) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byName[username]; ok {
		return 0, domain.ErrDuplicateName
	}
	f.nextID++
	f.byName[username] = domain.User{ID: f.nextID, Username: username, PasswordHash: passwordHash}
	return f.nextID, nil
}

func (f *fakeUsers) UserByName(ctx context.Context, username string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byName[username]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

type fakeProjects struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.Project
}

func newFakeProjects() *fakeProjects {
	return &fakeProjects{byID: map[int64]domain.Project{}}
}

func (f *fakeProjects) ListProjects(ctx context.Context, userID int64) ([]domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Project
	for _, p := range f.byID {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeProjects) CreateProject(ctx context.Context, userID int64, name, body string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if p.UserID == userID && p.Name == name {
			return 0, domain.ErrDuplicateName
		}
	}
	f.nextID++
	f.byID[f.nextID] = domain.Project{ID: f.nextID, UserID: userID, Name: name, Body: body}
	return f.nextID, nil
}

func (f *fakeProjects) ProjectByID(ctx context.Context, userID, projectID int64) (domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[projectID]
	if !ok || p.UserID != userID {
		return domain.Project{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeProjects) UpdateProject(ctx context.Context, userID, projectID int64, name, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[projectID]
	if !ok || p.UserID != userID {
		return domain.ErrNotFound
	}
	for id, other := range f.byID {
		if id != projectID && other.UserID == userID && other.Name == name {
			return domain.ErrDuplicateName
		}
	}
	p.Name, p.Body = name, body
	f.byID[projectID] = p
	return nil
}

func (f *fakeProjects) ProjectOwner(ctx context.Context, projectID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[projectID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return p.UserID, nil
}

type imageKey struct {
	projectID int64
	name      string
}

type fakeImages struct {
	mu    sync.Mutex
	blobs map[imageKey][]byte
}

func newFakeImages() *fakeImages {
	return &fakeImages{blobs: map[imageKey][]byte{}}
}

func (f *fakeImages) ListImageNames(ctx context.Context, projectID int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := []string{}
	for k := range f.blobs {
		if k.projectID == projectID {
			names = append(names, k.name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeImages) ImageBlob(ctx context.Context, projectID int64, name string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	blob, ok := f.blobs[imageKey{projectID, name}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return blob, nil
}

func (f *fakeImages) UpsertImage(ctx context.Context, projectID int64, name string, blob []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[imageKey{projectID, name}] = blob
	return nil
}

func (f *fakeImages) DeleteImage(ctx context.Context, projectID int64, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blobs, imageKey{projectID, name})
	return nil
}

// stubRenderer lets tests script the pipeline outcome and count invocations.
type stubRenderer struct {
	mu    sync.Mutex
	calls int
	pdf   []byte
	err   error
}

func (s *stubRenderer) Render(ctx context.Context, svg string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.pdf, s.err
}

func (s *stubRenderer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
