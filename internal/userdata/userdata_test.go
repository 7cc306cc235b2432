package userdata

import (
	"context"
	"errors"
	"testing"

	"tutorhub/gateway/internal/backend"
	"tutorhub/gateway/internal/resolve"
)

type fakeBackend struct {
	student *backend.Student
	admin   *backend.Admin
	err     error
}

func (f *fakeBackend) StudentByClerkID(_ context.Context, _ string) (*backend.Student, error) {
	return f.student, f.err
}

func (f *fakeBackend) AdminByClerkID(_ context.Context, _ string) (*backend.Admin, error) {
	return f.admin, f.err
}

func TestFetchStudent(t *testing.T) {
	loader := NewLoader(&fakeBackend{student: &backend.Student{StudentID: 1, Email: "s@example.com"}})
	entity, err := loader.Fetch(context.Background(), resolve.RoleStudent, "user_1")
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if entity.Role != resolve.RoleStudent || entity.Student == nil || entity.Admin != nil {
		t.Fatalf("unexpected entity: %+v", entity)
	}
}

func TestFetchAdmin(t *testing.T) {
	loader := NewLoader(&fakeBackend{admin: &backend.Admin{AdminID: 2, Email: "a@example.com"}})
	entity, err := loader.Fetch(context.Background(), resolve.RoleAdmin, "user_2")
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if entity.Role != resolve.RoleAdmin || entity.Admin == nil {
		t.Fatalf("unexpected entity: %+v", entity)
	}
}

func TestFetchUnknownRole(t *testing.T) {
	loader := NewLoader(&fakeBackend{})
	if _, err := loader.Fetch(context.Background(), resolve.Role("mentor"), "user_3"); err == nil {
		t.Fatalf("expected unknown role to error")
	}
}

func TestFetchPropagatesBackendError(t *testing.T) {
	loader := NewLoader(&fakeBackend{err: errors.New("backend down")})
	if _, err := loader.Fetch(context.Background(), resolve.RoleStudent, "user_4"); err == nil {
		t.Fatalf("expected backend error to propagate")
	}
}
