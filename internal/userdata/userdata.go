package userdata

import (
	"context"
	"fmt"

	"tutorhub/gateway/internal/backend"
	"tutorhub/gateway/internal/resolve"
)

type Backend interface {
	StudentByClerkID(ctx context.Context, externalID string) (*backend.Student, error)
	AdminByClerkID(ctx context.Context, externalID string) (*backend.Admin, error)
}

type Entity struct {
	Role    resolve.Role     `json:"role"`
	Student *backend.Student `json:"student,omitempty"`
	Admin   *backend.Admin   `json:"admin,omitempty"`
}

// Loader re-derives the full backend entity for an already-classified
// identity. Read-through with no invalidation: every consumer fetches
// fresh, and a failure here never affects the gate's decision.
type Loader struct {
	backend Backend
}

func NewLoader(b Backend) *Loader {
	return &Loader{backend: b}
}

func (l *Loader) Fetch(ctx context.Context, role resolve.Role, externalID string) (Entity, error) {
	switch role {
	case resolve.RoleAdmin:
		admin, err := l.backend.AdminByClerkID(ctx, externalID)
		if err != nil {
			return Entity{}, err
		}
		return Entity{Role: role, Admin: admin}, nil
	case resolve.RoleStudent:
		student, err := l.backend.StudentByClerkID(ctx, externalID)
		if err != nil {
			return Entity{}, err
		}
		return Entity{Role: role, Student: student}, nil
	default:
		return Entity{}, fmt.Errorf("unknown role %q", role)
	}
}
