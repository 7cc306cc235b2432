package resolve

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/singleflight"

	"tutorhub/gateway/internal/auth"
	"tutorhub/gateway/internal/backend"
	"tutorhub/gateway/internal/marker"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

func ValidRole(role string) bool {
	return role == string(RoleAdmin) || role == string(RoleStudent)
}

// Defaults for auto-provisioned students. The backend requires these
// fields but the identity provider does not supply them; age 18 is the
// minimum the backend accepts and the password is vestigial because
// credential verification is external.
const (
	defaultPhone    = "Not provided"
	defaultAddress  = "Not provided"
	defaultAge      = 18
	defaultPassword = "external-auth"
)

// Backend is the subset of the academic backend the resolver needs.
type Backend interface {
	AdminByEmail(ctx context.Context, email string) (*backend.Admin, error)
	StudentByEmail(ctx context.Context, email string) (*backend.Student, error)
	LinkAdmin(ctx context.Context, email, externalID string) error
	LinkStudent(ctx context.Context, email, externalID string) error
	CreateStudent(ctx context.Context, in backend.NewStudent) (*backend.Student, error)
}

// Result is the resolution outcome. Exactly one of Admin/Student is set
// when the resolution ran against the backend; both are nil when the
// role came from a previously persisted marker.
type Result struct {
	Role        Role
	Admin       *backend.Admin
	Student     *backend.Student
	Provisioned bool
}

// ProvisionError is surfaced when auto-provisioning fails. Message is
// user-facing and prefers the backend's own description.
type ProvisionError struct {
	Message string
	Err     error
}

func (e *ProvisionError) Error() string { return e.Message }

func (e *ProvisionError) Unwrap() error { return e.Err }

// Resolver classifies an external identity as admin or student,
// linking matched records and lazily provisioning a student record when
// nothing matches. Probe order is a correctness requirement: a positive
// admin match must short-circuit the student probe.
type Resolver struct {
	backend           Backend
	markers           marker.Store
	linkFailureBlocks bool
	group             singleflight.Group
}

func NewResolver(b Backend, markers marker.Store, linkFailureBlocks bool) *Resolver {
	return &Resolver{
		backend:           b,
		markers:           markers,
		linkFailureBlocks: linkFailureBlocks,
	}
}

func (r *Resolver) Resolve(ctx context.Context, identity auth.Identity) (Result, error) {
	if m, err := r.markers.Get(ctx, identity.ID); err != nil {
		log.Printf("marker lookup failed for %s: %v", identity.ID, err)
	} else if m != nil && ValidRole(m.Role) {
		return Result{Role: Role(m.Role)}, nil
	}

	// Concurrent resolutions of the same identity collapse into one run
	// so a brand-new identity is provisioned at most once in-process.
	value, err, _ := r.group.Do(identity.ID, func() (interface{}, error) {
		return r.resolve(ctx, identity)
	})
	if err != nil {
		resolutionsTotal.WithLabelValues("error").Inc()
		return Result{}, err
	}
	result := value.(Result)
	resolutionsTotal.WithLabelValues(string(result.Role)).Inc()
	if result.Provisioned {
		provisionsTotal.Inc()
	}
	return result, nil
}

func (r *Resolver) resolve(ctx context.Context, identity auth.Identity) (Result, error) {
	result, conclusive, err := r.probe(ctx, identity)
	if err != nil || conclusive {
		return result, err
	}
	return r.provision(ctx, identity)
}

// probe runs the admin and student lookups in order. conclusive is
// false only when both probes answered "no match".
func (r *Resolver) probe(ctx context.Context, identity auth.Identity) (Result, bool, error) {
	admin, err := r.backend.AdminByEmail(ctx, identity.Email)
	if err == nil {
		if err := r.link(ctx, RoleAdmin, identity); err != nil {
			return Result{}, true, err
		}
		r.persist(ctx, RoleAdmin, identity)
		return Result{Role: RoleAdmin, Admin: admin}, true, nil
	}
	if !errors.Is(err, backend.ErrNotFound) {
		return Result{}, true, err
	}

	student, err := r.backend.StudentByEmail(ctx, identity.Email)
	if err == nil {
		if err := r.link(ctx, RoleStudent, identity); err != nil {
			return Result{}, true, err
		}
		r.persist(ctx, RoleStudent, identity)
		return Result{Role: RoleStudent, Student: student}, true, nil
	}
	if !errors.Is(err, backend.ErrNotFound) {
		return Result{}, true, err
	}

	return Result{}, false, nil
}

// link associates the matched record with the external identity. A link
// failure does not revoke an email match, so by default it is logged
// and the resolved role still stands.
func (r *Resolver) link(ctx context.Context, role Role, identity auth.Identity) error {
	var err error
	if role == RoleAdmin {
		err = r.backend.LinkAdmin(ctx, identity.Email, identity.ID)
	} else {
		err = r.backend.LinkStudent(ctx, identity.Email, identity.ID)
	}
	if err == nil {
		return nil
	}
	if r.linkFailureBlocks {
		return err
	}
	log.Printf("%s link failed for %s: %v", role, identity.ID, err)
	return nil
}

func (r *Resolver) provision(ctx context.Context, identity auth.Identity) (Result, error) {
	student, err := r.backend.CreateStudent(ctx, backend.NewStudent{
		ClerkUserID: identity.ID,
		FirstName:   identity.FirstName,
		LastName:    identity.LastName,
		Email:       identity.Email,
		PhoneNumber: defaultPhone,
		Address:     defaultAddress,
		Age:         defaultAge,
		Password:    defaultPassword,
		Role:        string(RoleStudent),
	})
	if errors.Is(err, backend.ErrConflict) {
		// Another run won the race; the record exists, so re-probe
		// instead of failing.
		result, conclusive, probeErr := r.probe(ctx, identity)
		if probeErr != nil {
			return Result{}, probeErr
		}
		if conclusive {
			return result, nil
		}
		return Result{}, err
	}
	if err != nil {
		return Result{}, provisionError(err)
	}
	r.persist(ctx, RoleStudent, identity)
	return Result{Role: RoleStudent, Student: student, Provisioned: true}, nil
}

func provisionError(err error) error {
	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return &ProvisionError{Message: statusErr.Message, Err: err}
	}
	return &ProvisionError{Message: "failed to create account", Err: err}
}

// persist records the classification; a marker write failure only costs
// a re-resolution on the next request.
func (r *Resolver) persist(ctx context.Context, role Role, identity auth.Identity) {
	err := r.markers.Set(ctx, marker.Marker{
		ExternalID: identity.ID,
		Email:      identity.Email,
		Role:       string(role),
	})
	if err != nil {
		log.Printf("marker write failed for %s: %v", identity.ID, err)
	}
}
