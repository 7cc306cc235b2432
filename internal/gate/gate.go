package gate

import (
	"context"

	"tutorhub/gateway/internal/auth"
	"tutorhub/gateway/internal/resolve"
)

type State string

const (
	StateIdle            State = "idle"
	StateResolving       State = "resolving"
	StateAuthorized      State = "authorized"
	StateDenied          State = "denied"
	StateUnauthenticated State = "unauthenticated"
	StateError           State = "error"
)

type Verifier interface {
	Verify(token string) (auth.Identity, error)
}

type Resolver interface {
	Resolve(ctx context.Context, identity auth.Identity) (resolve.Result, error)
}

type Decision struct {
	State    State
	Identity auth.Identity
	Result   resolve.Result
	Err      error
}

// Gate decides whether a request may reach a protected section. It runs
// the full resolution per check; idempotence is the resolver's job.
type Gate struct {
	verifier Verifier
	resolver Resolver
}

func New(verifier Verifier, resolver Resolver) *Gate {
	return &Gate{verifier: verifier, resolver: resolver}
}

// Check walks the gate's state machine for one request: Idle until the
// token is presented, Resolving while classification runs, then one of
// the four terminal states.
func (g *Gate) Check(ctx context.Context, token string, allowed ...resolve.Role) Decision {
	if token == "" {
		return Decision{State: StateUnauthenticated}
	}
	identity, err := g.verifier.Verify(token)
	if err != nil {
		return Decision{State: StateUnauthenticated, Err: err}
	}

	result, err := g.resolver.Resolve(ctx, identity)
	if err != nil {
		return Decision{State: StateError, Identity: identity, Err: err}
	}

	for _, role := range allowed {
		if result.Role == role {
			return Decision{State: StateAuthorized, Identity: identity, Result: result}
		}
	}
	return Decision{State: StateDenied, Identity: identity, Result: result}
}
