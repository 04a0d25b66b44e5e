package oracle

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// scope is the cancellation scope of one user-initiated action.
type scope struct {
	id         string
	op         Operation
	cancel     context.CancelFunc
	superseded bool
}

// scopes tracks the in-flight action per operation. A new get or update
// supersedes the pending one of the same kind; instantiate is exclusive.
type scopes struct {
	mu     sync.Mutex
	active map[Operation]*scope
}

func newScopes() *scopes {
	return &scopes{active: make(map[Operation]*scope)}
}

func (s *scopes) begin(ctx context.Context, op Operation) (context.Context, *scope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.active[op]; ok {
		if op == OpInstantiate {
			return nil, nil, ErrInFlight
		}
		cur.superseded = true
		cur.cancel()
	}

	ctx, cancel := context.WithCancel(ctx)
	sc := &scope{id: uuid.NewString(), op: op, cancel: cancel}
	s.active[op] = sc
	return ctx, sc, nil
}

func (s *scopes) end(sc *scope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active[sc.op] == sc {
		delete(s.active, sc.op)
	}
	sc.cancel()
}

// check returns ErrSuperseded once a newer action replaced sc.
func (s *scopes) check(sc *scope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sc.superseded {
		return ErrSuperseded
	}
	return nil
}

func (s *scopes) inFlight(op Operation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[op]
	return ok
}
