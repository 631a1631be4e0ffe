package permit

import (
	"sync"

	"github.com/activityhub/backend/domain"
)

// Registry is a per-ledger permitted-address set. The registry owner (the
// deploying operator) is implicitly permitted and is the only identity that
// may grow the set. Permitted addresses act as trusted relays: they may
// invoke mutating ledger entry points on behalf of other principals.
type Registry struct {
	owner domain.Address

	mu        sync.RWMutex
	permitted map[domain.Address]struct{}
}

// NewRegistry creates a registry owned by the given address.
func NewRegistry(owner domain.Address) *Registry {
	return &Registry{
		owner:     owner,
		permitted: make(map[domain.Address]struct{}),
	}
}

// Owner returns the registry owner.
func (r *Registry) Owner() domain.Address {
	return r.owner
}

// AddPermittedAddress grants relay authority to addr. Only the owner may call.
func (r *Registry) AddPermittedAddress(caller, addr domain.Address) error {
	if caller != r.owner {
		return domain.ErrUnauthorized
	}
	if addr.IsZero() {
		return domain.ErrInvalidPayload
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.permitted[addr] = struct{}{}
	return nil
}

// IsPermitted reports whether addr is the owner or a granted relay.
func (r *Registry) IsPermitted(addr domain.Address) bool {
	if addr == r.owner {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.permitted[addr]
	return ok
}

// Authorize validates a ledger call: principals may always act for
// themselves; anyone else must be a permitted relay forwarding the
// principal explicitly.
func (r *Registry) Authorize(sender, principal domain.Address) error {
	if sender.IsZero() || principal.IsZero() {
		return domain.ErrInvalidPayload
	}
	if sender == principal {
		return nil
	}
	if !r.IsPermitted(sender) {
		return domain.ErrNotPermitted
	}
	return nil
}
