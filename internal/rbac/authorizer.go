package rbac

import (
	"fmt"

	"github.com/boosteam/boosteam-api/internal/shared"
)

// Check is an authorization predicate over an already-loaded principal. It
// returns nil to allow, shared.ErrUnauthenticated when no principal is
// present, and an error wrapping shared.ErrForbidden otherwise.
type Check func(p *Principal) error

// Can requires the exact (action, resource) grant.
func Can(action Action, resource Resource) Check {
	return func(p *Principal) error {
		if p == nil {
			return shared.ErrUnauthenticated
		}
		if !p.Permissions().Allows(action, resource) {
			return fmt.Errorf("%w: missing permission to %s %s", shared.ErrForbidden, action, resource)
		}
		return nil
	}
}

// HasRole requires a role with the exact name, independent of its permissions.
func HasRole(name string) Check {
	return func(p *Principal) error {
		if p == nil {
			return shared.ErrUnauthenticated
		}
		if !p.HasRole(name) {
			return fmt.Errorf("%w: %s access required", shared.ErrForbidden, name)
		}
		return nil
	}
}

// Owns requires the principal to be the owner of the target record.
func Owns(ownerID int64) Check {
	return func(p *Principal) error {
		if p == nil {
			return shared.ErrUnauthenticated
		}
		if p.ID != ownerID {
			return fmt.Errorf("%w: you don't have permission to access this resource", shared.ErrForbidden)
		}
		return nil
	}
}

// All passes when every check passes, reporting the first failure.
func All(checks ...Check) Check {
	return func(p *Principal) error {
		for _, check := range checks {
			if err := check(p); err != nil {
				return err
			}
		}
		return nil
	}
}

// Any passes when at least one check passes. With no checks it denies.
func Any(checks ...Check) Check {
	return func(p *Principal) error {
		if p == nil {
			return shared.ErrUnauthenticated
		}
		var firstErr error
		for _, check := range checks {
			err := check(p)
			if err == nil {
				return nil
			}
			if firstErr == nil {
				firstErr = err
			}
		}
		if firstErr == nil {
			firstErr = shared.ErrForbidden
		}
		return firstErr
	}
}

// Authorize runs the generic permission check for a principal.
func Authorize(p *Principal, action Action, resource Resource) error {
	return Can(action, resource)(p)
}
