package rbac

import "sort"

// PermissionSet is a flat set of grants. Membership is exact: no wildcard,
// no implication between actions or resources.
type PermissionSet map[Grant]struct{}

// EffectivePermissions returns the union of the permissions of every role.
// Duplicate roles or grants reachable through several roles collapse.
func EffectivePermissions(roles ...Role) PermissionSet {
	set := make(PermissionSet)
	for _, role := range roles {
		for _, perm := range role.Permissions {
			set[perm.Grant()] = struct{}{}
		}
	}
	return set
}

// Has reports whether the exact grant is a member of the set.
func (s PermissionSet) Has(g Grant) bool {
	_, ok := s[g]
	return ok
}

// Allows is shorthand for Has(Grant{action, resource}).
func (s PermissionSet) Allows(action Action, resource Resource) bool {
	return s.Has(Grant{Action: action, Resource: resource})
}

// Grants returns the members ordered by resource then action.
func (s PermissionSet) Grants() []Grant {
	grants := make([]Grant, 0, len(s))
	for g := range s {
		grants = append(grants, g)
	}
	sort.Slice(grants, func(i, j int) bool {
		if grants[i].Resource != grants[j].Resource {
			return grants[i].Resource < grants[j].Resource
		}
		return grants[i].Action < grants[j].Action
	})
	return grants
}
