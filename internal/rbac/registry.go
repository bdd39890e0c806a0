package rbac

// PermissionSpec describes a registry entry before it is persisted.
type PermissionSpec struct {
	Action      Action
	Resource    Resource
	Description string
}

// Grant returns the described pair.
func (s PermissionSpec) Grant() Grant {
	return Grant{Action: s.Action, Resource: s.Resource}
}

// Catalog returns the fixed permission registry seeded on first run.
func Catalog() []PermissionSpec {
	return []PermissionSpec{
		{ActionCreate, ResourceUser, "Create users"},
		{ActionRead, ResourceUser, "View user information"},
		{ActionUpdate, ResourceUser, "Update user information"},
		{ActionDelete, ResourceUser, "Delete users"},

		{ActionCreate, ResourcePlayer, "Create players"},
		{ActionRead, ResourcePlayer, "View players"},
		{ActionUpdate, ResourcePlayer, "Update players"},
		{ActionDelete, ResourcePlayer, "Delete players"},

		{ActionCreate, ResourceTeam, "Create teams"},
		{ActionRead, ResourceTeam, "View teams"},
		{ActionUpdate, ResourceTeam, "Update teams"},
		{ActionDelete, ResourceTeam, "Delete teams"},

		{ActionCreate, ResourceRaid, "Create raids"},
		{ActionRead, ResourceRaid, "View raids"},
		{ActionUpdate, ResourceRaid, "Update raids"},
		{ActionDelete, ResourceRaid, "Delete raids"},

		{ActionRead, ResourceSettings, "View settings"},
		{ActionUpdate, ResourceSettings, "Update settings"},
	}
}

// RoleSpec describes a default role and the rule selecting its permissions.
// The rule is evaluated once, at seed time.
type RoleSpec struct {
	Name        string
	Description string
	Includes    func(Grant) bool
}

// DefaultRoles returns the admin, user and viewer role definitions.
func DefaultRoles() []RoleSpec {
	return []RoleSpec{
		{
			Name:        RoleAdmin,
			Description: "Administrator with full access",
			Includes:    func(Grant) bool { return true },
		},
		{
			Name:        RoleUser,
			Description: "Regular user with team management access",
			Includes: func(g Grant) bool {
				switch g.Resource {
				case ResourcePlayer, ResourceTeam, ResourceSettings:
					return g.Action != ActionDelete
				}
				return false
			},
		},
		{
			Name:        RoleViewer,
			Description: "Read-only access to all resources",
			Includes:    func(g Grant) bool { return g.Action == ActionRead },
		},
	}
}

// Select returns the IDs of the permissions Includes accepts.
func (s RoleSpec) Select(perms []Permission) []int64 {
	ids := make([]int64, 0, len(perms))
	for _, p := range perms {
		if s.Includes(p.Grant()) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
