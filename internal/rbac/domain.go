package rbac

import "time"

// Action is the verb half of a permission.
type Action string

// Supported actions.
const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Valid reports whether a is one of the supported actions.
func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// Resource is the object half of a permission.
type Resource string

// Supported resources.
const (
	ResourceUser     Resource = "user"
	ResourcePlayer   Resource = "player"
	ResourceTeam     Resource = "team"
	ResourceRaid     Resource = "raid"
	ResourceSettings Resource = "settings"
)

// Valid reports whether r is one of the supported resources.
func (r Resource) Valid() bool {
	switch r {
	case ResourceUser, ResourcePlayer, ResourceTeam, ResourceRaid, ResourceSettings:
		return true
	}
	return false
}

// Names of the roles created by Bootstrap.
const (
	RoleAdmin  = "admin"
	RoleUser   = "user"
	RoleViewer = "viewer"
)

// Grant is the (action, resource) pair a permission confers. Two permissions
// with the same grant are the same capability.
type Grant struct {
	Action   Action
	Resource Resource
}

func (g Grant) String() string {
	return string(g.Action) + ":" + string(g.Resource)
}

// Permission represents an atomic capability.
type Permission struct {
	ID          int64    `json:"id"`
	Action      Action   `json:"action"`
	Resource    Resource `json:"resource"`
	Description string   `json:"description"`
}

// Grant returns the pair the permission confers.
func (p Permission) Grant() Grant {
	return Grant{Action: p.Action, Resource: p.Resource}
}

// Role represents a named permission grouping shared by every user holding it.
type Role struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Principal describes the authenticated actor with its roles materialised.
type Principal struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Roles     []Role     `json:"roles"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// Permissions computes the principal's effective permission set from its
// currently loaded roles. The result is never cached.
func (p *Principal) Permissions() PermissionSet {
	if p == nil {
		return PermissionSet{}
	}
	return EffectivePermissions(p.Roles...)
}

// HasRole reports whether the principal holds a role with the exact name.
func (p *Principal) HasRole(name string) bool {
	if p == nil {
		return false
	}
	for _, role := range p.Roles {
		if role.Name == name {
			return true
		}
	}
	return false
}
