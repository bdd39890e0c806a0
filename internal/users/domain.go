package users

import (
	"time"

	"github.com/boosteam/boosteam-api/internal/rbac"
	"github.com/boosteam/boosteam-api/internal/roster"
	"github.com/boosteam/boosteam-api/internal/shared"
)

// User represents a user account for management.
type User struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	RoleNames []string   `json:"roles"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// Page is one page of the user listing.
type Page struct {
	Users      []User            `json:"users"`
	Pagination shared.Pagination `json:"pagination"`
}

// Detail is the full administrative view of one user.
type Detail struct {
	ID        int64         `json:"id"`
	Username  string        `json:"username"`
	Email     string        `json:"email"`
	Roles     []rbac.Role   `json:"roles"`
	CreatedAt time.Time     `json:"createdAt"`
	LastLogin *time.Time    `json:"lastLogin,omitempty"`
	Roster    roster.Roster `json:"roster"`
}
