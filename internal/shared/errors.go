package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrValidation indicates a malformed request payload.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate indicates a username or email collision.
	ErrDuplicate = errors.New("username or email already exists")

	// ErrMissingCredential occurs when no bearer token accompanies the request.
	ErrMissingCredential = errors.New("no token provided")
	// ErrInvalidCredential covers bad signatures, malformed tokens and expiry.
	ErrInvalidCredential = errors.New("invalid or expired token")
	// ErrPrincipalNotFound occurs when a valid token names a user that no longer exists.
	ErrPrincipalNotFound = errors.New("user not found")
	// ErrUnauthenticated occurs when an authorization check runs without a principal.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden indicates the principal lacks a permission, role or ownership.
	ErrForbidden = errors.New("forbidden")

	// ErrRoleInUse blocks deleting a role still assigned to users.
	ErrRoleInUse = errors.New("cannot delete role that is assigned to users")
	// ErrDuplicateRole indicates a role name collision.
	ErrDuplicateRole = errors.New("role already exists")
	// ErrDuplicatePermission indicates an (action, resource) collision.
	ErrDuplicatePermission = errors.New("permission already exists")
	// ErrStorageUnavailable wraps failures reaching the database.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
