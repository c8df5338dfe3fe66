package ports

import "context"

// RegistrationResult is returned on successful registration.
type RegistrationResult struct {
	UserID  string
	Message string
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token    string
	Username string
}

// IdentityService defines the registration and login use cases.
type IdentityService interface {
	// Register validates input and creates the user. Checks run in a
	// fixed order (taken username, confirmation mismatch, empty
	// username, empty password) because the first failing check decides
	// the user-facing message.
	Register(ctx context.Context, username, password, password2 string) (*RegistrationResult, error)
	// Login verifies credentials and issues a bearer token bound to the
	// user's id.
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// IsTokenValid reports whether the token verifies, discarding the
	// subject and the failure detail.
	IsTokenValid(token string) bool
	// UsernameForID resolves an already-validated token subject. An
	// unknown id is a hard domain.ErrUserNotFound failure.
	UsernameForID(ctx context.Context, id string) (string, error)
}
