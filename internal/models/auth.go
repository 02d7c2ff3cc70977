package models

// SignupRequest registers a new account.
type SignupRequest struct {
	Username  string `json:"username" validate:"required,max=50"`
	FirstName string `json:"firstname" validate:"required,max=100"`
	LastName  string `json:"lastname" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=30"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserSnapshot is the identity embedded in every token.
type UserSnapshot struct {
	ID       string `json:"uid"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// LoginResponse returns the issued token pair and the identity it carries.
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	Message      string       `json:"message"`
	User         UserSnapshot `json:"user"`
}

// RefreshResponse carries a freshly issued access token.
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// UpdateProfileRequest patches the caller's own profile.
type UpdateProfileRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=1,max=50"`
	FirstName *string `json:"firstname" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastname" validate:"omitempty,min=1,max=100"`
}

// UpdateRoleRequest lets an admin change another user's role.
type UpdateRoleRequest struct {
	Role UserRole `json:"role" validate:"required,oneof=user admin"`
}
