package models

type RegisterRequest struct {
	Email    string  `json:"email"    validate:"required,email,max=254"`
	Password string  `json:"password" validate:"required,min=6,maxbytes=72"`
	Name     *string `json:"name"     validate:"omitempty,max=120"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type RedeemPasswordRequest struct {
	Password        string `json:"password"        validate:"required,min=6,maxbytes=72"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// RegisterResponse is returned with 201 on registration.
type RegisterResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

// UpdateProfileRequest changes the caller's own account. Changing the
// email or the password requires the current password.
type UpdateProfileRequest struct {
	Name            *string `json:"name"            validate:"omitempty,max=120"`
	Email           *string `json:"email"           validate:"omitempty,email,max=254"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     *string `json:"newPassword"     validate:"omitempty,min=6,maxbytes=72"`
}
