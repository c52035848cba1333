package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LoginRequest covers both roles. Cashier login is credential-free; the
// password is required only when role is admin.
type LoginRequest struct {
	Role     string `json:"role"     validate:"required,oneof=cashier admin"`
	Password string `json:"password" validate:"omitempty,max=128"`
}

// RecoverRequest starts password recovery. Both fields must match the stored
// admin contact before a reset token is issued.
type RecoverRequest struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=5,max=20"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=4,max=128"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LoginResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expires_at"`
}

type RecoverResponse struct {
	Message string `json:"message"`
}
