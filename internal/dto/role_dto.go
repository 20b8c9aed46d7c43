package dto

// SetRoleRequest is the payload for assigning a role to a user.
type SetRoleRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required"`
}

// TokenRequest asks for a fresh credential for the given subject.
type TokenRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// TokenResponse carries a freshly minted bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}
