package dtos

// LoginRequest carries admin credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries an issued token.
type LoginResponse struct {
	Message   string `json:"message"`
	Token     string `json:"jwt"`
	ExpiresAt int64  `json:"expires_at"`
}
