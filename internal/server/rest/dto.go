package rest

import "time"

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64,printascii"`
	Password string `json:"password" validate:"required,maxbytes=72"`
	Email    string `json:"email" validate:"required,email,max=254"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ProfileResponse struct {
	Username string `json:"username"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
