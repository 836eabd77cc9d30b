package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Freeeeeet/meeting_bot/internal/model"
)

// LoginRequest тело POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse токен и профиль пользователя
type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login получает bearer токен для пользователя
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid login request: %w", err)
	}

	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login response has no token")
	}
	return &resp, nil
}
