package api

import (
	"context"
	"fmt"
	"net/http"

	"board-client/internal/models"
)

func (c *Client) Login(ctx context.Context, email, password string) (*models.Session, error) {
	req := models.LoginRequest{Email: email, Password: password}
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/login", &req, &resp, false); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return &models.Session{Token: resp.AccessToken, User: resp.UserInfo}, nil
}

func (c *Client) Signup(ctx context.Context, req *models.SignupRequest) (*models.Session, error) {
	var resp models.SignupResponse
	if err := c.do(ctx, http.MethodPost, "/signup", req, &resp, false); err != nil {
		return nil, fmt.Errorf("signup failed: %w", err)
	}
	return &models.Session{Token: resp.Token, User: resp.UserInfo}, nil
}

// Me returns the authenticated user's current profile record.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.doUnwrapped(ctx, http.MethodGet, "/api/me", nil, &user, true); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) SendVerificationEmail(ctx context.Context, email string) error {
	req := models.EmailVerificationRequest{Email: email}
	return c.do(ctx, http.MethodPost, "/auth/email/send", &req, nil, false)
}

func (c *Client) VerifyEmailCode(ctx context.Context, email, code string) error {
	req := models.VerifyCodeRequest{Email: email, Code: code}
	return c.do(ctx, http.MethodPost, "/auth/email/verify", &req, nil, false)
}
