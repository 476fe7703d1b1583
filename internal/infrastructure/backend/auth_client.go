package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bazarly/vendor-portal/internal/core/domain"
	"github.com/bazarly/vendor-portal/internal/core/ports"
)

const loginPath = "/auth/login"

// AuthClient calls the backend's authentication endpoints.
type AuthClient struct {
	client *Client
}

func NewAuthClient(client *Client) *AuthClient {
	return &AuthClient{client: client}
}

func (a *AuthClient) Login(ctx context.Context, email, password string) *ports.AuthLoginResult {
	resp := a.client.do(ctx, "auth_login", http.MethodPost, loginPath, "", jsonBody(map[string]string{
		"email":    email,
		"password": password,
	}))

	result := &ports.AuthLoginResult{CallResult: callResult(resp)}
	if !result.Success {
		return result
	}

	var payload struct {
		Token       string       `json:"token"`
		AccessToken string       `json:"access_token"`
		User        *domain.User `json:"user"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		result.Success = false
		result.Message = "unexpected login response"
		return result
	}

	result.Token = payload.Token
	if result.Token == "" {
		result.Token = payload.AccessToken
	}
	result.User = payload.User
	if result.Token == "" || result.User == nil {
		result.Success = false
		result.Message = "unexpected login response"
	}
	return result
}
