package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

var ErrUnauthorized = errors.New("invalid or expired token")

// AuthClient valida tokens contra o provedor de autenticação hospedado
type AuthClient interface {
	UserFromToken(ctx context.Context, token string) (*User, error)
}

// HostedAuthClient implementa AuthClient contra a API de auth hospedada
// (endpoint GoTrue /auth/v1/user)
type HostedAuthClient struct {
	client *resty.Client
	apiKey string
}

// NewHostedAuthClient cria uma nova instância de HostedAuthClient
func NewHostedAuthClient(baseURL, apiKey string) *HostedAuthClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second)

	return &HostedAuthClient{
		client: client,
		apiKey: apiKey,
	}
}

// UserFromToken resolve o usuário dono do token de acesso
func (c *HostedAuthClient) UserFromToken(ctx context.Context, token string) (*User, error) {
	var payload struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		UserMetadata struct {
			Name      string `json:"name"`
			FullName  string `json:"full_name"`
			AvatarURL string `json:"avatar_url"`
		} `json:"user_metadata"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("apikey", c.apiKey).
		SetAuthToken(token).
		SetResult(&payload).
		Get("/auth/v1/user")
	if err != nil {
		return nil, fmt.Errorf("failed to reach auth provider: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		return nil, ErrUnauthorized
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("auth provider returned status %d", resp.StatusCode())
	}

	name := payload.UserMetadata.Name
	if name == "" {
		name = payload.Email
	}

	return &User{
		ID:        payload.ID,
		Name:      name,
		FullName:  payload.UserMetadata.FullName,
		Email:     payload.Email,
		AvatarURL: payload.UserMetadata.AvatarURL,
	}, nil
}
