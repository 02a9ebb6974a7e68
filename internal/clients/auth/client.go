package auth

import (
	"context"
	"net/http"

	"github.com/Mobo140/igbot-cli/internal/clients"
	"github.com/Mobo140/igbot-cli/internal/clients/transport"
	"github.com/Mobo140/igbot-cli/internal/model"
	"github.com/Mobo140/platform_common/pkg/logger"
	"go.uber.org/zap"
)

var _ clients.AuthServiceClient = (*client)(nil)

type client struct {
	transport *transport.Transport
}

func NewAuthClient(t *transport.Transport) *client {
	return &client{transport: t}
}

func (c *client) Login(ctx context.Context, username string, password string) (model.SessionLogin, error) {
	var resp loginResponse
	err := c.transport.Do(ctx, transport.Request{
		Op:     "app login",
		Method: http.MethodPost,
		Path:   "/api/login",
		Body:   loginRequest{Username: username, Password: password},
	}, &resp)
	if err != nil {
		logger.Error("failed to login", zap.String("username", username), zap.Error(err))

		return model.SessionLogin{}, err
	}

	out := model.SessionLogin{Token: resp.Token, Refresh: resp.Refresh}
	if resp.User != nil {
		out.UserID = resp.User.ID
		out.Username = resp.User.Username
	}

	return out, nil
}

func (c *client) Logout(ctx context.Context) error {
	return c.transport.Do(ctx, transport.Request{
		Op:     "app logout",
		Method: http.MethodPost,
		Path:   "/api/logout",
	}, nil)
}

func (c *client) VerifySession(ctx context.Context, sessionToken string) error {
	var resp okResponse

	return c.transport.Do(ctx, transport.Request{
		Op:      "verify session",
		Method:  http.MethodGet,
		Path:    "/api/verify-session",
		Session: sessionToken,
	}, &resp)
}

func (c *client) RefreshSession(ctx context.Context, sessionToken string) (string, error) {
	var resp tokenResponse
	err := c.transport.Do(ctx, transport.Request{
		Op:      "refresh session",
		Method:  http.MethodPost,
		Path:    "/api/refresh-session",
		Session: sessionToken,
	}, &resp)
	if err != nil {
		logger.Error("failed to refresh session", zap.Error(err))

		return "", err
	}

	return resp.Token, nil
}

func (c *client) RefreshFromToken(ctx context.Context, refreshToken string) (string, error) {
	var resp tokenResponse
	err := c.transport.Do(ctx, transport.Request{
		Op:     "refresh from token",
		Method: http.MethodPost,
		Path:   "/api/refresh-from-token",
		Body:   refreshFromTokenRequest{Refresh: refreshToken},
	}, &resp)
	if err != nil {
		logger.Error("failed to refresh from token", zap.Error(err))

		return "", err
	}

	return resp.Token, nil
}
