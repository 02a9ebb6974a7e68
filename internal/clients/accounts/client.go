package accounts

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Mobo140/igbot-cli/internal/clients"
	"github.com/Mobo140/igbot-cli/internal/clients/transport"
	"github.com/Mobo140/igbot-cli/internal/model"
	"github.com/Mobo140/platform_common/pkg/logger"
	"go.uber.org/zap"
)

var _ clients.AccountsServiceClient = (*client)(nil)

type client struct {
	transport *transport.Transport
	session   clients.TokenSource
}

// NewAccountsClient returns a client that reads the app session token from
// session on every call, so a rotated token is picked up immediately.
func NewAccountsClient(t *transport.Transport, session clients.TokenSource) *client {
	return &client{transport: t, session: session}
}

func accountPath(username string, rest string) string {
	return "/accounts/" + url.PathEscape(username) + rest
}

func (c *client) Login(ctx context.Context, req model.AccountLogin) error {
	err := c.transport.Do(ctx, transport.Request{
		Op:      "account login",
		Method:  http.MethodPost,
		Path:    "/accounts/login",
		Session: c.session.SessionToken(),
		Body: loginRequest{
			Username:         req.Username,
			Password:         req.Password,
			VerificationCode: optional(req.VerificationCode),
			WebhookURL:       optional(req.WebhookURL),
		},
	}, nil)
	if err != nil {
		logger.Error("failed to login account", zap.String("username", req.Username), zap.Error(err))

		return err
	}

	return nil
}

func (c *client) Logout(ctx context.Context, username string) error {
	return c.transport.Do(ctx, transport.Request{
		Op:      "account logout",
		Method:  http.MethodPost,
		Path:    "/accounts/logout",
		Session: c.session.SessionToken(),
		Body:    logoutRequest{Username: username},
	}, nil)
}

func (c *client) ImportSession(ctx context.Context, req model.SessionImport) error {
	err := c.transport.Do(ctx, transport.Request{
		Op:      "import session",
		Method:  http.MethodPost,
		Path:    "/accounts/import-session",
		Session: c.session.SessionToken(),
		Body: importSessionRequest{
			Username:   req.Username,
			SessionID:  req.SessionID,
			Cookies:    req.Cookies,
			WebhookURL: optional(req.WebhookURL),
		},
	}, nil)
	if err != nil {
		logger.Error("failed to import session", zap.String("username", req.Username), zap.Error(err))

		return err
	}

	return nil
}

func (c *client) List(ctx context.Context) ([]model.Account, error) {
	var resp accountsResponse
	err := c.transport.Do(ctx, transport.Request{
		Op:      "list accounts",
		Method:  http.MethodGet,
		Path:    "/accounts",
		Session: c.session.SessionToken(),
	}, &resp)
	if err != nil {
		logger.Error("failed to list accounts", zap.Error(err))

		return nil, err
	}

	out := make([]model.Account, 0, len(resp.Accounts))
	for _, a := range resp.Accounts {
		if a.Username == nil || len(*a.Username) == 0 {
			logger.Warn("skipping account without username")
			continue
		}

		enabled := true
		if a.WebhookEnabled != nil {
			enabled = *a.WebhookEnabled
		}

		out = append(out, model.Account{
			Username:       *a.Username,
			WebhookURL:     a.WebhookURL,
			WebhookEnabled: enabled,
		})
	}

	return out, nil
}

func (c *client) Reset(ctx context.Context, accessToken string, username string) error {
	return c.transport.Do(ctx, transport.Request{
		Op:      "reset account",
		Method:  http.MethodPost,
		Path:    accountPath(username, "/reset"),
		Session: c.session.SessionToken(),
		Bearer:  accessToken,
	}, nil)
}

func (c *client) SetWebhook(ctx context.Context, accessToken string, username string, url *string, enabled *bool) error {
	return c.transport.Do(ctx, transport.Request{
		Op:      "set webhook",
		Method:  http.MethodPost,
		Path:    accountPath(username, "/webhook"),
		Session: c.session.SessionToken(),
		Bearer:  accessToken,
		Body:    setWebhookRequest{WebhookURL: url, Enabled: enabled},
	}, nil)
}

// TestWebhook is authorized by the access token alone.
func (c *client) TestWebhook(ctx context.Context, accessToken string, username string, text string) error {
	return c.transport.Do(ctx, transport.Request{
		Op:     "test webhook",
		Method: http.MethodPost,
		Path:   "/test_webhook",
		Bearer: accessToken,
		Body:   testWebhookRequest{Username: username, Text: text},
	}, nil)
}

func (c *client) ListWebhooks(ctx context.Context, accessToken string, username string) ([]model.Webhook, error) {
	var resp webhooksResponse
	err := c.transport.Do(ctx, transport.Request{
		Op:      "list webhooks",
		Method:  http.MethodGet,
		Path:    accountPath(username, "/webhooks"),
		Session: c.session.SessionToken(),
		Bearer:  accessToken,
	}, &resp)
	if err != nil {
		return nil, err
	}

	out := make([]model.Webhook, 0, len(resp.Webhooks))
	for _, w := range resp.Webhooks {
		out = append(out, model.Webhook{ID: w.ID, URL: w.URL, Permissions: w.Permissions})
	}

	return out, nil
}

func (c *client) AddWebhook(ctx context.Context, accessToken string, username string, url string) (string, error) {
	var resp addWebhookResponse
	err := c.transport.Do(ctx, transport.Request{
		Op:      "add webhook",
		Method:  http.MethodPost,
		Path:    accountPath(username, "/webhooks"),
		Session: c.session.SessionToken(),
		Bearer:  accessToken,
		Body:    addWebhookRequest{URL: url},
	}, &resp)
	if err != nil {
		return "", err
	}

	return resp.ID, nil
}

func (c *client) DeleteWebhook(ctx context.Context, accessToken string, username string, id string) error {
	return c.transport.Do(ctx, transport.Request{
		Op:      "delete webhook",
		Method:  http.MethodDelete,
		Path:    accountPath(username, "/webhooks/"+url.PathEscape(id)),
		Session: c.session.SessionToken(),
		Bearer:  accessToken,
	}, nil)
}

func (c *client) GetOptions(ctx context.Context, accessToken string, username string) (model.Options, error) {
	var resp optionsResponse
	err := c.transport.Do(ctx, transport.Request{
		Op:      "get options",
		Method:  http.MethodGet,
		Path:    accountPath(username, "/options"),
		Session: c.session.SessionToken(),
		Bearer:  accessToken,
	}, &resp)
	if err != nil {
		return model.Options{}, err
	}

	return resp.Options.toModel(), nil
}

func (c *client) SetOptions(ctx context.Context, accessToken string, username string, patch map[model.OptionKey]bool) error {
	return c.transport.Do(ctx, transport.Request{
		Op:      "set options",
		Method:  http.MethodPost,
		Path:    accountPath(username, "/options"),
		Session: c.session.SessionToken(),
		Bearer:  accessToken,
		Body:    patch,
	}, nil)
}

func (c *client) GetToken(ctx context.Context, username string) (string, error) {
	var resp tokenResponse
	err := c.transport.Do(ctx, transport.Request{
		Op:      "get token",
		Method:  http.MethodGet,
		Path:    accountPath(username, "/token"),
		Session: c.session.SessionToken(),
	}, &resp)
	if err != nil {
		return "", err
	}

	return resp.Token, nil
}

func (c *client) ResetToken(ctx context.Context, accessToken string, username string) (string, error) {
	var resp tokenResponse
	err := c.transport.Do(ctx, transport.Request{
		Op:      "reset token",
		Method:  http.MethodPost,
		Path:    accountPath(username, "/token/reset"),
		Session: c.session.SessionToken(),
		Bearer:  accessToken,
	}, &resp)
	if err != nil {
		logger.Error("failed to reset token", zap.String("username", username), zap.Error(err))

		return "", err
	}

	return resp.Token, nil
}
