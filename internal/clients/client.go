package clients

import (
	"context"

	"github.com/Mobo140/igbot-cli/internal/model"
)

// TokenSource yields the current application session token.
type TokenSource interface {
	SessionToken() string
}

type AuthServiceClient interface {
	Login(ctx context.Context, username string, password string) (model.SessionLogin, error)
	Logout(ctx context.Context) error
	VerifySession(ctx context.Context, sessionToken string) error
	RefreshSession(ctx context.Context, sessionToken string) (string, error)
	RefreshFromToken(ctx context.Context, refreshToken string) (string, error)
}

type AccountsServiceClient interface {
	Login(ctx context.Context, req model.AccountLogin) error
	Logout(ctx context.Context, username string) error
	ImportSession(ctx context.Context, req model.SessionImport) error
	List(ctx context.Context) ([]model.Account, error)
	Reset(ctx context.Context, accessToken string, username string) error

	SetWebhook(ctx context.Context, accessToken string, username string, url *string, enabled *bool) error
	TestWebhook(ctx context.Context, accessToken string, username string, text string) error
	ListWebhooks(ctx context.Context, accessToken string, username string) ([]model.Webhook, error)
	AddWebhook(ctx context.Context, accessToken string, username string, url string) (string, error)
	DeleteWebhook(ctx context.Context, accessToken string, username string, id string) error

	GetOptions(ctx context.Context, accessToken string, username string) (model.Options, error)
	SetOptions(ctx context.Context, accessToken string, username string, patch map[model.OptionKey]bool) error

	GetToken(ctx context.Context, username string) (string, error)
	ResetToken(ctx context.Context, accessToken string, username string) (string, error)
}
