package accounts

import (
	"errors"

	"github.com/Mobo140/igbot-cli/internal/model"
)

type loginRequest struct {
	Username         string  `json:"username"`
	Password         string  `json:"password"`
	VerificationCode *string `json:"verification_code"`
	WebhookURL       *string `json:"webhook_url"`
}

type logoutRequest struct {
	Username string `json:"username"`
}

type importSessionRequest struct {
	Username   string            `json:"username"`
	SessionID  string            `json:"sessionid"`
	Cookies    map[string]string `json:"cookies,omitempty"`
	WebhookURL *string           `json:"webhook_url"`
}

type accountPayload struct {
	Username       *string `json:"username"`
	WebhookURL     *string `json:"webhook_url"`
	WebhookEnabled *bool   `json:"webhook_enabled"`
}

type accountsResponse struct {
	Accounts []accountPayload `json:"accounts"`
}

type setWebhookRequest struct {
	WebhookURL *string `json:"webhook_url,omitempty"`
	Enabled    *bool   `json:"enabled,omitempty"`
}

type testWebhookRequest struct {
	Username string `json:"username"`
	Text     string `json:"text"`
}

type webhookPayload struct {
	ID          string         `json:"id"`
	URL         string         `json:"url"`
	Permissions map[string]any `json:"permissions"`
}

type webhooksResponse struct {
	Webhooks []webhookPayload `json:"webhooks"`
}

type addWebhookRequest struct {
	URL string `json:"url"`
}

type addWebhookResponse struct {
	ID string `json:"id"`
}

func (r *addWebhookResponse) Validate() error {
	if len(r.ID) == 0 {
		return errors.New("id is empty")
	}

	return nil
}

type optionsPayload struct {
	DelayTyping      bool `json:"delay_typing"`
	MarkSeenPrevious bool `json:"mark_seen_previous"`
	ViewProfile      bool `json:"view_profile"`
	ViewStories      bool `json:"view_stories"`
	SafeMode         bool `json:"safe_mode"`
}

type optionsResponse struct {
	Options *optionsPayload `json:"options"`
}

func (r *optionsResponse) Validate() error {
	if r.Options == nil {
		return errors.New("options is missing")
	}

	return nil
}

func (p optionsPayload) toModel() model.Options {
	return model.Options{
		DelayTyping:      p.DelayTyping,
		MarkSeenPrevious: p.MarkSeenPrevious,
		ViewProfile:      p.ViewProfile,
		ViewStories:      p.ViewStories,
		SafeMode:         p.SafeMode,
	}
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (r *tokenResponse) Validate() error {
	if len(r.Token) == 0 {
		return errors.New("token is empty")
	}

	return nil
}

func optional(s string) *string {
	if len(s) == 0 {
		return nil
	}

	return &s
}
