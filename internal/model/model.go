package model

// Credentials are the two application-level tokens kept across runs.
type Credentials struct {
	SessionToken string
	RefreshToken string
}

// SessionLogin is the result of an app session login.
type SessionLogin struct {
	Token    string
	Refresh  string
	UserID   string
	Username string
}

type Account struct {
	Username       string
	WebhookURL     *string
	WebhookEnabled bool
}

// HasWebhook reports whether a non-empty webhook URL is configured.
func (a Account) HasWebhook() bool {
	return a.WebhookURL != nil && len(*a.WebhookURL) != 0
}

type Webhook struct {
	ID          string
	URL         string
	Permissions map[string]any
}

// AccountLogin carries the fields of the managed-account login form.
type AccountLogin struct {
	Username         string
	Password         string
	VerificationCode string
	WebhookURL       string
}

// SessionImport attaches an already authenticated Instagram session.
type SessionImport struct {
	Username   string
	SessionID  string
	Cookies    map[string]string
	WebhookURL string
}
