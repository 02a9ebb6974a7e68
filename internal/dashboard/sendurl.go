package dashboard

import (
	"strings"

	"github.com/Mobo140/igbot-cli/internal/model"
)

const (
	sendMessagePath = "/send_message"
	sendFilePath    = "/send_file"
)

// BuildSendURL returns the endpoint automation should call for the given
// options: one "<flag>=1" per active server option, in fixed order.
func BuildSendURL(base string, opts model.Options) string {
	path := sendMessagePath
	if opts.FileMode {
		path = sendFilePath
	}

	parts := make([]string, 0, len(model.ServerOptionKeys))
	for _, k := range model.ServerOptionKeys {
		if opts.Get(k) {
			parts = append(parts, k.QueryFlag()+"=1")
		}
	}

	query := ""
	if len(parts) != 0 {
		query = "?" + strings.Join(parts, "&")
	}

	return strings.TrimRight(base, "/") + path + query
}

// AuthHeader is the header line automation must send with the access token.
func AuthHeader(token string) string {
	if len(token) == 0 {
		token = "<token>"
	}

	return "Authorization: Bearer " + token
}

// WebhookStatus describes the webhook setup of an account.
func WebhookStatus(a model.Account) string {
	if !a.HasWebhook() {
		return "Ready to use: webhook missing"
	}
	if !a.WebhookEnabled {
		return "Webhook configured (disabled)"
	}

	return "Webhook configured"
}
