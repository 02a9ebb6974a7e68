// Package render turns dashboard snapshots into terminal output.
package render

import (
	"fmt"
	"strings"

	"github.com/Mobo140/igbot-cli/internal/dashboard"
	"github.com/Mobo140/igbot-cli/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
	onStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))
	offStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
	monoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

func panelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
}

var optionLabels = map[model.OptionKey]string{
	model.OptionDelayTyping:      "Typing delay",
	model.OptionMarkSeenPrevious: "Mark previous as seen",
	model.OptionViewProfile:      "View profile",
	model.OptionViewStories:      "View stories",
	model.OptionSafeMode:         "Safe mode",
	model.OptionFileMode:         "File mode",
}

// Landing is shown when no session or no managed account exists.
func Landing() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Instagram gateway"),
		"No account is signed in.",
		labelStyle.Render("Run `igbot-cli login` and then `igbot-cli account login`."),
	)
}

// Dashboard renders the full view for s, falling back to Landing.
func Dashboard(s dashboard.Snapshot) string {
	if s.View != dashboard.ViewDashboard {
		return Landing()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("@"+s.CurrentUsername),
		Accounts(s),
		Token(s),
		Options(s),
		SendURL(s),
	)
}

func Accounts(s dashboard.Snapshot) string {
	rows := make([]string, 0, len(s.Accounts))
	for _, a := range s.Accounts {
		url := ""
		if a.WebhookURL != nil {
			url = *a.WebhookURL
		}

		marker := " "
		if a.Username == s.CurrentUsername {
			marker = "*"
		}

		rows = append(rows, fmt.Sprintf("%s %s\n  %s %s\n  %s %s",
			marker, a.Username,
			labelStyle.Render("Webhook URL"), monoStyle.Render(url),
			labelStyle.Render("Status     "), a.WebhookStatus,
		))
	}

	return panelStyle().Render(strings.Join(rows, "\n"))
}

func Token(s dashboard.Snapshot) string {
	value := s.TokenDisplay
	if !s.TokenLoaded {
		value = warnStyle.Render("unavailable")
	}

	return panelStyle().Render(lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("Access token"),
		monoStyle.Render(value),
		monoStyle.Render(s.AuthHeader),
	))
}

func Options(s dashboard.Snapshot) string {
	lines := []string{labelStyle.Render("Options")}
	if !s.OptionsLoaded {
		lines = append(lines, warnStyle.Render("server options unavailable"))
	}

	for _, k := range append(append([]model.OptionKey(nil), model.ServerOptionKeys...), model.OptionFileMode) {
		lines = append(lines, optionLine(k, s.Options.Get(k), s.OptionSync[k]))
	}

	return panelStyle().Render(strings.Join(lines, "\n"))
}

func optionLine(k model.OptionKey, on bool, state dashboard.SyncState) string {
	sw := offStyle.Render("[ ]")
	if on {
		sw = onStyle.Render("[x]")
	}

	line := fmt.Sprintf("%s %-22s %s", sw, optionLabels[k], labelStyle.Render(string(k)))
	if state != dashboard.Synced {
		line += " " + warnStyle.Render(state.String())
	}

	return line
}

func SendURL(s dashboard.Snapshot) string {
	return panelStyle().Render(lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("Send URL"),
		monoStyle.Render(s.SendURL),
	))
}

// Webhooks lists the extra webhooks registered for an account.
func Webhooks(username string, hooks []model.Webhook) string {
	if len(hooks) == 0 {
		return fmt.Sprintf("No extra webhooks for %s.", username)
	}

	lines := []string{titleStyle.Render("Webhooks of " + username)}
	for _, h := range hooks {
		lines = append(lines, fmt.Sprintf("%s  %s", monoStyle.Render(h.ID), h.URL))
	}

	return strings.Join(lines, "\n")
}
