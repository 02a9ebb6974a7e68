package dashboard

import "github.com/Mobo140/igbot-cli/internal/model"

// MaskedToken is shown instead of the access token while it is hidden.
const MaskedToken = "••••••••••••••••"

type View int

const (
	ViewLanding View = iota
	ViewDashboard
)

func (v View) String() string {
	if v == ViewDashboard {
		return "dashboard"
	}

	return "landing"
}

// SyncState tracks one option against the server:
// Synced -> PendingWrite -> Synced | Conflicted.
type SyncState int

const (
	Synced SyncState = iota
	PendingWrite
	// Conflicted means the server refused the last write; the option was
	// reverted to the last value the server confirmed.
	Conflicted
)

func (s SyncState) String() string {
	switch s {
	case PendingWrite:
		return "pending"
	case Conflicted:
		return "conflicted"
	}

	return "synced"
}

type AccountView struct {
	model.Account
	WebhookStatus string
}

// Snapshot is an immutable copy of the view state handed to the render layer.
type Snapshot struct {
	View            View
	Logged          bool
	CurrentUsername string
	Accounts        []AccountView

	TokenLoaded   bool
	Token         string
	TokenRevealed bool
	TokenDisplay  string
	AuthHeader    string

	OptionsLoaded bool
	Options       model.Options
	OptionSync    map[model.OptionKey]SyncState

	SendURL string
}
