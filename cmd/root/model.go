package root

import (
	"github.com/Mobo140/igbot-cli/internal/clipboard"
	"github.com/Mobo140/igbot-cli/internal/dashboard"
	"github.com/Mobo140/igbot-cli/internal/session"
)

// Deps are the long-lived objects every command works on.
type Deps struct {
	Session    *session.Store
	Dashboard  *dashboard.ViewModel
	Clipboard  *clipboard.Copier
	ContactURL string
}

// alertError is a failure already phrased for the operator.
type alertError struct {
	msg string
	err error
}

func (e *alertError) Error() string {
	return e.msg
}

func (e *alertError) Unwrap() error {
	return e.err
}

func alert(err error, fallback string) error {
	if err == nil {
		return nil
	}

	return &alertError{msg: dashboard.ErrorMessage(err, fallback), err: err}
}
