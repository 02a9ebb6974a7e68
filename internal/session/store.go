package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Mobo140/igbot-cli/internal/clients"
	"github.com/Mobo140/igbot-cli/internal/model"
	"github.com/Mobo140/igbot-cli/internal/storage"
	"github.com/Mobo140/platform_common/pkg/logger"
	"go.uber.org/zap"
)

var _ clients.TokenSource = (*Store)(nil)

type Event int

const (
	// EventAuthenticated fires after login or a successful bootstrap.
	EventAuthenticated Event = iota + 1
	// EventInvalidated fires when bootstrap drops a session the server refused.
	EventInvalidated
	// EventLoggedOut fires after Logout cleared the credentials.
	EventLoggedOut
)

func (e Event) String() string {
	switch e {
	case EventAuthenticated:
		return "authenticated"
	case EventInvalidated:
		return "invalidated"
	case EventLoggedOut:
		return "logged_out"
	}

	return "unknown"
}

// AccountLogouter signs a managed account out on the server.
type AccountLogouter interface {
	Logout(ctx context.Context, username string) error
}

// Store owns the application session and refresh tokens. Storage is the
// source of truth across runs; the in-memory copy mirrors it.
type Store struct {
	mu         sync.RWMutex
	auth       clients.AuthServiceClient
	storage    storage.Storage
	contactURL string
	creds      model.Credentials
	listeners  []func(Event)
}

func New(auth clients.AuthServiceClient, st storage.Storage, contactURL string) *Store {
	return &Store{
		auth:       auth,
		storage:    st,
		contactURL: contactURL,
		creds: model.Credentials{
			SessionToken: st.Get(storage.KeySession),
			RefreshToken: st.Get(storage.KeyRefresh),
		},
	}
}

func (s *Store) SessionToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.creds.SessionToken
}

func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.creds.RefreshToken
}

func (s *Store) Credentials() model.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.creds
}

func (s *Store) Authenticated() bool {
	return len(s.SessionToken()) != 0
}

// Subscribe registers fn for session events. fn runs synchronously on the
// goroutine that caused the event.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
}

// Dispose detaches all subscribers.
func (s *Store) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = nil
}

func (s *Store) emit(e Event) {
	s.mu.RLock()
	listeners := append([]func(Event){}, s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(e)
	}
}

// Bootstrap restores the session at startup and reports whether a session
// token is held afterwards. Only storage failures are returned as errors.
func (s *Store) Bootstrap(ctx context.Context) (bool, error) {
	creds := s.Credentials()

	switch {
	case len(creds.SessionToken) != 0:
		if err := s.auth.VerifySession(ctx, creds.SessionToken); err != nil {
			logger.Warn("stored session is no longer valid", zap.Error(err))

			if err := s.clear(); err != nil {
				return false, err
			}
			s.emit(EventInvalidated)

			return false, nil
		}

		rotated, err := s.auth.RefreshSession(ctx, creds.SessionToken)
		if err != nil {
			logger.Warn("failed to rotate session, keeping the verified one", zap.Error(err))
		} else if err := s.setSession(rotated); err != nil {
			return true, err
		}

	case len(creds.RefreshToken) != 0:
		token, err := s.auth.RefreshFromToken(ctx, creds.RefreshToken)
		if err != nil {
			logger.Warn("failed to restore session from refresh token", zap.Error(err))

			return false, nil
		}
		if err := s.setSession(token); err != nil {
			return false, err
		}

	default:
		return false, nil
	}

	logger.Info("session restored")
	s.emit(EventAuthenticated)

	return true, nil
}

// Login exchanges app credentials for a session. Any remote failure is
// returned as *LoginError and leaves the stored credentials untouched.
func (s *Store) Login(ctx context.Context, username string, password string) error {
	if len(username) == 0 || len(password) == 0 {
		return ErrMissingCredentials
	}

	res, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return &LoginError{Err: err, ContactURL: s.contactURL}
	}

	if err := s.setSession(res.Token); err != nil {
		return err
	}
	if len(res.Refresh) != 0 {
		if err := s.setRefresh(res.Refresh); err != nil {
			return err
		}
	}

	logger.Info("logged in", zap.String("username", username))
	s.emit(EventAuthenticated)

	return nil
}

// Logout signs username out (when set) and the app session out, ignoring
// remote failures, then clears both tokens unconditionally.
func (s *Store) Logout(ctx context.Context, accounts AccountLogouter, username string) error {
	if accounts != nil && len(username) != 0 {
		if err := accounts.Logout(ctx, username); err != nil {
			logger.Warn("account logout failed", zap.String("username", username), zap.Error(err))
		}
	}

	if err := s.auth.Logout(ctx); err != nil {
		logger.Warn("app logout failed", zap.Error(err))
	}

	err := s.clear()
	s.emit(EventLoggedOut)

	return err
}

func (s *Store) setSession(token string) error {
	s.mu.Lock()
	s.creds.SessionToken = token
	s.mu.Unlock()

	if err := s.storage.Set(storage.KeySession, token); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	return nil
}

func (s *Store) setRefresh(token string) error {
	s.mu.Lock()
	s.creds.RefreshToken = token
	s.mu.Unlock()

	if err := s.storage.Set(storage.KeyRefresh, token); err != nil {
		return fmt.Errorf("persist refresh token: %w", err)
	}

	return nil
}

func (s *Store) clear() error {
	s.mu.Lock()
	s.creds = model.Credentials{}
	s.mu.Unlock()

	return errors.Join(
		s.storage.Remove(storage.KeySession),
		s.storage.Remove(storage.KeyRefresh),
	)
}
