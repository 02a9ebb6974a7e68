// Package fakeapi is an in-process stand-in for the account-management API,
// used by tests of the clients, the session store and the dashboard.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gorilla/mux"
)

// Route names, usable as keys of Fail, Hooks and Calls.
const (
	RouteLogin            = "login"
	RouteAppLogout        = "app-logout"
	RouteVerify           = "verify"
	RouteRefresh          = "refresh"
	RouteRefreshFromToken = "refresh-from-token"
	RouteAccounts         = "accounts"
	RouteAccountLogin     = "account-login"
	RouteAccountLogout    = "account-logout"
	RouteImportSession    = "import-session"
	RouteSetWebhook       = "set-webhook"
	RouteTestWebhook      = "test-webhook"
	RouteListWebhooks     = "list-webhooks"
	RouteAddWebhook       = "add-webhook"
	RouteDeleteWebhook    = "delete-webhook"
	RouteReset            = "reset"
	RouteGetOptions       = "get-options"
	RouteSetOptions       = "set-options"
	RouteGetToken         = "get-token"
	RouteResetToken       = "reset-token"
)

type Account struct {
	Username       string
	WebhookURL     *string
	WebhookEnabled bool
	Token          string
	Options        map[string]bool
	Webhooks       map[string]string
	LoggedOut      bool
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]string
	sessions map[string]bool
	refresh  map[string]bool
	accounts []*Account
	fail     map[string]int
	hooks    map[string]func()
	calls    map[string]int
	seq      int
}

func New() *Server {
	s := &Server{
		users:    make(map[string]string),
		sessions: make(map[string]bool),
		refresh:  make(map[string]bool),
		fail:     make(map[string]int),
		hooks:    make(map[string]func()),
		calls:    make(map[string]int),
	}

	r := mux.NewRouter()
	s.handle(r, RouteLogin, http.MethodPost, "/api/login", s.login)
	s.handle(r, RouteAppLogout, http.MethodPost, "/api/logout", s.ok)
	s.handle(r, RouteVerify, http.MethodGet, "/api/verify-session", s.withSession(s.ok))
	s.handle(r, RouteRefresh, http.MethodPost, "/api/refresh-session", s.withSession(s.refreshSession))
	s.handle(r, RouteRefreshFromToken, http.MethodPost, "/api/refresh-from-token", s.refreshFromToken)
	s.handle(r, RouteAccounts, http.MethodGet, "/accounts", s.withSession(s.listAccounts))
	s.handle(r, RouteAccountLogin, http.MethodPost, "/accounts/login", s.withSession(s.accountLogin))
	s.handle(r, RouteAccountLogout, http.MethodPost, "/accounts/logout", s.withSession(s.accountLogout))
	s.handle(r, RouteImportSession, http.MethodPost, "/accounts/import-session", s.withSession(s.importSession))
	s.handle(r, RouteTestWebhook, http.MethodPost, "/test_webhook", s.testWebhook)
	s.handle(r, RouteSetWebhook, http.MethodPost, "/accounts/{user}/webhook", s.withSession(s.withBearer(s.setWebhook)))
	s.handle(r, RouteListWebhooks, http.MethodGet, "/accounts/{user}/webhooks", s.withSession(s.withBearer(s.listWebhooks)))
	s.handle(r, RouteAddWebhook, http.MethodPost, "/accounts/{user}/webhooks", s.withSession(s.withBearer(s.addWebhook)))
	s.handle(r, RouteDeleteWebhook, http.MethodDelete, "/accounts/{user}/webhooks/{id}", s.withSession(s.withBearer(s.deleteWebhook)))
	s.handle(r, RouteReset, http.MethodPost, "/accounts/{user}/reset", s.withSession(s.withBearer(s.ok)))
	s.handle(r, RouteGetOptions, http.MethodGet, "/accounts/{user}/options", s.withSession(s.withBearer(s.getOptions)))
	s.handle(r, RouteSetOptions, http.MethodPost, "/accounts/{user}/options", s.withSession(s.withBearer(s.setOptions)))
	s.handle(r, RouteGetToken, http.MethodGet, "/accounts/{user}/token", s.withSession(s.getToken))
	s.handle(r, RouteResetToken, http.MethodPost, "/accounts/{user}/token/reset", s.withSession(s.withBearer(s.resetToken)))

	s.Server = httptest.NewServer(r)

	return s
}

// AddUser registers app credentials accepted by /api/login.
func (s *Server) AddUser(username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username] = password
}

// AddSession marks token as a valid app session.
func (s *Server) AddSession(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = true
}

func (s *Server) AddRefreshToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh[token] = true
}

func (s *Server) HasSession(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[token]
}

// AddAccount adds a managed account with the given access token.
func (s *Server) AddAccount(username, token string) *Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := &Account{
		Username:       username,
		WebhookEnabled: true,
		Token:          token,
		Options:        make(map[string]bool),
		Webhooks:       make(map[string]string),
	}
	s.accounts = append(s.accounts, a)

	return a
}

// Account returns a copy of the named account state.
func (s *Server) Account(username string) (Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.find(username)
	if a == nil {
		return Account{}, false
	}

	cp := *a
	cp.Options = make(map[string]bool, len(a.Options))
	for k, v := range a.Options {
		cp.Options[k] = v
	}

	return cp, true
}

// SetOption changes server-side option state without going through the API.
func (s *Server) SetOption(username, key string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a := s.find(username); a != nil {
		a.Options[key] = v
	}
}

// Fail makes route answer with status and an "injected" detail. Status 0 clears it.
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.fail, route)
		return
	}
	s.fail[route] = status
}

// Hook runs fn before route is handled. fn may block.
func (s *Server) Hook(route string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks[route] = fn
}

func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

func (s *Server) handle(r *mux.Router, name, method, path string, h http.HandlerFunc) {
	r.HandleFunc(path, func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		s.calls[name]++
		status := s.fail[name]
		hook := s.hooks[name]
		s.mu.Unlock()

		if hook != nil {
			hook()
		}

		if status != 0 {
			writeJSON(w, status, map[string]any{"detail": "injected"})
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		h(w, req)
	}).Methods(method).Name(name)
}

func (s *Server) next(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *Server) find(username string) *Account {
	for _, a := range s.accounts {
		if a.Username == username {
			return a
		}
	}

	return nil
}

func bearer(v string) string {
	return strings.TrimPrefix(v, "Bearer ")
}

func (s *Server) withSession(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.sessions[bearer(r.Header.Get("X-App-Session"))] {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "invalid_session"})
			return
		}
		h(w, r)
	}
}

func (s *Server) withBearer(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := s.find(mux.Vars(r)["user"])
		if a == nil {
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "account_not_found"})
			return
		}
		if bearer(r.Header.Get("Authorization")) != a.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "invalid_token"})
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) ok(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "bad_body"})
		return
	}

	pw, ok := s.users[body.Username]
	if !ok || pw != body.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "invalid_credentials"})
		return
	}

	token := s.next("session")
	refresh := s.next("refresh")
	s.sessions[token] = true
	s.refresh[refresh] = true

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"token":   token,
		"refresh": refresh,
		"user":    map[string]any{"id": "u1", "username": body.Username},
	})
}

func (s *Server) refreshSession(w http.ResponseWriter, _ *http.Request) {
	token := s.next("session")
	s.sessions[token] = true
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "token": token})
}

func (s *Server) refreshFromToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Refresh string `json:"refresh"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	if !s.refresh[body.Refresh] {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "invalid_refresh"})
		return
	}

	token := s.next("session")
	s.sessions[token] = true
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "token": token})
}

func (s *Server) listAccounts(w http.ResponseWriter, _ *http.Request) {
	items := make([]map[string]any, 0, len(s.accounts))
	for _, a := range s.accounts {
		if a.LoggedOut {
			continue
		}
		items = append(items, map[string]any{
			"username":        a.Username,
			"webhook_url":     a.WebhookURL,
			"webhook_enabled": a.WebhookEnabled,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"accounts": items})
}

func (s *Server) accountLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username   string  `json:"username"`
		Password   string  `json:"password"`
		WebhookURL *string `json:"webhook_url"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	if body.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "challenge_required"})
		return
	}

	a := s.find(body.Username)
	if a == nil {
		a = &Account{
			Username:       body.Username,
			WebhookEnabled: true,
			Token:          s.next("token"),
			Options:        make(map[string]bool),
			Webhooks:       make(map[string]string),
		}
		s.accounts = append(s.accounts, a)
	}
	a.LoggedOut = false
	if body.WebhookURL != nil {
		a.WebhookURL = body.WebhookURL
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) accountLogout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	if a := s.find(body.Username); a != nil {
		a.LoggedOut = true
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) importSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username  string `json:"username"`
		SessionID string `json:"sessionid"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	if body.Username == "" || body.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "missing_fields"})
		return
	}

	if s.find(body.Username) == nil {
		s.accounts = append(s.accounts, &Account{
			Username:       body.Username,
			WebhookEnabled: true,
			Token:          s.next("token"),
			Options:        make(map[string]bool),
			Webhooks:       make(map[string]string),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) setWebhook(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WebhookURL *string `json:"webhook_url"`
		Enabled    *bool   `json:"enabled"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	a := s.find(mux.Vars(r)["user"])
	if body.WebhookURL != nil && *body.WebhookURL != "" {
		a.WebhookURL = body.WebhookURL
		if body.Enabled == nil {
			a.WebhookEnabled = true
		}
	}
	if body.Enabled != nil {
		a.WebhookEnabled = *body.Enabled
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) testWebhook(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Text     string `json:"text"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	a := s.find(body.Username)
	if a == nil || bearer(r.Header.Get("Authorization")) != a.Token {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "invalid_token"})
		return
	}
	if a.WebhookURL == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "no webhook configured"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) listWebhooks(w http.ResponseWriter, r *http.Request) {
	a := s.find(mux.Vars(r)["user"])
	items := make([]map[string]any, 0, len(a.Webhooks))
	for id, u := range a.Webhooks {
		items = append(items, map[string]any{"id": id, "url": u, "permissions": map[string]any{}})
	}
	writeJSON(w, http.StatusOK, map[string]any{"webhooks": items})
}

func (s *Server) addWebhook(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	a := s.find(mux.Vars(r)["user"])
	id := s.next("wh")
	a.Webhooks[id] = body.URL
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

func (s *Server) deleteWebhook(w http.ResponseWriter, r *http.Request) {
	a := s.find(mux.Vars(r)["user"])
	delete(a.Webhooks, mux.Vars(r)["id"])
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) getOptions(w http.ResponseWriter, r *http.Request) {
	a := s.find(mux.Vars(r)["user"])
	writeJSON(w, http.StatusOK, map[string]any{"options": a.Options})
}

func (s *Server) setOptions(w http.ResponseWriter, r *http.Request) {
	var patch map[string]bool
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": "bad_body"})
		return
	}

	a := s.find(mux.Vars(r)["user"])
	for k, v := range patch {
		a.Options[k] = v
	}
	writeJSON(w, http.StatusOK, map[string]any{"options": a.Options})
}

func (s *Server) getToken(w http.ResponseWriter, r *http.Request) {
	a := s.find(mux.Vars(r)["user"])
	if a == nil || a.Token == "" {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "token_missing"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": a.Token})
}

func (s *Server) resetToken(w http.ResponseWriter, r *http.Request) {
	a := s.find(mux.Vars(r)["user"])
	a.Token = s.next("token")
	writeJSON(w, http.StatusOK, map[string]any{"token": a.Token})
}
