package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/Mobo140/igbot-cli/internal/clients"
	"github.com/Mobo140/igbot-cli/internal/clients/transport"
	"github.com/Mobo140/igbot-cli/internal/model"
	"github.com/Mobo140/igbot-cli/internal/session"
	"github.com/Mobo140/platform_common/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrNoAccount = errors.New("no account loaded")
	ErrNoToken   = errors.New("access token not loaded")
	// ErrStale is returned when the session changed while a request was in
	// flight and its result was dropped.
	ErrStale = errors.New("result discarded: session changed")
)

const (
	opLoad       = "load"
	opToken      = "token"
	opOptions    = "options"
	opResetToken = "token-reset"
	opWebhook    = "webhook"
	opReset      = "reset"

	defaultTestText = "test"
)

// Session is the part of the session store the view-model depends on.
type Session interface {
	Authenticated() bool
	Subscribe(fn func(session.Event))
	Logout(ctx context.Context, accounts session.AccountLogouter, username string) error
}

type ViewModel struct {
	accounts clients.AccountsServiceClient
	session  Session
	baseURL  string
	inflight *registry
	writes   sync.WaitGroup

	mu       sync.Mutex
	gen      uint64
	disposed bool

	logged   bool
	current  string
	list     []model.Account
	token    string
	hasToken bool
	revealed bool

	hasOptions bool
	options    model.Options
	confirmed  model.Options
	syncState  map[model.OptionKey]SyncState
	writeSeq   map[model.OptionKey]uint64
}

// New creates a view-model in the landing state. It resets itself whenever
// sess reports a logout or an invalidated session.
func New(accounts clients.AccountsServiceClient, sess Session, baseURL string) *ViewModel {
	vm := &ViewModel{
		accounts:  accounts,
		session:   sess,
		baseURL:   baseURL,
		inflight:  newRegistry(),
		syncState: make(map[model.OptionKey]SyncState),
		writeSeq:  make(map[model.OptionKey]uint64),
	}

	sess.Subscribe(func(e session.Event) {
		if e == session.EventLoggedOut || e == session.EventInvalidated {
			vm.reset()
		}
	})

	return vm
}

// reset drops every in-flight request and returns to the landing state.
// The generation moves before cancellation so a cancelled request always
// observes that it is stale.
func (vm *ViewModel) reset() {
	vm.mu.Lock()
	vm.gen++
	vm.clearLocked()
	vm.mu.Unlock()

	vm.inflight.cancelAll()
}

func (vm *ViewModel) clearLocked() {
	vm.logged = false
	vm.current = ""
	vm.list = nil
	vm.token = ""
	vm.hasToken = false
	vm.hasOptions = false
	vm.options = model.Options{}
	vm.confirmed = model.Options{}
	vm.syncState = make(map[model.OptionKey]SyncState)
}

// Dispose cancels in-flight requests; late responses are discarded.
func (vm *ViewModel) Dispose() {
	vm.mu.Lock()
	vm.gen++
	vm.disposed = true
	vm.mu.Unlock()

	vm.inflight.cancelAll()
}

func (vm *ViewModel) generation() uint64 {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	return vm.gen
}

// LoadAccounts replaces the account list and refreshes the current
// account's token and options. It returns the number of accounts. Token and
// option fetch failures only leave those fields unset.
func (vm *ViewModel) LoadAccounts(ctx context.Context) (int, error) {
	vm.mu.Lock()
	gen, disposed := vm.gen, vm.disposed
	vm.mu.Unlock()

	if disposed {
		return 0, ErrStale
	}

	if !vm.session.Authenticated() {
		vm.applyLanding(gen)
		return 0, nil
	}

	ctx, done := vm.inflight.start(ctx, requestKey("", opLoad))
	defer done()

	list, err := vm.accounts.List(ctx)
	if err != nil {
		if vm.generation() != gen {
			return 0, ErrStale
		}
		return 0, err
	}

	if len(list) == 0 {
		if !vm.applyLanding(gen) {
			return 0, ErrStale
		}
		return 0, nil
	}

	current := list[len(list)-1].Username

	token, tokenErr := vm.fetchToken(ctx, current)
	if tokenErr != nil {
		logger.Warn("failed to fetch access token", zap.String("username", current), zap.Error(tokenErr))
	}

	var (
		opts    model.Options
		optsErr = tokenErr
	)
	if tokenErr == nil {
		opts, optsErr = vm.fetchOptions(ctx, token, current)
		if optsErr != nil {
			logger.Warn("failed to fetch options", zap.String("username", current), zap.Error(optsErr))
		}
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.gen != gen {
		return 0, ErrStale
	}

	if vm.current != current {
		vm.revealed = false
		vm.syncState = make(map[model.OptionKey]SyncState)
		vm.options = model.Options{}
		vm.confirmed = model.Options{}
		// Writes still in flight belong to the previous account.
		for _, k := range model.ServerOptionKeys {
			vm.writeSeq[k]++
		}
	}

	vm.logged = true
	vm.current = current
	vm.list = list

	vm.token = token
	vm.hasToken = tokenErr == nil

	vm.hasOptions = optsErr == nil
	if optsErr == nil {
		vm.applyServerOptionsLocked(opts)
	} else {
		vm.clearServerOptionsLocked()
	}

	logger.Debug("accounts loaded", zap.Int("count", len(list)), zap.String("current", current))

	return len(list), nil
}

func (vm *ViewModel) fetchToken(ctx context.Context, username string) (string, error) {
	ctx, done := vm.inflight.start(ctx, requestKey(username, opToken))
	defer done()

	return vm.accounts.GetToken(ctx, username)
}

func (vm *ViewModel) fetchOptions(ctx context.Context, token, username string) (model.Options, error) {
	ctx, done := vm.inflight.start(ctx, requestKey(username, opOptions))
	defer done()

	return vm.accounts.GetOptions(ctx, token, username)
}

// applyServerOptionsLocked takes server values for every option that has no
// local write in flight, so a reload never clobbers a pending toggle.
func (vm *ViewModel) applyServerOptionsLocked(opts model.Options) {
	for _, k := range model.ServerOptionKeys {
		v := opts.Get(k)
		vm.confirmed.Set(k, v)

		if vm.syncState[k] == PendingWrite {
			continue
		}
		vm.options.Set(k, v)
		vm.syncState[k] = Synced
	}
}

// clearServerOptionsLocked drops server values after a failed fetch. Options
// with a write in flight keep their local value until the write settles.
func (vm *ViewModel) clearServerOptionsLocked() {
	vm.confirmed = model.Options{}

	for _, k := range model.ServerOptionKeys {
		if vm.syncState[k] == PendingWrite {
			continue
		}
		vm.options.Set(k, false)
		delete(vm.syncState, k)
	}
}

func (vm *ViewModel) applyLanding(gen uint64) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.gen != gen {
		return false
	}
	vm.clearLocked()

	return true
}

// SetOption flips key locally right away and persists it in the background.
// Call Flush to wait for the write.
func (vm *ViewModel) SetOption(ctx context.Context, key model.OptionKey, value bool) error {
	vm.mu.Lock()

	if vm.disposed {
		vm.mu.Unlock()
		return ErrStale
	}
	if !vm.logged {
		vm.mu.Unlock()
		return ErrNoAccount
	}

	vm.options.Set(key, value)
	if !key.ServerBacked() {
		vm.mu.Unlock()
		return nil
	}

	vm.syncState[key] = PendingWrite
	vm.writeSeq[key]++

	var (
		seq      = vm.writeSeq[key]
		gen      = vm.gen
		username = vm.current
		token    = vm.token
	)
	vm.mu.Unlock()

	wctx, done := vm.inflight.start(context.WithoutCancel(ctx), requestKey(username, opOptions+"/"+string(key)))

	vm.writes.Add(1)
	go func() {
		defer vm.writes.Done()
		defer done()

		err := vm.accounts.SetOptions(wctx, token, username, map[model.OptionKey]bool{key: value})
		vm.finishWrite(gen, seq, username, key, value, err)
	}()

	return nil
}

func (vm *ViewModel) finishWrite(gen, seq uint64, username string, key model.OptionKey, value bool, err error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.gen != gen || vm.current != username || vm.writeSeq[key] != seq {
		return
	}

	if err != nil {
		logger.Warn("option write rejected, reverting",
			zap.String("option", string(key)),
			zap.String("username", vm.current),
			zap.Error(err),
		)
		vm.syncState[key] = Conflicted
		vm.options.Set(key, vm.confirmed.Get(key))

		return
	}

	vm.confirmed.Set(key, value)
	vm.syncState[key] = Synced
}

// ToggleOption flips the current value of key and returns the new value.
func (vm *ViewModel) ToggleOption(ctx context.Context, key model.OptionKey) (bool, error) {
	vm.mu.Lock()
	v := !vm.options.Get(key)
	vm.mu.Unlock()

	return v, vm.SetOption(ctx, key, v)
}

// Flush waits for all background option writes.
func (vm *ViewModel) Flush() {
	vm.writes.Wait()
}

// SendURL is the endpoint for the currently displayed options.
func (vm *ViewModel) SendURL() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	return BuildSendURL(vm.baseURL, vm.options)
}

// ToggleReveal flips between the masked and the real token and returns what
// is now displayed.
func (vm *ViewModel) ToggleReveal() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.revealed = !vm.revealed

	return vm.tokenDisplayLocked()
}

func (vm *ViewModel) tokenDisplayLocked() string {
	if vm.revealed {
		return vm.token
	}

	return MaskedToken
}

// ResetToken invalidates the current access token on the server and shows the
// new one, keeping the reveal setting.
func (vm *ViewModel) ResetToken(ctx context.Context) (string, error) {
	username, token, gen, err := vm.currentAccount()
	if err != nil {
		return "", err
	}
	if len(token) == 0 {
		return "", ErrNoToken
	}

	ctx, done := vm.inflight.start(ctx, requestKey(username, opResetToken))
	defer done()

	fresh, err := vm.accounts.ResetToken(ctx, token, username)
	if err != nil {
		return "", err
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.gen != gen || vm.current != username {
		return "", ErrStale
	}
	vm.token = fresh
	vm.hasToken = true

	return fresh, nil
}

func (vm *ViewModel) currentAccount() (username, token string, gen uint64, err error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if !vm.logged {
		return "", "", 0, ErrNoAccount
	}

	return vm.current, vm.token, vm.gen, nil
}

// tokenFor returns the access token of username, fetching it when it is not
// the loaded current account.
func (vm *ViewModel) tokenFor(ctx context.Context, username string) (string, error) {
	vm.mu.Lock()
	if vm.logged && vm.current == username && vm.hasToken {
		t := vm.token
		vm.mu.Unlock()
		return t, nil
	}
	vm.mu.Unlock()

	return vm.fetchToken(ctx, username)
}

// LoginAccount signs a managed account in and reloads the list whatever the
// outcome, as the account may have been partially created.
func (vm *ViewModel) LoginAccount(ctx context.Context, req model.AccountLogin) (int, error) {
	if len(req.Username) == 0 || len(req.Password) == 0 {
		return 0, session.ErrMissingCredentials
	}

	loginErr := vm.accounts.Login(ctx, req)

	n, err := vm.LoadAccounts(ctx)
	if loginErr != nil {
		return n, loginErr
	}

	return n, err
}

// ImportSession attaches an existing Instagram session and reloads the list.
func (vm *ViewModel) ImportSession(ctx context.Context, req model.SessionImport) (int, error) {
	if err := vm.accounts.ImportSession(ctx, req); err != nil {
		return 0, err
	}

	return vm.LoadAccounts(ctx)
}

// ResetAccount resets the current account on the server and reloads.
func (vm *ViewModel) ResetAccount(ctx context.Context) (int, error) {
	username, token, _, err := vm.currentAccount()
	if err != nil {
		return 0, err
	}
	if len(token) == 0 {
		return 0, ErrNoToken
	}

	rctx, done := vm.inflight.start(ctx, requestKey(username, opReset))
	err = vm.accounts.Reset(rctx, token, username)
	done()
	if err != nil {
		return 0, err
	}

	return vm.LoadAccounts(ctx)
}

// SaveWebhook sets the webhook URL of username and reloads.
func (vm *ViewModel) SaveWebhook(ctx context.Context, username string, url string) (int, error) {
	token, err := vm.tokenFor(ctx, username)
	if err != nil {
		return 0, err
	}

	wctx, done := vm.inflight.start(ctx, requestKey(username, opWebhook))
	err = vm.accounts.SetWebhook(wctx, token, username, &url, nil)
	done()
	if err != nil {
		return 0, err
	}

	return vm.LoadAccounts(ctx)
}

func (vm *ViewModel) SetWebhookEnabled(ctx context.Context, username string, enabled bool) (int, error) {
	token, err := vm.tokenFor(ctx, username)
	if err != nil {
		return 0, err
	}

	wctx, done := vm.inflight.start(ctx, requestKey(username, opWebhook))
	err = vm.accounts.SetWebhook(wctx, token, username, nil, &enabled)
	done()
	if err != nil {
		return 0, err
	}

	return vm.LoadAccounts(ctx)
}

func (vm *ViewModel) TestWebhook(ctx context.Context, username string, text string) error {
	if len(text) == 0 {
		text = defaultTestText
	}

	token, err := vm.tokenFor(ctx, username)
	if err != nil {
		return err
	}

	return vm.accounts.TestWebhook(ctx, token, username, text)
}

func (vm *ViewModel) ListWebhooks(ctx context.Context, username string) ([]model.Webhook, error) {
	token, err := vm.tokenFor(ctx, username)
	if err != nil {
		return nil, err
	}

	return vm.accounts.ListWebhooks(ctx, token, username)
}

func (vm *ViewModel) AddWebhook(ctx context.Context, username string, url string) (string, error) {
	token, err := vm.tokenFor(ctx, username)
	if err != nil {
		return "", err
	}

	return vm.accounts.AddWebhook(ctx, token, username, url)
}

func (vm *ViewModel) DeleteWebhook(ctx context.Context, username string, id string) error {
	token, err := vm.tokenFor(ctx, username)
	if err != nil {
		return err
	}

	return vm.accounts.DeleteWebhook(ctx, token, username, id)
}

// Logout signs the current account and the app session out. The session
// store clears the credentials and the view returns to landing.
func (vm *ViewModel) Logout(ctx context.Context) error {
	vm.mu.Lock()
	username := vm.current
	vm.mu.Unlock()

	err := vm.session.Logout(ctx, vm.accounts, username)
	vm.reset()

	return err
}

// Current is the username of the current account, empty on landing.
func (vm *ViewModel) Current() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	return vm.current
}

func (vm *ViewModel) Snapshot() Snapshot {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	s := Snapshot{
		View:            ViewLanding,
		Logged:          vm.logged,
		CurrentUsername: vm.current,
		TokenLoaded:     vm.hasToken,
		Token:           vm.token,
		TokenRevealed:   vm.revealed,
		TokenDisplay:    vm.tokenDisplayLocked(),
		OptionsLoaded:   vm.hasOptions,
		Options:         vm.options,
		OptionSync:      make(map[model.OptionKey]SyncState, len(vm.syncState)),
		SendURL:         BuildSendURL(vm.baseURL, vm.options),
	}

	if vm.logged {
		s.View = ViewDashboard
	}
	if vm.hasToken {
		s.AuthHeader = AuthHeader(s.TokenDisplay)
	} else {
		s.AuthHeader = AuthHeader("")
	}

	for k, v := range vm.syncState {
		s.OptionSync[k] = v
	}

	s.Accounts = make([]AccountView, 0, len(vm.list))
	for _, a := range vm.list {
		s.Accounts = append(s.Accounts, AccountView{Account: a, WebhookStatus: WebhookStatus(a)})
	}

	return s
}

// ErrorMessage is the operator-facing text for a view-model error.
func ErrorMessage(err error, fallback string) string {
	if errors.Is(err, ErrNoAccount) {
		return "no account is signed in"
	}
	if errors.Is(err, ErrNoToken) {
		return "the access token is not loaded, run the command again"
	}

	var loginErr *session.LoginError
	if errors.As(err, &loginErr) {
		return loginErr.Error()
	}

	return transport.Message(err, fallback)
}
