package dashboard_test

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/Mobo140/igbot-cli/internal/clients/accounts"
	"github.com/Mobo140/igbot-cli/internal/clients/auth"
	"github.com/Mobo140/igbot-cli/internal/clients/transport"
	"github.com/Mobo140/igbot-cli/internal/dashboard"
	"github.com/Mobo140/igbot-cli/internal/fakeapi"
	"github.com/Mobo140/igbot-cli/internal/model"
	"github.com/Mobo140/igbot-cli/internal/session"
	"github.com/Mobo140/igbot-cli/internal/storage"
	"github.com/Mobo140/platform_common/pkg/logger"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zapcore"
)

func TestMain(m *testing.M) {
	logger.Init(zapcore.NewNopCore())
	os.Exit(m.Run())
}

type fixture struct {
	srv     *fakeapi.Server
	store   *session.Store
	storage *storage.MemoryStorage
	vm      *dashboard.ViewModel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	srv := fakeapi.New()
	t.Cleanup(srv.Close)

	srv.AddSession("sess")
	st := storage.NewMemoryStorage()
	_ = st.Set(storage.KeySession, "sess")

	tr := transport.NewWithClient(srv.URL, srv.Client())
	store := session.New(auth.NewAuthClient(tr), st, "")
	vm := dashboard.New(accounts.NewAccountsClient(tr, store), store, srv.URL)

	return &fixture{srv: srv, store: store, storage: st, vm: vm}
}

func TestLoadAccountsEmptyShowsLanding(t *testing.T) {
	f := newFixture(t)

	n, err := f.vm.LoadAccounts(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("LoadAccounts = %d, %v", n, err)
	}

	snap := f.vm.Snapshot()
	if snap.View != dashboard.ViewLanding || snap.Logged || snap.CurrentUsername != "" {
		t.Fatalf("expected landing, got %+v", snap)
	}
}

func TestLoadAccountsUnauthenticatedShowsLanding(t *testing.T) {
	f := newFixture(t)
	f.srv.AddAccount("alice", "tok-a")
	_ = f.store.Logout(context.Background(), nil, "")

	n, err := f.vm.LoadAccounts(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("LoadAccounts = %d, %v", n, err)
	}
	if f.srv.Calls(fakeapi.RouteAccounts) != 0 {
		t.Fatal("no list call expected without a session")
	}
}

func TestLoadAccountsPopulatesDashboard(t *testing.T) {
	f := newFixture(t)
	f.srv.AddAccount("alice", "tok-a")
	f.srv.AddAccount("bob", "tok-b")
	f.srv.SetOption("bob", "safe_mode", true)
	f.srv.SetOption("bob", "delay_typing", true)

	n, err := f.vm.LoadAccounts(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("LoadAccounts = %d, %v", n, err)
	}

	snap := f.vm.Snapshot()
	if snap.View != dashboard.ViewDashboard || snap.CurrentUsername != "bob" {
		t.Fatalf("expected dashboard for bob, got view=%v current=%q", snap.View, snap.CurrentUsername)
	}
	if !snap.TokenLoaded || snap.Token != "tok-b" {
		t.Fatalf("token not loaded: %+v", snap)
	}
	if snap.TokenDisplay != dashboard.MaskedToken {
		t.Fatalf("token should start masked, got %q", snap.TokenDisplay)
	}
	if !snap.OptionsLoaded {
		t.Fatal("options not loaded")
	}
	if diff := cmp.Diff(model.Options{SafeMode: true, DelayTyping: true}, snap.Options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
	if snap.SendURL != f.srv.URL+"/send_message?typing=1&safe=1" {
		t.Fatalf("unexpected send url %q", snap.SendURL)
	}
	if len(snap.Accounts) != 2 || snap.Accounts[0].WebhookStatus != "Ready to use: webhook missing" {
		t.Fatalf("unexpected accounts %+v", snap.Accounts)
	}
}

func TestLoadAccountsTokenFailureLeavesFieldsUnset(t *testing.T) {
	f := newFixture(t)
	f.srv.AddAccount("alice", "tok-a")
	f.srv.Fail(fakeapi.RouteGetToken, http.StatusNotFound)

	n, err := f.vm.LoadAccounts(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("LoadAccounts = %d, %v", n, err)
	}

	snap := f.vm.Snapshot()
	if snap.View != dashboard.ViewDashboard {
		t.Fatal("dashboard should still render")
	}
	if snap.TokenLoaded || snap.Token != "" {
		t.Fatalf("token should be unset, got %+v", snap)
	}
	if snap.OptionsLoaded {
		t.Fatal("options cannot load without a token")
	}
	if snap.AuthHeader != "Authorization: Bearer <token>" {
		t.Fatalf("unexpected auth header %q", snap.AuthHeader)
	}
}

func TestLoadAccountsOptionsFailureLeavesOptionsUnset(t *testing.T) {
	f := newFixture(t)
	f.srv.AddAccount("alice", "tok-a")
	f.srv.Fail(fakeapi.RouteGetOptions, http.StatusInternalServerError)

	if _, err := f.vm.LoadAccounts(context.Background()); err != nil {
		t.Fatalf("LoadAccounts returned error: %v", err)
	}

	snap := f.vm.Snapshot()
	if !snap.TokenLoaded || snap.OptionsLoaded {
		t.Fatalf("expected token without options, got %+v", snap)
	}
}

func TestReloadOptionsFailureClearsPreviousValues(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.srv.AddAccount("alice", "tok-a")
	f.srv.SetOption("alice", string(model.OptionSafeMode), true)

	if _, err := f.vm.LoadAccounts(ctx); err != nil {
		t.Fatalf("LoadAccounts returned error: %v", err)
	}
	if !f.vm.Snapshot().Options.SafeMode {
		t.Fatal("expected safe mode from the server")
	}

	f.srv.Fail(fakeapi.RouteGetOptions, http.StatusInternalServerError)
	if _, err := f.vm.LoadAccounts(ctx); err != nil {
		t.Fatalf("LoadAccounts returned error: %v", err)
	}

	snap := f.vm.Snapshot()
	if snap.OptionsLoaded {
		t.Fatal("options should be unset")
	}
	if diff := cmp.Diff(model.Options{}, snap.Options); diff != "" {
		t.Fatalf("stale options kept (-want +got):\n%s", diff)
	}
	if snap.SendURL != f.srv.URL+"/send_message" {
		t.Fatalf("unexpected send url %q", snap.SendURL)
	}
}

func TestSwitchAccountOptionsFailureDoesNotInherit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.srv.AddAccount("alice", "tok-a")
	f.srv.SetOption("alice", string(model.OptionSafeMode), true)
	f.srv.SetOption("alice", string(model.OptionDelayTyping), true)

	if _, err := f.vm.LoadAccounts(ctx); err != nil {
		t.Fatalf("LoadAccounts returned error: %v", err)
	}
	if err := f.vm.SetOption(ctx, model.OptionFileMode, true); err != nil {
		t.Fatalf("SetOption returned error: %v", err)
	}

	f.srv.AddAccount("bob", "tok-b")
	f.srv.Fail(fakeapi.RouteGetOptions, http.StatusInternalServerError)
	if _, err := f.vm.LoadAccounts(ctx); err != nil {
		t.Fatalf("LoadAccounts returned error: %v", err)
	}

	snap := f.vm.Snapshot()
	if snap.CurrentUsername != "bob" || snap.OptionsLoaded {
		t.Fatalf("expected bob without options, got %+v", snap)
	}
	if diff := cmp.Diff(model.Options{}, snap.Options); diff != "" {
		t.Fatalf("bob inherited options (-want +got):\n%s", diff)
	}
	if snap.SendURL != f.srv.URL+"/send_message" {
		t.Fatalf("unexpected send url %q", snap.SendURL)
	}
}

func TestLoadAccountsListFailureIsReturned(t *testing.T) {
	f := newFixture(t)
	f.srv.Fail(fakeapi.RouteAccounts, http.StatusBadGateway)

	if _, err := f.vm.LoadAccounts(context.Background()); err == nil {
		t.Fatal("expected list failure to be returned")
	}
}

func loaded(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	f.srv.AddAccount("alice", "tok-a")
	if _, err := f.vm.LoadAccounts(context.Background()); err != nil {
		t.Fatalf("LoadAccounts returned error: %v", err)
	}
	return f
}

func TestSetOptionConfirmed(t *testing.T) {
	f := loaded(t)
	ctx := context.Background()

	for _, k := range []model.OptionKey{model.OptionSafeMode, model.OptionMarkSeenPrevious, model.OptionViewStories} {
		if err := f.vm.SetOption(ctx, k, true); err != nil {
			t.Fatalf("SetOption(%s) returned error: %v", k, err)
		}
	}
	f.vm.Flush()

	snap := f.vm.Snapshot()
	if snap.SendURL != f.srv.URL+"/send_message?seen=1&stories=1&safe=1" {
		t.Fatalf("unexpected send url %q", snap.SendURL)
	}
	for _, k := range []model.OptionKey{model.OptionSafeMode, model.OptionMarkSeenPrevious, model.OptionViewStories} {
		if snap.OptionSync[k] != dashboard.Synced {
			t.Fatalf("option %s is %v, want synced", k, snap.OptionSync[k])
		}
	}

	acc, _ := f.srv.Account("alice")
	want := map[string]bool{"safe_mode": true, "mark_seen_previous": true, "view_stories": true}
	if diff := cmp.Diff(want, acc.Options); diff != "" {
		t.Errorf("server options mismatch (-want +got):\n%s", diff)
	}

	if err := f.vm.SetOption(ctx, model.OptionMarkSeenPrevious, false); err != nil {
		t.Fatalf("SetOption returned error: %v", err)
	}
	f.vm.Flush()
	if got := f.vm.SendURL(); got != f.srv.URL+"/send_message?stories=1&safe=1" {
		t.Fatalf("inactive option leaked into url: %q", got)
	}
}

func TestSetOptionIsOptimistic(t *testing.T) {
	f := loaded(t)
	release := make(chan struct{})
	f.srv.Hook(fakeapi.RouteSetOptions, func() { <-release })
	t.Cleanup(func() { close(release) })

	if err := f.vm.SetOption(context.Background(), model.OptionDelayTyping, true); err != nil {
		t.Fatalf("SetOption returned error: %v", err)
	}

	snap := f.vm.Snapshot()
	if !snap.Options.DelayTyping || snap.OptionSync[model.OptionDelayTyping] != dashboard.PendingWrite {
		t.Fatalf("expected pending optimistic value, got %+v", snap)
	}
	if !strings.HasSuffix(snap.SendURL, "?typing=1") {
		t.Fatalf("send url not recomputed: %q", snap.SendURL)
	}
}

func TestSetOptionRejectedReverts(t *testing.T) {
	f := loaded(t)
	f.srv.Fail(fakeapi.RouteSetOptions, http.StatusForbidden)

	if err := f.vm.SetOption(context.Background(), model.OptionViewProfile, true); err != nil {
		t.Fatalf("SetOption returned error: %v", err)
	}
	f.vm.Flush()

	snap := f.vm.Snapshot()
	if snap.Options.ViewProfile {
		t.Fatal("rejected option should be reverted")
	}
	if snap.OptionSync[model.OptionViewProfile] != dashboard.Conflicted {
		t.Fatalf("expected conflicted, got %v", snap.OptionSync[model.OptionViewProfile])
	}
}

func TestReloadDoesNotClobberPendingWrite(t *testing.T) {
	f := loaded(t)
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	f.srv.Hook(fakeapi.RouteSetOptions, func() {
		close(entered)
		<-release
	})

	if err := f.vm.SetOption(ctx, model.OptionSafeMode, true); err != nil {
		t.Fatalf("SetOption returned error: %v", err)
	}
	<-entered

	if _, err := f.vm.LoadAccounts(ctx); err != nil {
		t.Fatalf("LoadAccounts returned error: %v", err)
	}
	if !f.vm.Snapshot().Options.SafeMode {
		t.Fatal("reload overwrote the pending toggle with the stale server value")
	}

	close(release)
	f.vm.Flush()

	snap := f.vm.Snapshot()
	if !snap.Options.SafeMode || snap.OptionSync[model.OptionSafeMode] != dashboard.Synced {
		t.Fatalf("expected synced safe mode, got %+v", snap)
	}
}

func TestWriteForPreviousAccountIsDropped(t *testing.T) {
	f := loaded(t)
	ctx := context.Background()

	f.srv.Fail(fakeapi.RouteSetOptions, http.StatusBadRequest)
	entered := make(chan struct{})
	release := make(chan struct{})
	f.srv.Hook(fakeapi.RouteSetOptions, func() {
		close(entered)
		<-release
	})

	if err := f.vm.SetOption(ctx, model.OptionSafeMode, true); err != nil {
		t.Fatalf("SetOption returned error: %v", err)
	}
	<-entered

	f.srv.AddAccount("bob", "tok-b")
	f.srv.SetOption("bob", string(model.OptionSafeMode), true)
	if _, err := f.vm.LoadAccounts(ctx); err != nil {
		t.Fatalf("LoadAccounts returned error: %v", err)
	}

	close(release)
	f.vm.Flush()

	snap := f.vm.Snapshot()
	if snap.CurrentUsername != "bob" {
		t.Fatalf("unexpected current %q", snap.CurrentUsername)
	}
	if !snap.Options.SafeMode || snap.OptionSync[model.OptionSafeMode] != dashboard.Synced {
		t.Fatalf("alice's rejected write leaked into bob: %+v", snap)
	}
}

func TestFileModeIsLocal(t *testing.T) {
	f := loaded(t)

	if err := f.vm.SetOption(context.Background(), model.OptionFileMode, true); err != nil {
		t.Fatalf("SetOption returned error: %v", err)
	}
	f.vm.Flush()

	if f.srv.Calls(fakeapi.RouteSetOptions) != 0 {
		t.Fatal("file mode must not be sent to the server")
	}
	if got := f.vm.SendURL(); got != f.srv.URL+"/send_file" {
		t.Fatalf("unexpected send url %q", got)
	}
}

func TestSetOptionWithoutAccount(t *testing.T) {
	f := newFixture(t)

	err := f.vm.SetOption(context.Background(), model.OptionSafeMode, true)
	if !errors.Is(err, dashboard.ErrNoAccount) {
		t.Fatalf("expected ErrNoAccount, got %v", err)
	}
}

func TestToggleOption(t *testing.T) {
	f := loaded(t)
	ctx := context.Background()

	v, err := f.vm.ToggleOption(ctx, model.OptionViewStories)
	if err != nil || !v {
		t.Fatalf("ToggleOption = %v, %v", v, err)
	}
	v, err = f.vm.ToggleOption(ctx, model.OptionViewStories)
	if err != nil || v {
		t.Fatalf("ToggleOption = %v, %v", v, err)
	}
	f.vm.Flush()

	acc, _ := f.srv.Account("alice")
	if acc.Options["view_stories"] {
		t.Fatal("server should end with the option off")
	}
}

func TestRevealRoundTripAcrossReset(t *testing.T) {
	f := loaded(t)

	if got := f.vm.ToggleReveal(); got != "tok-a" {
		t.Fatalf("revealed token = %q", got)
	}

	fresh, err := f.vm.ResetToken(context.Background())
	if err != nil {
		t.Fatalf("ResetToken returned error: %v", err)
	}
	if fresh == "tok-a" {
		t.Fatal("reset returned the old token")
	}

	snap := f.vm.Snapshot()
	if !snap.TokenRevealed || snap.TokenDisplay != fresh {
		t.Fatalf("reset should keep the token revealed, got %+v", snap)
	}

	if got := f.vm.ToggleReveal(); got != dashboard.MaskedToken {
		t.Fatalf("second toggle should mask, got %q", got)
	}
}

func TestRevealTwiceIsMasked(t *testing.T) {
	f := loaded(t)

	f.vm.ToggleReveal()
	if got := f.vm.ToggleReveal(); got != dashboard.MaskedToken {
		t.Fatalf("got %q, want placeholder", got)
	}
}

func TestAuthHeaderFollowsReveal(t *testing.T) {
	f := loaded(t)

	if h := f.vm.Snapshot().AuthHeader; strings.Contains(h, "tok-a") {
		t.Fatalf("masked header leaks the token: %q", h)
	}

	f.vm.ToggleReveal()
	if h := f.vm.Snapshot().AuthHeader; h != "Authorization: Bearer tok-a" {
		t.Fatalf("revealed header = %q", h)
	}
}

func TestResetTokenInvalidatesOld(t *testing.T) {
	f := loaded(t)
	ctx := context.Background()

	if _, err := f.vm.ResetToken(ctx); err != nil {
		t.Fatalf("ResetToken returned error: %v", err)
	}

	if err := f.vm.SetOption(ctx, model.OptionSafeMode, true); err != nil {
		t.Fatalf("SetOption returned error: %v", err)
	}
	f.vm.Flush()
	if f.vm.Snapshot().OptionSync[model.OptionSafeMode] != dashboard.Synced {
		t.Fatal("writes should use the fresh token")
	}
}

func TestSaveWebhookReloads(t *testing.T) {
	f := loaded(t)
	ctx := context.Background()

	if err := f.vm.TestWebhook(ctx, "alice", ""); err == nil {
		t.Fatal("testing a missing webhook should fail")
	}

	n, err := f.vm.SaveWebhook(ctx, "alice", "https://hooks.example/ig")
	if err != nil || n != 1 {
		t.Fatalf("SaveWebhook = %d, %v", n, err)
	}

	snap := f.vm.Snapshot()
	if snap.Accounts[0].WebhookStatus != "Webhook configured" {
		t.Fatalf("unexpected status %q", snap.Accounts[0].WebhookStatus)
	}
	if err := f.vm.TestWebhook(ctx, "alice", ""); err != nil {
		t.Fatalf("TestWebhook returned error: %v", err)
	}

	if _, err := f.vm.SetWebhookEnabled(ctx, "alice", false); err != nil {
		t.Fatalf("SetWebhookEnabled returned error: %v", err)
	}
	if got := f.vm.Snapshot().Accounts[0].WebhookStatus; got != "Webhook configured (disabled)" {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestWebhookForOtherAccountFetchesItsToken(t *testing.T) {
	f := loaded(t)
	f.srv.AddAccount("bob", "tok-b")
	ctx := context.Background()

	if _, err := f.vm.LoadAccounts(ctx); err != nil {
		t.Fatalf("LoadAccounts returned error: %v", err)
	}
	if f.vm.Current() != "bob" {
		t.Fatalf("reload should select the newest account, got %q", f.vm.Current())
	}

	before := f.srv.Calls(fakeapi.RouteGetToken)
	if _, err := f.vm.SaveWebhook(ctx, "alice", "https://a.example"); err != nil {
		t.Fatalf("SaveWebhook returned error: %v", err)
	}
	// one fetch for alice, one for the reload of bob
	if got := f.srv.Calls(fakeapi.RouteGetToken) - before; got != 2 {
		t.Fatalf("expected 2 token fetches, got %d", got)
	}

	acc, _ := f.srv.Account("alice")
	if acc.WebhookURL == nil || *acc.WebhookURL != "https://a.example" {
		t.Fatalf("webhook not saved: %+v", acc)
	}
}

func TestWebhookRegistry(t *testing.T) {
	f := loaded(t)
	ctx := context.Background()

	id, err := f.vm.AddWebhook(ctx, "alice", "https://extra.example")
	if err != nil {
		t.Fatalf("AddWebhook returned error: %v", err)
	}
	hooks, err := f.vm.ListWebhooks(ctx, "alice")
	if err != nil || len(hooks) != 1 {
		t.Fatalf("ListWebhooks = %+v, %v", hooks, err)
	}
	if err := f.vm.DeleteWebhook(ctx, "alice", id); err != nil {
		t.Fatalf("DeleteWebhook returned error: %v", err)
	}
}

func TestResetAccount(t *testing.T) {
	f := loaded(t)

	n, err := f.vm.ResetAccount(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("ResetAccount = %d, %v", n, err)
	}
	if f.srv.Calls(fakeapi.RouteReset) != 1 {
		t.Fatal("reset endpoint not called")
	}
}

func TestResetWithoutTokenIsRefused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.srv.AddAccount("alice", "tok-a")
	f.srv.Fail(fakeapi.RouteGetToken, http.StatusNotFound)

	if _, err := f.vm.LoadAccounts(ctx); err != nil {
		t.Fatalf("LoadAccounts returned error: %v", err)
	}

	if _, err := f.vm.ResetToken(ctx); !errors.Is(err, dashboard.ErrNoToken) {
		t.Fatalf("ResetToken: expected ErrNoToken, got %v", err)
	}
	if _, err := f.vm.ResetAccount(ctx); !errors.Is(err, dashboard.ErrNoToken) {
		t.Fatalf("ResetAccount: expected ErrNoToken, got %v", err)
	}
	if f.srv.Calls(fakeapi.RouteResetToken) != 0 || f.srv.Calls(fakeapi.RouteReset) != 0 {
		t.Fatal("no request may go out with an empty bearer")
	}
}

func TestLoginAccountReloads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.vm.LoginAccount(ctx, model.AccountLogin{Username: "carol", Password: "pw"})
	if err != nil || n != 1 {
		t.Fatalf("LoginAccount = %d, %v", n, err)
	}
	if f.vm.Current() != "carol" {
		t.Fatalf("unexpected current %q", f.vm.Current())
	}

	if _, err := f.vm.LoginAccount(ctx, model.AccountLogin{Username: "x"}); !errors.Is(err, session.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestImportSession(t *testing.T) {
	f := newFixture(t)

	n, err := f.vm.ImportSession(context.Background(), model.SessionImport{Username: "dave", SessionID: "sid"})
	if err != nil || n != 1 {
		t.Fatalf("ImportSession = %d, %v", n, err)
	}
}

func TestLogoutResetsView(t *testing.T) {
	f := loaded(t)

	if err := f.vm.Logout(context.Background()); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}

	snap := f.vm.Snapshot()
	if snap.View != dashboard.ViewLanding || snap.Token != "" {
		t.Fatalf("expected landing without token, got %+v", snap)
	}
	if f.storage.Get(storage.KeySession) != "" {
		t.Fatal("session must be cleared")
	}
	if acc, _ := f.srv.Account("alice"); !acc.LoggedOut {
		t.Fatal("current account should be logged out remotely")
	}
}

func TestLogoutDropsInFlightLoad(t *testing.T) {
	f := newFixture(t)
	f.srv.AddAccount("alice", "tok-a")

	entered := make(chan struct{})
	release := make(chan struct{})
	f.srv.Hook(fakeapi.RouteAccounts, func() {
		close(entered)
		<-release
	})
	t.Cleanup(func() { close(release) })

	result := make(chan error, 1)
	go func() {
		_, err := f.vm.LoadAccounts(context.Background())
		result <- err
	}()

	<-entered
	if err := f.vm.Logout(context.Background()); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}

	if err := <-result; !errors.Is(err, dashboard.ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
	if snap := f.vm.Snapshot(); snap.View != dashboard.ViewLanding {
		t.Fatalf("stale load must not render the dashboard, got %+v", snap)
	}
}

func TestDisposeStopsUpdates(t *testing.T) {
	f := loaded(t)
	f.vm.Dispose()

	if _, err := f.vm.LoadAccounts(context.Background()); !errors.Is(err, dashboard.ErrStale) {
		t.Fatalf("expected ErrStale after dispose, got %v", err)
	}
	if err := f.vm.SetOption(context.Background(), model.OptionSafeMode, true); !errors.Is(err, dashboard.ErrStale) {
		t.Fatalf("expected ErrStale after dispose, got %v", err)
	}
}

func TestBootstrapInvalidationResetsView(t *testing.T) {
	f := loaded(t)
	_ = f.storage.Set(storage.KeySession, "revoked")
	tr := transport.NewWithClient(f.srv.URL, f.srv.Client())
	store := session.New(auth.NewAuthClient(tr), f.storage, "")
	vm := dashboard.New(accounts.NewAccountsClient(tr, store), store, f.srv.URL)

	ok, err := store.Bootstrap(context.Background())
	if err != nil || ok {
		t.Fatalf("Bootstrap = %v, %v", ok, err)
	}

	n, err := vm.LoadAccounts(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("LoadAccounts = %d, %v", n, err)
	}
	if vm.Snapshot().View != dashboard.ViewLanding {
		t.Fatal("invalidated session should land")
	}
}

func TestErrorMessage(t *testing.T) {
	if got := dashboard.ErrorMessage(dashboard.ErrNoAccount, ""); got != "no account is signed in" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := dashboard.ErrorMessage(&transport.RejectedError{Status: 400}, "could not save"); got != "could not save" {
		t.Fatalf("unexpected message %q", got)
	}
	login := &session.LoginError{Err: &transport.TransportError{Op: "login", Err: errors.New("refused")}}
	if got := dashboard.ErrorMessage(login, "login failed"); got != login.Error() {
		t.Fatalf("login failures should keep their fixed message, got %q", got)
	}
}
