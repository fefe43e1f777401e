package ui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spoolr/internal/models"
	"github.com/desertthunder/spoolr/internal/repositories"
	"github.com/desertthunder/spoolr/internal/services"
	"github.com/desertthunder/spoolr/internal/shared"
	"github.com/desertthunder/spoolr/internal/tasks"
	th "github.com/desertthunder/spoolr/internal/testing"
)

func setupModel(t *testing.T, attempts int) (*Model, *repositories.Store, string) {
	t.Helper()

	dir := t.TempDir()
	catalog := th.FixtureCatalog()
	catalog.Users = append(catalog.Users, models.NewUser("alice", "pw1", models.RoleUser))
	catalogPath := th.WriteJSON(t, dir, "data.json", catalog)

	store := repositories.NewStore(catalogPath, filepath.Join(dir, "stats.json"), nil)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}

	userRepo := repositories.NewUserRepository(store)
	m := NewModel(Deps{
		Store:  store,
		Engine: tasks.NewUsageEngine(store, nil),
		Auth:   services.NewAuthService(userRepo, nil),
		Users:  services.NewUserService(userRepo, nil),
	}, Options{TopN: 5, LoginAttemptsPerMinute: attempts})

	return m, store, dir
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press sends a key and returns the resulting command.
func press(m *Model, k string) tea.Cmd {
	_, cmd := m.Update(keyMsg(k))
	return cmd
}

// run executes cmd, which must produce a [Msg], and feeds the result back into m.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(Msg)
	if !ok {
		t.Fatal("expected a ui.Msg from command")
	}
	m.Update(msg)
}

// login fills the form and submits it.
func login(t *testing.T, m *Model, username, password string) {
	t.Helper()
	press(m, username)
	press(m, "enter")
	press(m, password)
	run(t, m, press(m, "enter"))
}

func menuTitles(m *Model) []string {
	var titles []string
	for _, item := range m.menu.Items() {
		titles = append(titles, item.(menuItem).title)
	}
	return titles
}

func TestModel_Login(t *testing.T) {
	t.Run("admin sees user management", func(t *testing.T) {
		m, _, _ := setupModel(t, 5)
		login(t, m, "ROOT", "secret")

		if m.view != MenuView {
			t.Fatalf("expected MenuView, got %v", m.view)
		}
		if m.User() == nil || !m.User().IsAdmin() {
			t.Fatal("expected admin session")
		}
		titles := menuTitles(m)
		if titles[len(titles)-1] != "Manage users" {
			t.Errorf("admin menu missing user management: %v", titles)
		}
	})

	t.Run("regular user menu", func(t *testing.T) {
		m, _, _ := setupModel(t, 5)
		login(t, m, "alice", "pw1")

		if m.view != MenuView {
			t.Fatalf("expected MenuView, got %v", m.view)
		}
		for _, title := range menuTitles(m) {
			if title == "Manage users" || title == "Statistics" {
				t.Errorf("regular users should not see %s", title)
			}
		}
	})

	t.Run("wrong password stays on login", func(t *testing.T) {
		m, _, _ := setupModel(t, 5)
		login(t, m, "alice", "nope")

		if m.view != LoginView {
			t.Errorf("expected LoginView, got %v", m.view)
		}
		if !errors.Is(m.err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", m.err)
		}
		if m.inputs[passwordField].Value() != "" {
			t.Error("password should be cleared after a failure")
		}
	})

	t.Run("password is masked", func(t *testing.T) {
		m, _, _ := setupModel(t, 5)
		press(m, "root")
		press(m, "tab")
		press(m, "hunter2")

		if strings.Contains(m.View(), "hunter2") {
			t.Error("password rendered in clear text")
		}
		if m.inputs[passwordField].Value() != "hunter2" {
			t.Error("password input should hold the typed value")
		}
	})

	t.Run("blank username is refused", func(t *testing.T) {
		m, _, _ := setupModel(t, 5)
		press(m, "enter")

		if cmd := press(m, "enter"); cmd != nil {
			t.Error("blank username should not dispatch a command")
		}
		if !errors.Is(m.err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", m.err)
		}
	})

	t.Run("failed logins are rate limited", func(t *testing.T) {
		m, _, _ := setupModel(t, 2)

		login(t, m, "alice", "bad")
		press(m, "bad")
		run(t, m, press(m, "enter"))

		press(m, "correct-or-not")
		if cmd := press(m, "enter"); cmd != nil {
			t.Fatal("third attempt within a minute should be refused")
		}
		if !errors.Is(m.err, shared.ErrRateLimited) {
			t.Errorf("expected ErrRateLimited, got %v", m.err)
		}
	})
}

func TestModel_Register(t *testing.T) {
	m, store, _ := setupModel(t, 5)

	press(m, "ctrl+r")
	if !m.registering {
		t.Fatal("ctrl+r should switch to registration")
	}
	if !strings.Contains(m.View(), "Register a new account") {
		t.Error("view should show the registration heading")
	}

	login(t, m, "bob", "pw2")
	if m.err != nil {
		t.Fatalf("register failed: %v", m.err)
	}
	if m.registering || m.view != LoginView {
		t.Error("registration should return to sign in")
	}

	reloaded := repositories.NewStore(store.CatalogPath(), store.StatsPath(), nil)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if bob := reloaded.Catalog().FindUser("bob"); bob == nil || bob.IsAdmin() {
		t.Error("bob should be persisted as a regular user")
	}

	press(m, "pw2")
	run(t, m, press(m, "enter"))
	if m.view != MenuView || m.User().Username != "bob" {
		t.Errorf("bob should be signed in, view %v", m.view)
	}

	m.view = LoginView
	press(m, "ctrl+r")
	m.inputs[usernameField].SetValue("BOB")
	m.focusField(passwordField)
	press(m, "x")
	run(t, m, press(m, "enter"))
	if !errors.Is(m.err, shared.ErrDuplicateUsername) {
		t.Errorf("expected ErrDuplicateUsername, got %v", m.err)
	}
}

func TestModel_Menu(t *testing.T) {
	m, _, _ := setupModel(t, 5)
	login(t, m, "root", "secret")

	press(m, "1")
	if m.view != FilamentView || len(m.entries.Items()) != 1 {
		t.Fatalf("expected filament list with 1 spool, view %v", m.view)
	}
	if item := m.entries.Items()[0].(filamentItem); item.Title() != "PLA | red | Ø 1.75mm" {
		t.Errorf("unexpected filament title %q", item.Title())
	}

	press(m, "esc")
	if m.view != MenuView {
		t.Fatalf("esc should return to the menu, got %v", m.view)
	}

	press(m, "2")
	if m.view != PrinterView || m.entries.Items()[0].(printerItem).Title() != "Ender3" {
		t.Errorf("expected printer list, view %v", m.view)
	}
	press(m, "esc")

	press(m, "4")
	if m.view != StatsView || !strings.Contains(m.View(), "Most used printers") {
		t.Errorf("expected statistics view, got %v", m.view)
	}
	press(m, "esc")

	press(m, "esc")
	if m.view != LoginView || m.User() != nil {
		t.Error("esc in the menu should sign out")
	}
}

func TestModel_Usage(t *testing.T) {
	m, store, dir := setupModel(t, 5)
	login(t, m, "alice", "pw1")

	press(m, "3")
	if m.view != UsageView {
		t.Fatalf("expected UsageView, got %v", m.view)
	}

	if cmd := press(m, "enter"); cmd != nil {
		t.Error("empty path should not dispatch")
	}
	if !errors.Is(m.err, shared.ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument, got %v", m.err)
	}

	path := th.WriteFile(t, dir, "job.txt", "type=PLA\ncolor=red\ndiameter=1.75\namountgrams=120\nprinter=Ender3\n")
	press(m, path)
	run(t, m, press(m, "enter"))

	if m.err != nil {
		t.Fatalf("usage failed: %v", m.err)
	}
	if m.usage == nil || m.usage.Filament.RemainingGrams != 380 {
		t.Fatalf("unexpected usage result %+v", m.usage)
	}
	if store.Statistics().PrinterCount(th.FixturePrinterID) != 1 {
		t.Error("printer counter should be 1")
	}
	if !strings.Contains(m.View(), "Usage applied") {
		t.Error("view should confirm the applied usage")
	}

	bad := th.WriteFile(t, dir, "bad.txt", "type=PLA\ncolor=red\ndiameter=1.75\namountgrams=120\nprinter=Unknown\n")
	press(m, bad)
	run(t, m, press(m, "enter"))
	if !errors.Is(m.err, shared.ErrPrinterNotFound) {
		t.Errorf("expected ErrPrinterNotFound, got %v", m.err)
	}
	if store.Catalog().Filaments[0].RemainingGrams != 380 {
		t.Error("rejected usage should not change stock")
	}
}

func TestModel_UsageInFlight(t *testing.T) {
	m, store, dir := setupModel(t, 5)
	login(t, m, "alice", "pw1")
	press(m, "3")

	path := th.WriteFile(t, dir, "job.txt", "type=PLA\ncolor=red\ndiameter=1.75\namountgrams=10\nprinter=Ender3\n")
	press(m, path)

	first := press(m, "enter")
	if first == nil {
		t.Fatal("expected a command for the first submission")
	}
	for range 5 {
		if cmd := press(m, "enter"); cmd != nil {
			t.Fatal("submissions while one is running should be ignored")
		}
	}
	if !strings.Contains(m.View(), "Applying usage") {
		t.Error("view should show the pending submission")
	}

	run(t, m, first)
	if m.busy {
		t.Error("result should clear the pending state")
	}
	if store.Statistics().PrinterCount(th.FixturePrinterID) != 1 {
		t.Errorf("expected exactly one applied usage, got %d", store.Statistics().PrinterCount(th.FixturePrinterID))
	}
	if store.Catalog().Filaments[0].RemainingGrams != 490 {
		t.Errorf("expected 490g remaining, got %g", store.Catalog().Filaments[0].RemainingGrams)
	}

	press(m, path)
	if cmd := press(m, "enter"); cmd == nil {
		t.Error("a new submission should be accepted once the previous one finished")
	}
}

func TestModel_Users(t *testing.T) {
	m, store, _ := setupModel(t, 5)
	login(t, m, "root", "secret")

	press(m, "5")
	if m.view != UserView || len(m.entries.Items()) != 2 {
		t.Fatalf("expected user list with 2 users, view %v", m.view)
	}

	press(m, "j")
	press(m, "d")
	if !m.confirmDelete {
		t.Fatal("d should ask for confirmation")
	}
	press(m, "n")
	if m.confirmDelete || len(store.Catalog().Users) != 2 {
		t.Fatal("n should cancel the deletion")
	}

	press(m, "d")
	cmd := press(m, "y")
	if m.confirmDelete {
		t.Error("confirmation should close once the deletion is dispatched")
	}
	if again := press(m, "y"); again != nil {
		if _, ok := again().(Msg); ok {
			t.Error("a second confirmation should not dispatch another deletion")
		}
	}
	run(t, m, cmd)
	if m.err != nil {
		t.Fatalf("delete failed: %v", m.err)
	}
	if store.Catalog().FindUser("alice") != nil {
		t.Error("alice should be deleted")
	}
	if len(m.entries.Items()) != 1 {
		t.Error("user list should refresh after deletion")
	}
}
