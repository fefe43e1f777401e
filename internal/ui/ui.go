package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/spoolr/internal/formatter"
	"github.com/desertthunder/spoolr/internal/models"
	"github.com/desertthunder/spoolr/internal/repositories"
	"github.com/desertthunder/spoolr/internal/services"
	"github.com/desertthunder/spoolr/internal/shared"
	"github.com/desertthunder/spoolr/internal/tasks"
	"golang.org/x/time/rate"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	MenuView
	FilamentView
	PrinterView
	UsageView
	StatsView
	UserView
)

const (
	usernameField = iota
	passwordField
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Deps bundles the core components the TUI drives.
type Deps struct {
	Store  *repositories.Store
	Engine *tasks.UsageEngine
	Auth   *services.AuthService
	Users  *services.UserService
	Logger *log.Logger
}

// Options tunes the TUI.
type Options struct {
	TopN                   int // leaderboard length
	LoginAttemptsPerMinute int // failed logins allowed per minute; non-positive disables pacing
}

// Model represents the TUI application state.
type Model struct {
	view      ViewState
	store     *repositories.Store
	engine    *tasks.UsageEngine
	auth      *services.AuthService
	users     *services.UserService
	filaments *repositories.FilamentRepository
	printers  *repositories.PrinterRepository
	limiter   *rate.Limiter
	logger    *log.Logger
	topN      int
	width     int
	height    int

	user        *models.User
	registering bool
	inputs      []textinput.Model
	focus       int
	pathInput   textinput.Model

	menu          list.Model
	entries       list.Model
	confirmDelete bool

	usage  *tasks.UsageResult
	busy   bool
	status string
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(deps Deps, opts Options) *Model {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var limiter *rate.Limiter
	if n := opts.LoginAttemptsPerMinute; n > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
	}

	username := textinput.New()
	username.Placeholder = "username"
	username.Prompt = "Username: "
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password: "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	path := textinput.New()
	path.Placeholder = "path/to/job.txt"
	path.Prompt = "Usage file: "

	m := &Model{
		view:      LoginView,
		store:     deps.Store,
		engine:    deps.Engine,
		auth:      deps.Auth,
		users:     deps.Users,
		filaments: repositories.NewFilamentRepository(deps.Store),
		printers:  repositories.NewPrinterRepository(deps.Store),
		limiter:   limiter,
		logger:    logger,
		topN:      opts.TopN,
		width:     defaultWidth,
		height:    defaultHeight,
		inputs:    []textinput.Model{username, password},
		pathInput: path,
		help:      help.New(),
		keys:      newKeyMap(),
	}
	m.menu = m.newList(nil, "spoolr")
	m.entries = m.newList(nil, "")
	return m
}

// Init starts the cursor blinking in the login form.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// View returns the active view.
func (m *Model) View() string {
	switch m.view {
	case LoginView:
		return m.renderLogin()
	case MenuView:
		return m.renderMenu()
	case FilamentView, PrinterView, UserView:
		return m.renderEntries()
	case UsageView:
		return m.renderUsage()
	case StatsView:
		return m.renderStats()
	default:
		return ""
	}
}

// User is the signed-in account, or nil.
func (m *Model) User() *models.User { return m.user }

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.SetSize(m.listSize())
		m.entries.SetSize(m.listSize())
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case MenuView:
			return m.handleMenuKeys(msg)
		case FilamentView, PrinterView, UserView:
			return m.handleEntryKeys(msg)
		case UsageView:
			return m.handleUsageKeys(msg)
		case StatsView:
			return m.handleStatsKeys(msg)
		}

	case Msg:
		return m.handleResult(msg)
	}

	return m, nil
}

func (m *Model) listSize() (int, int) {
	return m.width - 4, m.height - 6
}

func (m *Model) newList(items []list.Item, title string) list.Model {
	w, h := m.listSize()
	l := list.New(items, list.NewDefaultDelegate(), w, h)
	l.Title = title
	l.SetShowHelp(false)
	return l
}

func (m *Model) handleResult(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgLoggedIn:
		res := msg.data.(userResult)
		if res.err != nil {
			if m.limiter != nil {
				m.limiter.Allow()
			}
			m.err = res.err
			m.inputs[passwordField].Reset()
			return m, nil
		}
		return m, m.enterMenu(res.user)

	case MsgRegistered:
		res := msg.data.(userResult)
		m.inputs[passwordField].Reset()
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		m.err = nil
		m.registering = false
		m.status = fmt.Sprintf("Registered %s. Sign in to continue.", res.user.Username)
		return m, m.focusField(passwordField)

	case MsgUsageApplied:
		res := msg.data.(usageResult)
		m.busy = false
		m.usage = res.result
		m.err = res.err
		if res.err == nil {
			m.pathInput.Reset()
		}
		return m, nil

	case MsgUserDeleted:
		res := msg.data.(userResult)
		m.confirmDelete = false
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Deleted %s", res.user.Username)
		if strings.EqualFold(res.user.Username, m.user.Username) {
			return m, m.logout()
		}
		m.openEntries(UserView)
		return m, nil
	}
	return m, nil
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.forceQ), key.Matches(msg, m.keys.back):
		return m, tea.Quit
	case key.Matches(msg, m.keys.register):
		m.registering = !m.registering
		m.err = nil
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.next):
		return m, m.focusField((m.focus + 1) % len(m.inputs))
	case key.Matches(msg, m.keys.prev):
		return m, m.focusField((m.focus + len(m.inputs) - 1) % len(m.inputs))
	case key.Matches(msg, m.keys.enter):
		if m.focus == usernameField {
			return m, m.focusField(passwordField)
		}
		return m, m.submitCredentials()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) focusField(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

// submitCredentials returns the login or register command, or nil when the form is refused.
func (m *Model) submitCredentials() tea.Cmd {
	username := strings.TrimSpace(m.inputs[usernameField].Value())
	password := m.inputs[passwordField].Value()
	m.status = ""

	if username == "" {
		m.err = fmt.Errorf("%w: username is required", shared.ErrInvalidInput)
		return nil
	}

	if m.registering {
		return func() tea.Msg {
			user, err := m.auth.Register(username, password)
			if err == nil {
				err = m.store.SaveCatalog()
			}
			return registeredMsg(user, err)
		}
	}

	if m.limiter != nil && m.limiter.Tokens() < 1 {
		m.err = fmt.Errorf("%w: try again in a minute", shared.ErrRateLimited)
		m.logger.Warn("login refused", "username", username)
		return nil
	}

	return func() tea.Msg {
		user, err := m.auth.Login(username, password)
		return loggedInMsg(user, err)
	}
}

func (m *Model) enterMenu(user *models.User) tea.Cmd {
	m.user = user
	m.err = nil
	m.status = fmt.Sprintf("Signed in as %s", user)
	m.inputs[passwordField].Reset()

	items := []list.Item{
		menuItem{title: "Filaments", desc: "Spools and remaining stock", view: FilamentView},
		menuItem{title: "Printers", desc: "Registered printers", view: PrinterView},
		menuItem{title: "Submit usage", desc: "Apply a usage file to the inventory", view: UsageView},
	}
	if user.IsAdmin() {
		items = append(items,
			menuItem{title: "Statistics", desc: "Most used filaments and printers", view: StatsView},
			menuItem{title: "Manage users", desc: "List and delete accounts", view: UserView},
		)
	}

	m.menu = m.newList(items, "spoolr")
	m.view = MenuView
	m.logger.Info("tui login", "username", user.Username, "role", user.Role)
	return nil
}

func (m *Model) logout() tea.Cmd {
	m.user = nil
	m.view = LoginView
	m.confirmDelete = false
	return m.focusField(usernameField)
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.menu.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.status = ""
		return m, m.logout()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.menu.SelectedItem().(menuItem); ok {
			return m, m.open(item.view)
		}
		return m, nil
	}

	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		if i := int(s[0] - '1'); i < len(m.menu.Items()) {
			return m, m.open(m.menu.Items()[i].(menuItem).view)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m *Model) open(view ViewState) tea.Cmd {
	m.err = nil
	m.status = ""
	switch view {
	case UsageView:
		m.view = UsageView
		m.usage = nil
		m.pathInput.Reset()
		return m.pathInput.Focus()
	case UserView:
		if !m.user.IsAdmin() {
			m.err = shared.ErrPermissionDenied
			return nil
		}
	}
	m.openEntries(view)
	return nil
}

func (m *Model) openEntries(view ViewState) {
	m.view = view
	stats := m.store.Statistics()

	var items []list.Item
	var title string
	switch view {
	case FilamentView:
		title = "Filaments"
		for _, f := range m.filaments.List() {
			items = append(items, filamentItem{filament: f, uses: stats.FilamentCount(f.ID)})
		}
	case PrinterView:
		title = "Printers"
		for _, p := range m.printers.List() {
			items = append(items, printerItem{printer: p, uses: stats.PrinterCount(p.ID)})
		}
	case UserView:
		title = "Users"
		for _, u := range m.users.ListUsers() {
			items = append(items, userItem{user: u})
		}
	case StatsView:
		return
	}
	m.entries = m.newList(items, title)
}

func (m *Model) handleEntryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.entries.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.entries, cmd = m.entries.Update(msg)
		return m, cmd
	}

	if m.confirmDelete {
		switch {
		case key.Matches(msg, m.keys.yes):
			m.confirmDelete = false
			if item, ok := m.entries.SelectedItem().(userItem); ok {
				return m, m.deleteUser(item.user.Username)
			}
		case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back):
			m.confirmDelete = false
		case key.Matches(msg, m.keys.forceQ):
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = MenuView
		m.err = nil
		return m, nil
	case m.view == UserView && key.Matches(msg, m.keys.delete):
		if m.entries.SelectedItem() != nil {
			m.confirmDelete = true
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.entries, cmd = m.entries.Update(msg)
	return m, cmd
}

func (m *Model) deleteUser(username string) tea.Cmd {
	return func() tea.Msg {
		return userDeletedMsg(username, m.users.DeleteUser(username))
	}
}

func (m *Model) handleUsageKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.forceQ):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = MenuView
		m.err = nil
		m.pathInput.Blur()
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if m.busy {
			return m, nil
		}
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			m.err = fmt.Errorf("%w: usage file path is required", shared.ErrMissingArgument)
			return m, nil
		}
		m.busy = true
		m.err = nil
		return m, func() tea.Msg {
			result, err := m.engine.ApplyFile(path)
			return usageAppliedMsg(result, err)
		}
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m *Model) handleStatsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = MenuView
	}
	return m, nil
}

func (m *Model) renderFeedback() string {
	switch {
	case m.err != nil:
		return "\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	case m.status != "":
		return "\n" + styles.ok.Render(m.status)
	default:
		return ""
	}
}

func (m *Model) renderLogin() string {
	heading := "Sign in"
	if m.registering {
		heading = "Register a new account"
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("spoolr · " + heading))
	b.WriteString("\n")
	for i, input := range m.inputs {
		if i == m.focus {
			b.WriteString(styles.focused.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	b.WriteString(m.renderFeedback())

	helpKeys := []key.Binding{m.keys.next, m.keys.enter, m.keys.register, m.keys.forceQ}
	return fmt.Sprintf("%s\n\n%s", b.String(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderMenu() string {
	helpKeys := []key.Binding{m.keys.enter, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "sign out")), m.keys.quit}
	return fmt.Sprintf("%s%s\n\n%s", m.menu.View(), m.renderFeedback(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderEntries() string {
	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.back, m.keys.quit}
	if m.view == UserView {
		helpKeys = append([]key.Binding{m.keys.delete}, helpKeys...)
	}

	var prompt string
	if m.confirmDelete {
		if item, ok := m.entries.SelectedItem().(userItem); ok {
			prompt = "\n" + styles.warn.Render(fmt.Sprintf("Delete %s? (y/n)", item.user.Username))
		}
	}

	return fmt.Sprintf("%s%s%s\n\n%s", m.entries.View(), prompt, m.renderFeedback(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderUsage() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Submit usage"))
	b.WriteString("\n")
	b.WriteString(m.pathInput.View())
	b.WriteString("\n")

	if m.busy {
		b.WriteString("\nApplying usage...\n")
	} else if r := m.usage; r != nil {
		b.WriteString("\n")
		b.WriteString(styles.ok.Render("✓ Usage applied"))
		fmt.Fprintf(&b, "\nFilament: %s\nPrinter: %s\nRemaining: %s (was %gg, used %gg)\nUses: filament %d, printer %d\n",
			r.Filament.Label(),
			r.Printer.Name,
			StockStyle(r.Filament.RemainingGrams).Render(fmt.Sprintf("%gg", r.Filament.RemainingGrams)),
			r.PreviousGrams,
			r.Job.AmountGrams,
			r.FilamentUses,
			r.PrinterUses,
		)
	}
	b.WriteString(m.renderFeedback())

	helpKeys := []key.Binding{key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")), m.keys.back, m.keys.forceQ}
	return fmt.Sprintf("%s\n\n%s", b.String(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderStats() string {
	catalog, stats := m.store.Catalog(), m.store.Statistics()

	var b strings.Builder
	b.WriteString(styles.title.Render("Statistics"))
	b.WriteString("\n")
	b.WriteString(formatter.FormatLeaderboard("Most used filaments", tasks.TopFilaments(catalog, stats, m.topN)))
	b.WriteString("\n")
	b.WriteString(formatter.FormatLeaderboard("Most used printers", tasks.TopPrinters(catalog, stats, m.topN)))

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s", b.String(), m.help.ShortHelpView(helpKeys))
}
