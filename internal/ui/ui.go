// Package ui implements the interactive pixlab TUI using Bubble Tea.
package ui

import (
	"errors"
	"strconv"
	"time"

	"pixlab/internal/api"
	"pixlab/internal/guard"
	"pixlab/internal/session"
	"pixlab/internal/validate"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
)

// screen identifies the view currently shown.
type screen int

const (
	screenLogin screen = iota
	screenRegister
	screenMenu
	screenGallery
	screenAdmin
	screenGenerate
	screenUpscale
)

const (
	genericNetworkError = "cannot reach the server, please try again"
	sessionExpiredError = "session expired, please log in again"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	badgeStyle  = lipgloss.NewStyle().Bold(true).Reverse(true)
	noticeStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Bold(true)
)

// Options wires the model to its collaborators.
type Options struct {
	Client         *api.Client
	Store          *session.Store
	FS             afero.Fs
	OutputDir      string
	VerifyInterval time.Duration
}

// Model holds all UI state.
type Model struct {
	client   *api.Client
	store    *session.Store
	fs       afero.Fs
	outDir   string
	interval time.Duration

	scr    screen
	sess   session.Session
	authed bool
	err    string
	notice string

	verifier *guard.Verifier

	loginUser textinput.Model
	loginPass textinput.Model

	regUser    textinput.Model
	regPass    textinput.Model
	regConfirm textinput.Model

	admin   adminModel
	gallery galleryModel
	gen     generateModel
	up      upscaleModel

	width, height int
}

// New constructs the UI model. A stored session, when present and
// parseable, resumes directly into the authenticated menu; the periodic
// token check decides whether it is still good.
func New(opt Options) Model {
	m := Model{
		client:   opt.Client,
		store:    opt.Store,
		fs:       opt.FS,
		outDir:   opt.OutputDir,
		interval: opt.VerifyInterval,
		scr:      screenLogin,
	}
	if m.fs == nil {
		m.fs = afero.NewOsFs()
	}

	m.loginUser = newInput("username", "Username: ", false)
	m.loginPass = newInput("password", "Password: ", true)
	m.loginUser.Focus()

	m.regUser = newInput("username", "Username: ", false)
	m.regPass = newInput("password", "Password: ", true)
	m.regConfirm = newInput("password again", "Confirm:  ", true)

	m.admin = newAdminModel()
	m.gallery = newGalleryModel()
	m.gen = newGenerateModel()
	m.up = newUpscaleModel()

	if sess, ok := m.store.Load(); ok {
		m.sess = sess
		m.authed = true
		m.scr = screenMenu
		m.client.SetToken(sess.Token)
		m.verifier = guard.NewVerifier(m.client, m.interval)
		m.verifier.Start()
	}
	return m
}

func newInput(placeholder, prompt string, secret bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = prompt
	if secret {
		in.EchoMode = textinput.EchoPassword
	}
	return in
}

// Init returns the initial command for the Bubble Tea runtime.
func (m Model) Init() tea.Cmd {
	if m.verifier != nil {
		return waitExpiry(m.verifier)
	}
	return nil
}

// Messages produced by commands.
type errMsg string
type noticeMsg string
type loggedInMsg api.Identity
type registeredMsg api.Registration
type loggedOutMsg struct{}

// expiredMsg ends the session. src is the verifier that noticed, or nil
// when a 401 on an operation did; a stale verifier's report is ignored.
type expiredMsg struct {
	src *guard.Verifier
}

type usersMsg []api.User

func (m loggedInMsg) asSession() session.Session {
	return session.Session{
		Username: m.Username,
		IsAdmin:  m.IsAdmin,
		Credits:  m.Credits,
		Token:    m.Token,
	}
}
type galleryMsg []galleryEntry
type imageDeletedMsg int64
type generatedMsg []string
type upscaledMsg string

// Update routes messages: data messages first, then per-screen keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.gallery.lst.SetSize(msg.Width-4, msg.Height-10)
		return m, nil

	case errMsg:
		m.err = string(msg)
		m.notice = ""
		m.admin.loading = false
		m.admin.saving = false
		if m.admin.mode == adminConfirmDelete {
			m.admin.mode = adminTable
		}
		m.gallery.loading = false
		m.gallery.confirming = false
		m.gen.busy = false
		m.up.busy = false
		return m, nil

	case noticeMsg:
		m.notice = string(msg)
		m.err = ""
		return m, nil

	case loggedInMsg:
		m.sess = msg.asSession()
		m.authed = true
		m.scr = screenMenu
		m.err = ""
		m.notice = ""
		m.loginPass.SetValue("")
		m.verifier = guard.NewVerifier(m.client, m.interval)
		m.verifier.Start()
		return m, waitExpiry(m.verifier)

	case registeredMsg:
		// The register response carries no token; land on the login
		// screen like the original flow.
		m.scr = screenLogin
		m.err = ""
		m.notice = "account " + msg.Username + " created, please log in"
		m.regPass.SetValue("")
		m.regConfirm.SetValue("")
		m.loginUser.SetValue(msg.Username)
		m.focusLogin(true)
		return m, nil

	case loggedOutMsg:
		return m, nil

	case expiredMsg:
		if !m.authed || (msg.src != nil && msg.src != m.verifier) {
			return m, nil
		}
		return m.toLogin(sessionExpiredError), nil

	case usersMsg:
		m.admin.setUsers([]api.User(msg))
		m.err = ""
		return m, nil

	case galleryMsg:
		m.gallery.setEntries([]galleryEntry(msg))
		m.err = ""
		return m, nil

	case imageDeletedMsg:
		m.gallery.removeByID(int64(msg))
		m.err = ""
		return m, nil

	case generatedMsg:
		m.gen.busy = false
		m.err = ""
		if len(msg) == 0 {
			m.notice = "no images returned"
		} else {
			m.notice = "saved " + msg[0] + andMore(len(msg)-1)
		}
		return m, nil

	case upscaledMsg:
		m.up.busy = false
		m.err = ""
		m.notice = "saved " + string(msg)
		return m, nil
	}

	switch m.scr {
	case screenLogin:
		return m.updateLogin(msg)
	case screenRegister:
		return m.updateRegister(msg)
	case screenMenu:
		return m.updateMenu(msg)
	case screenGallery:
		return m.updateGallery(msg)
	case screenAdmin:
		return m.updateAdmin(msg)
	case screenGenerate:
		return m.updateGenerate(msg)
	case screenUpscale:
		return m.updateUpscale(msg)
	default:
		return m, nil
	}
}

// toLogin drops the session and renders the login screen on the next
// view, without hard-killing anything mid-render.
func (m Model) toLogin(reason string) Model {
	if m.verifier != nil {
		m.verifier.Stop()
		m.verifier = nil
	}
	_ = m.store.Clear()
	m.client.SetToken("")
	m.sess = session.Session{}
	m.authed = false
	m.scr = screenLogin
	m.err = reason
	m.notice = ""
	m.loginPass.SetValue("")
	m.focusLogin(true)
	return m
}

func (m *Model) focusLogin(user bool) {
	m.loginUser.Blur()
	m.loginPass.Blur()
	if user {
		m.loginUser.Focus()
	} else {
		m.loginPass.Focus()
	}
}

// navigate admits or denies a screen change through the route guard.
func (m Model) navigate(target screen) (Model, tea.Cmd) {
	needAdmin := target == screenAdmin
	switch guard.Admit(m.authed, m.sess.IsAdmin, needAdmin) {
	case guard.RedirectLogin:
		return m.toLogin(""), nil
	case guard.RedirectHome:
		m.scr = screenMenu
		return m, nil
	}

	m.scr = target
	m.err = ""
	m.notice = ""
	switch target {
	case screenGallery:
		m.gallery.loading = true
		m.gallery.confirming = false
		return m, fetchGalleryCmd(m.client, m.sess.Username)
	case screenAdmin:
		m.admin.mode = adminTable
		m.admin.loading = true
		return m, fetchUsersCmd(m.client)
	case screenGenerate:
		m.gen.focusFirst()
	case screenUpscale:
		m.up.path.Focus()
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "ctrl+c":
			return m.quit()
		case "tab", "shift+tab":
			m.focusLogin(!m.loginUser.Focused())
			return m, nil
		case "ctrl+r":
			m.scr = screenRegister
			m.err = ""
			m.notice = ""
			m.regUser.Focus()
			m.regPass.Blur()
			m.regConfirm.Blur()
			return m, nil
		case "enter":
			user := m.loginUser.Value()
			pass := m.loginPass.Value()
			if user == "" || pass == "" {
				m.err = "username and password are required"
				return m, nil
			}
			m.err = ""
			return m, loginCmd(m.client, m.store, user, pass)
		}
	}
	var cmd tea.Cmd
	if m.loginUser.Focused() {
		m.loginUser, cmd = m.loginUser.Update(msg)
	} else {
		m.loginPass, cmd = m.loginPass.Update(msg)
	}
	return m, cmd
}

func (m Model) updateRegister(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "ctrl+c":
			return m.quit()
		case "esc":
			m.scr = screenLogin
			m.err = ""
			m.focusLogin(true)
			return m, nil
		case "tab":
			m.cycleRegisterFocus()
			return m, nil
		case "enter":
			if err := validate.Username(m.regUser.Value()); err != nil {
				m.err = err.Error()
				return m, nil
			}
			// The confirmation check never touches the network.
			if err := validate.PasswordPair(m.regPass.Value(), m.regConfirm.Value()); err != nil {
				m.err = err.Error()
				return m, nil
			}
			m.err = ""
			return m, registerCmd(m.client, m.regUser.Value(), m.regPass.Value())
		}
	}
	var cmd tea.Cmd
	switch {
	case m.regUser.Focused():
		m.regUser, cmd = m.regUser.Update(msg)
	case m.regPass.Focused():
		m.regPass, cmd = m.regPass.Update(msg)
	default:
		m.regConfirm, cmd = m.regConfirm.Update(msg)
	}
	return m, cmd
}

func (m *Model) cycleRegisterFocus() {
	switch {
	case m.regUser.Focused():
		m.regUser.Blur()
		m.regPass.Focus()
	case m.regPass.Focused():
		m.regPass.Blur()
		m.regConfirm.Focus()
	default:
		m.regConfirm.Blur()
		m.regUser.Focus()
	}
}

func (m Model) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "q", "ctrl+c":
			return m.quit()
		case "g":
			mm, cmd := m.navigate(screenGallery)
			return mm, cmd
		case "i":
			mm, cmd := m.navigate(screenGenerate)
			return mm, cmd
		case "u":
			mm, cmd := m.navigate(screenUpscale)
			return mm, cmd
		case "a":
			mm, cmd := m.navigate(screenAdmin)
			return mm, cmd
		case "x":
			// Logout always clears locally, whatever the server says.
			cmd := logoutCmd(m.client, m.sess.Token)
			mm := m.toLogin("")
			mm.notice = "logged out"
			return mm, cmd
		}
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.verifier != nil {
		m.verifier.Stop()
	}
	return m, tea.Quit
}

// Commands.

func loginCmd(c *api.Client, store *session.Store, username, password string) tea.Cmd {
	return func() tea.Msg {
		id, err := c.Login(username, password)
		if err != nil {
			return errMsg(friendly(err))
		}
		c.SetToken(id.Token)
		if err := store.Save(session.Session{
			Username: id.Username,
			IsAdmin:  id.IsAdmin,
			Credits:  id.Credits,
			Token:    id.Token,
		}); err != nil {
			return errMsg(err.Error())
		}
		return loggedInMsg(id)
	}
}

func registerCmd(c *api.Client, username, password string) tea.Cmd {
	return func() tea.Msg {
		reg, err := c.Register(username, password)
		if err != nil {
			return errMsg(friendly(err))
		}
		return registeredMsg(reg)
	}
}

func logoutCmd(c *api.Client, token string) tea.Cmd {
	return func() tea.Msg {
		// Best effort; the local session is already gone. The token is
		// carried in so the server can still invalidate it.
		c.SetToken(token)
		_ = c.Logout()
		c.SetToken("")
		return loggedOutMsg{}
	}
}

func waitExpiry(v *guard.Verifier) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-v.Expired():
			return expiredMsg{src: v}
		case <-v.Finished():
			select {
			case <-v.Expired():
				return expiredMsg{src: v}
			default:
				return nil
			}
		}
	}
}

// failure maps an authenticated operation's error to a message. A 401
// means the token died between periodic checks: it takes the same path
// as an expiry, clearing the session and landing on the login screen.
// Everything else stays an inline error on the current screen.
func failure(err error) tea.Msg {
	if errors.Is(err, api.ErrUnauthorized) {
		return expiredMsg{}
	}
	return errMsg(friendly(err))
}

// friendly maps an error to the message the UI shows: the API's own
// message for rejections, a fixed line for transport failures.
func friendly(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, api.ErrUnreachable) {
		return genericNetworkError
	}
	return err.Error()
}

func andMore(n int) string {
	if n <= 0 {
		return ""
	}
	if n == 1 {
		return " and 1 more"
	}
	return " and " + strconv.Itoa(n) + " more"
}
