package ui

import (
	"fmt"
	"strconv"
	"strings"

	"pixlab/internal/api"
	"pixlab/internal/validate"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// adminMode is the sub-state of the admin user panel.
type adminMode int

const (
	adminTable adminMode = iota
	adminCreate
	adminEdit
	adminConfirmDelete
)

// adminModel manages the user collection end-to-end. Mutations run the
// API verb and the full list refetch inside one command, so the panel
// leaves its saving state only after the refetch has landed.
type adminModel struct {
	mode    adminMode
	loading bool
	saving  bool

	users  []api.User
	cursor int
	target string // username under edit or delete

	formUser    textinput.Model
	formPass    textinput.Model
	formCredits textinput.Model
	focus       int
}

func newAdminModel() adminModel {
	a := adminModel{}
	a.formUser = newInput("username", "Username: ", false)
	a.formPass = newInput("password", "Password: ", true)
	a.formCredits = newInput("credits", "Credits:  ", false)
	return a
}

func (a *adminModel) setUsers(users []api.User) {
	a.users = users
	a.loading = false
	a.saving = false
	a.mode = adminTable
	if a.cursor >= len(users) {
		a.cursor = len(users) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *adminModel) selected() (api.User, bool) {
	if a.cursor < 0 || a.cursor >= len(a.users) {
		return api.User{}, false
	}
	return a.users[a.cursor], true
}

func (a *adminModel) openForm(mode adminMode, seed api.User) {
	a.mode = mode
	a.target = seed.Username
	a.formUser.SetValue(seed.Username)
	a.formPass.SetValue("")
	a.formCredits.SetValue(strconv.Itoa(seed.Credits))
	a.focus = 0
	a.formUser.Blur()
	a.formPass.Blur()
	a.formCredits.Blur()
	if mode == adminEdit {
		// The identifying key is immutable once created.
		a.focus = 1
		a.formPass.Focus()
	} else {
		a.formCredits.SetValue("0")
		a.formUser.Focus()
	}
}

func (a *adminModel) cycleFocus() {
	inputs := []*textinput.Model{&a.formUser, &a.formPass, &a.formCredits}
	first := 0
	if a.mode == adminEdit {
		first = 1
	}
	inputs[a.focus].Blur()
	a.focus++
	if a.focus >= len(inputs) {
		a.focus = first
	}
	if a.focus < first {
		a.focus = first
	}
	inputs[a.focus].Focus()
}

func (m Model) updateAdmin(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.admin.mode {
	case adminTable:
		return m.updateAdminTable(msg)
	case adminCreate, adminEdit:
		return m.updateAdminForm(msg)
	case adminConfirmDelete:
		return m.updateAdminConfirm(msg)
	}
	return m, nil
}

func (m Model) updateAdminTable(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "ctrl+c":
		return m.quit()
	case "esc":
		m.scr = screenMenu
		m.err = ""
		return m, nil
	case "up", "k":
		if m.admin.cursor > 0 {
			m.admin.cursor--
		}
		return m, nil
	case "down", "j":
		if m.admin.cursor < len(m.admin.users)-1 {
			m.admin.cursor++
		}
		return m, nil
	case "r":
		m.admin.loading = true
		return m, fetchUsersCmd(m.client)
	case "n":
		m.err = ""
		m.admin.openForm(adminCreate, api.User{})
		return m, nil
	case "e":
		u, ok := m.admin.selected()
		if !ok {
			return m, nil
		}
		m.err = ""
		m.admin.openForm(adminEdit, u)
		return m, nil
	case "d":
		u, ok := m.admin.selected()
		if !ok || u.IsAdmin {
			// The delete control is inert on admin rows. The server
			// enforces this too; the UI just never asks.
			return m, nil
		}
		m.err = ""
		m.admin.mode = adminConfirmDelete
		m.admin.target = u.Username
		return m, nil
	}
	return m, nil
}

func (m Model) updateAdminForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.admin.saving {
		return m, nil
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "ctrl+c":
			return m.quit()
		case "esc":
			m.admin.mode = adminTable
			m.err = ""
			return m, nil
		case "tab":
			m.admin.cycleFocus()
			return m, nil
		case "enter":
			return m.submitAdminForm()
		}
	}
	var cmd tea.Cmd
	switch m.admin.focus {
	case 0:
		m.admin.formUser, cmd = m.admin.formUser.Update(msg)
	case 1:
		m.admin.formPass, cmd = m.admin.formPass.Update(msg)
	default:
		m.admin.formCredits, cmd = m.admin.formCredits.Update(msg)
	}
	return m, cmd
}

func (m Model) submitAdminForm() (tea.Model, tea.Cmd) {
	credits, err := strconv.Atoi(strings.TrimSpace(m.admin.formCredits.Value()))
	if err != nil {
		m.err = "credits must be a number"
		return m, nil
	}
	if err := validate.Credits(credits); err != nil {
		m.err = err.Error()
		return m, nil
	}

	if m.admin.mode == adminCreate {
		username := m.admin.formUser.Value()
		if err := validate.Username(username); err != nil {
			m.err = err.Error()
			return m, nil
		}
		if m.admin.formPass.Value() == "" {
			m.err = "password is required"
			return m, nil
		}
		m.err = ""
		m.admin.saving = true
		return m, createUserCmd(m.client, username, m.admin.formPass.Value(), credits)
	}

	// Edit: a blank password means keep the current one.
	m.err = ""
	m.admin.saving = true
	return m, updateUserCmd(m.client, m.admin.target, credits, m.admin.formPass.Value())
}

func (m Model) updateAdminConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch k.String() {
	case "y":
		m.err = ""
		m.admin.saving = true
		return m, deleteUserCmd(m.client, m.admin.target)
	case "n", "esc":
		m.admin.mode = adminTable
		return m, nil
	}
	return m, nil
}

func (m Model) viewAdmin() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("User Management"))
	b.WriteString("\n\n")

	switch {
	case m.admin.loading:
		b.WriteString("loading users...\n")
		return b.String()
	case m.admin.mode == adminCreate || m.admin.mode == adminEdit:
		if m.admin.mode == adminCreate {
			b.WriteString("Create user\n\n")
			b.WriteString(m.admin.formUser.View() + "\n")
		} else {
			b.WriteString("Edit user: " + m.admin.target + "\n\n")
		}
		b.WriteString(m.admin.formPass.View())
		if m.admin.mode == adminEdit {
			b.WriteString("  (blank = keep current)")
		}
		b.WriteString("\n")
		b.WriteString(m.admin.formCredits.View() + "\n\n")
		if m.admin.saving {
			b.WriteString("saving...\n")
		} else {
			b.WriteString("enter=save  tab=next field  esc=back\n")
		}
		return b.String()
	case m.admin.mode == adminConfirmDelete:
		b.WriteString("Delete user " + m.admin.target + "? y=yes n=no\n")
		return b.String()
	}

	if len(m.admin.users) == 0 {
		b.WriteString("no users\n")
		return b.String()
	}
	for i, u := range m.admin.users {
		cursor := "  "
		if i == m.admin.cursor {
			cursor = "> "
		}
		role := "[User] "
		if u.IsAdmin {
			role = "[Admin]"
		}
		action := "[d]elete"
		if u.IsAdmin {
			action = "delete n/a"
		}
		fmt.Fprintf(&b, "%s%-20s %s %6d  %s\n", cursor, u.Username, role, u.Credits, action)
	}
	b.WriteString("\nn=new e=edit d=delete r=refresh esc=menu\n")
	return b.String()
}

// Commands. Each mutation refetches the collection before reporting
// back, so a second mutation cannot race the first one's refetch.

func fetchUsersCmd(c *api.Client) tea.Cmd {
	return func() tea.Msg {
		users, err := c.ListUsers()
		if err != nil {
			return failure(err)
		}
		return usersMsg(users)
	}
}

func createUserCmd(c *api.Client, username, password string, credits int) tea.Cmd {
	return func() tea.Msg {
		if err := c.CreateUser(username, password, credits); err != nil {
			return failure(err)
		}
		return refetchUsers(c)
	}
}

func updateUserCmd(c *api.Client, username string, credits int, password string) tea.Cmd {
	return func() tea.Msg {
		if err := c.UpdateUser(username, credits, password); err != nil {
			return failure(err)
		}
		return refetchUsers(c)
	}
}

func deleteUserCmd(c *api.Client, username string) tea.Cmd {
	return func() tea.Msg {
		if err := c.DeleteUser(username); err != nil {
			return failure(err)
		}
		return refetchUsers(c)
	}
}

func refetchUsers(c *api.Client) tea.Msg {
	users, err := c.ListUsers()
	if err != nil {
		return failure(err)
	}
	return usersMsg(users)
}
