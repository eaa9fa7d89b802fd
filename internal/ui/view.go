package ui

import (
	"strconv"
	"strings"
)

// View renders the current screen as a string.
func (m Model) View() string {
	var b strings.Builder
	if m.authed {
		b.WriteString(m.renderNav())
		b.WriteString("\n\n")
	}

	switch m.scr {
	case screenLogin:
		b.WriteString(titleStyle.Render("pixlab — log in"))
		b.WriteString("\n\n")
		b.WriteString(m.loginUser.View() + "\n")
		b.WriteString(m.loginPass.View() + "\n\n")
		b.WriteString("enter=log in  tab=switch field  ctrl+r=register  ctrl+c=quit\n")
	case screenRegister:
		b.WriteString(titleStyle.Render("pixlab — register"))
		b.WriteString("\n\n")
		b.WriteString(m.regUser.View() + "\n")
		b.WriteString(m.regPass.View() + "\n")
		b.WriteString(m.regConfirm.View() + "\n\n")
		b.WriteString("enter=register  tab=next field  esc=back to login\n")
	case screenMenu:
		b.WriteString("What next?\n\n")
		b.WriteString("  g  gallery\n")
		b.WriteString("  i  generate images\n")
		b.WriteString("  u  upscale an image\n")
		if m.sess.IsAdmin {
			b.WriteString("  a  admin panel\n")
		}
		b.WriteString("  x  log out\n")
		b.WriteString("  q  quit\n")
	case screenGallery:
		b.WriteString(m.viewGallery())
	case screenAdmin:
		b.WriteString(m.viewAdmin())
	case screenGenerate:
		b.WriteString(m.viewGenerate())
	case screenUpscale:
		b.WriteString(m.viewUpscale())
	}

	if m.err != "" {
		b.WriteString("\n" + errorStyle.Render("Error: "+m.err) + "\n")
	}
	if m.notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.notice) + "\n")
	}
	return b.String()
}

// renderNav is the navigation shell: identity, role badge, credits.
func (m Model) renderNav() string {
	role := "USER"
	if m.sess.IsAdmin {
		role = "ADMIN"
	}
	parts := []string{
		titleStyle.Render("pixlab"),
		m.sess.Username,
		badgeStyle.Render(role),
		strconv.Itoa(m.sess.Credits) + " credits",
	}
	return strings.Join(parts, " · ")
}
