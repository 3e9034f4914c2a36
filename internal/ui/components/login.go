// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fosterly/fosterly-tui/internal/ui/styles"
)

// =============================================================================
// LOGIN FORM
// =============================================================================

// loginField indexes the focusable inputs.
type loginField int

const (
	fieldEmail loginField = iota
	fieldPassword
)

// LoginSubmitMsg carries the entered credentials up to the app model.
type LoginSubmitMsg struct {
	Email    string
	Password string
}

// LoginForm is the email/password entry form. The password input echoes
// mask characters; the plaintext never reaches the screen.
type LoginForm struct {
	theme *styles.Theme

	email    textinput.Model
	password textinput.Model
	focus    loginField

	errMsg  string
	busy    bool
	width   int
}

// NewLoginForm creates the login form with the email field focused.
func NewLoginForm(theme *styles.Theme) LoginForm {
	email := textinput.New()
	email.Placeholder = "you@example.org"
	email.CharLimit = 254
	email.Width = 36
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.CharLimit = 128
	password.Width = 36

	return LoginForm{
		theme:    theme,
		email:    email,
		password: password,
		focus:    fieldEmail,
	}
}

// SetError displays a submission error under the form.
func (f *LoginForm) SetError(msg string) {
	f.errMsg = msg
	f.busy = false
}

// SetBusy toggles the submitting state; inputs keep their content.
func (f *LoginForm) SetBusy(busy bool) {
	f.busy = busy
	if busy {
		f.errMsg = ""
	}
}

// Reset clears both fields and refocuses the email input.
func (f *LoginForm) Reset() {
	f.email.SetValue("")
	f.password.SetValue("")
	f.errMsg = ""
	f.busy = false
	f.focus = fieldEmail
	f.email.Focus()
	f.password.Blur()
}

// SetWidth sets the rendering width.
func (f *LoginForm) SetWidth(width int) {
	f.width = width
}

// Update handles key events for the form.
func (f LoginForm) Update(msg tea.Msg) (LoginForm, tea.Cmd) {
	if f.busy {
		return f, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab", "up", "down":
			f.toggleFocus()
			return f, nil
		case "enter":
			if f.focus == fieldEmail {
				f.toggleFocus()
				return f, nil
			}
			return f.submit()
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldEmail:
		f.email, cmd = f.email.Update(msg)
	case fieldPassword:
		f.password, cmd = f.password.Update(msg)
	}
	return f, cmd
}

func (f *LoginForm) toggleFocus() {
	if f.focus == fieldEmail {
		f.focus = fieldPassword
		f.email.Blur()
		f.password.Focus()
	} else {
		f.focus = fieldEmail
		f.password.Blur()
		f.email.Focus()
	}
}

func (f LoginForm) submit() (LoginForm, tea.Cmd) {
	email := strings.TrimSpace(f.email.Value())
	password := f.password.Value()

	if email == "" || !strings.Contains(email, "@") {
		f.errMsg = "Enter a valid email address"
		return f, nil
	}
	if password == "" {
		f.errMsg = "Enter your password"
		return f, nil
	}

	f.busy = true
	f.errMsg = ""
	return f, func() tea.Msg {
		return LoginSubmitMsg{Email: email, Password: password}
	}
}

// View renders the form.
func (f LoginForm) View() string {
	var parts []string

	parts = append(parts, f.theme.FormTitle.Render("Sign in to Fosterly"))
	parts = append(parts, "")

	emailLabel := f.theme.FormLabel
	passwordLabel := f.theme.FormLabel
	if f.focus == fieldEmail {
		emailLabel = f.theme.FormLabelFocused
	} else {
		passwordLabel = f.theme.FormLabelFocused
	}

	parts = append(parts, emailLabel.Render("Email"))
	parts = append(parts, f.email.View())
	parts = append(parts, "")
	parts = append(parts, passwordLabel.Render("Password"))
	parts = append(parts, f.password.View())

	if f.errMsg != "" {
		parts = append(parts, "")
		parts = append(parts, f.theme.FormError.Render(styles.StatusIndicators.Error+" "+f.errMsg))
	}
	if f.busy {
		parts = append(parts, "")
		parts = append(parts, f.theme.FormHint.Render("Signing in..."))
	} else {
		parts = append(parts, "")
		parts = append(parts, f.theme.FormHint.Render("tab: switch field  enter: submit"))
	}

	box := f.theme.FormBox.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	if f.width > 0 {
		return lipgloss.PlaceHorizontal(f.width, lipgloss.Center, box)
	}
	return box
}

// Values returns the current field contents (for tests).
func (f LoginForm) Values() (email, password string) {
	return f.email.Value(), f.password.Value()
}
