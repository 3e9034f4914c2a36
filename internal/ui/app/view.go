// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fosterly/fosterly-tui/internal/model"
	"github.com/fosterly/fosterly-tui/internal/ui/components"
	"github.com/fosterly/fosterly-tui/internal/util"
)

// View renders the active screen with header, toasts and status bar.
func (a *App) View() string {
	if a.overlay.IsVisible() {
		return a.overlay.View()
	}

	header := a.viewHeader()

	var body string
	switch a.view {
	case ViewLogin:
		body = a.login.View()
	case ViewBrowse:
		body = a.viewBrowse()
	case ViewDetail:
		body = a.viewDetail()
	case ViewAsks:
		body = a.viewAsks()
	case ViewForm:
		body = a.form.View()
	case ViewProfile:
		body = a.viewProfile()
	}

	a.statusBar.SetHints(a.hints())
	footer := a.statusBar.View()

	sections := []string{header, body}
	if toasts := a.toasts.View(); toasts != "" {
		sections = append(sections, toasts)
	}
	sections = append(sections, footer)

	return a.theme.App.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (a *App) viewHeader() string {
	title := a.theme.HeaderBrand.Render("fosterly") + " " +
		a.theme.HeaderSubtitle.Render("animal fostering")
	return a.theme.Container.Render(title)
}

func (a *App) viewBrowse() string {
	if a.loading && len(a.animals) == 0 {
		return a.theme.Container.Render(a.spin.View() + " Loading listings...")
	}
	return a.theme.Container.Render(a.table.View())
}

func (a *App) viewDetail() string {
	if a.current == nil {
		return a.theme.Container.Render("Nothing selected.")
	}
	return a.theme.Container.Render(a.detail.View())
}

func (a *App) viewAsks() string {
	if a.loading {
		return a.theme.Container.Render(a.spin.View() + " Loading requests...")
	}
	if len(a.asks) == 0 {
		return a.theme.Container.Render(a.theme.FormHint.Render("No fostering requests yet."))
	}

	var lines []string
	lines = append(lines, a.theme.DetailTitle.Render("Fostering requests"))
	lines = append(lines, "")

	for i, ask := range a.asks {
		var status string
		switch ask.Status {
		case model.AskPending:
			status = a.theme.AskPending.Render("pending ")
		case model.AskAccepted:
			status = a.theme.AskAccepted.Render("accepted")
		case model.AskRefused:
			status = a.theme.AskRefused.Render("refused ")
		default:
			status = string(ask.Status)
		}

		name := a.animalName(ask.AnimalID)
		line := status + "  " + name
		if ask.Message != "" {
			line += "  " + a.theme.FormHint.Render(truncateMessage(ask.Message, 40))
		}

		prefix := "  "
		if i == a.askCursor {
			prefix = a.theme.ShortcutKey.Render("> ")
		}
		lines = append(lines, prefix+line)
	}

	return a.theme.Container.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (a *App) viewProfile() string {
	user := a.manager.User()
	if user == nil {
		return a.theme.Container.Render("Not signed in.")
	}

	var lines []string
	lines = append(lines, a.theme.DetailTitle.Render(user.DisplayName()))
	lines = append(lines, "")
	lines = append(lines, a.profileField("Email", user.Email))
	lines = append(lines, a.profileField("Role", user.Role.String()))

	switch {
	case a.profileFamily != nil:
		fam := a.profileFamily
		lines = append(lines, "")
		lines = append(lines, a.theme.DetailSection.Render("Family profile"))
		lines = append(lines, a.profileField("Capacity",
			util.IntToString(fam.Capacity)+" animal(s)"))
		if fam.City != "" {
			lines = append(lines, a.profileField("City", fam.City))
		}
		if fam.Phone != "" {
			lines = append(lines, a.profileField("Phone", fam.Phone))
		}
	case a.profileAssociation != nil:
		assoc := a.profileAssociation
		lines = append(lines, "")
		lines = append(lines, a.theme.DetailSection.Render("Association"))
		lines = append(lines, a.profileField("Name", assoc.Name))
		if assoc.RegistrationID != "" {
			lines = append(lines, a.profileField("Registration", assoc.RegistrationID))
		}
		if assoc.City != "" {
			lines = append(lines, a.profileField("City", assoc.City))
		}
		if assoc.Phone != "" {
			lines = append(lines, a.profileField("Phone", assoc.Phone))
		}
	}

	return a.theme.Container.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (a *App) profileField(label, value string) string {
	return a.theme.DetailLabel.Render(label) + a.theme.DetailValue.Render(value)
}

func (a *App) animalName(id int) string {
	for _, animal := range a.animals {
		if animal.ID == id {
			return animal.Name
		}
	}
	return "animal #" + util.IntToString(id)
}

func truncateMessage(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// hints returns the status bar key hints for the active view and role.
func (a *App) hints() []components.Hint {
	switch a.view {
	case ViewLogin:
		return []components.Hint{
			{Key: "enter", Desc: "sign in"},
			{Key: "C-q", Desc: "quit"},
		}
	case ViewBrowse:
		hints := []components.Hint{
			{Key: "enter", Desc: "open"},
			{Key: "a", Desc: "asks"},
			{Key: "p", Desc: "profile"},
			{Key: "r", Desc: "reload"},
		}
		if user := a.manager.User(); user != nil && user.Role == model.RoleAssociation {
			hints = append(hints, components.Hint{Key: "n", Desc: "new"})
		}
		hints = append(hints, components.Hint{Key: "q", Desc: "quit"})
		return hints
	case ViewDetail:
		hints := []components.Hint{{Key: "esc", Desc: "back"}}
		if user := a.manager.User(); user != nil {
			switch user.Role {
			case model.RoleFamily:
				hints = append(hints, components.Hint{Key: "f", Desc: "foster"})
			case model.RoleAssociation, model.RoleAdmin:
				hints = append(hints,
					components.Hint{Key: "t", Desc: "toggle"},
					components.Hint{Key: "e", Desc: "edit"})
			}
		}
		return hints
	case ViewForm:
		return []components.Hint{
			{Key: "enter", Desc: "save"},
			{Key: "esc", Desc: "cancel"},
		}
	case ViewProfile:
		return []components.Hint{{Key: "esc", Desc: "back"}}
	case ViewAsks:
		hints := []components.Hint{{Key: "esc", Desc: "back"}}
		if user := a.manager.User(); user != nil && user.Role.CanReviewAsks() {
			hints = append(hints,
				components.Hint{Key: "y", Desc: "accept"},
				components.Hint{Key: "n", Desc: "refuse"})
		}
		return hints
	}
	return nil
}
