// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/fosterly/fosterly-tui/internal/model"
	"github.com/fosterly/fosterly-tui/internal/ui/styles"
	"github.com/fosterly/fosterly-tui/internal/util"
)

// =============================================================================
// ANIMAL DETAIL
// =============================================================================

// AnimalDetail renders one listing with its markdown description in a
// scrollable viewport.
type AnimalDetail struct {
	theme    *styles.Theme
	renderer *glamour.TermRenderer
	vp       viewport.Model
	width    int
	now      func() time.Time
}

// NewAnimalDetail creates the detail renderer. Glamour setup can fail on
// exotic terminals; the description then falls back to plain text.
func NewAnimalDetail(theme *styles.Theme) AnimalDetail {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(72),
	)
	if err != nil {
		renderer = nil
	}
	return AnimalDetail{
		theme:    theme,
		renderer: renderer,
		vp:       viewport.New(80, 20),
		width:    80,
		now:      time.Now,
	}
}

// SetSize sets the rendering area.
func (d *AnimalDetail) SetSize(width, height int) {
	d.width = width
	if height < 1 {
		height = 1
	}
	d.vp.Width = width
	d.vp.Height = height
}

// Show loads a listing into the viewport, scrolled to the top.
func (d *AnimalDetail) Show(animal model.Animal, association *model.Association) {
	d.vp.SetContent(d.render(animal, association))
	d.vp.GotoTop()
}

// Update handles scrolling keys.
func (d AnimalDetail) Update(msg tea.Msg) (AnimalDetail, tea.Cmd) {
	var cmd tea.Cmd
	d.vp, cmd = d.vp.Update(msg)
	return d, cmd
}

// View renders the current listing.
func (d AnimalDetail) View() string {
	return d.vp.View()
}

func (d AnimalDetail) render(animal model.Animal, association *model.Association) string {
	var parts []string

	title := animal.Name
	if animal.Breed != "" {
		title += "  (" + animal.Breed + ")"
	}
	parts = append(parts, d.theme.DetailTitle.Render(title))
	parts = append(parts, "")

	parts = append(parts, d.field("Species", animal.Species))
	if animal.Sex != "" {
		parts = append(parts, d.field("Sex", animal.Sex))
	}
	if animal.BirthDate != nil {
		born := animal.BirthDate.String()
		if years := animal.Age(d.now()); years >= 0 {
			born += "  (" + util.IntToString(years) + " years)"
		}
		parts = append(parts, d.field("Born", born))
	}

	status := "fostered"
	if animal.Available {
		status = "available"
	}
	parts = append(parts, d.field("Status", status))

	if association != nil {
		parts = append(parts, d.field("Association", association.Name))
		if association.City != "" {
			parts = append(parts, d.field("City", association.City))
		}
		if association.Phone != "" {
			parts = append(parts, d.field("Phone", association.Phone))
		}
	}

	if animal.Description != "" {
		parts = append(parts, d.theme.DetailSection.Render("About"))
		parts = append(parts, d.renderMarkdown(animal.Description))
	}

	if len(animal.PhotoKeys) > 0 {
		parts = append(parts, d.theme.DetailSection.Render("Photos"))
		parts = append(parts, d.theme.DetailValue.Render(
			util.IntToString(len(animal.PhotoKeys))+" photo(s) on the web client"))
	}

	return d.theme.DetailBox.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (d AnimalDetail) field(label, value string) string {
	return d.theme.DetailLabel.Render(label) + d.theme.DetailValue.Render(value)
}

func (d AnimalDetail) renderMarkdown(md string) string {
	if d.renderer == nil {
		return d.theme.DetailValue.Render(md)
	}
	out, err := d.renderer.Render(md)
	if err != nil {
		return d.theme.DetailValue.Render(md)
	}
	return strings.TrimRight(out, "\n")
}
