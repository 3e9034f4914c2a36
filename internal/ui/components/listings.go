// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/fosterly/fosterly-tui/internal/model"
	"github.com/fosterly/fosterly-tui/internal/ui/styles"
	"github.com/fosterly/fosterly-tui/internal/util"
)

// =============================================================================
// ANIMAL TABLE
// =============================================================================

// AnimalSelectedMsg is emitted when the user opens a listing.
type AnimalSelectedMsg struct {
	Animal model.Animal
}

// AnimalTable is the scrollable animal listing browser.
type AnimalTable struct {
	theme *styles.Theme

	animals []model.Animal
	cursor  int
	offset  int

	width  int
	height int

	offline bool
	now     func() time.Time
}

// NewAnimalTable creates an empty listing table.
func NewAnimalTable(theme *styles.Theme) AnimalTable {
	return AnimalTable{
		theme: theme,
		now:   time.Now,
	}
}

// SetAnimals replaces the rows, clamping the cursor.
func (t *AnimalTable) SetAnimals(animals []model.Animal) {
	t.animals = animals
	if t.cursor >= len(animals) {
		t.cursor = len(animals) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.offset = 0
}

// SetOffline marks the rows as served from the offline cache.
func (t *AnimalTable) SetOffline(offline bool) {
	t.offline = offline
}

// SetSize sets the viewport dimensions.
func (t *AnimalTable) SetSize(width, height int) {
	t.width = width
	t.height = height
}

// Selected returns the listing under the cursor, nil when empty.
func (t AnimalTable) Selected() *model.Animal {
	if len(t.animals) == 0 {
		return nil
	}
	a := t.animals[t.cursor]
	return &a
}

// Len returns the number of rows.
func (t AnimalTable) Len() int {
	return len(t.animals)
}

// Update handles navigation keys.
func (t AnimalTable) Update(msg tea.Msg) (AnimalTable, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return t, nil
	}

	switch key.String() {
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
		}
	case "down", "j":
		if t.cursor < len(t.animals)-1 {
			t.cursor++
		}
	case "pgup":
		t.cursor -= t.pageSize()
		if t.cursor < 0 {
			t.cursor = 0
		}
	case "pgdown":
		t.cursor += t.pageSize()
		if t.cursor > len(t.animals)-1 {
			t.cursor = len(t.animals) - 1
		}
	case "home", "g":
		t.cursor = 0
	case "end", "G":
		t.cursor = len(t.animals) - 1
	case "enter":
		if sel := t.Selected(); sel != nil {
			a := *sel
			return t, func() tea.Msg {
				return AnimalSelectedMsg{Animal: a}
			}
		}
	}

	t.scrollToCursor()
	return t, nil
}

func (t AnimalTable) pageSize() int {
	rows := t.height - 3
	if rows < 1 {
		return 10
	}
	return rows
}

func (t *AnimalTable) scrollToCursor() {
	rows := t.pageSize()
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+rows {
		t.offset = t.cursor - rows + 1
	}
}

// =============================================================================
// RENDERING
// =============================================================================

// Column widths for the listing table. Name flexes with the terminal.
const (
	colSpecies = 9
	colAge     = 5
	colStatus  = 12
)

// View renders the table.
func (t AnimalTable) View() string {
	if len(t.animals) == 0 {
		msg := "No animals to show."
		if t.offline {
			msg = "Offline cache is empty. Connect once to sync listings."
		}
		return t.theme.FormHint.Render(msg)
	}

	nameWidth := t.nameWidth()

	header := padCell("NAME", nameWidth) +
		padCell("SPECIES", colSpecies) +
		padCell("AGE", colAge) +
		padCell("STATUS", colStatus)
	lines := []string{t.theme.TableHeader.Render(header)}

	rows := t.pageSize()
	end := t.offset + rows
	if end > len(t.animals) {
		end = len(t.animals)
	}

	for i := t.offset; i < end; i++ {
		a := t.animals[i]

		status := t.theme.UnavailableTag.Render("fostered")
		if a.Available {
			status = t.theme.AvailableTag.Render("available")
		}

		age := "?"
		if years := a.Age(t.now()); years >= 0 {
			age = util.IntToString(years)
		}

		row := padCell(a.Name, nameWidth) +
			padCell(a.Species, colSpecies) +
			padCell(age, colAge)

		style := t.theme.TableRow
		if i == t.cursor {
			style = t.theme.TableRowSelected
		}
		lines = append(lines, style.Render(row)+" "+status)
	}

	if len(t.animals) > rows {
		position := util.IntToString(t.cursor+1) + "/" + util.IntToString(len(t.animals))
		lines = append(lines, t.theme.FormHint.Render(position))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (t AnimalTable) nameWidth() int {
	width := t.width - colSpecies - colAge - colStatus - 2
	if width < 12 {
		width = 12
	}
	if width > 32 {
		width = 32
	}
	return width
}

// padCell truncates or pads a cell to the display width, accounting for
// wide runes.
func padCell(s string, width int) string {
	s = runewidth.Truncate(s, width-1, "…")
	return runewidth.FillRight(s, width)
}
