// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fosterly/fosterly-tui/internal/model"
	"github.com/fosterly/fosterly-tui/internal/ui/styles"
)

// =============================================================================
// ANIMAL FORM
// =============================================================================

// Form field order.
const (
	animalFieldName = iota
	animalFieldSpecies
	animalFieldBreed
	animalFieldSex
	animalFieldBirthDate
	animalFieldDescription
	animalFieldCount
)

// AnimalFormSubmitMsg carries a validated listing up to the app model.
// A zero ID means create, anything else is an update.
type AnimalFormSubmitMsg struct {
	Animal model.Animal
}

// AnimalFormCancelMsg is emitted when the form is abandoned.
type AnimalFormCancelMsg struct{}

// AnimalForm is the create/edit form for a listing. Identity fields
// (ID, association, availability, photos) ride along untouched from
// the loaded animal.
type AnimalForm struct {
	theme *styles.Theme

	inputs [animalFieldCount]textinput.Model
	focus  int

	base    model.Animal
	editing bool
	errMsg  string
	busy    bool
	width   int
}

// NewAnimalForm creates an empty, unfocused form. Call LoadNew or
// LoadEdit before showing it.
func NewAnimalForm(theme *styles.Theme) AnimalForm {
	f := AnimalForm{theme: theme}

	mk := func(placeholder string, limit, width int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = limit
		in.Width = width
		return in
	}

	f.inputs[animalFieldName] = mk("Rex", 60, 36)
	f.inputs[animalFieldSpecies] = mk("dog, cat, ...", 30, 36)
	f.inputs[animalFieldBreed] = mk("optional", 60, 36)
	f.inputs[animalFieldSex] = mk("male / female, optional", 10, 36)
	f.inputs[animalFieldBirthDate] = mk("YYYY-MM-DD, optional", 10, 36)
	f.inputs[animalFieldDescription] = mk("markdown, optional", 2000, 56)
	return f
}

// LoadNew prepares the form for a fresh listing under an association.
func (f *AnimalForm) LoadNew(associationID int) {
	f.base = model.Animal{AssociationID: associationID, Available: true}
	f.editing = false
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	f.start()
}

// LoadEdit prepares the form with an existing listing's values.
func (f *AnimalForm) LoadEdit(animal model.Animal) {
	f.base = animal
	f.editing = true
	f.inputs[animalFieldName].SetValue(animal.Name)
	f.inputs[animalFieldSpecies].SetValue(animal.Species)
	f.inputs[animalFieldBreed].SetValue(animal.Breed)
	f.inputs[animalFieldSex].SetValue(animal.Sex)
	if animal.BirthDate != nil {
		f.inputs[animalFieldBirthDate].SetValue(animal.BirthDate.String())
	} else {
		f.inputs[animalFieldBirthDate].SetValue("")
	}
	f.inputs[animalFieldDescription].SetValue(animal.Description)
	f.start()
}

func (f *AnimalForm) start() {
	f.errMsg = ""
	f.busy = false
	f.focus = animalFieldName
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.inputs[animalFieldName].Focus()
}

// IsEditing reports whether the form updates an existing listing.
func (f AnimalForm) IsEditing() bool {
	return f.editing
}

// SetError displays a submission error under the form.
func (f *AnimalForm) SetError(msg string) {
	f.errMsg = msg
	f.busy = false
}

// SetBusy toggles the submitting state.
func (f *AnimalForm) SetBusy(busy bool) {
	f.busy = busy
	if busy {
		f.errMsg = ""
	}
}

// SetWidth sets the rendering width.
func (f *AnimalForm) SetWidth(width int) {
	f.width = width
}

// Update handles key events for the form.
func (f AnimalForm) Update(msg tea.Msg) (AnimalForm, tea.Cmd) {
	if f.busy {
		return f, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return f, func() tea.Msg { return AnimalFormCancelMsg{} }
		case "tab", "down":
			f.moveFocus(1)
			return f, nil
		case "shift+tab", "up":
			f.moveFocus(-1)
			return f, nil
		case "enter":
			if f.focus < animalFieldCount-1 {
				f.moveFocus(1)
				return f, nil
			}
			return f.submit()
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f *AnimalForm) moveFocus(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + animalFieldCount) % animalFieldCount
	f.inputs[f.focus].Focus()
}

func (f AnimalForm) submit() (AnimalForm, tea.Cmd) {
	animal := f.base
	animal.Name = strings.TrimSpace(f.inputs[animalFieldName].Value())
	animal.Species = strings.ToLower(strings.TrimSpace(f.inputs[animalFieldSpecies].Value()))
	animal.Breed = strings.TrimSpace(f.inputs[animalFieldBreed].Value())
	animal.Sex = strings.ToLower(strings.TrimSpace(f.inputs[animalFieldSex].Value()))
	animal.Description = strings.TrimSpace(f.inputs[animalFieldDescription].Value())

	if animal.Name == "" {
		f.errMsg = "Name is required"
		return f, nil
	}
	if animal.Species == "" {
		f.errMsg = "Species is required"
		return f, nil
	}

	if raw := strings.TrimSpace(f.inputs[animalFieldBirthDate].Value()); raw != "" {
		birth, err := model.ParseShortDate(raw)
		if err != nil {
			f.errMsg = "Birth date must be YYYY-MM-DD"
			return f, nil
		}
		animal.BirthDate = &birth
	} else {
		animal.BirthDate = nil
	}

	f.busy = true
	f.errMsg = ""
	return f, func() tea.Msg {
		return AnimalFormSubmitMsg{Animal: animal}
	}
}

var animalFormLabels = [animalFieldCount]string{
	"Name", "Species", "Breed", "Sex", "Born", "Description",
}

// View renders the form.
func (f AnimalForm) View() string {
	var parts []string

	title := "New listing"
	if f.editing {
		title = "Edit listing"
	}
	parts = append(parts, f.theme.FormTitle.Render(title))
	parts = append(parts, "")

	for i := range f.inputs {
		label := f.theme.FormLabel
		if i == f.focus {
			label = f.theme.FormLabelFocused
		}
		parts = append(parts, label.Render(animalFormLabels[i]))
		parts = append(parts, f.inputs[i].View())
	}

	if f.errMsg != "" {
		parts = append(parts, "")
		parts = append(parts, f.theme.FormError.Render(styles.StatusIndicators.Error+" "+f.errMsg))
	}
	parts = append(parts, "")
	if f.busy {
		parts = append(parts, f.theme.FormHint.Render("Saving..."))
	} else {
		parts = append(parts, f.theme.FormHint.Render("tab: next field  enter: save  esc: cancel"))
	}

	box := f.theme.FormBox.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	if f.width > 0 {
		return lipgloss.PlaceHorizontal(f.width, lipgloss.Center, box)
	}
	return box
}
