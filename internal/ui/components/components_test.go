// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fosterly/fosterly-tui/internal/model"
	"github.com/fosterly/fosterly-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme()
}

// =============================================================================
// TOASTS
// =============================================================================

func TestToastStack_PushAndExpire(t *testing.T) {
	stack := NewToastStack(testTheme())

	toast := NewToast(ToastError, "signin failed")
	cmd := stack.Push(toast)
	if cmd == nil {
		t.Fatal("Push should return an expiry command")
	}
	if stack.Len() != 1 {
		t.Fatalf("len = %d, want 1", stack.Len())
	}
	if !strings.Contains(stack.View(), "signin failed") {
		t.Error("view should contain the message")
	}

	stack.Expire(toast.ID)
	if stack.Len() != 0 {
		t.Errorf("len = %d after expire, want 0", stack.Len())
	}
	if stack.View() != "" {
		t.Error("empty stack should render empty")
	}
}

func TestToastStack_DropsOldestOverLimit(t *testing.T) {
	stack := NewToastStack(testTheme())

	first := NewToast(ToastInfo, "first")
	stack.Push(first)
	for i := 0; i < MaxToasts; i++ {
		stack.Push(NewToast(ToastInfo, "later"))
	}

	if stack.Len() != MaxToasts {
		t.Errorf("len = %d, want %d", stack.Len(), MaxToasts)
	}
	if strings.Contains(stack.View(), "first") {
		t.Error("oldest toast should have been dropped")
	}
}

func TestToast_Expired(t *testing.T) {
	toast := NewToast(ToastInfo, "hello")
	if toast.Expired(toast.CreatedAt) {
		t.Error("fresh toast should not be expired")
	}
	if !toast.Expired(toast.CreatedAt.Add(toast.Duration + time.Second)) {
		t.Error("toast past its duration should be expired")
	}
}

func TestToast_ErrorDurationLonger(t *testing.T) {
	info := NewToast(ToastInfo, "i")
	errToast := NewToast(ToastError, "e")
	if errToast.Duration <= info.Duration {
		t.Error("error toasts should linger longer than info toasts")
	}
}

// =============================================================================
// STATUS BAR
// =============================================================================

func TestStatusBar_SignedOut(t *testing.T) {
	bar := NewStatusBar(testTheme())
	if !strings.Contains(bar.View(), "not signed in") {
		t.Error("signed-out bar should say so")
	}
}

func TestStatusBar_SignedIn(t *testing.T) {
	bar := NewStatusBar(testTheme())
	bar.SetUser(&model.User{ID: 1, Email: "a@b.com", FirstName: "Ana", Role: model.RoleFamily})
	bar.SetTimeLeft(42 * time.Minute)

	view := bar.View()
	if !strings.Contains(view, "Ana") {
		t.Error("bar should show the user name")
	}
	if !strings.Contains(view, "family") {
		t.Error("bar should show the role badge")
	}
	if !strings.Contains(view, "42:00") {
		t.Errorf("bar should show the countdown, got %q", view)
	}
}

func TestStatusBar_OfflineTag(t *testing.T) {
	bar := NewStatusBar(testTheme())
	bar.SetOffline(true)
	if !strings.Contains(bar.View(), "OFFLINE") {
		t.Error("offline bar should show the tag")
	}
}

func TestFormatTimer(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{-time.Minute, "0:00"},
		{59 * time.Second, "0:59"},
		{5 * time.Minute, "5:00"},
		{time.Hour, "1:00:00"},
		{90*time.Minute + 5*time.Second, "1:30:05"},
	}
	for _, tt := range tests {
		if got := formatTimer(tt.d); got != tt.want {
			t.Errorf("formatTimer(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

// =============================================================================
// ANIMAL TABLE
// =============================================================================

func tableAnimals() []model.Animal {
	return []model.Animal{
		{ID: 1, Name: "Rex", Species: "dog", Available: true},
		{ID: 2, Name: "Misty", Species: "cat", Available: false},
		{ID: 3, Name: "Bruno", Species: "dog", Available: true},
	}
}

func TestAnimalTable_Navigation(t *testing.T) {
	table := NewAnimalTable(testTheme())
	table.SetAnimals(tableAnimals())
	table.SetSize(80, 24)

	if sel := table.Selected(); sel == nil || sel.Name != "Rex" {
		t.Fatalf("initial selection = %+v, want Rex", sel)
	}

	table, _ = table.Update(tea.KeyMsg{Type: tea.KeyDown})
	if sel := table.Selected(); sel.Name != "Misty" {
		t.Errorf("after down, selection = %s", sel.Name)
	}

	table, _ = table.Update(tea.KeyMsg{Type: tea.KeyUp})
	table, _ = table.Update(tea.KeyMsg{Type: tea.KeyUp})
	if sel := table.Selected(); sel.Name != "Rex" {
		t.Errorf("cursor should clamp at top, got %s", sel.Name)
	}

	table, _ = table.Update(tea.KeyMsg{Type: tea.KeyEnd})
	if sel := table.Selected(); sel.Name != "Bruno" {
		t.Errorf("end should jump to last row, got %s", sel.Name)
	}
}

func TestAnimalTable_EnterEmitsSelection(t *testing.T) {
	table := NewAnimalTable(testTheme())
	table.SetAnimals(tableAnimals())

	_, cmd := table.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should emit a command")
	}
	msg, ok := cmd().(AnimalSelectedMsg)
	if !ok {
		t.Fatalf("command produced %T, want AnimalSelectedMsg", cmd())
	}
	if msg.Animal.Name != "Rex" {
		t.Errorf("selected %s, want Rex", msg.Animal.Name)
	}
}

func TestAnimalTable_Empty(t *testing.T) {
	table := NewAnimalTable(testTheme())
	if table.Selected() != nil {
		t.Error("empty table has no selection")
	}
	if !strings.Contains(table.View(), "No animals") {
		t.Error("empty table should say so")
	}

	_, cmd := table.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("enter on empty table should be a no-op")
	}
}

func TestAnimalTable_OfflineEmptyMessage(t *testing.T) {
	table := NewAnimalTable(testTheme())
	table.SetOffline(true)
	if !strings.Contains(table.View(), "Offline cache") {
		t.Error("empty offline table should mention the cache")
	}
}

func TestAnimalTable_ViewShowsRows(t *testing.T) {
	table := NewAnimalTable(testTheme())
	table.SetAnimals(tableAnimals())
	table.SetSize(80, 24)

	view := table.View()
	for _, name := range []string{"Rex", "Misty", "Bruno"} {
		if !strings.Contains(view, name) {
			t.Errorf("view missing row %q", name)
		}
	}
	if !strings.Contains(view, "available") {
		t.Error("view missing availability tag")
	}
}

func TestPadCell(t *testing.T) {
	if got := padCell("ab", 6); len(got) == 0 || got != "ab    " {
		t.Errorf("padCell short = %q", got)
	}
	// Truncation keeps the cell inside its column.
	got := padCell("averylongname", 6)
	if w := len([]rune(got)); w != 6 {
		t.Errorf("padCell truncated to %d runes, want 6", w)
	}
}

// =============================================================================
// LOGIN FORM
// =============================================================================

func typeString(f LoginForm, s string) LoginForm {
	for _, r := range s {
		f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return f
}

func TestLoginForm_SubmitValidCredentials(t *testing.T) {
	form := NewLoginForm(testTheme())
	form = typeString(form, "a@b.com")
	form, _ = form.Update(tea.KeyMsg{Type: tea.KeyTab})
	form = typeString(form, "Secret1!")

	form, cmd := form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on the password field should submit")
	}
	msg, ok := cmd().(LoginSubmitMsg)
	if !ok {
		t.Fatalf("command produced %T, want LoginSubmitMsg", cmd())
	}
	if msg.Email != "a@b.com" || msg.Password != "Secret1!" {
		t.Errorf("submitted %q / %q", msg.Email, msg.Password)
	}
	if !strings.Contains(form.View(), "Signing in") {
		t.Error("form should show the busy hint after submit")
	}
}

func TestLoginForm_RejectsInvalidEmail(t *testing.T) {
	form := NewLoginForm(testTheme())
	form = typeString(form, "not-an-email")
	form, _ = form.Update(tea.KeyMsg{Type: tea.KeyTab})
	form = typeString(form, "pw")

	form, cmd := form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("invalid email should not submit")
	}
	if !strings.Contains(form.View(), "valid email") {
		t.Error("form should show the validation error")
	}
}

func TestLoginForm_EnterOnEmailAdvances(t *testing.T) {
	form := NewLoginForm(testTheme())
	form = typeString(form, "a@b.com")

	form, cmd := form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("enter on the email field should only advance focus")
	}
	form = typeString(form, "pw")
	_, password := form.Values()
	if password != "pw" {
		t.Errorf("password field captured %q, want pw", password)
	}
}

func TestLoginForm_PasswordMasked(t *testing.T) {
	form := NewLoginForm(testTheme())
	form, _ = form.Update(tea.KeyMsg{Type: tea.KeyTab})
	form = typeString(form, "hunter2")

	if strings.Contains(form.View(), "hunter2") {
		t.Error("plaintext password must not appear in the rendered view")
	}
}

func TestLoginForm_Reset(t *testing.T) {
	form := NewLoginForm(testTheme())
	form = typeString(form, "a@b.com")
	form.SetError("bad credentials")

	form.Reset()
	email, password := form.Values()
	if email != "" || password != "" {
		t.Error("reset should clear both fields")
	}
	if strings.Contains(form.View(), "bad credentials") {
		t.Error("reset should clear the error")
	}
}

// =============================================================================
// IDLE LOCK OVERLAY
// =============================================================================

func TestIdleLockOverlay_LockedFlow(t *testing.T) {
	overlay := NewIdleLockOverlay(testTheme())
	if overlay.IsVisible() {
		t.Fatal("overlay starts hidden")
	}

	overlay.ShowLocked()
	if !overlay.IsVisible() || !overlay.IsLocked() {
		t.Fatal("overlay should be visible and locked")
	}
	if !strings.Contains(overlay.View(), "inactivity") {
		t.Error("locked view should explain the idle signout")
	}

	overlay, cmd := overlay.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if overlay.IsVisible() {
		t.Error("key press should dismiss the lock")
	}
	if cmd == nil {
		t.Fatal("dismissing a lock should emit a command")
	}
	if _, ok := cmd().(IdleLockDismissedMsg); !ok {
		t.Errorf("command produced %T, want IdleLockDismissedMsg", cmd())
	}
}

func TestIdleLockOverlay_WarningFlow(t *testing.T) {
	overlay := NewIdleLockOverlay(testTheme())
	overlay.ShowWarning(90 * time.Second)

	view := overlay.View()
	if !strings.Contains(view, "1:30") {
		t.Errorf("warning should show the countdown, got %q", view)
	}

	overlay, cmd := overlay.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if overlay.IsVisible() {
		t.Error("key press should dismiss the warning")
	}
	if cmd != nil {
		t.Error("dismissing a warning emits nothing, the key was activity")
	}
}

func TestIdleLockOverlay_WarningDoesNotDowngradeLock(t *testing.T) {
	overlay := NewIdleLockOverlay(testTheme())
	overlay.ShowLocked()
	overlay.ShowWarning(time.Minute)
	if !overlay.IsLocked() {
		t.Error("a warning must not replace an active lock")
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{-time.Second, "0:00"},
		{0, "0:00"},
		{59 * time.Second, "0:59"},
		{5 * time.Minute, "5:00"},
		{61 * time.Minute, "61:00"},
	}
	for _, tt := range tests {
		if got := formatCountdown(tt.d); got != tt.want {
			t.Errorf("formatCountdown(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

// =============================================================================
// ANIMAL DETAIL
// =============================================================================

func TestAnimalDetail_ShowRendersListing(t *testing.T) {
	detail := NewAnimalDetail(testTheme())
	birth := model.ShortDate(time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC))
	assoc := model.Association{ID: 1, Name: "Animal Haven", City: "Lyon"}

	detail.Show(model.Animal{
		ID:          1,
		Name:        "Rex",
		Species:     "dog",
		Breed:       "beagle",
		BirthDate:   &birth,
		Description: "A **very** good boy.",
		Available:   true,
	}, &assoc)

	view := detail.View()
	for _, want := range []string{"Rex", "beagle", "dog", "available", "Animal Haven", "Lyon"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q", want)
		}
	}
}

func TestAnimalDetail_ShowWithoutAssociation(t *testing.T) {
	detail := NewAnimalDetail(testTheme())
	detail.Show(model.Animal{ID: 2, Name: "Misty", Species: "cat"}, nil)

	view := detail.View()
	if !strings.Contains(view, "Misty") {
		t.Error("detail view should show the animal")
	}
	if strings.Contains(view, "Association") {
		t.Error("no association row without an association")
	}
}

func TestAnimalDetail_SetSizeClampsHeight(t *testing.T) {
	detail := NewAnimalDetail(testTheme())
	detail.SetSize(40, -3)
	detail.Show(model.Animal{ID: 3, Name: "Bruno", Species: "dog"}, nil)
	// A degenerate terminal still renders something.
	if detail.View() == "" {
		t.Error("view should not be empty")
	}
}

// =============================================================================
// ANIMAL FORM
// =============================================================================

func typeForm(f AnimalForm, s string) AnimalForm {
	for _, r := range s {
		f, _ = f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return f
}

func tabForm(f AnimalForm) AnimalForm {
	f, _ = f.Update(tea.KeyMsg{Type: tea.KeyTab})
	return f
}

func TestAnimalForm_SubmitNewListing(t *testing.T) {
	form := NewAnimalForm(testTheme())
	form.LoadNew(10)

	form = typeForm(form, "Rex")
	form = tabForm(form)
	form = typeForm(form, "Dog")
	// Skip breed, sex, birth date, land on description.
	form = tabForm(form)
	form = tabForm(form)
	form = tabForm(form)
	form = tabForm(form)
	form = typeForm(form, "A good boy")

	form, cmd := form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("submit should emit a command")
	}
	msg, ok := cmd().(AnimalFormSubmitMsg)
	if !ok {
		t.Fatalf("msg = %T, want AnimalFormSubmitMsg", cmd())
	}
	if msg.Animal.ID != 0 || msg.Animal.AssociationID != 10 {
		t.Errorf("animal identity = %+v", msg.Animal)
	}
	if msg.Animal.Name != "Rex" || msg.Animal.Species != "dog" {
		t.Errorf("animal = %+v", msg.Animal)
	}
	if !msg.Animal.Available {
		t.Error("new listings start available")
	}
}

func TestAnimalForm_RequiresNameAndSpecies(t *testing.T) {
	form := NewAnimalForm(testTheme())
	form.LoadNew(10)

	// Enter walks to the last field, then submits empty.
	for i := 0; i < 6; i++ {
		form, _ = form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}
	if !strings.Contains(form.View(), "Name is required") {
		t.Error("empty name should be rejected")
	}
}

func TestAnimalForm_RejectsBadBirthDate(t *testing.T) {
	form := NewAnimalForm(testTheme())
	form.LoadEdit(model.Animal{ID: 3, Name: "Rex", Species: "dog", AssociationID: 10})

	// Move to the birth date field and type garbage.
	for i := 0; i < 4; i++ {
		form = tabForm(form)
	}
	form = typeForm(form, "soon")
	for i := 0; i < 2; i++ {
		form, _ = form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}
	if !strings.Contains(form.View(), "YYYY-MM-DD") {
		t.Error("bad birth date should be rejected")
	}
}

func TestAnimalForm_EditKeepsIdentity(t *testing.T) {
	birth := model.ShortDate(time.Date(2022, 3, 15, 0, 0, 0, 0, time.UTC))
	original := model.Animal{
		ID: 3, Name: "Rex", Species: "dog", AssociationID: 10,
		BirthDate: &birth, Available: false,
	}

	form := NewAnimalForm(testTheme())
	form.LoadEdit(original)
	if !form.IsEditing() {
		t.Fatal("LoadEdit should mark the form as editing")
	}

	// Submit unchanged from the last field.
	for i := 0; i < 6; i++ {
		var cmd tea.Cmd
		form, cmd = form.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if cmd != nil {
			msg := cmd().(AnimalFormSubmitMsg)
			if msg.Animal.ID != 3 || msg.Animal.AssociationID != 10 {
				t.Errorf("identity changed: %+v", msg.Animal)
			}
			if msg.Animal.Available {
				t.Error("availability must ride along unchanged")
			}
			if msg.Animal.BirthDate == nil || msg.Animal.BirthDate.String() != "2022-03-15" {
				t.Errorf("birth date = %v", msg.Animal.BirthDate)
			}
			return
		}
	}
	t.Fatal("form never submitted")
}

func TestAnimalForm_EscCancels(t *testing.T) {
	form := NewAnimalForm(testTheme())
	form.LoadNew(10)
	_, cmd := form.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should emit a command")
	}
	if _, ok := cmd().(AnimalFormCancelMsg); !ok {
		t.Errorf("msg = %T, want AnimalFormCancelMsg", cmd())
	}
}
