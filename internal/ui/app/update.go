// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fosterly/fosterly-tui/internal/model"
	"github.com/fosterly/fosterly-tui/internal/session"
	"github.com/fosterly/fosterly-tui/internal/ui/components"
)

// expiryWarningThreshold is when the countdown overlay appears.
const expiryWarningThreshold = 2 * time.Minute

// Update is the root message dispatcher.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.theme.SetSize(msg.Width, msg.Height)
		a.table.SetSize(msg.Width-2, msg.Height-4)
		a.detail.SetSize(msg.Width-2, msg.Height-6)
		a.login.SetWidth(msg.Width)
		a.form.SetWidth(msg.Width)
		a.overlay.SetSize(msg.Width, msg.Height)
		a.statusBar.SetWidth(msg.Width)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case session.TickMsg:
		return a.handleTick()

	case session.IdleLockedMsg:
		a.overlay.ShowLocked()
		return a, nil

	case session.LoggedOutMsg:
		return a.handleLoggedOut(msg)

	case components.LoginSubmitMsg:
		a.login.SetBusy(true)
		return a, a.signinCmd(msg.Email, msg.Password)

	case components.AnimalSelectedMsg:
		animal := msg.Animal
		a.current = &animal
		a.detail.Show(animal, a.associationFor(animal))
		a.view = ViewDetail
		return a, nil

	case components.IdleLockDismissedMsg:
		a.manager.DismissIdleLock()
		a.toLogin()
		return a, nil

	case components.ToastExpiredMsg:
		a.toasts.Expire(msg.ID)
		return a, nil

	case ConfigReloadedMsg:
		// Display preferences apply immediately; session timings take
		// effect on the next sign-in.
		a.cfg = msg.Cfg
		return a, nil

	case components.AnimalFormSubmitMsg:
		a.form.SetBusy(true)
		return a, a.saveAnimalCmd(msg.Animal)

	case components.AnimalFormCancelMsg:
		a.view = a.formReturn
		return a, nil

	case signinResultMsg:
		return a.handleSigninResult(msg)
	case animalsLoadedMsg:
		return a.handleAnimalsLoaded(msg)
	case associationsLoadedMsg:
		return a.handleAssociationsLoaded(msg)
	case asksLoadedMsg:
		return a.handleAsksLoaded(msg)
	case animalSavedMsg:
		return a.handleAnimalSaved(msg)
	case profileLoadedMsg:
		return a.handleProfileLoaded(msg)
	case askFiledMsg:
		return a.handleAskFiled(msg)
	case askReviewedMsg:
		return a.handleAskReviewed(msg)
	case availabilityToggledMsg:
		return a.handleAvailabilityToggled(msg)
	}

	return a, nil
}

// =============================================================================
// KEY DISPATCH
// =============================================================================

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits, even under the overlay.
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	// Every key press is user activity.
	a.manager.Touch()

	if a.overlay.IsVisible() {
		var cmd tea.Cmd
		a.overlay, cmd = a.overlay.Update(msg)
		return a, cmd
	}

	switch a.view {
	case ViewLogin:
		if msg.String() == "ctrl+q" {
			return a, tea.Quit
		}
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd

	case ViewBrowse:
		return a.handleBrowseKey(msg)

	case ViewDetail:
		return a.handleDetailKey(msg)

	case ViewAsks:
		return a.handleAsksKey(msg)

	case ViewForm:
		var cmd tea.Cmd
		a.form, cmd = a.form.Update(msg)
		return a, cmd

	case ViewProfile:
		switch {
		case key.Matches(msg, a.keys.Back):
			a.view = ViewBrowse
			return a, nil
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		}
		return a, nil
	}
	return a, nil
}

func (a *App) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Logout):
		a.manager.Logout(session.LogoutExplicit)
		return a, nil
	case key.Matches(msg, a.keys.Reload):
		a.loading = true
		return a, tea.Batch(a.loadAnimalsCmd(), a.loadAssociationsCmd())
	case key.Matches(msg, a.keys.Asks):
		a.view = ViewAsks
		a.loading = true
		return a, a.loadAsksCmd()
	case key.Matches(msg, a.keys.Profile):
		a.view = ViewProfile
		a.profileFamily = nil
		a.profileAssociation = nil
		return a, a.loadProfileCmd()
	case key.Matches(msg, a.keys.New):
		return a.newListing()
	}

	var cmd tea.Cmd
	a.table, cmd = a.table.Update(msg)
	return a, cmd
}

func (a *App) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.view = ViewBrowse
		a.current = nil
		return a, nil
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.FileAsk):
		return a.fileAsk()
	case key.Matches(msg, a.keys.Toggle):
		return a.toggleAvailability()
	case key.Matches(msg, a.keys.Edit):
		return a.editListing()
	}

	// Everything else scrolls the description.
	var cmd tea.Cmd
	a.detail, cmd = a.detail.Update(msg)
	return a, cmd
}

func (a *App) handleAsksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.view = ViewBrowse
		return a, nil
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Up):
		if a.askCursor > 0 {
			a.askCursor--
		}
		return a, nil
	case key.Matches(msg, a.keys.Down):
		if a.askCursor < len(a.asks)-1 {
			a.askCursor++
		}
		return a, nil
	case key.Matches(msg, a.keys.Reload):
		a.loading = true
		return a, a.loadAsksCmd()
	}

	// Accept / refuse, for roles that review asks.
	if user := a.manager.User(); user != nil && user.Role.CanReviewAsks() {
		if a.askCursor < len(a.asks) {
			ask := a.asks[a.askCursor]
			switch msg.String() {
			case "y":
				return a, a.reviewAskCmd(ask, model.AskAccepted)
			case "n":
				return a, a.reviewAskCmd(ask, model.AskRefused)
			}
		}
	}
	return a, nil
}

// =============================================================================
// ROLE-GATED ACTIONS
// =============================================================================

func (a *App) fileAsk() (tea.Model, tea.Cmd) {
	user := a.manager.User()
	if user == nil || !user.Role.CanFileAsk() || a.current == nil {
		return a, nil
	}
	if !a.current.Available {
		return a, a.toasts.Push(components.NewToast(components.ToastWarning,
			a.current.Name+" is already fostered"))
	}
	if a.offline {
		return a, a.toasts.Push(components.NewToast(components.ToastWarning,
			"Cannot file a request while offline"))
	}
	return a, a.fileAskCmd(a.current.ID)
}

func (a *App) toggleAvailability() (tea.Model, tea.Cmd) {
	user := a.manager.User()
	if user == nil || !user.Role.CanManageAnimals() || a.current == nil {
		return a, nil
	}
	// Associations only manage their own listings; admins manage all.
	if user.Role == model.RoleAssociation &&
		(user.AssociationID == nil || *user.AssociationID != a.current.AssociationID) {
		return a, a.toasts.Push(components.NewToast(components.ToastWarning,
			"This listing belongs to another association"))
	}
	return a, a.toggleAvailabilityCmd(*a.current)
}

// newListing opens the create form. Only associations create listings;
// a listing always belongs to the creating association.
func (a *App) newListing() (tea.Model, tea.Cmd) {
	user := a.manager.User()
	if user == nil || user.Role != model.RoleAssociation || user.AssociationID == nil {
		return a, nil
	}
	a.form.LoadNew(*user.AssociationID)
	a.formReturn = ViewBrowse
	a.view = ViewForm
	return a, nil
}

// editListing opens the edit form, with the same ownership rule as the
// availability toggle.
func (a *App) editListing() (tea.Model, tea.Cmd) {
	user := a.manager.User()
	if user == nil || !user.Role.CanManageAnimals() || a.current == nil {
		return a, nil
	}
	if user.Role == model.RoleAssociation &&
		(user.AssociationID == nil || *user.AssociationID != a.current.AssociationID) {
		return a, a.toasts.Push(components.NewToast(components.ToastWarning,
			"This listing belongs to another association"))
	}
	a.form.LoadEdit(*a.current)
	a.formReturn = ViewDetail
	a.view = ViewForm
	return a, nil
}

// =============================================================================
// SESSION EVENTS
// =============================================================================

func (a *App) handleTick() (tea.Model, tea.Cmd) {
	timeLeft := a.manager.TimeLeft()
	a.statusBar.SetUser(a.manager.User())
	a.statusBar.SetTimeLeft(timeLeft)
	a.statusBar.SetOffline(a.offline)

	if a.manager.State() == session.StateAuthenticated &&
		timeLeft > 0 && timeLeft < expiryWarningThreshold {
		if a.overlay.IsVisible() && !a.overlay.IsLocked() {
			a.overlay.UpdateTime(timeLeft)
		} else if !a.overlay.IsVisible() {
			a.overlay.ShowWarning(timeLeft)
		}
	}

	return a, session.TickCmd()
}

func (a *App) handleLoggedOut(msg session.LoggedOutMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.Reason {
	case session.LogoutIdle:
		// The idle lock overlay handles this path.
		return a, nil
	case session.LogoutRefreshFailed:
		cmd = a.toasts.Push(components.NewToast(components.ToastError,
			"Session could not be renewed, please sign in again"))
	case session.LogoutExplicit:
		// Quiet transition.
	}
	a.toLogin()
	return a, cmd
}

func (a *App) toLogin() {
	a.view = ViewLogin
	a.login.Reset()
	a.current = nil
	a.animals = nil
	a.asks = nil
	a.profileFamily = nil
	a.profileAssociation = nil
	a.table.SetAnimals(nil)
	a.overlay.Hide()
}

// =============================================================================
// ASYNC RESULTS
// =============================================================================

func (a *App) handleSigninResult(msg signinResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.login.SetError(errorMessage(msg.err))
		return a, nil
	}

	if err := a.manager.Login(msg.resp.Token, msg.resp.User); err != nil {
		a.login.SetError(errorMessage(err))
		return a, nil
	}

	a.view = ViewBrowse
	a.loading = true
	return a, tea.Batch(a.loadAnimalsCmd(), a.loadAssociationsCmd())
}

func (a *App) handleAnimalsLoaded(msg animalsLoadedMsg) (tea.Model, tea.Cmd) {
	a.loading = false
	if msg.err != nil {
		return a, a.toasts.Push(components.NewToast(components.ToastError, errorMessage(msg.err)))
	}
	a.animals = msg.animals
	a.offline = msg.fromCache
	a.table.SetAnimals(msg.animals)
	a.table.SetOffline(msg.fromCache)
	a.statusBar.SetOffline(msg.fromCache)

	if msg.fromCache {
		return a, a.toasts.Push(components.NewToast(components.ToastWarning,
			"Offline: showing cached listings"))
	}
	return a, nil
}

func (a *App) handleAssociationsLoaded(msg associationsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// The directory is decoration on the detail view; stay quiet.
		return a, nil
	}
	for _, assoc := range msg.associations {
		a.associations[assoc.ID] = assoc
	}
	// The open detail may now know its association.
	if a.view == ViewDetail && a.current != nil {
		a.detail.Show(*a.current, a.associationFor(*a.current))
	}
	return a, nil
}

func (a *App) handleAsksLoaded(msg asksLoadedMsg) (tea.Model, tea.Cmd) {
	a.loading = false
	if msg.err != nil {
		return a, a.toasts.Push(components.NewToast(components.ToastError, errorMessage(msg.err)))
	}
	a.asks = msg.asks
	if a.askCursor >= len(msg.asks) {
		a.askCursor = 0
	}
	return a, nil
}

func (a *App) handleAskFiled(msg askFiledMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return a, a.toasts.Push(components.NewToast(components.ToastError, errorMessage(msg.err)))
	}
	return a, a.toasts.Push(components.NewToast(components.ToastSuccess,
		"Fostering request sent"))
}

func (a *App) handleAskReviewed(msg askReviewedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return a, a.toasts.Push(components.NewToast(components.ToastError, errorMessage(msg.err)))
	}
	for i := range a.asks {
		if a.asks[i].ID == msg.ask.ID {
			a.asks[i] = *msg.ask
		}
	}
	return a, a.toasts.Push(components.NewToast(components.ToastSuccess,
		"Request "+string(msg.ask.Status)))
}

func (a *App) handleAnimalSaved(msg animalSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.form.SetError(errorMessage(msg.err))
		return a, nil
	}

	if msg.created {
		a.animals = append([]model.Animal{*msg.animal}, a.animals...)
	} else {
		for i := range a.animals {
			if a.animals[i].ID == msg.animal.ID {
				a.animals[i] = *msg.animal
			}
		}
	}
	a.table.SetAnimals(a.animals)

	if a.formReturn == ViewDetail {
		a.current = msg.animal
		a.detail.Show(*msg.animal, a.associationFor(*msg.animal))
	}
	a.view = a.formReturn

	verb := "updated"
	if msg.created {
		verb = "created"
	}
	return a, a.toasts.Push(components.NewToast(components.ToastSuccess,
		msg.animal.Name+" "+verb))
}

func (a *App) handleProfileLoaded(msg profileLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// The account card still renders from the session user.
		return a, nil
	}
	a.profileFamily = msg.family
	a.profileAssociation = msg.association
	return a, nil
}

func (a *App) handleAvailabilityToggled(msg availabilityToggledMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return a, a.toasts.Push(components.NewToast(components.ToastError, errorMessage(msg.err)))
	}
	a.current = msg.animal
	for i := range a.animals {
		if a.animals[i].ID == msg.animal.ID {
			a.animals[i] = *msg.animal
		}
	}
	a.table.SetAnimals(a.animals)
	if a.view == ViewDetail {
		a.detail.Show(*msg.animal, a.associationFor(*msg.animal))
	}

	status := "fostered"
	if msg.animal.Available {
		status = "available"
	}
	return a, a.toasts.Push(components.NewToast(components.ToastSuccess,
		msg.animal.Name+" is now "+status))
}
