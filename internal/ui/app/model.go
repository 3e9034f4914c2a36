// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fosterly/fosterly-tui/internal/api"
	"github.com/fosterly/fosterly-tui/internal/config"
	"github.com/fosterly/fosterly-tui/internal/model"
	"github.com/fosterly/fosterly-tui/internal/session"
	"github.com/fosterly/fosterly-tui/internal/storage"
	"github.com/fosterly/fosterly-tui/internal/ui/components"
	"github.com/fosterly/fosterly-tui/internal/ui/styles"
)

// =============================================================================
// VIEWS
// =============================================================================

// View is the active screen.
type View int

const (
	// ViewLogin is the sign-in form.
	ViewLogin View = iota
	// ViewBrowse is the animal listing table.
	ViewBrowse
	// ViewDetail is one listing with its association.
	ViewDetail
	// ViewAsks is the fostering request list for the current role.
	ViewAsks
	// ViewForm is the create/edit listing form (managing roles).
	ViewForm
	// ViewProfile is the signed-in account's profile.
	ViewProfile
)

// =============================================================================
// APP MODEL
// =============================================================================

// App is the root Bubble Tea model. It owns the view routing and holds
// the session manager; every key press counts as activity.
type App struct {
	cfg     *config.Config
	theme   *styles.Theme
	client  *api.Client
	manager *session.Manager
	cache   *storage.Cache

	keys KeyMap

	// Components
	login     components.LoginForm
	table     components.AnimalTable
	detail    components.AnimalDetail
	form      components.AnimalForm
	overlay   components.IdleLockOverlay
	toasts    components.ToastStack
	statusBar components.StatusBar
	spin      spinner.Model

	// View state
	view       View
	formReturn View
	current    *model.Animal

	// Profile detail, fetched on entering the profile view.
	profileFamily      *model.Family
	profileAssociation *model.Association

	// Data
	animals      []model.Animal
	associations map[int]model.Association
	asks         []model.Ask
	askCursor    int

	filter  api.AnimalFilter
	offline bool
	loading bool

	width  int
	height int
}

// New assembles the root model. cache may be nil when the offline cache
// is disabled.
func New(cfg *config.Config, client *api.Client, manager *session.Manager, cache *storage.Cache) *App {
	theme := styles.NewTheme()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(styles.Teal)

	a := &App{
		cfg:          cfg,
		theme:        theme,
		client:       client,
		manager:      manager,
		cache:        cache,
		keys:         DefaultKeyMap(),
		login:        components.NewLoginForm(theme),
		table:        components.NewAnimalTable(theme),
		detail:       components.NewAnimalDetail(theme),
		form:         components.NewAnimalForm(theme),
		overlay:      components.NewIdleLockOverlay(theme),
		toasts:       components.NewToastStack(theme),
		statusBar:    components.NewStatusBar(theme),
		spin:         spin,
		associations: map[int]model.Association{},
		view:         ViewLogin,
	}

	if manager.State() == session.StateAuthenticated {
		a.view = ViewBrowse
	}
	return a
}

// Init starts the second ticker and, with a restored session, the first
// data load.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{session.TickCmd(), a.spin.Tick}
	if a.view == ViewBrowse {
		a.loading = true
		cmds = append(cmds, a.loadAnimalsCmd(), a.loadAssociationsCmd())
	}
	return tea.Batch(cmds...)
}

// CurrentView returns the active screen (for tests).
func (a *App) CurrentView() View {
	return a.view
}

// associationFor resolves the association of a listing, nil if unknown.
func (a *App) associationFor(animal model.Animal) *model.Association {
	if assoc, ok := a.associations[animal.AssociationID]; ok {
		return &assoc
	}
	return nil
}
