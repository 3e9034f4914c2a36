// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	HeaderBrand    lipgloss.Style

	// ==========================================================================
	// LISTING TABLE STYLES
	// ==========================================================================

	TableHeader      lipgloss.Style
	TableRow         lipgloss.Style
	TableRowSelected lipgloss.Style
	TableBorder      lipgloss.Style
	AvailableTag     lipgloss.Style
	UnavailableTag   lipgloss.Style

	// ==========================================================================
	// DETAIL VIEW STYLES
	// ==========================================================================

	DetailBox     lipgloss.Style
	DetailTitle   lipgloss.Style
	DetailLabel   lipgloss.Style
	DetailValue   lipgloss.Style
	DetailSection lipgloss.Style

	// ==========================================================================
	// FORM STYLES
	// ==========================================================================

	FormBox          lipgloss.Style
	FormTitle        lipgloss.Style
	FormLabel        lipgloss.Style
	FormLabelFocused lipgloss.Style
	FormError        lipgloss.Style
	FormHint         lipgloss.Style

	// ==========================================================================
	// ASK STATUS STYLES
	// ==========================================================================

	AskPending  lipgloss.Style
	AskAccepted lipgloss.Style
	AskRefused  lipgloss.Style

	// ==========================================================================
	// ROLE BADGE STYLES
	// ==========================================================================

	FamilyBadge      lipgloss.Style
	AssociationBadge lipgloss.Style
	AdminBadge       lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar     lipgloss.Style
	SessionTimer  lipgloss.Style
	SessionLow    lipgloss.Style
	OfflineTag    lipgloss.Style
	ShortcutKey   lipgloss.Style
	ShortcutDesc  lipgloss.Style

	// ==========================================================================
	// OVERLAY STYLES
	// ==========================================================================

	OverlayBox     lipgloss.Style
	OverlayTitle   lipgloss.Style
	OverlayMessage lipgloss.Style
	OverlayHint    lipgloss.Style

	// ==========================================================================
	// TOAST STYLES
	// ==========================================================================

	ToastError   lipgloss.Style
	ToastWarning lipgloss.Style
	ToastInfo    lipgloss.Style

	// ==========================================================================
	// ACCESSIBILITY STYLES
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()
	hasTrueColor := colorProfile == termenv.TrueColor
	isDark := termenv.HasDarkBackground()

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: hasTrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Coral)

	// Listing table
	t.TableHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)

	t.TableRow = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.TableRowSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SelectionBg).
		Bold(true)

	t.TableBorder = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay)

	t.AvailableTag = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.UnavailableTag = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Detail view
	t.DetailBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Teal).
		Padding(1, 2)

	t.DetailTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)

	t.DetailLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Width(14)

	t.DetailValue = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.DetailSection = lipgloss.NewStyle().
		Bold(true).
		Foreground(Coral).
		MarginTop(1)

	// Forms
	t.FormBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 2)

	t.FormTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)

	t.FormLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.FormLabelFocused = lipgloss.NewStyle().
		Foreground(FocusRing).
		Bold(true)

	t.FormError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.FormHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Ask statuses
	t.AskPending = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.AskAccepted = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.AskRefused = lipgloss.NewStyle().
		Foreground(Rose)

	// Role badges
	t.FamilyBadge = lipgloss.NewStyle().
		Foreground(FamilyBadgeFg).
		Background(FamilyBadgeBg).
		Padding(0, 1)

	t.AssociationBadge = lipgloss.NewStyle().
		Foreground(AssociationBadgeFg).
		Background(AssociationBadgeBg).
		Padding(0, 1)

	t.AdminBadge = lipgloss.NewStyle().
		Foreground(AdminBadgeFg).
		Background(AdminBadgeBg).
		Padding(0, 1)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.SessionTimer = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.SessionLow = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.OfflineTag = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Amber).
		Padding(0, 1).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Overlays
	t.OverlayBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Amber).
		Padding(1, 3).
		Align(lipgloss.Center)

	t.OverlayTitle = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.OverlayMessage = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.OverlayHint = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Toasts
	t.ToastError = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Rose).
		Padding(0, 1).
		Bold(true)

	t.ToastWarning = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Amber).
		Padding(0, 1)

	t.ToastInfo = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Teal).
		Padding(0, 1)

	// Accessibility
	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessHighContrast).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(WarningHighContrast).
		Bold(true)

	t.InfoStyle = lipgloss.NewStyle().
		Foreground(InfoHighContrast).
		Bold(true)
}

// SetSize records the terminal dimensions for layout decisions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// IsNarrow reports whether the terminal is too narrow for wide layouts.
func (t *Theme) IsNarrow() bool {
	return t.Width > 0 && t.Width < 80
}
