// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/fosterly/fosterly-tui/internal/api"
	"github.com/fosterly/fosterly-tui/internal/config"
	"github.com/fosterly/fosterly-tui/internal/model"
)

// ConfigReloadedMsg is sent by the config file watcher when the file
// changed on disk.
type ConfigReloadedMsg struct {
	Cfg *config.Config
}

// =============================================================================
// ASYNC RESULT MESSAGES
// =============================================================================

// signinResultMsg carries the outcome of a signin attempt.
type signinResultMsg struct {
	resp *api.SigninResponse
	err  error
}

// animalsLoadedMsg carries a listing fetch, possibly served from the
// offline cache.
type animalsLoadedMsg struct {
	animals   []model.Animal
	fromCache bool
	err       error
}

// associationsLoadedMsg carries the association directory.
type associationsLoadedMsg struct {
	associations []model.Association
	fromCache    bool
	err          error
}

// asksLoadedMsg carries the ask list for the current role.
type asksLoadedMsg struct {
	asks []model.Ask
	err  error
}

// animalSavedMsg carries the outcome of a create or update.
type animalSavedMsg struct {
	animal  *model.Animal
	created bool
	err     error
}

// profileLoadedMsg carries the role profile for the profile view.
type profileLoadedMsg struct {
	family      *model.Family
	association *model.Association
	err         error
}

// askFiledMsg carries the outcome of filing a fostering request.
type askFiledMsg struct {
	ask *model.Ask
	err error
}

// askReviewedMsg carries the outcome of accepting or refusing an ask.
type askReviewedMsg struct {
	ask *model.Ask
	err error
}

// availabilityToggledMsg carries the outcome of an availability change.
type availabilityToggledMsg struct {
	animal *model.Animal
	err    error
}
