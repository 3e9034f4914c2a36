// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fosterly/fosterly-tui/internal/config"
	"github.com/fosterly/fosterly-tui/internal/util"
)

// =============================================================================
// CONFIG
// =============================================================================

func (r *Runner) runConfig(args *ArgParser) error {
	switch args.Subcommand() {
	case "", "show":
		return r.configShow(args)
	case "path":
		return r.configPath()
	case "set":
		return r.configSet(args)
	}
	return fmt.Errorf("unknown config subcommand %q", args.Subcommand())
}

func (r *Runner) configShow(args *ArgParser) error {
	if args.BoolFlag("json") {
		return writeJSON(r.stdout, "config show", r.cfg)
	}

	fmt.Fprintln(r.stdout, titleStyle.Render("Configuration"))
	fmt.Fprintln(r.stdout, field("api.base_url", r.cfg.API.BaseURL))
	fmt.Fprintln(r.stdout, field("api.timeout_secs", util.IntToString(r.cfg.API.TimeoutSecs)))
	fmt.Fprintln(r.stdout, field("api.max_retries", util.IntToString(r.cfg.API.MaxRetries)))
	fmt.Fprintln(r.stdout, field("session.idle_threshold_secs",
		util.IntToString(r.cfg.Session.IdleThresholdSecs)))
	fmt.Fprintln(r.stdout, field("session.validity_window_secs",
		util.IntToString(r.cfg.Session.ValidityWindowSecs)))
	fmt.Fprintln(r.stdout, field("session.refresh_poll_secs",
		util.IntToString(r.cfg.Session.RefreshPollSecs)))
	fmt.Fprintln(r.stdout, field("session.refresh_low_water_secs",
		util.IntToString(r.cfg.Session.RefreshLowWaterSecs)))
	fmt.Fprintln(r.stdout, field("cache.enabled", strconv.FormatBool(r.cfg.Cache.Enabled)))
	fmt.Fprintln(r.stdout, field("ui.color_mode", r.cfg.UI.ColorMode))
	fmt.Fprintln(r.stdout, field("ui.page_size", util.IntToString(r.cfg.UI.PageSize)))
	return nil
}

func (r *Runner) configPath() error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}
	fmt.Fprintln(r.stdout, path)
	return nil
}

// configSet updates one setting in the TOML file. The new value goes
// through the same validation as a hand-edited file, so out-of-range
// timings are clamped rather than written verbatim.
func (r *Runner) configSet(args *ArgParser) error {
	key := args.Positional(1)
	value := args.Positional(2)
	if key == "" || value == "" {
		return fmt.Errorf("usage: fosterly config set <key> <value>")
	}

	if err := applySetting(r.cfg, key, value); err != nil {
		return err
	}
	if err := r.cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(r.cfg); err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}

	fmt.Fprintln(r.stdout, successStyle.Render("Updated ")+valueStyle.Render(key))
	return nil
}

func applySetting(cfg *config.Config, key, value string) error {
	switch key {
	case "api.base_url":
		cfg.API.BaseURL = value
	case "api.asset_base_url":
		cfg.API.AssetBaseURL = value
	case "api.timeout_secs":
		return setInt(&cfg.API.TimeoutSecs, key, value)
	case "api.max_retries":
		return setInt(&cfg.API.MaxRetries, key, value)
	case "session.idle_threshold_secs":
		return setInt(&cfg.Session.IdleThresholdSecs, key, value)
	case "session.validity_window_secs":
		return setInt(&cfg.Session.ValidityWindowSecs, key, value)
	case "session.refresh_poll_secs":
		return setInt(&cfg.Session.RefreshPollSecs, key, value)
	case "session.refresh_low_water_secs":
		return setInt(&cfg.Session.RefreshLowWaterSecs, key, value)
	case "cache.enabled":
		enabled, err := parseBoolString(value)
		if err != nil {
			return err
		}
		cfg.Cache.Enabled = enabled
	case "cache.database_path":
		cfg.Cache.DatabasePath = value
	case "cache.max_animals":
		return setInt(&cfg.Cache.MaxAnimals, key, value)
	case "ui.color_mode":
		cfg.UI.ColorMode = value
	case "ui.page_size":
		return setInt(&cfg.UI.PageSize, key, value)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s must be a number, got %q", key, value)
	}
	*dst = n
	return nil
}

// parseBoolString accepts the usual spellings of a boolean.
func parseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "on":
		return true, nil
	case "false", "no", "n", "0", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value %q", s)
}
