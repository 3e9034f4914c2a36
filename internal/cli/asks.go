// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fosterly/fosterly-tui/internal/api"
	"github.com/fosterly/fosterly-tui/internal/model"
	"github.com/fosterly/fosterly-tui/internal/util"
)

// =============================================================================
// FOSTERING REQUESTS
// =============================================================================

func (r *Runner) runAsks(ctx context.Context, args *ArgParser) error {
	switch args.Subcommand() {
	case "", "list":
		return r.asksList(ctx, args)
	case "file":
		return r.asksFile(ctx, args)
	case "accept":
		return r.asksReview(ctx, args, model.AskAccepted)
	case "refuse":
		return r.asksReview(ctx, args, model.AskRefused)
	}
	return fmt.Errorf("unknown asks subcommand %q", args.Subcommand())
}

func (r *Runner) asksList(ctx context.Context, args *ArgParser) error {
	user, err := r.requireSession()
	if err != nil {
		return err
	}

	// Families see their own requests; the server scopes association
	// and admin accounts by the bearer token.
	var filter api.AskFilter
	if user.Role == model.RoleFamily && user.FamilyID != nil {
		filter.FamilyID = *user.FamilyID
	}

	asks, err := r.client.ListAsks(ctx, filter)
	if err != nil {
		return err
	}

	if args.BoolFlag("json") {
		return writeJSON(r.stdout, "asks list", asks)
	}

	if len(asks) == 0 {
		fmt.Fprintln(r.stdout, dimStyle.Render("No fostering requests."))
		return nil
	}
	fmt.Fprintln(r.stdout, titleStyle.Render("Fostering requests"))
	for _, ask := range asks {
		var status string
		switch ask.Status {
		case model.AskPending:
			status = warnStyle.Render(pad("pending", 9))
		case model.AskAccepted:
			status = successStyle.Render(pad("accepted", 9))
		case model.AskRefused:
			status = errorStyle.Render(pad("refused", 9))
		default:
			status = pad(string(ask.Status), 9)
		}
		line := pad("#"+util.IntToString(ask.ID), 6) + status +
			"animal #" + util.IntToString(ask.AnimalID)
		if ask.Message != "" {
			line += dimStyle.Render("  " + oneLine(ask.Message, 48))
		}
		fmt.Fprintln(r.stdout, line)
	}
	return nil
}

// asksFile files a fostering request for an animal. Family accounts
// only; the server enforces this too.
func (r *Runner) asksFile(ctx context.Context, args *ArgParser) error {
	animalID, err := args.PositionalID(1, "animal id")
	if err != nil {
		return err
	}

	user, err := r.requireSession()
	if err != nil {
		return err
	}
	if !user.Role.CanFileAsk() {
		return errors.New("only family accounts can file fostering requests")
	}
	if user.FamilyID == nil {
		return errors.New("no family profile on this account")
	}

	ask, err := r.client.CreateAsk(ctx, model.Ask{
		FamilyID: *user.FamilyID,
		AnimalID: animalID,
		Status:   model.AskPending,
		Message:  strings.Join(args.PositionalFrom(2), " "),
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(r.stdout, successStyle.Render("Request filed")+
		dimStyle.Render("  (#"+util.IntToString(ask.ID)+", pending review)"))
	return nil
}

func (r *Runner) asksReview(ctx context.Context, args *ArgParser, status model.AskStatus) error {
	askID, err := args.PositionalID(1, "request id")
	if err != nil {
		return err
	}

	user, err := r.requireSession()
	if err != nil {
		return err
	}
	if !user.Role.CanReviewAsks() {
		return errors.New("only association and admin accounts can review requests")
	}

	updated, err := r.client.UpdateAsk(ctx, model.Ask{ID: askID, Status: status})
	if err != nil {
		return err
	}

	fmt.Fprintln(r.stdout, successStyle.Render("Request "+string(updated.Status)))
	return nil
}

// oneLine flattens a message for single-row display.
func oneLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	return util.TruncateRunes(s, max)
}
