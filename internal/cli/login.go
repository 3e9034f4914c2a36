// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/peterh/liner"
)

// =============================================================================
// LOGIN / LOGOUT
// =============================================================================

// runLogin signs in against the API and persists the session so both
// the interactive client and the other commands pick it up.
func (r *Runner) runLogin(ctx context.Context, args *ArgParser) error {
	email := strings.TrimSpace(args.Flag("email"))
	if email == "" {
		var err error
		email, err = r.promptEmail()
		if err != nil {
			return err
		}
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%q is not an email address", email)
	}

	password, err := r.promptPassword()
	if err != nil {
		return err
	}
	if password == "" {
		return errors.New("password must not be empty")
	}

	resp, err := r.client.Signin(ctx, email, password)
	if err != nil {
		return err
	}

	expiration := time.Now().Add(r.cfg.ValidityWindow())
	if err := r.store.Save(resp.Token, resp.User, expiration); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	fmt.Fprintln(r.stdout, successStyle.Render("Signed in")+
		valueStyle.Render(" as "+resp.User.Email+" ("+resp.User.Role.String()+")"))
	fmt.Fprintln(r.stdout, dimStyle.Render(
		"Session valid until "+expiration.Format("15:04")+
			", renewed automatically while the client runs."))
	return nil
}

// runLogout clears the persisted session. Clearing twice is fine.
func (r *Runner) runLogout(_ *ArgParser) error {
	token, _, _ := r.store.Load()
	if token == "" {
		fmt.Fprintln(r.stdout, dimStyle.Render("No session to clear."))
		return nil
	}
	if err := r.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	fmt.Fprintln(r.stdout, successStyle.Render("Signed out."))
	return nil
}

// =============================================================================
// PROMPTS
// =============================================================================

// promptEmail reads the email interactively, or from stdin when piped.
func (r *Runner) promptEmail() (string, error) {
	if !IsTTY() {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", errors.New("no terminal, pass --email or pipe it on stdin")
		}
		return strings.TrimSpace(line), nil
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	email, err := line.Prompt("Email: ")
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", errors.New("login aborted")
		}
		return "", err
	}
	return strings.TrimSpace(email), nil
}

// promptPassword reads the password without echo on a terminal, and
// falls back to a plain stdin line when piped (for scripted logins).
func (r *Runner) promptPassword() (string, error) {
	if !IsTTY() {
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", errors.New("no terminal, pipe the password on stdin")
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(r.stdout, "Password: ")
	return ReadPassword()
}

// sessionTimeLeft formats the remaining session lifetime for display.
func sessionTimeLeft(expiration time.Time) string {
	left := time.Until(expiration)
	if left <= 0 {
		return "expired"
	}
	left = left.Round(time.Second)
	if left >= time.Hour {
		return fmt.Sprintf("%dh%02dm", int(left.Hours()), int(left.Minutes())%60)
	}
	return fmt.Sprintf("%dm%02ds", int(left.Minutes()), int(left.Seconds())%60)
}
