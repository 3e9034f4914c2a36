// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fosterly/fosterly-tui/internal/config"
	"github.com/fosterly/fosterly-tui/internal/model"
)

// =============================================================================
// ARG PARSER
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"list"},
			wantSub: "list",
		},
		{
			name:    "flag with value",
			args:    []string{"list", "--species", "dog"},
			wantSub: "list",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("species") != "dog" {
					t.Errorf("Flag(species) = %q, want dog", p.Flag("species"))
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"list", "--query=young beagle"},
			wantSub: "list",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("query") != "young beagle" {
					t.Errorf("Flag(query) = %q", p.Flag("query"))
				}
			},
		},
		{
			name:    "boolean flag",
			args:    []string{"list", "--json"},
			wantSub: "list",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("json") {
					t.Error("BoolFlag(json) should be true")
				}
			},
		},
		{
			name:    "explicit false boolean",
			args:    []string{"list", "--json=false"},
			wantSub: "list",
			validate: func(t *testing.T, p *ArgParser) {
				if p.BoolFlag("json") {
					t.Error("BoolFlag(json) should be false")
				}
				if !p.HasFlag("json") {
					t.Error("HasFlag(json) should be true")
				}
			},
		},
		{
			name:    "positional args after subcommand",
			args:    []string{"file", "42", "we", "love", "beagles"},
			wantSub: "file",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Positional(1) != "42" {
					t.Errorf("Positional(1) = %q", p.Positional(1))
				}
				got := strings.Join(p.PositionalFrom(2), " ")
				if got != "we love beagles" {
					t.Errorf("PositionalFrom(2) = %q", got)
				}
			},
		},
		{
			name: "no args",
			args: nil,
			validate: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 0 {
					t.Errorf("PositionalCount() = %d", p.PositionalCount())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.args)
			if p.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", p.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestArgParser_IntFlags(t *testing.T) {
	p := NewArgParser([]string{"list", "--association", "12"})
	if got := p.FlagIntOrDefault("association", 0); got != 12 {
		t.Errorf("FlagIntOrDefault = %d, want 12", got)
	}
	if got := p.FlagIntOrDefault("missing", 7); got != 7 {
		t.Errorf("FlagIntOrDefault(missing) = %d, want 7", got)
	}
	if _, err := p.FlagInt("missing"); err == nil {
		t.Error("FlagInt(missing) should error")
	}
}

func TestArgParser_PositionalID(t *testing.T) {
	p := NewArgParser([]string{"show", "42"})
	id, err := p.PositionalID(1, "animal id")
	if err != nil || id != 42 {
		t.Errorf("PositionalID = %d, %v", id, err)
	}

	p = NewArgParser([]string{"show", "rex"})
	if _, err := p.PositionalID(1, "animal id"); err == nil {
		t.Error("non-numeric id should error")
	}

	p = NewArgParser([]string{"show"})
	if _, err := p.PositionalID(1, "animal id"); err == nil {
		t.Error("missing id should error")
	}
}

// =============================================================================
// COMMAND TABLE
// =============================================================================

func TestParse_CommandTable(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{nil, CommandTUI},
		{[]string{"tui"}, CommandTUI},
		{[]string{"login"}, CommandLogin},
		{[]string{"signin"}, CommandLogin},
		{[]string{"logout"}, CommandLogout},
		{[]string{"status", "--json"}, CommandStatus},
		{[]string{"animals", "list"}, CommandAnimals},
		{[]string{"asks", "file", "3"}, CommandAsks},
		{[]string{"associations"}, CommandAssociations},
		{[]string{"cache", "stats"}, CommandCache},
		{[]string{"config", "show"}, CommandConfig},
		{[]string{"version"}, CommandVersion},
		{[]string{"--help"}, CommandHelp},
		{[]string{"frobnicate"}, CommandUnknown},
	}
	for _, tt := range tests {
		got, _ := Parse(tt.argv)
		if got != tt.want {
			t.Errorf("Parse(%v) = %v, want %v", tt.argv, got, tt.want)
		}
	}
}

func TestParse_PassesArgsThrough(t *testing.T) {
	cmd, args := Parse([]string{"animals", "list", "--species", "cat", "--json"})
	if cmd != CommandAnimals {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.Subcommand() != "list" || args.Flag("species") != "cat" || !args.BoolFlag("json") {
		t.Errorf("args not carried through: %v", args.Raw())
	}
}

// =============================================================================
// RUNNER
// =============================================================================

func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Session.StorePath = filepath.Join(t.TempDir(), "session.json")
	cfg.Cache.DatabasePath = filepath.Join(t.TempDir(), "listings.db")

	r, err := NewRunner(cfg)
	if err != nil {
		t.Fatalf("NewRunner failed: %v", err)
	}
	t.Cleanup(r.Close)

	var out bytes.Buffer
	r.stdout = &out
	r.stderr = &out
	return r, &out
}

func signIn(t *testing.T, r *Runner, role model.Role) {
	t.Helper()
	user := model.User{ID: 1, Email: "a@b.com", Role: role}
	if role == model.RoleFamily {
		famID := 7
		user.FamilyID = &famID
	}
	err := r.store.Save("tok", user, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
}

func TestRunner_RequireSession(t *testing.T) {
	r, _ := newTestRunner(t)

	if _, err := r.requireSession(); !errors.Is(err, ErrNotSignedIn) {
		t.Errorf("err = %v, want ErrNotSignedIn", err)
	}

	signIn(t, r, model.RoleFamily)
	user, err := r.requireSession()
	if err != nil {
		t.Fatalf("requireSession failed: %v", err)
	}
	if user.Email != "a@b.com" {
		t.Errorf("user = %+v", user)
	}
	if r.client.Token() != "tok" {
		t.Errorf("token not installed on the client")
	}
}

func TestRunner_RequireSessionExpired(t *testing.T) {
	r, _ := newTestRunner(t)
	err := r.store.Save("tok", model.User{ID: 1, Role: model.RoleFamily},
		time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := r.requireSession(); err == nil ||
		!strings.Contains(err.Error(), "expired") {
		t.Errorf("err = %v, want expired", err)
	}
}

func TestRunner_LogoutClearsStore(t *testing.T) {
	r, out := newTestRunner(t)
	signIn(t, r, model.RoleFamily)

	if err := r.runLogout(NewArgParser(nil)); err != nil {
		t.Fatalf("runLogout failed: %v", err)
	}
	if token, _, _ := r.store.Load(); token != "" {
		t.Error("store should be empty after logout")
	}
	if !strings.Contains(out.String(), "Signed out") {
		t.Errorf("output = %q", out.String())
	}

	// Logging out twice is a quiet no-op.
	out.Reset()
	if err := r.runLogout(NewArgParser(nil)); err != nil {
		t.Fatalf("second runLogout failed: %v", err)
	}
	if !strings.Contains(out.String(), "No session") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunner_StatusJSON(t *testing.T) {
	r, out := newTestRunner(t)
	signIn(t, r, model.RoleFamily)

	err := r.runStatus(context.Background(), NewArgParser([]string{"--json"}))
	if err != nil {
		t.Fatalf("runStatus failed: %v", err)
	}

	var env struct {
		Success bool         `json:"success"`
		Data    statusReport `json:"data"`
	}
	if err := json.Unmarshal(out.Bytes(), &env); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if !env.Success || !env.Data.SignedIn || env.Data.Email != "a@b.com" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestRunner_StatusSignedOut(t *testing.T) {
	r, out := newTestRunner(t)
	if err := r.runStatus(context.Background(), NewArgParser(nil)); err != nil {
		t.Fatalf("runStatus failed: %v", err)
	}
	if !strings.Contains(out.String(), "signed out") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunner_CachedAnimalsWithoutSession(t *testing.T) {
	// --cached must work signed out; that is the point of the cache.
	r, out := newTestRunner(t)
	ctx := context.Background()

	cache, err := r.openCache()
	if err != nil {
		t.Fatalf("openCache failed: %v", err)
	}
	animals := []model.Animal{
		{ID: 1, Name: "Rex", Species: "dog", AssociationID: 1, Available: true},
	}
	if err := cache.ReplaceAnimals(ctx, animals); err != nil {
		t.Fatalf("ReplaceAnimals failed: %v", err)
	}

	err = r.runAnimals(ctx, NewArgParser([]string{"list", "--cached"}))
	if err != nil {
		t.Fatalf("runAnimals failed: %v", err)
	}
	if !strings.Contains(out.String(), "Rex") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunner_AsksRoleGate(t *testing.T) {
	r, _ := newTestRunner(t)
	signIn(t, r, model.RoleFamily)
	ctx := context.Background()

	err := r.runAsks(ctx, NewArgParser([]string{"accept", "3"}))
	if err == nil || !strings.Contains(err.Error(), "association") {
		t.Errorf("family accepting should be refused, got %v", err)
	}
}

func TestRunner_ConfigSet(t *testing.T) {
	cfg := config.Default()
	if err := applySetting(cfg, "session.idle_threshold_secs", "1800"); err != nil {
		t.Fatalf("applySetting failed: %v", err)
	}
	if cfg.Session.IdleThresholdSecs != 1800 {
		t.Errorf("IdleThresholdSecs = %d", cfg.Session.IdleThresholdSecs)
	}

	if err := applySetting(cfg, "cache.enabled", "off"); err != nil {
		t.Fatalf("applySetting failed: %v", err)
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false")
	}

	if err := applySetting(cfg, "nope.nope", "x"); err == nil {
		t.Error("unknown key should error")
	}
	if err := applySetting(cfg, "ui.page_size", "many"); err == nil {
		t.Error("non-numeric int should error")
	}
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

func TestSpeciesLabel(t *testing.T) {
	if got := speciesLabel("dog"); got != "Dog" {
		t.Errorf("speciesLabel(dog) = %q", got)
	}
	if got := speciesLabel(""); got != "?" {
		t.Errorf("speciesLabel(empty) = %q", got)
	}
}

func TestPad(t *testing.T) {
	if got := pad("ab", 5); got != "ab   " {
		t.Errorf("pad = %q", got)
	}
	if got := pad("abcdefgh", 5); len([]rune(got)) != 5 {
		t.Errorf("pad should truncate to width, got %q", got)
	}
}

func TestOneLine(t *testing.T) {
	got := oneLine("we\nlove\nbeagles", 48)
	if got != "we love beagles" {
		t.Errorf("oneLine = %q", got)
	}
}

func TestSessionTimeLeft(t *testing.T) {
	if got := sessionTimeLeft(time.Now().Add(-time.Minute)); got != "expired" {
		t.Errorf("sessionTimeLeft(past) = %q", got)
	}
	got := sessionTimeLeft(time.Now().Add(90 * time.Minute))
	if !strings.HasPrefix(got, "1h") {
		t.Errorf("sessionTimeLeft(90m) = %q", got)
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"true", "YES", "y", "1", "on"} {
		if v, err := parseBoolString(s); err != nil || !v {
			t.Errorf("parseBoolString(%q) = %v, %v", s, v, err)
		}
	}
	for _, s := range []string{"false", "no", "N", "0", "off"} {
		if v, err := parseBoolString(s); err != nil || v {
			t.Errorf("parseBoolString(%q) = %v, %v", s, v, err)
		}
	}
	if _, err := parseBoolString("maybe"); err == nil {
		t.Error("parseBoolString(maybe) should error")
	}
}
