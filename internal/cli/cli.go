// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

// =============================================================================
// VERSION
// =============================================================================

// Set at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// VersionString returns the full version line printed by the version
// command.
func VersionString() string {
	return "fosterly " + Version + " (" + GitCommit + ", " + BuildDate + ")"
}

// =============================================================================
// COMMANDS
// =============================================================================

// Command identifies a top-level CLI command.
type Command int

const (
	// CommandTUI launches the interactive client. This is the default
	// when no command word is given.
	CommandTUI Command = iota
	// CommandLogin signs in and persists the session.
	CommandLogin
	// CommandLogout clears the persisted session.
	CommandLogout
	// CommandStatus prints session and cache status.
	CommandStatus
	// CommandAnimals lists and inspects listings.
	CommandAnimals
	// CommandAsks manages fostering requests.
	CommandAsks
	// CommandAssociations lists associations.
	CommandAssociations
	// CommandCache manages the offline listings cache.
	CommandCache
	// CommandConfig inspects and edits the configuration file.
	CommandConfig
	// CommandVersion prints the version line.
	CommandVersion
	// CommandHelp prints usage.
	CommandHelp
	// CommandUnknown is anything not in the table.
	CommandUnknown
)

// Parse maps os.Args[1:] onto a command and its parsed arguments.
func Parse(argv []string) (Command, *ArgParser) {
	if len(argv) == 0 {
		return CommandTUI, NewArgParser(nil)
	}

	rest := NewArgParser(argv[1:])
	switch argv[0] {
	case "tui":
		return CommandTUI, rest
	case "login", "signin":
		return CommandLogin, rest
	case "logout", "signout":
		return CommandLogout, rest
	case "status":
		return CommandStatus, rest
	case "animals", "animal":
		return CommandAnimals, rest
	case "asks", "ask":
		return CommandAsks, rest
	case "associations":
		return CommandAssociations, rest
	case "cache":
		return CommandCache, rest
	case "config":
		return CommandConfig, rest
	case "version", "--version", "-v":
		return CommandVersion, rest
	case "help", "--help", "-h":
		return CommandHelp, rest
	}
	return CommandUnknown, NewArgParser(argv)
}

// =============================================================================
// USAGE
// =============================================================================

const usageText = `fosterly - terminal client for the Fosterly animal fostering network

Usage:
  fosterly                       Launch the interactive client
  fosterly login                 Sign in and persist the session
    --email ADDR                 Email address (prompted when omitted)
  fosterly logout                Sign out and clear the stored session
  fosterly status                Show session and cache status
    --json                       Machine-readable output

Listings:
  fosterly animals list          List animal listings
    --species NAME               Filter by species (dog, cat, ...)
    --query TEXT                 Search name and breed
    --association ID             Filter by association
    --available                  Only animals open for fostering
    --cached                     Read the offline cache instead of the API
    --json                       Machine-readable output
  fosterly animals show <id>     Show one listing
    --json                       Machine-readable output
  fosterly associations          List associations
    --json                       Machine-readable output

Fostering requests:
  fosterly asks list             List requests visible to your role
    --json                       Machine-readable output
  fosterly asks file <animal-id> [message...]
                                 File a request (family accounts)
  fosterly asks accept <id>      Accept a request (association accounts)
  fosterly asks refuse <id>      Refuse a request (association accounts)

Offline cache:
  fosterly cache stats           Show cache contents and last sync
    --json                       Machine-readable output
  fosterly cache sync            Refill the cache from the API
  fosterly cache clear           Drop all cached listings
    --confirm                    Skip the confirmation prompt

Configuration:
  fosterly config show           Print the effective configuration
    --json                       Machine-readable output
  fosterly config path           Print the configuration file location
  fosterly config set <key> <value>
                                 Update one setting (e.g. api.base_url)

  fosterly version               Print version
  fosterly help                  Print this text

The session expires after an hour of inactivity; the interactive client
renews it in the background while you use it.
`

// Usage returns the top-level help text.
func Usage() string {
	return usageText
}
