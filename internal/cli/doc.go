// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-interactive fosterly commands and the
// shared argument parsing.
//
// The interactive client is the default; everything here exists for
// scripting and quick checks: signing in, listing animals, filing and
// reviewing fostering requests, and managing the offline cache. All
// commands reuse the same session store as the interactive client, so
// a "fosterly login" session carries over.
package cli
