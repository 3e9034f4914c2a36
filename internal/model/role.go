// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data shapes mirrored from the Fosterly API.
//
// Records are plain transfer shapes: the backend owns validation and
// relational integrity, the client fetches, displays and sends them back.
package model

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// ROLE ENUM
// =============================================================================

// Role identifies the kind of authenticated principal. The set is closed:
// every authorization decision in the client switches exhaustively over
// these three values instead of comparing role strings at call sites.
type Role int

const (
	// RoleFamily is a foster family browsing animals and filing asks.
	RoleFamily Role = iota
	// RoleAssociation is an animal-welfare association managing its animals.
	RoleAssociation
	// RoleAdmin oversees users, families and associations.
	RoleAdmin
)

// roleNames maps roles to their wire representation.
var roleNames = map[Role]string{
	RoleFamily:      "family",
	RoleAssociation: "association",
	RoleAdmin:       "admin",
}

// String returns the wire name of the role.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether the role is one of the three known values.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// ParseRole converts a wire role string into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "family":
		return RoleFamily, nil
	case "association":
		return RoleAssociation, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return Role(-1), fmt.Errorf("unknown role %q", s)
	}
}

// MarshalJSON encodes the role as its wire string.
func (r Role) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal unknown role %d", int(r))
	}
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a wire role string.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// CanManageAnimals reports whether the role may create, edit or delete
// animal records.
func (r Role) CanManageAnimals() bool {
	switch r {
	case RoleAssociation, RoleAdmin:
		return true
	case RoleFamily:
		return false
	}
	return false
}

// CanFileAsk reports whether the role may file an adoption request.
func (r Role) CanFileAsk() bool {
	switch r {
	case RoleFamily:
		return true
	case RoleAssociation, RoleAdmin:
		return false
	}
	return false
}

// CanReviewAsks reports whether the role may accept or refuse asks.
func (r Role) CanReviewAsks() bool {
	switch r {
	case RoleAssociation, RoleAdmin:
		return true
	case RoleFamily:
		return false
	}
	return false
}
