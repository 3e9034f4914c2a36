// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// User is the authenticated principal as returned by POST /signin and
// GET /users/me. FamilyID and AssociationID are nullable foreign keys
// to the matching profile record; at most one is set, depending on role.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	FamilyID      *int `json:"familyId,omitempty"`
	AssociationID *int `json:"associationId,omitempty"`
}

// DisplayName returns the user's name for UI display, falling back to
// the email address when no name fields are set.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Email
	}
}
