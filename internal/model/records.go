// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// =============================================================================
// ANIMAL
// =============================================================================

// Animal is a listing published by an association.
// Description is markdown and rendered as such by the UI.
type Animal struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Species       string    `json:"species"` // "dog", "cat", ...
	Breed         string    `json:"breed,omitempty"`
	Sex           string    `json:"sex,omitempty"`
	BirthDate     *ShortDate `json:"birthDate,omitempty"`
	Description   string    `json:"description,omitempty"`
	PhotoKeys     []string  `json:"photoKeys,omitempty"`
	AssociationID int       `json:"associationId"`
	Available     bool      `json:"available"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

// Age returns the animal's age in full years at the given time, or -1
// when the birth date is unknown.
func (a Animal) Age(now time.Time) int {
	if a.BirthDate == nil {
		return -1
	}
	birth := time.Time(*a.BirthDate)
	years := now.Year() - birth.Year()
	if now.YearDay() < birth.YearDay() {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// =============================================================================
// FAMILY / ASSOCIATION PROFILES
// =============================================================================

// Family is a foster family profile.
type Family struct {
	ID       int    `json:"id"`
	UserID   int    `json:"userId"`
	Capacity int    `json:"capacity"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	ZipCode  string `json:"zipCode,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Association is an animal-welfare association profile.
type Association struct {
	ID             int    `json:"id"`
	UserID         int    `json:"userId"`
	Name           string `json:"name"`
	RegistrationID string `json:"registrationId,omitempty"`
	Address        string `json:"address,omitempty"`
	City           string `json:"city,omitempty"`
	ZipCode        string `json:"zipCode,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Description    string `json:"description,omitempty"`
}

// =============================================================================
// ASK (ADOPTION / FOSTERING REQUEST)
// =============================================================================

// AskStatus is the closed set of states an ask can be in. The backend
// owns the transitions; the client only displays and submits them.
type AskStatus string

const (
	AskPending  AskStatus = "pending"
	AskAccepted AskStatus = "accepted"
	AskRefused  AskStatus = "refused"
)

// Valid reports whether the status is a known value.
func (s AskStatus) Valid() bool {
	switch s {
	case AskPending, AskAccepted, AskRefused:
		return true
	}
	return false
}

// Ask is a fostering/adoption request filed by a family for an animal.
type Ask struct {
	ID        int       `json:"id"`
	FamilyID  int       `json:"familyId"`
	AnimalID  int       `json:"animalId"`
	Status    AskStatus `json:"status"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// =============================================================================
// SHORT DATE
// =============================================================================

// ShortDate is a date-only value serialized as "2006-01-02", matching
// how the API transmits birth dates.
type ShortDate time.Time

const shortDateLayout = "2006-01-02"

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d ShortDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(shortDateLayout))
}

// UnmarshalJSON decodes "YYYY-MM-DD", tolerating full RFC 3339 stamps.
func (d *ShortDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	t, err := time.Parse(shortDateLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", s, err)
		}
	}
	*d = ShortDate(t)
	return nil
}

// String returns the date in "YYYY-MM-DD" form.
func (d ShortDate) String() string {
	return time.Time(d).Format(shortDateLayout)
}

// ParseShortDate parses a "YYYY-MM-DD" string.
func ParseShortDate(s string) (ShortDate, error) {
	t, err := time.Parse(shortDateLayout, s)
	if err != nil {
		return ShortDate{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return ShortDate(t), nil
}
