// Copyright (c) 2025 Fosterly Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
	"time"
)

// =============================================================================
// ROLE TESTS
// =============================================================================

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"family", RoleFamily, false},
		{"association", RoleAssociation, false},
		{"admin", RoleAdmin, false},
		{"FAMILY", Role(-1), true},
		{"", Role(-1), true},
		{"superuser", Role(-1), true},
	}

	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRole(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseRole(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRole_RoundTrip(t *testing.T) {
	for _, r := range []Role{RoleFamily, RoleAssociation, RoleAdmin} {
		parsed, err := ParseRole(r.String())
		if err != nil {
			t.Fatalf("ParseRole(%q) failed: %v", r.String(), err)
		}
		if parsed != r {
			t.Errorf("round trip %v -> %q -> %v", r, r.String(), parsed)
		}
	}
}

func TestRole_JSON(t *testing.T) {
	data, err := json.Marshal(RoleAssociation)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `"association"` {
		t.Errorf("Marshal = %s, want %q", data, `"association"`)
	}

	var r Role
	if err := json.Unmarshal([]byte(`"admin"`), &r); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if r != RoleAdmin {
		t.Errorf("Unmarshal = %v, want RoleAdmin", r)
	}

	if err := json.Unmarshal([]byte(`"wizard"`), &r); err == nil {
		t.Error("Unmarshal of unknown role should fail")
	}
}

func TestRole_Permissions(t *testing.T) {
	tests := []struct {
		role          Role
		manageAnimals bool
		fileAsk       bool
		reviewAsks    bool
	}{
		{RoleFamily, false, true, false},
		{RoleAssociation, true, false, true},
		{RoleAdmin, true, false, true},
	}

	for _, tt := range tests {
		if got := tt.role.CanManageAnimals(); got != tt.manageAnimals {
			t.Errorf("%v.CanManageAnimals() = %v, want %v", tt.role, got, tt.manageAnimals)
		}
		if got := tt.role.CanFileAsk(); got != tt.fileAsk {
			t.Errorf("%v.CanFileAsk() = %v, want %v", tt.role, got, tt.fileAsk)
		}
		if got := tt.role.CanReviewAsks(); got != tt.reviewAsks {
			t.Errorf("%v.CanReviewAsks() = %v, want %v", tt.role, got, tt.reviewAsks)
		}
	}
}

// =============================================================================
// USER TESTS
// =============================================================================

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"full name", User{FirstName: "Ana", LastName: "Costa", Email: "a@b.com"}, "Ana Costa"},
		{"first only", User{FirstName: "Ana", Email: "a@b.com"}, "Ana"},
		{"last only", User{LastName: "Costa", Email: "a@b.com"}, "Costa"},
		{"email fallback", User{Email: "a@b.com"}, "a@b.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUser_JSONShape(t *testing.T) {
	raw := `{"id":1,"email":"a@b.com","role":"family","firstName":"Ana","familyId":7}`

	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if u.ID != 1 || u.Role != RoleFamily {
		t.Errorf("unexpected user: %+v", u)
	}
	if u.FamilyID == nil || *u.FamilyID != 7 {
		t.Errorf("FamilyID = %v, want 7", u.FamilyID)
	}
	if u.AssociationID != nil {
		t.Errorf("AssociationID should be nil, got %v", *u.AssociationID)
	}
}

// =============================================================================
// RECORD TESTS
// =============================================================================

func TestAnimal_Age(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	birth := ShortDate(time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC))
	a := Animal{BirthDate: &birth}
	if got := a.Age(now); got != 5 {
		t.Errorf("Age = %d, want 5", got)
	}

	// Birthday not yet reached this year.
	late := ShortDate(time.Date(2020, 9, 1, 0, 0, 0, 0, time.UTC))
	a = Animal{BirthDate: &late}
	if got := a.Age(now); got != 4 {
		t.Errorf("Age = %d, want 4", got)
	}

	// Unknown birth date.
	a = Animal{}
	if got := a.Age(now); got != -1 {
		t.Errorf("Age = %d, want -1", got)
	}
}

func TestShortDate_JSON(t *testing.T) {
	var d ShortDate
	if err := json.Unmarshal([]byte(`"2021-11-03"`), &d); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if d.String() != "2021-11-03" {
		t.Errorf("String = %q, want 2021-11-03", d.String())
	}

	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != `"2021-11-03"` {
		t.Errorf("Marshal = %s", out)
	}

	// RFC 3339 stamps from the API are tolerated.
	if err := json.Unmarshal([]byte(`"2021-11-03T00:00:00Z"`), &d); err != nil {
		t.Errorf("RFC 3339 should be tolerated: %v", err)
	}

	if err := json.Unmarshal([]byte(`"yesterday"`), &d); err == nil {
		t.Error("invalid date should fail")
	}
}

func TestAskStatus_Valid(t *testing.T) {
	for _, s := range []AskStatus{AskPending, AskAccepted, AskRefused} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if AskStatus("maybe").Valid() {
		t.Error(`"maybe" should not be valid`)
	}
}
