package models

import "testing"

func TestParseRole(t *testing.T) {
	for _, s := range []string{"head_admin", "admin", "msu", "storage", "surgery"} {
		role, err := ParseRole(s)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", s, err)
		}
		if string(role) != s {
			t.Fatalf("expected %q, got %q", s, role)
		}
	}
	if _, err := ParseRole("janitor"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestRole_Elevated(t *testing.T) {
	tests := []struct {
		role     Role
		elevated bool
	}{
		{RoleHeadAdmin, true},
		{RoleAdmin, true},
		{RoleMSU, false},
		{RoleStorage, false},
		{RoleSurgery, false},
	}
	for _, tc := range tests {
		if got := tc.role.Elevated(); got != tc.elevated {
			t.Fatalf("%s: expected %v, got %v", tc.role, tc.elevated, got)
		}
	}
}

func TestActor_HomeLocation(t *testing.T) {
	tests := []struct {
		name  string
		actor Actor
		want  Location
		ok    bool
	}{
		{"msu actor", Actor{Role: RoleMSU}, LocationMSU, true},
		{"storage actor", Actor{Role: RoleStorage}, LocationStorage, true},
		{"surgery actor with room", Actor{Role: RoleSurgery, Room: 4}, SurgeryRoom(4), true},
		{"surgery actor without room", Actor{Role: RoleSurgery}, "", false},
		{"admin", Actor{Role: RoleAdmin}, "", false},
		{"head admin", Actor{Role: RoleHeadAdmin}, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.actor.HomeLocation()
			if ok != tc.ok || got != tc.want {
				t.Fatalf("expected (%q, %v), got (%q, %v)", tc.want, tc.ok, got, ok)
			}
		})
	}
}
