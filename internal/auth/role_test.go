package auth

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"applicant", RoleApplicant, false},
		{"admin", RoleAdmin, false},
		{"user", "", true},
		{"Admin", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseRole(%q): expected error, got %q", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRole(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRolePermissions(t *testing.T) {
	if RoleApplicant.CanManageJobs() {
		t.Error("applicant must not manage jobs")
	}
	if RoleApplicant.CanReviewApplications() {
		t.Error("applicant must not review applications")
	}
	if !RoleAdmin.CanManageJobs() {
		t.Error("admin must manage jobs")
	}
	if !RoleAdmin.CanReviewApplications() {
		t.Error("admin must review applications")
	}
}
