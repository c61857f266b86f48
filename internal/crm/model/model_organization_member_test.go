package model

import "testing"

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role          OrganizationRole
		manageOrg     bool
		manageAll     bool
		rollbackStage bool
	}{
		{RoleOwner, true, true, true},
		{RoleAdmin, true, true, true},
		{RoleManager, false, true, false},
		{RoleMember, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.CanManageOrganization(); got != tt.manageOrg {
				t.Errorf("CanManageOrganization() = %v, want %v", got, tt.manageOrg)
			}
			if got := tt.role.CanManageAllEntities(); got != tt.manageAll {
				t.Errorf("CanManageAllEntities() = %v, want %v", got, tt.manageAll)
			}
			if got := tt.role.CanRollbackStage(); got != tt.rollbackStage {
				t.Errorf("CanRollbackStage() = %v, want %v", got, tt.rollbackStage)
			}
		})
	}
}

func TestRoleValid(t *testing.T) {
	for _, role := range []OrganizationRole{RoleOwner, RoleAdmin, RoleManager, RoleMember} {
		if !role.Valid() {
			t.Errorf("expected %s to be valid", role)
		}
	}
	if OrganizationRole("superuser").Valid() {
		t.Error("expected unknown role to be invalid")
	}
	if OrganizationRole("").Valid() {
		t.Error("expected empty role to be invalid")
	}
}
