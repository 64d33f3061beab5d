package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"park-staff", "finance", "government", "auditor", "admin"} {
		role, err := ParseRole(valid)
		require.NoError(t, err)
		assert.Equal(t, Role(valid), role)
	}

	for _, invalid := range []string{"", "staff", "Finance", "root"} {
		_, err := ParseRole(invalid)
		assert.Error(t, err, "role %q must not parse", invalid)
	}
}

func TestCan_PermissionTable(t *testing.T) {
	allRoles := []Role{RoleParkStaff, RoleFinance, RoleGovernment, RoleAuditor, RoleAdmin}

	type key struct {
		role   Role
		action Action
		entity Entity
	}
	allowed := map[key]bool{
		{RoleParkStaff, ActionCreate, EntityFundRequest}: true,
		{RoleParkStaff, ActionUpdate, EntityFundRequest}: true,
		{RoleFinance, ActionReview, EntityFundRequest}:   true,

		{RoleFinance, ActionCreate, EntityExtraFundsRequest}:    true,
		{RoleFinance, ActionUpdate, EntityExtraFundsRequest}:    true,
		{RoleGovernment, ActionReview, EntityExtraFundsRequest}: true,

		{RoleFinance, ActionCreate, EntityEmergencyRequest}:    true,
		{RoleFinance, ActionUpdate, EntityEmergencyRequest}:    true,
		{RoleGovernment, ActionReview, EntityEmergencyRequest}: true,

		{RoleFinance, ActionCreate, EntityBudget}:    true,
		{RoleFinance, ActionUpdate, EntityBudget}:    true,
		{RoleFinance, ActionSubmit, EntityBudget}:    true,
		{RoleGovernment, ActionReview, EntityBudget}: true,
	}

	for _, role := range allRoles {
		for _, action := range []Action{ActionCreate, ActionUpdate, ActionSubmit, ActionReview} {
			for _, entity := range []Entity{EntityFundRequest, EntityExtraFundsRequest, EntityEmergencyRequest, EntityBudget} {
				want := allowed[key{role, action, entity}]
				assert.Equal(t, want, Can(role, action, entity),
					"%s %s %s", role, action, entity)
			}
		}
	}
}

func TestCan_AuditorAndAdminAreReadOnly(t *testing.T) {
	for _, role := range []Role{RoleAuditor, RoleAdmin} {
		for _, action := range []Action{ActionCreate, ActionUpdate, ActionSubmit, ActionReview} {
			for _, entity := range []Entity{EntityFundRequest, EntityExtraFundsRequest, EntityEmergencyRequest, EntityBudget} {
				assert.False(t, Can(role, action, entity), "%s must not %s %s", role, action, entity)
			}
		}
	}
}
