package businessflow

import (
	"testing"

	"github.com/mnemosyne-app/mnemosyne/models"
	"github.com/mnemosyne-app/mnemosyne/utils"
	"github.com/stretchr/testify/assert"
)

func TestDecideEventAccess(t *testing.T) {
	owner := &models.User{ID: 1, Roles: []string{models.RoleUser}}
	stranger := &models.User{ID: 2, Roles: []string{models.RoleUser}}
	admin := &models.User{ID: 3, Roles: []string{models.RoleUser, models.RoleAdmin}, IsActive: utils.ToPtr(true)}
	event := &models.Event{ID: 10, AuthorID: owner.ID}

	permissions := []Permission{PermissionView, PermissionEdit, PermissionDelete}

	t.Run("OwnerIsAllowedEverything", func(t *testing.T) {
		for _, p := range permissions {
			assert.Equal(t, DecisionAllow, DecideEventAccess(p, owner, event), "permission %s", p)
		}
	})

	t.Run("NonOwnerIsDenied", func(t *testing.T) {
		for _, p := range permissions {
			assert.Equal(t, DecisionDeny, DecideEventAccess(p, stranger, event), "permission %s", p)
		}
	})

	t.Run("AdminRoleGrantsNoOverride", func(t *testing.T) {
		for _, p := range permissions {
			assert.Equal(t, DecisionDeny, DecideEventAccess(p, admin, event), "permission %s", p)
		}
	})

	t.Run("AnonymousIsDenied", func(t *testing.T) {
		assert.Equal(t, DecisionDeny, DecideEventAccess(PermissionView, nil, event))
	})

	t.Run("UnknownPermissionAbstains", func(t *testing.T) {
		assert.Equal(t, DecisionAbstain, DecideEventAccess(Permission("PUBLISH"), owner, event))
	})

	t.Run("NilEventAbstains", func(t *testing.T) {
		assert.Equal(t, DecisionAbstain, DecideEventAccess(PermissionView, owner, nil))
	})
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "allow", DecisionAllow.String())
	assert.Equal(t, "deny", DecisionDeny.String())
	assert.Equal(t, "abstain", DecisionAbstain.String())
}
