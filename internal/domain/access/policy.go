// Package access holds the role set and the authorization predicate
// gating mutating organization and user operations. The hierarchy is
// flat: no role implies another.
package access

import (
	"tenanthub/internal/domain/orgs"

	"gorm.io/gorm"
)

const (
	RoleAdmin        = "admin"
	RoleMember       = "member"
	RoleBillingAdmin = "billing_admin"
	RoleSupportAdmin = "support_admin"
)

// EditRoles are the roles independently granted organization edit
// rights. Billing and subscription state is managed by admin only.
var EditRoles = []string{RoleAdmin, RoleBillingAdmin, RoleSupportAdmin}

// ValidRole reports whether r is one of the closed role set.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleMember, RoleBillingAdmin, RoleSupportAdmin:
		return true
	}
	return false
}

// IsAuthorized reports whether actingUserID holds an active membership
// in organizationID whose role is in requiredRoles.
func IsAuthorized(db *gorm.DB, actingUserID, organizationID string, requiredRoles ...string) (bool, error) {
	if actingUserID == "" || len(requiredRoles) == 0 {
		return false, nil
	}
	var count int64
	err := db.Model(&orgs.Membership{}).
		Where("user_account_id = ? AND organization_id = ? AND is_active = ? AND role IN ?",
			actingUserID, organizationID, true, requiredRoles).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
