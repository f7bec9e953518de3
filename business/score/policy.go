package score

import "comprasmart/domain"

// CanViewScore gates score reads by viewer role. Consultants never see
// scores, not even their own: the rating is an internal store-side signal.
func CanViewScore(viewerRole string) bool {
	switch viewerRole {
	case domain.RoleStoreOwner, domain.RoleAdmin:
		return true
	default:
		return false
	}
}

// CanRecalculate gates manual recalculation triggers.
func CanRecalculate(viewerRole string) bool {
	return viewerRole == domain.RoleAdmin
}
