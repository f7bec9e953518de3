package score

import (
	"testing"

	"comprasmart/domain"

	"github.com/stretchr/testify/assert"
)

func TestCanViewScore(t *testing.T) {
	assert.False(t, CanViewScore(domain.RoleConsultant), "consultants never see scores, including their own")
	assert.True(t, CanViewScore(domain.RoleStoreOwner))
	assert.True(t, CanViewScore(domain.RoleAdmin))
	assert.False(t, CanViewScore(""))
	assert.False(t, CanViewScore("customer"))
}

func TestCanRecalculate(t *testing.T) {
	assert.True(t, CanRecalculate(domain.RoleAdmin))
	assert.False(t, CanRecalculate(domain.RoleStoreOwner))
	assert.False(t, CanRecalculate(domain.RoleConsultant))
	assert.False(t, CanRecalculate(""))
}
