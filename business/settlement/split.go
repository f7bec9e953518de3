package settlement

import (
	"math"

	"comprasmart/domain"
)

// fallbackRate applies when neither the product nor the store defines a
// commission rate, percent.
const fallbackRate = 10.0

// Split is the resolved commission division for one sale. The store share is
// always derived by subtraction so the two parts sum to the gross amount for
// every input.
type Split struct {
	Rate             float64
	Source           string
	ConsultantAmount int64
	StoreGrossAmount int64
}

// ResolveRate picks the commission rate by precedence: product override,
// then store default, then the platform fallback. A product override of
// zero is a real rate, not an absence.
func ResolveRate(product *domain.Product, store domain.Store) (rate float64, source string) {
	if product != nil && product.CommissionRate != nil {
		return *product.CommissionRate, domain.CommissionSourceProduct
	}
	if store.DefaultCommissionRate != nil {
		return *store.DefaultCommissionRate, domain.CommissionSourceStore
	}
	return fallbackRate, domain.CommissionSourceStore
}

// ComputeSplit divides grossAmount (cents) at the given rate. The consultant
// share rounds half up to a whole cent.
func ComputeSplit(grossAmount int64, rate float64, source string) Split {
	consultant := int64(math.Floor(float64(grossAmount)*rate/100 + 0.5))

	return Split{
		Rate:             rate,
		Source:           source,
		ConsultantAmount: consultant,
		StoreGrossAmount: grossAmount - consultant,
	}
}
