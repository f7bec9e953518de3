package settlement

import (
	"testing"

	"comprasmart/domain"

	"github.com/stretchr/testify/assert"
)

func rate(v float64) *float64 { return &v }

func TestResolveRate(t *testing.T) {
	storeDefault := domain.Store{DefaultCommissionRate: rate(15)}
	storeBare := domain.Store{}

	t.Run("product override wins", func(t *testing.T) {
		product := &domain.Product{CommissionRate: rate(8)}
		r, source := ResolveRate(product, storeDefault)
		assert.Equal(t, 8.0, r)
		assert.Equal(t, domain.CommissionSourceProduct, source)
	})

	t.Run("zero override is a real rate", func(t *testing.T) {
		product := &domain.Product{CommissionRate: rate(0)}
		r, source := ResolveRate(product, storeDefault)
		assert.Equal(t, 0.0, r)
		assert.Equal(t, domain.CommissionSourceProduct, source)
	})

	t.Run("store default when product has no override", func(t *testing.T) {
		product := &domain.Product{}
		r, source := ResolveRate(product, storeDefault)
		assert.Equal(t, 15.0, r)
		assert.Equal(t, domain.CommissionSourceStore, source)
	})

	t.Run("store default when sale has no product", func(t *testing.T) {
		r, source := ResolveRate(nil, storeDefault)
		assert.Equal(t, 15.0, r)
		assert.Equal(t, domain.CommissionSourceStore, source)
	})

	t.Run("platform fallback", func(t *testing.T) {
		r, source := ResolveRate(nil, storeBare)
		assert.Equal(t, 10.0, r)
		assert.Equal(t, domain.CommissionSourceStore, source)
	})
}

func TestComputeSplit(t *testing.T) {
	tests := []struct {
		name           string
		gross          int64
		rate           float64
		wantConsultant int64
		wantStore      int64
	}{
		{"whole split", 10000, 8, 800, 9200},
		{"ten percent", 10000, 10, 1000, 9000},
		{"rounds half up", 999, 10, 100, 899},
		{"rounds down below half", 1004, 10, 100, 904},
		{"zero rate", 10000, 0, 0, 10000},
		{"full rate", 10000, 100, 10000, 0},
		{"one cent", 1, 10, 0, 1},
		{"fractional rate", 10000, 12.5, 1250, 8750},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split := ComputeSplit(tt.gross, tt.rate, domain.CommissionSourceStore)
			assert.Equal(t, tt.wantConsultant, split.ConsultantAmount)
			assert.Equal(t, tt.wantStore, split.StoreGrossAmount)
		})
	}
}

func TestComputeSplitSumInvariant(t *testing.T) {
	grosses := []int64{1, 2, 99, 100, 101, 999, 1000, 12345, 99999, 1000000, 7777777}
	rates := []float64{0, 0.5, 1, 3.33, 10, 12.5, 33.33, 50, 99.99, 100}

	for _, gross := range grosses {
		for _, r := range rates {
			split := ComputeSplit(gross, r, domain.CommissionSourceStore)
			assert.Equal(t, gross, split.ConsultantAmount+split.StoreGrossAmount,
				"gross %d at rate %v must split exactly", gross, r)
			assert.GreaterOrEqual(t, split.ConsultantAmount, int64(0))
			assert.GreaterOrEqual(t, split.StoreGrossAmount, int64(0))
		}
	}
}
