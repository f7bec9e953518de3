package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceScore(t *testing.T) {
	tests := []struct {
		name        string
		avgStars    float64
		ratingCount int
		want        float64
	}{
		{"perfect average with full confidence", 5.0, 10, 10.0},
		{"perfect average with more than enough ratings", 5.0, 50, 10.0},
		{"perfect average but single rating", 5.0, 1, 1.0},
		{"perfect average at half confidence", 5.0, 5, 5.0},
		{"average 4 with full confidence", 4.0, 20, 8.0},
		{"no ratings", 0, 0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ServiceScore(tt.avgStars, tt.ratingCount), 1e-9)
		})
	}
}

func TestSalesScore(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		last30    int
		avgTicket float64
		want      float64
	}{
		{"all benchmarks met", 100, 20, 300, 10.0},
		{"benchmarks exceeded still caps at ten", 1000, 200, 3000, 10.0},
		{"half volume half activity half ticket", 50, 10, 150, 5.0},
		{"no sales", 0, 0, 0, 0.0},
		{"volume only", 100, 0, 0, 4.0},
		{"ticket only", 0, 0, 300, 2.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SalesScore(tt.total, tt.last30, tt.avgTicket), 1e-9)
		})
	}
}

func TestTrainingScore(t *testing.T) {
	tests := []struct {
		name              string
		completed         int
		total             int
		mandatoryComplete bool
		want              float64
	}{
		{"no trainings assigned", 0, 0, true, 0.0},
		{"all complete", 4, 4, true, 10.0},
		{"half complete mandatory done", 2, 4, true, 5.0},
		{"half complete mandatory pending halves score", 2, 4, false, 2.5},
		{"all but one mandatory", 3, 4, false, 3.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TrainingScore(tt.completed, tt.total, tt.mandatoryComplete), 1e-9)
		})
	}
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{10.0, "Diamond"},
		{9.0, "Diamond"},
		{8.9, "Gold"},
		{7.5, "Gold"},
		{7.4, "Silver"},
		{6.0, "Silver"},
		{5.9, "Bronze"},
		{4.0, "Bronze"},
		{3.9, "Beginner"},
		{0.0, "Beginner"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.score), "score %v", tt.score)
	}
}

func TestCalculateScenarios(t *testing.T) {
	t.Run("strong consultant across the board", func(t *testing.T) {
		// service 10, sales 5, training 2.5 -> 0.4*10 + 0.35*5 + 0.25*2.5 = 6.4
		card := Calculate(Metrics{
			AvgStars:          5.0,
			RatingCount:       10,
			SalesTotal:        50,
			SalesLast30Days:   10,
			AvgTicket:         150,
			TrainingTotal:     4,
			TrainingCompleted: 2,
			MandatoryComplete: false,
		})

		assert.InDelta(t, 10.0, card.ServiceScore, 1e-9)
		assert.InDelta(t, 5.0, card.SalesScore, 1e-9)
		assert.InDelta(t, 2.5, card.TrainingScore, 1e-9)
		assert.InDelta(t, 6.4, card.TotalScore, 1e-9)
		assert.Equal(t, "Silver", card.Tier)
	})

	t.Run("zero activity", func(t *testing.T) {
		card := Calculate(Metrics{MandatoryComplete: true})

		assert.Zero(t, card.TotalScore)
		assert.Equal(t, "Beginner", card.Tier)
		assert.Zero(t, card.ServicePercentage)
		assert.Zero(t, card.TrainingPercentage)
	})

	t.Run("everything maxed", func(t *testing.T) {
		card := Calculate(Metrics{
			AvgStars:          5.0,
			RatingCount:       100,
			SalesTotal:        500,
			SalesLast30Days:   100,
			AvgTicket:         1000,
			TrainingTotal:     3,
			TrainingCompleted: 3,
			MandatoryComplete: true,
		})

		assert.InDelta(t, 10.0, card.TotalScore, 1e-9)
		assert.Equal(t, "Diamond", card.Tier)
	})

	t.Run("total is rounded to one decimal", func(t *testing.T) {
		card := Calculate(Metrics{
			AvgStars:          4.3,
			RatingCount:       7,
			SalesTotal:        33,
			SalesLast30Days:   5,
			AvgTicket:         120,
			TrainingTotal:     5,
			TrainingCompleted: 3,
			MandatoryComplete: true,
		})

		assert.InDelta(t, card.TotalScore*10, float64(int(card.TotalScore*10+0.5)), 1e-9)
	})

	t.Run("percentages reflect inputs", func(t *testing.T) {
		card := Calculate(Metrics{
			AvgStars:          4.0,
			RatingCount:       10,
			TrainingTotal:     4,
			TrainingCompleted: 3,
			MandatoryComplete: true,
		})

		assert.Equal(t, 80, card.ServicePercentage)
		assert.Equal(t, 75, card.TrainingPercentage)
	})
}

func TestCalculateComponentsStayInRange(t *testing.T) {
	inputs := []Metrics{
		{AvgStars: 5, RatingCount: 1000, SalesTotal: 100000, SalesLast30Days: 100000, AvgTicket: 1e9, TrainingTotal: 1, TrainingCompleted: 1, MandatoryComplete: true},
		{AvgStars: 0, RatingCount: 0},
		{AvgStars: 2.5, RatingCount: 3, SalesTotal: 7, AvgTicket: 42.5, TrainingTotal: 9, TrainingCompleted: 1},
	}

	for _, m := range inputs {
		card := Calculate(m)
		for _, v := range []float64{card.ServiceScore, card.SalesScore, card.TrainingScore, card.TotalScore} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 10.0)
		}
	}
}
