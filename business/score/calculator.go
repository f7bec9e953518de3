package score

import "math"

// Benchmarks are fixed reference points, not derived from data.
const (
	ratingConfidenceCount = 10  // ratings needed for full service-score confidence
	salesVolumeBenchmark  = 100 // lifetime paid sales for a full volume score
	sales30DayBenchmark   = 20  // paid sales in the last 30 days for a full activity score
	avgTicketBenchmark    = 300 // average ticket (currency units) for a full ticket score
)

// Metrics are the raw activity numbers a score is computed from.
type Metrics struct {
	AvgStars          float64
	RatingCount       int
	SatisfactionRate  float64 // % of ratings >= 4 stars, display only
	SalesTotal        int
	SalesLast30Days   int
	AvgTicket         float64
	TrainingTotal     int
	TrainingCompleted int
	MandatoryComplete bool // no mandatory training left incomplete
}

// Scorecard is the pure calculation result, persisted by the service.
type Scorecard struct {
	TotalScore    float64
	Tier          string
	ServiceScore  float64
	SalesScore    float64
	TrainingScore float64

	ServicePercentage  int
	SalesPercentage    int
	TrainingPercentage int
}

func clamp10(v float64) float64 {
	return math.Min(math.Max(v, 0), 10)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ServiceScore converts the rating average to a 0-10 score, damped by a
// confidence multiplier so that fewer than 10 ratings scale the score down
// linearly even at a perfect average.
func ServiceScore(avgStars float64, ratingCount int) float64 {
	base := avgStars / 5.0 * 10
	confidence := math.Min(float64(ratingCount)/ratingConfidenceCount, 1.0)
	return clamp10(base * confidence)
}

// SalesScore blends lifetime volume, recent activity and average ticket
// against fixed benchmarks, weighted 40/40/20.
func SalesScore(salesTotal, salesLast30Days int, avgTicket float64) float64 {
	volume := math.Min(float64(salesTotal)/salesVolumeBenchmark, 1.0) * 10
	activity := math.Min(float64(salesLast30Days)/sales30DayBenchmark, 1.0) * 10
	ticket := math.Min(avgTicket/avgTicketBenchmark, 1.0) * 10

	return clamp10(volume*0.4 + activity*0.4 + ticket*0.2)
}

// TrainingScore is the completion ratio on a 0-10 scale, halved while any
// mandatory training remains incomplete. No assigned trainings means zero,
// not an error.
func TrainingScore(completed, total int, mandatoryComplete bool) float64 {
	if total == 0 {
		return 0
	}

	base := float64(completed) / float64(total) * 10
	if !mandatoryComplete {
		base *= 0.5
	}

	return clamp10(base)
}

// TierFor assigns the discrete label, thresholds evaluated high to low.
func TierFor(totalScore float64) string {
	switch {
	case totalScore >= 9.0:
		return "Diamond"
	case totalScore >= 7.5:
		return "Gold"
	case totalScore >= 6.0:
		return "Silver"
	case totalScore >= 4.0:
		return "Bronze"
	default:
		return "Beginner"
	}
}

// Calculate produces the full scorecard from raw metrics. Pure: no I/O, no
// side effects, so the formula is testable in isolation.
func Calculate(m Metrics) Scorecard {
	service := ServiceScore(m.AvgStars, m.RatingCount)
	sales := SalesScore(m.SalesTotal, m.SalesLast30Days, m.AvgTicket)
	training := TrainingScore(m.TrainingCompleted, m.TrainingTotal, m.MandatoryComplete)

	total := round1(service*0.40 + sales*0.35 + training*0.25)

	trainingPct := 0
	if m.TrainingTotal > 0 {
		trainingPct = int(math.Round(float64(m.TrainingCompleted) / float64(m.TrainingTotal) * 100))
	}

	return Scorecard{
		TotalScore:         total,
		Tier:               TierFor(total),
		ServiceScore:       round1(service),
		SalesScore:         round1(sales),
		TrainingScore:      round1(training),
		ServicePercentage:  int(math.Round(m.AvgStars / 5.0 * 100)),
		SalesPercentage:    int(math.Round(sales / 10 * 100)),
		TrainingPercentage: trainingPct,
	}
}
