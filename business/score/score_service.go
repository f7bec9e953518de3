package score

import (
	"context"
	"time"

	"comprasmart/domain"
	"comprasmart/pkg/apperr"
	"comprasmart/pkg/logger"
	"comprasmart/pkg/metrics"

	"github.com/google/uuid"
)

const (
	// CalcVersion is stamped on every stored score so historical rows can be
	// told apart after a formula change.
	CalcVersion = "1.0.0"

	// Stored scores older than this are recalculated on read.
	staleAfter = 24 * time.Hour

	recalcBatchSize  = 10
	recalcBatchPause = 100 * time.Millisecond
)

type ScoreRepository interface {
	FindByConsultant(ctx context.Context, consultantID string) (domain.ConsultantScore, error)
	Upsert(ctx context.Context, score *domain.ConsultantScore) error
	Rank(ctx context.Context, consultantID string) (string, error)
	RefreshRanks(ctx context.Context) error
	FindAll(ctx context.Context) ([]domain.ConsultantScore, error)
	Top(ctx context.Context, limit int) ([]domain.ConsultantScore, error)
}

type RatingRepository interface {
	FindByConsultant(ctx context.Context, consultantID string) ([]domain.Rating, error)
}

type SaleRepository interface {
	CompletedByConsultant(ctx context.Context, consultantID string) ([]domain.Sale, error)
}

type TrainingRepository interface {
	FindByConsultant(ctx context.Context, consultantID string) ([]domain.ConsultantTraining, error)
}

type ConsultantRepository interface {
	FindByID(ctx context.Context, id string) (domain.Consultant, error)
	FindActiveIDs(ctx context.Context) ([]string, error)
}

type ScoreService struct {
	scoreRepo      ScoreRepository
	ratingRepo     RatingRepository
	saleRepo       SaleRepository
	trainingRepo   TrainingRepository
	consultantRepo ConsultantRepository
}

func NewScoreService(
	scoreRepo ScoreRepository,
	ratingRepo RatingRepository,
	saleRepo SaleRepository,
	trainingRepo TrainingRepository,
	consultantRepo ConsultantRepository,
) *ScoreService {
	return &ScoreService{
		scoreRepo:      scoreRepo,
		ratingRepo:     ratingRepo,
		saleRepo:       saleRepo,
		trainingRepo:   trainingRepo,
		consultantRepo: consultantRepo,
	}
}

// GetScore serves the stored score when it is fresh enough and recalculates
// otherwise. Authorization is checked before any data access.
func (s *ScoreService) GetScore(ctx context.Context, viewerRole, consultantID string) (domain.ScoreView, error) {
	if !CanViewScore(viewerRole) {
		return domain.ScoreView{}, apperr.Authorization("role %q may not view consultant scores", viewerRole)
	}

	stored, err := s.scoreRepo.FindByConsultant(ctx, consultantID)
	if err == nil && time.Since(stored.LastUpdated) < staleAfter {
		return stored.View(), nil
	}
	if err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
		return domain.ScoreView{}, err
	}

	fresh, err := s.Recalculate(ctx, consultantID)
	if err != nil {
		// A stale score beats no score when the recalculation fails.
		if stored.ConsultantID != "" {
			logger.Warn("serving stale score after recalculation failure", err, "consultant_id", consultantID)
			return stored.View(), nil
		}
		return domain.ScoreView{}, err
	}

	return fresh.View(), nil
}

// Recalculate computes and stores the consultant's score from live activity
// data.
func (s *ScoreService) Recalculate(ctx context.Context, consultantID string) (domain.ConsultantScore, error) {
	if _, err := s.consultantRepo.FindByID(ctx, consultantID); err != nil {
		return domain.ConsultantScore{}, err
	}

	started := time.Now()

	metricsData, err := s.collectMetrics(ctx, consultantID)
	if err != nil {
		return domain.ConsultantScore{}, err
	}

	card := Calculate(metricsData)

	row := domain.ConsultantScore{
		ID:           uuid.NewString(),
		ConsultantID: consultantID,
		TotalScore:   card.TotalScore,
		Tier:         card.Tier,

		ServiceScore:        card.ServiceScore,
		ServiceAvgStars:     metricsData.AvgStars,
		ServiceRatingCount:  metricsData.RatingCount,
		ServiceSatisfaction: metricsData.SatisfactionRate,
		ServicePercentage:   card.ServicePercentage,

		SalesScore:      card.SalesScore,
		SalesTotal:      metricsData.SalesTotal,
		SalesLast30Days: metricsData.SalesLast30Days,
		SalesAvgTicket:  metricsData.AvgTicket,
		SalesPercentage: card.SalesPercentage,

		TrainingScore:             card.TrainingScore,
		TrainingTotal:             metricsData.TrainingTotal,
		TrainingCompleted:         metricsData.TrainingCompleted,
		TrainingMandatoryComplete: metricsData.MandatoryComplete,
		TrainingPercentage:        card.TrainingPercentage,

		CalcVersion:    CalcVersion,
		CalcDurationMs: time.Since(started).Milliseconds(),
		LastUpdated:    time.Now(),
	}

	if err := s.scoreRepo.Upsert(ctx, &row); err != nil {
		return domain.ConsultantScore{}, err
	}

	if rank, err := s.scoreRepo.Rank(ctx, consultantID); err != nil {
		logger.Warn("rank lookup failed", err, "consultant_id", consultantID)
	} else {
		row.Rank = &rank
	}

	metrics.ScoreCalcDuration.Observe(time.Since(started).Seconds())
	metrics.ScoreCalcTotal.WithLabelValues("single").Inc()

	return row, nil
}

// RecalculateAll walks every active consultant in small batches with a pause
// between batches so a full refresh cannot starve the database. One failing
// consultant does not abort the run.
func (s *ScoreService) RecalculateAll(ctx context.Context) (processed, failed int, err error) {
	ids, err := s.consultantRepo.FindActiveIDs(ctx)
	if err != nil {
		return 0, 0, err
	}

	for i := 0; i < len(ids); i += recalcBatchSize {
		end := i + recalcBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		for _, id := range ids[i:end] {
			if _, err := s.Recalculate(ctx, id); err != nil {
				failed++
				logger.Error("score recalculation failed", err, "consultant_id", id)
				continue
			}
			processed++
		}

		if end < len(ids) {
			select {
			case <-ctx.Done():
				return processed, failed, ctx.Err()
			case <-time.After(recalcBatchPause):
			}
		}
	}

	if err := s.scoreRepo.RefreshRanks(ctx); err != nil {
		logger.Error("rank refresh failed", err)
	}

	metrics.ScoreCalcTotal.WithLabelValues("bulk").Inc()

	return processed, failed, nil
}

// PublicMetrics exposes raw activity numbers without the score. This is the
// only score-adjacent data a consultant may see about themselves.
func (s *ScoreService) PublicMetrics(ctx context.Context, consultantID string) (domain.PublicMetrics, error) {
	if _, err := s.consultantRepo.FindByID(ctx, consultantID); err != nil {
		return domain.PublicMetrics{}, err
	}

	m, err := s.collectMetrics(ctx, consultantID)
	if err != nil {
		return domain.PublicMetrics{}, err
	}

	var out domain.PublicMetrics
	out.Ratings.Average = m.AvgStars
	out.Ratings.Total = m.RatingCount
	out.Sales.Total = m.SalesTotal
	out.Sales.Last30Days = m.SalesLast30Days
	out.Trainings.Total = m.TrainingTotal
	out.Trainings.Completed = m.TrainingCompleted
	out.Trainings.MandatoryComplete = m.MandatoryComplete

	return out, nil
}

// Statistics summarizes the stored scores for the admin dashboard.
func (s *ScoreService) Statistics(ctx context.Context) (domain.ScoreStatistics, error) {
	scores, err := s.scoreRepo.FindAll(ctx)
	if err != nil {
		return domain.ScoreStatistics{}, err
	}

	stats := domain.ScoreStatistics{
		TotalConsultants: len(scores),
		TierDistribution: map[string]int{},
		ComponentAverage: map[string]float64{},
	}

	if len(scores) == 0 {
		return stats, nil
	}

	var totalSum, serviceSum, salesSum, trainingSum float64
	for _, sc := range scores {
		totalSum += sc.TotalScore
		serviceSum += sc.ServiceScore
		salesSum += sc.SalesScore
		trainingSum += sc.TrainingScore
		stats.TierDistribution[sc.Tier]++
	}

	n := float64(len(scores))
	stats.AverageScore = round1(totalSum / n)
	stats.ComponentAverage["service"] = round1(serviceSum / n)
	stats.ComponentAverage["sales"] = round1(salesSum / n)
	stats.ComponentAverage["training"] = round1(trainingSum / n)

	top, err := s.scoreRepo.Top(ctx, 10)
	if err != nil {
		return domain.ScoreStatistics{}, err
	}
	for _, sc := range top {
		stats.Top = append(stats.Top, domain.ScoreRankEntry{
			ConsultantID: sc.ConsultantID,
			TotalScore:   sc.TotalScore,
			Tier:         sc.Tier,
			Rank:         sc.Rank,
		})
	}

	return stats, nil
}

func (s *ScoreService) collectMetrics(ctx context.Context, consultantID string) (Metrics, error) {
	ratings, err := s.ratingRepo.FindByConsultant(ctx, consultantID)
	if err != nil {
		return Metrics{}, apperr.Upstream(err, "loading ratings")
	}

	sales, err := s.saleRepo.CompletedByConsultant(ctx, consultantID)
	if err != nil {
		return Metrics{}, apperr.Upstream(err, "loading sales")
	}

	trainings, err := s.trainingRepo.FindByConsultant(ctx, consultantID)
	if err != nil {
		return Metrics{}, apperr.Upstream(err, "loading trainings")
	}

	var m Metrics

	var starSum, satisfied int
	for _, r := range ratings {
		starSum += r.Stars
		if r.Stars >= 4 {
			satisfied++
		}
	}
	m.RatingCount = len(ratings)
	if m.RatingCount > 0 {
		m.AvgStars = float64(starSum) / float64(m.RatingCount)
		m.SatisfactionRate = float64(satisfied) / float64(m.RatingCount) * 100
	}

	cutoff := time.Now().AddDate(0, 0, -30)
	var grossSum int64
	for _, sale := range sales {
		grossSum += sale.GrossAmount
		if sale.PaidAt != nil && sale.PaidAt.After(cutoff) {
			m.SalesLast30Days++
		}
	}
	m.SalesTotal = len(sales)
	if m.SalesTotal > 0 {
		// Gross amounts are stored in cents, the ticket benchmark is in
		// currency units.
		m.AvgTicket = float64(grossSum) / float64(m.SalesTotal) / 100
	}

	m.MandatoryComplete = true
	for _, t := range trainings {
		m.TrainingTotal++
		if t.Completed {
			m.TrainingCompleted++
		} else if t.Mandatory {
			m.MandatoryComplete = false
		}
	}

	return m, nil
}
