package score

import (
	"context"
	"errors"
	"testing"
	"time"

	"comprasmart/domain"
	"comprasmart/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScoreRepo struct {
	scores        map[string]domain.ConsultantScore
	upserts       int
	rankRefreshed bool
}

func newFakeScoreRepo() *fakeScoreRepo {
	return &fakeScoreRepo{scores: map[string]domain.ConsultantScore{}}
}

func (f *fakeScoreRepo) FindByConsultant(_ context.Context, consultantID string) (domain.ConsultantScore, error) {
	s, ok := f.scores[consultantID]
	if !ok {
		return domain.ConsultantScore{}, apperr.NotFound("score not found")
	}
	return s, nil
}

func (f *fakeScoreRepo) Upsert(_ context.Context, score *domain.ConsultantScore) error {
	f.upserts++
	f.scores[score.ConsultantID] = *score
	return nil
}

func (f *fakeScoreRepo) Rank(_ context.Context, _ string) (string, error) {
	return "Top 50%", nil
}

func (f *fakeScoreRepo) RefreshRanks(_ context.Context) error {
	f.rankRefreshed = true
	return nil
}

func (f *fakeScoreRepo) FindAll(_ context.Context) ([]domain.ConsultantScore, error) {
	var out []domain.ConsultantScore
	for _, s := range f.scores {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeScoreRepo) Top(_ context.Context, limit int) ([]domain.ConsultantScore, error) {
	all, _ := f.FindAll(context.Background())
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

type fakeRatingRepo struct {
	ratings map[string][]domain.Rating
	err     error
}

func (f *fakeRatingRepo) FindByConsultant(_ context.Context, consultantID string) ([]domain.Rating, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ratings[consultantID], nil
}

type fakeSaleRepo struct {
	sales map[string][]domain.Sale
}

func (f *fakeSaleRepo) CompletedByConsultant(_ context.Context, consultantID string) ([]domain.Sale, error) {
	return f.sales[consultantID], nil
}

type fakeTrainingRepo struct {
	trainings map[string][]domain.ConsultantTraining
}

func (f *fakeTrainingRepo) FindByConsultant(_ context.Context, consultantID string) ([]domain.ConsultantTraining, error) {
	return f.trainings[consultantID], nil
}

type fakeConsultantRepo struct {
	ids []string
}

func (f *fakeConsultantRepo) FindByID(_ context.Context, id string) (domain.Consultant, error) {
	for _, known := range f.ids {
		if known == id {
			return domain.Consultant{ID: id, Active: true}, nil
		}
	}
	return domain.Consultant{}, apperr.NotFound("consultant not found")
}

func (f *fakeConsultantRepo) FindActiveIDs(_ context.Context) ([]string, error) {
	return f.ids, nil
}

func paidAt(t time.Time) *time.Time { return &t }

func newTestService() (*ScoreService, *fakeScoreRepo, *fakeRatingRepo) {
	scoreRepo := newFakeScoreRepo()
	recent := time.Now().Add(-24 * time.Hour)

	ratingRepo := &fakeRatingRepo{ratings: map[string][]domain.Rating{
		"cons-1": {
			{Stars: 5}, {Stars: 5}, {Stars: 5}, {Stars: 5}, {Stars: 5},
			{Stars: 5}, {Stars: 5}, {Stars: 5}, {Stars: 5}, {Stars: 5},
		},
	}}
	saleRepo := &fakeSaleRepo{sales: map[string][]domain.Sale{
		"cons-1": {
			{GrossAmount: 15000, PaidAt: paidAt(recent)},
			{GrossAmount: 15000, PaidAt: paidAt(recent)},
		},
	}}
	trainingRepo := &fakeTrainingRepo{trainings: map[string][]domain.ConsultantTraining{
		"cons-1": {
			{Completed: true, Mandatory: true},
			{Completed: false, Mandatory: false},
		},
	}}
	consultantRepo := &fakeConsultantRepo{ids: []string{"cons-1"}}

	return NewScoreService(scoreRepo, ratingRepo, saleRepo, trainingRepo, consultantRepo), scoreRepo, ratingRepo
}

func TestGetScoreDeniesConsultants(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.GetScore(context.Background(), domain.RoleConsultant, "cons-1")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	_, err = service.GetScore(context.Background(), "", "cons-1")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestGetScoreComputesOnFirstRead(t *testing.T) {
	service, scoreRepo, _ := newTestService()

	view, err := service.GetScore(context.Background(), domain.RoleStoreOwner, "cons-1")
	require.NoError(t, err)

	assert.Equal(t, "cons-1", view.ConsultantID)
	assert.Equal(t, 1, scoreRepo.upserts)
	assert.InDelta(t, 10.0, view.Components.Service.Score, 1e-9)
	assert.Equal(t, 40, view.Components.Service.Weight)
}

func TestGetScoreServesFreshStoredScore(t *testing.T) {
	service, scoreRepo, _ := newTestService()

	scoreRepo.scores["cons-1"] = domain.ConsultantScore{
		ConsultantID: "cons-1",
		TotalScore:   7.7,
		Tier:         domain.TierGold,
		LastUpdated:  time.Now().Add(-1 * time.Hour),
	}

	view, err := service.GetScore(context.Background(), domain.RoleAdmin, "cons-1")
	require.NoError(t, err)

	assert.Equal(t, 7.7, view.TotalScore)
	assert.Zero(t, scoreRepo.upserts, "a fresh stored score must not trigger recalculation")
}

func TestGetScoreRecalculatesStaleScore(t *testing.T) {
	service, scoreRepo, _ := newTestService()

	scoreRepo.scores["cons-1"] = domain.ConsultantScore{
		ConsultantID: "cons-1",
		TotalScore:   1.1,
		LastUpdated:  time.Now().Add(-25 * time.Hour),
	}

	view, err := service.GetScore(context.Background(), domain.RoleAdmin, "cons-1")
	require.NoError(t, err)

	assert.Equal(t, 1, scoreRepo.upserts)
	assert.NotEqual(t, 1.1, view.TotalScore)
}

func TestGetScoreFallsBackToStaleOnRecalcFailure(t *testing.T) {
	service, scoreRepo, ratingRepo := newTestService()

	scoreRepo.scores["cons-1"] = domain.ConsultantScore{
		ConsultantID: "cons-1",
		TotalScore:   6.2,
		LastUpdated:  time.Now().Add(-48 * time.Hour),
	}
	ratingRepo.err = errors.New("connection refused")

	view, err := service.GetScore(context.Background(), domain.RoleAdmin, "cons-1")
	require.NoError(t, err)

	assert.Equal(t, 6.2, view.TotalScore, "the stale score is served when recalculation fails")
}

func TestRecalculateUnknownConsultant(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Recalculate(context.Background(), "missing")
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestRecalculateStampsVersionAndRank(t *testing.T) {
	service, _, _ := newTestService()

	row, err := service.Recalculate(context.Background(), "cons-1")
	require.NoError(t, err)

	assert.Equal(t, CalcVersion, row.CalcVersion)
	require.NotNil(t, row.Rank)
	assert.Equal(t, "Top 50%", *row.Rank)
	assert.WithinDuration(t, time.Now(), row.LastUpdated, time.Minute)
}

func TestRecalculateAll(t *testing.T) {
	service, scoreRepo, _ := newTestService()
	consultantRepo := &fakeConsultantRepo{ids: []string{"cons-1", "missing-metrics"}}
	service.consultantRepo = consultantRepo

	processed, failed, err := service.RecalculateAll(context.Background())
	require.NoError(t, err)

	// "missing-metrics" has no activity at all, which is a valid zero score,
	// not a failure.
	assert.Equal(t, 2, processed)
	assert.Zero(t, failed)
	assert.True(t, scoreRepo.rankRefreshed)
}

func TestRecalculateAllIsolatesFailures(t *testing.T) {
	service, scoreRepo, ratingRepo := newTestService()
	service.consultantRepo = &fakeConsultantRepo{ids: []string{"cons-1", "cons-2"}}
	ratingRepo.err = errors.New("connection refused")

	processed, failed, err := service.RecalculateAll(context.Background())
	require.NoError(t, err)

	assert.Zero(t, processed)
	assert.Equal(t, 2, failed)
	assert.True(t, scoreRepo.rankRefreshed, "ranks still refresh after a degraded run")
}

func TestStatistics(t *testing.T) {
	service, scoreRepo, _ := newTestService()

	scoreRepo.scores["a"] = domain.ConsultantScore{ConsultantID: "a", TotalScore: 9.5, Tier: domain.TierDiamond, ServiceScore: 10, SalesScore: 9, TrainingScore: 9}
	scoreRepo.scores["b"] = domain.ConsultantScore{ConsultantID: "b", TotalScore: 4.5, Tier: domain.TierBronze, ServiceScore: 5, SalesScore: 4, TrainingScore: 4}

	stats, err := service.Statistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalConsultants)
	assert.InDelta(t, 7.0, stats.AverageScore, 1e-9)
	assert.Equal(t, 1, stats.TierDistribution[domain.TierDiamond])
	assert.Equal(t, 1, stats.TierDistribution[domain.TierBronze])
	assert.InDelta(t, 7.5, stats.ComponentAverage["service"], 1e-9)
	assert.Len(t, stats.Top, 2)
}

func TestPublicMetricsOmitsScore(t *testing.T) {
	service, _, _ := newTestService()

	m, err := service.PublicMetrics(context.Background(), "cons-1")
	require.NoError(t, err)

	assert.Equal(t, 10, m.Ratings.Total)
	assert.InDelta(t, 5.0, m.Ratings.Average, 1e-9)
	assert.Equal(t, 2, m.Sales.Total)
	assert.Equal(t, 2, m.Sales.Last30Days)
	assert.Equal(t, 2, m.Trainings.Total)
	assert.Equal(t, 1, m.Trainings.Completed)
	assert.True(t, m.Trainings.MandatoryComplete)
}
