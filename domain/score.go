package domain

import "time"

const (
	TierDiamond  = "Diamond"
	TierGold     = "Gold"
	TierSilver   = "Silver"
	TierBronze   = "Bronze"
	TierBeginner = "Beginner"
)

// Component weights, percent. Fixed by product definition.
const (
	ServiceWeight  = 40
	SalesWeight    = 35
	TrainingWeight = 25
)

// ConsultantScore is the persisted score row, one per consultant, flat
// columns so the ranking aggregate can run in SQL.
type ConsultantScore struct {
	ID           string  `gorm:"primaryKey;type:uuid"`
	ConsultantID string  `gorm:"column:consultant_id;unique;not null"`
	TotalScore   float64 `gorm:"column:total_score"`
	Tier         string  `gorm:"column:tier"`
	Rank         *string `gorm:"column:rank"`

	ServiceScore        float64 `gorm:"column:service_score"`
	ServiceAvgStars     float64 `gorm:"column:service_avg_stars"`
	ServiceRatingCount  int     `gorm:"column:service_rating_count"`
	ServiceSatisfaction float64 `gorm:"column:service_satisfaction"`
	ServicePercentage   int     `gorm:"column:service_percentage"`

	SalesScore      float64 `gorm:"column:sales_score"`
	SalesTotal      int     `gorm:"column:sales_total"`
	SalesLast30Days int     `gorm:"column:sales_last_30_days"`
	SalesAvgTicket  float64 `gorm:"column:sales_avg_ticket"`
	SalesPercentage int     `gorm:"column:sales_percentage"`

	TrainingScore             float64 `gorm:"column:training_score"`
	TrainingTotal             int     `gorm:"column:training_total"`
	TrainingCompleted         int     `gorm:"column:training_completed"`
	TrainingMandatoryComplete bool    `gorm:"column:training_mandatory_complete"`
	TrainingPercentage        int     `gorm:"column:training_percentage"`

	CalcVersion    string    `gorm:"column:calc_version"`
	CalcDurationMs int64     `gorm:"column:calc_duration_ms"`
	LastUpdated    time.Time `gorm:"column:last_updated"`
}

func (ConsultantScore) TableName() string {
	return "consultant_scores"
}

// ScoreView is the nested API shape.
type ScoreView struct {
	ConsultantID string          `json:"consultant_id"`
	TotalScore   float64         `json:"total_score"`
	Tier         string          `json:"tier"`
	Rank         *string         `json:"rank"`
	Components   ScoreComponents `json:"components"`
	LastUpdated  time.Time       `json:"last_updated"`
}

type ScoreComponents struct {
	Service  ServiceComponent  `json:"service"`
	Sales    SalesComponent    `json:"sales"`
	Training TrainingComponent `json:"training"`
}

type ServiceComponent struct {
	Score        float64 `json:"score"`
	Weight       int     `json:"weight"`
	AvgStars     float64 `json:"avg_stars"`
	RatingCount  int     `json:"rating_count"`
	Satisfaction float64 `json:"satisfaction"`
	Percentage   int     `json:"percentage"`
}

type SalesComponent struct {
	Score      float64 `json:"score"`
	Weight     int     `json:"weight"`
	Total      int     `json:"total"`
	Last30Days int     `json:"last_30_days"`
	AvgTicket  float64 `json:"avg_ticket"`
	Percentage int     `json:"percentage"`
}

type TrainingComponent struct {
	Score             float64 `json:"score"`
	Weight            int     `json:"weight"`
	Total             int     `json:"total"`
	Completed         int     `json:"completed"`
	MandatoryComplete bool    `json:"mandatory_complete"`
	Percentage        int     `json:"percentage"`
}

// View converts the flat row to the nested API shape.
func (s ConsultantScore) View() ScoreView {
	return ScoreView{
		ConsultantID: s.ConsultantID,
		TotalScore:   s.TotalScore,
		Tier:         s.Tier,
		Rank:         s.Rank,
		Components: ScoreComponents{
			Service: ServiceComponent{
				Score:        s.ServiceScore,
				Weight:       ServiceWeight,
				AvgStars:     s.ServiceAvgStars,
				RatingCount:  s.ServiceRatingCount,
				Satisfaction: s.ServiceSatisfaction,
				Percentage:   s.ServicePercentage,
			},
			Sales: SalesComponent{
				Score:      s.SalesScore,
				Weight:     SalesWeight,
				Total:      s.SalesTotal,
				Last30Days: s.SalesLast30Days,
				AvgTicket:  s.SalesAvgTicket,
				Percentage: s.SalesPercentage,
			},
			Training: TrainingComponent{
				Score:             s.TrainingScore,
				Weight:            TrainingWeight,
				Total:             s.TrainingTotal,
				Completed:         s.TrainingCompleted,
				MandatoryComplete: s.TrainingMandatoryComplete,
				Percentage:        s.TrainingPercentage,
			},
		},
		LastUpdated: s.LastUpdated,
	}
}

// PublicMetrics are the consultant-visible activity numbers, deliberately
// without the score itself.
type PublicMetrics struct {
	Ratings struct {
		Average float64 `json:"average"`
		Total   int     `json:"total"`
	} `json:"ratings"`
	Sales struct {
		Total      int `json:"total"`
		Last30Days int `json:"last_30_days"`
	} `json:"sales"`
	Trainings struct {
		Total             int  `json:"total"`
		Completed         int  `json:"completed"`
		MandatoryComplete bool `json:"mandatory_complete"`
	} `json:"trainings"`
}

// ScoreStatistics is the admin platform-wide summary.
type ScoreStatistics struct {
	TotalConsultants int                `json:"total_consultants"`
	AverageScore     float64            `json:"average_score"`
	TierDistribution map[string]int     `json:"tier_distribution"`
	ComponentAverage map[string]float64 `json:"component_average"`
	Top              []ScoreRankEntry   `json:"top"`
}

type ScoreRankEntry struct {
	ConsultantID string  `json:"consultant_id"`
	TotalScore   float64 `json:"total_score"`
	Tier         string  `json:"tier"`
	Rank         *string `json:"rank"`
}
