package domain

import "time"

// ConsultantTraining is one training assignment. Mandatory trainings left
// incomplete halve the training sub-score.
type ConsultantTraining struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	ConsultantID string `gorm:"column:consultant_id;index;not null"`
	Name         string `gorm:"column:name"`
	Mandatory    bool   `gorm:"column:mandatory;default:false"`
	Completed    bool   `gorm:"column:completed;default:false"`
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (ConsultantTraining) TableName() string {
	return "consultant_trainings"
}
