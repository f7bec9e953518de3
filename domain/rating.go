package domain

import "time"

type Rating struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	ConsultantID string `gorm:"column:consultant_id;index;not null"`
	SaleID       string `gorm:"column:sale_id"`
	Stars        int    `gorm:"column:stars;not null"` // 1..5
	Comment      string `gorm:"column:comment"`
	CreatedAt    time.Time
}

func (Rating) TableName() string {
	return "ratings"
}
