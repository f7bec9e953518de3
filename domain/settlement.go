package domain

import "time"

// Settlement is the strongly-typed split record written at payment-intent
// creation and read back, by payment intent id, when Stripe confirms the
// payment. Amounts are never recomputed after creation, so a replayed
// confirmation pays the same split, and TransferredAt makes the replay a
// no-op.
type Settlement struct {
	ID                   string  `gorm:"primaryKey;type:uuid" json:"id"`
	SaleID               string  `gorm:"column:sale_id;not null" json:"sale_id"`
	PaymentIntentID      string  `gorm:"column:payment_intent_id;unique;not null" json:"payment_intent_id"`
	StoreID              string  `gorm:"column:store_id" json:"store_id"`
	ConsultantID         string  `gorm:"column:consultant_id" json:"consultant_id"`
	StoreAccountID       string  `gorm:"column:store_account_id" json:"store_account_id"`
	ConsultantAccountID  string  `gorm:"column:consultant_account_id" json:"consultant_account_id"`
	GrossAmount          int64   `gorm:"column:gross_amount" json:"gross_amount"`
	CommissionRate       float64 `gorm:"column:commission_rate" json:"commission_rate"`
	CommissionSource     string  `gorm:"column:commission_source" json:"commission_source"`
	ConsultantAmount     int64   `gorm:"column:consultant_amount" json:"consultant_amount"`
	StoreGrossAmount     int64   `gorm:"column:store_gross_amount" json:"store_gross_amount"`
	ConsultantTransferID string  `gorm:"column:consultant_transfer_id" json:"consultant_transfer_id,omitempty"`
	StoreTransferID      string  `gorm:"column:store_transfer_id" json:"store_transfer_id,omitempty"`
	TransferredAt        *time.Time `json:"transferred_at,omitempty"`
	ManualReviewReason   string  `gorm:"column:manual_review_reason" json:"manual_review_reason,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (Settlement) TableName() string {
	return "settlements"
}
