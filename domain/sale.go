package domain

import "time"

// Sale payment lifecycle. Transfers to the payees happen exactly once, on
// the awaiting_payment -> paid transition.
const (
	SalePending         = "pending"
	SaleAwaitingPayment = "awaiting_payment"
	SalePaid            = "paid"
	SaleCanceled        = "canceled"
	SaleRefunded        = "refunded"
	SaleFailed          = "failed"
)

const (
	CommissionSourceProduct = "product"
	CommissionSourceStore   = "store"
)

type Sale struct {
	ID                    string  `gorm:"primaryKey;type:uuid" json:"id"`
	StoreID               string  `gorm:"column:store_id;not null" json:"store_id"`
	ConsultantID          string  `gorm:"column:consultant_id;not null" json:"consultant_id"`
	ProductID             *string `gorm:"column:product_id" json:"product_id"`
	GrossAmount           int64   `gorm:"column:gross_amount" json:"gross_amount"`
	Status                string  `gorm:"column:status;default:pending" json:"status"`
	StripePaymentIntentID string  `gorm:"column:stripe_payment_intent_id;index" json:"stripe_payment_intent_id,omitempty"`
	CommissionRate        float64 `gorm:"column:commission_rate" json:"commission_rate"`
	CommissionSource      string  `gorm:"column:commission_source" json:"commission_source"`
	ConsultantAmount      int64   `gorm:"column:consultant_amount" json:"consultant_amount"`
	StoreGrossAmount      int64   `gorm:"column:store_gross_amount" json:"store_gross_amount"`
	PaidAt                *time.Time `json:"paid_at,omitempty"`
	CanceledAt            *time.Time `json:"canceled_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func (Sale) TableName() string {
	return "sales"
}

// PaymentHandle is what the client needs to complete the checkout.
type PaymentHandle struct {
	SaleID           string  `json:"sale_id"`
	PaymentIntentID  string  `json:"payment_intent_id"`
	ClientSecret     string  `json:"client_secret"`
	GrossAmount      int64   `json:"gross_amount"`
	CommissionRate   float64 `json:"commission_rate"`
	CommissionSource string  `json:"commission_source"`
	ConsultantAmount int64   `json:"consultant_amount"`
	StoreGrossAmount int64   `json:"store_gross_amount"`
}
