package settlement

import (
	"context"
	"fmt"
	"time"

	"comprasmart/domain"
	"comprasmart/pkg/apperr"
	"comprasmart/pkg/logger"
	"comprasmart/pkg/metrics"

	"github.com/google/uuid"
)

const (
	// Transfers below this amount (cents) are not worth Stripe's per-transfer
	// cost. The share stays with the platform and the settlement is flagged.
	minTransferAmount = 50

	// Stores are suspended after this many consecutive failed payments.
	maxFailedPayments = 3
)

type SaleRepository interface {
	FindByID(ctx context.Context, id string) (domain.Sale, error)
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (domain.Sale, error)
	AttachPaymentIntent(ctx context.Context, sale *domain.Sale) error
	Transition(ctx context.Context, id, from, to string) error
}

type SettlementRepository interface {
	Create(ctx context.Context, settlement *domain.Settlement) error
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (domain.Settlement, error)
	MarkTransferred(ctx context.Context, paymentIntentID, consultantTransferID, storeTransferID, manualReviewReason string) error
	FlagManualReview(ctx context.Context, paymentIntentID, reason string) error
}

type StoreRepository interface {
	FindByID(ctx context.Context, id string) (domain.Store, error)
	UpdateStripeAccountStatus(ctx context.Context, accountID, status string) error
	RecordFailedPayment(ctx context.Context, id string) (int, error)
	RecordSuccessfulPayment(ctx context.Context, id string) error
	SuspendForPayments(ctx context.Context, id string) error
}

type ConsultantRepository interface {
	FindByID(ctx context.Context, id string) (domain.Consultant, error)
	UpdateStripeAccountStatus(ctx context.Context, accountID, status string) error
}

type ProductRepository interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
}

type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amount int64, metadata map[string]string) (domain.StripePaymentIntent, error)
	CancelPaymentIntent(ctx context.Context, id string) error
	CreateRefund(ctx context.Context, paymentIntentID string, amount *int64) (domain.StripeRefund, error)
	CreateTransfer(ctx context.Context, amount int64, destination, idempotencyKey string, metadata map[string]string) (domain.StripeTransfer, error)
}

type EmailSender interface {
	SendEmail(toName, toEmail, subject, message string) error
}

type SettlementService struct {
	saleRepo       SaleRepository
	settlementRepo SettlementRepository
	storeRepo      StoreRepository
	consultantRepo ConsultantRepository
	productRepo    ProductRepository
	gateway        PaymentGateway
	email          EmailSender
}

func NewSettlementService(
	saleRepo SaleRepository,
	settlementRepo SettlementRepository,
	storeRepo StoreRepository,
	consultantRepo ConsultantRepository,
	productRepo ProductRepository,
	gateway PaymentGateway,
	email EmailSender,
) *SettlementService {
	return &SettlementService{
		saleRepo:       saleRepo,
		settlementRepo: settlementRepo,
		storeRepo:      storeRepo,
		consultantRepo: consultantRepo,
		productRepo:    productRepo,
		gateway:        gateway,
		email:          email,
	}
}

// CreateSplitPayment resolves the commission split for a pending sale,
// opens a payment intent for the gross amount and records the settlement.
// The split is frozen here: confirmation reads it back, never recomputes.
func (s *SettlementService) CreateSplitPayment(ctx context.Context, saleID string) (domain.PaymentHandle, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return domain.PaymentHandle{}, err
	}
	if sale.Status != domain.SalePending {
		return domain.PaymentHandle{}, apperr.Conflict("sale %s is %s, expected pending", sale.ID, sale.Status)
	}
	if sale.GrossAmount <= 0 {
		return domain.PaymentHandle{}, apperr.Validation("sale gross amount must be positive")
	}

	store, err := s.storeRepo.FindByID(ctx, sale.StoreID)
	if err != nil {
		return domain.PaymentHandle{}, err
	}
	if !store.Active {
		return domain.PaymentHandle{}, apperr.Conflict("store %s is suspended", store.ID)
	}
	if !store.HasActiveSettlementAccount() {
		return domain.PaymentHandle{}, apperr.Validation("store %s has no active settlement account", store.ID)
	}

	consultant, err := s.consultantRepo.FindByID(ctx, sale.ConsultantID)
	if err != nil {
		return domain.PaymentHandle{}, err
	}
	if !consultant.HasActiveSettlementAccount() {
		return domain.PaymentHandle{}, apperr.Validation("consultant %s has no active settlement account", consultant.ID)
	}

	var product *domain.Product
	if sale.ProductID != nil {
		p, err := s.productRepo.FindByID(ctx, *sale.ProductID)
		if err != nil {
			return domain.PaymentHandle{}, err
		}
		product = &p
	}

	rate, source := ResolveRate(product, store)
	split := ComputeSplit(sale.GrossAmount, rate, source)

	intent, err := s.gateway.CreatePaymentIntent(ctx, sale.GrossAmount, map[string]string{
		"sale_id":       sale.ID,
		"store_id":      store.ID,
		"consultant_id": consultant.ID,
	})
	if err != nil {
		return domain.PaymentHandle{}, err
	}

	record := domain.Settlement{
		ID:                  uuid.NewString(),
		SaleID:              sale.ID,
		PaymentIntentID:     intent.ID,
		StoreID:             store.ID,
		ConsultantID:        consultant.ID,
		StoreAccountID:      store.StripeAccountID,
		ConsultantAccountID: consultant.StripeAccountID,
		GrossAmount:         sale.GrossAmount,
		CommissionRate:      split.Rate,
		CommissionSource:    split.Source,
		ConsultantAmount:    split.ConsultantAmount,
		StoreGrossAmount:    split.StoreGrossAmount,
	}
	if err := s.settlementRepo.Create(ctx, &record); err != nil {
		return domain.PaymentHandle{}, err
	}

	sale.StripePaymentIntentID = intent.ID
	sale.CommissionRate = split.Rate
	sale.CommissionSource = split.Source
	sale.ConsultantAmount = split.ConsultantAmount
	sale.StoreGrossAmount = split.StoreGrossAmount
	if err := s.saleRepo.AttachPaymentIntent(ctx, &sale); err != nil {
		return domain.PaymentHandle{}, err
	}

	logger.Info("split payment created",
		"sale_id", sale.ID,
		"payment_intent_id", intent.ID,
		"rate", split.Rate,
		"source", split.Source,
	)

	return domain.PaymentHandle{
		SaleID:           sale.ID,
		PaymentIntentID:  intent.ID,
		ClientSecret:     intent.ClientSecret,
		GrossAmount:      sale.GrossAmount,
		CommissionRate:   split.Rate,
		CommissionSource: split.Source,
		ConsultantAmount: split.ConsultantAmount,
		StoreGrossAmount: split.StoreGrossAmount,
	}, nil
}

// OnPaymentConfirmed settles a confirmed payment: marks the sale paid and
// pays out both shares from the stored settlement record. Safe to replay:
// the settlement row is marked transferred exactly once and a second call
// finds it already marked.
func (s *SettlementService) OnPaymentConfirmed(ctx context.Context, paymentIntentID string) error {
	record, err := s.settlementRepo.FindByPaymentIntentID(ctx, paymentIntentID)
	if err != nil {
		return err
	}
	if record.TransferredAt != nil {
		logger.Info("settlement already transferred, skipping", "payment_intent_id", paymentIntentID)
		return nil
	}

	err = s.saleRepo.Transition(ctx, record.SaleID, domain.SaleAwaitingPayment, domain.SalePaid)
	if err != nil {
		if !apperr.IsKind(err, apperr.KindConflict) {
			return err
		}
		// A conflict means another worker already moved the sale, or the
		// sale left awaiting_payment some other way. Transfers may only
		// follow a paid sale: a confirmation arriving after a cancel or
		// refund must not pay out.
		sale, ferr := s.saleRepo.FindByID(ctx, record.SaleID)
		if ferr != nil {
			return ferr
		}
		if sale.Status != domain.SalePaid {
			reason := fmt.Sprintf("payment confirmed while sale %s is %s, transfers withheld", sale.ID, sale.Status)
			logger.Warn("confirmation for sale no longer awaiting payment",
				"sale_id", sale.ID, "status", sale.Status, "payment_intent_id", paymentIntentID)
			if err := s.settlementRepo.FlagManualReview(ctx, paymentIntentID, reason); err != nil {
				logger.Error("failed to flag settlement for review", err, "payment_intent_id", paymentIntentID)
			}
			return nil
		}
	}

	var reviewReasons []string

	consultantTransferID, skipReason := s.payOut(ctx, "consultant", record.ConsultantAccountID, record.ConsultantAmount, record)
	if skipReason != "" {
		reviewReasons = append(reviewReasons, skipReason)
	}

	storeTransferID, skipReason := s.payOut(ctx, "store", record.StoreAccountID, record.StoreGrossAmount, record)
	if skipReason != "" {
		reviewReasons = append(reviewReasons, skipReason)
	}

	reason := ""
	for i, r := range reviewReasons {
		if i > 0 {
			reason += "; "
		}
		reason += r
	}

	err = s.settlementRepo.MarkTransferred(ctx, paymentIntentID, consultantTransferID, storeTransferID, reason)
	if err != nil {
		if apperr.IsKind(err, apperr.KindConflict) {
			// Lost the race against a concurrent confirmation.
			logger.Warn("settlement marked transferred concurrently", "payment_intent_id", paymentIntentID)
			return nil
		}
		return err
	}

	if err := s.storeRepo.RecordSuccessfulPayment(ctx, record.StoreID); err != nil {
		logger.Error("failed to reset store payment counter", err, "store_id", record.StoreID)
	}

	return nil
}

// payOut sends one transfer when the payee can receive it. A skipped
// transfer returns the reason so the settlement is flagged for review; the
// amount stays on the platform balance. The idempotency key is derived from
// the payment intent, so a concurrent delivery of the same confirmation
// resolves to the same transfer at the gateway instead of a second payout.
func (s *SettlementService) payOut(ctx context.Context, payee, accountID string, amount int64, record domain.Settlement) (transferID, skipReason string) {
	if amount < minTransferAmount {
		metrics.TransfersSkippedTotal.WithLabelValues("below_minimum").Inc()
		return "", fmt.Sprintf("%s share of %d cents below transfer minimum, retained", payee, amount)
	}
	if accountID == "" {
		metrics.TransfersSkippedTotal.WithLabelValues("no_account").Inc()
		return "", fmt.Sprintf("%s has no settlement account, share retained", payee)
	}

	idempotencyKey := fmt.Sprintf("transfer_%s_%s", record.PaymentIntentID, payee)
	transfer, err := s.gateway.CreateTransfer(ctx, amount, accountID, idempotencyKey, map[string]string{
		"sale_id":           record.SaleID,
		"payment_intent_id": record.PaymentIntentID,
		"payee":             payee,
	})
	if err != nil {
		metrics.TransfersSkippedTotal.WithLabelValues("gateway_error").Inc()
		logger.Error("transfer failed", err, "payee", payee, "payment_intent_id", record.PaymentIntentID)
		return "", fmt.Sprintf("%s transfer failed: %v", payee, err)
	}

	metrics.TransfersTotal.WithLabelValues(payee).Inc()
	return transfer.ID, ""
}

// OnPaymentFailed moves the sale to failed and counts the failure against
// the store. Three in a row suspends the store until a payment succeeds.
func (s *SettlementService) OnPaymentFailed(ctx context.Context, paymentIntentID string) error {
	sale, err := s.saleRepo.FindByPaymentIntentID(ctx, paymentIntentID)
	if err != nil {
		return err
	}

	err = s.saleRepo.Transition(ctx, sale.ID, domain.SaleAwaitingPayment, domain.SaleFailed)
	if err != nil {
		if apperr.IsKind(err, apperr.KindConflict) {
			return nil
		}
		return err
	}

	failures, err := s.storeRepo.RecordFailedPayment(ctx, sale.StoreID)
	if err != nil {
		return err
	}

	if failures >= maxFailedPayments {
		if err := s.storeRepo.SuspendForPayments(ctx, sale.StoreID); err != nil {
			return err
		}
		logger.Warn("store suspended after repeated payment failures", "store_id", sale.StoreID, "failures", failures)
		s.notifySuspension(ctx, sale.StoreID)
	}

	return nil
}

func (s *SettlementService) notifySuspension(ctx context.Context, storeID string) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		logger.Error("failed to load store for suspension notice", err, "store_id", storeID)
		return
	}

	go func() {
		err := s.email.SendEmail(store.Name, store.Email,
			"Your store has been suspended",
			"Your store was suspended after repeated payment failures. Contact support to reactivate it.")
		if err != nil {
			logger.Error("failed to send suspension email", err, "store_id", storeID)
		}
	}()
}

// Cancel aborts a sale before payment. An attached payment intent is
// canceled at the gateway first.
func (s *SettlementService) Cancel(ctx context.Context, saleID string) error {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return err
	}

	switch sale.Status {
	case domain.SalePending:
		return s.saleRepo.Transition(ctx, sale.ID, domain.SalePending, domain.SaleCanceled)
	case domain.SaleAwaitingPayment:
		if sale.StripePaymentIntentID != "" {
			if err := s.gateway.CancelPaymentIntent(ctx, sale.StripePaymentIntentID); err != nil {
				return err
			}
		}
		return s.saleRepo.Transition(ctx, sale.ID, domain.SaleAwaitingPayment, domain.SaleCanceled)
	default:
		return apperr.Conflict("sale %s is %s and cannot be canceled", sale.ID, sale.Status)
	}
}

// Refund refunds a paid sale, in full when amount is nil or partially when
// an amount in cents is given. Transfers already sent are NOT reversed
// automatically: the settlement is flagged so an operator can recover the
// shares manually.
func (s *SettlementService) Refund(ctx context.Context, saleID string, amount *int64) (domain.StripeRefund, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return domain.StripeRefund{}, err
	}
	if sale.Status != domain.SalePaid {
		return domain.StripeRefund{}, apperr.Conflict("sale %s is %s, only paid sales can be refunded", sale.ID, sale.Status)
	}
	if amount != nil {
		if *amount <= 0 {
			return domain.StripeRefund{}, apperr.Validation("refund amount must be positive")
		}
		if *amount > sale.GrossAmount {
			return domain.StripeRefund{}, apperr.Validation("refund amount %d exceeds sale gross amount %d", *amount, sale.GrossAmount)
		}
	}

	refund, err := s.gateway.CreateRefund(ctx, sale.StripePaymentIntentID, amount)
	if err != nil {
		return domain.StripeRefund{}, err
	}

	if err := s.saleRepo.Transition(ctx, sale.ID, domain.SalePaid, domain.SaleRefunded); err != nil {
		return domain.StripeRefund{}, err
	}

	record, err := s.settlementRepo.FindByPaymentIntentID(ctx, sale.StripePaymentIntentID)
	if err == nil && record.TransferredAt != nil {
		reason := fmt.Sprintf("refunded at %s after transfers were sent, manual reversal required",
			time.Now().UTC().Format(time.RFC3339))
		if err := s.settlementRepo.FlagManualReview(ctx, sale.StripePaymentIntentID, reason); err != nil {
			logger.Error("failed to flag settlement for review", err, "payment_intent_id", sale.StripePaymentIntentID)
		}
	}

	logger.Info("sale refunded", "sale_id", sale.ID, "refund_id", refund.ID)

	return refund, nil
}

// HandleEvent dispatches a verified webhook event. Unknown types are
// acknowledged without work so the sender stops retrying them.
func (s *SettlementService) HandleEvent(ctx context.Context, event domain.StripeEvent) error {
	metrics.WebhookEventsTotal.WithLabelValues(event.Type).Inc()

	objectID, _ := event.Data.Object["id"].(string)

	switch event.Type {
	case "payment_intent.succeeded":
		return s.OnPaymentConfirmed(ctx, objectID)
	case "payment_intent.payment_failed":
		return s.OnPaymentFailed(ctx, objectID)
	case "payment_intent.canceled":
		sale, err := s.saleRepo.FindByPaymentIntentID(ctx, objectID)
		if err != nil {
			return err
		}
		err = s.saleRepo.Transition(ctx, sale.ID, domain.SaleAwaitingPayment, domain.SaleCanceled)
		if apperr.IsKind(err, apperr.KindConflict) {
			return nil
		}
		return err
	case "account.updated":
		return s.syncAccountStatus(ctx, event)
	default:
		logger.Debug("ignoring webhook event", "type", event.Type)
		return nil
	}
}

// syncAccountStatus mirrors a connect account's capability flags onto
// whichever local record carries the account id. Both repositories are
// updated; at most one row matches.
func (s *SettlementService) syncAccountStatus(ctx context.Context, event domain.StripeEvent) error {
	accountID, _ := event.Data.Object["id"].(string)
	if accountID == "" {
		return nil
	}

	charges, _ := event.Data.Object["charges_enabled"].(bool)
	payouts, _ := event.Data.Object["payouts_enabled"].(bool)

	status := domain.StripeAccountPending
	if charges && payouts {
		status = domain.StripeAccountActive
	} else if charges != payouts {
		status = domain.StripeAccountRestricted
	}

	if err := s.consultantRepo.UpdateStripeAccountStatus(ctx, accountID, status); err != nil {
		return err
	}
	if err := s.storeRepo.UpdateStripeAccountStatus(ctx, accountID, status); err != nil {
		return err
	}

	logger.Info("settlement account status synced", "account_id", accountID, "status", status)
	return nil
}
