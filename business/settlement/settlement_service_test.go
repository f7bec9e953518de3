package settlement

import (
	"context"
	"fmt"
	"testing"
	"time"

	"comprasmart/domain"
	"comprasmart/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSaleRepo struct {
	sales map[string]*domain.Sale
}

func (f *fakeSaleRepo) FindByID(_ context.Context, id string) (domain.Sale, error) {
	s, ok := f.sales[id]
	if !ok {
		return domain.Sale{}, apperr.NotFound("sale not found")
	}
	return *s, nil
}

func (f *fakeSaleRepo) FindByPaymentIntentID(_ context.Context, piID string) (domain.Sale, error) {
	for _, s := range f.sales {
		if s.StripePaymentIntentID == piID {
			return *s, nil
		}
	}
	return domain.Sale{}, apperr.NotFound("sale not found for payment intent")
}

func (f *fakeSaleRepo) AttachPaymentIntent(_ context.Context, sale *domain.Sale) error {
	stored, ok := f.sales[sale.ID]
	if !ok || stored.Status != domain.SalePending {
		return apperr.Conflict("sale is not pending")
	}
	stored.StripePaymentIntentID = sale.StripePaymentIntentID
	stored.CommissionRate = sale.CommissionRate
	stored.CommissionSource = sale.CommissionSource
	stored.ConsultantAmount = sale.ConsultantAmount
	stored.StoreGrossAmount = sale.StoreGrossAmount
	stored.Status = domain.SaleAwaitingPayment
	return nil
}

func (f *fakeSaleRepo) Transition(_ context.Context, id, from, to string) error {
	stored, ok := f.sales[id]
	if !ok || stored.Status != from {
		return apperr.Conflict("sale is not in state %q", from)
	}
	stored.Status = to
	return nil
}

type fakeSettlementRepo struct {
	records map[string]*domain.Settlement
}

func (f *fakeSettlementRepo) Create(_ context.Context, settlement *domain.Settlement) error {
	if _, exists := f.records[settlement.PaymentIntentID]; exists {
		return apperr.Conflict("settlement already exists")
	}
	cp := *settlement
	f.records[settlement.PaymentIntentID] = &cp
	return nil
}

func (f *fakeSettlementRepo) FindByPaymentIntentID(_ context.Context, piID string) (domain.Settlement, error) {
	r, ok := f.records[piID]
	if !ok {
		return domain.Settlement{}, apperr.NotFound("settlement not found")
	}
	return *r, nil
}

func (f *fakeSettlementRepo) MarkTransferred(_ context.Context, piID, consultantTransferID, storeTransferID, reason string) error {
	r, ok := f.records[piID]
	if !ok {
		return apperr.NotFound("settlement not found")
	}
	if r.TransferredAt != nil {
		return apperr.Conflict("settlement already transferred")
	}
	now := time.Now()
	r.TransferredAt = &now
	r.ConsultantTransferID = consultantTransferID
	r.StoreTransferID = storeTransferID
	r.ManualReviewReason = reason
	return nil
}

func (f *fakeSettlementRepo) FlagManualReview(_ context.Context, piID, reason string) error {
	r, ok := f.records[piID]
	if !ok {
		return apperr.NotFound("settlement not found")
	}
	r.ManualReviewReason = reason
	return nil
}

type fakeStoreRepo struct {
	stores map[string]*domain.Store
}

func (f *fakeStoreRepo) FindByID(_ context.Context, id string) (domain.Store, error) {
	s, ok := f.stores[id]
	if !ok {
		return domain.Store{}, apperr.NotFound("store not found")
	}
	return *s, nil
}

func (f *fakeStoreRepo) UpdateStripeAccountStatus(_ context.Context, accountID, status string) error {
	for _, s := range f.stores {
		if s.StripeAccountID == accountID {
			s.StripeAccountStatus = status
		}
	}
	return nil
}

func (f *fakeStoreRepo) RecordFailedPayment(_ context.Context, id string) (int, error) {
	s, ok := f.stores[id]
	if !ok {
		return 0, apperr.NotFound("store not found")
	}
	s.FailedPaymentAttempts++
	return s.FailedPaymentAttempts, nil
}

func (f *fakeStoreRepo) RecordSuccessfulPayment(_ context.Context, id string) error {
	s, ok := f.stores[id]
	if !ok {
		return apperr.NotFound("store not found")
	}
	s.FailedPaymentAttempts = 0
	if s.SuspendedForPayments {
		s.Active = true
		s.SuspendedForPayments = false
	}
	return nil
}

func (f *fakeStoreRepo) SuspendForPayments(_ context.Context, id string) error {
	s, ok := f.stores[id]
	if !ok {
		return apperr.NotFound("store not found")
	}
	s.Active = false
	s.SuspendedForPayments = true
	return nil
}

type fakeConsultantRepo struct {
	consultants map[string]*domain.Consultant
}

func (f *fakeConsultantRepo) FindByID(_ context.Context, id string) (domain.Consultant, error) {
	c, ok := f.consultants[id]
	if !ok {
		return domain.Consultant{}, apperr.NotFound("consultant not found")
	}
	return *c, nil
}

func (f *fakeConsultantRepo) UpdateStripeAccountStatus(_ context.Context, accountID, status string) error {
	for _, c := range f.consultants {
		if c.StripeAccountID == accountID {
			c.StripeAccountStatus = status
		}
	}
	return nil
}

type fakeProductRepo struct {
	products map[string]*domain.Product
}

func (f *fakeProductRepo) FindByID(_ context.Context, id string) (domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, apperr.NotFound("product not found")
	}
	return *p, nil
}

type refundCall struct {
	paymentIntentID string
	amount          *int64
}

type fakeGateway struct {
	intents      int
	transfers    []domain.StripeTransfer
	transferKeys map[string]domain.StripeTransfer
	refunds      []refundCall
	canceled     []string
}

func (f *fakeGateway) CreatePaymentIntent(_ context.Context, amount int64, metadata map[string]string) (domain.StripePaymentIntent, error) {
	f.intents++
	id := fmt.Sprintf("pi_%d", f.intents)
	return domain.StripePaymentIntent{
		ID:           id,
		Amount:       amount,
		ClientSecret: id + "_secret",
		Metadata:     metadata,
	}, nil
}

func (f *fakeGateway) CancelPaymentIntent(_ context.Context, id string) error {
	f.canceled = append(f.canceled, id)
	return nil
}

func (f *fakeGateway) CreateRefund(_ context.Context, paymentIntentID string, amount *int64) (domain.StripeRefund, error) {
	f.refunds = append(f.refunds, refundCall{paymentIntentID: paymentIntentID, amount: amount})
	return domain.StripeRefund{ID: "re_1", PaymentIntent: paymentIntentID, Status: "succeeded"}, nil
}

// CreateTransfer honors the idempotency key the way the real gateway does:
// a repeated key returns the original transfer without moving funds again.
func (f *fakeGateway) CreateTransfer(_ context.Context, amount int64, destination, idempotencyKey string, metadata map[string]string) (domain.StripeTransfer, error) {
	if tr, seen := f.transferKeys[idempotencyKey]; seen {
		return tr, nil
	}

	tr := domain.StripeTransfer{
		ID:          fmt.Sprintf("tr_%d", len(f.transfers)+1),
		Amount:      amount,
		Destination: destination,
		Metadata:    metadata,
	}
	f.transfers = append(f.transfers, tr)
	if f.transferKeys == nil {
		f.transferKeys = map[string]domain.StripeTransfer{}
	}
	f.transferKeys[idempotencyKey] = tr
	return tr, nil
}

type fakeEmail struct{}

func (fakeEmail) SendEmail(_, _, _, _ string) error { return nil }

func rateP(v float64) *float64 { return &v }

type fixture struct {
	service     *SettlementService
	sales       *fakeSaleRepo
	settlements *fakeSettlementRepo
	stores      *fakeStoreRepo
	consultants *fakeConsultantRepo
	products    *fakeProductRepo
	gateway     *fakeGateway
}

func newFixture() *fixture {
	sales := &fakeSaleRepo{sales: map[string]*domain.Sale{
		"sale-1": {
			ID:           "sale-1",
			StoreID:      "store-1",
			ConsultantID: "cons-1",
			GrossAmount:  10000,
			Status:       domain.SalePending,
		},
	}}
	settlements := &fakeSettlementRepo{records: map[string]*domain.Settlement{}}
	stores := &fakeStoreRepo{stores: map[string]*domain.Store{
		"store-1": {
			ID:                    "store-1",
			Name:                  "Store One",
			Email:                 "store@example.com",
			Active:                true,
			DefaultCommissionRate: rateP(8),
			StripeAccountID:       "acct_store",
			StripeAccountStatus:   domain.StripeAccountActive,
		},
	}}
	consultants := &fakeConsultantRepo{consultants: map[string]*domain.Consultant{
		"cons-1": {
			ID:                  "cons-1",
			Active:              true,
			StripeAccountID:     "acct_cons",
			StripeAccountStatus: domain.StripeAccountActive,
		},
	}}
	products := &fakeProductRepo{products: map[string]*domain.Product{}}
	gateway := &fakeGateway{}

	return &fixture{
		service:     NewSettlementService(sales, settlements, stores, consultants, products, gateway, fakeEmail{}),
		sales:       sales,
		settlements: settlements,
		stores:      stores,
		consultants: consultants,
		products:    products,
		gateway:     gateway,
	}
}

func TestCreateSplitPayment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	handle, err := f.service.CreateSplitPayment(ctx, "sale-1")
	require.NoError(t, err)

	assert.Equal(t, int64(800), handle.ConsultantAmount)
	assert.Equal(t, int64(9200), handle.StoreGrossAmount)
	assert.Equal(t, 8.0, handle.CommissionRate)
	assert.Equal(t, domain.CommissionSourceStore, handle.CommissionSource)
	assert.NotEmpty(t, handle.ClientSecret)

	assert.Equal(t, domain.SaleAwaitingPayment, f.sales.sales["sale-1"].Status)

	record := f.settlements.records[handle.PaymentIntentID]
	require.NotNil(t, record)
	assert.Equal(t, int64(10000), record.GrossAmount)
	assert.Equal(t, record.GrossAmount, record.ConsultantAmount+record.StoreGrossAmount)
	assert.Nil(t, record.TransferredAt)
}

func TestCreateSplitPaymentRejectsNonPendingSale(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.CreateSplitPayment(ctx, "sale-1")
	require.NoError(t, err)

	_, err = f.service.CreateSplitPayment(ctx, "sale-1")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestCreateSplitPaymentRejectsSuspendedStore(t *testing.T) {
	f := newFixture()
	f.stores.stores["store-1"].Active = false

	_, err := f.service.CreateSplitPayment(context.Background(), "sale-1")
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestCreateSplitPaymentRequiresSettlementAccounts(t *testing.T) {
	ctx := context.Background()

	t.Run("store without account", func(t *testing.T) {
		f := newFixture()
		f.stores.stores["store-1"].StripeAccountID = ""

		_, err := f.service.CreateSplitPayment(ctx, "sale-1")
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		assert.Zero(t, f.gateway.intents, "no payment intent for an unpayable store")
	})

	t.Run("consultant with pending account", func(t *testing.T) {
		f := newFixture()
		f.consultants.consultants["cons-1"].StripeAccountStatus = domain.StripeAccountPending

		_, err := f.service.CreateSplitPayment(ctx, "sale-1")
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		assert.Zero(t, f.gateway.intents, "no payment intent for an unpayable consultant")
	})

	t.Run("consultant without account", func(t *testing.T) {
		f := newFixture()
		f.consultants.consultants["cons-1"].StripeAccountID = ""

		_, err := f.service.CreateSplitPayment(ctx, "sale-1")
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		assert.Zero(t, f.gateway.intents)
	})
}

func TestOnPaymentConfirmedTransfersBothShares(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	handle, err := f.service.CreateSplitPayment(ctx, "sale-1")
	require.NoError(t, err)

	require.NoError(t, f.service.OnPaymentConfirmed(ctx, handle.PaymentIntentID))

	require.Len(t, f.gateway.transfers, 2)
	assert.Equal(t, int64(800), f.gateway.transfers[0].Amount)
	assert.Equal(t, "acct_cons", f.gateway.transfers[0].Destination)
	assert.Equal(t, int64(9200), f.gateway.transfers[1].Amount)
	assert.Equal(t, "acct_store", f.gateway.transfers[1].Destination)

	assert.Equal(t, domain.SalePaid, f.sales.sales["sale-1"].Status)

	record := f.settlements.records[handle.PaymentIntentID]
	assert.NotNil(t, record.TransferredAt)
	assert.Empty(t, record.ManualReviewReason)
	assert.Zero(t, f.stores.stores["store-1"].FailedPaymentAttempts)
}

func TestOnPaymentConfirmedIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	handle, err := f.service.CreateSplitPayment(ctx, "sale-1")
	require.NoError(t, err)

	require.NoError(t, f.service.OnPaymentConfirmed(ctx, handle.PaymentIntentID))
	require.NoError(t, f.service.OnPaymentConfirmed(ctx, handle.PaymentIntentID))
	require.NoError(t, f.service.OnPaymentConfirmed(ctx, handle.PaymentIntentID))

	assert.Len(t, f.gateway.transfers, 2, "replayed confirmations must not pay twice")
}

func TestOnPaymentConfirmedAfterCancelDoesNotTransfer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	handle, err := f.service.CreateSplitPayment(ctx, "sale-1")
	require.NoError(t, err)
	require.NoError(t, f.service.Cancel(ctx, "sale-1"))

	// A late or replayed succeeded event for the canceled intent.
	require.NoError(t, f.service.OnPaymentConfirmed(ctx, handle.PaymentIntentID))

	assert.Empty(t, f.gateway.transfers, "a canceled sale must not pay out")
	assert.Equal(t, domain.SaleCanceled, f.sales.sales["sale-1"].Status)

	record := f.settlements.records[handle.PaymentIntentID]
	assert.Nil(t, record.TransferredAt)
	assert.Contains(t, record.ManualReviewReason, "transfers withheld")
}

// staleSettlementRepo serves reads as if the settlement were still
// untransferred, simulating two deliveries racing past the transferred_at
// check before either marks the row.
type staleSettlementRepo struct {
	*fakeSettlementRepo
}

func (f *staleSettlementRepo) FindByPaymentIntentID(ctx context.Context, piID string) (domain.Settlement, error) {
	record, err := f.fakeSettlementRepo.FindByPaymentIntentID(ctx, piID)
	if err != nil {
		return domain.Settlement{}, err
	}
	record.TransferredAt = nil
	return record, nil
}

func TestOnPaymentConfirmedConcurrentDeliveries(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	handle, err := f.service.CreateSplitPayment(ctx, "sale-1")
	require.NoError(t, err)

	racy := NewSettlementService(f.sales, &staleSettlementRepo{f.settlements},
		f.stores, f.consultants, f.products, f.gateway, fakeEmail{})

	require.NoError(t, racy.OnPaymentConfirmed(ctx, handle.PaymentIntentID))
	require.NoError(t, racy.OnPaymentConfirmed(ctx, handle.PaymentIntentID))

	assert.Len(t, f.gateway.transfers, 2,
		"idempotency keys must collapse overlapping confirmations to one payout per payee")
	assert.NotNil(t, f.settlements.records[handle.PaymentIntentID].TransferredAt)
}

func TestOnPaymentConfirmedSkipsTinyShare(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// 1% of 100 cents is 1 cent, below the transfer minimum.
	f.sales.sales["sale-1"].GrossAmount = 100
	f.stores.stores["store-1"].DefaultCommissionRate = rateP(1)

	handle, err := f.service.CreateSplitPayment(ctx, "sale-1")
	require.NoError(t, err)

	require.NoError(t, f.service.OnPaymentConfirmed(ctx, handle.PaymentIntentID))

	require.Len(t, f.gateway.transfers, 1, "only the store share clears the minimum")
	assert.Equal(t, "acct_store", f.gateway.transfers[0].Destination)

	record := f.settlements.records[handle.PaymentIntentID]
	assert.Contains(t, record.ManualReviewReason, "below transfer minimum")
}

func TestOnPaymentConfirmedSkipsPayeeWithoutAccount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	handle, err := f.service.CreateSplitPayment(ctx, "sale-1")
	require.NoError(t, err)

	// Account removed between intent creation and confirmation: the frozen
	// settlement record carries no destination for the consultant share.
	f.settlements.records[handle.PaymentIntentID].ConsultantAccountID = ""

	require.NoError(t, f.service.OnPaymentConfirmed(ctx, handle.PaymentIntentID))

	require.Len(t, f.gateway.transfers, 1)
	assert.Equal(t, "acct_store", f.gateway.transfers[0].Destination)

	record := f.settlements.records[handle.PaymentIntentID]
	assert.Contains(t, record.ManualReviewReason, "no settlement account")
}

func TestOnPaymentFailedSuspendsStoreAfterThreeFailures(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		saleID := fmt.Sprintf("fail-%d", i)
		f.sales.sales[saleID] = &domain.Sale{
			ID:                    saleID,
			StoreID:               "store-1",
			ConsultantID:          "cons-1",
			GrossAmount:           5000,
			Status:                domain.SaleAwaitingPayment,
			StripePaymentIntentID: fmt.Sprintf("pi_fail_%d", i),
		}

		require.NoError(t, f.service.OnPaymentFailed(ctx, fmt.Sprintf("pi_fail_%d", i)))
		assert.Equal(t, domain.SaleFailed, f.sales.sales[saleID].Status)
	}

	assert.False(t, f.stores.stores["store-1"].Active)
	assert.True(t, f.stores.stores["store-1"].SuspendedForPayments)
	assert.Equal(t, 3, f.stores.stores["store-1"].FailedPaymentAttempts)
}

func TestSuccessfulPaymentLiftsOnlyPaymentSuspension(t *testing.T) {
	ctx := context.Background()

	t.Run("payment-driven suspension is lifted", func(t *testing.T) {
		f := newFixture()

		handle, err := f.service.CreateSplitPayment(ctx, "sale-1")
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			saleID := fmt.Sprintf("fail-%d", i)
			f.sales.sales[saleID] = &domain.Sale{
				ID:                    saleID,
				StoreID:               "store-1",
				Status:                domain.SaleAwaitingPayment,
				StripePaymentIntentID: fmt.Sprintf("pi_fail_%d", i),
			}
			require.NoError(t, f.service.OnPaymentFailed(ctx, fmt.Sprintf("pi_fail_%d", i)))
		}
		require.False(t, f.stores.stores["store-1"].Active)

		require.NoError(t, f.service.OnPaymentConfirmed(ctx, handle.PaymentIntentID))

		assert.True(t, f.stores.stores["store-1"].Active)
		assert.False(t, f.stores.stores["store-1"].SuspendedForPayments)
		assert.Zero(t, f.stores.stores["store-1"].FailedPaymentAttempts)
	})

	t.Run("admin suspension stays", func(t *testing.T) {
		f := newFixture()

		handle, err := f.service.CreateSplitPayment(ctx, "sale-1")
		require.NoError(t, err)

		// Admin deactivation carries no payment-suspension marker.
		f.stores.stores["store-1"].Active = false

		require.NoError(t, f.service.OnPaymentConfirmed(ctx, handle.PaymentIntentID))

		assert.False(t, f.stores.stores["store-1"].Active, "a payment must not undo an admin suspension")
		assert.Zero(t, f.stores.stores["store-1"].FailedPaymentAttempts)
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("pending sale cancels without gateway call", func(t *testing.T) {
		f := newFixture()

		require.NoError(t, f.service.Cancel(ctx, "sale-1"))
		assert.Equal(t, domain.SaleCanceled, f.sales.sales["sale-1"].Status)
		assert.Empty(t, f.gateway.canceled)
	})

	t.Run("awaiting payment cancels the intent too", func(t *testing.T) {
		f := newFixture()
		handle, err := f.service.CreateSplitPayment(ctx, "sale-1")
		require.NoError(t, err)

		require.NoError(t, f.service.Cancel(ctx, "sale-1"))
		assert.Equal(t, domain.SaleCanceled, f.sales.sales["sale-1"].Status)
		assert.Equal(t, []string{handle.PaymentIntentID}, f.gateway.canceled)
	})

	t.Run("paid sale cannot be canceled", func(t *testing.T) {
		f := newFixture()
		handle, err := f.service.CreateSplitPayment(ctx, "sale-1")
		require.NoError(t, err)
		require.NoError(t, f.service.OnPaymentConfirmed(ctx, handle.PaymentIntentID))

		err = f.service.Cancel(ctx, "sale-1")
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})
}

func TestRefundFlagsTransferredSettlement(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	handle, err := f.service.CreateSplitPayment(ctx, "sale-1")
	require.NoError(t, err)
	require.NoError(t, f.service.OnPaymentConfirmed(ctx, handle.PaymentIntentID))

	refund, err := f.service.Refund(ctx, "sale-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "succeeded", refund.Status)

	require.Len(t, f.gateway.refunds, 1)
	assert.Nil(t, f.gateway.refunds[0].amount, "no amount means a full refund")

	assert.Equal(t, domain.SaleRefunded, f.sales.sales["sale-1"].Status)
	assert.Len(t, f.gateway.transfers, 2, "refund must not reverse transfers")

	record := f.settlements.records[handle.PaymentIntentID]
	assert.Contains(t, record.ManualReviewReason, "manual reversal required")
}

func TestRefundRejectsUnpaidSale(t *testing.T) {
	f := newFixture()

	_, err := f.service.Refund(context.Background(), "sale-1", nil)
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestRefundPartialAmount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	handle, err := f.service.CreateSplitPayment(ctx, "sale-1")
	require.NoError(t, err)
	require.NoError(t, f.service.OnPaymentConfirmed(ctx, handle.PaymentIntentID))

	partial := int64(2500)
	refund, err := f.service.Refund(ctx, "sale-1", &partial)
	require.NoError(t, err)
	assert.Equal(t, "succeeded", refund.Status)

	require.Len(t, f.gateway.refunds, 1)
	require.NotNil(t, f.gateway.refunds[0].amount)
	assert.Equal(t, int64(2500), *f.gateway.refunds[0].amount)
	assert.Equal(t, handle.PaymentIntentID, f.gateway.refunds[0].paymentIntentID)

	assert.Equal(t, domain.SaleRefunded, f.sales.sales["sale-1"].Status)
}

func TestRefundRejectsInvalidAmounts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	handle, err := f.service.CreateSplitPayment(ctx, "sale-1")
	require.NoError(t, err)
	require.NoError(t, f.service.OnPaymentConfirmed(ctx, handle.PaymentIntentID))

	tooMuch := int64(10001)
	_, err = f.service.Refund(ctx, "sale-1", &tooMuch)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	zero := int64(0)
	_, err = f.service.Refund(ctx, "sale-1", &zero)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	assert.Empty(t, f.gateway.refunds)
}

func TestHandleEventAccountUpdated(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	var event domain.StripeEvent
	event.Type = "account.updated"
	event.Data.Object = map[string]any{
		"id":              "acct_cons",
		"charges_enabled": true,
		"payouts_enabled": false,
	}

	require.NoError(t, f.service.HandleEvent(ctx, event))
	assert.Equal(t, domain.StripeAccountRestricted, f.consultants.consultants["cons-1"].StripeAccountStatus)

	event.Data.Object["payouts_enabled"] = true
	require.NoError(t, f.service.HandleEvent(ctx, event))
	assert.Equal(t, domain.StripeAccountActive, f.consultants.consultants["cons-1"].StripeAccountStatus)
}

func TestHandleEventIgnoresUnknownTypes(t *testing.T) {
	f := newFixture()

	var event domain.StripeEvent
	event.Type = "customer.created"

	assert.NoError(t, f.service.HandleEvent(context.Background(), event))
}
