package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"comprasmart/domain"
)

type StripeConfig struct {
	SecretKey     string
	BaseURL       string
	WebhookSecret string
	Currency      string
}

type StripeRepository struct {
	stripeConfig StripeConfig
	client       *http.Client
}

func NewStripeRepository(cfg StripeConfig) *StripeRepository {
	return &StripeRepository{
		stripeConfig: cfg,
		client:       &http.Client{Timeout: 15 * time.Second},
	}
}

// do sends a form-encoded request to the Stripe API and decodes the JSON
// response into out.
func (r *StripeRepository) do(ctx context.Context, method, path string, form url.Values, out any) error {
	return r.doIdempotent(ctx, method, path, form, "", out)
}

// doIdempotent is do with an Idempotency-Key header. Stripe replays the
// stored response for a repeated key instead of performing the call again.
func (r *StripeRepository) doIdempotent(ctx context.Context, method, path string, form url.Values, idempotencyKey string, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, r.stripeConfig.BaseURL+path, body)
	if err != nil {
		return err
	}

	req.SetBasicAuth(r.stripeConfig.SecretKey, "")
	if form != nil {
		req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	res, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode >= 400 {
		var stripeErr domain.StripeError
		if err := json.Unmarshal(resBody, &stripeErr); err == nil && stripeErr.Error.Message != "" {
			return fmt.Errorf("stripe %s %s: %s (%s)", method, path, stripeErr.Error.Message, stripeErr.Error.Type)
		}
		return fmt.Errorf("stripe %s %s: status %d", method, path, res.StatusCode)
	}

	if out == nil {
		return nil
	}

	return json.Unmarshal(resBody, out)
}

// CreatePaymentIntent charges the full amount to the platform account. The
// split metadata is attached for operator visibility; the settlement record
// in our own database is authoritative.
func (r *StripeRepository) CreatePaymentIntent(ctx context.Context, amount int64, metadata map[string]string) (domain.StripePaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", r.stripeConfig.Currency)
	form.Set("automatic_payment_methods[enabled]", "true")
	for k, v := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var intent domain.StripePaymentIntent
	if err := r.do(ctx, http.MethodPost, "/v1/payment_intents", form, &intent); err != nil {
		return domain.StripePaymentIntent{}, err
	}

	return intent, nil
}

func (r *StripeRepository) GetPaymentIntent(ctx context.Context, id string) (domain.StripePaymentIntent, error) {
	var intent domain.StripePaymentIntent
	if err := r.do(ctx, http.MethodGet, "/v1/payment_intents/"+id, nil, &intent); err != nil {
		return domain.StripePaymentIntent{}, err
	}

	return intent, nil
}

func (r *StripeRepository) CancelPaymentIntent(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodPost, "/v1/payment_intents/"+id+"/cancel", url.Values{}, nil)
}

// CreateRefund refunds the payment intent. A nil amount refunds the full
// charge.
func (r *StripeRepository) CreateRefund(ctx context.Context, paymentIntentID string, amount *int64) (domain.StripeRefund, error) {
	form := url.Values{}
	form.Set("payment_intent", paymentIntentID)
	if amount != nil {
		form.Set("amount", strconv.FormatInt(*amount, 10))
	}

	var refund domain.StripeRefund
	if err := r.do(ctx, http.MethodPost, "/v1/refunds", form, &refund); err != nil {
		return domain.StripeRefund{}, err
	}

	return refund, nil
}

// CreateTransfer moves funds from the platform balance to a connected
// account. The idempotency key makes a retried call return the original
// transfer instead of moving the funds again.
func (r *StripeRepository) CreateTransfer(ctx context.Context, amount int64, destination, idempotencyKey string, metadata map[string]string) (domain.StripeTransfer, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", r.stripeConfig.Currency)
	form.Set("destination", destination)
	for k, v := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	var transfer domain.StripeTransfer
	if err := r.doIdempotent(ctx, http.MethodPost, "/v1/transfers", form, idempotencyKey, &transfer); err != nil {
		return domain.StripeTransfer{}, err
	}

	return transfer, nil
}

// CreateConnectAccount creates an express account able to receive
// transfers.
func (r *StripeRepository) CreateConnectAccount(ctx context.Context, email, country string) (domain.StripeAccount, error) {
	form := url.Values{}
	form.Set("type", "express")
	form.Set("country", country)
	form.Set("email", email)
	form.Set("capabilities[card_payments][requested]", "true")
	form.Set("capabilities[transfers][requested]", "true")
	form.Set("business_type", "individual")

	var account domain.StripeAccount
	if err := r.do(ctx, http.MethodPost, "/v1/accounts", form, &account); err != nil {
		return domain.StripeAccount{}, err
	}

	return account, nil
}

func (r *StripeRepository) CreateOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (domain.StripeAccountLink, error) {
	form := url.Values{}
	form.Set("account", accountID)
	form.Set("refresh_url", refreshURL)
	form.Set("return_url", returnURL)
	form.Set("type", "account_onboarding")

	var link domain.StripeAccountLink
	if err := r.do(ctx, http.MethodPost, "/v1/account_links", form, &link); err != nil {
		return domain.StripeAccountLink{}, err
	}

	return link, nil
}

func (r *StripeRepository) GetAccount(ctx context.Context, accountID string) (domain.StripeAccount, error) {
	var account domain.StripeAccount
	if err := r.do(ctx, http.MethodGet, "/v1/accounts/"+accountID, nil, &account); err != nil {
		return domain.StripeAccount{}, err
	}

	return account, nil
}

// AccountStatus maps a raw account to the settlement-readiness view.
func AccountStatus(account domain.StripeAccount) domain.AccountStatus {
	isActive := account.ChargesEnabled && account.PayoutsEnabled

	status := domain.StripeAccountRestricted
	if isActive {
		status = domain.StripeAccountActive
	}

	return domain.AccountStatus{
		AccountID:           account.ID,
		IsActive:            isActive,
		ChargesEnabled:      account.ChargesEnabled,
		PayoutsEnabled:      account.PayoutsEnabled,
		PendingRequirements: account.Requirements.CurrentlyDue,
		Status:              status,
	}
}
