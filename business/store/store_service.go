package store

import (
	"context"
	"time"

	"comprasmart/domain"
	"comprasmart/pkg/apperr"
	"comprasmart/pkg/logger"

	"github.com/google/uuid"
)

type StoreRepository interface {
	Create(ctx context.Context, store *domain.Store) error
	FindByID(ctx context.Context, id string) (domain.Store, error)
	FindAll(ctx context.Context) ([]domain.Store, error)
	Update(ctx context.Context, store *domain.Store) error
	UpdateStripeAccount(ctx context.Context, id, accountID, status string) error
	SetActive(ctx context.Context, id string, active bool) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id string) (domain.Product, error)
	FindByStore(ctx context.Context, storeID string) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
}

type ConnectGateway interface {
	CreateConnectAccount(ctx context.Context, email, country string) (domain.StripeAccount, error)
	CreateOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (domain.StripeAccountLink, error)
}

type CreateStoreInput struct {
	Name                  string   `json:"name" validate:"required"`
	Email                 string   `json:"email" validate:"required,email"`
	TaxID                 string   `json:"tax_id" validate:"required"`
	DefaultCommissionRate *float64 `json:"default_commission_rate" validate:"omitempty,gte=0,lte=100"`
}

type CreateProductInput struct {
	Name           string   `json:"name" validate:"required"`
	PriceCents     int64    `json:"price_cents" validate:"required,gt=0"`
	CommissionRate *float64 `json:"commission_rate" validate:"omitempty,gte=0,lte=100"`
}

type OnboardingResult struct {
	AccountID string    `json:"account_id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type StoreService struct {
	storeRepo   StoreRepository
	productRepo ProductRepository
	gateway     ConnectGateway
	country     string
}

func NewStoreService(storeRepo StoreRepository, productRepo ProductRepository, gateway ConnectGateway, country string) *StoreService {
	return &StoreService{
		storeRepo:   storeRepo,
		productRepo: productRepo,
		gateway:     gateway,
		country:     country,
	}
}

func (s *StoreService) Create(ctx context.Context, input CreateStoreInput) (domain.Store, error) {
	store := domain.Store{
		ID:                    uuid.NewString(),
		Name:                  input.Name,
		Email:                 input.Email,
		TaxID:                 input.TaxID,
		DefaultCommissionRate: input.DefaultCommissionRate,
		Active:                true,
		StripeAccountStatus:   domain.StripeAccountNone,
	}

	if err := s.storeRepo.Create(ctx, &store); err != nil {
		return domain.Store{}, err
	}

	logger.Info("store created", "store_id", store.ID)
	return store, nil
}

func (s *StoreService) Get(ctx context.Context, id string) (domain.Store, error) {
	return s.storeRepo.FindByID(ctx, id)
}

func (s *StoreService) List(ctx context.Context) ([]domain.Store, error) {
	return s.storeRepo.FindAll(ctx)
}

// SetDefaultCommissionRate changes the store-wide rate. Passing nil clears
// it and the platform fallback applies. Sales already under settlement keep
// the rate frozen at payment-intent creation.
func (s *StoreService) SetDefaultCommissionRate(ctx context.Context, id string, rate *float64) (domain.Store, error) {
	if rate != nil && (*rate < 0 || *rate > 100) {
		return domain.Store{}, apperr.Validation("commission rate must be between 0 and 100")
	}

	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Store{}, err
	}

	store.DefaultCommissionRate = rate
	if err := s.storeRepo.Update(ctx, &store); err != nil {
		return domain.Store{}, err
	}

	return store, nil
}

// Reactivate lifts a suspension and resets the failure counter.
func (s *StoreService) Reactivate(ctx context.Context, id string) error {
	return s.storeRepo.SetActive(ctx, id, true)
}

func (s *StoreService) Suspend(ctx context.Context, id string) error {
	return s.storeRepo.SetActive(ctx, id, false)
}

func (s *StoreService) AddProduct(ctx context.Context, storeID string, input CreateProductInput) (domain.Product, error) {
	if _, err := s.storeRepo.FindByID(ctx, storeID); err != nil {
		return domain.Product{}, err
	}

	product := domain.Product{
		ID:             uuid.NewString(),
		StoreID:        storeID,
		Name:           input.Name,
		PriceCents:     input.PriceCents,
		CommissionRate: input.CommissionRate,
	}

	if err := s.productRepo.Create(ctx, &product); err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (s *StoreService) Products(ctx context.Context, storeID string) ([]domain.Product, error) {
	return s.productRepo.FindByStore(ctx, storeID)
}

// SetProductCommissionRate sets or clears the per-product override.
func (s *StoreService) SetProductCommissionRate(ctx context.Context, storeID, productID string, rate *float64) (domain.Product, error) {
	if rate != nil && (*rate < 0 || *rate > 100) {
		return domain.Product{}, apperr.Validation("commission rate must be between 0 and 100")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return domain.Product{}, err
	}
	if product.StoreID != storeID {
		return domain.Product{}, apperr.Authorization("product %s does not belong to store %s", productID, storeID)
	}

	product.CommissionRate = rate
	if err := s.productRepo.Update(ctx, &product); err != nil {
		return domain.Product{}, err
	}

	return product, nil
}

func (s *StoreService) RemoveProduct(ctx context.Context, storeID, productID string) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.StoreID != storeID {
		return apperr.Authorization("product %s does not belong to store %s", productID, storeID)
	}

	return s.productRepo.Delete(ctx, productID)
}

// StartOnboarding mirrors consultant onboarding for the store's payout
// account.
func (s *StoreService) StartOnboarding(ctx context.Context, id, refreshURL, returnURL string) (OnboardingResult, error) {
	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return OnboardingResult{}, err
	}

	accountID := store.StripeAccountID
	if accountID == "" {
		account, err := s.gateway.CreateConnectAccount(ctx, store.Email, s.country)
		if err != nil {
			return OnboardingResult{}, err
		}
		accountID = account.ID

		err = s.storeRepo.UpdateStripeAccount(ctx, id, accountID, domain.StripeAccountPending)
		if err != nil {
			return OnboardingResult{}, err
		}
	}

	link, err := s.gateway.CreateOnboardingLink(ctx, accountID, refreshURL, returnURL)
	if err != nil {
		return OnboardingResult{}, err
	}

	return OnboardingResult{
		AccountID: accountID,
		URL:       link.URL,
		ExpiresAt: time.Unix(link.ExpiresAt, 0),
	}, nil
}
