package consultant

import (
	"context"
	"time"

	"comprasmart/domain"
	"comprasmart/pkg/apperr"
	"comprasmart/pkg/logger"

	"github.com/google/uuid"
)

type ConsultantRepository interface {
	Create(ctx context.Context, consultant *domain.Consultant) error
	FindByID(ctx context.Context, id string) (domain.Consultant, error)
	FindByTaxID(ctx context.Context, taxID string) (domain.Consultant, error)
	FindAll(ctx context.Context) ([]domain.Consultant, error)
	Update(ctx context.Context, consultant *domain.Consultant) error
	UpdateStripeAccount(ctx context.Context, id, accountID, status string) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

type ConnectGateway interface {
	CreateConnectAccount(ctx context.Context, email, country string) (domain.StripeAccount, error)
	CreateOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (domain.StripeAccountLink, error)
	GetAccount(ctx context.Context, accountID string) (domain.StripeAccount, error)
}

type CreateConsultantInput struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	TaxID    string `json:"tax_id" validate:"required"`
	City     string `json:"city"`
	State    string `json:"state"`
}

type UpdateConsultantInput struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	State    string `json:"state"`
}

// OnboardingResult is the link the consultant follows to finish setting up
// their payout account. Links expire, hence the timestamp.
type OnboardingResult struct {
	AccountID string    `json:"account_id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ConsultantService struct {
	consultantRepo ConsultantRepository
	gateway        ConnectGateway
	country        string
}

func NewConsultantService(consultantRepo ConsultantRepository, gateway ConnectGateway, country string) *ConsultantService {
	return &ConsultantService{
		consultantRepo: consultantRepo,
		gateway:        gateway,
		country:        country,
	}
}

func (s *ConsultantService) Create(ctx context.Context, input CreateConsultantInput) (domain.Consultant, error) {
	taken, err := s.consultantRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return domain.Consultant{}, err
	}
	if taken {
		return domain.Consultant{}, apperr.Conflict("email %s is already registered", input.Email)
	}

	taken, err = s.consultantRepo.ExistsByPhone(ctx, input.Phone)
	if err != nil {
		return domain.Consultant{}, err
	}
	if taken {
		return domain.Consultant{}, apperr.Conflict("phone %s is already registered", input.Phone)
	}

	consultant := domain.Consultant{
		ID:                  uuid.NewString(),
		FullName:            input.FullName,
		Email:               input.Email,
		Phone:               input.Phone,
		TaxID:               input.TaxID,
		City:                input.City,
		State:               input.State,
		Active:              true,
		StripeAccountStatus: domain.StripeAccountNone,
	}

	if err := s.consultantRepo.Create(ctx, &consultant); err != nil {
		return domain.Consultant{}, err
	}

	logger.Info("consultant created", "consultant_id", consultant.ID)
	return consultant, nil
}

func (s *ConsultantService) Get(ctx context.Context, id string) (domain.Consultant, error) {
	return s.consultantRepo.FindByID(ctx, id)
}

func (s *ConsultantService) GetByTaxID(ctx context.Context, taxID string) (domain.Consultant, error) {
	return s.consultantRepo.FindByTaxID(ctx, taxID)
}

func (s *ConsultantService) List(ctx context.Context) ([]domain.Consultant, error) {
	return s.consultantRepo.FindAll(ctx)
}

func (s *ConsultantService) Update(ctx context.Context, id string, input UpdateConsultantInput) (domain.Consultant, error) {
	consultant, err := s.consultantRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Consultant{}, err
	}

	if input.FullName != "" {
		consultant.FullName = input.FullName
	}
	if input.Phone != "" && input.Phone != consultant.Phone {
		taken, err := s.consultantRepo.ExistsByPhone(ctx, input.Phone)
		if err != nil {
			return domain.Consultant{}, err
		}
		if taken {
			return domain.Consultant{}, apperr.Conflict("phone %s is already registered", input.Phone)
		}
		consultant.Phone = input.Phone
	}
	if input.City != "" {
		consultant.City = input.City
	}
	if input.State != "" {
		consultant.State = input.State
	}

	if err := s.consultantRepo.Update(ctx, &consultant); err != nil {
		return domain.Consultant{}, err
	}

	return consultant, nil
}

func (s *ConsultantService) Deactivate(ctx context.Context, id string) error {
	return s.consultantRepo.SetActive(ctx, id, false)
}

func (s *ConsultantService) Delete(ctx context.Context, id string) error {
	return s.consultantRepo.Delete(ctx, id)
}

// StartOnboarding creates the consultant's payout account on first call and
// returns a fresh onboarding link. Calling again before onboarding finishes
// reuses the existing account with a new link.
func (s *ConsultantService) StartOnboarding(ctx context.Context, id, refreshURL, returnURL string) (OnboardingResult, error) {
	consultant, err := s.consultantRepo.FindByID(ctx, id)
	if err != nil {
		return OnboardingResult{}, err
	}

	accountID := consultant.StripeAccountID
	if accountID == "" {
		account, err := s.gateway.CreateConnectAccount(ctx, consultant.Email, s.country)
		if err != nil {
			return OnboardingResult{}, err
		}
		accountID = account.ID

		err = s.consultantRepo.UpdateStripeAccount(ctx, id, accountID, domain.StripeAccountPending)
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

// AccountStatus reports the live settlement-readiness of the consultant's
// payout account, straight from the gateway.
func (s *ConsultantService) AccountStatus(ctx context.Context, id string) (domain.AccountStatus, error) {
	consultant, err := s.consultantRepo.FindByID(ctx, id)
	if err != nil {
		return domain.AccountStatus{}, err
	}
	if consultant.StripeAccountID == "" {
		return domain.AccountStatus{Status: domain.StripeAccountNone}, nil
	}

	account, err := s.gateway.GetAccount(ctx, consultant.StripeAccountID)
	if err != nil {
		return domain.AccountStatus{}, err
	}

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
	}, nil
}
