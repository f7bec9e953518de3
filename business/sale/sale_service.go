package sale

import (
	"context"

	"comprasmart/domain"
	"comprasmart/pkg/apperr"

	"github.com/google/uuid"
)

type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	FindByID(ctx context.Context, id string) (domain.Sale, error)
	FindByStore(ctx context.Context, storeID string) ([]domain.Sale, error)
	FindByConsultant(ctx context.Context, consultantID string) ([]domain.Sale, error)
}

type RatingRepository interface {
	Create(ctx context.Context, rating *domain.Rating) error
}

type TrainingRepository interface {
	Create(ctx context.Context, training *domain.ConsultantTraining) error
	FindByConsultant(ctx context.Context, consultantID string) ([]domain.ConsultantTraining, error)
	MarkCompleted(ctx context.Context, id string) error
}

type StoreRepository interface {
	FindByID(ctx context.Context, id string) (domain.Store, error)
}

type ConsultantRepository interface {
	FindByID(ctx context.Context, id string) (domain.Consultant, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, id string) (domain.Product, error)
}

type CreateSaleInput struct {
	StoreID      string  `json:"store_id" validate:"required,uuid"`
	ConsultantID string  `json:"consultant_id" validate:"required,uuid"`
	ProductID    *string `json:"product_id" validate:"omitempty,uuid"`
	GrossAmount  int64   `json:"gross_amount" validate:"required,gt=0"`
}

type RateSaleInput struct {
	Stars   int    `json:"stars" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

type AssignTrainingInput struct {
	Name      string `json:"name" validate:"required"`
	Mandatory bool   `json:"mandatory"`
}

type SaleService struct {
	saleRepo       SaleRepository
	ratingRepo     RatingRepository
	trainingRepo   TrainingRepository
	storeRepo      StoreRepository
	consultantRepo ConsultantRepository
	productRepo    ProductRepository
}

func NewSaleService(
	saleRepo SaleRepository,
	ratingRepo RatingRepository,
	trainingRepo TrainingRepository,
	storeRepo StoreRepository,
	consultantRepo ConsultantRepository,
	productRepo ProductRepository,
) *SaleService {
	return &SaleService{
		saleRepo:       saleRepo,
		ratingRepo:     ratingRepo,
		trainingRepo:   trainingRepo,
		storeRepo:      storeRepo,
		consultantRepo: consultantRepo,
		productRepo:    productRepo,
	}
}

// Create records a pending sale. The commission split is not resolved here;
// that happens when the payment intent is opened, so rate changes between
// sale creation and checkout still apply.
func (s *SaleService) Create(ctx context.Context, input CreateSaleInput) (domain.Sale, error) {
	store, err := s.storeRepo.FindByID(ctx, input.StoreID)
	if err != nil {
		return domain.Sale{}, err
	}
	if !store.Active {
		return domain.Sale{}, apperr.Conflict("store %s is suspended", store.ID)
	}

	consultant, err := s.consultantRepo.FindByID(ctx, input.ConsultantID)
	if err != nil {
		return domain.Sale{}, err
	}
	if !consultant.Active {
		return domain.Sale{}, apperr.Conflict("consultant %s is deactivated", consultant.ID)
	}

	if input.ProductID != nil {
		product, err := s.productRepo.FindByID(ctx, *input.ProductID)
		if err != nil {
			return domain.Sale{}, err
		}
		if product.StoreID != input.StoreID {
			return domain.Sale{}, apperr.Validation("product %s does not belong to store %s", product.ID, input.StoreID)
		}
	}

	sale := domain.Sale{
		ID:           uuid.NewString(),
		StoreID:      input.StoreID,
		ConsultantID: input.ConsultantID,
		ProductID:    input.ProductID,
		GrossAmount:  input.GrossAmount,
		Status:       domain.SalePending,
	}

	if err := s.saleRepo.Create(ctx, &sale); err != nil {
		return domain.Sale{}, err
	}

	return sale, nil
}

func (s *SaleService) Get(ctx context.Context, id string) (domain.Sale, error) {
	return s.saleRepo.FindByID(ctx, id)
}

func (s *SaleService) ListByStore(ctx context.Context, storeID string) ([]domain.Sale, error) {
	return s.saleRepo.FindByStore(ctx, storeID)
}

func (s *SaleService) ListByConsultant(ctx context.Context, consultantID string) ([]domain.Sale, error) {
	return s.saleRepo.FindByConsultant(ctx, consultantID)
}

// Rate attaches a customer rating to a paid sale. Ratings on unpaid sales
// would let stores grade service that never happened.
func (s *SaleService) Rate(ctx context.Context, saleID string, input RateSaleInput) (domain.Rating, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return domain.Rating{}, err
	}
	if sale.Status != domain.SalePaid {
		return domain.Rating{}, apperr.Conflict("only paid sales can be rated")
	}

	rating := domain.Rating{
		ID:           uuid.NewString(),
		ConsultantID: sale.ConsultantID,
		SaleID:       sale.ID,
		Stars:        input.Stars,
		Comment:      input.Comment,
	}

	if err := s.ratingRepo.Create(ctx, &rating); err != nil {
		return domain.Rating{}, err
	}

	return rating, nil
}

func (s *SaleService) AssignTraining(ctx context.Context, consultantID string, input AssignTrainingInput) (domain.ConsultantTraining, error) {
	if _, err := s.consultantRepo.FindByID(ctx, consultantID); err != nil {
		return domain.ConsultantTraining{}, err
	}

	training := domain.ConsultantTraining{
		ID:           uuid.NewString(),
		ConsultantID: consultantID,
		Name:         input.Name,
		Mandatory:    input.Mandatory,
	}

	if err := s.trainingRepo.Create(ctx, &training); err != nil {
		return domain.ConsultantTraining{}, err
	}

	return training, nil
}

func (s *SaleService) CompleteTraining(ctx context.Context, trainingID string) error {
	return s.trainingRepo.MarkCompleted(ctx, trainingID)
}

func (s *SaleService) Trainings(ctx context.Context, consultantID string) ([]domain.ConsultantTraining, error) {
	return s.trainingRepo.FindByConsultant(ctx, consultantID)
}
