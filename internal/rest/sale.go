package rest

import (
	"context"
	"net/http"

	"comprasmart/business/sale"
	"comprasmart/domain"
	"comprasmart/pkg/logger"
	jsonres "comprasmart/pkg/response"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	SaleHandler struct {
		validate          *validator.Validate
		saleService       SaleService
		settlementService SettlementService
	}

	SaleService interface {
		Create(ctx context.Context, input sale.CreateSaleInput) (domain.Sale, error)
		Get(ctx context.Context, id string) (domain.Sale, error)
		ListByStore(ctx context.Context, storeID string) ([]domain.Sale, error)
		ListByConsultant(ctx context.Context, consultantID string) ([]domain.Sale, error)
		Rate(ctx context.Context, saleID string, input sale.RateSaleInput) (domain.Rating, error)
		AssignTraining(ctx context.Context, consultantID string, input sale.AssignTrainingInput) (domain.ConsultantTraining, error)
		CompleteTraining(ctx context.Context, trainingID string) error
		Trainings(ctx context.Context, consultantID string) ([]domain.ConsultantTraining, error)
	}

	SettlementService interface {
		CreateSplitPayment(ctx context.Context, saleID string) (domain.PaymentHandle, error)
		Cancel(ctx context.Context, saleID string) error
		Refund(ctx context.Context, saleID string, amount *int64) (domain.StripeRefund, error)
	}

	RefundInput struct {
		Amount *int64 `json:"amount" validate:"omitempty,gt=0"`
	}
)

func NewSaleHandler(saleService SaleService, settlementService SettlementService) *SaleHandler {
	return &SaleHandler{
		validate:          validator.New(),
		saleService:       saleService,
		settlementService: settlementService,
	}
}

func (h *SaleHandler) Create(c echo.Context) error {
	var request sale.CreateSaleInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate sale creation", err)
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	created, err := h.saleService.Create(ctx, request)
	if err != nil {
		return respondError(c, "Failed to create sale", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(created))
}

func (h *SaleHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	found, err := h.saleService.Get(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, "Failed to get sale", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(found))
}

// List filters by store_id or consultant_id query parameter. One of the two
// is required so a caller cannot dump every sale on the platform.
func (h *SaleHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	if storeID := c.QueryParam("store_id"); storeID != "" {
		sales, err := h.saleService.ListByStore(ctx, storeID)
		if err != nil {
			return respondError(c, "Failed to list sales", err)
		}
		return c.JSON(http.StatusOK, fres.Response.StatusOK(sales))
	}

	if consultantID := c.QueryParam("consultant_id"); consultantID != "" {
		sales, err := h.saleService.ListByConsultant(ctx, consultantID)
		if err != nil {
			return respondError(c, "Failed to list sales", err)
		}
		return c.JSON(http.StatusOK, fres.Response.StatusOK(sales))
	}

	return c.JSON(http.StatusBadRequest, jsonres.Error("", "store_id or consultant_id query parameter is required", nil))
}

func (h *SaleHandler) CreatePayment(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	handle, err := h.settlementService.CreateSplitPayment(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, "Failed to create split payment", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(handle))
}

func (h *SaleHandler) CancelPayment(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	if err := h.settlementService.Cancel(ctx, c.Param("id")); err != nil {
		return respondError(c, "Failed to cancel sale", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]string{"status": "canceled"}))
}

// RefundPayment refunds the full charge unless the body carries a partial
// amount in cents. An empty body is a full refund.
func (h *SaleHandler) RefundPayment(c echo.Context) error {
	var request RefundInput

	if c.Request().ContentLength > 0 {
		if err := c.Bind(&request); err != nil {
			return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
		}

		if err := h.validate.Struct(&request); err != nil {
			return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	refund, err := h.settlementService.Refund(ctx, c.Param("id"), request.Amount)
	if err != nil {
		return respondError(c, "Failed to refund sale", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(refund))
}

func (h *SaleHandler) Rate(c echo.Context) error {
	var request sale.RateSaleInput

	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	rating, err := h.saleService.Rate(ctx, c.Param("id"), request)
	if err != nil {
		return respondError(c, "Failed to rate sale", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(rating))
}

func (h *SaleHandler) AssignTraining(c echo.Context) error {
	var request sale.AssignTrainingInput

	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	training, err := h.saleService.AssignTraining(ctx, c.Param("id"), request)
	if err != nil {
		return respondError(c, "Failed to assign training", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(training))
}

func (h *SaleHandler) CompleteTraining(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	if err := h.saleService.CompleteTraining(ctx, c.Param("trainingId")); err != nil {
		return respondError(c, "Failed to complete training", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]string{"status": "completed"}))
}

func (h *SaleHandler) Trainings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	trainings, err := h.saleService.Trainings(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, "Failed to list trainings", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(trainings))
}
