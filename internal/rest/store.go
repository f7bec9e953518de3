package rest

import (
	"context"
	"net/http"

	"comprasmart/business/store"
	"comprasmart/domain"
	"comprasmart/pkg/logger"
	jsonres "comprasmart/pkg/response"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	StoreHandler struct {
		validate     *validator.Validate
		storeService StoreService
	}

	StoreService interface {
		Create(ctx context.Context, input store.CreateStoreInput) (domain.Store, error)
		Get(ctx context.Context, id string) (domain.Store, error)
		List(ctx context.Context) ([]domain.Store, error)
		SetDefaultCommissionRate(ctx context.Context, id string, rate *float64) (domain.Store, error)
		Reactivate(ctx context.Context, id string) error
		Suspend(ctx context.Context, id string) error
		AddProduct(ctx context.Context, storeID string, input store.CreateProductInput) (domain.Product, error)
		Products(ctx context.Context, storeID string) ([]domain.Product, error)
		SetProductCommissionRate(ctx context.Context, storeID, productID string, rate *float64) (domain.Product, error)
		RemoveProduct(ctx context.Context, storeID, productID string) error
		StartOnboarding(ctx context.Context, id, refreshURL, returnURL string) (store.OnboardingResult, error)
	}

	CommissionRateInput struct {
		// A null rate clears the override.
		Rate *float64 `json:"rate" validate:"omitempty,gte=0,lte=100"`
	}
)

func NewStoreHandler(storeService StoreService) *StoreHandler {
	return &StoreHandler{
		validate:     validator.New(),
		storeService: storeService,
	}
}

func (h *StoreHandler) Create(c echo.Context) error {
	var request store.CreateStoreInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate store creation", err)
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	created, err := h.storeService.Create(ctx, request)
	if err != nil {
		return respondError(c, "Failed to create store", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(created))
}

func (h *StoreHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	found, err := h.storeService.Get(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, "Failed to get store", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(found))
}

func (h *StoreHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	stores, err := h.storeService.List(ctx)
	if err != nil {
		return respondError(c, "Failed to list stores", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(stores))
}

func (h *StoreHandler) SetCommissionRate(c echo.Context) error {
	var request CommissionRateInput

	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	updated, err := h.storeService.SetDefaultCommissionRate(ctx, c.Param("id"), request.Rate)
	if err != nil {
		return respondError(c, "Failed to set store commission rate", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updated))
}

func (h *StoreHandler) Reactivate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	if err := h.storeService.Reactivate(ctx, c.Param("id")); err != nil {
		return respondError(c, "Failed to reactivate store", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]string{"status": "active"}))
}

func (h *StoreHandler) Suspend(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	if err := h.storeService.Suspend(ctx, c.Param("id")); err != nil {
		return respondError(c, "Failed to suspend store", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]string{"status": "suspended"}))
}

func (h *StoreHandler) AddProduct(c echo.Context) error {
	var request store.CreateProductInput

	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	product, err := h.storeService.AddProduct(ctx, c.Param("id"), request)
	if err != nil {
		return respondError(c, "Failed to add product", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(product))
}

func (h *StoreHandler) Products(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	products, err := h.storeService.Products(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, "Failed to list products", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(products))
}

func (h *StoreHandler) SetProductCommissionRate(c echo.Context) error {
	var request CommissionRateInput

	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	product, err := h.storeService.SetProductCommissionRate(ctx, c.Param("id"), c.Param("productId"), request.Rate)
	if err != nil {
		return respondError(c, "Failed to set product commission rate", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(product))
}

func (h *StoreHandler) RemoveProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	if err := h.storeService.RemoveProduct(ctx, c.Param("id"), c.Param("productId")); err != nil {
		return respondError(c, "Failed to remove product", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]string{"status": "deleted"}))
}

func (h *StoreHandler) StartOnboarding(c echo.Context) error {
	var request OnboardingInput

	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	result, err := h.storeService.StartOnboarding(ctx, c.Param("id"), request.RefreshURL, request.ReturnURL)
	if err != nil {
		return respondError(c, "Failed to start store onboarding", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(result))
}
