package rest

import (
	"context"
	"net/http"

	"comprasmart/business/consultant"
	"comprasmart/domain"
	"comprasmart/pkg/logger"
	jsonres "comprasmart/pkg/response"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	ConsultantHandler struct {
		validate          *validator.Validate
		consultantService ConsultantService
	}

	ConsultantService interface {
		Create(ctx context.Context, input consultant.CreateConsultantInput) (domain.Consultant, error)
		Get(ctx context.Context, id string) (domain.Consultant, error)
		List(ctx context.Context) ([]domain.Consultant, error)
		Update(ctx context.Context, id string, input consultant.UpdateConsultantInput) (domain.Consultant, error)
		Deactivate(ctx context.Context, id string) error
		Delete(ctx context.Context, id string) error
		StartOnboarding(ctx context.Context, id, refreshURL, returnURL string) (consultant.OnboardingResult, error)
		AccountStatus(ctx context.Context, id string) (domain.AccountStatus, error)
	}

	OnboardingInput struct {
		RefreshURL string `json:"refresh_url" validate:"required,url"`
		ReturnURL  string `json:"return_url" validate:"required,url"`
	}
)

func NewConsultantHandler(consultantService ConsultantService) *ConsultantHandler {
	return &ConsultantHandler{
		validate:          validator.New(),
		consultantService: consultantService,
	}
}

func (h *ConsultantHandler) Create(c echo.Context) error {
	var request consultant.CreateConsultantInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate consultant creation", err)
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	created, err := h.consultantService.Create(ctx, request)
	if err != nil {
		return respondError(c, "Failed to create consultant", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(created))
}

func (h *ConsultantHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	found, err := h.consultantService.Get(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, "Failed to get consultant", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(found))
}

func (h *ConsultantHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	consultants, err := h.consultantService.List(ctx)
	if err != nil {
		return respondError(c, "Failed to list consultants", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(consultants))
}

func (h *ConsultantHandler) Update(c echo.Context) error {
	var request consultant.UpdateConsultantInput

	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	updated, err := h.consultantService.Update(ctx, c.Param("id"), request)
	if err != nil {
		return respondError(c, "Failed to update consultant", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updated))
}

func (h *ConsultantHandler) Deactivate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	if err := h.consultantService.Deactivate(ctx, c.Param("id")); err != nil {
		return respondError(c, "Failed to deactivate consultant", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]string{"status": "deactivated"}))
}

func (h *ConsultantHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	if err := h.consultantService.Delete(ctx, c.Param("id")); err != nil {
		return respondError(c, "Failed to delete consultant", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]string{"status": "deleted"}))
}

func (h *ConsultantHandler) StartOnboarding(c echo.Context) error {
	var request OnboardingInput

	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	result, err := h.consultantService.StartOnboarding(ctx, c.Param("id"), request.RefreshURL, request.ReturnURL)
	if err != nil {
		return respondError(c, "Failed to start consultant onboarding", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(result))
}

func (h *ConsultantHandler) AccountStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	status, err := h.consultantService.AccountStatus(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, "Failed to get consultant account status", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(status))
}
