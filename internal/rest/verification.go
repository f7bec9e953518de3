package rest

import (
	"context"
	"net/http"

	"comprasmart/business/verification"
	"comprasmart/pkg/logger"
	jsonres "comprasmart/pkg/response"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	VerificationHandler struct {
		validate            *validator.Validate
		verificationService VerificationService
	}

	VerificationService interface {
		SendCodes(ctx context.Context, input verification.SendCodesInput) (verification.SendCodesResult, error)
		ValidateCodes(ctx context.Context, input verification.ValidateCodesInput) error
	}
)

func NewVerificationHandler(verificationService VerificationService) *VerificationHandler {
	return &VerificationHandler{
		validate:            validator.New(),
		verificationService: verificationService,
	}
}

func (h *VerificationHandler) SendCodes(c echo.Context) error {
	var request verification.SendCodesInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate send-codes request", err)
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	result, err := h.verificationService.SendCodes(ctx, request)
	if err != nil {
		return respondError(c, "Failed to send verification codes", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

func (h *VerificationHandler) ValidateCodes(c echo.Context) error {
	var request verification.ValidateCodesInput

	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	if err := h.verificationService.ValidateCodes(ctx, request); err != nil {
		return respondError(c, "Failed to validate verification codes", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]bool{"valid": true}))
}
