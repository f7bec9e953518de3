package rest

import (
	"context"
	"net/http"

	"comprasmart/business/user"
	"comprasmart/domain"
	"comprasmart/pkg/logger"
	jsonres "comprasmart/pkg/response"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	UserHandler struct {
		validate    *validator.Validate
		userService UserService
	}

	UserService interface {
		Register(ctx context.Context, input user.RegisterInput) (domain.User, error)
		Login(ctx context.Context, input user.LoginInput) (user.LoginResult, error)
		Suspend(ctx context.Context, userID, reason string) error
		Reactivate(ctx context.Context, userID string) error
	}

	SuspendUserInput struct {
		Reason string `json:"reason" validate:"required"`
	}
)

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		validate:    validator.New(),
		userService: userService,
	}
}

func (h *UserHandler) Register(c echo.Context) error {
	var request user.RegisterInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate user registration", err)
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	created, err := h.userService.Register(ctx, request)
	if err != nil {
		return respondError(c, "Failed to register user", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(created))
}

func (h *UserHandler) Login(c echo.Context) error {
	var request user.LoginInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate user login", err)
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	result, err := h.userService.Login(ctx, request)
	if err != nil {
		logger.Warn("Failed to login", err)
		return c.JSON(http.StatusUnauthorized, jsonres.Error("", "invalid credentials", nil))
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

func (h *UserHandler) Suspend(c echo.Context) error {
	var request SuspendUserInput

	if err := c.Bind(&request); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.JSON(http.StatusBadRequest, jsonres.Error("", err.Error(), nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	if err := h.userService.Suspend(ctx, c.Param("id"), request.Reason); err != nil {
		return respondError(c, "Failed to suspend user", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]string{"status": "suspended"}))
}

func (h *UserHandler) Reactivate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	if err := h.userService.Reactivate(ctx, c.Param("id")); err != nil {
		return respondError(c, "Failed to reactivate user", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]string{"status": "active"}))
}
