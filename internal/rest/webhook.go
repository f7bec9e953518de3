package rest

import (
	"context"
	"io"
	"net/http"

	"comprasmart/domain"
	"comprasmart/pkg/logger"
	jsonres "comprasmart/pkg/response"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	WebhookHandler struct {
		verifier       EventVerifier
		webhookService WebhookService
	}

	// EventVerifier checks the payload signature before anything is parsed
	// as trusted input.
	EventVerifier interface {
		ConstructEvent(payload []byte, sigHeader string) (domain.StripeEvent, error)
	}

	WebhookService interface {
		HandleEvent(ctx context.Context, event domain.StripeEvent) error
	}
)

func NewWebhookHandler(verifier EventVerifier, webhookService WebhookService) *WebhookHandler {
	return &WebhookHandler{
		verifier:       verifier,
		webhookService: webhookService,
	}
}

// HandleStripe reads the raw body because the signature covers the exact
// bytes sent, not a re-serialization.
func (h *WebhookHandler) HandleStripe(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		logger.Error("Failed to read webhook body", err)
		return c.JSON(http.StatusBadRequest, jsonres.Error("", "unreadable body", nil))
	}

	event, err := h.verifier.ConstructEvent(payload, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		logger.Warn("Rejected webhook with bad signature", err)
		return c.JSON(http.StatusBadRequest, jsonres.Error("", "invalid signature", nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	if err := h.webhookService.HandleEvent(ctx, event); err != nil {
		// Non-2xx makes the sender retry, which is what we want for
		// transient failures.
		return respondError(c, "Failed to handle webhook event", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(map[string]string{"received": event.ID}))
}
