package rest

import (
	"context"
	"net/http"

	"comprasmart/business/score"
	"comprasmart/domain"
	"comprasmart/pkg/logger"
	jsonres "comprasmart/pkg/response"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	ScoreHandler struct {
		scoreService ScoreService
	}

	ScoreService interface {
		GetScore(ctx context.Context, viewerRole, consultantID string) (domain.ScoreView, error)
		Recalculate(ctx context.Context, consultantID string) (domain.ConsultantScore, error)
		RecalculateAll(ctx context.Context) (processed, failed int, err error)
		PublicMetrics(ctx context.Context, consultantID string) (domain.PublicMetrics, error)
		Statistics(ctx context.Context) (domain.ScoreStatistics, error)
	}
)

func NewScoreHandler(scoreService ScoreService) *ScoreHandler {
	return &ScoreHandler{
		scoreService: scoreService,
	}
}

func (h *ScoreHandler) GetScore(c echo.Context) error {
	role, _ := c.Get("role").(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	view, err := h.scoreService.GetScore(ctx, role, c.Param("id"))
	if err != nil {
		return respondError(c, "Failed to get consultant score", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(view))
}

func (h *ScoreHandler) Recalculate(c echo.Context) error {
	role, _ := c.Get("role").(string)
	if !score.CanRecalculate(role) {
		return c.JSON(http.StatusForbidden, jsonres.Error("", "only admins may trigger a recalculation", nil))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	row, err := h.scoreService.Recalculate(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, "Failed to recalculate score", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(row.View()))
}

// RecalculateAll kicks the bulk run off in the background and acknowledges
// immediately. Progress lands in the logs and metrics, not the response.
func (h *ScoreHandler) RecalculateAll(c echo.Context) error {
	role, _ := c.Get("role").(string)
	if !score.CanRecalculate(role) {
		return c.JSON(http.StatusForbidden, jsonres.Error("", "only admins may trigger a recalculation", nil))
	}

	go func() {
		processed, failed, err := h.scoreService.RecalculateAll(context.Background())
		if err != nil {
			logger.Error("bulk score recalculation aborted", err)
			return
		}
		logger.Info("bulk score recalculation finished", "processed", processed, "failed", failed)
	}()

	return c.JSON(http.StatusAccepted, fres.Response.StatusOK(map[string]string{"status": "recalculation started"}))
}

func (h *ScoreHandler) PublicMetrics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	m, err := h.scoreService.PublicMetrics(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, "Failed to get consultant metrics", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(m))
}

func (h *ScoreHandler) Statistics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), handlerTimeout)
	defer cancel()

	stats, err := h.scoreService.Statistics(ctx)
	if err != nil {
		return respondError(c, "Failed to get score statistics", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(stats))
}
