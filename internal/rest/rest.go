package rest

import (
	"time"

	"comprasmart/pkg/apperr"
	"comprasmart/pkg/logger"
	jsonres "comprasmart/pkg/response"

	"github.com/labstack/echo/v4"
)

const handlerTimeout = 10 * time.Second

// respondError translates a service error into the failure envelope. Wrapped
// internals are logged here, never serialized.
func respondError(c echo.Context, msg string, err error) error {
	appErr := apperr.From(err)

	if appErr.Kind == apperr.KindInternal || appErr.Kind == apperr.KindUpstream {
		logger.Error(msg, err)
	} else {
		logger.Warn(msg, err)
	}

	return c.JSON(appErr.HTTPStatus(), jsonres.Error("", appErr.Message, nil))
}
