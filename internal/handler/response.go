package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/employee_details/internal/logger"
)

// responseError logs err with the request logger and turns it into an echo
// HTTPError, which the default error handler renders as {"message": ...}.
func responseError(c echo.Context, status int, message string, err error) error {
	ctx := c.Request().Context()
	if status >= http.StatusInternalServerError {
		logger.ErrorLog(ctx, message, err)
	} else if err != nil {
		logger.WarnLog(ctx, "%s: %v", message, err)
	}

	httpErr := echo.NewHTTPError(status, message)
	if err != nil {
		httpErr = httpErr.SetInternal(err)
	}
	return httpErr
}
