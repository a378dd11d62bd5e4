package handler

import (
	"errors"
	"net/http"

	"medicart-be/internal/logger"
	"medicart-be/internal/order"
	"medicart-be/internal/shop"
	"medicart-be/internal/upload"
	"medicart-be/internal/user"
	"medicart-be/internal/utils"

	"go.uber.org/zap"
)

// mapErrorToStatus translates domain errors into HTTP status codes. Anything
// unknown is a 500.
func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, order.ErrUnauthorized),
		errors.Is(err, shop.ErrInvalidCredentials),
		errors.Is(err, shop.ErrShopNotFound):
		return http.StatusUnauthorized

	case errors.Is(err, order.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, order.ErrInvalidImage),
		errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, order.ErrPhoneRequired),
		errors.Is(err, order.ErrInvalidDays),
		errors.Is(err, order.ErrNoImages),
		errors.Is(err, order.ErrTooManyImages),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrInvalidPricing),
		errors.Is(err, user.ErrPhoneRequired),
		errors.Is(err, user.ErrNameRequired),
		errors.Is(err, shop.ErrInvalidInput),
		errors.Is(err, upload.ErrEmptyFile):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// writeServiceError replies with the mapped status. Internal failures are
// logged in full and reported to the client without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToStatus(err)
	if status == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		utils.WriteJSONError(w, "internal server error", status)
		return
	}
	utils.WriteJSONError(w, err.Error(), status)
}
