package handlers

import (
	"errors"
	"net/http"

	"mystery_boxes/internal/usecase"
	"mystery_boxes/internal/usecase/interfaces"
	"mystery_boxes/pkg"

	"github.com/gin-gonic/gin"
)

// ExposeErrorDetailsKey is the gin context key read by respondError.
const ExposeErrorDetailsKey = "expose_error_details"

var (
	errInvalidRequest   = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	errForbidden        = pkg.NewDomainErrorSimple("FORBIDDEN", "Forbidden", http.StatusForbidden)
	errMethodNotAllowed = pkg.NewDomainErrorSimple("METHOD_NOT_ALLOWED", "Method not allowed", http.StatusMethodNotAllowed)
	errNotFound         = pkg.NewDomainErrorSimple("NOT_FOUND", "Not found", http.StatusNotFound)
)

// ExposeErrorDetails toggles whether 5xx bodies carry the underlying cause.
func ExposeErrorDetails(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ExposeErrorDetailsKey, enabled)
		c.Next()
	}
}

// MethodNotAllowed is installed as the router's NoMethod handler.
func MethodNotAllowed(c *gin.Context) {
	c.AbortWithStatusJSON(errMethodNotAllowed.HTTPStatus, errMethodNotAllowed.ToHTTPError())
}

// NotFound is installed as the router's NoRoute handler.
func NotFound(c *gin.Context) {
	c.AbortWithStatusJSON(errNotFound.HTTPStatus, errNotFound.ToHTTPError())
}

func respondAppError(c *gin.Context, appErr *pkg.AppError) {
	if appErr.HTTPStatus >= http.StatusInternalServerError && c.GetBool(ExposeErrorDetailsKey) {
		appErr = appErr.WithDetails()
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func respondError(c *gin.Context, err error) {
	respondAppError(c, mapError(err))
}

func mapError(err error) *pkg.AppError {
	var conflict *usecase.ConflictError
	switch {
	case errors.Is(err, usecase.ErrNoValidBoxes):
		return pkg.NewDomainErrorSimple("INVALID_BOXES", "No valid boxes", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidPrice):
		return pkg.NewDomainErrorSimple("INVALID_PRICE", "Invalid priceUsd", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidInput):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", err.Error(), http.StatusBadRequest)
	case errors.As(err, &conflict):
		return pkg.NewDomainErrorSimple("BOX_CONFLICT", conflict.Error(), http.StatusConflict)
	case errors.Is(err, interfaces.ErrStoreConflict):
		return pkg.NewDomainErrorSimple("STORE_BUSY", "Boxes are being updated, please retry", http.StatusServiceUnavailable)
	case errors.Is(err, interfaces.ErrHoldLost):
		return pkg.NewDomainErrorSimple("HOLD_LOST", "Boxes are no longer held for this payment", http.StatusConflict)
	case errors.Is(err, interfaces.ErrAttemptFinalized):
		return pkg.NewDomainErrorSimple("PAYMENT_ATTEMPT_FINALIZED", "Payment attempt already finalized", http.StatusConflict)
	case errors.Is(err, usecase.ErrAttemptNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_ATTEMPT_NOT_FOUND", "Payment attempt not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrMetadataMismatch):
		return pkg.NewDomainErrorSimple("METADATA_MISMATCH", "Payment metadata does not match", http.StatusBadRequest)
	case errors.Is(err, interfaces.ErrInvalidWebhook):
		return pkg.NewDomainErrorSimple("INVALID_WEBHOOK", "Invalid webhook", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrPaymentGateway):
		return pkg.NewDomainError("PAYMENT_PROVIDER_ERROR", "Payment provider error", err, http.StatusBadGateway)
	case errors.Is(err, usecase.ErrPriceNotConfigured):
		return pkg.NewDomainError("PRICE_NOT_CONFIGURED", "Price not configured", err, http.StatusInternalServerError)
	case errors.Is(err, usecase.ErrPaymentGatewayNotConfigured):
		return pkg.NewDomainError("PAYMENT_PROVIDER_NOT_CONFIGURED", "Payment provider not configured", err, http.StatusInternalServerError)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
