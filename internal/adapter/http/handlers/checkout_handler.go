package handlers

import (
	"io"
	"net/http"
	"strings"

	request "mystery_boxes/internal/adapter/http/dto/request"
	response "mystery_boxes/internal/adapter/http/dto/response"
	"mystery_boxes/internal/logging"
	"mystery_boxes/internal/usecase"
	"mystery_boxes/pkg"

	"github.com/gin-gonic/gin"
)

// maxWebhookBody caps the raw webhook payload read for signature checks.
const maxWebhookBody = 1 << 20

// CheckoutHandler opens payment attempts and receives processor webhooks.

type CheckoutHandler struct {
	checkout     usecase.ICheckoutUseCase
	confirmation usecase.IConfirmationUseCase
	log          logging.Logger
}

func NewCheckoutHandler(checkout usecase.ICheckoutUseCase, confirmation usecase.IConfirmationUseCase, log logging.Logger) *CheckoutHandler {
	if log == nil {
		log = logging.Nop()
	}
	return &CheckoutHandler{checkout: checkout, confirmation: confirmation, log: log}
}

// CreatePaymentIntent godoc
// @Summary Hold boxes and open a payment transaction
// @Tags checkout
// @Accept json
// @Produce json
// @Param body body request.CreatePaymentIntentRequest true "Requested boxes"
// @Success 200 {object} response.CreatePaymentIntentResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/create-payment-intent [post]
func (h *CheckoutHandler) CreatePaymentIntent(c *gin.Context) {
	ctx := c.Request.Context()

	var payload request.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.log.Warn(ctx, "[checkout][handler] invalid payload", "err", err)
		respondAppError(c, errInvalidRequest)
		return
	}
	ids, err := payload.ResolveBoxes()
	if err != nil {
		respondAppError(c, pkg.NewDomainErrorSimple("INVALID_BOXES", err.Error(), http.StatusBadRequest))
		return
	}

	h.log.Info(ctx, "[checkout][handler] create start", "boxes", strings.Join(ids, ","))
	res, err := h.checkout.CreatePaymentAttempt(ctx, ids)
	if err != nil {
		h.log.Warn(ctx, "[checkout][handler] create failed", "err", err)
		respondError(c, err)
		return
	}
	h.log.Info(ctx, "[checkout][handler] create success", "payment_intent_id", res.PaymentIntentID)

	c.JSON(http.StatusOK, response.FromCheckout(res))
}

// PaymentWebhook godoc
// @Summary Payment processor webhook
// @Description Confirms or cancels a payment attempt. Redeliveries are acknowledged with duplicate=true.
// @Tags checkout
// @Accept json
// @Produce json
// @Success 200 {object} response.WebhookResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/payment-webhook [post]
func (h *CheckoutHandler) PaymentWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.log.Warn(ctx, "[webhook][handler] read body failed", "err", err)
		respondAppError(c, errInvalidRequest)
		return
	}

	res, err := h.confirmation.HandleWebhook(ctx, payload, c.Request.Header)
	if err != nil {
		h.log.Warn(ctx, "[webhook][handler] handling failed", "payment_intent_id", res.PaymentIntentID, "err", err)
		respondError(c, err)
		return
	}
	h.log.Info(ctx, "[webhook][handler] handled",
		"type", res.EventType, "payment_intent_id", res.PaymentIntentID, "duplicate", res.Duplicate)

	c.JSON(http.StatusOK, response.FromConfirmation(res))
}
