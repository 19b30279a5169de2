package handlers

import (
	"net/http"

	request "mystery_boxes/internal/adapter/http/dto/request"
	response "mystery_boxes/internal/adapter/http/dto/response"
	"mystery_boxes/internal/auth"
	"mystery_boxes/internal/logging"
	"mystery_boxes/internal/usecase"
	"mystery_boxes/internal/usecase/interfaces"
	"mystery_boxes/pkg"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves login and the bearer-protected admin endpoints.

type AdminHandler struct {
	settings usecase.ISettingsUseCase
	boxes    usecase.IBoxUseCase
	secret   string
	clock    interfaces.Clock
	log      logging.Logger
}

func NewAdminHandler(settings usecase.ISettingsUseCase, boxes usecase.IBoxUseCase, secret string, clock interfaces.Clock, log logging.Logger) *AdminHandler {
	if clock == nil {
		clock = interfaces.SystemClock()
	}
	if log == nil {
		log = logging.Nop()
	}
	return &AdminHandler{settings: settings, boxes: boxes, secret: secret, clock: clock, log: log}
}

// RequireAdmin rejects requests without a valid admin bearer token.
func (h *AdminHandler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.FromAuthorizationHeader(c.GetHeader("Authorization"))
		if !auth.Verify(token, h.secret, h.clock.Now()) {
			h.log.Warn(c.Request.Context(), "[admin][middleware] forbidden", "path", c.FullPath())
			c.AbortWithStatusJSON(errForbidden.HTTPStatus, errForbidden.ToHTTPError())
			return
		}
		c.Next()
	}
}

// Login godoc
// @Summary Exchange the admin password for a bearer token
// @Tags admin
// @Accept json
// @Produce json
// @Param body body request.AdminLoginRequest true "Admin password"
// @Success 200 {object} response.AdminLoginResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/admin-login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var payload request.AdminLoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondAppError(c, errInvalidRequest)
		return
	}
	if h.secret == "" {
		h.log.Error(ctx, "[admin][handler] login with no admin password configured")
		respondAppError(c, pkg.NewDomainError("ADMIN_NOT_CONFIGURED", "Admin access not configured", auth.ErrMissingSecret, http.StatusInternalServerError))
		return
	}
	if !auth.CheckPassword(payload.Password, h.secret) {
		h.log.Warn(ctx, "[admin][handler] login rejected")
		respondAppError(c, errForbidden)
		return
	}

	now := h.clock.Now()
	token, err := auth.Issue(h.secret, now)
	if err != nil {
		respondError(c, err)
		return
	}
	h.log.Info(ctx, "[admin][handler] login success")

	c.JSON(http.StatusOK, response.AdminLoginResponse{Token: token, ExpiresAt: auth.ExpiresAt(now)})
}

// Dashboard godoc
// @Summary Admin overview
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.DashboardResponse
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/admin-dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	d, err := h.boxes.Dashboard(c.Request.Context())
	if err != nil {
		h.log.Error(c.Request.Context(), "[admin][handler] dashboard failed", "err", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromDashboard(d))
}

// SetPrice godoc
// @Summary Update the unit price
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body request.SetPriceRequest true "New price, 0 < priceUsd <= 9999"
// @Success 200 {object} response.SetPriceResponse
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 405 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/admin-set-price [post]
func (h *AdminHandler) SetPrice(c *gin.Context) {
	ctx := c.Request.Context()

	var payload request.SetPriceRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, usecase.ErrInvalidPrice)
		return
	}
	price, err := payload.ResolvePrice()
	if err != nil {
		respondError(c, usecase.ErrInvalidPrice)
		return
	}

	setting, err := h.settings.SetPrice(ctx, price)
	if err != nil {
		h.log.Warn(ctx, "[admin][handler] set price failed", "price_usd", price, "err", err)
		respondError(c, err)
		return
	}
	h.log.Info(ctx, "[admin][handler] price updated", "price_usd", setting.Value)

	c.JSON(http.StatusOK, response.SetPriceResponse{OK: true, PriceUSD: setting.Value})
}
