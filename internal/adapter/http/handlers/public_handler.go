package handlers

import (
	"net/http"

	response "mystery_boxes/internal/adapter/http/dto/response"
	"mystery_boxes/internal/logging"
	"mystery_boxes/internal/usecase"

	"github.com/gin-gonic/gin"
)

// PublicHandler serves the unauthenticated read endpoints.

type PublicHandler struct {
	settings usecase.ISettingsUseCase
	boxes    usecase.IBoxUseCase
	log      logging.Logger
}

func NewPublicHandler(settings usecase.ISettingsUseCase, boxes usecase.IBoxUseCase, log logging.Logger) *PublicHandler {
	if log == nil {
		log = logging.Nop()
	}
	return &PublicHandler{settings: settings, boxes: boxes, log: log}
}

// GetPrice godoc
// @Summary Current unit price
// @Tags public
// @Produce json
// @Success 200 {object} response.PriceResponse
// @Failure 500 {object} map[string]string
// @Router /api/public-price [get]
func (h *PublicHandler) GetPrice(c *gin.Context) {
	price, err := h.settings.GetPrice(c.Request.Context())
	if err != nil {
		h.log.Error(c.Request.Context(), "[price][handler] get failed", "err", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.PriceResponse{PriceUSD: price})
}

// ListBoxes godoc
// @Summary Public box listing
// @Description Expired holds are reported as available.
// @Tags public
// @Produce json
// @Success 200 {object} response.PublicBoxesResponse
// @Failure 500 {object} map[string]string
// @Router /api/public-boxes [get]
func (h *PublicHandler) ListBoxes(c *gin.Context) {
	boxes, err := h.boxes.ListPublic(c.Request.Context())
	if err != nil {
		h.log.Error(c.Request.Context(), "[box][handler] list failed", "err", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromPublicBoxes(boxes))
}

// GetBoard godoc
// @Summary Board view
// @Description Boxes as the storefront renders them: available, locked with a countdown, or reserved.
// @Tags public
// @Produce json
// @Success 200 {object} presentation.Board
// @Failure 500 {object} map[string]string
// @Router /api/board [get]
func (h *PublicHandler) GetBoard(c *gin.Context) {
	board, err := h.boxes.Board(c.Request.Context())
	if err != nil {
		h.log.Error(c.Request.Context(), "[board][handler] build failed", "err", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}
