package routes

import (
	"mystery_boxes/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathPublicPrice         = "/public-price"
	PathPublicBoxes         = "/public-boxes"
	PathBoard               = "/board"
	PathCreatePaymentIntent = "/create-payment-intent"
	PathPaymentWebhook      = "/payment-webhook"
	PathAdminLogin          = "/admin-login"
	PathAdminDashboard      = "/admin-dashboard"
	PathAdminSetPrice       = "/admin-set-price"
)

func addPublicRoutes(rg *gin.RouterGroup, h *handlers.PublicHandler) {
	rg.GET(PathPublicPrice, h.GetPrice)
	rg.GET(PathPublicBoxes, h.ListBoxes)
	rg.GET(PathBoard, h.GetBoard)
}

func addCheckoutRoutes(rg *gin.RouterGroup, h *handlers.CheckoutHandler) {
	rg.POST(PathCreatePaymentIntent, h.CreatePaymentIntent)
	rg.POST(PathPaymentWebhook, h.PaymentWebhook)
}

func addAdminRoutes(rg *gin.RouterGroup, h *handlers.AdminHandler) {
	rg.POST(PathAdminLogin, h.Login)

	admin := rg.Group("", h.RequireAdmin())
	{
		admin.GET(PathAdminDashboard, h.Dashboard)
		admin.POST(PathAdminSetPrice, h.SetPrice)
	}
}
