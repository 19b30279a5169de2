package routes

import (
	"context"
	"errors"
	"net/http"
	"time"

	_ "mystery_boxes/docs" // generated by swag init
	"mystery_boxes/internal/adapter/http/handlers"
	"mystery_boxes/internal/logging"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	PathV1  = "/v1"
	PathAPI = "/api"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Public   *handlers.PublicHandler
	Checkout *handlers.CheckoutHandler
	Admin    *handlers.AdminHandler
}

type Options struct {
	ExposeErrorDetails bool
	// RequestLogging enables gin's access log. Off in tests.
	RequestLogging bool
	Logger         logging.Logger
}

// NewRouter builds the gin engine with middlewares and every route.
func NewRouter(h Handlers, opts Options) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(handlers.MethodNotAllowed)
	router.NoRoute(handlers.NotFound)

	setMiddlewares(router, opts)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group(PathV1)
	addPingRoutes(v1)

	api := router.Group(PathAPI)
	addPublicRoutes(api, h.Public)
	addCheckoutRoutes(api, h.Checkout)
	addAdminRoutes(api, h.Admin)

	return router
}

func setMiddlewares(router *gin.Engine, opts Options) {
	if opts.RequestLogging {
		router.Use(gin.Logger())
	}
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		opts.Logger.Error(c.Request.Context(), "[http][recovery] recovered from panic", "panic", recovered, "path", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "An internal error occurred", "code": "INTERNAL_ERROR"})
	}))
	router.Use(handlers.ExposeErrorDetails(opts.ExposeErrorDetails))
}

// Serve runs srv until ctx is canceled, then shuts it down gracefully.
func Serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	return <-errCh
}
