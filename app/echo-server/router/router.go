package router

import (
	"comprasmart/domain"
	"comprasmart/internal/middleware"
	"comprasmart/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired, adminOnly echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	users.POST("/:id/suspend", handler.Suspend, authRequired, adminOnly)
	users.POST("/:id/reactivate", handler.Reactivate, authRequired, adminOnly)
}

func SetupVerificationRoutes(api *echo.Group, handler *rest.VerificationHandler) {
	verification := api.Group("/verification")

	verification.POST("/send-codes", handler.SendCodes)
	verification.POST("/validate-codes", handler.ValidateCodes)
}

func SetupConsultantRoutes(api *echo.Group, handler *rest.ConsultantHandler, scoreHandler *rest.ScoreHandler, authRequired, adminOnly echo.MiddlewareFunc) {
	consultants := api.Group("/consultants", authRequired)

	consultants.POST("", handler.Create, adminOnly)
	consultants.GET("", handler.List)
	consultants.GET("/:id", handler.Get)
	consultants.PUT("/:id", handler.Update)
	consultants.POST("/:id/deactivate", handler.Deactivate, adminOnly)
	consultants.DELETE("/:id", handler.Delete, adminOnly)

	consultants.POST("/:id/connect-account", handler.StartOnboarding)
	consultants.GET("/:id/connect-account/status", handler.AccountStatus)

	// The score itself is gated by role inside the service; the raw metrics
	// endpoint is open to any authenticated caller.
	consultants.GET("/:id/metrics", scoreHandler.PublicMetrics)
	consultants.GET("/:id/score", scoreHandler.GetScore,
		middleware.RequireRole(domain.RoleStoreOwner, domain.RoleAdmin))
	consultants.POST("/:id/score/recalculate", scoreHandler.Recalculate, adminOnly)
}

func SetupStoreRoutes(api *echo.Group, handler *rest.StoreHandler, authRequired, adminOnly echo.MiddlewareFunc) {
	stores := api.Group("/stores", authRequired)

	stores.POST("", handler.Create, adminOnly)
	stores.GET("", handler.List)
	stores.GET("/:id", handler.Get)
	stores.PUT("/:id/commission-rate", handler.SetCommissionRate)
	stores.POST("/:id/suspend", handler.Suspend, adminOnly)
	stores.POST("/:id/reactivate", handler.Reactivate, adminOnly)
	stores.POST("/:id/connect-account", handler.StartOnboarding)

	stores.POST("/:id/products", handler.AddProduct)
	stores.GET("/:id/products", handler.Products)
	stores.PUT("/:id/products/:productId/commission-rate", handler.SetProductCommissionRate)
	stores.DELETE("/:id/products/:productId", handler.RemoveProduct)
}

func SetupSaleRoutes(api *echo.Group, handler *rest.SaleHandler, authRequired, adminOnly echo.MiddlewareFunc) {
	sales := api.Group("/sales", authRequired)

	sales.POST("", handler.Create)
	sales.GET("", handler.List)
	sales.GET("/:id", handler.Get)
	sales.POST("/:id/payment", handler.CreatePayment,
		middleware.RequireRole(domain.RoleStoreOwner, domain.RoleAdmin))
	sales.POST("/:id/rating", handler.Rate)

	payments := api.Group("/payments", authRequired)
	payments.POST("/:id/cancel", handler.CancelPayment)
	payments.POST("/:id/refund", handler.RefundPayment, adminOnly)

	trainings := api.Group("/consultants/:id/trainings", authRequired)
	trainings.POST("", handler.AssignTraining, adminOnly)
	trainings.GET("", handler.Trainings)
	trainings.POST("/:trainingId/complete", handler.CompleteTraining)
}

func SetupAdminRoutes(api *echo.Group, scoreHandler *rest.ScoreHandler, authRequired, adminOnly echo.MiddlewareFunc) {
	admin := api.Group("/admin", authRequired, adminOnly)

	admin.POST("/scores/recalculate-all", scoreHandler.RecalculateAll)
	admin.GET("/scores/statistics", scoreHandler.Statistics)
}

// SetupWebhookRoutes registers the payment-processor callback. No auth
// middleware: the signature check is the authentication.
func SetupWebhookRoutes(api *echo.Group, handler *rest.WebhookHandler) {
	webhook := api.Group("/webhook")
	webhook.POST("/stripe", handler.HandleStripe)
}
