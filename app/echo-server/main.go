package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"comprasmart/app/echo-server/router"
	consultantBiz "comprasmart/business/consultant"
	saleBiz "comprasmart/business/sale"
	scoreBiz "comprasmart/business/score"
	settlementBiz "comprasmart/business/settlement"
	storeBiz "comprasmart/business/store"
	userBiz "comprasmart/business/user"
	verificationBiz "comprasmart/business/verification"
	"comprasmart/internal/middleware"
	"comprasmart/internal/repository/auth0"
	"comprasmart/internal/repository/notification"
	psqlRepo "comprasmart/internal/repository/postgres"
	redisRepo "comprasmart/internal/repository/redis"
	stripeRepo "comprasmart/internal/repository/stripe"
	"comprasmart/internal/rest"
	"comprasmart/jobs"
	"comprasmart/pkg/config"
	"comprasmart/pkg/database"
	redisdb "comprasmart/pkg/database/redis"
	"comprasmart/pkg/logger"
	"comprasmart/pkg/metrics"
	"comprasmart/pkg/utils"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Compra Smart", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer redisdb.CloseRedisClient(redisClient)

	// External services
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)

	twilioSMS := notification.NewTwilioRepository(
		notification.TwilioConfig{
			AccountSID:  cfg.Twilio.AccountSID,
			AuthToken:   cfg.Twilio.AuthToken,
			FromNumber:  cfg.Twilio.FromNumber,
			BaseURL:     cfg.Twilio.BaseURL,
			CountryCode: cfg.Twilio.CountryCode,
		},
	)

	stripeGateway := stripeRepo.NewStripeRepository(
		stripeRepo.StripeConfig{
			SecretKey:     cfg.Stripe.SecretKey,
			BaseURL:       cfg.Stripe.BaseURL,
			WebhookSecret: cfg.Stripe.WebhookSecret,
			Currency:      cfg.Stripe.Currency,
		},
	)

	auth0Identity := auth0.NewAuth0Repository(
		auth0.Auth0Config{
			Domain:       cfg.Auth0.Domain,
			ClientID:     cfg.Auth0.ClientID,
			ClientSecret: cfg.Auth0.ClientSecret,
		},
	)

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	consultantRepo := psqlRepo.NewConsultantRepository(db)
	storeRepo := psqlRepo.NewStoreRepository(db)
	productRepo := psqlRepo.NewProductRepository(db)
	saleRepo := psqlRepo.NewSaleRepository(db)
	settlementRepo := psqlRepo.NewSettlementRepository(db)
	ratingRepo := psqlRepo.NewRatingRepository(db)
	trainingRepo := psqlRepo.NewTrainingRepository(db)
	scoreRepo := psqlRepo.NewScoreRepository(db)
	verificationRepo := redisRepo.NewVerificationRepository(redisClient)

	// Init service
	userService := userBiz.NewUserService(userRepo, auth0Identity, mailjetEmail)
	consultantService := consultantBiz.NewConsultantService(consultantRepo, stripeGateway, cfg.Stripe.AccountCountry)
	storeService := storeBiz.NewStoreService(storeRepo, productRepo, stripeGateway, cfg.Stripe.AccountCountry)
	saleService := saleBiz.NewSaleService(saleRepo, ratingRepo, trainingRepo, storeRepo, consultantRepo, productRepo)
	scoreService := scoreBiz.NewScoreService(scoreRepo, ratingRepo, saleRepo, trainingRepo, consultantRepo)
	settlementService := settlementBiz.NewSettlementService(saleRepo, settlementRepo, storeRepo, consultantRepo, productRepo, stripeGateway, mailjetEmail)
	verificationService := verificationBiz.NewVerificationService(verificationRepo, consultantRepo, mailjetEmail, twilioSMS, !cfg.IsProduction())

	// Init handler
	userHandler := rest.NewUserHandler(userService)
	consultantHandler := rest.NewConsultantHandler(consultantService)
	storeHandler := rest.NewStoreHandler(storeService)
	saleHandler := rest.NewSaleHandler(saleService, settlementService)
	scoreHandler := rest.NewScoreHandler(scoreService)
	webhookHandler := rest.NewWebhookHandler(stripeGateway, settlementService)
	verificationHandler := rest.NewVerificationHandler(verificationService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{cfg.App.FrontendURL},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth middleware
	authRequired := middleware.AuthMiddleware()
	adminOnly := middleware.AdminOnly()

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupUserRoutes(api, userHandler, authRequired, adminOnly)
	router.SetupVerificationRoutes(api, verificationHandler)
	router.SetupConsultantRoutes(api, consultantHandler, scoreHandler, authRequired, adminOnly)
	router.SetupStoreRoutes(api, storeHandler, authRequired, adminOnly)
	router.SetupSaleRoutes(api, saleHandler, authRequired, adminOnly)
	router.SetupAdminRoutes(api, scoreHandler, authRequired, adminOnly)
	router.SetupWebhookRoutes(api, webhookHandler)

	// Background jobs
	jobCtx, stopJobs := context.WithCancel(context.Background())
	go jobs.RunScoreRecalculation(jobCtx, scoreService)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopJobs()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
