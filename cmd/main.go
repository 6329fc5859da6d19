package main

import (
	"context"

	config "municipal-portal-backend/config"
	"municipal-portal-backend/internal/storage"
	"municipal-portal-backend/middleware"
	"municipal-portal-backend/token"
	"municipal-portal-backend/utils"

	// Repositories
	applications_repositories "municipal-portal-backend/applications/repositories"
	notifications_repositories "municipal-portal-backend/notifications/repositories"
	payments_repositories "municipal-portal-backend/payments/repositories"
	users_repositories "municipal-portal-backend/users/repositories"

	// Services
	notifications_services "municipal-portal-backend/notifications/services"
	notifications_tasks "municipal-portal-backend/notifications/tasks"
	payments_services "municipal-portal-backend/payments/services"

	// Routes
	application_routes "municipal-portal-backend/applications/routes"
	notification_routes "municipal-portal-backend/notifications/routes"
	payment_routes "municipal-portal-backend/payments/routes"
	user_routes "municipal-portal-backend/users/routes"

	// bleve
	bleveRepositories "municipal-portal-backend/bleve/repositories"
	bleveRoutes "municipal-portal-backend/bleve/routes"
	bleveServices "municipal-portal-backend/bleve/services"

	// WebSocket
	"municipal-portal-backend/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	config.InitLogger()

	if err := godotenv.Load(".env"); err != nil {
		config.Logger.Warn("No .env file loaded", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 64 * 1024 * 1024,
	})

	middleware.InitCors(app)

	db := config.ConfigureDatabase()
	port := config.GetEnvOrDefault("PORT", "8080")
	ctx := context.Background()

	redisAddr := config.GetEnvOrDefault("REDIS_ADDRESS", "localhost:6379")
	redisClient := config.InitRedisServer(ctx)

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: config.GetEnv("REDIS_PASSWORD"),
		DB:       0,
	}
	asynqClient := asynq.NewClient(asynqRedisOpt)
	defer asynqClient.Close()

	tokenMaker, err := token.NewPasetoMaker(config.GetEnv("TOKEN_SYMMETRIC_KEY"))
	if err != nil {
		config.Logger.Fatal("Cannot create token maker", zap.Error(err))
	}

	appCtx := &middleware.AppContext{
		PasetoMaker: tokenMaker,
		Ctx:         ctx,
		RedisClient: redisClient,
	}

	if err := utils.InitializeDateLocation(); err != nil {
		config.Logger.Fatal("Failed to initialize date location", zap.Error(err))
	}

	utils.InitializeMailer()

	// Object storage with HMAC-signed URL issuance
	baseURL := config.GetEnvOrDefault("BASE_URL", "http://localhost:8080")
	signer, err := storage.NewURLSigner(config.GetEnv("FILE_URL_SECRET"), baseURL)
	if err != nil {
		config.Logger.Fatal("Cannot create URL signer", zap.Error(err))
	}
	store, err := storage.NewLocalObjectStorage(config.GetEnvOrDefault("STORAGE_PATH", "./uploads"), signer)
	if err != nil {
		config.Logger.Fatal("Cannot initialize object storage", zap.Error(err))
	}

	// WebSocket hub for notification pushes
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Repositories
	indexPath := config.GetEnvOrDefault("BLEVE_INDEX_PATH", "./bleve_data")
	bleveIndexingService := bleveServices.NewIndexingService(config.Logger, indexPath)
	_, bleveRepo := bleveRepositories.NewBleveRepository(bleveIndexingService)
	defer bleveIndexingService.Close()

	userRepo := users_repositories.NewUserRepository(db)
	applicationRepo := applications_repositories.NewApplicationRepository(db)
	notificationRepo := notifications_repositories.NewNotificationRepository(db)
	paymentRepo := payments_repositories.NewPaymentRepository(db)

	// Services
	notificationSvc := notifications_services.NewNotificationService(notificationRepo, db, asynqClient, wsHub)

	gateway, err := payments_services.NewGatewayClientFromEnv()
	if err != nil {
		config.Logger.Fatal("Cannot configure payment gateway", zap.Error(err))
	}

	// Background email worker
	asynqServer := asynq.NewServer(asynqRedisOpt, asynq.Config{Concurrency: 5})
	mux := asynq.NewServeMux()
	notifications_tasks.NewEmailTaskHandler(db, notificationRepo).RegisterHandlers(mux)
	go func() {
		if err := asynqServer.Run(mux); err != nil {
			config.Logger.Fatal("Asynq worker failed", zap.Error(err))
		}
	}()

	// Routes
	user_routes.UserRouterInit(app, appCtx, userRepo)
	application_routes.ApplicationRouterInit(app, db, appCtx, applicationRepo, bleveRepo, notificationSvc, store, signer, wsHub)
	notification_routes.NotificationRouterInit(app, appCtx, notificationRepo)
	payment_routes.PaymentRouterInit(app, appCtx, paymentRepo, applicationRepo, gateway, notificationSvc)
	bleveRoutes.SearchRouterInit(app, appCtx, bleveRepo)

	wsHandler := websocket.NewWsHandler(wsHub, tokenMaker)
	app.Get("/ws", wsHandler.HandleWebSocket)

	// Nightly sweep of rejected uploads, stale notifications and old
	// email logs
	maintenance := utils.StartScheduledMaintenance(db, store)
	defer maintenance.Stop()

	if err := config.SeedInitialAdmin(db); err != nil {
		config.Logger.Error("Initial admin seeding failed", zap.Error(err))
	}

	config.Logger.Info("Server starting", zap.String("port", port))
	config.Logger.Fatal("Server failed", zap.String("port", port), zap.Error(app.Listen(":"+port)))
}
