package config

import (
	"os"
	"time"

	"foodsafety-backend/internal/api/handlers"
	"foodsafety-backend/internal/api/routes"
	"foodsafety-backend/internal/middleware"
	"foodsafety-backend/internal/utils"
	"foodsafety-backend/internal/utils/cache"
	"foodsafety-backend/internal/utils/logger"
	"foodsafety-backend/internal/utils/mailing"
	"foodsafety-backend/internal/utils/storage"
	"foodsafety-backend/pkg/analytics"
	"foodsafety-backend/pkg/complaint"
	"foodsafety-backend/pkg/fssai"
	"foodsafety-backend/pkg/incident"
	"foodsafety-backend/pkg/jwt"
	"foodsafety-backend/pkg/product"
	"foodsafety-backend/pkg/review"
	"foodsafety-backend/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const defaultAnalyticsCacheTTL = time.Minute

// NewApp wires repositories, services and handlers into a fiber app. rdb may
// be nil, in which case analytics are served uncached.
func NewApp(db *gorm.DB, rdb *redis.Client, log *logger.Logger) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: utils.GetConfig("APP_ENV") != "production",
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, err
	}
	app.Use(fiberlogger.New(fiberlogger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   utils.GetConfigOr("TIMEZONE", "Asia/Kolkata"),
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	mailer := newMailer(log)
	analyticsCache, cacheTTL := newAnalyticsCache(rdb, log)

	// Repository
	userRepository := user.NewUserRepository(db)
	productRepository := product.NewProductRepository(db)
	reviewRepository := review.NewReviewRepository(db)
	complaintRepository := complaint.NewComplaintRepository(db)
	incidentRepository := incident.NewIncidentRepository(db)
	fssaiRepository := fssai.NewFSSAIRepository(db)
	analyticsRepository := analytics.NewAnalyticsRepository(db)

	// Service
	jwtService := jwt.NewJWTService(utils.GetConfig("JWT_SECRET"))
	userService := user.NewUserService(userRepository, jwtService, log)
	productService := product.NewProductService(productRepository, log)
	reviewService := review.NewReviewService(reviewRepository, userRepository, log)
	complaintService := complaint.NewComplaintService(complaintRepository, userRepository, s3, log)
	incidentService := incident.NewIncidentService(incidentRepository, userRepository, mailer, log)
	fssaiService := fssai.NewFSSAIService(fssaiRepository, s3, mailer, log)
	analyticsService := analytics.NewAnalyticsService(analyticsRepository, analyticsCache, cacheTTL, log)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	productHandler := handlers.NewProductHandler(productService, reviewService, validator)
	reviewHandler := handlers.NewReviewHandler(reviewService, validator)
	complaintHandler := handlers.NewComplaintHandler(complaintService, validator)
	incidentHandler := handlers.NewIncidentHandler(incidentService, validator)
	fssaiHandler := handlers.NewFSSAIHandler(fssaiService, validator)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	// routes
	routesConfig := routes.Config{
		App:              app,
		UserHandler:      userHandler,
		ProductHandler:   productHandler,
		ReviewHandler:    reviewHandler,
		ComplaintHandler: complaintHandler,
		IncidentHandler:  incidentHandler,
		FSSAIHandler:     fssaiHandler,
		AnalyticsHandler: analyticsHandler,
		Middleware:       middlewares,
		JWTService:       jwtService,
	}
	routesConfig.Setup()
	return app, nil
}

func newMailer(log *logger.Logger) mailing.Mailer {
	if utils.GetConfig("SMTP_HOST") == "" {
		log.Warn("SMTP_HOST not set, outgoing mail will only be logged")
		return mailing.NewLogMailer(log)
	}
	return mailing.NewMailer()
}

func newAnalyticsCache(rdb *redis.Client, log *logger.Logger) (cache.Cache, time.Duration) {
	if rdb == nil {
		return nil, 0
	}

	ttl := defaultAnalyticsCacheTTL
	if raw := utils.GetConfig("ANALYTICS_CACHE_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Warn("invalid ANALYTICS_CACHE_TTL, using default", "value", raw, "default", ttl)
		} else {
			ttl = parsed
		}
	}
	return cache.NewRedisCache(rdb, "foodsafety:"), ttl
}
