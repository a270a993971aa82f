package routes

import (
	"foodsafety-backend/domain"
	"foodsafety-backend/internal/api/handlers"
	"foodsafety-backend/internal/middleware"
	"foodsafety-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	App              *fiber.App
	UserHandler      handlers.UserHandler
	ProductHandler   handlers.ProductHandler
	ReviewHandler    handlers.ReviewHandler
	ComplaintHandler handlers.ComplaintHandler
	IncidentHandler  handlers.IncidentHandler
	FSSAIHandler     handlers.FSSAIHandler
	AnalyticsHandler handlers.AnalyticsHandler
	Middleware       middleware.Middleware
	JWTService       jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.User()
	c.Products()
	c.Reviews()
	c.Complaints()
	c.Incidents()
	c.FSSAI()
	c.Analytics()
}

func (c *Config) auth() fiber.Handler {
	return c.Middleware.AuthMiddleware(c.JWTService)
}

func (c *Config) staff() fiber.Handler {
	return c.Middleware.RoleMiddleware(domain.StaffRoles...)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.auth(), c.UserHandler.Me)
		user.Patch("/me", c.auth(), c.UserHandler.UpdateProfile)
		user.Get("/:id", c.auth(), c.UserHandler.GetUser)
		user.Post("/:id/trust-score", c.auth(), c.staff(), c.UserHandler.RecomputeTrustScore)
	}
}

func (c *Config) Products() {
	products := c.App.Group("/api/v1/products")
	owners := c.Middleware.RoleMiddleware(domain.RoleEstablishmentOwner, domain.RoleHealthOfficial, domain.RoleAdmin)
	admin := c.Middleware.RoleMiddleware(domain.RoleAdmin)
	{
		products.Get("", c.ProductHandler.GetProducts)
		products.Get("/verify/:license", c.ProductHandler.VerifyLicense)
		products.Get("/:id", c.ProductHandler.GetProduct)
		products.Post("", c.auth(), owners, c.ProductHandler.CreateProduct)
		products.Put("/:id", c.auth(), owners, c.ProductHandler.UpdateProduct)
		products.Delete("/:id", c.auth(), admin, c.ProductHandler.DeleteProduct)
		products.Post("/:id/violations", c.auth(), c.staff(), c.ProductHandler.AddViolation)
		products.Post("/:id/quality-metrics/recompute", c.auth(), admin, c.ProductHandler.RecomputeQualityMetrics)
	}
}

func (c *Config) Reviews() {
	reviews := c.App.Group("/api/v1/reviews")
	{
		reviews.Get("/product/:productId", c.ReviewHandler.GetReviewsByProduct)
		reviews.Get("/product/:productId/top", c.ReviewHandler.GetTopReviews)
		reviews.Get("/user", c.auth(), c.ReviewHandler.GetMyReviews)
		reviews.Get("/:id", c.ReviewHandler.GetReview)
		reviews.Post("", c.auth(), c.ReviewHandler.CreateReview)
		reviews.Put("/:id", c.auth(), c.ReviewHandler.UpdateReview)
		reviews.Delete("/:id", c.auth(), c.ReviewHandler.DeleteReview)
		reviews.Post("/:id/helpful", c.auth(), c.ReviewHandler.VoteHelpful)
		reviews.Post("/:id/report", c.auth(), c.ReviewHandler.ReportReview)
		reviews.Patch("/:id/verify", c.auth(), c.staff(), c.ReviewHandler.VerifyReview)
		reviews.Patch("/:id/outcome", c.auth(), c.staff(), c.ReviewHandler.UpdateOutcome)
	}
}

func (c *Config) Complaints() {
	complaints := c.App.Group("/api/v1/complaints", c.auth())
	{
		complaints.Post("", c.ComplaintHandler.SubmitComplaint)
		complaints.Get("/my-complaints", c.ComplaintHandler.GetMyComplaints)
		complaints.Get("/:id", c.ComplaintHandler.GetComplaint)
		complaints.Patch("/:id/status", c.staff(), c.ComplaintHandler.UpdateStatus)
	}
}

func (c *Config) Incidents() {
	incidents := c.App.Group("/api/v1/incidents", c.auth())
	{
		incidents.Get("", c.IncidentHandler.GetIncidents)
		incidents.Get("/recent", c.IncidentHandler.GetRecentIncidents)
		incidents.Get("/stats", c.IncidentHandler.GetStats)
		incidents.Post("", c.IncidentHandler.CreateIncident)
		incidents.Get("/:id", c.IncidentHandler.GetIncident)
		incidents.Patch("/:id", c.staff(), c.IncidentHandler.UpdateIncident)
		incidents.Patch("/:id/status", c.staff(), c.IncidentHandler.UpdateStatus)
	}
}

func (c *Config) FSSAI() {
	fssai := c.App.Group("/api/v1/fssai")
	{
		fssai.Post("/verify", c.FSSAIHandler.Verify)
		fssai.Post("/register", c.FSSAIHandler.Register)
		fssai.Get("/check", c.FSSAIHandler.Check)
		fssai.Get("/my-registrations", c.FSSAIHandler.GetMyRegistrations)
		fssai.Get("/registrations", c.auth(), c.staff(), c.FSSAIHandler.GetRegistrations)
		fssai.Patch("/update-verification/:id", c.auth(), c.staff(), c.FSSAIHandler.UpdateVerification)
		fssai.Patch("/update-status/:id", c.auth(), c.staff(), c.FSSAIHandler.UpdateStatus)
		fssai.Patch("/update-fssai/:id", c.auth(), c.staff(), c.FSSAIHandler.AttachNumber)
	}
}

func (c *Config) Analytics() {
	analytics := c.App.Group("/api/v1/analytics", c.auth())
	{
		analytics.Get("/dashboard", c.AnalyticsHandler.GetDashboard)
		analytics.Get("/trends", c.AnalyticsHandler.GetTrends)
	}
}
