package routes

import (
	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Navneet1206/appoint-healers/clients/zoom"
	"github.com/Navneet1206/appoint-healers/config"
	"github.com/Navneet1206/appoint-healers/controllers"
	"github.com/Navneet1206/appoint-healers/controllers/admin"
	"github.com/Navneet1206/appoint-healers/controllers/consumer"
	"github.com/Navneet1206/appoint-healers/middleware"
	"github.com/Navneet1206/appoint-healers/models"
	"github.com/Navneet1206/appoint-healers/services/notification"
	"github.com/Navneet1206/appoint-healers/services/otp"
	"github.com/Navneet1206/appoint-healers/services/token"
)

// Deps carries the constructed services the route handlers need.
type Deps struct {
	DB         *gorm.DB
	Redis      *goredis.Client
	Cfg        *config.Config
	Tokens     *token.Service
	OTPs       *otp.Service
	Dispatcher *notification.Dispatcher
	Zoom       *zoom.Client
}

// Setup wires every route group onto the app.
func Setup(app *fiber.App, d Deps) {
	authController := controllers.NewAuthController(d.DB, d.Cfg, d.Tokens, d.OTPs, d.Dispatcher)
	verificationController := controllers.NewVerificationController(d.DB, d.OTPs, d.Dispatcher)
	appointmentController := controllers.NewAppointmentController(d.DB, d.Zoom, d.Dispatcher)
	paymentController := controllers.NewPaymentController(d.DB)
	contactController := controllers.NewContactController(d.Dispatcher, d.Cfg.AdminEmail)
	adminProfessionals := admin.NewProfessionalController(d.DB, d.Redis, d.Cfg, d.Dispatcher)
	publicProfessionals := consumer.NewProfessionalController(d.DB, d.Redis)
	reviews := consumer.NewReviewController(d.DB)

	protected := middleware.Protected(d.Cfg.JWTSecret)
	api := app.Group("/api")

	// Authentication
	auth := api.Group("/auth/user")
	auth.Post("/register", authController.Register)
	auth.Post("/login", authController.Login)
	auth.Post("/refresh-token", authController.RefreshToken)
	auth.Post("/logout", protected, authController.Logout)
	auth.Get("/me", protected, authController.Me)

	// Channel verification
	users := api.Group("/users", protected)
	users.Post("/verify/email", verificationController.VerifyEmail)
	users.Post("/verify/phone", verificationController.VerifyPhone)
	users.Post("/resend/email-otp", verificationController.ResendEmailOTP)
	users.Post("/resend/phone-otp", verificationController.ResendPhoneOTP)

	// Admin professional management
	adminGroup := api.Group("/admin", protected, middleware.RequireRole(models.RoleAdmin))
	adminGroup.Post("/professional/register", adminProfessionals.Register)
	adminGroup.Patch("/professional/:id/approve", adminProfessionals.Approve)
	adminGroup.Post("/professional/:id/document", adminProfessionals.UploadDocument)
	adminGroup.Get("/professionals", adminProfessionals.List)

	// Public professional directory
	api.Post("/professionals/apply", protected, publicProfessionals.Apply)
	api.Get("/professionals", publicProfessionals.List)
	api.Get("/professionals/:id", publicProfessionals.Get)
	api.Get("/professionals/:id/reviews", reviews.List)
	api.Post("/professionals/:id/reviews", protected, reviews.Create)

	// Appointments
	appointments := api.Group("/appointments", protected)
	appointments.Get("/pending-payments", appointmentController.PendingPayments)
	appointments.Post("/", appointmentController.Book)
	appointments.Get("/", appointmentController.List)
	appointments.Patch("/:id/status", appointmentController.UpdateStatus)

	// Payments
	payments := api.Group("/payments", protected)
	payments.Post("/initiate", paymentController.Initiate)
	payments.Post("/:ref/complete", paymentController.Complete)

	// Contact form
	api.Post("/contact", contactController.Submit)
}
