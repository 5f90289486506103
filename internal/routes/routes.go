package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/lead-crm/internal/audit"
	"github.com/BruksfildServices01/lead-crm/internal/avatar"
	"github.com/BruksfildServices01/lead-crm/internal/config"
	accountDomain "github.com/BruksfildServices01/lead-crm/internal/domain/account"
	bookingDomain "github.com/BruksfildServices01/lead-crm/internal/domain/booking"
	"github.com/BruksfildServices01/lead-crm/internal/handlers"
	"github.com/BruksfildServices01/lead-crm/internal/mail"
	"github.com/BruksfildServices01/lead-crm/internal/middleware"
	"github.com/BruksfildServices01/lead-crm/internal/otp"
	"github.com/BruksfildServices01/lead-crm/internal/queue"
	ucAccount "github.com/BruksfildServices01/lead-crm/internal/usecase/account"
	ucBooking "github.com/BruksfildServices01/lead-crm/internal/usecase/booking"
)

// Deps are the singletons built by main. Optional services are nil when
// not configured.
type Deps struct {
	DB       *gorm.DB
	Bookings bookingDomain.Repository
	Users    accountDomain.Repository
	Audit    *audit.Dispatcher

	Publisher   queue.Publisher
	Codes       otp.Store
	Mail        mail.Sender
	Avatars     avatar.Storage
	AI          handlers.Flows
	DomainCheck ucAccount.DomainCheck
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.Metrics())
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	tokens := ucAccount.NewTokens(cfg.JWTSecret, cfg.JWTTTL)

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(deps.Bookings, deps.Audit, deps.Publisher)
	listBookingsUC := ucBooking.NewListBookings(deps.Bookings)
	getBookingUC := ucBooking.NewGetBooking(deps.Bookings)
	updateStatusUC := ucBooking.NewUpdateBookingStatus(deps.Bookings, deps.Audit)
	updateDetailsUC := ucBooking.NewUpdateBookingDetails(deps.Bookings, deps.Audit)
	deleteBookingUC := ucBooking.NewDeleteBooking(deps.Bookings, deps.Audit)
	listAgentsUC := ucBooking.NewListAgents(deps.Bookings)

	registerUC := ucAccount.NewRegister(deps.Users, tokens, deps.DomainCheck, deps.Audit)
	loginUC := ucAccount.NewLogin(deps.Users, tokens)
	getProfileUC := ucAccount.NewGetProfile(deps.Users)
	updateProfileUC := ucAccount.NewUpdateProfile(deps.Users, deps.Audit)
	uploadAvatarUC := ucAccount.NewUploadAvatar(deps.Users, deps.Avatars)
	forgotPasswordUC := ucAccount.NewForgotPassword(deps.Users, deps.Codes, deps.Mail)
	resetPasswordUC := ucAccount.NewResetPassword(deps.Users, deps.Codes, deps.Audit)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(registerUC, loginUC)
	profileHandler := handlers.NewProfileHandler(getProfileUC, updateProfileUC, uploadAvatarUC)
	passwordHandler := handlers.NewPasswordHandler(forgotPasswordUC, resetPasswordUC)

	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		listBookingsUC,
		getBookingUC,
		updateStatusUC,
		updateDetailsUC,
		deleteBookingUC,
		listAgentsUC,
	)

	aiHandler := handlers.NewAIHandler(deps.AI)
	auditLogsHandler := handlers.NewAuditLogsHandler(deps.DB)
	appWebHandler := handlers.NewAppWebHandler("")

	// ======================================================
	// 🌍 WEB (HTML)
	// ======================================================
	r.SetHTMLTemplate(handlers.Templates())

	web := r.Group("/")
	web.Use(middleware.EdgeGate(cfg.JWTSecret))
	{
		web.GET("/login", appWebHandler.LoginPage)
		web.GET("/dashboard", appWebHandler.Dashboard)
		web.GET("/dashboard/*section", appWebHandler.Dashboard)
	}

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/forgot-password", passwordHandler.Forgot)
		api.POST("/verify-reset-password", passwordHandler.Reset)

		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/profile", profileHandler.Get)
			secured.PUT("/update-profile", profileHandler.Update)
			secured.PUT("/profile/avatar", profileHandler.UploadAvatar)

			secured.GET("/showallbookings", bookingHandler.ShowAll)
			secured.POST("/bookings", bookingHandler.Create)
			secured.GET("/bookings/:id", bookingHandler.Get)
			secured.PUT("/bookings/:id/status", bookingHandler.UpdateStatus)
			secured.PUT("/bookings/:id/details", bookingHandler.UpdateDetails)
			secured.DELETE("/bookings/:id", bookingHandler.Delete)

			secured.GET("/agents", bookingHandler.ListAgents)

			secured.POST("/ai/lead-response", aiHandler.LeadResponse)
			secured.POST("/ai/summarize", aiHandler.Summarize)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
