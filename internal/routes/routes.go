package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"telehealth-app-server/internal/config"
	"telehealth-app-server/internal/handlers"
	"telehealth-app-server/internal/middleware"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/realtime"
	"telehealth-app-server/internal/repositories"
	"telehealth-app-server/internal/services"
	"telehealth-app-server/internal/storage"
)

// Dependencies are the shared resources the routes are built from.
type Dependencies struct {
	DB     *gorm.DB
	Config *config.Config
	Store  storage.ObjectStore
	Events realtime.Publisher
	Hub    *realtime.Hub
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	cfg := deps.Config
	maxUpload := cfg.MaxUploadBytes()

	// Repositories
	userRepo := repositories.NewUserRepository(deps.DB)
	doctorRepo := repositories.NewDoctorRepository(deps.DB)
	hospitalRepo := repositories.NewHospitalRepository(deps.DB)
	appointmentRepo := repositories.NewAppointmentRepository(deps.DB)
	recordRepo := repositories.NewMedicalRecordRepository(deps.DB)
	prescriptionRepo := repositories.NewPrescriptionRepository(deps.DB)
	messageRepo := repositories.NewMessageRepository(deps.DB)
	tokenRepo := repositories.NewRefreshTokenRepository(deps.DB)

	// Services
	authService := services.NewAuthService(userRepo, tokenRepo, cfg)
	userService := services.NewUserService(userRepo, appointmentRepo)
	doctorService := services.NewDoctorService(doctorRepo, userRepo, hospitalRepo, deps.Store)
	hospitalService := services.NewHospitalService(hospitalRepo)
	appointmentService := services.NewAppointmentService(appointmentRepo, userRepo, deps.Events)
	recordService := services.NewRecordService(recordRepo, userRepo, appointmentService, deps.Store, deps.Events, maxUpload)
	prescriptionService := services.NewPrescriptionService(prescriptionRepo, userRepo, doctorRepo, appointmentService, deps.Store, deps.Events, maxUpload)
	messageService := services.NewMessageService(messageRepo, userRepo, appointmentRepo, deps.Events)
	dashboardService := services.NewDashboardService(userService, appointmentService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	doctorHandler := handlers.NewDoctorHandler(doctorService, maxUpload)
	hospitalHandler := handlers.NewHospitalHandler(hospitalService)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService)
	medicalRecordHandler := handlers.NewMedicalRecordHandler(recordService, maxUpload)
	prescriptionHandler := handlers.NewPrescriptionHandler(prescriptionService, maxUpload)
	messageHandler := handlers.NewMessageHandler(messageService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	realtimeHandler := handlers.NewRealtimeHandler(realtime.NewHandler(deps.Hub, cfg.Origin))

	doctorOnly := middleware.RoleAuthMiddleware(models.RoleDoctor)
	patientOnly := middleware.RoleAuthMiddleware(models.RolePatient)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.SignUp)
			authRoutes.POST("/signin", authHandler.SignIn)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}

		// Browsers cannot send headers on the websocket handshake.
		public.GET("/realtime/ws", middleware.QueryTokenAuthMiddleware(cfg), realtimeHandler.Connect)
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/signout", authHandler.SignOut)
			authRoutesPrivate.GET("/session", authHandler.Session)
		}

		private.GET("/profile", userHandler.GetProfile)
		private.PUT("/profile", userHandler.UpdateProfile)
		private.GET("/dashboard", dashboardHandler.GetDashboard)

		userRoutes := private.Group("/users")
		{
			userRoutes.GET("/by-email", userHandler.GetUserByEmail)
			userRoutes.GET("/:id", userHandler.GetUserByID)
		}

		doctorRoutes := private.Group("/doctors")
		{
			doctorRoutes.GET("", doctorHandler.ListDoctors)
			doctorRoutes.POST("", doctorOnly, doctorHandler.CreateDoctor)
			doctorRoutes.GET("/me", doctorOnly, doctorHandler.GetMyProfile)
			doctorRoutes.POST("/me/logo", doctorOnly, doctorHandler.UploadLogo)
			doctorRoutes.GET("/me/logo", doctorOnly, doctorHandler.GetLogo)
		}

		hospitalRoutes := private.Group("/hospitals")
		{
			hospitalRoutes.GET("", hospitalHandler.ListHospitals)
			hospitalRoutes.GET("/:id", hospitalHandler.GetHospital)
			hospitalRoutes.GET("/:id/departments", hospitalHandler.GetHospitalDepartments)
		}
		private.GET("/departments", hospitalHandler.ListDepartments)

		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", patientOnly, appointmentHandler.CreateAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointmentsForUser)
			appointmentRoutes.GET("/stats", appointmentHandler.GetStats)
			appointmentRoutes.GET("/patients", doctorOnly, appointmentHandler.GetDoctorPatients)
			// Participants only; checked by the service
			appointmentRoutes.GET("/:id", appointmentHandler.GetAppointmentByID)
			appointmentRoutes.PATCH("/:id/status", doctorOnly, appointmentHandler.UpdateAppointmentStatus)
		}

		medicalRecordRoutes := private.Group("/medical-records")
		{
			medicalRecordRoutes.POST("", medicalRecordHandler.UploadMedicalRecord)
			medicalRecordRoutes.GET("", medicalRecordHandler.GetMyMedicalRecords)
			medicalRecordRoutes.GET("/patient/:patientId", medicalRecordHandler.GetMedicalRecordsForPatient)
			medicalRecordRoutes.GET("/:id/file", medicalRecordHandler.DownloadMedicalRecord)
			medicalRecordRoutes.DELETE("/:id", medicalRecordHandler.DeleteMedicalRecord)
		}

		prescriptionRoutes := private.Group("/prescriptions")
		{
			prescriptionRoutes.POST("", doctorOnly, prescriptionHandler.UploadPrescription)
			prescriptionRoutes.GET("", prescriptionHandler.GetPrescriptions)
			prescriptionRoutes.GET("/candidates", doctorOnly, prescriptionHandler.GetCandidates)
			prescriptionRoutes.GET("/patient/:patientId", prescriptionHandler.GetPrescriptionsForPatient)
			prescriptionRoutes.GET("/:id/file", prescriptionHandler.DownloadPrescription)
		}

		messageRoutes := private.Group("/messages")
		{
			messageRoutes.POST("", messageHandler.SendMessage)
			messageRoutes.GET("/threads", messageHandler.GetThreads)
			messageRoutes.GET("/conversation/:userId", messageHandler.GetConversation)
			messageRoutes.GET("/appointment/:appointmentId", messageHandler.GetAppointmentMessages)
			messageRoutes.PATCH("/:id/read", messageHandler.MarkMessageAsRead)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{"status": "UP", "realtime_clients": deps.Hub.ClientCount()}
		if sqlDB, err := deps.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "DOWN"
		}
		c.JSON(status, body)
	})
}
