package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Miguel-EMC/clinic-api/internal/cache"
	"github.com/Miguel-EMC/clinic-api/internal/config"
	"github.com/Miguel-EMC/clinic-api/internal/database"
	"github.com/Miguel-EMC/clinic-api/internal/handlers"
	"github.com/Miguel-EMC/clinic-api/internal/middleware"
	"github.com/Miguel-EMC/clinic-api/internal/models"
	"github.com/Miguel-EMC/clinic-api/internal/repository"
	"github.com/Miguel-EMC/clinic-api/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// --- Database ---
	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	log.Println("Successfully connected to Postgres!")

	// --- Cache (optional, API degrades to uncached reads) ---
	redisCache, err := cache.New(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Printf("Redis unavailable, running without cache: %v", err)
		redisCache = nil
	}

	// --- Services ---
	notificationSvc := services.NewNotificationService(
		cfg.SMSAPIURL, cfg.SMSAPIKey,
		cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword,
	)
	contentClient := services.NewContentClient(cfg.SummarizerURL, cfg.ImageGenURL, cfg.ContentAPIKey)
	postSvc := services.NewPostService(repository.NewPostRepository(db), contentClient)

	h := handlers.NewHandler(
		db, redisCache, notificationSvc, postSvc,
		repository.NewCategoryRepository(db),
		time.Duration(cfg.RefreshExpireHr)*time.Hour,
	)

	// --- Gin Router ---
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", h.Healthz)

	// --- Routes ---
	rl := middleware.NewRateLimiter(cfg.AuthRateRPS, cfg.AuthRateBurst)
	authRoutes := r.Group("/auth")
	authRoutes.Use(middleware.RateLimit(rl))
	{
		authRoutes.POST("/register", h.RegisterUser)
		authRoutes.POST("/login", h.Login)
		authRoutes.POST("/refresh", h.Refresh)
		authRoutes.POST("/logout", middleware.AuthMiddleware(), h.Logout)
	}

	apiRoutes := r.Group("/api")
	apiRoutes.Use(middleware.AuthMiddleware())
	{
		// Account
		apiRoutes.GET("/users/me", h.GetCurrentUser)
		apiRoutes.PUT("/users/me", h.UpdateCurrentUser)
		apiRoutes.GET("/users/me/profile", h.GetProfile)
		apiRoutes.PUT("/users/me/profile", h.UpsertProfile)

		// Doctor directory
		apiRoutes.GET("/doctors", h.ListDoctors)
		apiRoutes.GET("/doctors/:id", h.GetDoctor)
		apiRoutes.GET("/doctors/:id/appointments",
			middleware.RequireRole(models.RoleStaff, models.RoleDoctor), h.GetDoctorAppointments)

		staffOnly := middleware.RequireRole(models.RoleStaff)
		apiRoutes.POST("/doctors", staffOnly, h.CreateDoctor)
		apiRoutes.PUT("/doctors/:id", staffOnly, h.UpdateDoctor)
		apiRoutes.DELETE("/doctors/:id", staffOnly, h.DeleteDoctor)

		// Patient records
		clinicStaff := middleware.RequireRole(models.RoleStaff, models.RoleDoctor)
		apiRoutes.GET("/patients", clinicStaff, h.ListPatients)
		apiRoutes.POST("/patients", staffOnly, h.CreatePatient)
		apiRoutes.GET("/patients/:id", h.GetPatient)
		apiRoutes.PUT("/patients/:id", staffOnly, h.UpdatePatient)
		apiRoutes.DELETE("/patients/:id", staffOnly, h.DeletePatient)

		// Appointments
		apiRoutes.GET("/appointments", h.GetAppointments)
		apiRoutes.POST("/appointments", h.CreateAppointment)
		apiRoutes.PUT("/appointments/:id", clinicStaff, h.UpdateAppointment)
		apiRoutes.PATCH("/appointments/:id/cancel", clinicStaff, h.CancelAppointment)
	}

	// Blog: reads are public, a bearer token reveals the caller's drafts.
	blogRoutes := r.Group("/api/v1")
	{
		blogRoutes.GET("/posts", middleware.OptionalAuth(), h.ListPosts)
		blogRoutes.GET("/posts/:id", middleware.OptionalAuth(), h.GetPost)
		blogRoutes.GET("/categories", h.ListCategories)

		authed := blogRoutes.Group("")
		authed.Use(middleware.AuthMiddleware())
		{
			authed.POST("/posts", h.CreatePost)
			authed.PUT("/posts/:id", h.UpdatePost)
			authed.DELETE("/posts/:id", h.DeletePost)
			authed.POST("/posts/:id/publish", h.PublishPost)
			authed.POST("/categories", middleware.RequireRole(models.RoleStaff), h.CreateCategory)
			authed.DELETE("/categories/:id", middleware.RequireRole(models.RoleStaff), h.DeleteCategory)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}
	go func() {
		log.Printf("Starting server on port %s", cfg.APIPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	redisCache.Close()
}
