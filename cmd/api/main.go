package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"cleanops/internal/config"
	"cleanops/internal/database"
	"cleanops/internal/middleware"
	"cleanops/internal/modules/auth"
	"cleanops/internal/modules/catalog"
	"cleanops/internal/modules/checklist"
	"cleanops/internal/modules/dashboard"
	"cleanops/internal/modules/geofence"
	"cleanops/internal/modules/live"
	"cleanops/internal/modules/upload"
	jwtsvc "cleanops/internal/pkg/jwt"
	"cleanops/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db, &upload.Upload{}); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	checklistRepo := repository.NewChecklistRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	uploadRepo := upload.NewRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	hub := live.NewHub()
	defer hub.Close()

	authService := auth.NewService(userRepo, j, cfg.RefreshTokenPepper, cfg.RefreshTTL)
	authHandler := auth.NewHandler(authService)

	geofenceService := geofence.NewService(propertyRepo, cfg.GeofenceRadiusM)

	checklistService := checklist.NewService(checklistRepo, propertyRepo, geofenceService, live.NewNotifier(hub))
	checklistHandler := checklist.NewHandler(checklistService)

	catalogService := catalog.NewService(propertyRepo, roomRepo, taskRepo, userRepo, checklistRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	uploadService := upload.NewService(uploadRepo, cfg.UploadsDir, upload.StaticURLBase)
	uploadHandler := upload.NewHandler(uploadService)

	dashboardHandler := dashboard.NewHandler(dashboard.NewService(dashboardRepo))
	liveHandler := live.NewHandler(hub)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	r.Static(upload.StaticURLBase, cfg.UploadsDir)

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			upload.RegisterRoutes(protected, uploadHandler)
			checklistHandler.RegisterRoutes(protected)
			liveHandler.RegisterRoutes(protected)

			managers := protected.Group("/")
			managers.Use(middleware.RequireRole("manager", "admin"))
			{
				catalogHandler.RegisterRoutes(managers)
				checklistHandler.RegisterReviewRoutes(managers)
				dashboardHandler.RegisterRoutes(managers)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				authHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
