package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/template/html/v2"

	"github.com/Pavanjain1996/Buy-and-Sell/internal/handlers"
	"github.com/Pavanjain1996/Buy-and-Sell/internal/middleware"
	"github.com/Pavanjain1996/Buy-and-Sell/internal/models"
	"github.com/Pavanjain1996/Buy-and-Sell/internal/repositories"
	"github.com/Pavanjain1996/Buy-and-Sell/internal/services"
	"github.com/Pavanjain1996/Buy-and-Sell/pkg/imagestore"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	// --- Configuration ---
	// Set up Viper to read configuration from environment variables
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DB_DRIVER", "sqlite")
	viper.SetDefault("DB_DSN", "database.db")
	viper.SetDefault("SESSION_SECRET", "change-me-in-production")
	viper.SetDefault("UPLOAD_DIR", "static/images")
	viper.SetDefault("VIEWS_DIR", "views")
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("APP_PORT")

	// --- Database ---
	db, err := openDatabase(viper.GetString("DB_DRIVER"), viper.GetString("DB_DSN"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Listing{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Image store ---
	images, err := imagestore.New(imagestore.Config{Dir: viper.GetString("UPLOAD_DIR")})
	if err != nil {
		log.Fatalf("Failed to initialize image store: %v", err)
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	listingRepo := repositories.NewGORMListingRepository(db)

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, viper.GetString("SESSION_SECRET"))
	listingService := services.NewListingService(listingRepo)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	listingHandler := handlers.NewListingHandler(listingService, images)

	// --- Initialize Fiber App ---
	engine := html.New(viper.GetString("VIEWS_DIR"), ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
	})

	// --- Middleware ---
	app.Use(requestid.New())
	app.Use(logger.New()) // Request logger
	app.Use(recover.New())

	// Uploaded images are served straight off the upload directory.
	app.Static("/static/images", images.Dir())

	// --- Routes ---
	// Public routes: landing page, registration, login, logout
	authHandler.RegisterRoutes(app)

	// --- Health Check Endpoint ---
	// Registered before the protected group: the group's session middleware
	// is a prefix-"" Use that matches every path added after it.
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Protected routes require a valid session cookie
	protected := app.Group("", middleware.SessionRequired(authService))
	listingHandler.RegisterRoutes(protected)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openDatabase opens a GORM connection for the configured driver. Anything
// other than "postgres" falls back to sqlite.
func openDatabase(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}
}
