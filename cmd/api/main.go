package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-stocktrack/internal/handler"
	"go-stocktrack/internal/middleware"
	"go-stocktrack/internal/model"
	"go-stocktrack/internal/repository"
	"go-stocktrack/internal/service"
	"go-stocktrack/internal/ws"
	"go-stocktrack/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.Category{}, &model.Item{}, &model.LedgerEntry{}, &model.User{})

	// 3. Seed default admin account
	seedAdmin(db)

	// 4. WebSocket hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency injection (wiring layers)
	categoryRepo := repository.NewCategoryRepo(db)
	itemRepo := repository.NewItemRepo(db)
	ledgerRepo := repository.NewLedgerRepo(db)
	userRepo := repository.NewUserRepo(db)

	stockService := service.NewStockService(itemRepo, ledgerRepo, db, wsHub)
	reportService := service.NewReportService(itemRepo, categoryRepo, ledgerRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)

	invHandler := handler.NewInventoryHandler(stockService)
	reportHandler := handler.NewReportHandler(reportService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	// 6. Fiber
	app := fiber.New(fiber.Config{
		AppName: "StockTrack API v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Items and stock mutations
	protected.Get("/items", invHandler.GetItems)
	protected.Get("/items/:id", invHandler.GetItem)
	protected.Post("/items", invHandler.CreateItem)
	protected.Put("/items/:id", invHandler.UpdateItem)
	protected.Delete("/items/:id", invHandler.DeleteItem)
	protected.Post("/items/:id/withdraw", invHandler.Withdraw)
	protected.Post("/items/:id/refill", invHandler.Refill)

	// Categories
	protected.Get("/categories", categoryHandler.GetCategories)
	protected.Post("/categories", categoryHandler.CreateCategory)
	protected.Put("/categories/:id", categoryHandler.UpdateCategory)
	protected.Delete("/categories/:id", categoryHandler.DeleteCategory)

	// History and reporting
	protected.Get("/history", reportHandler.GetHistory)
	protected.Get("/history/item/:itemId", reportHandler.GetItemHistory)
	protected.Get("/history/item/:itemId/daily", reportHandler.GetItemDaily)
	protected.Get("/dashboard/stats", reportHandler.GetStats)
	protected.Get("/dashboard/low-stock", reportHandler.GetLowStock)

	// Admin-only routes
	admin := protected.Group("", middleware.RequireAdmin())
	admin.Get("/users", userHandler.GetUsers)
	admin.Put("/users/:id/admin", userHandler.SetAdmin)
	admin.Delete("/history", reportHandler.PurgeHistory)

	// WebSocket route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedAdmin creates the default admin account if it doesn't exist.
func seedAdmin(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	if _, err := userRepo.FindByUsername(username); err == nil {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	admin := &model.User{
		Username: username,
		IsAdmin:  true,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}

	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
	} else {
		log.Printf("Admin user created: %s", username)
	}
}
