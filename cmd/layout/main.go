package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"keycap-layout/internal/common/config"
	"keycap-layout/internal/common/middleware"
	"keycap-layout/internal/layout/geometry"
	"keycap-layout/internal/layout/handlers"
	"keycap-layout/internal/layout/mapper"
	"keycap-layout/internal/layout/repository"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Layout Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3001"
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), cfg.MigrationsPath); err != nil {
		log.Fatalf("init db: %v", err)
	}

	band := geometry.Options{
		GroupSize: cfg.Import.GroupSize,
		MinSize:   cfg.Import.MinKeySize,
		MaxSize:   cfg.Import.MaxKeySize,
	}
	if err := band.Validate(); err != nil {
		log.Fatalf("import config: %v", err)
	}

	converter := mapper.New(
		band,
		mapper.NormalizeOptions{
			Scale:  cfg.Import.Scale,
			Margin: cfg.Import.Margin,
		},
		mapper.UUIDProvider{},
	)
	layoutHandler := handlers.NewLayoutHandler(repo, converter, mapper.NewRenderer())

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		AppName:      "Layout Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Routes
	// ============================================================

	layoutHandler.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Layout Service on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Import band [%v, %v], group size %d", cfg.Import.MinKeySize, cfg.Import.MaxKeySize, cfg.Import.GroupSize)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
