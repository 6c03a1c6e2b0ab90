// main.go
//
// An admin console for real-estate property listings and blog posts
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of realty-admin.
// realty-admin is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// realty-admin is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with realty-admin.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/realty-admin/internal/blobstore"
	"github.com/localnerve/realty-admin/internal/config"
	"github.com/localnerve/realty-admin/internal/console"
	"github.com/localnerve/realty-admin/internal/database"
	"github.com/localnerve/realty-admin/internal/handlers"
	"github.com/localnerve/realty-admin/internal/models"
	"github.com/localnerve/realty-admin/internal/services"
	"github.com/localnerve/realty-admin/internal/store"
	"github.com/localnerve/realty-admin/views"

	_ "github.com/localnerve/realty-admin/docs/api" // Swagger docs
)

// @title Realty Admin API
// @version 1.0.0
// @description Read-only JSON access to the property listings and blog posts managed by the admin console
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/realty-admin
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to the record store
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Connect to the blob store and make sure the image buckets exist
	blobs, err := blobstore.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create storage client: %v", err)
	}
	if err := blobs.EnsureBuckets(ctx, models.KindProperty.Bucket(), models.KindBlog.Bucket()); err != nil {
		log.Fatalf("Failed to prepare storage buckets: %v", err)
	}
	log.Printf("Blob store ready at %s", blobs.Endpoint())

	// Session store and the process wide auth gate
	sessions, err := services.NewSessionStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Authorizer: %v", err)
	}
	gate := console.NewGate(sessions)
	gate.Start(ctx)
	defer gate.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		Views:        views.Engine(),
		ViewsLayout:  views.Layout,
		BodyLimit:    cfg.MaxUploadBytes(),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("realty_admin")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Console pages and API
	handlers.Setup(app, handlers.Deps{
		Gate:       gate,
		Sessions:   sessions,
		Validator:  sessions,
		Properties: store.New[models.Property](db, models.KindProperty),
		Blogs:      store.New[models.Blog](db, models.KindBlog),
		Blobs:      blobs,
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	// Start server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}
