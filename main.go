// Package main is the entry point of the workmood backend.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/workmood/workmood-backend/database"
	"github.com/workmood/workmood-backend/internal/api"
	"github.com/workmood/workmood-backend/internal/assist"
	"github.com/workmood/workmood-backend/internal/kafka"
	"github.com/workmood/workmood-backend/internal/services"
	"github.com/workmood/workmood-backend/restapi"
	"github.com/workmood/workmood-backend/util"
)

func main() {
	// Local development config, ignored when absent
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	// Initialize database connection
	db := database.InitializeDatabase()
	store := database.NewArangoStore(db)

	assistant := assist.NewClient()
	svc := restapi.Services{
		Admins:        services.NewAdminService(store),
		Organizations: services.NewOrganizationService(store, assistant),
		Subjects:      services.NewSubjectService(store, assistant),
	}

	// Subscription plan catalog, optional
	if path := os.Getenv("PLAN_CATALOG_PATH"); path != "" {
		catalog, err := util.LoadPlanCatalog(path)
		if err != nil {
			log.Fatalf("Failed to load plan catalog %s: %v", path, err)
		}
		svc.Organizations.SetPlanCatalog(catalog)
		log.Printf("Loaded %d subscription plans", len(catalog.Names()))
	}

	// Background ingestion from the recognition pipeline, only when brokers
	// are configured
	if os.Getenv("KAFKA_BROKERS") != "" {
		if err := kafka.RunEventProcessor(context.Background(), svc.Organizations); err != nil {
			log.Printf("WARNING: Kafka event processor not started: %v", err)
		}
	}

	app := api.NewFiberApp(svc)

	// Get port from environment or default to 3000
	port := os.Getenv("MS_PORT")
	if port == "" {
		port = "3000"
	}

	// Start server
	log.Printf("Starting server on port %s", port)
	log.Printf("GraphQL endpoint available at /api/v1/graphql")
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
