package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"

	"github.com/tech-jay13/PMS/internal/handlers"
	"github.com/tech-jay13/PMS/internal/repositories"
	"github.com/tech-jay13/PMS/internal/services"
	"github.com/tech-jay13/PMS/pkg/mongodb"
	"github.com/tech-jay13/PMS/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	// Set up Viper to read configuration from environment variables
	viper.SetDefault("APP_PORT", ":3000")
	viper.SetDefault("MONGO_DB_CONNECTION_URL", "mongodb://localhost:27017")
	viper.SetDefault("MONGO_DB_NAME", "pms")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables event publishing
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	mongoURL := viper.GetString("MONGO_DB_CONNECTION_URL")
	mongoDBName := viper.GetString("MONGO_DB_NAME")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")

	ctx := context.Background()

	// --- Initialize MongoDB Client ---
	// The connection is owned here and closed on shutdown. A failed
	// connection at startup is fatal.
	mongoClient, err := mongodb.NewClient(ctx, mongodb.Config{URI: mongoURL, Database: mongoDBName})
	if err != nil {
		log.Fatalf("MongoDB connection error: %v", err)
	}
	defer func() {
		if err := mongoClient.Close(context.Background()); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		}
	}()

	// --- Initialize RabbitMQ Client (optional) ---
	var events services.EventPublisher
	if rabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		events = mqClient

		// --- Start RabbitMQ Consumer ---
		// Listens for the product change events this service publishes.
		log.Println("Starting RabbitMQ consumer for product events...")
		messageHandler := func(msg amqp.Delivery) error {
			log.Printf("Received product event (tag: %d): %s", msg.DeliveryTag, string(msg.Body))
			return nil // Return nil to acknowledge
		}
		if consumerErr := mqClient.ConsumeProductEvents(messageHandler); consumerErr != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
		}
	}

	// --- Initialize Repository, Service and Handlers ---
	productRepo, err := repositories.NewMongoProductRepository(ctx, mongoClient.Database())
	if err != nil {
		log.Fatalf("Failed to initialize product repository: %v", err)
	}

	productService := services.NewProductService(productRepo, events)
	app := newApp(productService)

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

// newApp builds the Fiber application with middleware and routes.
func newApp(productService *services.ProductService) *fiber.App {
	app := fiber.New()

	app.Use(logger.New()) // Request logger

	productHandler := handlers.NewProductHandler(productService)
	productHandler.RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}
