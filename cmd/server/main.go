package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"task-service/internal/api"
	"task-service/internal/events"
	"task-service/internal/repository"
	"task-service/internal/service"
	"task-service/internal/tracing"
	_ "task-service/migrations"
)

func main() {
	if err := godotenv.Load(".env.dev"); err != nil {
		fmt.Println("No .env.dev file found, reading from environment variables")
	}

	api.SetupGlobalHandler("task-service")

	shutdownTracer, err := tracing.InitTracerProvider("task-service")
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		handleMigrations()
		return
	}

	db := connectDB()
	defer db.Close()

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}
	eventPublisher, err := events.NewNatsPublisher(natsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	log.Println("Successfully connected to NATS.")

	userRepo := repository.NewPostgresUserRepository(db)
	tokenRepo := repository.NewPostgresTokenRepository(db)
	taskRepo := repository.NewPostgresTaskRepository(db)

	authService := service.NewAuthService(userRepo, tokenRepo, eventPublisher)
	userService := service.NewUserService(userRepo, tokenRepo, taskRepo, eventPublisher)
	taskService := service.NewTaskService(taskRepo, eventPublisher)

	userHandler := api.NewUserHandler(authService, userService)
	taskHandler := api.NewTaskHandler(taskService)

	app := fiber.New(fiber.Config{
		ErrorHandler: api.ErrorHandler,
		BodyLimit:    4 * 1024 * 1024,
	})
	app.Use(otelfiber.Middleware())
	app.Use(api.PrometheusMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "task-service"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	auth := api.AuthMiddleware(authService)

	app.Post("/users", userHandler.Register)
	app.Post("/users/login", userHandler.Login)
	app.Get("/users/me", auth, userHandler.GetProfile)
	app.Post("/users/logout", auth, userHandler.Logout)
	app.Post("/users/logoutall", auth, userHandler.LogoutAll)
	app.Patch("/users/me", auth, userHandler.UpdateProfile)
	app.Post("/users/me/avatar", auth, userHandler.UploadAvatar)
	app.Delete("/users/me/avatar", auth, userHandler.DeleteAvatar)
	app.Delete("/users/me", auth, userHandler.DeleteProfile)
	app.Get("/users/:id/avatar", userHandler.GetAvatarByID)

	app.Get("/tasks", auth, taskHandler.ListTasks)
	app.Get("/tasks/:id", auth, taskHandler.GetTask)
	app.Post("/tasks", auth, taskHandler.CreateTask)
	app.Patch("/tasks/:id", auth, taskHandler.UpdateTask)
	app.Delete("/tasks/:id", auth, taskHandler.DeleteTask)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8000"
	}

	log.Printf("Listening task-service on port %s", port)
	log.Fatal(app.Listen(":" + port))
}

func connectDB() *sqlx.DB {
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)

	db, err := sqlx.Connect("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Successfully connected to the database.")
	return db
}

func handleMigrations() {
	fmt.Println("Running database migrations...")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	fmt.Println("Migrations applied successfully!")
}
