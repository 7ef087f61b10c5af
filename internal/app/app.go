// Package app wires configuration, storage, services and handlers into a
// fiber application.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"userdir/internal/config"
	"userdir/internal/database"
	"userdir/internal/handlers"
	"userdir/internal/logging"
	"userdir/internal/middleware"
	"userdir/internal/models"
	"userdir/internal/repositories"
	"userdir/internal/services"
	"userdir/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/streadway/amqp"
	"gorm.io/gorm"
)

// App is the assembled HTTP application and the resources it owns.
type App struct {
	Fiber *fiber.App

	cfg *config.Config
	log logging.Logger
	db  *gorm.DB
	mq  *rabbitmq.Client
}

// NewApp builds the application described by cfg. The returned App must be
// closed with Shutdown.
func NewApp(cfg *config.Config, log logging.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	repo, err := a.openStore()
	if err != nil {
		return nil, err
	}

	var publisher services.EventPublisher
	if cfg.EventsEnabled() {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue}, log)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		a.mq = mq
		publisher = mq

		if err := mq.ConsumeUserEvents(a.auditUserEvent); err != nil {
			// Publishing still works without the audit consumer.
			log.Warn(context.Background(), "failed to start user event consumer", "error", err)
		}
	} else {
		log.Info(context.Background(), "RABBITMQ_URL not set, user events disabled")
	}

	userService := services.NewUserService(repo, publisher, log)
	userHandler := handlers.NewUserHandler(userService)

	f := fiber.New(fiber.Config{
		AppName:      "userdir",
		ErrorHandler: handlers.ErrorHandler(log),
	})
	f.Use(recover.New())
	f.Use(logger.New())
	f.Use(middleware.CORS(cfg.CORSOrigin))

	userHandler.RegisterRoutes(f, middleware.LoginRateLimit(cfg.LoginRateLimit, cfg.LoginRateWindow))
	f.Get("/health", a.handleHealth)

	a.Fiber = f
	return a, nil
}

func (a *App) openStore() (repositories.UserRepository, error) {
	if a.cfg.DatabaseDriver == config.DriverMemory {
		a.log.Info(context.Background(), "using in-memory user store")
		return repositories.NewInMemoryUserRepository(), nil
	}

	db, err := database.Open(a.cfg.DatabaseDriver, a.cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	a.db = db
	a.log.Info(context.Background(), "database ready", "driver", a.cfg.DatabaseDriver)
	return repositories.NewGORMUserRepository(db), nil
}

func (a *App) handleHealth(c *fiber.Ctx) error {
	status, code, dbState := "healthy", fiber.StatusOK, "memory"
	if a.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx, a.db); err != nil {
			status, code, dbState = "unhealthy", fiber.StatusServiceUnavailable, err.Error()
		} else {
			dbState = "connected"
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status":   status,
		"time":     time.Now().Format(time.RFC3339),
		"database": dbState,
	})
}

// auditUserEvent logs every user event read back from the queue.
func (a *App) auditUserEvent(msg amqp.Delivery) error {
	var event models.UserEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		return fmt.Errorf("failed to decode user event: %w", err)
	}
	a.log.Info(context.Background(), "user event",
		"type", event.Type,
		"user_id", event.UserID,
		"username", event.Username,
		"status", event.Status,
		"occurred_at", event.OccurredAt,
	)
	return nil
}

// Listen blocks serving HTTP on the configured port.
func (a *App) Listen() error {
	return a.Fiber.Listen(a.cfg.AppPort)
}

// Shutdown stops the HTTP server and releases the database and RabbitMQ handles.
func (a *App) Shutdown() error {
	var errs []error
	if a.Fiber != nil {
		if err := a.Fiber.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("fiber shutdown: %w", err))
		}
	}
	if err := a.close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) close() error {
	var errs []error
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			errs = append(errs, err)
		}
		a.mq = nil
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
		a.db = nil
	}
	return errors.Join(errs...)
}
