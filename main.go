package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tasks-api/internal/config"
	"tasks-api/internal/database"
	"tasks-api/internal/events"
	"tasks-api/internal/handlers"
	"tasks-api/internal/monitoring"
	"tasks-api/internal/repositories"
	"tasks-api/internal/routes"
	"tasks-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

type application struct {
	config    *config.Config
	pool      *database.DatabasePool
	publisher events.Publisher
	monitor   *monitoring.Monitor
	scheduler *monitoring.Scheduler
	router    *gin.Engine
	server    *http.Server
}

func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	pool, err := database.NewDatabasePool(database.PoolConfigFromConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := pool.Migrate(); err != nil {
			pool.Close()
			return nil, err
		}
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Events.Enabled {
		publisher = events.NewRedisPublisher(events.RedisConfigFromConfig(cfg), events.DefaultCircuitBreakerConfig())
		log.Printf("Publishing task events to redis channel %q", cfg.Events.Channel)
	}

	monitor := monitoring.NewMonitor(nil, nil)
	monitor.Health().Register(ctx, "database", pool.Health)
	if cfg.Events.Enabled {
		monitor.Health().Register(ctx, "redis", publisher.Health)
	}
	monitor.AddStats("database", pool.Stats)
	monitor.AddStats("events", publisher.Stats)

	scheduler := monitoring.NewScheduler()
	if _, err := scheduler.ScheduleHealthChecks(monitor.Health(), cfg.Monitoring.HealthCheckInterval); err != nil {
		publisher.Close()
		pool.Close()
		return nil, fmt.Errorf("schedule health checks: %w", err)
	}

	taskService := services.NewEventedTaskService(
		services.NewTaskService(repositories.NewTaskRepository(pool.DB)),
		publisher,
	)
	router := routes.NewRouter(handlers.NewTaskHandler(taskService), monitor, cfg.CORS.AllowedOrigins)

	return &application{
		config:    cfg,
		pool:      pool,
		publisher: publisher,
		monitor:   monitor,
		scheduler: scheduler,
		router:    router,
		server: &http.Server{
			Addr:         cfg.GetServerAddr(),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}, nil
}

// run serves until ctx is cancelled, then shuts down.
func (app *application) run(ctx context.Context) error {
	app.scheduler.Start()

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", app.server.Addr)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		app.close()
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
	defer cancel()

	err := app.server.Shutdown(shutdownCtx)
	app.close()
	return err
}

// close releases everything except the HTTP server.
func (app *application) close() {
	app.scheduler.Stop()
	if err := app.publisher.Close(); err != nil {
		log.Printf("Failed to close event publisher: %v", err)
	}
	if err := app.pool.Close(); err != nil {
		log.Printf("Failed to close database pool: %v", err)
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	if err := app.run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
	log.Println("Shutdown complete.")
}
