package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Abraxas-365/nccerp/pkg/app"
	"github.com/Abraxas-365/nccerp/pkg/asyncx"
	"github.com/Abraxas-365/nccerp/pkg/config"
	"github.com/Abraxas-365/nccerp/pkg/errx"
	"github.com/Abraxas-365/nccerp/pkg/kernel"
	"github.com/Abraxas-365/nccerp/pkg/logx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

func main() {
	logx.SetDefaultLogger(logx.NewLogger(logx.LoadFromEnv()))
	logx.Info("🚀 Starting NCC ERP API Server...")

	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := app.New(ctx, cfg)
	if err != nil {
		logx.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Cleanup()

	server := newServer(cfg, container)

	workersDone := make(chan struct{})
	if cfg.Jobx.RunInServer {
		go func() {
			defer close(workersDone)
			if err := container.StartBackgroundServices(ctx); err != nil {
				logx.Errorf("Job workers stopped: %v", err)
			}
		}()
	} else {
		close(workersDone)
	}

	startServer(ctx, server, cfg)
	<-workersDone
}

func newServer(cfg *config.Config, container *app.Container) *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:               "NCC ERP API",
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler(cfg.Server.Debug && !cfg.IsProduction()),
		BodyLimit:             cfg.Server.BodyLimit,
		IdleTimeout:           120 * time.Second,
	})

	server.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	server.Use(requestid.New(requestid.Config{
		Header:     "X-Request-ID",
		Generator:  func() string { return "req-" + uuid.NewString() },
		ContextKey: string(kernel.RequestIDKey),
	}))

	server.Use(func(c *fiber.Ctx) error {
		if id, ok := c.Locals(string(kernel.RequestIDKey)).(string); ok {
			c.SetUserContext(context.WithValue(c.UserContext(), kernel.RequestIDKey, id))
		}
		return c.Next()
	})

	server.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(cfg.Server.CORSOrigins, ","),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:  "GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS",
		ExposeHeaders: "X-Request-ID, Content-Disposition",
	}))

	server.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${ip} | ${respHeader:X-Request-ID}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))

	server.Get("/health", healthCheckHandler(cfg, container))
	server.Get("/", infoHandler(cfg))
	server.Get("/api/v1/docs", apiDocsHandler(cfg))

	container.RegisterRoutes(server)

	server.Use(notFoundHandler)
	printRouteSummary()
	return server
}

func healthCheckHandler(cfg *config.Config, container *app.Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := fiber.Map{
			"status":  "healthy",
			"service": "nccerp-api",
			"version": cfg.Server.Version,
		}

		checks := []string{"db", "redis"}
		results := asyncx.AllSettled(c.UserContext(),
			func(ctx context.Context) (struct{}, error) { return struct{}{}, container.DB.PingContext(ctx) },
			func(ctx context.Context) (struct{}, error) { return struct{}{}, container.Redis.Ping(ctx).Err() },
		)
		for i, r := range results {
			name := checks[i]
			if !r.OK() {
				health[name] = "unhealthy"
				health[name+"_error"] = r.Err.Error()
				health["status"] = "degraded"
				continue
			}
			health[name] = "healthy"
		}

		if c.QueryBool("check_storage", false) {
			if exists, err := container.FileSystem.Exists(c.UserContext(), ".health-check"); err != nil {
				health["storage"] = "unhealthy"
				health["storage_error"] = err.Error()
			} else {
				health["storage"] = "healthy"
				health["storage_accessible"] = exists
			}
		}

		if missing := container.Dispatcher.Missing(); len(missing) > 0 {
			health["notifications"] = fiber.Map{"configured": false, "missing": missing}
		} else {
			health["notifications"] = fiber.Map{"configured": true}
		}

		status := fiber.StatusOK
		if health["status"] == "degraded" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(health)
	}
}

func infoHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":     "NCC ERP API",
			"version":     cfg.Server.Version,
			"description": "Camp allocation and cadet selection for NCC units",
			"features": []string{
				"Role dashboards for admin, ANO, clerk and CO",
				"Camp notifications with per-college vacancies",
				"Cadet submission and multi-stage selection",
				"WhatsApp and email broadcasts",
			},
			"endpoints": fiber.Map{
				"docs":   "/api/v1/docs",
				"health": "/health",
			},
		})
	}
}

func apiDocsHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"api_version": "v1",
			"base_url":    fmt.Sprintf("http://localhost:%d/api/v1", cfg.Server.Port),
			"endpoints": fiber.Map{
				"auth": fiber.Map{
					"login": "POST /auth/login",
					"me":    "GET /auth/me",
				},
				"users": fiber.Map{
					"list":     "GET /users",
					"officers": "GET /users/officers/:role",
					"create":   "POST /users",
					"update":   "PUT /users/:id",
					"delete":   "DELETE /users/:id",
				},
				"organisation": fiber.Map{
					"units":     "GET|POST /units, GET|PUT|DELETE /units/:id",
					"colleges":  "GET|POST /colleges, GET|PUT|DELETE /colleges/:id",
					"contacts":  "GET|POST /contacts, PUT|DELETE /contacts/:id",
					"directory": "GET /directory/anos, GET /directory/test, GET /directory/reconcile, POST /directory/refresh",
				},
				"camps": fiber.Map{
					"list":      "GET /camps",
					"published": "GET /camps/published",
					"create":    "POST /camps (multipart)",
					"status":    "PATCH /camps/:id/status",
					"letter":    "GET /camps/:id/letter",
					"vacancies": "GET /camps/vacancies/mine",
				},
				"selection": fiber.Map{
					"submit":    "POST /submissions",
					"track":     "GET /submissions/mine",
					"queue":     "GET /selections/queue",
					"decide":    "PUT /selections/submissions/:id/decision",
					"finalize":  "POST /selections/finalize",
					"finalized": "GET /selections/finalized",
					"institute": "POST|GET /selections/institute, GET /selections/institute/export?id=",
				},
				"documents": fiber.Map{
					"upload":   "POST /documents/:submissionId (multipart: documents)",
					"download": "GET /documents/:submissionId/:index",
				},
				"dashboard": "GET /dashboard",
			},
			"authentication": fiber.Map{
				"types":   []string{"JWT"},
				"headers": fiber.Map{"jwt": "Authorization: Bearer <token>"},
			},
		})
	}
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":      "Route not found",
		"code":       "NOT_FOUND",
		"path":       c.Path(),
		"method":     c.Method(),
		"message":    "The requested endpoint does not exist",
		"request_id": c.GetRespHeader("X-Request-ID"),
	})
}

// globalErrorHandler converts internal errors to standard HTTP responses
func globalErrorHandler(debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		requestID := c.GetRespHeader("X-Request-ID")

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"error":      fe.Message,
				"code":       "FIBER_ERROR",
				"status":     fe.Code,
				"request_id": requestID,
			})
		}

		e := errx.From(err)
		entry := logx.WithFields(logx.Fields{
			"path":       c.Path(),
			"method":     c.Method(),
			"code":       e.Code,
			"request_id": requestID,
		})
		if e.HTTPStatus >= fiber.StatusInternalServerError {
			entry.WithError(err).Error("Request failed")
		} else {
			entry.Debugf("Request rejected: %s", e.Message)
		}

		return c.Status(e.HTTPStatus).JSON(e.ToResponse(requestID, debug))
	}
}

func printRouteSummary() {
	logx.Info("📋 Route Summary:")
	logx.Info("   ├─ Auth & users: /api/v1/auth/*, /api/v1/users/*")
	logx.Info("   ├─ Organisation: /api/v1/units, /colleges, /contacts, /directory")
	logx.Info("   ├─ Camps: /api/v1/camps/*")
	logx.Info("   ├─ Selection: /api/v1/submissions/*, /selections/*, /documents/*")
	logx.Info("   ├─ Dashboard: /api/v1/dashboard")
	logx.Info("   ├─ Health: /health")
	logx.Info("   └─ Docs: /api/v1/docs")
}

// startServer listens until ctx is cancelled, then shuts down gracefully
func startServer(ctx context.Context, server *fiber.App, cfg *config.Config) {
	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	go func() {
		logx.Info(strings.Repeat("=", 61))
		logx.Infof("🚀 Server listening on %s", addr)
		logx.Infof("📚 API Docs: http://localhost%s/api/v1/docs", addr)
		logx.Infof("💚 Health Check: http://localhost%s/health", addr)
		logx.Info(strings.Repeat("=", 61))

		if err := server.Listen(addr); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	logx.Info("🛑 Shutdown signal received, shutting down gracefully...")

	if err := server.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}
	logx.Info("✅ Server exited successfully")
}
