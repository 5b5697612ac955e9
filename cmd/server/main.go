package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	logger "github.com/Easy-Infra-Ltd/easy-logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/authentiq/portal/internal/api"
	"github.com/authentiq/portal/internal/catalog"
	"github.com/authentiq/portal/internal/config"
	"github.com/authentiq/portal/internal/metrics"
	"github.com/authentiq/portal/internal/portal"
	"github.com/authentiq/portal/internal/session"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "authentiq: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Get the executable's directory for config resolution
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	exeDir := filepath.Dir(exePath)

	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	configPath := filepath.Join(exeDir, config.FileName)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// easy-logger takes its level from the environment
	if os.Getenv("LOG_LEVEL") == "" {
		os.Setenv("LOG_LEVEL", cfg.Advanced.LogLevel)
	}
	log := logger.CreateLoggerFromEnv(nil, "blue").With("process", "authentiq")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	store, err := catalog.NewDuckCatalog(ctx, catalog.DefaultFixtures(), log)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog: %w", err)
	}
	defer store.Close()

	visits := session.NewManager(session.Options{
		MaxVisits:      cfg.Session.MaxVisits,
		UploadDelay:    cfg.UploadDelay(),
		VerifyDelay:    cfg.VerifyDelay(),
		PreloaderDelay: cfg.PreloaderDelay(),
		Logger:         log,
		Metrics:        m,
	})

	handlers := api.NewHandlers(&api.Dependencies{
		Visits:  visits,
		Catalog: store,
		Portal:  portal.NewDesk(store, log),
		Version: Version,
		UI: api.UIConfig{
			UploadDelay:    cfg.UploadDelay(),
			VerifyDelay:    cfg.VerifyDelay(),
			PreloaderDelay: cfg.PreloaderDelay(),
		},
		Logger: log,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	if err := api.SetupMiddleware(e, log, cfg.Advanced.VerboseErrors); err != nil {
		return fmt.Errorf("failed to set up renderer: %w", err)
	}

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Skip logging if disabled in config
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			path := c.Request().URL.Path
			return strings.HasSuffix(path, "/keepalive") ||
				strings.HasPrefix(path, "/static/") ||
				path == "/api/health" ||
				path == "/metrics"
		},
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelWarn
			}
			log.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	// Body limit middleware
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 1 && origins[0] == "" {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, api.HeaderVisitID},
		}))
	}

	e.GET("/metrics", echo.WrapHandler(m.Handler()))
	api.RegisterRoutes(e, handlers)
	api.RegisterPageRoutes(e, handlers)

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           AuthentiQ Portal Server                         ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Config:     %-45s║\n", configPath)
	fmt.Printf("║  Listen:     http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.StartServer(s); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	// Background visit cleanup
	g.Go(func() error {
		ticker := time.NewTicker(cfg.CleanupInterval())
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := visits.CleanupOldVisits(cfg.VisitTimeout()); n > 0 {
					log.Info("removed idle visits", "count", n, "active", visits.Count())
				}
				if n := visits.CleanupOldJobs(cfg.VisitTimeout()); n > 0 {
					log.Debug("removed finished jobs", "count", n)
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
