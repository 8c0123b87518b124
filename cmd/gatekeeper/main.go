package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/asca-arts/gatekeeper/docs"
	"github.com/asca-arts/gatekeeper/pkg/app/admin"
	"github.com/asca-arts/gatekeeper/pkg/config"
	"github.com/asca-arts/gatekeeper/pkg/dependency_container"
	infraLogger "github.com/asca-arts/gatekeeper/pkg/infra/logger"
	"github.com/asca-arts/gatekeeper/pkg/infra/prometheus"
	"github.com/asca-arts/gatekeeper/pkg/server"
	"github.com/asca-arts/gatekeeper/pkg/server/router"
	"github.com/asca-arts/gatekeeper/pkg/version"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

// @title Gatekeeper API
// @version 0.1.0
// @description Request throttling and security audit service
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	switch command() {
	case "hash-password":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: gatekeeper hash-password <password>")
			os.Exit(2)
		}
		hash, err := admin.HashPassword(os.Args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(hash)
	case "version":
		info := version.GetInfo()
		fmt.Printf("%s %s (%s, %s)\n", info.AppName, info.Version, info.GoVersion, info.Platform)
	default:
		if err := serve(); err != nil {
			log.Fatalf("gatekeeper: %v", err)
		}
	}
}

func command() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	return "serve"
}

func serve() error {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, closeLogger, err := infraLogger.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer closeLogger()

	prometheus.Initialize(prometheus.MetricsConfig{Enabled: cfg.Metrics.Enabled})

	container, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("failed to build dependencies: %w", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.WithError(err).Error("failed to release dependencies")
		}
	}()

	srv, err := server.NewBaseServer(cfg, logger).WithRouters(
		router.NewAPIRouter(
			container.MiddlewareTransport,
			container.HandlerTransport,
			cfg.Server.BaseURL+"/swagger.json",
		),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	container.Sweeper.Start(gctx)
	g.Go(func() error {
		return srv.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("server gracefully stopped")
	return nil
}
