// Command linkdash serves the URL shortener dashboard.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"linkdash/internal/app"
	"linkdash/internal/client"
	"linkdash/internal/config"
	"linkdash/internal/handlers"
	"linkdash/internal/logger"
	"linkdash/internal/web"
	"linkdash/internal/workspace"

	gfshutdown "github.com/gelmium/graceful-shutdown"
)

const shutdownTimeout = 10 * time.Second

// sweepInterval is how often idle workspaces are looked for.
const sweepInterval = time.Minute

func main() {
	c := config.NewConfig()
	if err := config.Init(c); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	sugar, err := logger.NewLogger()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = sugar.Sync() }()

	renderer, err := web.NewRenderer()
	if err != nil {
		sugar.Fatalf("Failed to parse templates: %v", err)
	}

	api := client.New(c.APIBaseURL, c.RequestTimeout(), sugar)
	workspaces := workspace.NewRegistry(c, api, sugar)
	controller := handlers.NewController(c, api, workspaces, renderer, sugar)

	ctx, cancel := context.WithCancel(context.Background())
	go workspaces.Run(ctx, sweepInterval)

	server := app.CreateServer(c, app.NewRouter(c, controller), sugar)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("Failed to start server: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"dashboard": func(ctx context.Context) error {
				sugar.Info("Graceful shutdown initiated...")
				err := server.Shutdown(ctx)
				cancel()
				workspaces.Close()
				return err
			},
		},
	)

	exitCode := <-wait
	sugar.Infof("Dashboard exited with code: %d", exitCode)
	_ = sugar.Sync()
	os.Exit(exitCode)
}
