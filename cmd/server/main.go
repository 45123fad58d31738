package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"ctrl-hire/internal/api"
	"ctrl-hire/internal/coach"
	"ctrl-hire/internal/config"
	"ctrl-hire/internal/evaluator"
	"ctrl-hire/internal/httpapi"
	"ctrl-hire/internal/interviewer"
	"ctrl-hire/internal/metrics"
	"ctrl-hire/internal/prompts"
	"ctrl-hire/internal/storage"
)

func main() {
	// .env is optional; the environment may already carry everything.
	_ = godotenv.Load()

	appCfg := config.LoadAppConfig()
	if err := appCfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	cfg, err := config.Load("config/interview.yaml")
	if err != nil {
		log.Printf("WARN: could not load config/interview.yaml (%v), using defaults", err)
		cfg = config.Default()
	}

	persona, err := prompts.LoadPersonaConfig("config/agents.yaml", "config/tasks.yaml")
	if err != nil {
		log.Printf("WARN: could not load persona config (%v), using defaults", err)
		persona = prompts.DefaultPersonaConfig()
	}

	log.Printf("Starting interview orchestrator...")
	log.Printf("HTTP Port: %d", appCfg.Server.Port)
	log.Printf("Model: %s", cfg.Model.Name)
	log.Printf("Session dir: %s", appCfg.SessionDir)

	store := storage.New(appCfg.SessionDir)
	m := metrics.New()
	builder := prompts.NewBuilder(persona, cfg)

	llm := api.NewClient(
		appCfg.OpenRouter.BaseURL,
		appCfg.OpenRouter.APIKey,
		cfg.Model.Name,
		cfg.Model.Temperature,
		cfg.Model.MaxTokens,
		appCfg.OpenRouter.Timeout,
	)

	evalSvc := evaluator.New(llm, store, builder, cfg, m)
	interviewSvc := interviewer.New(llm, store, builder, cfg, m, evalSvc)
	coachSvc := coach.New(llm, store, builder, cfg, m)

	h := httpapi.NewHandler(interviewSvc, coachSvc, m)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf(":%d", appCfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("API started on port %d", appCfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appCfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Orchestrator stopped")
}
