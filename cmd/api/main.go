package main

import (
	"fmt"

	"pdf-study-buddy/config"
	apichat "pdf-study-buddy/internal/api/chat"
	"pdf-study-buddy/internal/api/healthcheck"
	apiquiz "pdf-study-buddy/internal/api/quiz"
	apiupload "pdf-study-buddy/internal/api/upload"
	"pdf-study-buddy/internal/core/llm"
	corequiz "pdf-study-buddy/internal/core/quiz"
	"pdf-study-buddy/internal/middleware"
	"pdf-study-buddy/internal/session"
	"pdf-study-buddy/pkg/logger"

	"github.com/gofiber/fiber/v3"
)

func main() {
	app := fiber.New(fiber.Config{
		AppName:   config.Cfg.Server.AppName,
		BodyLimit: config.Cfg.Server.BodyLimit,
	})
	middleware.Register(app, config.Cfg.Server.Concurrency)

	store := session.NewStore()
	client := llm.NewClient()
	generator := corequiz.NewGenerator(client, config.Cfg.LLM.MaxAttempts)

	// routes
	healthcheck.RegisterRoutes(app)
	apiupload.RegisterRoutes(app, &apiupload.Handler{Store: store, LLM: client})
	apiquiz.RegisterRoutes(app, &apiquiz.Handler{Store: store, Generator: generator})
	apichat.RegisterRoutes(app, &apichat.Handler{Store: store, LLM: client})

	addr := fmt.Sprintf(":%d", config.Cfg.Server.Port)
	logger.Info("%v: listening on %s", config.ModuleServer, addr)
	if err := app.Listen(addr); err != nil {
		logger.Fatal(err, "%v: server error", config.ModuleServer)
	}
}
