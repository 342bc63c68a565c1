package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/session"

	"underlog/internal/config"
	"underlog/internal/domain"
	"underlog/internal/http/handlers"
	"underlog/internal/http/middleware"
	"underlog/internal/infra/cache"
	"underlog/internal/infra/logging"
)

// Deps carries everything the HTTP layer needs. Wiring happens in main; the
// server only assembles.
type Deps struct {
	Config   config.Config
	Users    domain.UserStore
	Projects domain.ProjectStore
	Images   domain.ImageStore
	Sessions *session.Store
	Renderer handlers.Renderer
	Cache    *cache.PDFCache
}

// New creates and configures the Fiber app.
func New(deps Deps) *fiber.App {
	cfg := deps.Config

	app := fiber.New(fiber.Config{
		Prefork:               cfg.Server.Prefork,
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit(cfg),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Internal Server Error"

			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}

			logging.Warn("Request failed", "path", c.Path(), "status", code, "message", msg)

			return c.Status(code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    code,
					"message": msg,
				},
			})
		},
	})

	middleware.Register(app, cfg)
	registerRoutes(app, deps)

	if cfg.Server.StaticDir != "" {
		app.Static("/", cfg.Server.StaticDir, fiber.Static{Index: "index.html"})
	}

	// Ensure all responses, including 404s, return JSON
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found")
	})

	return app
}

func bodyLimit(cfg config.Config) int {
	limit := cfg.Limits.MaxSVGBytes
	if cfg.Limits.MaxImageBytes > limit {
		limit = cfg.Limits.MaxImageBytes
	}
	if limit <= 0 {
		return 4 * 1024 * 1024
	}
	// headroom for base64 expansion and the JSON envelope
	return limit*2 + 1024
}

// registerRoutes mounts all route handlers to the app.
func registerRoutes(app *fiber.App, deps Deps) {
	auth := &handlers.AuthHandler{Users: deps.Users, Sessions: deps.Sessions}
	app.Post("/register", auth.Register)
	app.Post("/login", auth.Login)
	app.Post("/logout", auth.Logout)

	rh := &handlers.RenderHandler{
		Pipeline:    deps.Renderer,
		Cache:       deps.Cache,
		MaxSVGBytes: deps.Config.Limits.MaxSVGBytes,
	}
	app.Post("/pdf", rh.HandlePDF)
	app.Post("/odt", rh.HandleODT)

	ph := &handlers.ProjectHandler{
		Projects:      deps.Projects,
		Images:        deps.Images,
		MaxImageBytes: deps.Config.Limits.MaxImageBytes,
	}
	api := app.Group("/api", middleware.RequireUser(deps.Sessions))
	api.Get("/projects", ph.List)
	api.Post("/projects", ph.Create)
	api.Get("/projects/:id", ph.Get)
	api.Put("/projects/:id", ph.Update)
	api.Get("/projects/:id/image/:name", ph.GetImage)

	app.Get("/monitor", monitor.New())
}
