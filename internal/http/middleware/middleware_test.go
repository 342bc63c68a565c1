package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"underlog/internal/config"
	"underlog/internal/infra/sessions"
)

func TestRegister_AddsHealthAndRequestID(t *testing.T) {
	app := fiber.New()
	Register(app, config.Config{})
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	healthReq, _ := http.NewRequest(http.MethodGet, "/livez", nil)
	healthResp, err := app.Test(healthReq)
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	if healthResp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected health endpoint 200, got %d", healthResp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("ping request failed: %v", err)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Fatalf("expected X-Request-Id to be present")
	}
}

func TestRegister_UserRateLimiter(t *testing.T) {
	var cfg config.Config
	cfg.RateLimiter.EnableUserLimiter = true
	cfg.RateLimiter.UserLimit = 2
	cfg.RateLimiter.Interval = config.Duration(time.Minute)

	app := fiber.New()
	Register(app, cfg)
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	var last int
	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("User-Agent", "limit-test")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
		last = resp.StatusCode
	}
	if last != fiber.StatusTooManyRequests {
		t.Fatalf("expected third request limited, got %d", last)
	}
}

func TestRequireUser(t *testing.T) {
	var cfg config.Config
	cfg.Session.TTL = config.Duration(time.Hour)
	store := sessions.NewStore(cfg)

	app := fiber.New()
	app.Post("/login-as", func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return err
		}
		sess.Set(sessions.UserIDKey, int64(7))
		return sess.Save()
	})
	app.Get("/secure", RequireUser(store), func(c *fiber.Ctx) error {
		if UserID(c) != 7 {
			return fiber.NewError(fiber.StatusInternalServerError, "wrong identity")
		}
		return c.SendStatus(fiber.StatusOK)
	})

	anon, _ := http.NewRequest(http.MethodGet, "/secure", nil)
	resp, err := app.Test(anon)
	if err != nil {
		t.Fatalf("anon request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", resp.StatusCode)
	}

	login, _ := http.NewRequest(http.MethodPost, "/login-as", nil)
	loginResp, err := app.Test(login)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	cookie := loginResp.Header.Get("Set-Cookie")
	if cookie == "" {
		t.Fatalf("expected session cookie")
	}

	authed, _ := http.NewRequest(http.MethodGet, "/secure", nil)
	authed.Header.Set("Cookie", cookie)
	authedResp, err := app.Test(authed)
	if err != nil {
		t.Fatalf("authed request failed: %v", err)
	}
	if authedResp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 with session, got %d", authedResp.StatusCode)
	}
}
