package sessions

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	memoryStorage "github.com/gofiber/storage/memory/v2"
	redisStorage "github.com/gofiber/storage/redis/v2"
	"github.com/rs/xid"

	"underlog/internal/config"
	"underlog/internal/infra/logging"
)

// UserIDKey is the session key holding the authenticated user's id.
const UserIDKey = "user_id"

// NewStore builds the server-side session store. Sessions live in Redis so
// they survive restarts; when Redis is unreachable the store falls back to
// process memory rather than refusing to boot.
func NewStore(cfg config.Config) *session.Store {
	var storage fiber.Storage = memoryStorage.New() // safe default

	if cfg.Cache.RedisHost != "" {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logging.Error("Redis session store init panicked, falling back to memory", "panic", r)
				}
			}()
			storage = redisStorage.New(redisStorage.Config{
				Addrs:    []string{cfg.Cache.RedisHost},
				Database: cfg.Cache.SessionDB,
			})
			logging.Info("Using Redis for sessions", "addr", cfg.Cache.RedisHost, "db", cfg.Cache.SessionDB)
		}()
	}

	return session.New(session.Config{
		Expiration:     time.Duration(cfg.Session.TTL),
		Storage:        storage,
		KeyLookup:      "cookie:underlog_session",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		KeyGenerator: func() string {
			return xid.New().String()
		},
	})
}
