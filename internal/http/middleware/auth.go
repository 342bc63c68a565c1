package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"underlog/internal/infra/logging"
	"underlog/internal/infra/sessions"
)

// UserIDLocal is the fiber locals key carrying the verified caller identity.
const UserIDLocal = "user_id"

// RequireUser rejects requests that carry no valid logged-in session and
// exposes the verified user id via c.Locals for downstream handlers.
func RequireUser(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			logging.Error("Session load failed", "path", c.Path(), "error", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized. Please log in.")
		}

		userID, ok := sess.Get(sessions.UserIDKey).(int64)
		if !ok || userID <= 0 {
			if sess.Get(sessions.UserIDKey) != nil {
				// Corrupted session data; drop it so the client can start over.
				_ = sess.Destroy()
			}
			logging.Warn("Unauthorized access attempt", "path", c.Path())
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized. Please log in.")
		}

		c.Locals(UserIDLocal, userID)
		return c.Next()
	}
}

// UserID extracts the verified caller identity placed by RequireUser.
func UserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(UserIDLocal).(int64)
	return id
}
