package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"golang.org/x/crypto/bcrypt"

	"underlog/internal/domain"
	"underlog/internal/infra/logging"
	"underlog/internal/infra/sessions"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	Users    domain.UserStore
	Sessions *session.Store
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register creates a new account.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var creds credentials
	if err := c.BodyParser(&creds); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if creds.Username == "" || creds.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Username and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		logging.Error("Password hashing failed", "username", creds.Username, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to process registration")
	}

	if _, err := h.Users.CreateUser(c.Context(), creds.Username, string(hash)); err != nil {
		if errors.Is(err, domain.ErrDuplicateName) {
			logging.Warn("Registration attempt for existing username", "username", creds.Username)
			return fiber.NewError(fiber.StatusConflict, "Username may already be taken")
		}
		logging.Error("User insert failed", "username", creds.Username, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to register user")
	}

	logging.Info("User registered", "username", creds.Username)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User registered successfully"})
}

// Login verifies credentials and starts a session.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var creds credentials
	if err := c.BodyParser(&creds); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if creds.Username == "" || creds.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Username and password are required")
	}

	user, err := h.Users.UserByName(c.Context(), creds.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logging.Warn("Login failed: user not found", "username", creds.Username)
			return fiber.NewError(fiber.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
		}
		logging.Error("User lookup failed", "username", creds.Username, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Login failed")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)) != nil {
		logging.Warn("Login failed: incorrect password", "username", creds.Username)
		return fiber.NewError(fiber.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
	}

	sess, err := h.Sessions.Get(c)
	if err != nil {
		logging.Error("Session create failed", "username", creds.Username, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Login failed")
	}
	sess.Set(sessions.UserIDKey, user.ID)
	if err := sess.Save(); err != nil {
		logging.Error("Session save failed", "username", creds.Username, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Login failed")
	}

	logging.Info("User logged in", "username", creds.Username, "user_id", user.ID)
	return c.JSON(fiber.Map{"message": "Login successful"})
}

// Logout destroys the session. Logging out without one is still a success.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.Sessions.Get(c)
	if err == nil {
		if id, ok := sess.Get(sessions.UserIDKey).(int64); ok {
			logging.Info("User logged out", "user_id", id)
		}
		_ = sess.Destroy()
	}
	return c.JSON(fiber.Map{"message": "Logout successful"})
}
