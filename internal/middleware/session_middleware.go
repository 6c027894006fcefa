package middleware

import (
	"github.com/Pavanjain1996/Buy-and-Sell/internal/models"
	"github.com/Pavanjain1996/Buy-and-Sell/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the cookie that carries the signed session token.
const SessionCookie = "session_token"

// currentUserKey is the locals key under which the resolved user is stored.
const currentUserKey = "current_user"

// SessionRequired resolves the session cookie into the current user once per
// request. Requests without a valid session are redirected to "/" before any
// handler or store operation runs.
func SessionRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(SessionCookie)
		if tokenString == "" {
			return c.Redirect("/", fiber.StatusFound)
		}

		user, err := authService.CurrentUser(tokenString)
		if err != nil {
			return c.Redirect("/", fiber.StatusFound)
		}

		// Store the resolved user in the Fiber context for handlers
		c.Locals(currentUserKey, user)

		return c.Next()
	}
}

// CurrentUser returns the user resolved by SessionRequired, or nil when the
// request carries no session.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(currentUserKey).(*models.User)
	return user
}
