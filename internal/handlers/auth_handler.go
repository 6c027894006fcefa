package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/Pavanjain1996/Buy-and-Sell/internal/middleware"
	"github.com/Pavanjain1996/Buy-and-Sell/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles the public pages: landing, registration, login and
// logout.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the public routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleIndex)
	router.Get("/register", h.HandleRegisterPage)
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
	router.Get("/logout", h.HandleLogout)
}

// HandleIndex renders the landing page with the login form.
func (h *AuthHandler) HandleIndex(c *fiber.Ctx) error {
	return c.Render("index", fiber.Map{})
}

// HandleRegisterPage renders the registration form.
func (h *AuthHandler) HandleRegisterPage(c *fiber.Ctx) error {
	return c.Render("register", fiber.Map{})
}

// RegisterRequest represents the registration form.
type RegisterRequest struct {
	Name     string `form:"name" validate:"required,max=20"`
	DOB      string `form:"dob" validate:"required"`
	Email    string `form:"email" validate:"required,max=20"`
	Password string `form:"password" validate:"required"`
}

// HandleRegister creates a new account and redirects to the landing page.
// Registration does not log the user in, and a duplicate email is not
// rejected.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register form: %v", err)
		return fiber.NewError(fiber.StatusBadRequest, "invalid form body")
	}

	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	dob, err := time.Parse("2006-01-02", req.DOB)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "dob must be formatted YYYY-MM-DD")
	}

	if _, err := h.authService.Register(req.Name, dob, req.Email, req.Password); err != nil {
		log.Printf("Error registering user: %v", err)
		return err
	}

	return c.Redirect("/", fiber.StatusFound)
}

// LoginRequest represents the login form.
type LoginRequest struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// HandleLogin authenticates the user and sets the session cookie. Every
// credential failure looks the same to the client: a redirect back to "/".
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login form: %v", err)
		return fiber.NewError(fiber.StatusBadRequest, "invalid form body")
	}

	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Redirect("/", fiber.StatusFound)
		}
		log.Printf("Error during login for %s: %v", req.Email, err)
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
	})
	return c.Redirect("/home", fiber.StatusFound)
}

// HandleLogout clears the session cookie. Calling it without a session is a
// no-op.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.Redirect("/", fiber.StatusFound)
}
