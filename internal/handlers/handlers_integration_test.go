package handlers_test

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Pavanjain1996/Buy-and-Sell/internal/handlers"
	"github.com/Pavanjain1996/Buy-and-Sell/internal/middleware"
	"github.com/Pavanjain1996/Buy-and-Sell/internal/models"
	"github.com/Pavanjain1996/Buy-and-Sell/internal/repositories"
	"github.com/Pavanjain1996/Buy-and-Sell/internal/services"
	"github.com/Pavanjain1996/Buy-and-Sell/pkg/imagestore"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp builds a Fiber app for testing with an in-memory SQLite database
// and a temporary upload directory.
func setupApp(t *testing.T) (*fiber.App, string) {
	t.Helper()

	viper.SetDefault("SESSION_SECRET", "test_session_secret")
	viper.AutomaticEnv()
	sessionSecret := viper.GetString("SESSION_SECRET")

	// A named in-memory database keeps each test isolated.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Listing{}))

	uploadDir := t.TempDir()
	images, err := imagestore.New(imagestore.Config{Dir: uploadDir})
	require.NoError(t, err)

	userRepo := repositories.NewGORMUserRepository(db)
	listingRepo := repositories.NewGORMListingRepository(db)

	authService := services.NewAuthService(userRepo, sessionSecret)
	listingService := services.NewListingService(listingRepo)

	authHandler := handlers.NewAuthHandler(authService)
	listingHandler := handlers.NewListingHandler(listingService, images)

	engine := html.New("../../views", ".html")
	app := fiber.New(fiber.Config{Views: engine})

	// Routes are registered in the same order as main: public routes and
	// the health check first, then the session-guarded group.
	authHandler.RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
		})
	})

	protected := app.Group("", middleware.SessionRequired(authService))
	listingHandler.RegisterRoutes(protected)

	return app, uploadDir
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// postForm submits a form-encoded POST and returns the response.
func postForm(t *testing.T, app *fiber.App, path string, form url.Values, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// getWithCookie issues a GET, optionally with a session cookie.
func getWithCookie(t *testing.T, app *fiber.App, path string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// registerAndLogin creates an account and logs in, returning the session cookie.
func registerAndLogin(t *testing.T, app *fiber.App, name, email, password string) *http.Cookie {
	t.Helper()

	resp := postForm(t, app, "/register", url.Values{
		"name":     {name},
		"dob":      {"1990-01-01"},
		"email":    {email},
		"password": {password},
	}, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
	resp.Body.Close()

	resp = postForm(t, app, "/login", url.Values{
		"email":    {email},
		"password": {password},
	}, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/home", resp.Header.Get("Location"))
	defer resp.Body.Close()

	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie && c.Value != "" {
			return c
		}
	}
	t.Fatal("login response did not set a session cookie")
	return nil
}

// sellListing submits the multipart sell form for the given user.
func sellListing(t *testing.T, app *fiber.App, cookie *http.Cookie, name, desc, filename, price string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("name", name))
	require.NoError(t, writer.WriteField("desc", desc))
	require.NoError(t, writer.WriteField("price", price))
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/add_product", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.AddCookie(cookie)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/home", resp.Header.Get("Location"))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestRegisterLoginAndSellFlow(t *testing.T) {
	app, uploadDir := setupApp(t)

	cookie := registerAndLogin(t, app, "Ann", "ann@x", "pw")

	// Authenticated home page renders
	resp := getWithCookie(t, app, "/home", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Ann")

	// Sell a listing; the image lands in the upload directory under its
	// original filename
	sellListing(t, app, cookie, "Bike", "A red bike", "bike.png", "150")
	_, err := os.Stat(filepath.Join(uploadDir, "bike.png"))
	assert.NoError(t, err)

	// Profile shows the new listing as Available
	resp = getWithCookie(t, app, "/profile", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Bike")
	assert.Contains(t, body, models.StatusAvailable)
}

func TestLoginFailureIsUniform(t *testing.T) {
	app, _ := setupApp(t)

	resp := postForm(t, app, "/register", url.Values{
		"name":     {"Ann"},
		"dob":      {"1990-01-01"},
		"email":    {"ann@x"},
		"password": {"pw"},
	}, nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()

	// Wrong password and unregistered email both redirect to "/" with no
	// session cookie
	for _, form := range []url.Values{
		{"email": {"ann@x"}, "password": {"wrong"}},
		{"email": {"nobody@x"}, "password": {"pw"}},
	} {
		resp := postForm(t, app, "/login", form, nil)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
		for _, c := range resp.Cookies() {
			assert.NotEqual(t, middleware.SessionCookie, c.Name)
		}
		resp.Body.Close()
	}
}

func TestUnauthenticatedRedirects(t *testing.T) {
	app, _ := setupApp(t)

	for _, path := range []string{"/home", "/profile", "/sell", "/search"} {
		resp := getWithCookie(t, app, path, nil)
		assert.Equal(t, http.StatusFound, resp.StatusCode, "path %s", path)
		assert.Equal(t, "/", resp.Header.Get("Location"), "path %s", path)
		resp.Body.Close()
	}

	// A garbage session cookie is treated the same as no cookie
	garbage := &http.Cookie{Name: middleware.SessionCookie, Value: "not.a.token"}
	resp := getWithCookie(t, app, "/home", garbage)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	resp.Body.Close()
}

func TestHealthCheckNeedsNoSession(t *testing.T) {
	app, _ := setupApp(t)

	// The health check sits outside the session-guarded group and must
	// answer without a cookie instead of redirecting
	resp := getWithCookie(t, app, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "healthy")
}

func TestSellFreeListing(t *testing.T) {
	app, _ := setupApp(t)

	cookie := registerAndLogin(t, app, "Ann", "ann@x", "pw")

	// A price of zero is a valid listing, not a missing field
	sellListing(t, app, cookie, "Freebie", "Free to a good home", "free.png", "0")

	resp := getWithCookie(t, app, "/profile", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Freebie")
}

func TestMarkSoldFlow(t *testing.T) {
	app, _ := setupApp(t)

	cookie := registerAndLogin(t, app, "Ann", "ann@x", "pw")
	sellListing(t, app, cookie, "Bike", "A red bike", "bike.png", "150")

	// First listing in a fresh database gets id 1
	resp := getWithCookie(t, app, "/marksold/1", cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/profile", resp.Header.Get("Location"))
	resp.Body.Close()

	resp = getWithCookie(t, app, "/profile", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, models.StatusSold)

	// Marking it sold again is still a redirect, state stays Sold
	resp = getWithCookie(t, app, "/marksold/1", cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()

	// A missing listing is a NotFound, not a redirect
	resp = getWithCookie(t, app, "/marksold/999", cookie)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestSearchExcludesOwnListings(t *testing.T) {
	app, _ := setupApp(t)

	annCookie := registerAndLogin(t, app, "Ann", "ann@x", "pw")
	sellListing(t, app, annCookie, "Bike", "A red bike", "bike.png", "150")

	// Ann searching for her own listing finds nothing
	resp := getWithCookie(t, app, "/search?search=bike", annCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, readBody(t, resp), "A red bike")

	// Another user finds it
	bobCookie := registerAndLogin(t, app, "Bob", "bob@x", "pw")
	resp = getWithCookie(t, app, "/search?search=bike", bobCookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Bike")
	assert.Contains(t, body, "Ann")
}

func TestLogoutClearsSession(t *testing.T) {
	app, _ := setupApp(t)

	cookie := registerAndLogin(t, app, "Ann", "ann@x", "pw")

	resp := getWithCookie(t, app, "/logout", cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	cleared := false
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie && c.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared, "logout should clear the session cookie")
	resp.Body.Close()

	// Logout without a session is still a redirect
	resp = getWithCookie(t, app, "/logout", nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()
}

func TestDuplicateEmailFirstMatchWins(t *testing.T) {
	app, _ := setupApp(t)

	// Two accounts with the same email but different passwords both register
	first := postForm(t, app, "/register", url.Values{
		"name":     {"Ann"},
		"dob":      {"1990-01-01"},
		"email":    {"ann@x"},
		"password": {"first-pw"},
	}, nil)
	require.Equal(t, http.StatusFound, first.StatusCode)
	first.Body.Close()

	second := postForm(t, app, "/register", url.Values{
		"name":     {"Ann Two"},
		"dob":      {"1991-02-02"},
		"email":    {"ann@x"},
		"password": {"second-pw"},
	}, nil)
	require.Equal(t, http.StatusFound, second.StatusCode)
	second.Body.Close()

	// Login resolves against the first registration only
	resp := postForm(t, app, "/login", url.Values{
		"email":    {"ann@x"},
		"password": {"first-pw"},
	}, nil)
	assert.Equal(t, "/home", resp.Header.Get("Location"))
	resp.Body.Close()

	resp = postForm(t, app, "/login", url.Values{
		"email":    {"ann@x"},
		"password": {"second-pw"},
	}, nil)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	resp.Body.Close()
}
