package handlers

import (
	"errors"
	"log"

	"github.com/Pavanjain1996/Buy-and-Sell/internal/middleware"
	"github.com/Pavanjain1996/Buy-and-Sell/internal/repositories"
	"github.com/Pavanjain1996/Buy-and-Sell/internal/services"
	"github.com/Pavanjain1996/Buy-and-Sell/pkg/imagestore"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ListingHandler handles the session-protected marketplace pages and
// listing mutations.
type ListingHandler struct {
	listingService *services.ListingService
	images         *imagestore.Store
	validate       *validator.Validate
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(listingService *services.ListingService, images *imagestore.Store) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		images:         images,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the protected routes. The router is expected to
// carry the session middleware.
func (h *ListingHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/home", h.HandleHome)
	router.Get("/profile", h.HandleProfile)
	router.Get("/sell", h.HandleSellPage)
	router.Post("/add_product", h.HandleAddProduct)
	router.Get("/marksold/:id", h.HandleMarkSold)
	router.Get("/search", h.HandleSearch)
}

// HandleHome renders the home view for the logged-in user.
func (h *ListingHandler) HandleHome(c *fiber.Ctx) error {
	return c.Render("home", fiber.Map{
		"User": middleware.CurrentUser(c),
	})
}

// HandleProfile renders the user's own listings, newest first.
func (h *ListingHandler) HandleProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	listings, err := h.listingService.ListBySeller(user.Email)
	if err != nil {
		log.Printf("Error loading listings for %s: %v", user.Email, err)
		return err
	}

	return c.Render("profile", fiber.Map{
		"User":     user,
		"Listings": listings,
	})
}

// HandleSellPage renders the sell form.
func (h *ListingHandler) HandleSellPage(c *fiber.Ctx) error {
	return c.Render("sell", fiber.Map{
		"User": middleware.CurrentUser(c),
	})
}

// AddProductRequest represents the sell form, minus the multipart image.
type AddProductRequest struct {
	Name        string `form:"name" validate:"required,max=30"`
	Description string `form:"desc" validate:"required,max=200"`
	Price       int    `form:"price" validate:"min=0"` // required would reject a free listing: 0 is the int zero value
}

// HandleAddProduct saves the uploaded image under its original filename and
// creates the listing. Two uploads with the same filename overwrite each
// other; the listing only records the name.
func (h *ListingHandler) HandleAddProduct(c *fiber.Ctx) error {
	var req AddProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing sell form: %v", err)
		return fiber.NewError(fiber.StatusBadRequest, "invalid form body")
	}

	if err := h.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	file, err := c.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "image file is required")
	}

	src, err := file.Open()
	if err != nil {
		log.Printf("Error opening uploaded image %s: %v", file.Filename, err)
		return err
	}
	defer src.Close()

	filename, err := h.images.Save(file.Filename, src)
	if err != nil {
		log.Printf("Error saving image %s: %v", file.Filename, err)
		return err
	}

	user := middleware.CurrentUser(c)
	if _, err := h.listingService.Create(req.Name, req.Description, filename, req.Price, user); err != nil {
		log.Printf("Error creating listing for %s: %v", user.Email, err)
		return err
	}

	return c.Redirect("/home", fiber.StatusFound)
}

// HandleMarkSold marks one of the user's listings as sold and returns to the
// profile page.
func (h *ListingHandler) HandleMarkSold(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid listing id")
	}

	if _, err := h.listingService.MarkSold(uint(id)); err != nil {
		if errors.Is(err, repositories.ErrListingNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "listing not found")
		}
		log.Printf("Error marking listing %d sold: %v", id, err)
		return err
	}

	return c.Redirect("/profile", fiber.StatusFound)
}

// HandleSearch renders Available listings from other sellers matching the
// search query.
func (h *ListingHandler) HandleSearch(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	query := c.Query("search")

	listings, err := h.listingService.Search(query, user.Email)
	if err != nil {
		log.Printf("Error searching listings for %q: %v", query, err)
		return err
	}

	return c.Render("search", fiber.Map{
		"User":     user,
		"Listings": listings,
		"Query":    query,
	})
}
