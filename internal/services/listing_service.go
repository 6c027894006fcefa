package services

import (
	"strings"
	"unicode"

	"github.com/Pavanjain1996/Buy-and-Sell/internal/models"
	"github.com/Pavanjain1996/Buy-and-Sell/internal/repositories"
)

// ListingService handles business logic for product listings.
type ListingService struct {
	repo repositories.ListingRepository
}

// NewListingService creates a new ListingService.
func NewListingService(repo repositories.ListingRepository) *ListingService {
	return &ListingService{
		repo: repo,
	}
}

// Create stores a new listing for the given seller. Status starts as
// Available and the seller's name and email are denormalized onto the row.
func (s *ListingService) Create(name, description, image string, price int, seller *models.User) (*models.Listing, error) {
	listing := &models.Listing{
		Name:        name,
		Description: description,
		Image:       image,
		Price:       price,
		Status:      models.StatusAvailable,
		SellerName:  seller.Name,
		SellerEmail: seller.Email,
	}
	if err := s.repo.Create(listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// GetByID retrieves a single listing by its id.
func (s *ListingService) GetByID(id uint) (*models.Listing, error) {
	return s.repo.GetByID(id)
}

// ListBySeller returns a seller's listings, newest first.
func (s *ListingService) ListBySeller(email string) ([]models.Listing, error) {
	return s.repo.GetBySellerEmail(email)
}

// MarkSold flips a listing to Sold. Marking an already-sold listing persists
// the same state again; the observable outcome is idempotent.
func (s *ListingService) MarkSold(id uint) (*models.Listing, error) {
	listing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	listing.Status = models.StatusSold
	if err := s.repo.Update(listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// Search returns Available listings from other sellers whose name contains
// the normalized query. The query is normalized by capitalizing its first
// letter and lower-casing the rest, then matched as a case-sensitive
// substring: "widget" and "WIDGET" both match "Widget-1", neither matches
// "super-widget". Matching runs here rather than in SQL so case sensitivity
// holds on every driver.
func (s *ListingService) Search(query, excludingEmail string) ([]models.Listing, error) {
	query = capitalize(query)

	candidates, err := s.repo.GetAvailableExcluding(excludingEmail)
	if err != nil {
		return nil, err
	}

	results := make([]models.Listing, 0, len(candidates))
	for _, listing := range candidates {
		if strings.Contains(listing.Name, query) {
			results = append(results, listing)
		}
	}
	return results, nil
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
