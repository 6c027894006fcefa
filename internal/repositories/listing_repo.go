package repositories

import "github.com/Pavanjain1996/Buy-and-Sell/internal/models"

// ListingRepository defines the interface for listing data access.
type ListingRepository interface {
	Create(listing *models.Listing) error
	GetByID(id uint) (*models.Listing, error)
	// GetBySellerEmail returns a seller's listings ordered by id descending,
	// newest first.
	GetBySellerEmail(email string) ([]models.Listing, error)
	// GetAvailableExcluding returns every Available listing whose seller is
	// not the given email, in natural store order.
	GetAvailableExcluding(email string) ([]models.Listing, error)
	Update(listing *models.Listing) error
}
