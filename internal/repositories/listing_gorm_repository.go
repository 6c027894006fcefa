package repositories

import (
	"fmt"

	"github.com/Pavanjain1996/Buy-and-Sell/internal/models"

	"gorm.io/gorm"
)

// GORMListingRepository is a GORM implementation of ListingRepository.
type GORMListingRepository struct {
	db *gorm.DB
}

// NewGORMListingRepository creates a new instance of GORMListingRepository.
func NewGORMListingRepository(db *gorm.DB) *GORMListingRepository {
	return &GORMListingRepository{
		db: db,
	}
}

// Create inserts a new listing. The id is assigned by the store.
func (r *GORMListingRepository) Create(listing *models.Listing) error {
	if err := r.db.Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// GetByID retrieves a single listing by its id from the database.
func (r *GORMListingRepository) GetByID(id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.First(&listing, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing by id %d: %w", id, err)
	}
	return &listing, nil
}

// GetBySellerEmail retrieves all listings for a seller, newest first.
func (r *GORMListingRepository) GetBySellerEmail(email string) ([]models.Listing, error) {
	var listings []models.Listing
	if err := r.db.Where("seller_email = ?", email).Order("id desc").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to get listings for seller %s: %w", email, err)
	}
	return listings, nil
}

// GetAvailableExcluding retrieves Available listings from every other seller.
func (r *GORMListingRepository) GetAvailableExcluding(email string) ([]models.Listing, error) {
	var listings []models.Listing
	if err := r.db.Where("status = ? AND seller_email <> ?", models.StatusAvailable, email).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to get available listings: %w", err)
	}
	return listings, nil
}

// Update persists an existing listing in the database.
func (r *GORMListingRepository) Update(listing *models.Listing) error {
	res := r.db.Save(listing)
	if res.Error != nil {
		return fmt.Errorf("failed to update listing: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Save does not return ErrRecordNotFound for a missing row, so we
		// check RowsAffected.
		return ErrListingNotFound
	}
	return nil
}
