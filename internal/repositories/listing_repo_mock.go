package repositories

import (
	"sort"
	"sync"

	"github.com/Pavanjain1996/Buy-and-Sell/internal/models"
)

// MockListingRepository is an in-memory implementation of ListingRepository.
type MockListingRepository struct {
	listings map[uint]models.Listing
	nextID   uint
	mu       sync.RWMutex
}

// NewMockListingRepository creates a new instance of MockListingRepository.
func NewMockListingRepository() *MockListingRepository {
	return &MockListingRepository{
		listings: make(map[uint]models.Listing),
		nextID:   1,
	}
}

// Create adds a new listing, assigning the next id.
func (r *MockListingRepository) Create(listing *models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if listing.ID == 0 {
		listing.ID = r.nextID
		r.nextID++
	} else if listing.ID >= r.nextID {
		r.nextID = listing.ID + 1
	}
	r.listings[listing.ID] = *listing
	return nil
}

// GetByID returns a listing by its id.
func (r *MockListingRepository) GetByID(id uint) (*models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listing, ok := r.listings[id]
	if !ok {
		return nil, ErrListingNotFound
	}
	return &listing, nil
}

// GetBySellerEmail returns a seller's listings ordered by id descending.
func (r *MockListingRepository) GetBySellerEmail(email string) ([]models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listings := make([]models.Listing, 0)
	for _, l := range r.listings {
		if l.SellerEmail == email {
			listings = append(listings, l)
		}
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].ID > listings[j].ID })
	return listings, nil
}

// GetAvailableExcluding returns Available listings from other sellers in id order.
func (r *MockListingRepository) GetAvailableExcluding(email string) ([]models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listings := make([]models.Listing, 0)
	for _, l := range r.listings {
		if l.Status == models.StatusAvailable && l.SellerEmail != email {
			listings = append(listings, l)
		}
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].ID < listings[j].ID })
	return listings, nil
}

// Update modifies an existing listing.
func (r *MockListingRepository) Update(listing *models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.listings[listing.ID]
	if !ok {
		return ErrListingNotFound
	}
	r.listings[listing.ID] = *listing
	return nil
}
