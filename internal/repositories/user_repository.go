package repositories

import "github.com/Pavanjain1996/Buy-and-Sell/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetFirstByEmail(email string) (*models.User, error)
}
