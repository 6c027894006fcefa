package models

// Listing statuses. The transition is one-way: Available -> Sold.
const (
	StatusAvailable = "Available"
	StatusSold      = "Sold"
)

// Listing represents a product offered for sale. The seller's identity is
// denormalized onto the row; seller_email is the ownership key and no
// foreign-key constraint ties it back to the users table.
type Listing struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"type:varchar(30);not null" validate:"required,max=30"`
	Description string `json:"desc" gorm:"type:varchar(200);not null" validate:"required,max=200"`
	Image       string `json:"image" gorm:"type:varchar(200);not null"`
	Price       int    `json:"price" gorm:"not null"`
	Status      string `json:"status" gorm:"type:varchar(20);not null;default:'Available'"`
	SellerName  string `json:"seller_name" gorm:"type:varchar(20);not null"`
	SellerEmail string `json:"seller_email" gorm:"type:varchar(30);not null"`
}
