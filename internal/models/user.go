package models

import "time"

// User represents a registered account. Email doubles as the login key but
// is deliberately not unique: duplicate registrations are accepted and
// lookups take the first match in id order.
type User struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Name     string    `json:"name" gorm:"type:varchar(20);not null" validate:"required,max=20"`
	DOB      time.Time `json:"dob" gorm:"not null"`
	Email    string    `json:"email" gorm:"type:varchar(20);not null" validate:"required,max=20"`
	Password string    `gorm:"type:varchar(100);not null"` // bcrypt digest, no json tag for security
}
