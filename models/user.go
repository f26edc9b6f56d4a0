package models

import "time"

// User represents a registered author. The password column holds a
// bcrypt hash and is never serialized outward.
type User struct {
	ID            uint       `json:"id" db:"id" gorm:"primaryKey"`
	FirstName     string     `json:"firstName" db:"first_name" gorm:"type:varchar(255);not null"`
	LastName      string     `json:"lastName" db:"last_name" gorm:"type:varchar(255);not null"`
	Email         string     `json:"email" db:"email" gorm:"type:varchar(255);not null;unique"`
	Password      string     `json:"-" db:"password" gorm:"type:varchar(255);not null"`
	LastLoginDate *time.Time `json:"lastLoginDate,omitempty" db:"last_login_date" gorm:"type:timestamp"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at" gorm:"type:timestamp"`
	Blogs         []Blog     `json:"blogs,omitempty" gorm:"foreignKey:AuthorID;references:ID"`
}
