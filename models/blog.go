package models

import (
	"time"

	"gorm.io/gorm"
)

// BlogCategory is the fixed set of categories a blog can belong to.
type BlogCategory string

const (
	CategoryGeneral    BlogCategory = "General"
	CategoryAdventure  BlogCategory = "Adventure"
	CategoryTravel     BlogCategory = "Travel"
	CategoryFashion    BlogCategory = "Fashion"
	CategoryTechnology BlogCategory = "Technology"
)

// Valid reports whether c is one of the known categories.
func (c BlogCategory) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryAdventure, CategoryTravel, CategoryFashion, CategoryTechnology:
		return true
	}
	return false
}

// Blog represents a blog post. A nil PublishedAt means the blog is a
// draft; deletion is soft, the row stays behind with deleted_at set.
type Blog struct {
	ID          uint           `json:"id" db:"id" gorm:"primaryKey"`
	Title       string         `json:"title" db:"title" gorm:"type:text;not null"`
	Slug        string         `json:"slug" db:"slug" gorm:"type:text;not null;unique"`
	Image       string         `json:"image" db:"image" gorm:"type:text;not null"`
	Content     string         `json:"content" db:"content" gorm:"type:text;not null"`
	Category    BlogCategory   `json:"category" db:"category" gorm:"type:text;not null;default:General"`
	AuthorID    uint           `json:"-" db:"author_id"`
	Author      *User          `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID"`
	PublishedAt *time.Time     `json:"published_at" db:"published_at" gorm:"type:timestamp"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at" gorm:"type:timestamp"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" db:"deleted_at" gorm:"index"`
}

// Published reports whether the blog is live.
func (b *Blog) Published() bool {
	return b.PublishedAt != nil
}
