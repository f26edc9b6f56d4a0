package database

import (
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/inkwell-press/backend/models"
	"github.com/inkwell-press/backend/slug"
)

// blogSeeds are the demo posts inserted by SeedBlogs.
var blogSeeds = []models.Blog{
	{
		Title:    "A Song of Ice and Fire",
		Image:    "https://dummyimage.com/157x100.png/ff4444/ffffff",
		Content:  "A Song of Ice and Fire is a series of epic fantasy novels by the American novelist and screenwriter George R. R. Martin.",
		Category: models.CategoryGeneral,
	},
	{
		Title:    "Crossing the Andes on Foot",
		Image:    "https://dummyimage.com/157x100.png/44ff44/ffffff",
		Content:  "Six weeks, two borders and one very stubborn mule.",
		Category: models.CategoryAdventure,
	},
	{
		Title:    "Slow Trains Through Portugal",
		Image:    "https://dummyimage.com/157x100.png/4444ff/ffffff",
		Content:  "The regional lines nobody recommends are the ones worth riding.",
		Category: models.CategoryTravel,
	},
	{
		Title:    "Linen in Winter",
		Image:    "https://dummyimage.com/157x100.png/ffff44/000000",
		Content:  "Layering rules that survive actual weather.",
		Category: models.CategoryFashion,
	},
	{
		Title:    "Why Your Build Is Slow",
		Image:    "https://dummyimage.com/157x100.png/ff44ff/ffffff",
		Content:  "A field guide to caching, and to the ways it silently stops working.",
		Category: models.CategoryTechnology,
	},
}

// SeedBlogs inserts a demo author and a handful of published blogs.
// It is a no-op when any blog already exists.
func SeedBlogs(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Blog{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("changemenow"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	author := models.User{
		FirstName: "Bruce",
		LastName:  "Wayne",
		Email:     "seed-author@example.com",
		Password:  string(hashed),
	}
	if err := db.Where(models.User{Email: author.Email}).FirstOrCreate(&author).Error; err != nil {
		return err
	}

	for i := range blogSeeds {
		blog := blogSeeds[i]
		blog.Slug = slug.Make(blog.Title)
		blog.AuthorID = author.ID
		publishedAt := time.Now().Add(-time.Duration(i) * time.Hour)
		blog.PublishedAt = &publishedAt
		if err := db.Create(&blog).Error; err != nil {
			return err
		}
	}
	return nil
}
