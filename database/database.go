package database

import (
	"gorm.io/gorm"

	"github.com/inkwell-press/backend/models"
)

type Database struct {
	blogRepo *BlogRepo
	userRepo *UserRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		blogRepo: NewBlogRepo(db),
		userRepo: NewUserRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) BlogRepo() *BlogRepo {
	return d.blogRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Blog{})
}
