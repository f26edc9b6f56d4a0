package api

import (
	"github.com/inkwell-press/backend/database"
	"github.com/inkwell-press/backend/services"
)

// initializeHandlers creates all services and returns the handlers
// organized in a routeHandlers struct, along with the auth service the
// middleware shares with the user handler.
func initializeHandlers(database database.Database, presigner services.PostPresigner, jwtSecret, bucket string) (*routeHandlers, *services.AuthService) {
	blogService := services.NewBlogService(database.BlogRepo(), database.UserRepo())
	imageService := services.NewImageService(presigner, bucket)
	authService := services.NewAuthService(database.UserRepo(), jwtSecret)

	return &routeHandlers{
		blogHandler:  newBlogHandler(blogService),
		imageHandler: newImageHandler(imageService),
		userHandler:  newUserHandler(authService),
	}, authService
}
