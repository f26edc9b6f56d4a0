package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires all endpoints. Reads are public; every mutation
// sits behind the bearer-token middleware.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		// Public endpoints
		r.Get("/blogs", handlers.blogHandler.listBlogs())
		r.Get("/blogs/{slug}", handlers.blogHandler.getBlog())
		r.Post("/users", handlers.userHandler.register())
		r.Post("/auth/login", handlers.userHandler.login())

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Post("/blogs", handlers.blogHandler.createBlog())
			r.Patch("/blogs/{slug}", handlers.blogHandler.updateBlog())
			r.Delete("/blogs/{slug}", handlers.blogHandler.deleteBlog())
			r.Get("/blogs/publish/{slug}", handlers.blogHandler.publishBlog())
			r.Post("/blogs/upload_url", handlers.imageHandler.signedUploadURL())
		})
	})
}
