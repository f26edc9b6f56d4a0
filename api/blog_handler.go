package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/inkwell-press/backend/database"
	"github.com/inkwell-press/backend/errs"
	"github.com/inkwell-press/backend/models"
	"github.com/inkwell-press/backend/services"
)

type blogHandler struct {
	responder   Responder
	logger      zerolog.Logger
	blogService *services.BlogService
}

func newBlogHandler(blogService *services.BlogService) blogHandler {
	logger := log.With().Str("handlerName", "blogHandler").Logger()

	return blogHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		blogService: blogService,
	}
}

// BlogResponse wraps a single blog.
type BlogResponse struct {
	Blog *models.Blog `json:"blog"`
}

// BlogDetailResponse wraps a blog and a recency-ordered sample of
// other published blogs.
type BlogDetailResponse struct {
	Blog         *models.Blog   `json:"blog"`
	RelatedBlogs []*models.Blog `json:"relatedBlogs"`
}

// MessageResponse is a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// createBlog creates a new blog for the authenticated author.
func (h blogHandler) createBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input services.CreateBlogInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode blog request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		// The author is always the authenticated user, regardless of
		// what the payload claims.
		authorID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}
		input.AuthorID = authorID

		blog, err := h.blogService.Create(input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSONWithStatus(w, http.StatusCreated, BlogResponse{Blog: blog})
	}
}

// listBlogs returns one page of blogs filtered by publish status and
// an optional title search.
func (h blogHandler) listBlogs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := database.BlogStatus(strings.ToUpper(r.URL.Query().Get("status")))
		search := r.URL.Query().Get("search")

		page := 1
		if rawPage := r.URL.Query().Get("page"); rawPage != "" {
			parsed, err := strconv.Atoi(rawPage)
			if err != nil {
				h.responder.WriteError(w, errs.NewBadRequestErrorWithField("invalid page", "page", "page must be an integer"))
				return
			}
			page = parsed
		}

		list, err := h.blogService.List(status, page, search)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, list)
	}
}

// getBlog returns a blog by slug with its related published blogs.
func (h blogHandler) getBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slugParam := chi.URLParam(r, "slug")
		if slugParam == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		blog, related, err := h.blogService.FindOne(slugParam)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, BlogDetailResponse{Blog: blog, RelatedBlogs: related})
	}
}

// updateBlog merges the provided fields onto an existing blog. The
// slug never changes, even if the payload carries one.
func (h blogHandler) updateBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slugParam := chi.URLParam(r, "slug")
		if slugParam == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		var fields map[string]any
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode blog update body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		blog, err := h.blogService.Update(slugParam, fields)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, BlogResponse{Blog: blog})
	}
}

// deleteBlog soft-deletes a blog by slug.
func (h blogHandler) deleteBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slugParam := chi.URLParam(r, "slug")
		if slugParam == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		if err := h.blogService.Remove(slugParam); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, MessageResponse{Message: "Blog deleted successfully"})
	}
}

// publishBlog stamps published_at on a blog by slug. Re-publishing a
// live blog refreshes the timestamp.
func (h blogHandler) publishBlog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slugParam := chi.URLParam(r, "slug")
		if slugParam == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		if _, err := h.blogService.Publish(slugParam); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, MessageResponse{Message: "Blog published successfully"})
	}
}
