package services

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inkwell-press/backend/database"
	"github.com/inkwell-press/backend/errs"
	"github.com/inkwell-press/backend/models"
	"github.com/inkwell-press/backend/slug"
)

// MaxBlogsPerPage is the fixed page size for blog listings.
const MaxBlogsPerPage = 6

// relatedBlogLimit caps the recency-ordered sample returned next to a
// single blog. There is no topical matching, only recency.
const relatedBlogLimit = 4

// CreateBlogInput carries the fields required to create a blog.
// AuthorID is resolved from the authenticated request, not the body.
type CreateBlogInput struct {
	Title    string              `json:"title" validate:"required"`
	Image    string              `json:"image" validate:"required"`
	Content  string              `json:"content" validate:"required"`
	Category models.BlogCategory `json:"category"`
	AuthorID uint                `json:"authorId" validate:"required"`
}

// BlogList is one page of a filtered listing. TotalPages covers the
// whole filtered set, not just the returned page.
type BlogList struct {
	Blogs      []*models.Blog `json:"blogs"`
	TotalPages int            `json:"totalPages"`
}

type BlogService struct {
	logger   zerolog.Logger
	blogRepo *database.BlogRepo
	userRepo *database.UserRepo
	validate *validator.Validate
}

func NewBlogService(blogRepo *database.BlogRepo, userRepo *database.UserRepo) *BlogService {
	return &BlogService{
		logger:   log.With().Str("serviceName", "blogService").Logger(),
		blogRepo: blogRepo,
		userRepo: userRepo,
		validate: validator.New(),
	}
}

// Create validates the input, resolves the author, assigns the slug at
// persist time and stores the blog. A missing author id rejects the
// request with NotFound; a slug collision comes back as Conflict from
// the unique index on the slug column.
func (s *BlogService) Create(input CreateBlogInput) (*models.Blog, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError("blog", err)
	}

	category := input.Category
	if category == "" {
		category = models.CategoryGeneral
	}
	if !category.Valid() {
		return nil, errs.NewBadRequestErrorWithField("invalid category", "category", string(category))
	}

	author, err := s.userRepo.FindByID(input.AuthorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("author not found")
		}
		return nil, errs.NewDatabaseError("find author for", "blog", err)
	}

	blogSlug := slug.Make(input.Title)
	if blogSlug == "" {
		return nil, errs.NewBadRequestErrorWithField("cannot derive slug", "title", "title must not be empty")
	}

	blog := &models.Blog{
		Title:    input.Title,
		Slug:     blogSlug,
		Image:    input.Image,
		Content:  input.Content,
		Category: category,
		AuthorID: author.ID,
	}

	if err := s.blogRepo.Add(blog); err != nil {
		return nil, errs.NewDatabaseError("create", "blog", err)
	}

	blog.Author = author
	s.logger.Info().Str("slug", blog.Slug).Uint("authorId", author.ID).Msg("blog created")
	return blog, nil
}

// FindOne returns the non-deleted blog with the given slug together
// with up to four other published blogs ordered by recency.
func (s *BlogService) FindOne(slug string) (*models.Blog, []*models.Blog, error) {
	blog, err := s.blogRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errs.NewNotFoundError("blog not found")
		}
		return nil, nil, errs.NewDatabaseError("find", "blog", err)
	}

	related, err := s.blogRepo.FindRelated(blog.ID, relatedBlogLimit)
	if err != nil {
		return nil, nil, errs.NewDatabaseError("find related", "blogs", err)
	}

	return blog, related, nil
}

// List returns one page of blogs. Pages are 1-indexed; anything below
// 1 (including an unspecified page) is treated as page 1. TotalPages
// is computed over the filtered count before paging.
func (s *BlogService) List(status database.BlogStatus, page int, search string) (*BlogList, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * MaxBlogsPerPage

	blogs, total, err := s.blogRepo.List(status, search, offset, MaxBlogsPerPage)
	if err != nil {
		return nil, errs.NewDatabaseError("list", "blogs", err)
	}

	totalPages := int((total + MaxBlogsPerPage - 1) / MaxBlogsPerPage)
	return &BlogList{Blogs: blogs, TotalPages: totalPages}, nil
}

// mutableBlogColumns maps the JSON keys an update payload may carry to
// their column names. The slug is deliberately absent: it is assigned
// once at creation and never recomputed or replaced.
var mutableBlogColumns = map[string]string{
	"title":        "title",
	"image":        "image",
	"content":      "content",
	"category":     "category",
	"published_at": "published_at",
}

// Update merges the provided fields onto the blog with the given slug.
// Omitted fields keep their prior values; a slug key in the payload is
// stripped before the merge.
func (s *BlogService) Update(slug string, fields map[string]any) (*models.Blog, error) {
	blog, err := s.blogRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("blog not found")
		}
		return nil, errs.NewDatabaseError("find", "blog", err)
	}

	columns, err := sanitizeBlogUpdate(fields)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return blog, nil
	}

	if err := s.blogRepo.UpdateColumns(blog, columns); err != nil {
		return nil, errs.NewDatabaseError("update", "blog", err)
	}

	updated, err := s.blogRepo.FindBySlug(slug)
	if err != nil {
		return nil, errs.NewDatabaseError("find updated", "blog", err)
	}
	return updated, nil
}

// Remove soft-deletes the blog with the given slug. The row stays in
// storage with deleted_at set and disappears from every read path.
func (s *BlogService) Remove(slug string) error {
	blog, err := s.blogRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewNotFoundError("blog not found")
		}
		return errs.NewDatabaseError("find", "blog", err)
	}

	if err := s.blogRepo.SoftDelete(blog); err != nil {
		return errs.NewDatabaseError("delete", "blog", err)
	}

	s.logger.Info().Str("slug", slug).Msg("blog soft-deleted")
	return nil
}

// Publish sets published_at to now through the regular update path.
// Publishing an already-live blog just refreshes the timestamp.
func (s *BlogService) Publish(slug string) (*models.Blog, error) {
	return s.Update(slug, map[string]any{"published_at": time.Now()})
}

// sanitizeBlogUpdate keeps only known mutable columns from an update
// payload and normalizes their values. Unknown keys, including "slug",
// are dropped.
func sanitizeBlogUpdate(fields map[string]any) (map[string]any, error) {
	columns := make(map[string]any, len(fields))
	for key, value := range fields {
		column, ok := mutableBlogColumns[key]
		if !ok {
			continue
		}

		switch column {
		case "category":
			raw, ok := value.(string)
			if !ok || !models.BlogCategory(raw).Valid() {
				return nil, errs.NewBadRequestErrorWithField("invalid category", "category", "unknown category value")
			}
			columns[column] = models.BlogCategory(raw)
		case "published_at":
			parsed, err := normalizeTimestamp(value)
			if err != nil {
				return nil, errs.NewBadRequestErrorWithField("invalid timestamp", "published_at", err.Error())
			}
			columns[column] = parsed
		default:
			columns[column] = value
		}
	}
	return columns, nil
}

func normalizeTimestamp(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return v, nil
	case *time.Time:
		return v, nil
	case string:
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, err
		}
		return parsed, nil
	default:
		return nil, errors.New("expected an RFC 3339 timestamp")
	}
}

// validationError maps the first validator failure onto a BadRequest
// with the offending field attached.
func validationError(entity string, err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		field := strings.ToLower(fieldErrs[0].Field()[:1]) + fieldErrs[0].Field()[1:]
		return errs.NewBadRequestErrorWithField(
			"invalid "+entity+" payload", field, fieldErrs[0].Tag()+" constraint failed")
	}
	return errs.NewBadRequestError("invalid " + entity + " payload")
}
