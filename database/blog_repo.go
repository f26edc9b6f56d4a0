package database

import (
	"strings"

	"gorm.io/gorm"

	"github.com/inkwell-press/backend/models"
)

// BlogStatus restricts a listing to live or draft blogs. The zero
// value applies no publish-state restriction.
type BlogStatus string

const (
	StatusAny   BlogStatus = ""
	StatusLive  BlogStatus = "LIVE"
	StatusDraft BlogStatus = "DRAFT"
)

type BlogRepo struct {
	db *gorm.DB
}

func NewBlogRepo(db *gorm.DB) *BlogRepo {
	return &BlogRepo{db}
}

// Add inserts a new blog into the database
func (r *BlogRepo) Add(blog *models.Blog) error {
	return r.db.Create(blog).Error
}

// FindBySlug returns the non-deleted blog with the given slug, with
// its author attached.
func (r *BlogRepo) FindBySlug(slug string) (*models.Blog, error) {
	var blog models.Blog
	err := r.db.Preload("Author").Where("slug = ?", slug).First(&blog).Error
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

// FindByIDUnscoped returns a blog by id including soft-deleted rows.
func (r *BlogRepo) FindByIDUnscoped(id uint) (*models.Blog, error) {
	var blog models.Blog
	err := r.db.Unscoped().First(&blog, id).Error
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

// List returns one page of blogs matching the status and search
// filters, plus the total count of the filtered set before paging.
// Filters are conjunctive: not-deleted (implicit through the soft
// delete scope), then publish status, then case-insensitive title
// containment. Ordering is by published_at descending.
func (r *BlogRepo) List(status BlogStatus, search string, offset, limit int) ([]*models.Blog, int64, error) {
	query := r.db.Model(&models.Blog{})

	switch status {
	case StatusLive:
		query = query.Where("published_at IS NOT NULL")
	case StatusDraft:
		query = query.Where("published_at IS NULL")
	}

	if search != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var blogs []*models.Blog
	err := query.
		Preload("Author").
		Order("published_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&blogs).Error
	if err != nil {
		return nil, 0, err
	}

	return blogs, total, nil
}

// FindRelated returns up to limit published blogs other than the one
// with excludeID, most recently published first.
func (r *BlogRepo) FindRelated(excludeID uint, limit int) ([]*models.Blog, error) {
	var blogs []*models.Blog
	err := r.db.
		Where("published_at IS NOT NULL").
		Where("id <> ?", excludeID).
		Order("published_at DESC").
		Limit(limit).
		Find(&blogs).Error
	return blogs, err
}

// UpdateColumns applies the given column values to an existing blog.
func (r *BlogRepo) UpdateColumns(blog *models.Blog, columns map[string]any) error {
	return r.db.Model(blog).Updates(columns).Error
}

// SoftDelete marks the blog as deleted. The row is retained with
// deleted_at set and drops out of all scoped queries.
func (r *BlogRepo) SoftDelete(blog *models.Blog) error {
	return r.db.Delete(blog).Error
}
