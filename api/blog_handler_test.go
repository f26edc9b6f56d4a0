package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/inkwell-press/backend/database"
	"github.com/inkwell-press/backend/models"
)

type stubPresigner struct{}

func (stubPresigner) PresignPostObject(ctx context.Context, input *s3.PutObjectInput, optFns ...func(*s3.PresignPostOptions)) (*s3.PresignedPostRequest, error) {
	return &s3.PresignedPostRequest{
		URL: "https://test-bucket.s3.amazonaws.com",
		Values: map[string]string{
			"key":             *input.Key,
			"bucket":          *input.Bucket,
			"X-Amz-Signature": "deadbeef",
		},
	}, nil
}

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return newRouter(database.New(db), stubPresigner{}, withConfig(map[string]string{
		"JWT_SECRET":    "test-secret",
		"UPLOAD_BUCKET": "test-bucket",
	}))
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), target))
}

func registerAndLogin(t *testing.T, router http.Handler) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/users", "", map[string]string{
		"firstName": "Bruce",
		"lastName":  "Wayne",
		"email":     "bruce@example.com",
		"password":  "correct horse battery staple",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var result struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, rec, &result)
	require.NotEmpty(t, result.Token)
	return result.Token
}

func createTestBlog(t *testing.T, router http.Handler, token, title string) models.Blog {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/blogs", token, map[string]string{
		"title":   title,
		"image":   "https://example.com/cover.png",
		"content": "some content",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var response BlogResponse
	decodeBody(t, rec, &response)
	require.NotNil(t, response.Blog)
	return *response.Blog
}

func TestCreateBlogRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/blogs", "", map[string]string{
		"title":   "No Token",
		"image":   "https://example.com/x.png",
		"content": "content",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateAndGetBlog(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router)

	blog := createTestBlog(t, router, token, "A Song of Ice and Fire")
	assert.True(t, strings.HasPrefix(blog.Slug, "a-song-of-ice-and-fire-"), "slug was %q", blog.Slug)
	require.NotNil(t, blog.Author)
	assert.Equal(t, "bruce@example.com", blog.Author.Email)

	rec := doJSON(t, router, http.MethodGet, "/blogs/"+blog.Slug, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var detail BlogDetailResponse
	decodeBody(t, rec, &detail)
	require.NotNil(t, detail.Blog)
	assert.Equal(t, blog.ID, detail.Blog.ID)
	assert.Empty(t, detail.RelatedBlogs)
}

func TestGetBlogNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/blogs/no-such-slug", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateBlogKeepsSlug(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router)

	blog := createTestBlog(t, router, token, "Original Title")

	rec := doJSON(t, router, http.MethodPatch, "/blogs/"+blog.Slug, token, map[string]string{
		"title": "Edited Title",
		"slug":  "attacker-chosen-slug",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response BlogResponse
	decodeBody(t, rec, &response)
	assert.Equal(t, "Edited Title", response.Blog.Title)
	assert.Equal(t, blog.Slug, response.Blog.Slug)
}

func TestPublishAndListBlogs(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router)

	blog := createTestBlog(t, router, token, "Going Live")

	// Drafts stay out of the LIVE listing.
	rec := doJSON(t, router, http.MethodGet, "/blogs?status=LIVE", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Blogs      []models.Blog `json:"blogs"`
		TotalPages int           `json:"totalPages"`
	}
	decodeBody(t, rec, &list)
	assert.Empty(t, list.Blogs)

	rec = doJSON(t, router, http.MethodGet, "/blogs/publish/"+blog.Slug, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msg MessageResponse
	decodeBody(t, rec, &msg)
	assert.Equal(t, "Blog published successfully", msg.Message)

	rec = doJSON(t, router, http.MethodGet, "/blogs?status=LIVE", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &list)
	require.Len(t, list.Blogs, 1)
	assert.Equal(t, blog.ID, list.Blogs[0].ID)
	assert.NotNil(t, list.Blogs[0].PublishedAt)
	assert.Equal(t, 1, list.TotalPages)
}

func TestListBlogsSearch(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router)

	createTestBlog(t, router, token, "A Song of Ice and Fire")

	rec := doJSON(t, router, http.MethodGet, "/blogs?search=song", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Blogs      []models.Blog `json:"blogs"`
		TotalPages int           `json:"totalPages"`
	}
	decodeBody(t, rec, &list)
	assert.Len(t, list.Blogs, 1)

	rec = doJSON(t, router, http.MethodGet, "/blogs?search=dragons", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &list)
	assert.Empty(t, list.Blogs)
}

func TestListBlogsRejectsBadPage(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/blogs?page=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteBlog(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router)

	blog := createTestBlog(t, router, token, "Short Lived")

	rec := doJSON(t, router, http.MethodDelete, "/blogs/"+blog.Slug, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msg MessageResponse
	decodeBody(t, rec, &msg)
	assert.Equal(t, "Blog deleted successfully", msg.Message)

	rec = doJSON(t, router, http.MethodGet, "/blogs/"+blog.Slug, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/blogs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Blogs []models.Blog `json:"blogs"`
	}
	decodeBody(t, rec, &list)
	assert.Empty(t, list.Blogs)
}

func TestSignedUploadURLEndpoint(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/blogs/upload_url", token, map[string]string{
		"content_type": "image/png",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var upload struct {
		URL    string            `json:"url"`
		Fields map[string]string `json:"fields"`
	}
	decodeBody(t, rec, &upload)
	assert.Equal(t, "https://test-bucket.s3.amazonaws.com", upload.URL)
	assert.True(t, strings.HasPrefix(upload.Fields["key"], "blog-images/"))
	assert.Equal(t, "test-bucket", upload.Fields["bucket"])
}

func TestSignedUploadURLRequiresContentType(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/blogs/upload_url", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	router := newTestRouter(t)
	registerAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "bruce@example.com",
		"password": "correct horse battery staple",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, rec, &result)
	assert.NotEmpty(t, result.Token)
	assert.NotNil(t, result.User.LastLoginDate)

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "bruce@example.com",
		"password": "wrong password",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
