package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-press/backend/errs"
)

type fakePresigner struct {
	lastInput   *s3.PutObjectInput
	lastExpires time.Duration
	err         error
}

func (f *fakePresigner) PresignPostObject(ctx context.Context, input *s3.PutObjectInput, optFns ...func(*s3.PresignPostOptions)) (*s3.PresignedPostRequest, error) {
	f.lastInput = input

	var opts s3.PresignPostOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	f.lastExpires = opts.Expires

	if f.err != nil {
		return nil, f.err
	}
	return &s3.PresignedPostRequest{
		URL: "https://test-bucket.s3.amazonaws.com",
		Values: map[string]string{
			"key":             *input.Key,
			"bucket":          *input.Bucket,
			"X-Amz-Algorithm": "AWS4-HMAC-SHA256",
			"X-Amz-Signature": "deadbeef",
			"Policy":          "base64policy",
		},
	}, nil
}

func TestSignedUploadURL(t *testing.T) {
	presigner := &fakePresigner{}
	svc := NewImageService(presigner, "test-bucket")

	upload, err := svc.SignedUploadURL(context.Background(), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "https://test-bucket.s3.amazonaws.com", upload.URL)
	assert.Equal(t, "test-bucket", *presigner.lastInput.Bucket)
	assert.Equal(t, "image/png", *presigner.lastInput.ContentType)
	assert.Equal(t, 300*time.Second, presigner.lastExpires)
	assert.NotEmpty(t, upload.Fields["X-Amz-Signature"])

	key := *presigner.lastInput.Key
	assert.True(t, strings.HasPrefix(key, "blog-images/"), "key was %q", key)
	assert.True(t, strings.HasSuffix(key, ".png"), "key was %q", key)
}

func TestObjectKeyExtensions(t *testing.T) {
	tests := []struct {
		contentType string
		suffix      string
	}{
		{"image/jpeg", ".jpeg"},
		{"image/jpg", ".jpg"},
		{"image/png", ".png"},
		// Unrecognized content types keep the trailing dot with an
		// empty extension.
		{"image/gif", "."},
		{"application/pdf", "."},
	}

	for _, tt := range tests {
		key := objectKey(tt.contentType)
		assert.True(t, strings.HasPrefix(key, "blog-images/"), "key was %q", key)
		assert.True(t, strings.HasSuffix(key, tt.suffix), "objectKey(%q) = %q, want suffix %q", tt.contentType, key, tt.suffix)
	}
}

func TestObjectKeysDiffer(t *testing.T) {
	assert.NotEqual(t, objectKey("image/png"), objectKey("image/png"))
}

func TestSignedUploadURLFailureIsUnprocessable(t *testing.T) {
	presigner := &fakePresigner{err: errors.New("s3 is down")}
	svc := NewImageService(presigner, "test-bucket")

	_, err := svc.SignedUploadURL(context.Background(), "image/png")
	require.Error(t, err)
	assert.True(t, errs.IsUnprocessable(err))

	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 422, apiErr.StatusCode)
}
