package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/inkwell-press/backend/errs"
)

// uploadURLTTL is how long an issued upload grant stays valid.
const uploadURLTTL = 300 * time.Second

// imageKeyPrefix namespaces every uploaded object.
const imageKeyPrefix = "blog-images/"

// uploadExtensions maps the recognized upload content types to file
// extensions. Anything else gets an empty extension, which leaves a
// trailing dot on the object key. That matches what callers already
// rely on, so it stays.
var uploadExtensions = map[string]string{
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
	"image/png":  "png",
}

// PostPresigner is the slice of the S3 presign client the image
// service needs. *s3.PresignClient satisfies it.
type PostPresigner interface {
	PresignPostObject(ctx context.Context, input *s3.PutObjectInput, optFns ...func(*s3.PresignPostOptions)) (*s3.PresignedPostRequest, error)
}

// SignedUpload is a time-boxed direct-upload authorization. Fields
// carry the POST form values (key, policy, credential, signature, ...)
// the client must echo back to the object store.
type SignedUpload struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
}

type ImageService struct {
	logger    zerolog.Logger
	presigner PostPresigner
	bucket    string
}

func NewImageService(presigner PostPresigner, bucket string) *ImageService {
	return &ImageService{
		logger:    log.With().Str("serviceName", "imageService").Logger(),
		presigner: presigner,
		bucket:    bucket,
	}
}

// SignedUploadURL issues a presigned POST grant for a direct image
// upload. A failure from the object store maps to UnprocessableEntity.
func (s *ImageService) SignedUploadURL(ctx context.Context, contentType string) (*SignedUpload, error) {
	key := objectKey(contentType)

	req, err := s.presigner.PresignPostObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignPostOptions) {
		opts.Expires = uploadURLTTL
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to presign upload")
		return nil, errs.NewUnprocessableEntityErrorWithCause("could not issue signed upload URL", err)
	}

	return &SignedUpload{URL: req.URL, Fields: req.Values}, nil
}

// objectKey builds a namespaced object key from a random numeric id,
// the current epoch-millisecond timestamp and the content-type
// extension.
func objectKey(contentType string) string {
	return fmt.Sprintf("%s%d%d.%s",
		imageKeyPrefix,
		rand.Intn(1_000_000_000),
		time.Now().UnixMilli(),
		uploadExtensions[contentType],
	)
}
