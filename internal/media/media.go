package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alumniconnect/internal/config"
	domain "alumniconnect/internal/model"
)

const avatarQuality = 85

// ObjectStore is the slice of the S3 API the service needs.
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Service moves inline image payloads to Cloudflare R2 and hands back their
// public URLs, so the store keeps short links instead of base64 blobs.
type Service struct {
	objects   ObjectStore // nil keeps payloads inline
	bucket    string
	publicURL string
	log       *zap.Logger
}

// NewService constructs an S3-compatible client for Cloudflare R2. Without R2
// settings the service only validates payloads and keeps them inline.
func NewService(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Service, error) {
	log = log.Named("media")
	if !cfg.MediaConfigured() {
		log.Info("R2 not configured, images stay inline")
		return &Service{log: log}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return NewWithStore(client, cfg.R2BucketName, cfg.R2PublicURL, log), nil
}

// NewWithStore builds a Service on an existing object store.
func NewWithStore(objects ObjectStore, bucket, publicURL string, log *zap.Logger) *Service {
	return &Service{
		objects:   objects,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		log:       log,
	}
}

// Offload returns the value to persist for an image payload: "" for none,
// remote URLs untouched, data URLs uploaded (or kept inline when R2 is off).
func (s *Service) Offload(ctx context.Context, payload string, kind domain.ImageKind) (string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", nil
	}
	if strings.HasPrefix(payload, "http://") || strings.HasPrefix(payload, "https://") {
		return payload, nil
	}

	data, contentType, err := decodeDataURL(payload, domain.MaxImageSizeBytes)
	if err != nil {
		return "", err
	}
	if s.objects == nil {
		return payload, nil
	}

	ext := domain.ImageExt(contentType)
	if kind == domain.ImageAvatar {
		data, err = resizeToJPEG(data, domain.AvatarWidth, domain.AvatarHeight, avatarQuality)
		if err != nil {
			return "", err
		}
		contentType, ext = domain.ContentTypeJPEG, ".jpg"
	}

	key := fmt.Sprintf("%s/%s%s", folderFor(kind), uuid.NewString(), ext)
	if err := s.putObject(ctx, key, data, contentType); err != nil {
		return "", err
	}

	s.log.Debug("image offloaded", zap.String("key", key), zap.Int("bytes", len(data)))
	return fmt.Sprintf("%s/%s", s.publicURL, key), nil
}

func folderFor(kind domain.ImageKind) string {
	switch kind {
	case domain.ImageAvatar:
		return domain.AvatarFolder
	case domain.ImageMessage:
		return domain.MessageImageFolder
	default:
		return domain.PostImageFolder
	}
}

// decodeDataURL parses "data:<mime>;base64,<payload>" with size and type checks.
func decodeDataURL(payload string, maxSize int) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(payload, "data:")
	if !ok {
		return nil, "", domain.ErrInvalidImageData
	}
	header, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", domain.ErrInvalidImageData
	}
	params := strings.Split(header, ";")
	if params[len(params)-1] != "base64" {
		return nil, "", domain.ErrInvalidImageData
	}
	if base64.StdEncoding.DecodedLen(len(encoded)) > maxSize+2 {
		return nil, "", domain.ErrFileTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", domain.ErrInvalidImageData
	}
	if len(data) > maxSize {
		return nil, "", domain.ErrFileTooLarge
	}

	contentType := strings.TrimSpace(params[0])
	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
		contentType, _, _ = strings.Cut(contentType, ";")
	}
	if !domain.IsAllowedImageType(contentType) {
		return nil, "", domain.ErrInvalidImageType
	}
	return data, contentType, nil
}

// resizeToJPEG centers/crops to target size and encodes as JPEG.
func resizeToJPEG(data []byte, width, height, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImageData, err)
	}

	resized := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) putObject(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(domain.ImageCacheControl),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to r2: %w", err)
	}
	return nil
}
