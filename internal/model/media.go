package model

import "errors"

const (
	MaxImageSizeBytes  = 5 * 1024 * 1024 // 5MB
	AvatarWidth        = 200
	AvatarHeight       = 200
	AvatarFolder       = "avatars"
	PostImageFolder    = "posts"
	MessageImageFolder = "messages"
	ImageCacheControl  = "public, max-age=31536000" // 1 year
)

// ImageKind selects the storage folder and processing applied to an image.
type ImageKind string

const (
	ImageAvatar  ImageKind = "avatar"
	ImagePost    ImageKind = "post"
	ImageMessage ImageKind = "message"
)

// Supported image content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
)

var allowedImageTypes = map[string]string{
	ContentTypeJPEG: ".jpg",
	ContentTypePNG:  ".png",
	ContentTypeGIF:  ".gif",
	ContentTypeWebP: ".webp",
}

// IsAllowedImageType reports whether the content type can be stored.
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}

// ImageExt returns the file extension used for contentType.
func ImageExt(contentType string) string {
	return allowedImageTypes[contentType]
}

// Error codes for HTTP responses
const (
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidImageType = "INVALID_IMAGE_TYPE"
)

// Domain errors for media operations
var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
	ErrInvalidImageData = errors.New("invalid image data")
)
