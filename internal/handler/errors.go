package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"alumniconnect/internal/httputil"
	"alumniconnect/internal/model"
	"alumniconnect/internal/service"
)

const loginFailedMessage = "User not found. Try sarah@example.com or create an account."

// writeServiceError maps domain errors onto HTTP responses. Anything
// unrecognised is logged and reported as a 500 with fallback as message.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, fallback string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		httputil.WriteValidationError(w, ve.Fields)
	case errors.Is(err, model.ErrNameRequired), errors.Is(err, model.ErrEmailRequired):
		httputil.WriteBadRequest(w, "Name and Email are required.")
	case errors.Is(err, model.ErrInvalidEmail):
		httputil.WriteBadRequest(w, "Invalid email address")
	case errors.Is(err, model.ErrEmailExists):
		httputil.WriteConflictWithCode(w, model.CodeEmailExists, "Email already registered")
	case errors.Is(err, model.ErrInvalidCredentials):
		httputil.WriteUnauthorizedWithCode(w, model.CodeInvalidCredentials, loginFailedMessage)
	case errors.Is(err, model.ErrUserNotFound):
		httputil.WriteNotFound(w, "User not found")
	case errors.Is(err, model.ErrPostNotFound):
		httputil.WriteNotFound(w, "Post not found")
	case errors.Is(err, model.ErrNotificationNotFound):
		httputil.WriteNotFound(w, "Notification not found")
	case errors.Is(err, model.ErrNotConnected):
		httputil.WriteError(w, http.StatusForbidden, model.CodeNotConnected, "Posts can only be shared with connections")
	case errors.Is(err, model.ErrSelfConnection):
		httputil.WriteBadRequest(w, "Cannot connect with yourself")
	case errors.Is(err, model.ErrEmptyPost):
		httputil.WriteBadRequestWithCode(w, model.CodeEmptyPost, "Post must have content or an image")
	case errors.Is(err, model.ErrEmptyComment):
		httputil.WriteBadRequest(w, "Comment content is required")
	case errors.Is(err, model.ErrEmptyMessage):
		httputil.WriteBadRequestWithCode(w, model.CodeEmptyMessage, "Message must have content or an image")
	case errors.Is(err, model.ErrFileTooLarge):
		httputil.WriteBadRequestWithCode(w, model.CodeFileTooLarge, "Image exceeds 5MB limit")
	case errors.Is(err, model.ErrInvalidImageType):
		httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Unsupported image type. Allowed: jpeg, png, gif, webp")
	case errors.Is(err, model.ErrInvalidImageData):
		httputil.WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Image must be an http(s) URL or a base64 data URL")
	default:
		log.Error(fallback, zap.Error(err))
		httputil.WriteInternalError(w, fallback)
	}
}
