package api

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/photoshare/internal/assets"
	"github.com/khanghh/photoshare/internal/auth"
	"github.com/khanghh/photoshare/internal/comments"
	"github.com/khanghh/photoshare/internal/common"
	"github.com/khanghh/photoshare/internal/images"
	"github.com/khanghh/photoshare/internal/ratings"
	"github.com/khanghh/photoshare/internal/tags"
	"github.com/khanghh/photoshare/internal/users"
	"github.com/khanghh/photoshare/model"
)

type errorMapping struct {
	err     error
	code    int
	domain  string
	reason  string
	message string
}

// errorMappings is matched in order, so more specific errors come first.
var errorMappings = []errorMapping{
	{auth.ErrTokenRevoked, fiber.StatusUnauthorized, "auth", "tokenRevoked", "User is not authorized"},
	{auth.ErrInvalidEmail, fiber.StatusUnauthorized, "auth", "invalidEmail", "Invalid email"},
	{auth.ErrInvalidPassword, fiber.StatusUnauthorized, "auth", "invalidPassword", "Invalid password"},
	{auth.ErrBanned, fiber.StatusForbidden, "auth", "banned", "You are banned."},
	{auth.ErrInvalidScope, fiber.StatusUnauthorized, "auth", "invalidScope", "Invalid scope for token"},
	{auth.ErrInvalidCredentials, fiber.StatusUnauthorized, "auth", "invalidCredentials", "Could not validate credentials"},
	{auth.ErrUnknownIdentity, fiber.StatusUnauthorized, "auth", "unknownIdentity", "Unknown identity"},
	{auth.ErrInvalidRefreshToken, fiber.StatusUnauthorized, "auth", "invalidRefreshToken", "Invalid refresh token"},
	{auth.ErrForbidden, fiber.StatusForbidden, "auth", "forbidden", "Operation forbidden"},

	{users.ErrEmailRegistered, fiber.StatusConflict, "users", "accountExists", "Account already exists"},
	{users.ErrUsernameTaken, fiber.StatusConflict, "users", "accountExists", "Account already exists"},
	{users.ErrUserNotFound, fiber.StatusNotFound, "users", "userNotFound", "User not found."},
	{users.ErrCannotModifySelf, fiber.StatusBadRequest, "users", "cannotModifySelf", "You can't change your own ban state or role"},
	{model.ErrUnknownRole, fiber.StatusBadRequest, "users", "unknownRole", "Unknown role"},

	{images.ErrImageNotFound, fiber.StatusNotFound, "images", "imageNotFound", "Image not found"},
	{images.ErrTooManyTags, fiber.StatusBadRequest, "images", "tooManyTags", "Only five tags allowed"},
	{images.ErrNotOwner, fiber.StatusForbidden, "images", "notOwner", "Can`t update someones picture"},
	{images.ErrEmptyFile, fiber.StatusBadRequest, "images", "noFile", "No file provided"},
	{assets.ErrUnsupportedFormat, fiber.StatusUnsupportedMediaType, "images", "unsupportedFormat", "Unsupported image format"},

	{tags.ErrTagNotFound, fiber.StatusNotFound, "tags", "tagNotFound", "Tag not found"},
	{tags.ErrTagExists, fiber.StatusConflict, "tags", "tagExists", "Tag already exists"},

	{comments.ErrCommentNotFound, fiber.StatusNotFound, "comments", "commentNotFound", "No such comment"},
	{comments.ErrNotAuthor, fiber.StatusForbidden, "comments", "notAuthor", "You can't change not your comment"},

	{ratings.ErrRatingNotFound, fiber.StatusNotFound, "ratings", "rateNotFound", "Rate not found"},
	{ratings.ErrOwnImage, fiber.StatusLocked, "ratings", "ownImage", "It`s not possible to rate own image."},
	{ratings.ErrAlreadyRated, fiber.StatusLocked, "ratings", "alreadyRated", "It`s not possible to rate twice."},
}

func findErrorMapping(err error) (errorMapping, bool) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m, true
		}
	}
	return errorMapping{}, false
}

// ErrorHandler renders every error returned by a handler as an APIResponse.
// Errors outside the known set are reported as unavailable.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	if m, ok := findErrorMapping(err); ok {
		if m.code == fiber.StatusUnauthorized {
			ctx.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}
		return ctx.Status(m.code).JSON(NewErrorResponse(m.code, m.message,
			APIErrorDetail{Domain: m.domain, Reason: m.reason, Message: m.message},
		))
	}

	var validationErr *common.ValidationError
	if errors.As(err, &validationErr) {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(NewErrorResponse(
			fiber.StatusUnprocessableEntity, "Invalid input",
			APIErrorDetail{Domain: validationErr.Field, Reason: "invalid", Message: validationErr.Error()},
		))
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(NewErrorResponse(fiberErr.Code, fiberErr.Message))
	}

	slog.Error("Unhandled error", "method", ctx.Method(), "path", ctx.Path(), "error", err)
	return ctx.Status(fiber.StatusServiceUnavailable).JSON(NewErrorResponse(
		fiber.StatusServiceUnavailable, "Service unavailable",
		APIErrorDetail{Domain: "global", Reason: "unavailable", Message: "Service unavailable"},
	))
}
