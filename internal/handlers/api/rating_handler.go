package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/photoshare/internal/events"
	"github.com/khanghh/photoshare/internal/middlewares"
	"github.com/khanghh/photoshare/internal/ratings"
)

type RatingHandler struct {
	ratingService RatingService
	publisher     events.Publisher
}

type rateImageRequest struct {
	ImageID uint `json:"imageId" form:"imageId"`
	Rate    int  `json:"rate"    form:"rate"`
}

func (h *RatingHandler) PostRating(ctx *fiber.Ctx) error {
	var req rateImageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	user := middlewares.CurrentUser(ctx)
	rating, err := h.ratingService.RateImage(ctx.UserContext(), user.ID, req.ImageID, req.Rate)
	if err != nil {
		return err
	}
	publishEvent(ctx.UserContext(), h.publisher, events.Event{
		Type:       events.EventImageRated,
		UserID:     user.ID,
		ImageID:    rating.ImageID,
		Attributes: map[string]string{"rate": strconv.Itoa(rating.Rate)},
	})
	return ctx.Status(fiber.StatusCreated).JSON(NewDataResponse(newRatingResponse(rating)))
}

func (h *RatingHandler) GetRating(ctx *fiber.Ctx) error {
	ratingID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	rating, err := h.ratingService.GetRating(ctx.UserContext(), ratingID)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(newRatingResponse(rating)))
}

// GetUserImageRating returns the rating a user gave to an image.
func (h *RatingHandler) GetUserImageRating(ctx *fiber.Ctx) error {
	userID, err := paramID(ctx, "userId")
	if err != nil {
		return err
	}
	imageID, err := paramID(ctx, "imageId")
	if err != nil {
		return err
	}
	rating, err := h.ratingService.GetUserImageRating(ctx.UserContext(), userID, imageID)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(newRatingResponse(rating)))
}

func (h *RatingHandler) GetMyRatings(ctx *fiber.Ctx) error {
	user := middlewares.CurrentUser(ctx)
	list, err := h.ratingService.ListUserRatings(ctx.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(mapSlice(list, newRatingResponse)))
}

func (h *RatingHandler) GetImageScore(ctx *fiber.Ctx) error {
	imageID, err := paramID(ctx, "imageId")
	if err != nil {
		return err
	}
	score, err := h.ratingService.ImageScore(ctx.UserContext(), imageID)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(newImageScoreResponse(score)))
}

func (h *RatingHandler) GetTopRated(ctx *fiber.Ctx) error {
	limit, err := queryInt(ctx, "limit", 20)
	if err != nil {
		return err
	}
	list, err := h.ratingService.TopRatedImages(ctx.UserContext(), limit)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(mapSlice(list, func(item *ratings.RatedImage) RatedImageResponse {
		return RatedImageResponse{
			Image:   newImageResponse(item.Image),
			Average: item.Average,
			Count:   item.Count,
		}
	})))
}

func (h *RatingHandler) DeleteRating(ctx *fiber.Ctx) error {
	ratingID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	rating, err := h.ratingService.DeleteRating(ctx.UserContext(), ratingID)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(newRatingResponse(rating)))
}

func NewRatingHandler(ratingService RatingService, publisher events.Publisher) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		publisher:     publisher,
	}
}
