package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/photoshare/internal/events"
	"github.com/khanghh/photoshare/internal/images"
	"github.com/khanghh/photoshare/internal/middlewares"
)

type ImageHandler struct {
	imageService ImageService
	publisher    events.Publisher
}

type updateImageRequest struct {
	Description string `json:"description" form:"description"`
}

type addTagRequest struct {
	Name string `json:"name" form:"name"`
}

// PostImage uploads the multipart "file" field with an optional
// description and a comma separated tag list.
func (h *ImageHandler) PostImage(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return images.ErrEmptyFile
	}
	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	user := middlewares.CurrentUser(ctx)
	image, err := h.imageService.UploadImage(ctx.UserContext(), images.UploadImageOptions{
		UserID:      user.ID,
		Description: ctx.FormValue("description"),
		Tags:        images.SplitTags(ctx.FormValue("tags")),
		Filename:    fileHeader.Filename,
		Content:     file,
	})
	if err != nil {
		return err
	}
	publishEvent(ctx.UserContext(), h.publisher, events.Event{
		Type:       events.EventImageUploaded,
		UserID:     user.ID,
		ImageID:    image.ID,
		Attributes: map[string]string{"tags": strconv.Itoa(len(image.Tags))},
	})
	return ctx.Status(fiber.StatusCreated).JSON(NewDataResponse(newImageResponse(image)))
}

func (h *ImageHandler) GetImage(ctx *fiber.Ctx) error {
	imageID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	image, err := h.imageService.GetImage(ctx.UserContext(), imageID)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(newImageResponse(image)))
}

// ListImages searches by keyword, tag, owner and minimum average rating,
// newest first.
func (h *ImageHandler) ListImages(ctx *fiber.Ctx) error {
	userID, err := queryUint(ctx, "userId")
	if err != nil {
		return err
	}
	minRating, err := queryFloat(ctx, "minRating")
	if err != nil {
		return err
	}
	limit, err := queryInt(ctx, "limit", 50)
	if err != nil {
		return err
	}
	offset, err := queryInt(ctx, "offset", 0)
	if err != nil {
		return err
	}
	list, err := h.imageService.SearchImages(ctx.UserContext(), images.SearchFilter{
		Keyword:   ctx.Query("keyword"),
		Tag:       ctx.Query("tag"),
		UserID:    userID,
		MinRating: minRating,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(mapSlice(list, newImageResponse)))
}

func (h *ImageHandler) PatchImage(ctx *fiber.Ctx) error {
	imageID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var req updateImageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	image, err := h.imageService.UpdateDescription(ctx.UserContext(), middlewares.CurrentUser(ctx), imageID, req.Description)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(newImageResponse(image)))
}

// PostImageTag attaches a tag to the caller's image.
func (h *ImageHandler) PostImageTag(ctx *fiber.Ctx) error {
	imageID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var req addTagRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	image, err := h.imageService.AddTag(ctx.UserContext(), middlewares.CurrentUser(ctx), imageID, req.Name)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(newImageResponse(image)))
}

func (h *ImageHandler) DeleteImage(ctx *fiber.Ctx) error {
	imageID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	image, err := h.imageService.DeleteImage(ctx.UserContext(), middlewares.CurrentUser(ctx), imageID)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(newImageResponse(image)))
}

func NewImageHandler(imageService ImageService, publisher events.Publisher) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		publisher:    publisher,
	}
}
