package api

import (
	"github.com/gofiber/fiber/v2"
)

type TagHandler struct {
	tagService TagService
}

type tagRequest struct {
	Name string `json:"name" form:"name"`
}

func (h *TagHandler) PostTag(ctx *fiber.Ctx) error {
	var req tagRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	tag, err := h.tagService.CreateTag(ctx.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(NewDataResponse(newTagResponse(tag)))
}

func (h *TagHandler) ListTags(ctx *fiber.Ctx) error {
	list, err := h.tagService.ListTags(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(mapSlice(list, newTagResponse)))
}

func (h *TagHandler) GetTag(ctx *fiber.Ctx) error {
	tagID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	tag, err := h.tagService.GetTag(ctx.UserContext(), tagID)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(newTagResponse(tag)))
}

func (h *TagHandler) GetTagByName(ctx *fiber.Ctx) error {
	tag, err := h.tagService.GetTagByName(ctx.UserContext(), ctx.Params("name"))
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(newTagResponse(tag)))
}

func (h *TagHandler) PutTag(ctx *fiber.Ctx) error {
	tagID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var req tagRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.ErrBadRequest
	}
	tag, err := h.tagService.RenameTag(ctx.UserContext(), tagID, req.Name)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(newTagResponse(tag)))
}

func (h *TagHandler) DeleteTag(ctx *fiber.Ctx) error {
	tagID, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	tag, err := h.tagService.DeleteTag(ctx.UserContext(), tagID)
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(newTagResponse(tag)))
}

func (h *TagHandler) DeleteTagByName(ctx *fiber.Ctx) error {
	tag, err := h.tagService.DeleteTagByName(ctx.UserContext(), ctx.Params("name"))
	if err != nil {
		return err
	}
	return ctx.JSON(NewDataResponse(newTagResponse(tag)))
}

func NewTagHandler(tagService TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}
